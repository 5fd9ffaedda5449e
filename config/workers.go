package config

import "time"

type WorkersCfg struct {
	// Count is the number of concurrent tasks of this kind.
	Count int `yaml:"count"`

	// Delay is the target interval of one iteration. When an operation takes less,
	// the task sleeps for the remainder. Zero means no pacing.
	Delay time.Duration `yaml:"delay"`
}

type ShutdownCfg struct {
	// Timeout bounds how long the supervisor waits for tasks after cancellation.
	Timeout time.Duration `yaml:"timeout"`
}

type TelemetryCfg struct {
	// Interval between two telemetry log lines.
	Interval time.Duration `yaml:"interval"`
}

func (cfg *TelemetryCfg) Enabled() bool {
	return cfg != nil
}
