package config

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

const DefaultConfigFile = "config.yaml"

// Prompt asks for every value on w and reads answers from r line by line.
// Empty or unparsable answers keep the default. When the operator asks to save,
// the chosen file name is returned as savePath, otherwise savePath is empty.
func Prompt(r io.Reader, w io.Writer) (cfg *Config, savePath string, err error) {
	cfg = Default()
	p := &prompter{in: bufio.NewScanner(r), out: w}

	_, _ = fmt.Fprintln(w, "Enter configuration:")
	cfg.Buffer.Size = p.number(fmt.Sprintf("Buffer size (default %d): ", DefaultBufferSize), DefaultBufferSize)
	cfg.Writers.Count = p.number(fmt.Sprintf("Writers count (default %d): ", DefaultWriters), DefaultWriters)
	cfg.Readers.Count = p.number(fmt.Sprintf("Readers count (default %d): ", DefaultReaders), DefaultReaders)
	cfg.Writers.Delay = p.delay(fmt.Sprintf("Write delay (ms, default %d): ", DefaultDelay.Milliseconds()), DefaultDelay)
	cfg.Readers.Delay = p.delay(fmt.Sprintf("Read delay (ms, default %d): ", DefaultDelay.Milliseconds()), DefaultDelay)
	if s, perr := ParseStrategy(p.line("Strategy blocking/stamped (default blocking): ")); perr == nil {
		cfg.Buffer.Strategy = s
	}
	cfg.AdjustConfig()

	if strings.EqualFold(p.line("Save configuration to file? (y/n): "), "y") {
		savePath = p.line(fmt.Sprintf("File name (default %s): ", DefaultConfigFile))
		if savePath == "" {
			savePath = DefaultConfigFile
		}
	}

	if err = p.in.Err(); err != nil {
		return cfg, "", fmt.Errorf("read prompt answers: %w", err)
	}
	return cfg, savePath, nil
}

type prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

func (p *prompter) line(question string) string {
	_, _ = fmt.Fprint(p.out, question)
	if !p.in.Scan() {
		return ""
	}
	return strings.TrimSpace(p.in.Text())
}

func (p *prompter) number(question string, def int) int {
	n, err := strconv.Atoi(p.line(question))
	if err != nil {
		return def
	}
	return n
}

// delay accepts plain milliseconds or a Go duration string.
func (p *prompter) delay(question string, def time.Duration) time.Duration {
	answer := p.line(question)
	if ms, err := strconv.ParseInt(answer, 10, 64); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	if d, err := time.ParseDuration(answer); err == nil {
		return d
	}
	return def
}
