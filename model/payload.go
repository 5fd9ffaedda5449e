package model

import (
	"encoding/binary"
	"fmt"
	"github.com/google/uuid"
	"github.com/zeebo/xxh3"
	"sync"
	"time"
	"unsafe"
)

// Payload is the unit writers put into the buffer and readers take out of it.
type Payload struct {
	ID        uuid.UUID
	WriterID  int
	Seq       uint64
	Data      string
	CreatedAt time.Time
	Sum       uint64
}

var hasherPool = sync.Pool{New: func() any { return xxh3.New() }}

func NewPayload(writerID int, seq uint64, now time.Time) *Payload {
	data := fmt.Sprintf("data from writer %d (%d)", writerID, now.UnixMilli())
	return &Payload{
		ID:        uuid.New(),
		WriterID:  writerID,
		Seq:       seq,
		Data:      data,
		CreatedAt: now,
		Sum:       checksum(writerID, seq, data),
	}
}

// Verify reports whether the payload still matches the checksum computed by its writer.
func (p *Payload) Verify() bool {
	return p != nil && p.Sum == checksum(p.WriterID, p.Seq, p.Data)
}

func (p *Payload) String() string {
	if p == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s #%d %q", p.ID, p.Seq, p.Data)
}

func checksum(writerID int, seq uint64, data string) uint64 {
	hasher := hasherPool.Get().(*xxh3.Hasher)
	hasher.Reset()

	var hdr [16]byte
	binary.LittleEndian.PutUint64(hdr[:8], uint64(writerID))
	binary.LittleEndian.PutUint64(hdr[8:], seq)
	_, _ = hasher.Write(hdr[:])
	_, _ = hasher.Write(unsafe.Slice(unsafe.StringData(data), len(data)))
	sum := hasher.Sum64()

	hasherPool.Put(hasher)
	return sum
}
