package utils

import (
	"io"
	"sync/atomic"
	"time"
)

// ThroughputWriter counts the bytes written through it and remembers when
// the first byte went out.
type ThroughputWriter struct {
	W           io.Writer
	startedAt   time.Time
	firstByteNs int64
	bytes       int64
}

func NewThroughputWriter(w io.Writer) *ThroughputWriter {
	return &ThroughputWriter{W: w, startedAt: time.Now()}
}

func (t *ThroughputWriter) Write(p []byte) (int, error) {
	if len(p) > 0 && atomic.LoadInt64(&t.firstByteNs) == 0 {
		atomic.CompareAndSwapInt64(&t.firstByteNs, 0, time.Now().UnixNano())
	}
	n, err := t.W.Write(p)
	atomic.AddInt64(&t.bytes, int64(n))
	return n, err
}

// FirstByteLatency is the time from creation to the first write, or zero
// when nothing was written.
func (t *ThroughputWriter) FirstByteLatency() time.Duration {
	ns := atomic.LoadInt64(&t.firstByteNs)
	if ns == 0 {
		return 0
	}
	return time.Unix(0, ns).Sub(t.startedAt)
}

func (t *ThroughputWriter) Bytes() int64 { return atomic.LoadInt64(&t.bytes) }

// BytesPerSecond is the average rate since creation.
func (t *ThroughputWriter) BytesPerSecond() float64 {
	elapsed := time.Since(t.startedAt).Seconds()
	if elapsed <= 0 {
		return 0
	}
	return float64(t.Bytes()) / elapsed
}
