package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/PabloGalante/lumen-console/internal/domain"
)

// DefaultMinDuration is how long a capture must stay open before it can be
// finalized. It keeps a start immediately followed by a stop from racing the
// device into a zero-length capture.
const DefaultMinDuration = 600 * time.Millisecond

var errFinalized = errors.New("capture already finalized")

// Capture is a two-phase recording resource: Acquire opens the device,
// Finalize drains it into one payload. The device handle is released on
// every exit path.
type Capture struct {
	stream      domain.AudioStream
	startedAt   time.Time
	minDuration time.Duration

	releaseOnce sync.Once
	finalized   bool
}

// Acquire opens the audio source and starts a capture. A minDuration of zero
// falls back to DefaultMinDuration.
func Acquire(ctx context.Context, source domain.AudioSource, minDuration time.Duration) (*Capture, error) {
	if minDuration <= 0 {
		minDuration = DefaultMinDuration
	}

	stream, err := source.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("opening audio source: %w", err)
	}

	return &Capture{
		stream:      stream,
		startedAt:   time.Now(),
		minDuration: minDuration,
	}, nil
}

// Finalize waits out the minimum capture duration, drains the stream into a
// single payload and releases the device. A zero-length payload is a valid
// outcome, not an error.
func (c *Capture) Finalize() ([]byte, error) {
	if c.finalized {
		return nil, errFinalized
	}
	c.finalized = true
	defer c.Release()

	if wait := c.minDuration - time.Since(c.startedAt); wait > 0 {
		time.Sleep(wait)
	}

	var buf bytes.Buffer
	for {
		chunk, err := c.stream.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("draining audio stream: %w", err)
		}
		buf.Write(chunk)
	}
	return buf.Bytes(), nil
}

// Release stops the underlying device tracks. Safe to call more than once
// and after Finalize; used directly on teardown paths.
func (c *Capture) Release() {
	c.releaseOnce.Do(func() {
		_ = c.stream.Close()
	})
}
