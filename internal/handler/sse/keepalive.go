package sse

import (
	"log/slog"
	"time"
)

// KeepAliveWriter writes a keep-alive comment to an open stream
type KeepAliveWriter interface {
	WriteKeepAlive() error
}

// TickerKeepAlive sends keep-alive pings at a fixed interval until stopped
// or a write fails
type TickerKeepAlive struct {
	interval time.Duration
	done     chan struct{}
}

// NewTickerKeepAlive creates a ticker-based keep-alive
func NewTickerKeepAlive(interval time.Duration) *TickerKeepAlive {
	return &TickerKeepAlive{
		interval: interval,
		done:     make(chan struct{}),
	}
}

// Start pings writer every interval. The returned channel closes when the
// keep-alive terminates, either from Stop or a failed write.
func (k *TickerKeepAlive) Start(writer KeepAliveWriter, logger *slog.Logger) <-chan struct{} {
	ticker := time.NewTicker(k.interval)
	stopped := make(chan struct{})

	go func() {
		defer close(stopped)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if err := writer.WriteKeepAlive(); err != nil {
					logger.Debug("keep-alive write failed, stopping", "error", err)
					return
				}
			case <-k.done:
				return
			}
		}
	}()

	return stopped
}

// Stop terminates the keep-alive. Safe to call multiple times.
func (k *TickerKeepAlive) Stop() {
	select {
	case <-k.done:
	default:
		close(k.done)
	}
}
