package cache

import (
	"log/slog"
	"time"
)

// Sweepable is the subset of cache behavior the sweeper needs.
type Sweepable interface {
	Sweep() int
}

// Sweeper periodically removes expired entries from registered caches.
type Sweeper struct {
	logger *slog.Logger
	caches []Sweepable
	stop   chan struct{}
	done   chan struct{}
}

// NewSweeper creates a sweeper that logs removals through logger.
func NewSweeper(logger *slog.Logger) *Sweeper {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sweeper{
		logger: logger,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// Register adds a cache to be swept. Not safe to call after Start.
func (s *Sweeper) Register(c Sweepable) {
	s.caches = append(s.caches, c)
}

// Start begins sweeping every interval until Stop is called.
func (s *Sweeper) Start(interval time.Duration) {
	go s.run(interval)
}

func (s *Sweeper) run(interval time.Duration) {
	defer close(s.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			removed := 0
			for _, c := range s.caches {
				removed += c.Sweep()
			}
			if removed > 0 {
				s.logger.Debug("Swept expired cache entries", "removed", removed)
			}
		case <-s.stop:
			return
		}
	}
}

// Stop halts the sweep loop and waits for it to exit.
func (s *Sweeper) Stop() {
	close(s.stop)
	<-s.done
}
