package bookings

import (
	"context"
	"log"
	"time"

	"parkly/internal/shared/config"

	"github.com/robfig/cron/v3"
)

// Sweeper runs the periodic expiry pass over the booking ledger. The sweep
// itself is idempotent, so an overlapping manual refresh-availability call
// is harmless.
type Sweeper struct {
	service Service
	spec    string
	cron    *cron.Cron
	done    chan struct{}
}

// NewSweeper creates a sweeper from the configured cron spec.
func NewSweeper(service Service, cfg config.SweeperConfig) *Sweeper {
	return &Sweeper{
		service: service,
		spec:    cfg.CronSpec,
		done:    make(chan struct{}),
	}
}

// Start schedules the sweep and returns once the scheduler is running.
func (s *Sweeper) Start(ctx context.Context) error {
	s.cron = cron.New()

	_, err := s.cron.AddFunc(s.spec, func() {
		s.runOnce(ctx)
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	log.Printf("Expiry sweeper started with spec %q", s.spec)

	go func() {
		select {
		case <-ctx.Done():
		case <-s.done:
		}
		s.cron.Stop()
	}()

	return nil
}

// Stop halts the scheduler. A sweep already in flight finishes.
func (s *Sweeper) Stop() {
	close(s.done)
	log.Println("Expiry sweeper stopped")
}

func (s *Sweeper) runOnce(ctx context.Context) {
	sweepCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	expired, err := s.service.SweepExpired(sweepCtx)
	if err != nil {
		log.Printf("Error sweeping expired bookings: %v", err)
		return
	}

	if expired > 0 {
		log.Printf("Expired %d stale bookings", expired)
	}
}
