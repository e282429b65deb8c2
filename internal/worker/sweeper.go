package worker

import (
	"context"
	"time"

	"github.com/gabriellgomess/condominio-app-sub002/internal/service"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// CompletionSweeper periodically marks confirmed reservations whose end
// instant has passed as completed, so past events stop counting against
// occupancy and read as finished in listings.
type CompletionSweeper struct {
	reservations *service.ReservationService
	schedule     string
	cron         *cron.Cron
}

// NewCompletionSweeper creates a sweeper with a cron schedule expression.
func NewCompletionSweeper(reservations *service.ReservationService, schedule string) *CompletionSweeper {
	return &CompletionSweeper{
		reservations: reservations,
		schedule:     schedule,
		cron:         cron.New(),
	}
}

// Start registers the sweep job and starts the scheduler.
func (s *CompletionSweeper) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.sweep); err != nil {
		return err
	}
	s.cron.Start()
	log.Info().Str("schedule", s.schedule).Msg("Completion sweeper started")
	return nil
}

// Stop stops the scheduler and waits for a running sweep to finish.
func (s *CompletionSweeper) Stop() {
	<-s.cron.Stop().Done()
}

func (s *CompletionSweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	swept, err := s.reservations.CompleteElapsed(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Completion sweep failed")
		return
	}
	if swept > 0 {
		log.Info().Int64("count", swept).Msg("Marked elapsed reservations completed")
	}
}
