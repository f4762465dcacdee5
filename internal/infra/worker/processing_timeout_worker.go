package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// StaleProcessingExpirer marks document generations stuck for too long.
type StaleProcessingExpirer interface {
	ExpireStaleProcessing(ctx context.Context, olderThan time.Duration) ([]string, error)
}

// DraftPurger descarta rascunhos abandonados.
type DraftPurger interface {
	PurgeIdle(now time.Time) int
}

type ProcessingTimeoutWorker struct {
	contracts    StaleProcessingExpirer
	drafts       DraftPurger
	timeout      time.Duration
	tickInterval time.Duration
	now          func() time.Time
}

func NewProcessingTimeoutWorker(contracts StaleProcessingExpirer, drafts DraftPurger, timeout time.Duration) *ProcessingTimeoutWorker {
	if timeout <= 0 {
		timeout = 30 * time.Minute
	}
	return &ProcessingTimeoutWorker{
		contracts:    contracts,
		drafts:       drafts,
		timeout:      timeout,
		tickInterval: 1 * time.Minute,
		now:          time.Now,
	}
}

func (w *ProcessingTimeoutWorker) Start(ctx context.Context) {
	log.Info().Dur("timeout", w.timeout).Msg("processing timeout worker iniciado")

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	w.tick(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("processing timeout worker encerrado")
			return
		case <-ticker.C:
			w.tick(ctx)
		}
	}
}

func (w *ProcessingTimeoutWorker) tick(ctx context.Context) {
	ids, err := w.contracts.ExpireStaleProcessing(ctx, w.timeout)
	if err != nil {
		log.Error().Err(err).Msg("erro ao expirar gerações paradas")
	}
	for _, id := range ids {
		log.Warn().Str("contract_id", id).Msg("geração de documento expirada")
	}

	if w.drafts != nil {
		if n := w.drafts.PurgeIdle(w.now()); n > 0 {
			log.Info().Int("drafts", n).Msg("rascunhos inativos descartados")
		}
	}
}
