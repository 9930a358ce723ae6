package pipeline

import (
	"context"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// RunAll runs every pipeline on its own goroutine and waits for all of them.
// The first failure cancels the context shared by the others, which disposes
// their subscriptions.
func RunAll(ctx context.Context, pipelines []*DataPipeline) error {
	g, gCtx := errgroup.WithContext(ctx)
	for _, dp := range pipelines {
		g.Go(func() error {
			err := dp.Run(gCtx)
			m := dp.Metrics()
			log.Info().
				Str("pipeline", dp.Name()).
				Uint64("emitted", m.Emitted).
				Uint64("completed", m.Completed).
				Uint64("disposed", m.Disposed).
				AnErr("error", err).
				Msg("pipeline finished")
			return err
		})
	}
	return g.Wait()
}
