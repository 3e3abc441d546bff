package leaseintel

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"apartmentiq-workers/internal/common/logger"
	"apartmentiq-workers/internal/common/metrics"
	"apartmentiq-workers/internal/dealscore"
)

const defaultConcurrency = 4

// FetchAll queries the source once per property with at most concurrency
// requests in flight. Results keep the order of propertyIDs; properties the
// source has no record for are skipped. The first error cancels the rest.
func FetchAll(ctx context.Context, src Source, propertyIDs []string, concurrency int, log logger.Logger) ([]dealscore.LeaseIntel, error) {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}

	ids := dedupe(propertyIDs)
	results := make([][]dealscore.LeaseIntel, len(ids))

	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			records, err := src.Fetch(gctx, []string{id})
			if err != nil {
				return err
			}
			for _, r := range records {
				if r.PropertyID == id {
					results[i] = append(results[i], r)
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		metrics.LeaseIntelFetches.WithLabelValues(src.Name(), outcome(err)).Inc()
		log.Warn("Lease intel fetch failed", map[string]interface{}{
			"source":     src.Name(),
			"properties": len(ids),
			"error":      err.Error(),
		})
		return nil, err
	}

	out := make([]dealscore.LeaseIntel, 0, len(ids))
	for _, r := range results {
		out = append(out, r...)
	}

	metrics.LeaseIntelFetches.WithLabelValues(src.Name(), "success").Inc()
	log.Debug("Lease intel fetched", map[string]interface{}{
		"source":     src.Name(),
		"requested":  len(ids),
		"found":      len(out),
		"durationMs": time.Since(start).Milliseconds(),
	})
	return out, nil
}

func outcome(err error) string {
	switch {
	case errors.Is(err, ErrInvalidPayload):
		return "invalid"
	case errors.Is(err, ErrSearchTimeout):
		return "timeout"
	default:
		return "error"
	}
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
