// Package enrich runs bounded-concurrency profile enrichment over a
// set of user ids.
package enrich

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"igstats/pkg/errors"
	"igstats/pkg/logger"
	"igstats/pkg/models"
	"igstats/pkg/retry"
)

// Fetch resolves one user id to a full profile. The closure supplied
// by the caller is expected to consult the session cache first.
type Fetch func(ctx context.Context, id string) (models.Profile, error)

// Progress is invoked after each id completes, in completion order.
type Progress func(done, total int, id string, err error)

// Pool fans enrichment out over a bounded set of workers.
type Pool struct {
	maxWorkers    int
	retryAttempts int
	retryDelay    time.Duration
	logger        logger.Logger
}

// NewPool creates a pool. maxWorkers below 1 becomes 1; retryAttempts
// below 1 becomes 1.
func NewPool(maxWorkers, retryAttempts int, retryDelay time.Duration, log logger.Logger) *Pool {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	if retryAttempts < 1 {
		retryAttempts = 1
	}
	if log == nil {
		log = logger.GetLogger()
	}
	return &Pool{
		maxWorkers:    maxWorkers,
		retryAttempts: retryAttempts,
		retryDelay:    retryDelay,
		logger:        log,
	}
}

type outcome struct {
	id      string
	profile models.Profile
	err     error
}

// Run enriches each unique, non-blank id. Results are returned keyed
// by id. When some ids exhaust their retries the successful profiles
// are still returned, alongside an enrichment_exhausted error naming
// the failed ids.
func (p *Pool) Run(ctx context.Context, ids []string, fetch Fetch, onProgress Progress) (map[string]models.Profile, error) {
	unique := dedupe(ids)
	results := make(map[string]models.Profile, len(unique))
	if len(unique) == 0 {
		return results, nil
	}

	workers := p.maxWorkers
	if workers > len(unique) {
		workers = len(unique)
	}

	jobs := make(chan string, len(unique))
	outcomes := make(chan outcome, len(unique))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for id := range jobs {
				profile, err := p.fetchWithRetry(ctx, id, fetch)
				outcomes <- outcome{id: id, profile: profile, err: err}
			}
		}()
	}

	for _, id := range unique {
		jobs <- id
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	var failed []string
	var lastErr error
	done := 0
	for out := range outcomes {
		done++
		if out.err != nil {
			failed = append(failed, out.id)
			lastErr = out.err
			p.logger.WithField("user_id", out.id).WithError(out.err).Warn("enrichment failed")
		} else {
			results[out.id] = out.profile
		}
		if onProgress != nil {
			onProgress(done, len(unique), out.id, out.err)
		}
	}

	if len(failed) > 0 {
		return results, errors.New(errors.ErrorTypeEnrichmentExhausted,
			"enrichment failed for %d of %d users (%s): %v",
			len(failed), len(unique), strings.Join(failed, ", "), lastErr)
	}
	return results, nil
}

func (p *Pool) fetchWithRetry(ctx context.Context, id string, fetch Fetch) (models.Profile, error) {
	cfg := &retry.Config{
		MaxAttempts: p.retryAttempts,
		Backoff:     &retry.LinearBackoff{BaseDelay: p.retryDelay, Increment: p.retryDelay},
		RetryIf:     retry.DefaultRetryIf,
		Logger:      p.logger,
	}
	profile, err := retry.DoWithResult(ctx, cfg, func() (models.Profile, error) {
		return fetch(ctx, id)
	})
	if err != nil {
		return models.Profile{}, fmt.Errorf("user %s: %w", id, err)
	}
	return profile, nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
