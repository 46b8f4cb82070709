// Package downloader executes download plans with a bounded worker
// pool: each asset is fetched, rate limited and written through the
// storage manager.
package downloader

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"igstats/pkg/logger"
	"igstats/pkg/models"
	"igstats/pkg/ratelimit"
)

// Job is one asset to fetch plus its destination filename.
type Job struct {
	Asset    models.Asset
	Filename string
}

// Result reports one finished job.
type Result struct {
	Job      Job
	Success  bool
	Skipped  bool
	Error    error
	Duration time.Duration
	Size     int64
}

// AssetFetcher fetches one binary asset by URL.
type AssetFetcher interface {
	DownloadAsset(ctx context.Context, url string) (io.ReadCloser, error)
}

// AssetStorage persists fetched assets.
type AssetStorage interface {
	IsStored(filename string) bool
	SaveAsset(r io.Reader, filename string) error
}

// WorkerPool runs download jobs over a bounded set of workers.
type WorkerPool struct {
	numWorkers  int
	jobQueue    chan Job
	resultQueue chan Result
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc
	fetcher     AssetFetcher
	storage     AssetStorage
	rateLimiter ratelimit.Limiter
	logger      logger.Logger
}

// NewWorkerPool creates a download worker pool.
func NewWorkerPool(
	numWorkers int,
	fetcher AssetFetcher,
	storage AssetStorage,
	rateLimiter ratelimit.Limiter,
	log logger.Logger,
) *WorkerPool {
	if numWorkers < 1 {
		numWorkers = 1
	}
	ctx, cancel := context.WithCancel(context.Background())

	if log == nil {
		log = logger.GetLogger()
	}

	return &WorkerPool{
		numWorkers:  numWorkers,
		jobQueue:    make(chan Job, numWorkers*2),
		resultQueue: make(chan Result, numWorkers),
		ctx:         ctx,
		cancel:      cancel,
		fetcher:     fetcher,
		storage:     storage,
		rateLimiter: rateLimiter,
		logger:      log,
	}
}

// Start launches the workers.
func (wp *WorkerPool) Start() {
	wp.logger.InfoWithFields("starting download pool", map[string]interface{}{
		"num_workers": wp.numWorkers,
	})

	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
}

// Stop drains the queue, waits for workers and closes the result
// channel.
func (wp *WorkerPool) Stop() {
	close(wp.jobQueue)
	wp.wg.Wait()
	close(wp.resultQueue)
	wp.cancel()
}

// Submit adds a job to the queue.
func (wp *WorkerPool) Submit(job Job) error {
	select {
	case wp.jobQueue <- job:
		return nil
	case <-wp.ctx.Done():
		return fmt.Errorf("download pool is shutting down")
	}
}

// Results returns the channel of finished jobs.
func (wp *WorkerPool) Results() <-chan Result {
	return wp.resultQueue
}

func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()

	for job := range wp.jobQueue {
		select {
		case <-wp.ctx.Done():
			return
		default:
		}

		result := wp.processJob(job, id)

		select {
		case wp.resultQueue <- result:
		case <-wp.ctx.Done():
			return
		}
	}
}

func (wp *WorkerPool) processJob(job Job, workerID int) Result {
	start := time.Now()
	result := Result{Job: job}

	if wp.storage.IsStored(job.Filename) {
		wp.logger.DebugWithFields("asset already stored", map[string]interface{}{
			"worker_id": workerID,
			"filename":  job.Filename,
		})
		result.Success = true
		result.Skipped = true
		result.Duration = time.Since(start)
		return result
	}

	if wp.rateLimiter != nil {
		if err := wp.rateLimiter.Wait(wp.ctx); err != nil {
			result.Error = err
			result.Duration = time.Since(start)
			return result
		}
	}

	body, err := wp.fetcher.DownloadAsset(wp.ctx, job.Asset.URL)
	if err != nil {
		result.Error = fmt.Errorf("download failed: %w", err)
		result.Duration = time.Since(start)

		wp.logger.ErrorWithFields("asset download failed", map[string]interface{}{
			"worker_id": workerID,
			"filename":  job.Filename,
			"error":     err.Error(),
		})
		return result
	}
	defer body.Close()

	counted := &countingReader{reader: body}
	if err := wp.storage.SaveAsset(counted, job.Filename); err != nil {
		result.Error = fmt.Errorf("save failed: %w", err)
		result.Duration = time.Since(start)

		wp.logger.ErrorWithFields("asset save failed", map[string]interface{}{
			"worker_id": workerID,
			"filename":  job.Filename,
			"error":     err.Error(),
		})
		return result
	}

	result.Success = true
	result.Size = counted.n
	result.Duration = time.Since(start)

	wp.logger.DebugWithFields("asset downloaded", map[string]interface{}{
		"worker_id": workerID,
		"filename":  job.Filename,
		"size":      result.Size,
		"duration":  result.Duration,
	})
	return result
}

type countingReader struct {
	reader io.Reader
	n      int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.reader.Read(p)
	c.n += int64(n)
	return n, err
}

// ExecutePlan runs every asset of a plan through a fresh pool and
// returns the results in completion order.
func ExecutePlan(
	plan *models.DownloadPlan,
	numWorkers int,
	fetcher AssetFetcher,
	storage AssetStorage,
	rateLimiter ratelimit.Limiter,
	log logger.Logger,
) []Result {
	if plan == nil || len(plan.Assets) == 0 {
		return nil
	}
	if numWorkers > len(plan.Assets) {
		numWorkers = len(plan.Assets)
	}

	pool := NewWorkerPool(numWorkers, fetcher, storage, rateLimiter, log)
	pool.Start()

	go func() {
		for _, asset := range plan.Assets {
			_ = pool.Submit(Job{Asset: asset, Filename: PlanFilename(plan, asset)})
		}
		pool.Stop()
	}()

	var results []Result
	for result := range pool.Results() {
		results = append(results, result)
	}
	return results
}

// PlanFilename derives a stable destination filename for an asset
// within its plan.
func PlanFilename(plan *models.DownloadPlan, asset models.Asset) string {
	label := plan.TargetLabel
	if label == "" {
		label = plan.Kind
	}

	switch plan.Kind {
	case models.DownloadKindMediaAudio:
		return fmt.Sprintf("%s_audio%s", label, asset.Extension)
	case models.DownloadKindStories:
		if asset.StoryID != "" {
			return fmt.Sprintf("%s_story_%s%s", label, asset.StoryID, asset.Extension)
		}
		return fmt.Sprintf("%s_story_%d%s", label, asset.Index, asset.Extension)
	case models.DownloadKindHighlights:
		if asset.StoryID != "" {
			return fmt.Sprintf("%s_highlight_%s_%s%s", label, asset.HighlightID, asset.StoryID, asset.Extension)
		}
		return fmt.Sprintf("%s_highlight_%s_%d%s", label, asset.HighlightID, asset.Index, asset.Extension)
	default:
		if len(plan.Assets) > 1 {
			return fmt.Sprintf("%s_%d%s", label, asset.Index, asset.Extension)
		}
		return fmt.Sprintf("%s%s", label, asset.Extension)
	}
}
