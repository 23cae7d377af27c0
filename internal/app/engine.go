// Package app provides the recommendation engine that implements the
// dependencies required by the HTTP API.
package app

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/okian/jobmatch/internal/adapters/inference"
	"github.com/okian/jobmatch/internal/adapters/market"
	feedbackqueue "github.com/okian/jobmatch/internal/adapters/mq/queue"
	workerpool "github.com/okian/jobmatch/internal/adapters/mq/worker"
	"github.com/okian/jobmatch/internal/adapters/store"
	"github.com/okian/jobmatch/internal/domain/cache"
	"github.com/okian/jobmatch/internal/domain/feedback"
	"github.com/okian/jobmatch/internal/domain/model"
	"github.com/okian/jobmatch/internal/domain/modelstore"
	"github.com/okian/jobmatch/internal/domain/prediction"
	"github.com/okian/jobmatch/internal/domain/profile"
	"github.com/okian/jobmatch/internal/domain/scoring"
	"github.com/okian/jobmatch/pkg/logger"
	"github.com/okian/jobmatch/pkg/metrics"

	"github.com/google/uuid"
)

// Default engine configuration constants.
const (
	defaultCandidatePoolSize = 100
	defaultRecCacheTTL       = 5 * time.Minute
	defaultProfileCacheTTL   = 6 * time.Hour
	defaultScoringParallel   = 8
)

// Engine wires the profile store, scorer, ranker, prediction pipeline,
// and feedback loop into one service.
type Engine struct {
	mu sync.RWMutex

	// Core components
	store     store.Store
	profiles  *profile.Store
	scorer    *scoring.Scorer
	models    *modelstore.Store
	pipeline  *prediction.Pipeline
	processor *feedback.Processor
	queue     feedbackqueue.Queue
	pool      *workerpool.Pool
	recCache  *cache.Cache[[]model.SmartRecommendation]

	// Per-user cache generation, bumped on preference updates so stale
	// recommendation sets stop matching their keys.
	generations sync.Map // userID -> int

	// Configuration
	workerCount       int
	queueSize         int
	batchSize         int
	retrainThreshold  int
	candidatePoolSize int
	scoringParallel   int
	recCacheTTL       time.Duration
	profileCacheTTL   time.Duration
	initialWeights    map[string]float64
	inferenceClient   inference.Client
	marketSignals     market.SignalProvider
	retrainer         feedback.Retrainer
	clock             func() time.Time

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithWorkerCount sets the number of feedback worker goroutines.
func WithWorkerCount(count int) Option {
	return func(e *Engine) {
		if count > 0 {
			e.workerCount = count
		}
	}
}

// WithQueueSize sets the feedback queue capacity.
func WithQueueSize(size int) Option {
	return func(e *Engine) {
		if size > 0 {
			e.queueSize = size
		}
	}
}

// WithFeedbackBatchSize sets how many buffered feedback events trigger a
// model weight update.
func WithFeedbackBatchSize(size int) Option {
	return func(e *Engine) {
		if size > 0 {
			e.batchSize = size
		}
	}
}

// WithRetrainThreshold sets the cumulative feedback volume that
// schedules a full retraining.
func WithRetrainThreshold(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.retrainThreshold = n
		}
	}
}

// WithCandidatePoolSize bounds the job pool fetched per ranking request.
func WithCandidatePoolSize(size int) Option {
	return func(e *Engine) {
		if size > 0 {
			e.candidatePoolSize = size
		}
	}
}

// WithScoringParallelism bounds the per-request scoring fan-out.
func WithScoringParallelism(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.scoringParallel = n
		}
	}
}

// WithRecommendationCacheTTL sets how long a ranked set stays cached.
func WithRecommendationCacheTTL(ttl time.Duration) Option {
	return func(e *Engine) {
		if ttl > 0 {
			e.recCacheTTL = ttl
		}
	}
}

// WithProfileCacheTTL sets the behavior-profile cache TTL.
func WithProfileCacheTTL(ttl time.Duration) Option {
	return func(e *Engine) {
		if ttl > 0 {
			e.profileCacheTTL = ttl
		}
	}
}

// WithInitialWeights overrides default model weights at startup.
func WithInitialWeights(weights map[string]float64) Option {
	return func(e *Engine) {
		e.initialWeights = weights
	}
}

// WithInferenceClient sets the text-inference backend for the
// personality and culture sub-scores.
func WithInferenceClient(client inference.Client) Option {
	return func(e *Engine) {
		if client != nil {
			e.inferenceClient = client
		}
	}
}

// WithMarketSignals sets the market-demand provider.
func WithMarketSignals(provider market.SignalProvider) Option {
	return func(e *Engine) {
		if provider != nil {
			e.marketSignals = provider
		}
	}
}

// WithRetrainer sets the full-retraining collaborator.
func WithRetrainer(r feedback.Retrainer) Option {
	return func(e *Engine) {
		if r != nil {
			e.retrainer = r
		}
	}
}

// WithClock overrides the time source. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.clock = now
		}
	}
}

// WithLogger sets a custom logger for the engine.
func WithLogger(l logger.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// New constructs an Engine over the given store with default
// configuration.
func New(st store.Store, opts ...Option) *Engine {
	e := &Engine{
		store:             st,
		workerCount:       runtime.NumCPU(),
		queueSize:         10000,
		batchSize:         50,
		retrainThreshold:  1000,
		candidatePoolSize: defaultCandidatePoolSize,
		scoringParallel:   defaultScoringParallel,
		recCacheTTL:       defaultRecCacheTTL,
		profileCacheTTL:   defaultProfileCacheTTL,
		inferenceClient:   inference.NeutralClient{},
		marketSignals:     market.NewStaticProvider(),
		retrainer:         feedback.NopRetrainer{},
		clock:             time.Now,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Start initializes the engine components and launches the feedback
// workers.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.started {
		return nil
	}

	if e.logger == nil {
		e.logger = logger.Get().Named("engine")
	}

	e.logger.Info(ctx, "starting recommendation engine...")

	e.models = modelstore.New(
		modelstore.WithInitialWeights(e.initialWeights),
	)
	e.profiles = profile.New(e.store,
		profile.WithTTL(e.profileCacheTTL),
		profile.WithClock(e.clock),
	)
	e.scorer = scoring.New(
		scoring.WithInference(e.inferenceClient),
		scoring.WithMarketSignals(e.marketSignals),
		scoring.WithClock(e.clock),
	)
	e.pipeline = prediction.New(e.store, e.store, e.scorer, e.profiles)
	e.processor = feedback.New(e.models, e.store,
		feedback.WithBatchSize(e.batchSize),
		feedback.WithRetrainThreshold(e.retrainThreshold),
		feedback.WithRetrainer(e.retrainer),
	)
	e.recCache = cache.New[[]model.SmartRecommendation](
		cache.WithTTL[[]model.SmartRecommendation](e.recCacheTTL),
	)

	e.queue = feedbackqueue.NewInMemoryQueue(
		feedbackqueue.WithCapacity(e.queueSize),
		feedbackqueue.WithBufferSize(e.queueSize),
	)
	e.pool = workerpool.NewPool(e.workerCount, e.queue, e.processor)
	e.pool.Start(ctx)

	snapshot := e.models.Snapshot()
	metrics.UpdateModelVersion(snapshot.Version)
	metrics.UpdateModelAccuracy(snapshot.Accuracy)

	e.started = true
	e.logger.Info(ctx, "recommendation engine started",
		logger.Int("workers", e.workerCount),
		logger.Int("queueSize", e.queueSize),
		logger.Int("feedbackBatchSize", e.batchSize),
	)

	return nil
}

// Stop gracefully shuts down the engine. Buffered feedback that cannot
// drain within the shutdown window is discarded; the durable log keeps
// the record.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.started {
		return
	}

	ctx := context.Background()
	e.logger.Info(ctx, "stopping recommendation engine...")

	if e.pool != nil {
		if err := e.pool.Shutdown(ctx); err != nil {
			e.logger.Error(ctx, "worker pool shutdown failed", logger.Error(err))
		}
	}

	e.started = false
	e.logger.Info(ctx, "recommendation engine stopped")
}

// PredictSuccess estimates stage conversion probabilities and timelines
// for one (user, job) pair.
func (e *Engine) PredictSuccess(ctx context.Context, userID, jobID string) (model.SuccessPrediction, error) {
	if err := e.requireStarted(); err != nil {
		return model.SuccessPrediction{}, err
	}
	return e.pipeline.Predict(ctx, userID, jobID)
}

// RecordFeedback submits a feedback event for asynchronous processing.
// Returns false when the queue rejects the event (backpressure).
func (e *Engine) RecordFeedback(ctx context.Context, fb model.LearningFeedback) bool {
	if err := e.requireStarted(); err != nil {
		return false
	}
	if !model.ValidAction(fb.UserAction) {
		e.logger.Warn(ctx, "rejecting feedback with unknown action",
			logger.String("action", fb.UserAction),
		)
		return false
	}
	if fb.FeedbackID == "" {
		fb.FeedbackID = uuid.NewString()
	}
	if fb.CreatedAt.IsZero() {
		fb.CreatedAt = e.clock()
	}
	return e.queue.Enqueue(ctx, fb)
}

// UpdatePreferences persists an explicit preference update, invalidating
// the cached profile and any cached recommendation sets for the user.
func (e *Engine) UpdatePreferences(ctx context.Context, userID string, prefs model.Preferences) error {
	if err := e.requireStarted(); err != nil {
		return err
	}
	if err := e.profiles.UpdatePreferences(ctx, userID, prefs); err != nil {
		return err
	}
	e.bumpGeneration(userID)
	return nil
}

// GetStats returns engine statistics for monitoring.
func (e *Engine) GetStats() map[string]interface{} {
	e.mu.RLock()
	defer e.mu.RUnlock()

	stats := map[string]interface{}{
		"started":     e.started,
		"workerCount": e.workerCount,
		"queueSize":   e.queueSize,
	}

	if e.started {
		snapshot := e.models.Snapshot()
		stats["queueLength"] = e.queue.Len(context.Background())
		stats["bufferedFeedback"] = e.processor.BufferedCount()
		stats["modelVersion"] = snapshot.Version
		stats["modelAccuracy"] = snapshot.Accuracy
		stats["trainingDataSize"] = snapshot.TrainingDataSize
	}

	return stats
}

// ModelSnapshot exposes the current scoring model, read-only.
func (e *Engine) ModelSnapshot() (model.ScoringModel, error) {
	if err := e.requireStarted(); err != nil {
		return model.ScoringModel{}, err
	}
	return e.models.Snapshot(), nil
}

func (e *Engine) requireStarted() error {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if !e.started {
		return ErrNotStarted
	}
	return nil
}

func (e *Engine) generation(userID string) int {
	if g, ok := e.generations.Load(userID); ok {
		return g.(int)
	}
	return 0
}

func (e *Engine) bumpGeneration(userID string) {
	e.generations.Store(userID, e.generation(userID)+1)
}

func cacheKey(userID string, gen int, opts Options) string {
	return fmt.Sprintf("%s|g%d|l%d|x%t|d%.3f|r%s|c%s",
		userID, gen, opts.Limit, opts.ExcludeApplied, opts.DiversityFactor,
		opts.RiskTolerance, opts.CareerStage,
	)
}
