// Package feedback ingests user action signals and adjusts the scoring
// model in fixed-size batches.
package feedback

import (
	"context"
	"sync"

	"github.com/okian/jobmatch/internal/adapters/store"
	"github.com/okian/jobmatch/internal/domain/model"
	"github.com/okian/jobmatch/internal/domain/modelstore"
	"github.com/okian/jobmatch/pkg/logger"
	"github.com/okian/jobmatch/pkg/metrics"
)

// Batch-learning constants.
const (
	defaultBatchSize        = 50
	defaultRetrainThreshold = 1000

	// When the observed success rate falls below the model's rolling
	// accuracy, every weight decays. Behavioral signals are assumed
	// under-weighted whenever the scorer underperforms, so the boost
	// softens the decay on the behavioral/timing weights. The combined
	// factor is capped below 1 so an underperforming batch still
	// strictly decreases every weight.
	weightDecayFactor       = 0.95
	behaviorBoostFactor     = 1.1
	maxBehaviorDecayFactor  = 0.99
)

// Retrainer schedules a full model retraining. The engine treats
// retraining as a collaborator job; scheduling must not block ingestion.
type Retrainer interface {
	ScheduleRetrain(ctx context.Context, cumulativeFeedback int)
}

// NopRetrainer ignores retrain requests.
type NopRetrainer struct{}

// ScheduleRetrain implements Retrainer as a no-op.
func (NopRetrainer) ScheduleRetrain(ctx context.Context, cumulativeFeedback int) {}

// Option applies a configuration option to the Processor.
type Option func(*Processor)

// WithBatchSize sets how many buffered events trigger a batch update.
func WithBatchSize(n int) Option {
	return func(p *Processor) {
		if n > 0 {
			p.batchSize = n
		}
	}
}

// WithRetrainThreshold sets the cumulative feedback volume that
// schedules a full retraining.
func WithRetrainThreshold(n int) Option {
	return func(p *Processor) {
		if n > 0 {
			p.retrainThreshold = n
		}
	}
}

// WithRetrainer sets the retraining collaborator.
func WithRetrainer(r Retrainer) Option {
	return func(p *Processor) {
		if r != nil {
			p.retrainer = r
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(p *Processor) {
		if l != nil {
			p.logger = l
		}
	}
}

// Processor buffers feedback and applies batch weight updates to the
// shared model. Safe for concurrent use.
type Processor struct {
	models    *modelstore.Store
	log       store.FeedbackLog
	retrainer Retrainer
	logger    logger.Logger

	batchSize        int
	retrainThreshold int

	mu         sync.Mutex
	buffer     []model.LearningFeedback
	cumulative int
	retrained  bool
}

// New creates a Processor over the given model store and durable log.
func New(models *modelstore.Store, log store.FeedbackLog, opts ...Option) *Processor {
	p := &Processor{
		models:           models,
		log:              log,
		retrainer:        NopRetrainer{},
		logger:           logger.Get().Named("feedback"),
		batchSize:        defaultBatchSize,
		retrainThreshold: defaultRetrainThreshold,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Record ingests one feedback event. It always succeeds locally: the
// event is appended to the durable log and the in-memory buffer, and
// downstream failures are logged rather than surfaced. Reaching the
// batch size triggers a synchronous batch update.
func (p *Processor) Record(ctx context.Context, fb model.LearningFeedback) {
	if err := p.log.Append(ctx, fb); err != nil {
		p.logger.Error(ctx, "feedback log append failed",
			logger.String("feedback_id", fb.FeedbackID),
			logger.Error(err),
		)
	}
	metrics.RecordFeedbackReceived(fb.UserAction)

	p.mu.Lock()
	p.buffer = append(p.buffer, fb)
	size := len(p.buffer)
	var batch []model.LearningFeedback
	if size >= p.batchSize {
		// Swap-and-clear so feedback arriving during processing is
		// neither lost nor double-counted.
		batch = p.buffer
		p.buffer = nil
		size = 0
	}
	p.mu.Unlock()
	metrics.UpdateFeedbackBufferSize(size)

	if batch != nil {
		p.processBatch(ctx, batch)
	}
}

// BufferedCount returns the number of events awaiting batch processing.
func (p *Processor) BufferedCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.buffer)
}

// processBatch partitions a drained batch into positive, negative, and
// neutral signals, adjusts weights when the observed success rate falls
// short of the model's rolling accuracy, and publishes the new snapshot.
func (p *Processor) processBatch(ctx context.Context, batch []model.LearningFeedback) {
	var positives, negatives int
	for _, fb := range batch {
		switch {
		case fb.Positive():
			positives++
		case fb.Negative():
			negatives++
		}
	}

	snapshot := p.models.Snapshot()
	next := snapshot.Clone()
	next.TrainingDataSize += len(batch)

	if positives+negatives > 0 {
		observed := float64(positives) / float64(positives+negatives)
		if observed < snapshot.Accuracy {
			behaviorDecay := weightDecayFactor * behaviorBoostFactor
			if behaviorDecay > maxBehaviorDecayFactor {
				behaviorDecay = maxBehaviorDecayFactor
			}
			for name := range next.Weights {
				next.Weights[name] *= weightDecayFactor
			}
			next.Weights[model.FeatureUserBehaviorScore] = snapshot.Weights[model.FeatureUserBehaviorScore] * behaviorDecay
			next.Weights[model.FeatureTimingScore] = snapshot.Weights[model.FeatureTimingScore] * behaviorDecay
		}
		next.Accuracy = (snapshot.Accuracy + observed) / 2
	}

	published := p.models.Publish(next)
	metrics.RecordFeedbackBatch()
	metrics.UpdateModelVersion(published.Version)
	metrics.UpdateModelAccuracy(published.Accuracy)

	p.logger.Info(ctx, "feedback batch processed",
		logger.Int("batch_size", len(batch)),
		logger.Int("positives", positives),
		logger.Int("negatives", negatives),
		logger.Int("model_version", published.Version),
		logger.Float64("accuracy", published.Accuracy),
	)

	p.mu.Lock()
	p.cumulative += len(batch)
	cumulative := p.cumulative
	shouldRetrain := !p.retrained && cumulative >= p.retrainThreshold
	if shouldRetrain {
		p.retrained = true
	}
	p.mu.Unlock()

	if shouldRetrain {
		metrics.RecordRetrainTrigger()
		p.logger.Info(ctx, "retrain threshold crossed",
			logger.Int("cumulative_feedback", cumulative),
		)
		p.retrainer.ScheduleRetrain(ctx, cumulative)
	}
}
