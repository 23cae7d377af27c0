// Package metrics provides Prometheus metrics for the job-match engine.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Manager manages all Prometheus metrics for the engine.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	registry         prometheus.Registerer

	// Ranking metrics - the request-time hot path
	recommendationRequests prometheus.Counter
	recommendationLatency  prometheus.Histogram
	candidatesScored       prometheus.Counter
	candidatesDropped      prometheus.Counter
	diversityDrops         prometheus.Counter
	scoringLatency         prometheus.Histogram
	scoringErrors          prometheus.Counter

	// Cache metrics
	profileCacheHits          prometheus.Counter
	profileCacheMisses        prometheus.Counter
	recommendationCacheHits   prometheus.Counter
	recommendationCacheMisses prometheus.Counter

	// Inference metrics - external text-inference calls
	inferenceLatency  prometheus.Histogram
	inferenceErrors   prometheus.Counter
	inferenceFallback prometheus.Counter

	// Prediction metrics
	predictions      prometheus.Counter
	predictionErrors prometheus.Counter

	// Feedback pipeline metrics
	feedbackReceived   *prometheus.CounterVec
	feedbackBatches    prometheus.Counter
	feedbackBufferSize prometheus.Gauge
	retrainTriggers    prometheus.Counter
	modelVersion       prometheus.Gauge
	modelAccuracy      prometheus.Gauge

	// Queue metrics - feedback ingestion queue
	queueCapacity          prometheus.Gauge
	queueSize              prometheus.Gauge
	queueUtilization       prometheus.Gauge
	queueEnqueueRate       prometheus.Counter
	queueDequeueRate       prometheus.Counter
	queueEnqueueErrors     prometheus.Counter
	queueProcessingLatency prometheus.Histogram

	// Worker metrics
	workerActiveCount       prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrorRate         prometheus.Counter

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error tracking
	errorRateByComponent *prometheus.CounterVec

	// System metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "jobmatch",
		subsystem:        "engine",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)

	m.recommendationRequests = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "recommendation_requests_total",
		Help:      "Total number of ranking requests served",
	})

	m.recommendationLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "recommendation_latency_milliseconds",
		Help:      "Histogram of end-to-end ranking latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.candidatesScored = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "candidates_scored_total",
		Help:      "Total number of job candidates scored",
	})

	m.candidatesDropped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "candidates_dropped_total",
		Help:      "Total number of candidates dropped from a batch due to scoring failures",
	})

	m.diversityDrops = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "diversity_drops_total",
		Help:      "Total number of candidates dropped below the quality floor during diversification",
	})

	m.scoringLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "scoring_latency_milliseconds",
		Help:      "Histogram of per-candidate feature scoring latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.scoringErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "scoring_errors_total",
		Help:      "Total number of per-candidate scoring failures",
	})

	m.profileCacheHits = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "profile_cache_hits_total",
		Help:      "Total number of behavior-profile cache hits",
	})

	m.profileCacheMisses = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "profile_cache_misses_total",
		Help:      "Total number of behavior-profile cache misses (rebuilds)",
	})

	m.recommendationCacheHits = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "recommendation_cache_hits_total",
		Help:      "Total number of per-user recommendation cache hits",
	})

	m.recommendationCacheMisses = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "recommendation_cache_misses_total",
		Help:      "Total number of per-user recommendation cache misses",
	})

	m.inferenceLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "inference_latency_milliseconds",
		Help:      "Histogram of text-inference call latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.inferenceErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "inference_errors_total",
		Help:      "Total number of failed text-inference calls",
	})

	m.inferenceFallback = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "inference_fallbacks_total",
		Help:      "Total number of sub-scores degraded to the neutral default",
	})

	m.predictions = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "predictions_total",
		Help:      "Total number of success predictions computed",
	})

	m.predictionErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "prediction_errors_total",
		Help:      "Total number of failed success predictions",
	})

	m.feedbackReceived = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "feedback_received_total",
		Help:      "Total number of feedback events recorded, by user action",
	}, []string{"action"})

	m.feedbackBatches = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "feedback_batches_total",
		Help:      "Total number of feedback batches processed into weight updates",
	})

	m.feedbackBufferSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "feedback_buffer_size",
		Help:      "Current number of feedback events in the in-memory buffer",
	})

	m.retrainTriggers = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "retrain_triggers_total",
		Help:      "Total number of full-retraining triggers fired",
	})

	m.modelVersion = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "model_version",
		Help:      "Current scoring model version",
	})

	m.modelAccuracy = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "model_accuracy",
		Help:      "Rolling accuracy estimate of the scoring model",
	})

	m.queueCapacity = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "feedback_queue_capacity",
		Help:      "Configured capacity of the feedback queue",
	})

	m.queueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "feedback_queue_size",
		Help:      "Current number of queued feedback events",
	})

	m.queueUtilization = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "feedback_queue_utilization",
		Help:      "Feedback queue utilization ratio (0-1)",
	})

	m.queueEnqueueRate = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "feedback_queue_enqueue_total",
		Help:      "Total number of feedback events enqueued",
	})

	m.queueDequeueRate = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "feedback_queue_dequeue_total",
		Help:      "Total number of feedback events dequeued",
	})

	m.queueEnqueueErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "feedback_queue_enqueue_errors_total",
		Help:      "Total number of rejected enqueue attempts (backpressure, closed)",
	})

	m.queueProcessingLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "feedback_queue_processing_latency_milliseconds",
		Help:      "Histogram of enqueue operation latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.workerActiveCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "worker_active_count",
		Help:      "Number of active feedback workers",
	})

	m.workerProcessingLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "worker_processing_latency_milliseconds",
		Help:      "Histogram of per-feedback worker processing latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.workerErrorRate = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "worker_errors_total",
		Help:      "Total number of worker processing errors",
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests",
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_milliseconds",
		Help:      "Histogram of HTTP request duration in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})

	m.errorRateByComponent = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "errors_by_component_total",
		Help:      "Total errors by component and error type",
	}, []string{"component", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_usage_bytes",
		Help:      "System memory usage in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutine_count",
		Help:      "Number of goroutines",
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_gc_pause_time_milliseconds",
		Help:      "GC pause time in milliseconds",
		Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
	})
}

// RecordRecommendationRequest increments the ranking request counter.
func RecordRecommendationRequest() {
	globalManager.recommendationRequests.Inc()
}

// RecordRecommendationLatency records end-to-end ranking latency in milliseconds.
func RecordRecommendationLatency(latencyMs float64) {
	globalManager.recommendationLatency.Observe(latencyMs)
}

// RecordCandidateScored increments the scored candidate counter.
func RecordCandidateScored() {
	globalManager.candidatesScored.Inc()
}

// RecordCandidateDropped increments the dropped candidate counter.
func RecordCandidateDropped() {
	globalManager.candidatesDropped.Inc()
}

// RecordDiversityDrop increments the diversification drop counter.
func RecordDiversityDrop() {
	globalManager.diversityDrops.Inc()
}

// RecordScoringLatency records per-candidate scoring latency in milliseconds.
func RecordScoringLatency(latencyMs float64) {
	globalManager.scoringLatency.Observe(latencyMs)
}

// RecordScoringError increments the scoring error counter.
func RecordScoringError() {
	globalManager.scoringErrors.Inc()
}

// RecordProfileCacheHit increments the profile cache hit counter.
func RecordProfileCacheHit() {
	globalManager.profileCacheHits.Inc()
}

// RecordProfileCacheMiss increments the profile cache miss counter.
func RecordProfileCacheMiss() {
	globalManager.profileCacheMisses.Inc()
}

// RecordRecommendationCacheHit increments the recommendation cache hit counter.
func RecordRecommendationCacheHit() {
	globalManager.recommendationCacheHits.Inc()
}

// RecordRecommendationCacheMiss increments the recommendation cache miss counter.
func RecordRecommendationCacheMiss() {
	globalManager.recommendationCacheMisses.Inc()
}

// RecordInferenceLatency records inference call latency in milliseconds.
func RecordInferenceLatency(latencyMs float64) {
	globalManager.inferenceLatency.Observe(latencyMs)
}

// RecordInferenceError increments the inference error counter.
func RecordInferenceError() {
	globalManager.inferenceErrors.Inc()
}

// RecordInferenceFallback increments the neutral-default fallback counter.
func RecordInferenceFallback() {
	globalManager.inferenceFallback.Inc()
}

// RecordPrediction increments the success prediction counter.
func RecordPrediction() {
	globalManager.predictions.Inc()
}

// RecordPredictionError increments the prediction error counter.
func RecordPredictionError() {
	globalManager.predictionErrors.Inc()
}

// RecordFeedbackReceived increments the feedback counter for an action.
func RecordFeedbackReceived(action string) {
	globalManager.feedbackReceived.WithLabelValues(action).Inc()
}

// RecordFeedbackBatch increments the processed batch counter.
func RecordFeedbackBatch() {
	globalManager.feedbackBatches.Inc()
}

// UpdateFeedbackBufferSize sets the feedback buffer size gauge.
func UpdateFeedbackBufferSize(size int) {
	globalManager.feedbackBufferSize.Set(float64(size))
}

// RecordRetrainTrigger increments the retrain trigger counter.
func RecordRetrainTrigger() {
	globalManager.retrainTriggers.Inc()
}

// UpdateModelVersion sets the model version gauge.
func UpdateModelVersion(version int) {
	globalManager.modelVersion.Set(float64(version))
}

// UpdateModelAccuracy sets the model accuracy gauge.
func UpdateModelAccuracy(accuracy float64) {
	globalManager.modelAccuracy.Set(accuracy)
}

// UpdateQueueCapacity sets the feedback queue capacity gauge.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// UpdateQueueSize sets the feedback queue size gauge.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueUtilization sets the feedback queue utilization gauge.
func UpdateQueueUtilization(utilization float64) {
	globalManager.queueUtilization.Set(utilization)
}

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() {
	globalManager.queueEnqueueRate.Inc()
}

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() {
	globalManager.queueDequeueRate.Inc()
}

// RecordQueueEnqueueError increments the enqueue error counter.
func RecordQueueEnqueueError() {
	globalManager.queueEnqueueErrors.Inc()
}

// RecordQueueProcessingLatency records enqueue latency in milliseconds.
func RecordQueueProcessingLatency(latencyMs float64) {
	globalManager.queueProcessingLatency.Observe(latencyMs)
}

// UpdateWorkerActiveCount sets the active worker gauge.
func UpdateWorkerActiveCount(count int) {
	globalManager.workerActiveCount.Set(float64(count))
}

// RecordWorkerProcessingLatency records worker processing latency in milliseconds.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerProcessingLatency.Observe(latencyMs)
}

// RecordWorkerError increments the worker error counter.
func RecordWorkerError() {
	globalManager.workerErrorRate.Inc()
}

// RecordHTTPRequest increments the HTTP request counter.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent increments the per-component error counter.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the memory usage gauge.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine count gauge.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records a GC pause in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom registry for the /metrics endpoint.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
