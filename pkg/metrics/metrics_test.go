package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNewManager(t *testing.T) {
	Convey("Given a manager on an isolated registry", t, func() {
		registry := prometheus.NewRegistry()
		m := NewManager(
			WithPrometheusRegistry(registry),
			WithNamespace("test"),
			WithSubsystem("engine"),
		)

		Convey("Then it registers without panicking and keeps its config", func() {
			So(m, ShouldNotBeNil)
			So(m.namespace, ShouldEqual, "test")
			So(m.subsystem, ShouldEqual, "engine")
		})

		Convey("And the registry gathers the engine metric families", func() {
			families, err := registry.Gather()
			So(err, ShouldBeNil)

			names := make(map[string]bool, len(families))
			for _, f := range families {
				names[f.GetName()] = true
			}
			// Counters with no observations are still registered; gauges appear.
			So(names["test_engine_feedback_buffer_size"], ShouldBeTrue)
			So(names["test_engine_model_version"], ShouldBeTrue)
			So(names["test_engine_feedback_queue_size"], ShouldBeTrue)
		})
	})
}

func TestGlobalHelpers(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("Then the package-level helpers do not panic", func() {
			So(func() {
				RecordRecommendationRequest()
				RecordRecommendationLatency(12.5)
				RecordCandidateScored()
				RecordCandidateDropped()
				RecordDiversityDrop()
				RecordScoringLatency(3.2)
				RecordScoringError()
				RecordProfileCacheHit()
				RecordProfileCacheMiss()
				RecordRecommendationCacheHit()
				RecordRecommendationCacheMiss()
				RecordInferenceLatency(150)
				RecordInferenceError()
				RecordInferenceFallback()
				RecordPrediction()
				RecordPredictionError()
				RecordFeedbackReceived("applied")
				RecordFeedbackBatch()
				UpdateFeedbackBufferSize(17)
				RecordRetrainTrigger()
				UpdateModelVersion(3)
				UpdateModelAccuracy(0.62)
				UpdateQueueCapacity(1000)
				UpdateQueueSize(10)
				UpdateQueueUtilization(0.01)
				RecordQueueEnqueue()
				RecordQueueDequeue()
				RecordQueueEnqueueError()
				RecordQueueProcessingLatency(0.2)
				UpdateWorkerActiveCount(4)
				RecordWorkerProcessingLatency(1.1)
				RecordWorkerError()
				RecordHTTPRequest("recommendations", "GET", "200")
				RecordHTTPRequestDuration("recommendations", "GET", "200", 42)
				RecordErrorByComponent("scoring", "inference_timeout")
				UpdateSystemMemoryUsage(1024)
				UpdateSystemGoroutineCount(32)
				RecordSystemGCPauseTime(0.5)
			}, ShouldNotPanic)
		})

		Convey("And the custom registry is exposed for the metrics endpoint", func() {
			So(GetRegistry(), ShouldNotBeNil)
		})
	})
}
