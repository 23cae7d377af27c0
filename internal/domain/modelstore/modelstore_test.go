package modelstore_test

import (
	"sync"
	"testing"

	"github.com/okian/jobmatch/internal/domain/model"
	"github.com/okian/jobmatch/internal/domain/modelstore"
	. "github.com/smartystreets/goconvey/convey"
)

func TestStoreSnapshots(t *testing.T) {
	Convey("Given a fresh model store", t, func() {
		store := modelstore.New()

		Convey("Then the initial snapshot is version 1 with all features weighted", func() {
			snap := store.Snapshot()
			So(snap.Version, ShouldEqual, 1)
			So(len(snap.Weights), ShouldEqual, len(model.FeatureNames()))
			for name, w := range snap.Weights {
				So(w, ShouldBeGreaterThan, 0)
				So(name, ShouldBeIn, model.FeatureNames())
			}
		})

		Convey("When a modified model is published", func() {
			next := store.Snapshot().Clone()
			next.Weights[model.FeatureTimingScore] = 0.9
			next.Accuracy = 0.61
			published := store.Publish(next)

			Convey("Then the version is bumped and readers see the new weights", func() {
				So(published.Version, ShouldEqual, 2)
				snap := store.Snapshot()
				So(snap.Version, ShouldEqual, 2)
				So(snap.Weights[model.FeatureTimingScore], ShouldEqual, 0.9)
				So(snap.Accuracy, ShouldEqual, 0.61)
			})

			Convey("And mutating the caller's copy does not leak into the store", func() {
				next.Weights[model.FeatureSkillsMatch] = 99
				So(store.Snapshot().Weights[model.FeatureSkillsMatch], ShouldNotEqual, 99)
			})
		})

		Convey("When Reset is called", func() {
			next := store.Snapshot().Clone()
			next.Weights[model.FeatureSkillsMatch] = 0.01
			store.Publish(next)
			reset := store.Reset()

			Convey("Then defaults are restored under a new version", func() {
				So(reset.Version, ShouldEqual, 3)
				So(reset.Weights[model.FeatureSkillsMatch], ShouldEqual, 1.0)
				So(reset.LastTrained.IsZero(), ShouldBeFalse)
			})
		})
	})
}

func TestStoreConcurrentReaders(t *testing.T) {
	Convey("Given concurrent readers and a publisher", t, func() {
		store := modelstore.New()

		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 500; j++ {
					snap := store.Snapshot()
					// A snapshot is always internally consistent.
					if len(snap.Weights) != len(model.FeatureNames()) {
						t.Error("torn snapshot")
						return
					}
				}
			}()
		}
		for j := 0; j < 100; j++ {
			next := store.Snapshot().Clone()
			next.Weights[model.FeatureTimingScore] *= 1.001
			store.Publish(next)
		}
		wg.Wait()

		Convey("Then the final version reflects every publish", func() {
			So(store.Snapshot().Version, ShouldEqual, 101)
		})
	})
}
