package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/okian/jobmatch/internal/domain/cache"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCacheTTL(t *testing.T) {
	Convey("Given a cache with a controllable clock", t, func() {
		ctx := context.Background()
		now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		clock := func() time.Time { return now }
		c := cache.New[string](
			cache.WithTTL[string](6*time.Hour),
			cache.WithClock[string](clock),
		)

		Convey("When a value is set", func() {
			c.Set(ctx, "user-1", "profile")

			Convey("Then it is readable before expiry", func() {
				got, ok := c.Get(ctx, "user-1")
				So(ok, ShouldBeTrue)
				So(got, ShouldEqual, "profile")
			})

			Convey("Then it expires after the TTL elapses", func() {
				now = now.Add(6*time.Hour + time.Minute)
				_, ok := c.Get(ctx, "user-1")
				So(ok, ShouldBeFalse)
			})

			Convey("And Invalidate removes it immediately", func() {
				c.Invalidate(ctx, "user-1")
				_, ok := c.Get(ctx, "user-1")
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When a missing key is read", func() {
			_, ok := c.Get(ctx, "nobody")

			Convey("Then the lookup misses without error", func() {
				So(ok, ShouldBeFalse)
			})
		})
	})
}

func TestCacheEviction(t *testing.T) {
	Convey("Given a cache bounded to two entries", t, func() {
		ctx := context.Background()
		now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		c := cache.New[int](
			cache.WithMaxSize[int](2),
			cache.WithClock[int](func() time.Time { return now }),
		)

		c.SetWithTTL(ctx, "a", 1, time.Hour)
		c.SetWithTTL(ctx, "b", 2, 3*time.Hour)

		Convey("When a third entry arrives", func() {
			c.SetWithTTL(ctx, "c", 3, 2*time.Hour)

			Convey("Then the entry closest to expiry is evicted", func() {
				_, okA := c.Get(ctx, "a")
				_, okB := c.Get(ctx, "b")
				_, okC := c.Get(ctx, "c")
				So(okA, ShouldBeFalse)
				So(okB, ShouldBeTrue)
				So(okC, ShouldBeTrue)
				So(c.Len(), ShouldEqual, 2)
			})
		})

		Convey("When an existing key is overwritten", func() {
			c.SetWithTTL(ctx, "b", 20, time.Hour)

			Convey("Then no eviction happens", func() {
				So(c.Len(), ShouldEqual, 2)
				got, _ := c.Get(ctx, "b")
				So(got, ShouldEqual, 20)
			})
		})
	})
}
