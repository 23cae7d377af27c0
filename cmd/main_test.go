package main

import (
	"context"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/okian/jobmatch/internal/adapters/http/api"
	"github.com/okian/jobmatch/internal/adapters/store"
	app "github.com/okian/jobmatch/internal/app"
	"github.com/okian/jobmatch/internal/config"
	"github.com/okian/jobmatch/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func TestMainFunction(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		convey.Convey("When testing configuration loading", func() {
			_ = os.Setenv("JOBMATCH_ADDR", ":8080")
			_ = os.Setenv("JOBMATCH_QUEUE_SIZE", "1000")
			_ = os.Setenv("JOBMATCH_WORKER_COUNT", "4")
			defer func() {
				_ = os.Unsetenv("JOBMATCH_ADDR")
				_ = os.Unsetenv("JOBMATCH_QUEUE_SIZE")
				_ = os.Unsetenv("JOBMATCH_WORKER_COUNT")
			}()

			convey.Convey("Then configuration should be loadable", func() {
				ctx := context.Background()
				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.FeedbackQueueSize, convey.ShouldEqual, 1000)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 4)
			})
		})

		convey.Convey("When testing engine creation", func() {
			convey.Convey("Then the engine should be creatable with default options", func() {
				engine := app.New(store.NewMemoryStore())
				convey.So(engine, convey.ShouldNotBeNil)
			})

			convey.Convey("And the engine should be creatable with custom options", func() {
				engine := app.New(store.NewMemoryStore(),
					app.WithWorkerCount(8),
					app.WithQueueSize(2000),
					app.WithFeedbackBatchSize(25),
				)
				convey.So(engine, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When testing HTTP server creation", func() {
			ctx := context.Background()
			engine := app.New(store.NewMemoryStore())
			err := engine.Start(ctx)
			convey.So(err, convey.ShouldBeNil)
			defer engine.Stop()

			mux := http.NewServeMux()
			apiServer := api.NewServer(engine, engine)
			apiServer.Register(ctx, mux)

			convey.Convey("Then the server should be configurable with timeouts", func() {
				srv := &http.Server{
					Addr:              ":0",
					Handler:           mux,
					ReadTimeout:       readTimeout,
					WriteTimeout:      writeTimeout,
					IdleTimeout:       idleTimeout,
					ReadHeaderTimeout: readHeaderTimeout,
				}
				convey.So(srv.ReadTimeout, convey.ShouldEqual, 10*time.Second)
				convey.So(srv.Handler, convey.ShouldNotBeNil)
			})
		})
	})
}

func TestMetricsUpdaters(t *testing.T) {
	convey.Convey("Given a started engine", t, func() {
		ctx := context.Background()
		engine := app.New(store.NewMemoryStore())
		err := engine.Start(ctx)
		convey.So(err, convey.ShouldBeNil)
		defer engine.Stop()

		convey.Convey("When updating system metrics", func() {
			convey.So(func() { updateSystemMetrics() }, convey.ShouldNotPanic)
		})

		convey.Convey("When updating engine metrics", func() {
			convey.So(func() { updateEngineMetrics(engine) }, convey.ShouldNotPanic)
		})
	})
}
