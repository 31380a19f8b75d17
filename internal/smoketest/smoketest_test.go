package smoketest

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/okian/wordboard/internal/adapters/http/api"
	"github.com/okian/wordboard/internal/adapters/repository"
	service "github.com/okian/wordboard/internal/app"
	"github.com/okian/wordboard/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

// newServer starts the real API over an in-memory database.
func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	ctx := context.Background()
	db, err := repository.Open(ctx, repository.DriverSQLite, ":memory:", 1)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	svc := service.New(service.WithDB(db), service.WithLogger(logger.NewNop()))
	if err := svc.Start(ctx); err != nil {
		t.Fatalf("start service: %v", err)
	}
	r := chi.NewRouter()
	api.NewServer(svc).Register(ctx, r)
	srv := httptest.NewServer(r)
	t.Cleanup(func() {
		srv.Close()
		svc.Stop()
	})
	return srv
}

func testConfig(base string) *Config {
	cfg := DefaultConfig()
	cfg.BaseURL = base
	cfg.Players = 4
	cfg.ScoresPerPlayer = 3
	cfg.Words = 10
	cfg.Workers = 4
	cfg.Timeout = 5 * time.Second
	return cfg
}

func TestRun(t *testing.T) {
	Convey("Given a running server", t, func() {
		srv := newServer(t)
		ctx := context.Background()

		Convey("When a smoke run completes", func() {
			stats, err := Run(ctx, testConfig(srv.URL), nil)

			Convey("Then every step passes", func() {
				So(err, ShouldBeNil)
				So(stats.ScoresSubmitted, ShouldEqual, 12)
				So(stats.ScoresFailed, ShouldEqual, 0)
				So(stats.ScoresDeleted, ShouldEqual, int64(12))
				So(stats.WordsInserted, ShouldEqual, 10)
				So(stats.WordsSkipped, ShouldEqual, 10)
				So(stats.Duration, ShouldBeGreaterThan, 0)
			})

			Convey("And a second run with a fresh id passes too", func() {
				_, err := Run(ctx, testConfig(srv.URL), logger.NewNop())
				So(err, ShouldBeNil)
			})
		})
	})
}

func TestRunFailures(t *testing.T) {
	Convey("Given an unhealthy server", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		_, err := Run(context.Background(), testConfig(srv.URL), nil)

		So(errors.Is(err, ErrUnhealthy), ShouldBeTrue)
	})

	Convey("Given a server that alters stored scores", t, func() {
		r := chi.NewRouter()
		r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
		r.Post("/scores/insert_score", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"high_score":-1,"high_scorer":"x"}`))
		})
		srv := httptest.NewServer(r)
		defer srv.Close()

		_, err := Run(context.Background(), testConfig(srv.URL), nil)

		So(errors.Is(err, ErrVerification), ShouldBeTrue)
	})

	Convey("Given a config without players", t, func() {
		cfg := testConfig("http://127.0.0.1:0")
		cfg.Players = 0

		_, err := Run(context.Background(), cfg, nil)

		So(errors.Is(err, ErrInvalidRun), ShouldBeTrue)
	})
}
