package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/wordboard/internal/adapters/repository"
	"github.com/okian/wordboard/internal/config"
	"github.com/okian/wordboard/internal/domain/model"
	"github.com/okian/wordboard/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
	"github.com/xuri/excelize/v2"
)

func TestNewHandler(t *testing.T) {
	convey.Convey("Given a service over an in-memory database", t, func() {
		ctx := context.Background()
		db, err := repository.Open(ctx, repository.DriverSQLite, ":memory:", 1)
		convey.So(err, convey.ShouldBeNil)

		svc, err := startWithDB(ctx, config.New(), db, logger.NewNop())
		convey.So(err, convey.ShouldBeNil)
		defer svc.Stop()

		h := newHandler(ctx, svc, logger.NewNop())

		convey.Convey("Then business and docs routes share one router", func() {
			for _, path := range []string{"/", "/healthz", "/vocabs/read", "/scores/all_scores", "/openapi.yaml", "/api-docs", "/metrics"} {
				w := httptest.NewRecorder()
				h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, http.NoBody))
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			}
		})

		convey.Convey("And the metrics updater stops with its context", func() {
			updateSystemMetrics()
			cctx, cancel := context.WithCancel(ctx)
			done := make(chan struct{})
			go func() {
				runMetricsUpdater(cctx, svc, logger.NewNop())
				close(done)
			}()
			cancel()
			select {
			case <-done:
			case <-time.After(5 * time.Second):
				t.Fatal("metrics updater did not stop")
			}
		})
	})
}

func TestImportCommand(t *testing.T) {
	convey.Convey("Given a workbook and a file database", t, func() {
		dir := t.TempDir()
		dbPath := filepath.Join(dir, "data", "words.db")
		t.Setenv("WORDBOARD_DB_DSN", dbPath)
		t.Setenv("WORDBOARD_ENV_FILE", "")
		t.Setenv("WORDBOARD_CONFIG", "")

		f := excelize.NewFile()
		convey.So(f.SetSheetRow("Sheet1", "A1", &[]interface{}{"word", "word_type", "meaning", "example"}), convey.ShouldBeNil)
		convey.So(f.SetSheetRow("Sheet1", "A2", &[]interface{}{"ephemeral", "adjective", "short-lived"}), convey.ShouldBeNil)
		convey.So(f.SetSheetRow("Sheet1", "A3", &[]interface{}{"ephemeral", "adjective"}), convey.ShouldBeNil)
		convey.So(f.SetSheetRow("Sheet1", "A4", &[]interface{}{"serendipity", "noun"}), convey.ShouldBeNil)
		book := filepath.Join(dir, "words.xlsx")
		convey.So(f.SaveAs(book), convey.ShouldBeNil)
		convey.So(f.Close(), convey.ShouldBeNil)

		convey.Convey("When running import", func() {
			var out bytes.Buffer
			root := newRootCmd()
			root.SetOut(&out)
			root.SetArgs([]string{"import", book})

			err := root.Execute()

			convey.Convey("Then the rows are stored and summarized", func() {
				convey.So(err, convey.ShouldBeNil)
				var res model.BulkResult
				convey.So(json.Unmarshal(out.Bytes(), &res), convey.ShouldBeNil)
				convey.So(res.WordsReceived, convey.ShouldEqual, 3)
				convey.So(res.WordsInserted, convey.ShouldEqual, 2)
				convey.So(res.ExistingWords.Words(), convey.ShouldResemble, []string{"ephemeral"})

				_, statErr := os.Stat(dbPath)
				convey.So(statErr, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the workbook is missing", func() {
			root := newRootCmd()
			root.SetOut(&bytes.Buffer{})
			root.SetErr(&bytes.Buffer{})
			root.SetArgs([]string{"import", filepath.Join(dir, "missing.xlsx")})

			convey.So(root.Execute(), convey.ShouldNotBeNil)
		})
	})
}
