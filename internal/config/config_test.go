package config_test

import (
	"errors"
	"testing"
	"time"

	"github.com/okian/wordboard/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":8000")
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.DBDriver, convey.ShouldEqual, config.DriverSQLite)
			convey.So(cfg.DBDSN, convey.ShouldEqual, "data/wordboard.db")
			convey.So(cfg.GeminiModel, convey.ShouldEqual, "gemini-2.5-flash-lite")
			convey.So(cfg.AITimeout(), convey.ShouldEqual, 30*time.Second)
			convey.So(cfg.DefaultInstruction, convey.ShouldEqual, config.DefaultInstruction)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given a default config", t, func() {
		cfg := config.New()

		convey.Convey("When addr is blank", func() {
			cfg.Addr = "  "
			err := cfg.Validate()
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
		})

		convey.Convey("When the driver is unknown", func() {
			cfg.DBDriver = "mysql"
			err := cfg.Validate()
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			convey.So(err.Error(), convey.ShouldContainSubstring, "mysql")
		})

		convey.Convey("When the dsn is empty", func() {
			cfg.DBDSN = ""
			convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
		})

		convey.Convey("When the AI timeout is not positive", func() {
			cfg.AITimeoutMS = 0
			convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
		})

		convey.Convey("When postgres is selected", func() {
			cfg.DBDriver = config.DriverPostgres
			cfg.DBDSN = "postgres://localhost/wordboard?sslmode=disable"
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}
