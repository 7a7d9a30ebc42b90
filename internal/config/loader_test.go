package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/contextbench/leaderboard/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	t.Chdir(t.TempDir())

	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx, "")

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldResemble, config.New())
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("CONTEXTBENCH_ADDR", ":8080")
			_ = os.Setenv("CONTEXTBENCH_DATASET_PATH", "/data/results.json")
			_ = os.Setenv("CONTEXTBENCH_DEFAULT_SYSTEM", "agent")
			_ = os.Setenv("CONTEXTBENCH_READ_TIMEOUT_MS", "2500")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx, "")

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.DatasetPath, convey.ShouldEqual, "/data/results.json")
				convey.So(cfg.DefaultSystem, convey.ShouldEqual, "agent")
				convey.So(cfg.ReadTimeoutMS, convey.ShouldEqual, 2500)
			})
		})

		convey.Convey("When loading config with a YAML file path", func() {
			tmpFile := createTempConfigFile(`
# local overrides
addr: ":9090"  # inline comment
default_metric: line_f1
agent_prefix: "scaffold + "
`)
			defer func() { _ = os.Remove(tmpFile) }()

			cfg, err := config.Load(ctx, tmpFile)

			convey.Convey("Then it should merge the file with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.DefaultMetric, convey.ShouldEqual, "line_f1")
				convey.So(cfg.AgentPrefix, convey.ShouldEqual, "scaffold + ")
				convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			})
		})

		convey.Convey("When both file and environment variables are set", func() {
			tmpFile := createTempConfigFile(`
addr: ":9090"
export_dir: "site"
`)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("CONTEXTBENCH_CONFIG", tmpFile)
			_ = os.Setenv("CONTEXTBENCH_ADDR", ":8080")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx, "")

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.ExportDir, convey.ShouldEqual, "site")
			})
		})

		convey.Convey("When a .env file is present", func() {
			err := os.WriteFile(filepath.Join(".", config.DotEnvFile), []byte("CONTEXTBENCH_LOG_LEVEL=debug\nCONTEXTBENCH_ADDR=:7000\n"), 0o600)
			convey.So(err, convey.ShouldBeNil)
			_ = os.Setenv("CONTEXTBENCH_ADDR", ":8080")
			defer func() {
				_ = os.Remove(config.DotEnvFile)
				clearConfigEnvVars()
			}()

			cfg, err := config.Load(ctx, "")

			convey.Convey("Then it fills unset variables only", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()

			cfg, err := config.Load(ctx, tmpFile)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			cfg, err := config.Load(ctx, "/non/existent/file.yaml")

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with empty addr", func() {
			_ = os.Setenv("CONTEXTBENCH_ADDR", "")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx, "")

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("CONTEXTBENCH_WRITE_TIMEOUT_MS", "not_a_number")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx, "")

			convey.Convey("Then it should return an error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the default metric is unknown", func() {
			_ = os.Setenv("CONTEXTBENCH_DEFAULT_METRIC", "cost")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx, "")

			convey.Convey("Then validation names the key", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "default_metric")
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"CONTEXTBENCH_CONFIG",
		"CONTEXTBENCH_ADDR",
		"CONTEXTBENCH_LOG_LEVEL",
		"CONTEXTBENCH_DATASET_PATH",
		"CONTEXTBENCH_DEFAULT_SYSTEM",
		"CONTEXTBENCH_DEFAULT_METRIC",
		"CONTEXTBENCH_READ_TIMEOUT_MS",
		"CONTEXTBENCH_WRITE_TIMEOUT_MS",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "contextbench-config-*.yaml")
	if err != nil {
		panic(err)
	}
	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}
	if err := tmpFile.Close(); err != nil {
		panic(err)
	}
	return tmpFile.Name()
}
