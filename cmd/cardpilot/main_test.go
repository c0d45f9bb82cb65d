package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func TestLoadConfig(t *testing.T) {
	t.Run("defaults without a config file", func(t *testing.T) {
		cfg, err := loadConfig("")
		require.NoError(t, err)

		assert.Empty(t, cfg.CatalogPath)
		assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingHost)
		assert.Equal(t, "http://localhost:11434/v1", cfg.ChatHost)
		assert.Equal(t, 3, cfg.MaxResults)
		assert.Equal(t, 15*time.Minute, cfg.CatalogTTL)
		assert.Equal(t, 100.0, cfg.LowFeeCeiling)
		assert.Equal(t, 0.5, cfg.MatchThreshold)
		assert.Equal(t, 3, cfg.FeaturedLimit)
	})

	t.Run("environment overrides defaults", func(t *testing.T) {
		t.Setenv("CARDPILOT_CATALOG", "/data/cards.csv")
		t.Setenv("CARDPILOT_MAX_RESULTS", "5")
		t.Setenv("CARDPILOT_MATCH_THRESHOLD", "0.7")
		t.Setenv("CARDPILOT_FEATURED_INJECT_LIMIT", "1")

		cfg, err := loadConfig("")
		require.NoError(t, err)

		assert.Equal(t, "/data/cards.csv", cfg.CatalogPath)
		assert.Equal(t, 5, cfg.MaxResults)
		assert.Equal(t, 0.7, cfg.MatchThreshold)
		assert.Equal(t, 1, cfg.FeaturedLimit)
	})

	t.Run("explicit config file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "cardpilot.yaml")
		contents := "catalog: /srv/catalog.csv\nchat-model: gpt-4o-mini\nmax-results: 4\n"
		require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

		cfg, err := loadConfig(path)
		require.NoError(t, err)

		assert.Equal(t, "/srv/catalog.csv", cfg.CatalogPath)
		assert.Equal(t, "gpt-4o-mini", cfg.ChatModel)
		assert.Equal(t, 4, cfg.MaxResults)
		// Untouched keys keep their defaults.
		assert.Equal(t, "embeddinggemma", cfg.EmbeddingModel)
	})

	t.Run("named config file must exist", func(t *testing.T) {
		_, err := loadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
		require.Error(t, err)
	})
}

func TestAskCommandRequiresQuestion(t *testing.T) {
	app := &cli.App{
		Name: "cardpilot",
		Commands: []*cli.Command{
			{Name: "ask", Action: askCommand},
		},
	}

	err := app.Run([]string{"cardpilot", "ask"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "question")
}

func TestSetupLogger(t *testing.T) {
	newApp := func() *cli.App {
		return &cli.App{
			Name: "test",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "log-level", Value: "info"},
			},
			Before: setupLogger,
			Action: func(c *cli.Context) error { return nil },
		}
	}

	t.Run("valid log levels", func(t *testing.T) {
		for _, level := range []string{"debug", "info", "warn", "error", "WaRn"} {
			require.NoError(t, newApp().Run([]string{"test", "--log-level", level}), level)
		}
	})

	t.Run("invalid log level returns error", func(t *testing.T) {
		err := newApp().Run([]string{"test", "--log-level", "loud"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})
}
