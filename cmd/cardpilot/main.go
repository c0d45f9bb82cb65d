// Copyright 2025 Finsight Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/finsight/cardpilot"
	"github.com/finsight/cardpilot/ai"
	"github.com/finsight/cardpilot/catalog"
	"github.com/finsight/cardpilot/core"
)

func main() {
	app := &cli.App{
		Name:  "cardpilot",
		Usage: "Credit-card catalog question answering",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "Path to config file (default: ./cardpilot.{yaml,toml,json})",
			},
			&cli.StringFlag{
				Name:    "catalog",
				Aliases: []string{"c"},
				Usage:   "Path to the catalog CSV file",
			},
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"d"},
				Usage:   "Path to the snapshot database directory (omit for in-memory only)",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "ask",
				Usage:     "Answer a single question against the catalog",
				ArgsUsage: "<question>",
				Action:    askCommand,
			},
			{
				Name:   "chat",
				Usage:  "Interactive session with conversation follow-ups",
				Action: chatCommand,
			},
			{
				Name:   "rebuild",
				Usage:  "Fetch the catalog, rebuild the vector index and persist the snapshot",
				Action: rebuildCommand,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func askCommand(c *cli.Context) error {
	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("ask needs a question, e.g.: cardpilot ask best travel card with no annual fee")
	}

	advisor, err := buildAdvisor(c)
	if err != nil {
		return err
	}
	defer advisor.Close()

	ctx := context.Background()
	if err := advisor.Warm(ctx); err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}

	printAnswer(advisor.Ask(ctx, cardpilot.Request{Query: query}))
	return nil
}

func chatCommand(c *cli.Context) error {
	advisor, err := buildAdvisor(c)
	if err != nil {
		return err
	}
	defer advisor.Close()

	ctx := context.Background()
	if err := advisor.Warm(ctx); err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}

	var history []core.Turn
	var previous []core.Recommendation

	fmt.Println("Ask about cards. Empty line to quit.")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		query := strings.TrimSpace(scanner.Text())
		if query == "" {
			break
		}

		answer := advisor.Ask(ctx, cardpilot.Request{
			Query:    query,
			History:  history,
			Previous: previous,
		})
		printAnswer(answer)

		history = append(history,
			core.Turn{Role: core.RoleUser, Content: query},
			core.Turn{Role: core.RoleAssistant, Content: answer.SummaryText},
		)
		if len(answer.Recommendations) > 0 {
			previous = answer.Recommendations
		}
	}
	return scanner.Err()
}

func rebuildCommand(c *cli.Context) error {
	advisor, err := buildAdvisor(c)
	if err != nil {
		return err
	}
	defer advisor.Close()

	snap, err := advisor.Refresh(context.Background(), true)
	if err != nil {
		return fmt.Errorf("rebuilding index: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Indexed %d products (%d vectors) at %s\n",
		len(snap.Products), len(snap.Vectors), snap.BuiltAt.Format("2006-01-02 15:04:05"))
	return nil
}

func buildAdvisor(c *cli.Context) (*cardpilot.Advisor, error) {
	cfg, err := loadConfig(c.String("config"))
	if err != nil {
		return nil, err
	}
	if c.IsSet("catalog") {
		cfg.CatalogPath = c.String("catalog")
	}
	if c.IsSet("db") {
		cfg.DBPath = c.String("db")
	}
	if cfg.CatalogPath == "" {
		return nil, fmt.Errorf("no catalog file configured; pass --catalog or set CARDPILOT_CATALOG")
	}

	aiConfig := ai.NewConfig(
		ai.WithEmbeddingHost(cfg.EmbeddingHost),
		ai.WithChatHost(cfg.ChatHost),
		ai.WithEmbeddingModel(cfg.EmbeddingModel),
		ai.WithChatModel(cfg.ChatModel),
	)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	opts := []cardpilot.AdvisorOption{
		cardpilot.WithAIConfig(aiConfig),
		cardpilot.WithMaxResults(cfg.MaxResults),
		cardpilot.WithCatalogTTL(cfg.CatalogTTL),
		cardpilot.WithLowFeeCeiling(cfg.LowFeeCeiling),
		cardpilot.WithMatchThreshold(cfg.MatchThreshold),
		cardpilot.WithFeaturedInjectLimit(cfg.FeaturedLimit),
	}
	if cfg.DBPath != "" {
		opts = append(opts, cardpilot.WithStorePath(cfg.DBPath))
	}

	source := catalog.NewCSVSource(cfg.CatalogPath, slog.Default())
	return cardpilot.NewAdvisor(source, opts...)
}

func printAnswer(answer *core.Answer) {
	if answer.Title != "" {
		fmt.Printf("%s\n\n", answer.Title)
	}
	fmt.Println(answer.SummaryText)
	if answer.Metadata.UsedFallback {
		reason := answer.Metadata.Reason
		if reason == "" {
			reason = "degraded"
		}
		fmt.Fprintf(os.Stderr, "(fallback path: %s)\n", reason)
	}
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
