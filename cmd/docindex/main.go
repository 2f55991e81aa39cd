// Copyright 2026 Poiesic Systems
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
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "docindex",
		Usage: "Index PDF documents into a multi-granularity vector index",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML configuration file",
			},
			&cli.StringFlag{
				Name:  "output",
				Usage: "Output directory (overrides config)",
			},
		},
		Before: setup,
		Commands: []*cli.Command{
			{
				Name:      "extract",
				Usage:     "Extract element streams from PDF files",
				ArgsUsage: "FILE [FILE...]",
				Action:    extractCommand,
			},
			{
				Name:      "enrich",
				Usage:     "Enrich raw tables and images with titles and descriptions",
				ArgsUsage: "[STEM...]",
				Action:    enrichCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "strategy",
						Usage: "Enrichment strategy: llm or heuristic (overrides config)",
					},
				},
			},
			{
				Name:      "nodes",
				Usage:     "Build multi-granularity nodes from extracted and enriched files",
				ArgsUsage: "[STEM...]",
				Action:    nodesCommand,
			},
			{
				Name:      "embed",
				Usage:     "Attach embeddings to node files",
				ArgsUsage: "[STEM...]",
				Action:    embedCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of texts per embedding call (overrides config)",
					},
				},
			},
			{
				Name:      "index",
				Usage:     "Upsert embedded nodes into the vector store",
				ArgsUsage: "[STEM...]",
				Action:    indexCommand,
			},
			{
				Name:      "run",
				Usage:     "Run enrich, nodes, embed and index for every document",
				ArgsUsage: "[STEM...]",
				Action:    runCommand,
			},
			{
				Name:      "search",
				Usage:     "Embed a query and search one namespace",
				ArgsUsage: "QUERY",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "namespace",
						Aliases: []string{"n"},
						Usage:   "Namespace to search (sections, paragraphs, sentences, images, table_rows, table_full)",
						Value:   "paragraphs",
					},
					&cli.IntFlag{
						Name:    "top-k",
						Aliases: []string{"k"},
						Usage:   "Number of results",
						Value:   5,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// setup loads .env when present and configures the default logger.
func setup(c *cli.Context) error {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return fmt.Errorf("loading .env: %w", err)
		}
	}

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
