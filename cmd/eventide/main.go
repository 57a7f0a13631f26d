// Copyright 2025 Poiesic Systems
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
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/poiesic/eventide/ai"
	"github.com/poiesic/eventide/ai/openai"
	"github.com/poiesic/eventide/indexer"
	"github.com/poiesic/eventide/ingest"
	"github.com/poiesic/eventide/opendata"
	"github.com/poiesic/eventide/search"
	"github.com/poiesic/eventide/vectorstore"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "eventide",
		Usage: "Fetch, index and search public events with semantic retrieval",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "fetch",
				Usage:  "Fetch events from the open data API, validate and save them as a table",
				Action: fetchCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "region",
						Aliases: []string{"r"},
						Usage:   "Region whose events are accepted",
						Value:   "Bretagne",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of records to request",
						Value: 5000,
					},
					&cli.IntFlag{
						Name:  "since-days",
						Usage: "Fetch events starting up to N days in the past",
						Value: 365,
					},
					&cli.IntFlag{
						Name:  "until-days",
						Usage: "Fetch events starting up to N days in the future",
						Value: 365,
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Destination Parquet file",
						Value:   "data/raw/api_data.parquet",
					},
					&cli.BoolFlag{
						Name:  "write-errors",
						Usage: "Write rejected records to the error file",
						Value: true,
					},
					&cli.StringFlag{
						Name:  "error-file",
						Usage: "Rejection log path, one JSON object per line",
						Value: "data/error.jsonl",
					},
					&cli.StringFlag{
						Name:  "base-url",
						Usage: "Open data API root",
						Value: opendata.DefaultBaseURL,
					},
				},
			},
			{
				Name:   "index",
				Usage:  "Embed the saved event table into a vector store",
				Action: indexCommand,
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:    "source",
						Aliases: []string{"s"},
						Usage:   "Source Parquet table",
						Value:   "data/raw/api_data.parquet",
					},
					&cli.StringFlag{
						Name:  "vectors",
						Usage: "Vector store directory",
						Value: "data/vectors",
					},
					&cli.StringFlag{
						Name:  "content-columns",
						Usage: "Comma-separated columns joined into document content",
						Value: strings.Join(indexer.DefaultContentColumns, ","),
					},
					&cli.StringFlag{
						Name:  "id-column",
						Usage: "Column holding document identifiers (empty generates UUIDs)",
						Value: indexer.DefaultIDColumn,
					},
				}, aiFlags()...),
			},
			{
				Name:      "search",
				Usage:     "Find indexed events similar to a query",
				ArgsUsage: "<query>",
				Action:    searchCommand,
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:  "vectors",
						Usage: "Vector store directory",
						Value: "data/vectors",
					},
					&cli.IntFlag{
						Name:    "hits",
						Aliases: []string{"k"},
						Usage:   "Maximum number of results",
						Value:   3,
					},
				}, aiFlags()...),
			},
			{
				Name:      "ask",
				Usage:     "Ask the assistant for event recommendations",
				ArgsUsage: "<question>",
				Action:    askCommand,
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:  "vectors",
						Usage: "Vector store directory",
						Value: "data/vectors",
					},
					&cli.IntFlag{
						Name:    "hits",
						Aliases: []string{"k"},
						Usage:   "Number of events grounding the answer",
						Value:   search.DefaultContextSize,
					},
					&cli.Float64Flag{
						Name:  "temperature",
						Usage: "Generation temperature",
						Value: 0.7,
					},
				}, aiFlags()...),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// aiFlags are shared by every command that talks to the model API.
func aiFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "api-key",
			Usage:   "API key for the model service",
			EnvVars: []string{"MISTRAL_API_KEY"},
		},
		&cli.StringFlag{
			Name:  "host",
			Usage: "Model service host URL",
			Value: "https://api.mistral.ai/v1",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
			Value: "mistral-embed",
		},
		&cli.StringFlag{
			Name:  "completion-model",
			Usage: "Completion model name",
			Value: "mistral-small-latest",
		},
	}
}

func aiConfig(c *cli.Context) (*ai.Config, error) {
	apiKey := c.String("api-key")
	if apiKey == "" {
		return nil, fmt.Errorf("api-key is required (flag --api-key or MISTRAL_API_KEY)")
	}

	opts := []ai.ConfigOption{
		ai.WithHost(c.String("host")),
		ai.WithAPIKey(apiKey),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithCompletionModel(c.String("completion-model")),
	}
	// Not every command carries the temperature flag.
	if c.IsSet("temperature") {
		opts = append(opts, ai.WithTemperature(c.Float64("temperature")))
	}

	cfg := ai.NewConfig(opts...)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}
	return cfg, nil
}

func fetchCommand(c *cli.Context) error {
	ctx := context.Background()

	apiConfig := opendata.DefaultConfig()
	apiConfig.BaseURL = c.String("base-url")
	client, err := opendata.NewClient(apiConfig)
	if err != nil {
		return fmt.Errorf("failed to create API client: %w", err)
	}

	pipeline, err := ingest.NewPipeline(client, ingest.Config{
		Region:      c.String("region"),
		Limit:       c.Int("limit"),
		SinceDays:   c.Int("since-days"),
		UntilDays:   c.Int("until-days"),
		WriteErrors: c.Bool("write-errors"),
		ErrorFile:   c.String("error-file"),
	})
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}

	report, err := pipeline.Run(ctx, c.String("output"))
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Fetched:  %d\n", report.Fetched)
	fmt.Fprintf(os.Stderr, "Accepted: %d\n", report.Accepted)
	fmt.Fprintf(os.Stderr, "Rejected: %d\n", report.Rejected)
	fmt.Fprintf(os.Stderr, "Saved:    %s\n", c.String("output"))
	return nil
}

func indexCommand(c *cli.Context) error {
	ctx := context.Background()

	cfg, err := aiConfig(c)
	if err != nil {
		return err
	}
	embedder, err := openai.NewEmbedder(cfg)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}

	columns := strings.Split(c.String("content-columns"), ",")
	for i := range columns {
		columns[i] = strings.TrimSpace(columns[i])
	}

	builder, err := indexer.NewBuilder(embedder, indexer.Config{
		ContentColumns: columns,
		IDColumn:       c.String("id-column"),
	})
	if err != nil {
		return fmt.Errorf("failed to create index builder: %w", err)
	}

	report, err := builder.Build(ctx, c.String("source"), c.String("vectors"))
	if err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Documents: %d\n", report.Documents)
	fmt.Fprintf(os.Stderr, "Dimension: %d\n", report.Dimension)
	fmt.Fprintf(os.Stderr, "Saved:     %s\n", c.String("vectors"))
	return nil
}

func searchCommand(c *cli.Context) error {
	ctx := context.Background()

	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("a query is required")
	}

	cfg, err := aiConfig(c)
	if err != nil {
		return err
	}
	embedder, err := openai.NewEmbedder(cfg)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}

	store, err := vectorstore.Load(c.String("vectors"), embedder)
	if err != nil {
		return fmt.Errorf("failed to load vector store: %w", err)
	}
	searcher, err := search.NewSearcher(store)
	if err != nil {
		return err
	}

	hits, err := searcher.FindSimilar(ctx, query, c.Int("hits"))
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	for i, hit := range hits {
		title, _ := hit.Document.Metadata["title_fr"].(string)
		url, _ := hit.Document.Metadata["canonicalurl"].(string)
		fmt.Printf("%d. %s (distance %.4f)\n", i+1, title, hit.Score)
		if url != "" {
			fmt.Printf("   %s\n", url)
		}
		fmt.Printf("   %s\n\n", firstLine(hit.Document.Content))
	}
	return nil
}

func askCommand(c *cli.Context) error {
	ctx := context.Background()

	question := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if question == "" {
		return fmt.Errorf("a question is required")
	}

	cfg, err := aiConfig(c)
	if err != nil {
		return err
	}
	provider, err := openai.NewProvider(cfg)
	if err != nil {
		return fmt.Errorf("failed to create AI provider: %w", err)
	}
	defer provider.Close()

	store, err := vectorstore.Load(c.String("vectors"), provider.Embedder())
	if err != nil {
		return fmt.Errorf("failed to load vector store: %w", err)
	}
	searcher, err := search.NewSearcher(store)
	if err != nil {
		return err
	}
	assistant, err := search.NewAssistant(searcher, provider.Completer(),
		search.WithContextSize(c.Int("hits")))
	if err != nil {
		return err
	}

	answer, err := assistant.Answer(ctx, question)
	if err != nil {
		return fmt.Errorf("failed to generate an answer: %w", err)
	}

	fmt.Println(answer.Text)
	fmt.Println()
	for _, source := range answer.Sources {
		title, _ := source.Document.Metadata["title_fr"].(string)
		url, _ := source.Document.Metadata["canonicalurl"].(string)
		fmt.Printf("- %s %s\n", title, url)
	}
	return nil
}

// firstLine truncates multi-paragraph document content for display.
func firstLine(content string) string {
	if idx := strings.Index(content, "\n"); idx >= 0 {
		return content[:idx]
	}
	return content
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
