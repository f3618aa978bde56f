// Copyright 2025 The chatting-with-docs authors
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
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	chatdocs "github.com/douglasmakey/chatting-with-docs"
	"github.com/douglasmakey/chatting-with-docs/ai"
	"github.com/douglasmakey/chatting-with-docs/ai/openai"
	"github.com/douglasmakey/chatting-with-docs/config"
	"github.com/douglasmakey/chatting-with-docs/ingestion"
	"github.com/douglasmakey/chatting-with-docs/rag"
	"github.com/douglasmakey/chatting-with-docs/reembed"
	"github.com/douglasmakey/chatting-with-docs/scraper"
	"github.com/douglasmakey/chatting-with-docs/splitter"
	"github.com/douglasmakey/chatting-with-docs/storage/badger"
	"github.com/douglasmakey/chatting-with-docs/tui"
)

func main() {
	// Secrets like OPENAI_API_KEY come from .env when present.
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "chatdocs",
		Usage: "Scrape documents, feed them into collections, and chat with them",
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
				Usage:   "Path to config.yaml",
				Value:   "config.yaml",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "scrape",
				Usage:     "Scrape a supported website into a local directory",
				ArgsUsage: "<target> <output-dir>",
				Action:    scrapeCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "pdf",
						Usage: "Render scraped pages as PDF instead of text (requires Chrome)",
					},
					&cli.IntFlag{
						Name:  "concurrency",
						Usage: "Number of pages fetched in parallel",
					},
					&cli.DurationFlag{
						Name:  "timeout",
						Usage: "Per-page fetch timeout",
						Value: 10 * time.Second,
					},
				},
			},
			{
				Name:      "feed",
				Usage:     "Feed documents from a directory into a collection",
				ArgsUsage: "<source-path> <collection-name>",
				Action:    feedCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "split",
						Usage: "Split documents into overlapping chunks before embedding",
					},
					&cli.StringFlag{
						Name:  "data-type",
						Usage: "File type to load (txt, md, pdf)",
						Value: "txt",
					},
					&cli.StringFlag{
						Name:  "db-path",
						Usage: "Path to the vector store directory",
					},
					&cli.IntFlag{
						Name:  "chunk-size",
						Usage: "Chunk size in characters",
						Value: splitter.DefaultChunkSize,
					},
					&cli.IntFlag{
						Name:  "chunk-overlap",
						Usage: "Chunk overlap in characters",
						Value: splitter.DefaultChunkOverlap,
					},
				},
			},
			{
				Name:      "app",
				Usage:     "Chat with a collection",
				ArgsUsage: "<collection-name>",
				Action:    appCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "db-path",
						Usage: "Path to the vector store directory",
					},
					&cli.StringFlag{
						Name:  "prompt",
						Usage: "Name of the prompt template from config.yaml",
						Value: "default",
					},
				},
			},
			{
				Name:      "reembed",
				Usage:     "Regenerate the vectors of a collection with the configured embedding model",
				ArgsUsage: "<collection-name>",
				Action:    reembedCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "db-path",
						Usage: "Path to the vector store directory",
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of entries to embed per API call",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N entries",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed embedding calls",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				},
			},
			{
				Name:   "collections",
				Usage:  "Manage collections",
				Action: listCollectionsCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "db-path",
						Usage: "Path to the vector store directory",
					},
				},
				Subcommands: []*cli.Command{
					{
						Name:      "delete",
						Usage:     "Delete a collection and all of its entries",
						ArgsUsage: "<collection-name>",
						Action:    deleteCollectionCommand,
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:  "db-path",
								Usage: "Path to the vector store directory",
							},
						},
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func scrapeCommand(c *cli.Context) error {
	if c.NArg() != 2 {
		return fmt.Errorf("usage: scrape <target> <output-dir> (targets: %s)",
			strings.Join(scraper.Targets(), ", "))
	}
	target := c.Args().Get(0)
	outputDir := c.Args().Get(1)

	var (
		writer scraper.Writer
		err    error
	)
	if c.Bool("pdf") {
		writer, err = scraper.NewPDFWriter(outputDir)
	} else {
		writer, err = scraper.NewTextWriter(outputDir)
	}
	if err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	var opts []scraper.TargetOption
	if c.Int("concurrency") > 0 {
		opts = append(opts, scraper.WithPoolSize(c.Int("concurrency")))
	}

	s, err := scraper.New(target, scraper.NewFetcher(c.Duration("timeout")), writer, opts...)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Scraping %s into %s\n", target, outputDir)
	if err := s.Run(context.Background()); err != nil {
		return fmt.Errorf("scrape failed: %w", err)
	}
	fmt.Fprintln(os.Stderr, "Done")
	return nil
}

func feedCommand(c *cli.Context) error {
	if c.NArg() != 2 {
		return fmt.Errorf("usage: feed <source-path> <collection-name>")
	}
	sourcePath := c.Args().Get(0)
	collection := c.Args().Get(1)

	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := openDatabase(c, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	feeder, err := db.NewFeeder(ingestion.WithSplitterConfig(splitter.Config{
		ChunkSize:    c.Int("chunk-size"),
		ChunkOverlap: c.Int("chunk-overlap"),
	}))
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Feeding %q from %s\n", collection, sourcePath)
	result, err := feeder.Feed(context.Background(), ingestion.Request{
		SourcePath: sourcePath,
		Collection: collection,
		DataType:   c.String("data-type"),
		Split:      c.Bool("split"),
	})
	if err != nil {
		return fmt.Errorf("feed failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Stored %d chunks from %d documents in %s\n",
		result.Chunks, result.Documents, result.Elapsed.Round(time.Millisecond))
	return nil
}

func appCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("usage: app <collection-name>")
	}
	collection := c.Args().Get(0)

	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := openDatabase(c, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	// The collection must exist before starting the chat.
	if _, err := db.Store().GetCollection(context.Background(), collection); err != nil {
		return fmt.Errorf("collection %q: %w", collection, err)
	}

	ragOpts := []rag.Option{
		rag.WithTopK(cfg.K),
		rag.WithMinSimilarity(cfg.MinSimilarity),
	}
	if template, ok := cfg.Prompt(c.String("prompt")); ok {
		ragOpts = append(ragOpts, rag.WithTemplate(template))
	} else if c.String("prompt") != "default" {
		return fmt.Errorf("prompt %q not found in config", c.String("prompt"))
	}

	service, err := db.NewRAGService(ragOpts...)
	if err != nil {
		return err
	}

	if _, err := tea.NewProgram(tui.New(service, collection)).Run(); err != nil {
		return fmt.Errorf("chat app failed: %w", err)
	}
	return nil
}

func reembedCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("usage: reembed <collection-name>")
	}
	collection := c.Args().Get(0)

	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	dbPath := c.String("db-path")
	if dbPath == "" {
		dbPath = cfg.DBPath
	}

	backend, err := badger.OpenBackend(dbPath, false)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	store, err := badger.NewCollectionStore(backend)
	if err != nil {
		backend.Close()
		return err
	}
	defer store.Close()

	aiConfig := ai.NewConfig(
		ai.WithHost(cfg.Host),
		ai.WithEmbeddingModel(cfg.EmbedModel),
		ai.WithChatModel(cfg.ChatModel),
		ai.WithToken(os.Getenv("OPENAI_API_KEY")),
	)
	if err := aiConfig.Validate(); err != nil {
		return fmt.Errorf("invalid AI configuration: %w", err)
	}

	embedder, err := openai.NewEmbedder(aiConfig)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}

	reembedConfig := &reembed.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}
	if reembedConfig.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if reembedConfig.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if reembedConfig.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	fmt.Fprintf(os.Stderr, "Database: %s\n", dbPath)
	fmt.Fprintf(os.Stderr, "Embedding model: %s\n", cfg.EmbedModel)
	fmt.Fprintln(os.Stderr)

	reembedder := reembed.NewReembedder(store, embedder, reembedConfig, os.Stderr)
	if err := reembedder.Run(context.Background(), collection); err != nil {
		return fmt.Errorf("reembedding failed: %w", err)
	}
	return nil
}

func listCollectionsCommand(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := openDatabase(c, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := context.Background()
	collections, err := db.Store().ListCollections(ctx)
	if err != nil {
		return err
	}
	if len(collections) == 0 {
		fmt.Println("No collections.")
		return nil
	}

	for _, collection := range collections {
		count, err := db.Store().CountEntries(ctx, collection.Name)
		if err != nil {
			return err
		}
		fmt.Printf("%s\t%d entries\tcreated %s\n",
			collection.Name, count, collection.CreatedAt.Format(time.DateOnly))
	}
	return nil
}

func deleteCollectionCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("usage: collections delete <collection-name>")
	}
	collection := c.Args().Get(0)

	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := openDatabase(c, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.Store().DeleteCollection(context.Background(), collection); err != nil {
		return fmt.Errorf("failed to delete %q: %w", collection, err)
	}
	fmt.Fprintf(os.Stderr, "Deleted %q\n", collection)
	return nil
}

// openDatabase resolves the store path (flag wins over config) and
// connects the AI provider from config and environment.
func openDatabase(c *cli.Context, cfg *config.AppConfig) (*chatdocs.Database, error) {
	dbPath := c.String("db-path")
	if dbPath == "" {
		dbPath = cfg.DBPath
	}

	aiConfig := ai.NewConfig(
		ai.WithHost(cfg.Host),
		ai.WithEmbeddingModel(cfg.EmbedModel),
		ai.WithChatModel(cfg.ChatModel),
		ai.WithToken(os.Getenv("OPENAI_API_KEY")),
	)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	db, err := chatdocs.NewDatabase(dbPath, chatdocs.WithAIConfig(aiConfig))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
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
