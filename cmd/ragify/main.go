// Copyright 2025 RAGify Authors
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
	"path/filepath"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	ragify "github.com/shakedshoshan/RAGify-sub000"
	"github.com/shakedshoshan/RAGify-sub000/ai"
	"github.com/shakedshoshan/RAGify-sub000/ai/openai"
	"github.com/shakedshoshan/RAGify-sub000/bus"
	"github.com/shakedshoshan/RAGify-sub000/core"
	"github.com/shakedshoshan/RAGify-sub000/pipeline"
	"github.com/shakedshoshan/RAGify-sub000/splitter"
	storagebadger "github.com/shakedshoshan/RAGify-sub000/storage/badger"
	vectorbadger "github.com/shakedshoshan/RAGify-sub000/vectorstore/badger"
)

func main() {
	app := &cli.App{
		Name:  "ragify",
		Usage: "Prepare documents for retrieval-augmented generation",
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
				Name:      "add",
				Usage:     "Add raw documents to a project",
				ArgsUsage: "FILE [FILE...]",
				Action:    addCommand,
				Flags: []cli.Flag{
					dbFlag(),
					projectFlag(),
					&cli.StringFlag{
						Name:  "content-type",
						Usage: "Content type recorded on the documents",
						Value: "text/plain",
					},
				},
			},
			{
				Name:   "prepare",
				Usage:  "Run the chunk-embed-ingest-cleanup pipeline for a project",
				Action: prepareCommand,
				Flags: []cli.Flag{
					dbFlag(),
					projectFlag(),
					&cli.IntFlag{
						Name:  "chunk-size",
						Usage: "Maximum chunk size in characters",
						Value: 1000,
					},
					&cli.IntFlag{
						Name:  "chunk-overlap",
						Usage: "Overlap between consecutive chunks in characters",
						Value: 200,
					},
					&cli.StringFlag{
						Name:  "strategy",
						Usage: "Chunking strategy (semantic, fixed, hybrid)",
						Value: string(core.StrategySemantic),
					},
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service host URL",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:     "embedding-model",
						Usage:    "Embedding model name",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "delete-existing",
						Usage: "Delete the project's chunks and vectors before preparing",
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for transient failures",
						Value: 5,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
					&cli.DurationFlag{
						Name:  "max-retry-delay",
						Usage: "Upper bound on the backoff delay",
						Value: 60 * time.Second,
					},
					&cli.IntFlag{
						Name:  "upsert-batch-size",
						Usage: "Vectors written per vector-store transaction",
						Value: 100,
					},
				},
			},
			{
				Name:      "query",
				Usage:     "Search a project's vector index",
				ArgsUsage: "QUERY TEXT",
				Action:    queryCommand,
				Flags: []cli.Flag{
					dbFlag(),
					projectFlag(),
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service host URL",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:     "embedding-model",
						Usage:    "Embedding model name",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "top-k",
						Usage: "Number of matches to return",
						Value: 5,
					},
				},
			},
			{
				Name:   "status",
				Usage:  "Show a project's stored documents and chunks",
				Action: statusCommand,
				Flags:  []cli.Flag{dbFlag(), projectFlag()},
			},
			{
				Name:      "split",
				Usage:     "Split a file and print the resulting chunks without persisting",
				ArgsUsage: "FILE",
				Action:    splitCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "chunk-size",
						Usage: "Maximum chunk size in characters",
						Value: 1000,
					},
					&cli.IntFlag{
						Name:  "chunk-overlap",
						Usage: "Overlap between consecutive chunks in characters",
						Value: 200,
					},
					&cli.StringFlag{
						Name:  "strategy",
						Usage: "Chunking strategy (semantic, fixed, hybrid)",
						Value: string(core.StrategySemantic),
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func dbFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "db",
		Aliases:  []string{"d"},
		Usage:    "Path to BadgerDB database directory",
		Required: true,
	}
}

func projectFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "project",
		Aliases:  []string{"p"},
		Usage:    "Project identifier",
		Required: true,
	}
}

func addCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("at least one file is required")
	}

	ws, err := ragify.OpenWorkspace(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open workspace: %w", err)
	}
	defer ws.Close()
	docs := ws.DocumentRepository()

	ctx := context.Background()
	for _, path := range c.Args().Slice() {
		text, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		added, err := docs.AddRawDocuments(ctx, &core.RawDocument{
			ProjectId:   c.String("project"),
			Name:        filepath.Base(path),
			Text:        string(text),
			ContentType: c.String("content-type"),
		})
		if err != nil {
			return fmt.Errorf("failed to add %s: %w", path, err)
		}
		fmt.Fprintf(os.Stderr, "added %s (id=%d, %d bytes)\n",
			path, added[0].Id, len(text))
	}
	return nil
}

func prepareCommand(c *cli.Context) error {
	ctx := context.Background()

	backend, err := storagebadger.OpenBackend(c.String("db"), false)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer backend.Close()

	docs, err := storagebadger.NewDocumentRepository(backend)
	if err != nil {
		return fmt.Errorf("failed to create document repository: %w", err)
	}
	defer docs.Close()

	chunks, err := storagebadger.NewChunkRepository(backend)
	if err != nil {
		return fmt.Errorf("failed to create chunk repository: %w", err)
	}
	defer chunks.Close()

	vectors := vectorbadger.NewStore(backend)
	embedder, err := newEmbedder(c)
	if err != nil {
		return err
	}

	b, err := bus.NewInMemory()
	if err != nil {
		return fmt.Errorf("failed to create bus: %w", err)
	}
	defer b.Release()

	orch, err := pipeline.NewOrchestrator(b, docs, chunks, vectors, embedder,
		pipeline.WithRetryConfig(pipeline.RetryConfig{
			MaxRetries:    c.Int("max-retries"),
			InitialDelay:  c.Duration("retry-delay"),
			MaxDelay:      c.Duration("max-retry-delay"),
			BackoffFactor: 2.0,
		}),
		pipeline.WithUpsertBatchSize(c.Int("upsert-batch-size")),
	)
	if err != nil {
		return fmt.Errorf("failed to create orchestrator: %w", err)
	}
	if err := orch.Start(); err != nil {
		return fmt.Errorf("failed to start orchestrator: %w", err)
	}

	corrID, err := orch.Prepare(ctx, c.String("project"), pipeline.PrepareOptions{
		ChunkSize:      c.Int("chunk-size"),
		ChunkOverlap:   c.Int("chunk-overlap"),
		Strategy:       core.ChunkStrategy(c.String("strategy")),
		ModelName:      c.String("embedding-model"),
		DeleteExisting: c.Bool("delete-existing"),
	})
	if err != nil {
		return fmt.Errorf("prepare failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Project: %s\n", c.String("project"))
	fmt.Fprintf(os.Stderr, "Run: %s\n", corrID)
	b.Wait()

	st, err := orch.Status(corrID)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "State: %s\n", st.State)
	fmt.Fprintf(os.Stderr, "Chunks: %d\n", st.ChunkCount)
	fmt.Fprintf(os.Stderr, "Vectors: %d\n", st.VectorCount)
	if st.State == pipeline.StateFailed {
		return fmt.Errorf("pipeline run failed: %s", st.LastError)
	}
	return nil
}

func queryCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("query text is required")
	}
	query := strings.Join(c.Args().Slice(), " ")

	ws, err := ragify.OpenWorkspace(c.String("db"), ragify.WithAIConfig(ai.NewConfig(
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
	)))
	if err != nil {
		return fmt.Errorf("failed to open workspace: %w", err)
	}
	defer ws.Close()
	vectors := ws.VectorStore()

	ctx := context.Background()
	embedding, err := ws.Embedder().EmbedText(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to embed query: %w", err)
	}

	matches, err := vectors.Query(ctx, c.String("project"), embedding, c.Int("top-k"))
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	fmt.Printf("Found %d hits\n", len(matches))
	for i, hit := range matches {
		fmt.Printf("%d: '%s' (%s#%d)[%0.3f]\n",
			i, hit.Metadata.Content, hit.Metadata.Source, hit.Metadata.ChunkIndex, hit.Score)
	}
	return nil
}

func statusCommand(c *cli.Context) error {
	backend, err := storagebadger.OpenBackend(c.String("db"), false)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer backend.Close()

	docs, err := storagebadger.NewDocumentRepository(backend)
	if err != nil {
		return fmt.Errorf("failed to create document repository: %w", err)
	}
	defer docs.Close()

	chunks, err := storagebadger.NewChunkRepository(backend)
	if err != nil {
		return fmt.Errorf("failed to create chunk repository: %w", err)
	}
	defer chunks.Close()

	ctx := context.Background()
	project := c.String("project")

	texts, err := docs.ListRawTexts(ctx, project)
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}
	stored, err := chunks.GetChunksByProject(ctx, project)
	if err != nil {
		return fmt.Errorf("failed to list chunks: %w", err)
	}

	fmt.Printf("Project: %s\n", project)
	fmt.Printf("Documents: %d\n", len(texts))
	for _, d := range texts {
		fmt.Printf("  %d: %s (%d chars)\n", d.Id, d.Name, len(d.Text))
	}
	fmt.Printf("Pending chunks: %d\n", len(stored))
	return nil
}

func splitCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("exactly one file is required")
	}
	text, err := os.ReadFile(c.Args().First())
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	pieces, err := splitter.Split(string(text),
		c.Int("chunk-size"), c.Int("chunk-overlap"),
		core.ChunkStrategy(c.String("strategy")))
	if err != nil {
		return fmt.Errorf("split failed: %w", err)
	}

	fmt.Printf("Pieces: %d\n", len(pieces))
	for i, p := range pieces {
		fmt.Printf("--- %d [%d:%d] (%d chars)\n%s\n", i, p.StartIndex, p.EndIndex, len(p.Content), p.Content)
	}
	return nil
}

func newEmbedder(c *cli.Context) (ai.Embedder, error) {
	cfg := ai.NewConfig(
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
	)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}
	embedder, err := openai.NewEmbedder(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}
	return embedder, nil
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
