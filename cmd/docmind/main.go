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
	"time"

	"github.com/urfave/cli/v2"

	"github.com/poiesic/docmind"
	"github.com/poiesic/docmind/core"
	"github.com/poiesic/docmind/extract"
	"github.com/poiesic/docmind/resegment"
	"github.com/poiesic/docmind/retrieval"
	"github.com/poiesic/docmind/source/local"
)

func main() {
	app := &cli.App{
		Name:  "docmind",
		Usage: "Document ingestion and retrieval for conversational context",
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
				Name:      "attach",
				Usage:     "Attach documents to a conversation and wait for extraction",
				ArgsUsage: "FILE [FILE...]",
				Action:    attachCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "source",
						Aliases:  []string{"s"},
						Usage:    "Directory holding the source documents",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "conversation",
						Aliases: []string{"c"},
						Usage:   "Conversation ID (generated when omitted)",
					},
					&cli.DurationFlag{
						Name:  "segment-ttl",
						Usage: "How long extracted segments stay cached",
						Value: time.Hour,
					},
					&cli.StringFlag{
						Name:  "segmenter",
						Usage: "Segmentation strategy (words or recursive)",
						Value: "words",
					},
					&cli.DurationFlag{
						Name:  "wait",
						Usage: "Maximum time to wait for extraction to finish",
						Value: 5 * time.Minute,
					},
				},
			},
			{
				Name:      "ask",
				Usage:     "Retrieve the segments most relevant to a question",
				ArgsUsage: "QUESTION",
				Action:    askCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "source",
						Aliases:  []string{"s"},
						Usage:    "Directory holding the source documents",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "conversation",
						Aliases:  []string{"c"},
						Usage:    "Conversation ID",
						Required: true,
					},
					&cli.StringSliceFlag{
						Name:  "doc",
						Usage: "Restrict retrieval to documents with this name (repeatable)",
					},
					&cli.IntFlag{
						Name:  "max-segments",
						Usage: "Maximum number of segments to return",
						Value: retrieval.DefaultMaxSegments,
					},
				},
			},
			{
				Name:   "status",
				Usage:  "Show the ingestion status of a conversation's documents",
				Action: statusCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "source",
						Aliases:  []string{"s"},
						Usage:    "Directory holding the source documents",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "conversation",
						Aliases:  []string{"c"},
						Usage:    "Conversation ID",
						Required: true,
					},
				},
			},
			{
				Name:   "sweep",
				Usage:  "Rebuild expired segment caches for READY documents",
				Action: sweepCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "source",
						Aliases:  []string{"s"},
						Usage:    "Directory holding the source documents",
						Required: true,
					},
					&cli.DurationFlag{
						Name:  "segment-ttl",
						Usage: "How long rebuilt segments stay cached",
						Value: time.Hour,
					},
					&cli.DurationFlag{
						Name:  "wait",
						Usage: "Maximum time to wait for requeued extraction to finish",
						Value: 5 * time.Minute,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func openDatabase(c *cli.Context, opts ...docmind.DatabaseOption) (*docmind.Database, *local.Store, error) {
	files, err := local.NewStore(c.String("source"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open source directory: %w", err)
	}

	db, err := docmind.NewDatabase(c.String("db"), files, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, files, nil
}

func attachCommand(c *cli.Context) error {
	ctx := context.Background()

	if c.NArg() == 0 {
		return fmt.Errorf("at least one file path is required")
	}

	opts := []docmind.DatabaseOption{docmind.WithSegmentTTL(c.Duration("segment-ttl"))}
	switch c.String("segmenter") {
	case "words":
	case "recursive":
		segmenter, err := extract.NewSplitterSegmenter(extract.DefaultChunkSize, extract.DefaultChunkOverlap)
		if err != nil {
			return err
		}
		opts = append(opts, docmind.WithSegmenter(segmenter))
	default:
		return fmt.Errorf("invalid segmenter %q: must be words or recursive", c.String("segmenter"))
	}

	db, _, err := openDatabase(c, opts...)
	if err != nil {
		return err
	}
	defer db.Close()

	conversationID := c.String("conversation")
	if conversationID == "" {
		conversationID = docmind.NewConversationID()
		fmt.Printf("Conversation: %s\n", conversationID)
	}

	docIDs := make([]core.ID, c.NArg())
	for i, path := range c.Args().Slice() {
		docIDs[i] = local.DocID(path)
	}

	result, err := db.Attach(ctx, conversationID, docIDs...)
	if err != nil {
		return fmt.Errorf("attach failed: %w", err)
	}

	for _, doc := range result.Ingested {
		fmt.Printf("queued   %s (doc %d)\n", doc.Name, doc.DocID)
	}
	for _, failed := range result.Failed {
		fmt.Printf("failed   doc %d: %s\n", failed.DocID, failed.Error)
	}

	waitCtx, cancel := context.WithTimeout(ctx, c.Duration("wait"))
	defer cancel()
	if err := db.Drain(waitCtx); err != nil {
		return fmt.Errorf("extraction did not finish in time: %w", err)
	}

	return printStatus(ctx, db, conversationID)
}

func askCommand(c *cli.Context) error {
	ctx := context.Background()

	question := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if question == "" {
		return fmt.Errorf("a question is required")
	}

	db, _, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	result, err := db.Ask(ctx, c.String("conversation"), question, retrieval.Options{
		TargetDocs:  c.StringSlice("doc"),
		MaxSegments: c.Int("max-segments"),
	})
	if err != nil {
		return fmt.Errorf("retrieval failed: %w", err)
	}

	if result.Message != "" {
		fmt.Println(result.Message)
		return nil
	}

	for i, segment := range result.Segments {
		fmt.Printf("--- %d. %s [segment %d, score %.2f]\n%s\n",
			i+1, segment.DocName, segment.Index, segment.Score, segment.Text)
	}
	return nil
}

func statusCommand(c *cli.Context) error {
	db, _, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	return printStatus(context.Background(), db, c.String("conversation"))
}

func printStatus(ctx context.Context, db *docmind.Database, conversationID string) error {
	records, err := db.Status(ctx, conversationID)
	if err != nil {
		return fmt.Errorf("status failed: %w", err)
	}
	if len(records) == 0 {
		fmt.Println("no documents attached")
		return nil
	}

	for _, record := range records {
		line := fmt.Sprintf("%-10s %s (doc %d, %d segments)",
			record.Status, record.Name, record.DocID, record.SegmentsCount)
		if record.Error != "" {
			line += " error: " + record.Error
		}
		fmt.Println(line)
	}
	return nil
}

func sweepCommand(c *cli.Context) error {
	ctx := context.Background()

	db, _, err := openDatabase(c, docmind.WithSegmentTTL(c.Duration("segment-ttl")))
	if err != nil {
		return err
	}
	defer db.Close()

	var report *resegment.Report
	report, err = db.Sweep(ctx)
	if err != nil {
		return fmt.Errorf("sweep failed: %w", err)
	}

	fmt.Printf("Swept %d conversations, scanned %d documents, requeued %d\n",
		report.Conversations, report.Scanned, report.Requeued)

	if report.Requeued > 0 {
		waitCtx, cancel := context.WithTimeout(ctx, c.Duration("wait"))
		defer cancel()
		if err := db.Drain(waitCtx); err != nil {
			return fmt.Errorf("requeued extraction did not finish in time: %w", err)
		}
	}
	return nil
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
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

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
