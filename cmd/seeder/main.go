// Seeder populates a database with sample documents for manual testing.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/poiesic/docmind"
	"github.com/poiesic/docmind/core"
	"github.com/poiesic/docmind/retrieval"
	"github.com/poiesic/docmind/source/local"
)

var sampleDocs = map[string]string{
	"onboarding.txt": strings.Join([]string{
		"Welcome to the engineering team.",
		"Your laptop ships with the standard development image.",
		"Request production access through the access portal after your first week.",
		"All services deploy through the shared pipeline; direct pushes are disabled.",
		"The on-call rotation starts after your third month.",
	}, "\n"),
	"expenses.txt": strings.Join([]string{
		"Expense reports must be filed within thirty days of purchase.",
		"Meals during travel are reimbursed up to the regional per diem.",
		"Equipment above five hundred dollars needs manager approval.",
		"Recurring subscriptions require a yearly renewal review.",
	}, "\n"),
	"quarterly.txt": strings.Join([]string{
		"Quarterly revenue grew twelve percent compared to the previous year.",
		"Operating expenses remained flat across all departments.",
		"Headcount increased by eight percent, concentrated in platform teams.",
		"Revenue projections for next quarter assume stable currency rates.",
	}, "\n"),
}

func main() {
	dbPath := flag.String("db", "", "path to BadgerDB database directory (required)")
	sourceDir := flag.String("source", "", "directory to seed with sample documents (required)")
	question := flag.String("ask", "how did revenue change", "question to ask after seeding")
	flag.Parse()

	if *dbPath == "" || *sourceDir == "" {
		flag.Usage()
		os.Exit(1)
	}

	if err := run(*dbPath, *sourceDir, *question); err != nil {
		slog.Error("seeding failed", "err", err)
		os.Exit(1)
	}
}

func run(dbPath, sourceDir, question string) error {
	if err := os.MkdirAll(sourceDir, 0o755); err != nil {
		return err
	}
	for name, content := range sampleDocs {
		if err := os.WriteFile(filepath.Join(sourceDir, name), []byte(content), 0o644); err != nil {
			return err
		}
	}

	files, err := local.NewStore(sourceDir)
	if err != nil {
		return err
	}

	db, err := docmind.NewDatabase(dbPath, files)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := context.Background()
	conversationID := docmind.NewConversationID()
	fmt.Printf("Conversation: %s\n", conversationID)

	docIDs := make([]core.ID, 0, len(sampleDocs))
	for name := range sampleDocs {
		docIDs = append(docIDs, local.DocID(name))
	}

	result, err := db.Attach(ctx, conversationID, docIDs...)
	if err != nil {
		return err
	}
	fmt.Printf("Queued %d documents\n", len(result.Ingested))

	drainCtx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()
	if err := db.Drain(drainCtx); err != nil {
		return err
	}

	records, err := db.Status(ctx, conversationID)
	if err != nil {
		return err
	}
	for _, record := range records {
		fmt.Printf("%-10s %s (%d segments)\n", record.Status, record.Name, record.SegmentsCount)
	}

	answer, err := db.Ask(ctx, conversationID, question, retrieval.Options{})
	if err != nil {
		return err
	}

	fmt.Printf("\nQ: %s\n", question)
	for i, segment := range answer.Segments {
		if segment.Score == 0 {
			continue
		}
		fmt.Printf("%d. %s (%.2f): %s\n", i+1, segment.DocName, segment.Score, segment.Text)
	}
	return nil
}
