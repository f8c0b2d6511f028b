package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/iudanet/drafthist/internal/session"
	"github.com/iudanet/drafthist/internal/storage/boltdb"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Глобальные флаги
	showVersion := flag.Bool("version", false, "Show version information")
	dbPath := flag.String("db", "drafthist.db", "Path to history snapshot database")
	documentID := flag.String("doc", "", "Document ID to inspect")

	flag.Parse()

	// Show version and exit if requested
	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	// Получаем команду
	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	command := args[0]

	// Создаем контекст
	ctx := context.Background()

	// Открываем хранилище снимков
	store, err := boltdb.New(ctx, *dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if err := store.Close(); err != nil {
			slog.Error("failed to close database", "error", err)
		}
	}()

	// Команда docs не требует документа
	if command == "docs" {
		if err := runDocs(ctx, store); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if *documentID == "" {
		fmt.Fprintln(os.Stderr, "Error: -doc flag is required")
		os.Exit(1)
	}

	// Загружаем сессию документа
	sess := session.NewService(session.Config{
		Snapshots:  store,
		DocumentID: *documentID,
	})
	if err := sess.Load(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Выполняем команду
	switch command {
	case "tree":
		fmt.Print(sess.TreeString())
	case "log":
		runLog(sess)
	case "stats":
		runStats(sess)
	case "branches":
		runBranches(sess)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

// runDocs выводит список документов с сохраненными снимками
func runDocs(ctx context.Context, store *boltdb.Storage) error {
	documents, err := store.ListDocuments(ctx)
	if err != nil {
		return err
	}

	if len(documents) == 0 {
		fmt.Println("No documents found")
		return nil
	}

	for _, id := range documents {
		fmt.Println(id)
	}

	return nil
}

// runLog выводит операции от корня к текущему узлу
func runLog(sess session.Service) {
	operations := sess.CurrentOperations()
	if len(operations) == 0 {
		fmt.Println("History is empty")
		return
	}

	for _, op := range operations {
		fmt.Printf("%d  %s  [%s]  %s\n",
			op.ID,
			op.Timestamp.Format("2006-01-02 15:04:05"),
			op.Kind,
			op.Description,
		)
	}
}

// runStats выводит статистику дерева истории
func runStats(sess session.Service) {
	stats := sess.Stats()

	fmt.Printf("Document:            %s\n", sess.DocumentID())
	fmt.Printf("Total operations:    %d\n", stats.TotalOperations)
	fmt.Printf("Current depth:       %d\n", stats.CurrentDepth)
	fmt.Printf("Branches:            %d\n", stats.BranchCount)
	fmt.Printf("Compression savings: %d\n", stats.CompressionSavings)
	if !stats.LastOperationTime.IsZero() {
		fmt.Printf("Last operation:      %s\n", stats.LastOperationTime.Format("2006-01-02 15:04:05"))
	}
}

// runBranches выводит именованные ветви
func runBranches(sess session.Service) {
	branches := sess.Branches()
	if len(branches) == 0 {
		fmt.Println("No branches")
		return
	}

	for name, id := range branches {
		fmt.Printf("%s -> %d\n", name, id)
	}
}

func printVersion() {
	fmt.Printf("drafthist %s\n", Version)
	fmt.Printf("Build date: %s\n", BuildDate)
	fmt.Printf("Git commit: %s\n", GitCommit)
}

func printUsage() {
	fmt.Println("Usage: drafthist [flags] <command>")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  docs      List documents with stored snapshots")
	fmt.Println("  tree      Print the history tree of a document")
	fmt.Println("  log       Print operations from root to the current node")
	fmt.Println("  stats     Print history statistics")
	fmt.Println("  branches  Print named branches")
	fmt.Println()
	fmt.Println("Flags:")
	flag.PrintDefaults()
}
