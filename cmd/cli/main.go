package main

import (
	"context"
	"flag"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/spendlens/spendlens/internal/analytics"
	"github.com/spendlens/spendlens/internal/archive"
	"github.com/spendlens/spendlens/internal/config"
	"github.com/spendlens/spendlens/internal/domain"
	"github.com/spendlens/spendlens/internal/gemini"
	infraBQ "github.com/spendlens/spendlens/internal/infra/bigquery"
	"github.com/spendlens/spendlens/internal/logger"
)

func main() {
	_ = godotenv.Load()

	log := logger.New()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "ingest":
		runIngest(log)
	case "inspect":
		runInspect(log)
	case "summary":
		runSummary(log)
	case "archive":
		runArchive(log)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("SpendLens CLI")
	fmt.Println("\nUsage:")
	fmt.Println("  cli <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  ingest    Parse a local receipt image and save the expense record")
	fmt.Println("  inspect   Inspect a stored expense record and its line items")
	fmt.Println("  summary   Print a user's category breakdown for the last 30 days")
	fmt.Println("  archive   Upload a receipt image to the archive bucket")
	fmt.Println("  help      Show this help message")
	fmt.Println("\nRun 'cli <command> -h' for more information on a command.")
}

func loadConfig(log zerolog.Logger) *config.Config {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	return cfg
}

func openRepository(ctx context.Context, cfg *config.Config, log zerolog.Logger) *infraBQ.Repository {
	repo, err := infraBQ.NewRepository(ctx, cfg.BigQueryProject, cfg.BigQueryDataset)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create BigQuery repository")
	}
	return repo
}

func runIngest(log zerolog.Logger) {
	fs := flag.NewFlagSet("ingest", flag.ExitOnError)
	imagePath := fs.String("image", "", "Path to a local receipt image")
	googleID := fs.String("google-id", "", "Owner of the resulting expense record")
	mimeType := fs.String("mime", "", "Image MIME type (defaults from the file extension)")
	fs.Parse(os.Args[2:])

	if *imagePath == "" || *googleID == "" {
		log.Fatal().Msg("Usage: cli ingest -image PATH -google-id ID")
	}

	cfg := loadConfig(log)

	contentType := *mimeType
	if contentType == "" {
		contentType = mime.TypeByExtension(strings.ToLower(filepath.Ext(*imagePath)))
	}
	if !gemini.IsAllowedImageType(contentType) {
		log.Fatal().Str("mime_type", contentType).Msg("Unsupported image type")
	}

	image, err := os.ReadFile(*imagePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read image")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	log.Info().Str("image", *imagePath).Str("google_id", *googleID).Msg("Parsing receipt")

	receipt, err := gemini.NewClient(cfg.GeminiModel).ParseReceipt(ctx, image, contentType)
	if err != nil {
		log.Fatal().Err(err).Msg("Parsing failed")
	}

	receipt.OwnerID = *googleID
	receipt.CreatedAt = time.Now().UTC()
	domain.AssignIdentifiers(receipt)

	repo := openRepository(ctx, cfg, log)
	defer repo.Close()

	if err := repo.InsertReceipt(ctx, receipt); err != nil {
		log.Fatal().Err(err).Msg("Failed to save receipt")
	}

	fmt.Printf("Saved receipt %s with %d item(s), total %s\n",
		receipt.ReceiptID, len(receipt.Items), receipt.Total().StringFixed(2))
}

func runInspect(log zerolog.Logger) {
	fs := flag.NewFlagSet("inspect", flag.ExitOnError)
	googleID := fs.String("google-id", "", "Record owner")
	receiptID := fs.String("receipt-id", "", "Expense record ID")
	fs.Parse(os.Args[2:])

	if *googleID == "" || *receiptID == "" {
		log.Fatal().Msg("Usage: cli inspect -google-id ID -receipt-id ID")
	}

	cfg := loadConfig(log)

	ctx := logger.WithContext(context.Background(), log)

	repo := openRepository(ctx, cfg, log)
	defer repo.Close()

	receipts, err := repo.ListReceiptsByOwner(ctx, *googleID)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to list receipts")
	}

	var receipt *domain.Receipt
	for i := range receipts {
		if receipts[i].ReceiptID == *receiptID {
			receipt = &receipts[i]
			break
		}
	}
	if receipt == nil {
		log.Fatal().Msg("Receipt not found")
	}

	fmt.Println("\n=== Expense Record ===")
	fmt.Printf("ID:       %s\n", receipt.ReceiptID)
	fmt.Printf("Owner:    %s\n", receipt.OwnerID)
	fmt.Printf("Vendor:   %s\n", receipt.Vendor)
	if receipt.PurchaseDate != nil {
		fmt.Printf("Date:     %s\n", receipt.PurchaseDate.Format("2006-01-02"))
	} else {
		fmt.Printf("Date:     unknown\n")
	}
	if receipt.ImageURI != "" {
		fmt.Printf("Image:    %s\n", receipt.ImageURI)
	}
	fmt.Printf("Created:  %s\n", receipt.CreatedAt.Format(time.RFC3339))

	fmt.Printf("\n=== Line Items (%d) ===\n", len(receipt.Items))
	for i, item := range receipt.Items {
		fmt.Printf("\n%d. %s\n", i+1, item.Description)
		fmt.Printf("   Category: %s\n", item.Category)
		fmt.Printf("   Price:    %s\n", item.Price.StringFixed(2))
	}
	fmt.Printf("\nTotal: %s\n\n", receipt.Total().StringFixed(2))
}

func runSummary(log zerolog.Logger) {
	fs := flag.NewFlagSet("summary", flag.ExitOnError)
	googleID := fs.String("google-id", "", "Record owner")
	days := fs.Int("days", 30, "Window size in days")
	fs.Parse(os.Args[2:])

	if *googleID == "" {
		log.Fatal().Msg("Usage: cli summary -google-id ID")
	}

	cfg := loadConfig(log)

	ctx := logger.WithContext(context.Background(), log)

	repo := openRepository(ctx, cfg, log)
	defer repo.Close()

	end := time.Now().UTC()
	start := end.AddDate(0, 0, -*days)

	receipts, err := repo.QueryReceiptsByOwnerAndDateRange(ctx, *googleID, start, end)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to query receipts")
	}

	breakdown := analytics.AggregateCategories(receipts)
	if len(breakdown) == 0 {
		fmt.Printf("No expenses found for %s in the last %d days.\n", *googleID, *days)
		return
	}

	fmt.Printf("\n=== Spending by Category (last %d days) ===\n", *days)
	for _, entry := range breakdown {
		fmt.Printf("%-20s %10s  %3d%%\n", entry.Name, entry.Amount.StringFixed(2), entry.Percentage)
	}
	fmt.Println()
}

func runArchive(log zerolog.Logger) {
	fs := flag.NewFlagSet("archive", flag.ExitOnError)
	imagePath := fs.String("image", "", "Path to a local receipt image")
	googleID := fs.String("google-id", "", "Record owner")
	receiptID := fs.String("receipt-id", "", "Expense record the image belongs to")
	fs.Parse(os.Args[2:])

	if *imagePath == "" || *googleID == "" || *receiptID == "" {
		log.Fatal().Msg("Usage: cli archive -image PATH -google-id ID -receipt-id ID")
	}

	cfg := loadConfig(log)
	store := archive.NewStore(cfg.GCSBucket)
	if !store.Enabled() {
		log.Fatal().Msg("GCS_BUCKET is not configured")
	}

	contentType := mime.TypeByExtension(strings.ToLower(filepath.Ext(*imagePath)))
	data, err := os.ReadFile(*imagePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read image")
	}

	ctx := logger.WithContext(context.Background(), log)

	objectName := store.ObjectName(*googleID, *receiptID, filepath.Base(*imagePath))

	log.Info().Str("object_name", objectName).Msg("Uploading receipt image")

	uri, err := store.SaveImage(ctx, objectName, contentType, data)
	if err != nil {
		log.Fatal().Err(err).Msg("Upload failed")
	}

	fmt.Printf("Uploaded %s to %s\n", *imagePath, uri)
}
