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

	"github.com/spendlens/spendlens/internal/config"
	"github.com/spendlens/spendlens/internal/domain"
	"github.com/spendlens/spendlens/internal/gemini"
	infraBQ "github.com/spendlens/spendlens/internal/infra/bigquery"
	"github.com/spendlens/spendlens/internal/logger"
)

func main() {
	_ = godotenv.Load()

	// Initialize structured logger
	log := logger.New()

	// Parse CLI flags
	imagePath := flag.String("image", "", "Path to a local receipt image")
	googleID := flag.String("google-id", "", "Owner of the resulting expense record")
	mimeType := flag.String("mime", "", "Image MIME type (defaults from the file extension)")
	flag.Parse()

	if *imagePath == "" || *googleID == "" {
		log.Fatal().Msg("Error: -image and -google-id are required")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

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

	// Create context with timeout so CLI doesn't hang
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	log.Info().Str("image", *imagePath).Str("google_id", *googleID).Msg("Parsing receipt")

	parser := gemini.NewClient(cfg.GeminiModel)
	receipt, err := parser.ParseReceipt(ctx, image, contentType)
	if err != nil {
		log.Fatal().Err(err).Msg("Parsing failed")
	}

	receipt.OwnerID = *googleID
	receipt.CreatedAt = time.Now().UTC()
	domain.AssignIdentifiers(receipt)

	repo, err := infraBQ.NewRepository(ctx, cfg.BigQueryProject, cfg.BigQueryDataset)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create BigQuery repository")
	}
	defer repo.Close()

	if err := repo.InsertReceipt(ctx, receipt); err != nil {
		log.Fatal().Err(err).Msg("Failed to save receipt")
	}

	fmt.Printf("Saved receipt %s with %d item(s), total %s\n",
		receipt.ReceiptID, len(receipt.Items), receipt.Total().StringFixed(2))
}
