package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"cloud.google.com/go/bigquery"
	"github.com/joho/godotenv"
)

// ddlFilePattern matches bootstrap files named NNNN_description.sql so they
// run in a stable order.
var ddlFilePattern = regexp.MustCompile(`^(\d{4})_(.+)\.sql$`)

// Statement is one DDL file resolved against the target project and dataset.
type Statement struct {
	Order    int
	Name     string
	Filename string
	SQL      string
}

var (
	projectID = flag.String("project", os.Getenv("BIGQUERY_PROJECT"), "GCP project ID (required)")
	datasetID = flag.String("dataset", envOr("BIGQUERY_DATASET", "spendlens"), "BigQuery dataset ID")
	ddlDir    = flag.String("migrations", "migrations/bigquery", "Path to the table DDL directory")
)

func main() {
	_ = godotenv.Load()
	flag.Parse()

	ctx := context.Background()

	if *projectID == "" {
		log.Fatal("Error: -project flag is required. Please specify your GCP project ID.")
	}

	client, err := bigquery.NewClient(ctx, *projectID)
	if err != nil {
		log.Fatalf("Failed to create BigQuery client: %v", err)
	}
	defer client.Close()

	log.Printf("Connected to BigQuery project: %s, dataset: %s", *projectID, *datasetID)

	if err := ensureDataset(ctx, client, *projectID, *datasetID); err != nil {
		log.Fatalf("Failed to ensure dataset %s: %v", *datasetID, err)
	}

	dir, err := resolveDDLDir(*ddlDir)
	if err != nil {
		log.Fatalf("Failed to locate DDL directory: %v", err)
	}

	statements, err := readStatements(dir, *projectID, *datasetID)
	if err != nil {
		log.Fatalf("Failed to read DDL files: %v", err)
	}

	log.Printf("Found %d DDL files", len(statements))

	for _, st := range statements {
		log.Printf("  [RUN]  %04d_%s", st.Order, st.Name)
		if err := runStatement(ctx, client, st.SQL); err != nil {
			log.Fatalf("Failed to execute %s: %v", st.Filename, err)
		}
		log.Printf("  [OK]   %04d_%s", st.Order, st.Name)
	}

	log.Println("Dataset is ready.")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// ensureDataset creates the dataset when it does not exist yet. Every
// statement here uses IF NOT EXISTS, which keeps the tool safe to rerun.
func ensureDataset(ctx context.Context, client *bigquery.Client, projectID, datasetID string) error {
	sql := fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS `%s.%s`", projectID, datasetID)
	return runStatement(ctx, client, sql)
}

// resolveDDLDir returns the first existing candidate for dir, also looking two
// levels up so the tool works both from the repo root and from cmd/migrate.
func resolveDDLDir(dir string) (string, error) {
	candidates := []string{dir, filepath.Join("..", "..", dir)}
	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && info.IsDir() {
			return c, nil
		}
	}
	return "", fmt.Errorf("directory %s not found (tried %s)", dir, strings.Join(candidates, ", "))
}

// readStatements loads every NNNN_*.sql file in dir, substitutes the project
// and dataset placeholders, and returns the statements sorted by order prefix.
func readStatements(dir, projectID, datasetID string) ([]Statement, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}

	var statements []Statement
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		m := ddlFilePattern.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}

		order, err := strconv.Atoi(m[1])
		if err != nil {
			return nil, fmt.Errorf("invalid order prefix in %s: %w", entry.Name(), err)
		}

		content, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", entry.Name(), err)
		}

		sql := string(content)
		sql = strings.ReplaceAll(sql, "{{PROJECT_ID}}", projectID)
		sql = strings.ReplaceAll(sql, "{{DATASET_ID}}", datasetID)

		statements = append(statements, Statement{
			Order:    order,
			Name:     m[2],
			Filename: entry.Name(),
			SQL:      sql,
		})
	}

	sort.Slice(statements, func(i, j int) bool { return statements[i].Order < statements[j].Order })
	return statements, nil
}

// runStatement executes one DDL query and waits for the job to finish.
func runStatement(ctx context.Context, client *bigquery.Client, sql string) error {
	q := client.Query(sql)

	job, err := q.Run(ctx)
	if err != nil {
		return fmt.Errorf("starting query: %w", err)
	}

	status, err := job.Wait(ctx)
	if err != nil {
		return fmt.Errorf("waiting for query: %w", err)
	}

	if err := status.Err(); err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	return nil
}
