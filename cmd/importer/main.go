package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/safebite/backend/config"
	"github.com/safebite/backend/internal/domain"
	"github.com/safebite/backend/internal/pkg/logger"
	"github.com/safebite/backend/internal/repository"
	"github.com/safebite/backend/internal/usecase"
)

// The importer loads a vendor export (CSV or JSON, by extension) into the
// food catalog as one atomic batch.
//
//	importer -file usda_export.csv -source USDA
func main() {
	filePath := flag.String("file", "", "path to the vendor export (.csv or .json)")
	source := flag.String("source", string(domain.SourceUSDA), "data source tag (USDA, FAO, WHO, Manual)")
	flag.Parse()

	if *filePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	zlog, err := logger.New(cfg.Server.Environment)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	db, err := repository.Open(cfg.Database.DSN())
	if err != nil {
		zlog.Fatal("failed to connect to database", "error", err)
	}
	if err := repository.AutoMigrate(db); err != nil {
		zlog.Fatal("failed to run migrations", "error", err)
	}

	file, err := os.Open(*filePath)
	if err != nil {
		zlog.Fatal("failed to open export file", "error", err)
	}
	defer file.Close()

	var records []usecase.Record
	switch strings.ToLower(filepath.Ext(*filePath)) {
	case ".csv":
		records, err = usecase.ReadCSVRecords(file)
	case ".json":
		records, err = usecase.ReadJSONRecords(file)
	default:
		zlog.Fatal("unsupported file extension, want .csv or .json", "file", *filePath)
	}
	if err != nil {
		zlog.Fatal("failed to parse export file", "error", err)
	}

	importer := usecase.NewImporter(repository.NewStore(db), zlog, usecase.DefaultMappings()...)
	result, err := importer.Import(context.Background(), domain.DataSource(*source), records)
	if err != nil {
		zlog.Fatal("import failed", "error", err)
	}

	fmt.Printf("imported: %d\nskipped: %d\nrejected: %d\n", result.Imported, result.Skipped, len(result.Rejected))
	for _, rowErr := range result.Rejected {
		fmt.Printf("  %s\n", rowErr.Error())
	}
}
