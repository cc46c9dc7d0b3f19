package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/erp/inventory/internal/infrastructure/config"
	"github.com/erp/inventory/internal/infrastructure/logger"
	"github.com/erp/inventory/internal/infrastructure/persistence"
	"github.com/erp/inventory/internal/infrastructure/persistence/models"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
	var logLevel string
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}
	command := args[0]

	log, err := logger.New(&logger.Config{
		Level:      logLevel,
		Format:     "console",
		Output:     "stdout",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, log, gormlogger.Warn)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	log.Info("Migration CLI started",
		zap.String("command", command),
		zap.String("driver", cfg.Database.Driver),
	)

	switch command {
	case "up":
		if err := db.Migrate(); err != nil {
			log.Fatal("Migration up failed", zap.Error(err))
		}
		log.Info("Schema is up to date")

	case "status":
		migrator := db.DB.Migrator()
		missing := 0
		for _, model := range models.All() {
			name := "unknown"
			if t, ok := model.(interface{ TableName() string }); ok {
				name = t.TableName()
			}
			present := migrator.HasTable(model)
			if !present {
				missing++
			}
			fmt.Printf("  %-16s %v\n", name, present)
		}
		if missing > 0 {
			log.Warn("Schema is missing tables, run: migrate up", zap.Int("missing", missing))
			os.Exit(1)
		}

	default:
		log.Error("Unknown command", zap.String("command", command))
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`Usage: migrate [flags] <command>

Commands:
  up       Create or update the inventory tables
  status   Report which inventory tables exist

Flags:
  -log-level string   Log level (debug, info, warn, error) (default "info")`)
}
