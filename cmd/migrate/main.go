package main

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/whisperbox/whisperbox-backend/internal/config"
	"github.com/whisperbox/whisperbox-backend/internal/domain"
	"github.com/whisperbox/whisperbox-backend/internal/migration"
	"github.com/whisperbox/whisperbox-backend/internal/repository"
	"github.com/whisperbox/whisperbox-backend/pkg/logger"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "configs/config.local.yaml", "config file path")
	dryRun := flag.Bool("dry-run", false, "list the tables that would be migrated without touching the database")
	grantAdmin := flag.String("grant-admin", "", "account id to grant the admin role after migrating")
	verbose := flag.Bool("verbose", false, "verbose SQL logging")
	flag.Parse()

	logger.InitStructured("local")

	if err := godotenv.Load(); err != nil {
		logger.Warn("No .env file found, using environment variables")
	}

	if *dryRun {
		logger.Info("[dry-run] Would migrate:")
		for _, m := range migration.Models() {
			logger.Info("  - %s", modelName(m))
		}
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal("Failed to load config: %v", err)
	}

	logLevel := gormlogger.Warn
	if *verbose {
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(mysql.Open(cfg.Database.GetDSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel),
	})
	if err != nil {
		logger.Fatal("Failed to connect to database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("Failed to get underlying DB: %v", err)
	}
	defer sqlDB.Close()

	start := time.Now()
	if err := migration.Run(db); err != nil {
		logger.Fatal("Migration failed: %v", err)
	}
	logger.Info("Schema up to date (%d tables, %s)", len(migration.Models()), time.Since(start).Round(time.Millisecond))

	if id := strings.TrimSpace(*grantAdmin); id != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := repository.NewRoleRepository(db).Grant(ctx, id, domain.RoleAdmin); err != nil {
			logger.Fatal("Failed to grant admin role to %s: %v", id, err)
		}
		logger.Info("Granted %q role to %s", domain.RoleAdmin, id)
	}
}

func modelName(m interface{}) string {
	return strings.TrimPrefix(fmt.Sprintf("%T", m), "*")
}
