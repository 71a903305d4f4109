package db

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/glebarez/sqlite"
	log15 "github.com/inconshreveable/log15/v3"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"channelblam/config"
)

// Store is the policy store: blam list, whitelist, IDV level and manager
// attribution per channel. All mutations serialize through mu so concurrent
// triggers never interleave a read-modify-write.
type Store struct {
	db  *gorm.DB
	mu  sync.Mutex
	log log15.Logger
}

// Open connects to the configured database and ensures the schema exists.
// DATABASE_URL selects postgres; otherwise a local sqlite file is used.
func Open(cfg *config.Config) (*Store, error) {
	logger := log15.New("module", "db")

	var dialector gorm.Dialector
	if cfg.DatabaseURL != "" {
		dialector = postgres.Open(cfg.DatabaseURL)
	} else {
		if dir := filepath.Dir(cfg.DBPath); dir != "." && cfg.DBPath != ":memory:" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("db: create data dir: %w", err)
			}
		}
		dialector = sqlite.Open(cfg.DBPath)
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("db: connect: %w", err)
	}

	// Idempotent schema creation; everything else fails without it.
	if err := gdb.AutoMigrate(
		&ChannelBlam{},
		&ChannelWhitelist{},
		&ChannelPolicy{},
		&ChannelManager{},
	); err != nil {
		return nil, fmt.Errorf("db: migrate: %w", err)
	}

	logger.Info("connected to db")
	return &Store{db: gdb, log: logger}, nil
}
