// Package journal persists per-order outcomes and pass summaries to a local
// SQLite database so operators can audit what each polling pass did.
package journal

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/erp/fulfillment/internal/infrastructure/logger"
)

// Database holds the journal database connection
type Database struct {
	DB *gorm.DB
}

// NewDatabase opens (or creates) the SQLite journal database at path and
// runs migrations. Use ":memory:" for an ephemeral journal.
func NewDatabase(path string, zapLogger *zap.Logger) (*Database, error) {
	if path == "" {
		return nil, fmt.Errorf("journal: database path is required")
	}

	var gl gormlogger.Interface = gormlogger.Default.LogMode(gormlogger.Silent)
	if zapLogger != nil {
		gl = logger.NewGormLogger(zapLogger, gormlogger.Warn)
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:                 gl,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("journal: failed to open database: %w", err)
	}

	// The journal has a single writer; one connection avoids SQLITE_BUSY
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("journal: failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&PassModel{}, &OrderResultModel{}); err != nil {
		return nil, fmt.Errorf("journal: migration failed: %w", err)
	}

	return &Database{DB: db}, nil
}

// Close closes the database connection
func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return fmt.Errorf("journal: failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.Close()
}
