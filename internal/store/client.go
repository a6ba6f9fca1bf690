package store

import (
	"context"
	"fmt"
	"io"
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/tableserve/captain/pkg/config"
	"github.com/tableserve/captain/pkg/logger"
)

// Client wraps the local SQLite database used for device state that must
// survive restarts: the last paired printer and per-order print snapshots.
type Client struct {
	conn *gorm.DB
}

// New opens (or creates) the database file and migrates the schema.
func New(ctx context.Context, cfg config.StoreConfig, logg *logger.Logger) (*Client, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("store path is required")
	}

	gormLogger := gormlogger.New(
		log.New(io.Discard, "", log.LstdFlags),
		gormlogger.Config{LogLevel: gormlogger.Silent},
	)

	conn, err := gorm.Open(sqlite.Open(cfg.Path), &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening store at %s: %w", cfg.Path, err)
	}

	if err := conn.AutoMigrate(&PrinterSetting{}, &OrderSnapshot{}); err != nil {
		return nil, fmt.Errorf("migrating store schema: %w", err)
	}

	if logg != nil {
		logg.Info(ctx, "local store opened")
	}

	return &Client{conn: conn}, nil
}

// DB returns the underlying GORM connection.
func (c *Client) DB() *gorm.DB {
	return c.conn
}

// Ping verifies the datasource is reachable.
func (c *Client) Ping(ctx context.Context) error {
	sqlDB, err := c.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close shuts down the pooled connections.
func (c *Client) Close() error {
	sqlDB, err := c.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
