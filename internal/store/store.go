// Package store holds the append-only entry table. There is no package
// level table: callers own a Store and pass it where it is needed.
package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/atikulmunna/gastroguard/internal/model"
)

// Store is an append-only, ordered sequence of entries.
type Store interface {
	// Append adds e at the end of the table.
	Append(ctx context.Context, e model.LogEntry) error
	// All returns a copy of every entry in append order.
	All(ctx context.Context) ([]model.LogEntry, error)
	Len(ctx context.Context) (int, error)
	Close() error
}

// Config selects and configures a store driver.
type Config struct {
	Driver string `mapstructure:"driver"` // memory | sqlite
	Path   string `mapstructure:"path"`
}

// Open returns the store described by cfg.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch strings.ToLower(cfg.Driver) {
	case "", "memory":
		return NewMemory(), nil
	case "sqlite":
		return OpenSQLite(ctx, cfg.Path)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}
