// Package duckdb implements the persistence capabilities over an embedded
// DuckDB analytical store. The store file is produced offline by the
// ingestion pipeline; the service opens it strictly read-only.
package duckdb

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/marcboeker/go-duckdb" // DuckDB driver
	"github.com/rs/zerolog/log"
)

// Config holds store connection configuration.
type Config struct {
	Path         string        `yaml:"path" env:"STORE_PATH"`
	QueryTimeout time.Duration `yaml:"query_timeout" env:"STORE_QUERY_TIMEOUT"`
}

// DefaultConfig returns reasonable defaults.
func DefaultConfig() Config {
	return Config{
		QueryTimeout: 10 * time.Second,
	}
}

// Store wraps the DuckDB handle and hands out repository instances.
type Store struct {
	db      *sqlx.DB
	timeout time.Duration
}

// Open connects to the store file in read-only mode and verifies the
// connection. Writes fail at the engine level no matter what SQL reaches it.
func Open(cfg Config) (*Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("store path is required")
	}
	if cfg.QueryTimeout <= 0 {
		cfg.QueryTimeout = DefaultConfig().QueryTimeout
	}

	db, err := sqlx.Open("duckdb", cfg.Path+"?access_mode=read_only")
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping store: %w", err)
	}

	log.Info().Str("path", cfg.Path).Msg("analytical store opened read-only")

	return &Store{db: db, timeout: cfg.QueryTimeout}, nil
}

// Close releases the store handle.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Ping verifies the store is reachable, for health checks.
func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.db.PingContext(ctx)
}

// Suppliers returns the supplier repository.
func (s *Store) Suppliers() *SupplierRepo {
	return &SupplierRepo{db: s.db, timeout: s.timeout}
}

// Contracts returns the contract repository.
func (s *Store) Contracts() *ContractRepo {
	return &ContractRepo{db: s.db, timeout: s.timeout}
}

// Sanctions returns the sanction repository.
func (s *Store) Sanctions() *SanctionRepo {
	return &SanctionRepo{db: s.db, timeout: s.timeout}
}

// Partners returns the partner repository.
func (s *Store) Partners() *PartnerRepo {
	return &PartnerRepo{db: s.db, timeout: s.timeout}
}

// Donations returns the donation repository.
func (s *Store) Donations() *DonationRepo {
	return &DonationRepo{db: s.db, timeout: s.timeout}
}

// Alerts returns the alert feed repository.
func (s *Store) Alerts() *AlertRepo {
	return &AlertRepo{db: s.db, timeout: s.timeout}
}

// Stats returns the stats repository.
func (s *Store) StatsRepo() *StatsRepo {
	return &StatsRepo{db: s.db, timeout: s.timeout}
}

// Graph returns the ownership graph repository.
func (s *Store) Graph() *GraphRepo {
	return &GraphRepo{db: s.db, timeout: s.timeout}
}
