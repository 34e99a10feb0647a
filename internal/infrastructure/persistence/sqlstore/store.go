// Package sqlstore loads datasets from a relational database through
// database/sql. SQLite (modernc.org/sqlite) and Postgres (pgx) are supported.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"samarth/internal/domain/dataset"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	_ "modernc.org/sqlite" // pure go sqlite driver
)

// Driver names as registered with database/sql.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "pgx"
)

// Schema creates the dataset tables. It is valid for both SQLite and Postgres.
var Schema = []string{
	`CREATE TABLE IF NOT EXISTS regions (
		name TEXT PRIMARY KEY,
		position INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS rainfall (
		region TEXT NOT NULL,
		seq INTEGER NOT NULL,
		mm DOUBLE PRECISION NOT NULL,
		PRIMARY KEY (region, seq)
	)`,
	`CREATE TABLE IF NOT EXISTS crop_production (
		region TEXT NOT NULL,
		seq INTEGER NOT NULL,
		crop TEXT NOT NULL,
		tonnes DOUBLE PRECISION NOT NULL,
		PRIMARY KEY (region, seq)
	)`,
}

// Store reads and writes the dataset tables.
type Store struct {
	db     *sql.DB
	driver string
	logger *zap.Logger
}

// Open connects to the database and verifies the connection.
func Open(ctx context.Context, driver, dsn string, logger *zap.Logger) (*Store, error) {
	switch driver {
	case DriverSQLite, DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported sql driver %q", driver)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	return New(db, driver, logger), nil
}

// New wraps an existing connection pool.
func New(db *sql.DB, driver string, logger *zap.Logger) *Store {
	return &Store{db: db, driver: driver, logger: logger}
}

// DB exposes the underlying pool.
func (s *Store) DB() *sql.DB { return s.db }

// Close closes the pool.
func (s *Store) Close() error { return s.db.Close() }

// Migrate creates the dataset tables if they do not exist.
func (s *Store) Migrate(ctx context.Context) error {
	for _, stmt := range Schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

// Load implements ports.DatasetSource. Regions, rainfall and crop rows are
// read concurrently and assembled in position/seq order.
func (s *Store) Load(ctx context.Context) (*dataset.Snapshot, error) {
	var (
		regions  []string
		rainfall []rainfallRow
		crops    []cropRow
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		regions, err = s.loadRegions(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		rainfall, err = s.loadRainfall(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		crops, err = s.loadCrops(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	b := dataset.NewBuilder()
	known := make(map[string]struct{}, len(regions))
	for _, name := range regions {
		b.AddRegion(name)
		known[name] = struct{}{}
	}
	for _, r := range rainfall {
		if _, ok := known[r.region]; !ok {
			return nil, &dataset.InvalidDataError{Region: r.region, Reason: "rainfall row references an unlisted region"}
		}
		b.AddRainfall(r.region, r.mm)
	}
	for _, c := range crops {
		if _, ok := known[c.region]; !ok {
			return nil, &dataset.InvalidDataError{Region: c.region, Reason: "crop row references an unlisted region"}
		}
		b.AddCrop(c.region, c.crop, c.tonnes)
	}

	s.logger.Debug("Loaded dataset rows",
		zap.String("driver", s.driver),
		zap.Int("regions", len(regions)),
		zap.Int("rainfall_rows", len(rainfall)),
		zap.Int("crop_rows", len(crops)),
	)

	return b.Build(dataset.WithSource(s.Describe()), dataset.WithLoadedAt(time.Now()))
}

// Describe implements ports.DatasetSource.
func (s *Store) Describe() string { return "sql:" + s.driver }

type rainfallRow struct {
	region string
	mm     float64
}

type cropRow struct {
	region string
	crop   string
	tonnes float64
}

func (s *Store) loadRegions(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM regions ORDER BY position, name`)
	if err != nil {
		return nil, fmt.Errorf("select regions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan region: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (s *Store) loadRainfall(ctx context.Context) ([]rainfallRow, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT region, mm FROM rainfall ORDER BY region, seq`)
	if err != nil {
		return nil, fmt.Errorf("select rainfall: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []rainfallRow
	for rows.Next() {
		var r rainfallRow
		if err := rows.Scan(&r.region, &r.mm); err != nil {
			return nil, fmt.Errorf("scan rainfall: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) loadCrops(ctx context.Context) ([]cropRow, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT region, crop, tonnes FROM crop_production ORDER BY region, seq`)
	if err != nil {
		return nil, fmt.Errorf("select crop production: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []cropRow
	for rows.Next() {
		var c cropRow
		if err := rows.Scan(&c.region, &c.crop, &c.tonnes); err != nil {
			return nil, fmt.Errorf("scan crop production: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Replace overwrites the stored dataset with snap in one transaction.
func (s *Store) Replace(ctx context.Context, snap *dataset.Snapshot) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, table := range []string{"crop_production", "rainfall", "regions"} {
		if _, err = tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	insertRegion := s.rebind(`INSERT INTO regions (name, position) VALUES (?, ?)`)
	insertRainfall := s.rebind(`INSERT INTO rainfall (region, seq, mm) VALUES (?, ?, ?)`)
	insertCrop := s.rebind(`INSERT INTO crop_production (region, seq, crop, tonnes) VALUES (?, ?, ?, ?)`)

	for pos, r := range snap.Regions() {
		if _, err = tx.ExecContext(ctx, insertRegion, r.Name, pos); err != nil {
			return fmt.Errorf("insert region %s: %w", r.Name, err)
		}
		for seq, mm := range r.Rainfall {
			if _, err = tx.ExecContext(ctx, insertRainfall, r.Name, seq, mm); err != nil {
				return fmt.Errorf("insert rainfall for %s: %w", r.Name, err)
			}
		}
		for seq, c := range r.Crops {
			if _, err = tx.ExecContext(ctx, insertCrop, r.Name, seq, c.Crop, c.Tonnes); err != nil {
				return fmt.Errorf("insert crop for %s: %w", r.Name, err)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// rebind rewrites ? placeholders as $n for Postgres.
func (s *Store) rebind(query string) string {
	if s.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, ch := range query {
		if ch == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(ch)
	}
	return b.String()
}
