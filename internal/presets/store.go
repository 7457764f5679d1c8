package presets

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrNotFound is returned when no preset has the requested slug.
var ErrNotFound = errors.New("preset not found")

// Store reads presets from the catalog database.
type Store struct {
	db *sql.DB
}

// NewStore creates a Store backed by db.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// ListCassettes returns all cassette presets ordered by speed count and name.
func (s *Store) ListCassettes(ctx context.Context) ([]Cassette, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT slug, name, cogs
		FROM cassette_presets
		ORDER BY speeds, name
	`)
	if err != nil {
		return nil, fmt.Errorf("query cassette presets: %w", err)
	}
	defer rows.Close()

	cassettes := make([]Cassette, 0)
	for rows.Next() {
		c, err := scanCassette(rows)
		if err != nil {
			return nil, err
		}
		cassettes = append(cassettes, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cassette presets: %w", err)
	}

	return cassettes, nil
}

// Cassette returns the cassette preset with slug.
func (s *Store) Cassette(ctx context.Context, slug string) (Cassette, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT slug, name, cogs
		FROM cassette_presets
		WHERE slug = ?
	`, slug)

	c, err := scanCassette(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Cassette{}, fmt.Errorf("cassette %q: %w", slug, ErrNotFound)
	}
	return c, err
}

// ListWheels returns all wheel presets ordered by diameter and offset.
func (s *Store) ListWheels(ctx context.Context) ([]WheelSize, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT slug, name, diameter_mm, tyre_offset_mm
		FROM wheel_presets
		ORDER BY diameter_mm DESC, tyre_offset_mm
	`)
	if err != nil {
		return nil, fmt.Errorf("query wheel presets: %w", err)
	}
	defer rows.Close()

	wheels := make([]WheelSize, 0)
	for rows.Next() {
		var w WheelSize
		if err := rows.Scan(&w.Slug, &w.Name, &w.DiameterMm, &w.TyreOffsetMm); err != nil {
			return nil, fmt.Errorf("scan wheel preset: %w", err)
		}
		wheels = append(wheels, w)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate wheel presets: %w", err)
	}

	return wheels, nil
}

// Wheel returns the wheel preset with slug.
func (s *Store) Wheel(ctx context.Context, slug string) (WheelSize, error) {
	var w WheelSize
	err := s.db.QueryRowContext(ctx, `
		SELECT slug, name, diameter_mm, tyre_offset_mm
		FROM wheel_presets
		WHERE slug = ?
	`, slug).Scan(&w.Slug, &w.Name, &w.DiameterMm, &w.TyreOffsetMm)
	if errors.Is(err, sql.ErrNoRows) {
		return WheelSize{}, fmt.Errorf("wheel %q: %w", slug, ErrNotFound)
	}
	if err != nil {
		return WheelSize{}, fmt.Errorf("query wheel preset: %w", err)
	}
	return w, nil
}

// Catalog loads every preset.
func (s *Store) Catalog(ctx context.Context) (Catalog, error) {
	cassettes, err := s.ListCassettes(ctx)
	if err != nil {
		return Catalog{}, err
	}
	wheels, err := s.ListWheels(ctx)
	if err != nil {
		return Catalog{}, err
	}
	return Catalog{Cassettes: cassettes, Wheels: wheels}, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCassette(row scanner) (Cassette, error) {
	var (
		c    Cassette
		cogs string
	)
	if err := row.Scan(&c.Slug, &c.Name, &cogs); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Cassette{}, err
		}
		return Cassette{}, fmt.Errorf("scan cassette preset: %w", err)
	}

	decoded, err := decodeCogs(cogs)
	if err != nil {
		return Cassette{}, fmt.Errorf("cassette %q: %w", c.Slug, err)
	}
	c.Cogs = decoded
	return c, nil
}
