package seed

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gearrange/gearrange/internal/presets"
)

// Config contains the values required by startup seed.
type Config struct {
	// Extra presets, usually loaded from PRESETS_FILE, seeded after the built-in catalog.
	Extra presets.Catalog
}

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
	Updates int
}

// Run executes the startup seed in an idempotent way.
func Run(ctx context.Context, db *sql.DB, cfg Config) (Stats, error) {
	catalog := presets.Builtin().Merge(cfg.Extra)
	if err := catalog.Validate(); err != nil {
		return Stats{}, fmt.Errorf("validate preset catalog: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return Stats{}, fmt.Errorf("begin seed transaction: %w", err)
	}

	stats := Stats{}

	for _, c := range catalog.Cassettes {
		if err := ensureCassette(ctx, tx, c, &stats); err != nil {
			_ = tx.Rollback()
			return Stats{}, err
		}
	}
	for _, w := range catalog.Wheels {
		if err := ensureWheel(ctx, tx, w, &stats); err != nil {
			_ = tx.Rollback()
			return Stats{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit seed transaction: %w", err)
	}

	return stats, nil
}

func ensureCassette(ctx context.Context, tx *sql.Tx, c presets.Cassette, stats *Stats) error {
	cogs := presets.EncodeCogs(c.Cogs)

	var name, storedCogs string
	err := tx.QueryRowContext(ctx, `SELECT name, cogs FROM cassette_presets WHERE slug = ?`, c.Slug).Scan(&name, &storedCogs)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO cassette_presets (slug, name, speeds, cogs)
			VALUES (?, ?, ?, ?)
		`, c.Slug, c.Name, c.Speeds(), cogs); err != nil {
			return fmt.Errorf("insert cassette preset %q: %w", c.Slug, err)
		}
		stats.Inserts++
		return nil
	case err != nil:
		return fmt.Errorf("check cassette preset %q: %w", c.Slug, err)
	}

	if name == c.Name && storedCogs == cogs {
		return nil
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE cassette_presets
		SET
			name = ?,
			speeds = ?,
			cogs = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE slug = ?
	`, c.Name, c.Speeds(), cogs, c.Slug); err != nil {
		return fmt.Errorf("update cassette preset %q: %w", c.Slug, err)
	}
	stats.Updates++
	return nil
}

func ensureWheel(ctx context.Context, tx *sql.Tx, w presets.WheelSize, stats *Stats) error {
	var stored presets.WheelSize
	err := tx.QueryRowContext(ctx, `
		SELECT slug, name, diameter_mm, tyre_offset_mm
		FROM wheel_presets
		WHERE slug = ?
	`, w.Slug).Scan(&stored.Slug, &stored.Name, &stored.DiameterMm, &stored.TyreOffsetMm)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO wheel_presets (slug, name, diameter_mm, tyre_offset_mm)
			VALUES (?, ?, ?, ?)
		`, w.Slug, w.Name, w.DiameterMm, w.TyreOffsetMm); err != nil {
			return fmt.Errorf("insert wheel preset %q: %w", w.Slug, err)
		}
		stats.Inserts++
		return nil
	case err != nil:
		return fmt.Errorf("check wheel preset %q: %w", w.Slug, err)
	}

	if stored == w {
		return nil
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE wheel_presets
		SET
			name = ?,
			diameter_mm = ?,
			tyre_offset_mm = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE slug = ?
	`, w.Name, w.DiameterMm, w.TyreOffsetMm, w.Slug); err != nil {
		return fmt.Errorf("update wheel preset %q: %w", w.Slug, err)
	}
	stats.Updates++
	return nil
}
