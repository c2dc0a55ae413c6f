package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"servis32/internal/model"
)

// Errors returned by the parts store.
var (
	ErrNameRequired = errors.New("part name required")
	ErrNotFound     = errors.New("part not found")
)

// ListLimit is the fixed page size for part listings.
const ListLimit = 200

// SearchWindow is how many recent parts the search filter scans.
const SearchWindow = 1000

// CreatePart inserts a new part and returns its assigned identifier.
func CreatePart(ctx context.Context, db *sql.DB, p model.Part) (int64, error) {
	if strings.TrimSpace(p.Name) == "" {
		return 0, ErrNameRequired
	}

	images, err := json.Marshal(imagesOrEmpty(p.Images))
	if err != nil {
		return 0, fmt.Errorf("encoding image refs: %w", err)
	}

	var price any
	if p.Price != nil {
		price = *p.Price
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO parts (name, brand, model, category, fuel, engine, part_number,
		                    quantity, price, note, location, images)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Name, p.Brand, p.Model, p.Category, p.Fuel, p.Engine, p.PartNumber,
		p.Quantity, price, p.Note, p.Location, string(images),
	)
	if err != nil {
		return 0, fmt.Errorf("creating part: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting part id: %w", err)
	}
	return id, nil
}

// GetPart returns a part by ID, or nil if it does not exist.
func GetPart(ctx context.Context, db *sql.DB, id int64) (*model.Part, error) {
	row := db.QueryRowContext(ctx, partSelect+` WHERE id = ?`, id)
	p, err := scanPart(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting part: %w", err)
	}
	return p, nil
}

// ListParts returns up to limit parts, newest first (descending identifier).
func ListParts(ctx context.Context, db *sql.DB, limit int) ([]model.Part, error) {
	rows, err := db.QueryContext(ctx, partSelect+` ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing parts: %w", err)
	}
	defer rows.Close()

	var parts []model.Part
	for rows.Next() {
		p, err := scanPart(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning part: %w", err)
		}
		parts = append(parts, *p)
	}
	return parts, rows.Err()
}

// PartUpdate holds the optional fields of a sparse part update. A nil field
// means "leave unchanged"; consequently a text field can never be cleared to
// empty once set, which matches how the shop's clients behave.
type PartUpdate struct {
	Name       *string
	Brand      *string
	Model      *string
	Category   *string
	Fuel       *string
	Engine     *string
	PartNumber *string
	Quantity   *int
	Price      *float64
	Note       *string
	Location   *string
	Images     []string // non-nil always overwrites the stored references
}

// UpdatePart applies a sparse update to a part in a single statement.
// Returns ErrNotFound when the identifier matches no row.
func UpdatePart(ctx context.Context, db *sql.DB, id int64, upd PartUpdate) error {
	if upd.Name != nil && strings.TrimSpace(*upd.Name) == "" {
		return ErrNameRequired
	}

	var sets []string
	var args []any
	set := func(column string, value any) {
		sets = append(sets, column+" = ?")
		args = append(args, value)
	}

	if upd.Name != nil {
		set("name", *upd.Name)
	}
	if upd.Brand != nil {
		set("brand", *upd.Brand)
	}
	if upd.Model != nil {
		set("model", *upd.Model)
	}
	if upd.Category != nil {
		set("category", *upd.Category)
	}
	if upd.Fuel != nil {
		set("fuel", *upd.Fuel)
	}
	if upd.Engine != nil {
		set("engine", *upd.Engine)
	}
	if upd.PartNumber != nil {
		set("part_number", *upd.PartNumber)
	}
	if upd.Quantity != nil {
		set("quantity", *upd.Quantity)
	}
	if upd.Price != nil {
		set("price", *upd.Price)
	}
	if upd.Note != nil {
		set("note", *upd.Note)
	}
	if upd.Location != nil {
		set("location", *upd.Location)
	}
	if upd.Images != nil {
		images, err := json.Marshal(upd.Images)
		if err != nil {
			return fmt.Errorf("encoding image refs: %w", err)
		}
		set("images", string(images))
	}

	if len(sets) == 0 {
		// Nothing to write; still report unknown identifiers.
		p, err := GetPart(ctx, db, id)
		if err != nil {
			return err
		}
		if p == nil {
			return ErrNotFound
		}
		return nil
	}

	args = append(args, id)
	result, err := db.ExecContext(ctx,
		`UPDATE parts SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...,
	)
	if err != nil {
		return fmt.Errorf("updating part: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update result: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeletePart removes a part by ID. Returns ErrNotFound when no row matched.
func DeletePart(ctx context.Context, db *sql.DB, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM parts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting part: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

const partSelect = `SELECT id, name, brand, model, category, fuel, engine, part_number,
                           quantity, price, note, location, images, created_at
                    FROM parts`

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanPart(s scanner) (*model.Part, error) {
	p := &model.Part{}
	var price sql.NullFloat64
	var images string
	err := s.Scan(&p.ID, &p.Name, &p.Brand, &p.Model, &p.Category, &p.Fuel, &p.Engine,
		&p.PartNumber, &p.Quantity, &price, &p.Note, &p.Location, &images, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	if price.Valid {
		p.Price = &price.Float64
	}
	if err := json.Unmarshal([]byte(images), &p.Images); err != nil {
		return nil, fmt.Errorf("decoding image refs: %w", err)
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	return p, nil
}

func imagesOrEmpty(images []string) []string {
	if images == nil {
		return []string{}
	}
	return images
}
