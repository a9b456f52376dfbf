// Package repo contains all database access logic for the shop editor
// service. No business logic lives here — only SQL and type mapping.
package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mapnote/shopedit/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// ShopRepo defines the persistence operations for shop records.
// The service layer depends on this interface, not the concrete Postgres
// implementation, which allows the service to be unit-tested with a mock.
type ShopRepo interface {
	// Create inserts a new shop. The ID is generated here; updated_by
	// records the operator. Returns the persisted record.
	Create(ctx context.Context, shop domain.Shop, operatorID string) (domain.Shop, error)

	// Update overwrites the mutable fields of an existing shop and returns
	// the updated record. Returns domain.ErrNotFound if the ID is unknown.
	Update(ctx context.Context, shop domain.Shop, operatorID string) (domain.Shop, error)

	// GetByID retrieves a single shop by ID.
	// Returns domain.ErrNotFound if no shop with that ID exists.
	GetByID(ctx context.Context, id string) (domain.Shop, error)

	// ListBySection returns all shops in a section ordered by name.
	ListBySection(ctx context.Context, sectionName string) ([]domain.Shop, error)

	// Delete removes a shop by ID. Returns domain.ErrNotFound if it does
	// not exist.
	Delete(ctx context.Context, id string) error
}

// pgShopRepo is the Postgres implementation of ShopRepo.
type pgShopRepo struct {
	db db
}

// NewShopRepo constructs a ShopRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewShopRepo(db db) ShopRepo {
	return &pgShopRepo{db: db}
}

const shopColumns = `id, name, alias, comment, business_hours, category,
		medium_category, small_category, section_name, address, main_image,
		sub_images, pin_lat, pin_lng, path, icon_design, street_view,
		google_data_id`

// Create inserts a new shop row. An empty ID is replaced with a fresh UUID;
// callers that need the ID earlier (image promotion) may pre-assign one.
func (r *pgShopRepo) Create(ctx context.Context, shop domain.Shop, operatorID string) (domain.Shop, error) {
	const q = `
		INSERT INTO shops (id, name, alias, comment, business_hours, category,
			medium_category, small_category, section_name, address, main_image,
			sub_images, pin_lat, pin_lng, path, icon_design, street_view,
			google_data_id, updated_by)
		VALUES (@id, @name, @alias, @comment, @business_hours, @category,
			@medium_category, @small_category, @section_name, @address,
			@main_image, @sub_images, @pin_lat, @pin_lng, @path, @icon_design,
			@street_view, @google_data_id, @updated_by)
		RETURNING ` + shopColumns

	if shop.ID == "" {
		shop.ID = uuid.NewString()
	}
	args, err := shopArgs(shop, operatorID)
	if err != nil {
		return domain.Shop{}, fmt.Errorf("repo.ShopRepo.Create: %w", err)
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanShop(row)
	if err != nil {
		return domain.Shop{}, fmt.Errorf("repo.ShopRepo.Create: %w", err)
	}
	return result, nil
}

// Update overwrites the mutable fields of a shop and returns the updated record.
func (r *pgShopRepo) Update(ctx context.Context, shop domain.Shop, operatorID string) (domain.Shop, error) {
	const q = `
		UPDATE shops
		SET name            = @name,
		    alias           = @alias,
		    comment         = @comment,
		    business_hours  = @business_hours,
		    category        = @category,
		    medium_category = @medium_category,
		    small_category  = @small_category,
		    section_name    = @section_name,
		    address         = @address,
		    main_image      = @main_image,
		    sub_images      = @sub_images,
		    pin_lat         = @pin_lat,
		    pin_lng         = @pin_lng,
		    path            = @path,
		    icon_design     = @icon_design,
		    street_view     = @street_view,
		    google_data_id  = @google_data_id,
		    updated_by      = @updated_by,
		    updated_at      = now()
		WHERE id = @id
		RETURNING ` + shopColumns

	args, err := shopArgs(shop, operatorID)
	if err != nil {
		return domain.Shop{}, fmt.Errorf("repo.ShopRepo.Update: %w", err)
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanShop(row)
	if err != nil {
		return domain.Shop{}, fmt.Errorf("repo.ShopRepo.Update: %w", err)
	}
	return result, nil
}

// GetByID retrieves a shop by primary key.
func (r *pgShopRepo) GetByID(ctx context.Context, id string) (domain.Shop, error) {
	const q = `
		SELECT ` + shopColumns + `
		FROM shops
		WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanShop(row)
	if err != nil {
		return domain.Shop{}, fmt.Errorf("repo.ShopRepo.GetByID: %w", err)
	}
	return result, nil
}

// ListBySection returns all shops in a section ordered by name.
func (r *pgShopRepo) ListBySection(ctx context.Context, sectionName string) ([]domain.Shop, error) {
	const q = `
		SELECT ` + shopColumns + `
		FROM shops
		WHERE section_name = @section_name
		ORDER BY name`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"section_name": sectionName})
	if err != nil {
		return nil, fmt.Errorf("repo.ShopRepo.ListBySection: %w", err)
	}
	defer rows.Close()

	var shops []domain.Shop
	for rows.Next() {
		s, err := scanShop(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.ShopRepo.ListBySection: scan: %w", err)
		}
		shops = append(shops, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.ShopRepo.ListBySection: rows: %w", err)
	}

	return shops, nil
}

// Delete removes a shop by primary key.
func (r *pgShopRepo) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM shops WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.ShopRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.ShopRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// shopArgs builds the named args shared by Create and Update. The polygon
// path and street view are stored as jsonb.
func shopArgs(shop domain.Shop, operatorID string) (pgx.NamedArgs, error) {
	pathJSON, err := json.Marshal(shop.Path)
	if err != nil {
		return nil, fmt.Errorf("marshal path: %w", err)
	}
	svJSON, err := json.Marshal(shop.StreetView)
	if err != nil {
		return nil, fmt.Errorf("marshal street view: %w", err)
	}

	return pgx.NamedArgs{
		"id":              shop.ID,
		"name":            shop.Name,
		"alias":           shop.Alias,
		"comment":         shop.Comment,
		"business_hours":  shop.BusinessHours,
		"category":        shop.Category,
		"medium_category": shop.MediumCategory,
		"small_category":  shop.SmallCategory,
		"section_name":    shop.SectionName,
		"address":         shop.Address,
		"main_image":      shop.MainImage,
		"sub_images":      shop.SubImages,
		"pin_lat":         shop.PinCoordinates.Lat,
		"pin_lng":         shop.PinCoordinates.Lng,
		"path":            pathJSON,
		"icon_design":     shop.IconDesign,
		"street_view":     svJSON,
		"google_data_id":  shop.GoogleDataID,
		"updated_by":      operatorID,
	}, nil
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing scanShop to be
// reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// scanShop maps a single database row into a domain.Shop.
func scanShop(s scanner) (domain.Shop, error) {
	var (
		shop     domain.Shop
		pathJSON []byte
		svJSON   []byte
	)

	err := s.Scan(&shop.ID, &shop.Name, &shop.Alias, &shop.Comment,
		&shop.BusinessHours, &shop.Category, &shop.MediumCategory,
		&shop.SmallCategory, &shop.SectionName, &shop.Address,
		&shop.MainImage, &shop.SubImages, &shop.PinCoordinates.Lat,
		&shop.PinCoordinates.Lng, &pathJSON, &shop.IconDesign, &svJSON,
		&shop.GoogleDataID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Shop{}, domain.ErrNotFound
		}
		return domain.Shop{}, err
	}

	if len(pathJSON) > 0 {
		if err := json.Unmarshal(pathJSON, &shop.Path); err != nil {
			return domain.Shop{}, fmt.Errorf("unmarshal path: %w", err)
		}
	}
	if len(svJSON) > 0 {
		if err := json.Unmarshal(svJSON, &shop.StreetView); err != nil {
			return domain.Shop{}, fmt.Errorf("unmarshal street view: %w", err)
		}
	}

	return shop, nil
}
