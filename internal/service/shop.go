// Package service contains the business logic for the shop editor service.
// Services validate inputs, enforce business rules, and orchestrate repo and
// collaborator calls. No SQL lives here — services depend on repo
// interfaces, not implementations.
package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/mapnote/shopedit/internal/domain"
	"github.com/mapnote/shopedit/internal/repo"
)

// DefaultCategory is assigned when a record is created without a category.
// Updates, by contrast, must carry one — an existing record losing its
// category would vanish from every filtered map view.
const DefaultCategory = "uncategorized"

// ImagePromoter finalizes image namespace placement before a record is
// persisted. *images.Promoter satisfies it.
type ImagePromoter interface {
	Promote(ctx context.Context, shop domain.Shop, targetSection, itemID string) domain.Shop
}

// CatalogInvalidator drops cached section listings after a write.
// *catalog.Cache satisfies it.
type CatalogInvalidator interface {
	Invalidate(sectionName string)
}

// ShopService implements the persistence collaborator the editor submits
// through: create-if-no-ID / update-if-ID semantics, image promotion, and
// cache invalidation on write.
type ShopService struct {
	shops      repo.ShopRepo
	promoter   ImagePromoter
	catalog    CatalogInvalidator
	operatorID string
}

// NewShopService constructs a ShopService. promoter and catalog may be nil
// when image promotion or cache invalidation is not wired (tests).
func NewShopService(shops repo.ShopRepo, promoter ImagePromoter, catalog CatalogInvalidator, operatorID string) *ShopService {
	return &ShopService{shops: shops, promoter: promoter, catalog: catalog, operatorID: operatorID}
}

// SetCatalog wires the section cache after construction. The cache reads
// through the service and the service invalidates the cache, so one of the
// two references has to be set late.
func (s *ShopService) SetCatalog(catalog CatalogInvalidator) {
	s.catalog = catalog
}

// Save persists a working record: create when it has no ID, update
// otherwise. The ID is assigned before image promotion so temp images can
// move into their permanent section/id namespace in the same save.
// Returns domain.ErrValidation when the section name is missing, or when an
// update carries no category.
func (s *ShopService) Save(ctx context.Context, shop domain.Shop, sectionName string) (domain.Shop, error) {
	if strings.TrimSpace(sectionName) == "" {
		return domain.Shop{}, fmt.Errorf("%w: section name is required", domain.ErrValidation)
	}
	shop.SectionName = sectionName

	isNew := shop.ID == ""
	if isNew {
		shop.ID = uuid.NewString()
		if strings.TrimSpace(shop.Category) == "" {
			shop.Category = DefaultCategory
		}
	} else if strings.TrimSpace(shop.Category) == "" {
		return domain.Shop{}, fmt.Errorf("%w: category is required on update", domain.ErrValidation)
	}

	if s.promoter != nil {
		shop = s.promoter.Promote(ctx, shop, sectionName, shop.ID)
	}

	var (
		saved domain.Shop
		err   error
	)
	if isNew {
		saved, err = s.shops.Create(ctx, shop, s.operatorID)
	} else {
		saved, err = s.shops.Update(ctx, shop, s.operatorID)
	}
	if err != nil {
		return domain.Shop{}, fmt.Errorf("service.ShopService.Save: %w", err)
	}

	if s.catalog != nil {
		s.catalog.Invalidate(sectionName)
	}
	return saved, nil
}

// GetByID returns a single shop by ID.
// Returns domain.ErrNotFound if no shop with that ID exists.
func (s *ShopService) GetByID(ctx context.Context, id string) (domain.Shop, error) {
	result, err := s.shops.GetByID(ctx, id)
	if err != nil {
		return domain.Shop{}, fmt.Errorf("service.ShopService.GetByID: %w", err)
	}
	return result, nil
}

// ListBySection returns all shops in a section.
// Always returns a non-nil slice so callers can safely range over it.
func (s *ShopService) ListBySection(ctx context.Context, sectionName string) ([]domain.Shop, error) {
	shops, err := s.shops.ListBySection(ctx, sectionName)
	if err != nil {
		return nil, fmt.Errorf("service.ShopService.ListBySection: %w", err)
	}
	if shops == nil {
		return []domain.Shop{}, nil
	}
	return shops, nil
}

// Delete removes a shop by ID and invalidates its section's cached listing.
// Returns domain.ErrNotFound if the shop does not exist.
func (s *ShopService) Delete(ctx context.Context, id string) error {
	shop, err := s.shops.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("service.ShopService.Delete: %w", err)
	}
	if err := s.shops.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.ShopService.Delete: %w", err)
	}
	if s.catalog != nil {
		s.catalog.Invalidate(shop.SectionName)
	}
	return nil
}
