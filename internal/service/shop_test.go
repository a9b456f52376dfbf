package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mapnote/shopedit/internal/domain"
	"github.com/mapnote/shopedit/internal/repo"
	"github.com/mapnote/shopedit/internal/service"
)

// mockShopRepo is a hand-written mock of repo.ShopRepo.
type mockShopRepo struct {
	createFunc func(ctx context.Context, shop domain.Shop, operatorID string) (domain.Shop, error)
	updateFunc func(ctx context.Context, shop domain.Shop, operatorID string) (domain.Shop, error)
	getFunc    func(ctx context.Context, id string) (domain.Shop, error)
	listFunc   func(ctx context.Context, sectionName string) ([]domain.Shop, error)
	deleteFunc func(ctx context.Context, id string) error
}

var _ repo.ShopRepo = (*mockShopRepo)(nil)

func (m *mockShopRepo) Create(ctx context.Context, shop domain.Shop, operatorID string) (domain.Shop, error) {
	return m.createFunc(ctx, shop, operatorID)
}

func (m *mockShopRepo) Update(ctx context.Context, shop domain.Shop, operatorID string) (domain.Shop, error) {
	return m.updateFunc(ctx, shop, operatorID)
}

func (m *mockShopRepo) GetByID(ctx context.Context, id string) (domain.Shop, error) {
	return m.getFunc(ctx, id)
}

func (m *mockShopRepo) ListBySection(ctx context.Context, sectionName string) ([]domain.Shop, error) {
	return m.listFunc(ctx, sectionName)
}

func (m *mockShopRepo) Delete(ctx context.Context, id string) error {
	return m.deleteFunc(ctx, id)
}

// mockPromoter records the promotion arguments and passes the record through.
type mockPromoter struct {
	calledWith []string // targetSection, itemID
}

var _ service.ImagePromoter = (*mockPromoter)(nil)

func (m *mockPromoter) Promote(_ context.Context, shop domain.Shop, targetSection, itemID string) domain.Shop {
	m.calledWith = []string{targetSection, itemID}
	return shop
}

// mockInvalidator records invalidated sections.
type mockInvalidator struct {
	sections []string
}

var _ service.CatalogInvalidator = (*mockInvalidator)(nil)

func (m *mockInvalidator) Invalidate(sectionName string) {
	m.sections = append(m.sections, sectionName)
}

func TestSave_CreateAssignsIDAndDefaultCategory(t *testing.T) {
	var created domain.Shop
	repo := &mockShopRepo{createFunc: func(_ context.Context, shop domain.Shop, operatorID string) (domain.Shop, error) {
		created = shop
		assert.Equal(t, "editor-1", operatorID)
		return shop, nil
	}}
	catalog := &mockInvalidator{}
	svc := service.NewShopService(repo, nil, catalog, "editor-1")

	saved, err := svc.Save(context.Background(), domain.Shop{Name: "New Place"}, "downtown")

	require.NoError(t, err)
	assert.NotEmpty(t, created.ID, "creates get a generated ID")
	assert.Equal(t, service.DefaultCategory, created.Category)
	assert.Equal(t, "downtown", created.SectionName)
	assert.Equal(t, created.ID, saved.ID)
	assert.Equal(t, []string{"downtown"}, catalog.sections)
}

func TestSave_CreateKeepsProvidedCategory(t *testing.T) {
	repo := &mockShopRepo{createFunc: func(_ context.Context, shop domain.Shop, _ string) (domain.Shop, error) {
		return shop, nil
	}}
	svc := service.NewShopService(repo, nil, nil, "editor-1")

	saved, err := svc.Save(context.Background(), domain.Shop{Name: "New Place", Category: "coffee"}, "downtown")

	require.NoError(t, err)
	assert.Equal(t, "coffee", saved.Category)
}

func TestSave_UpdateRequiresCategory(t *testing.T) {
	svc := service.NewShopService(&mockShopRepo{}, nil, nil, "editor-1")

	_, err := svc.Save(context.Background(), domain.Shop{ID: "shop-1", Name: "Cafe"}, "downtown")

	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestSave_RequiresSectionName(t *testing.T) {
	svc := service.NewShopService(&mockShopRepo{}, nil, nil, "editor-1")

	_, err := svc.Save(context.Background(), domain.Shop{Name: "Cafe"}, "   ")

	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestSave_UpdatePath(t *testing.T) {
	var updated domain.Shop
	repo := &mockShopRepo{updateFunc: func(_ context.Context, shop domain.Shop, _ string) (domain.Shop, error) {
		updated = shop
		return shop, nil
	}}
	svc := service.NewShopService(repo, nil, nil, "editor-1")

	_, err := svc.Save(context.Background(), domain.Shop{ID: "shop-1", Name: "Cafe", Category: "coffee"}, "downtown")

	require.NoError(t, err)
	assert.Equal(t, "shop-1", updated.ID)
}

func TestSave_PromotesImagesWithFinalID(t *testing.T) {
	repo := &mockShopRepo{createFunc: func(_ context.Context, shop domain.Shop, _ string) (domain.Shop, error) {
		return shop, nil
	}}
	promoter := &mockPromoter{}
	svc := service.NewShopService(repo, promoter, nil, "editor-1")

	saved, err := svc.Save(context.Background(), domain.Shop{Name: "New Place"}, "downtown")

	require.NoError(t, err)
	require.Len(t, promoter.calledWith, 2)
	assert.Equal(t, "downtown", promoter.calledWith[0])
	assert.Equal(t, saved.ID, promoter.calledWith[1],
		"promotion must see the ID the record will be created under")
}

func TestSave_RepoErrorSkipsInvalidation(t *testing.T) {
	repo := &mockShopRepo{createFunc: func(context.Context, domain.Shop, string) (domain.Shop, error) {
		return domain.Shop{}, errors.New("insert failed")
	}}
	catalog := &mockInvalidator{}
	svc := service.NewShopService(repo, nil, catalog, "editor-1")

	_, err := svc.Save(context.Background(), domain.Shop{Name: "New Place"}, "downtown")

	require.Error(t, err)
	assert.Empty(t, catalog.sections)
}

func TestGetByID_WrapsNotFound(t *testing.T) {
	repo := &mockShopRepo{getFunc: func(_ context.Context, id string) (domain.Shop, error) {
		return domain.Shop{}, fmt.Errorf("repo.pgShopRepo.GetByID: %w", domain.ErrNotFound)
	}}
	svc := service.NewShopService(repo, nil, nil, "editor-1")

	_, err := svc.GetByID(context.Background(), "missing")

	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListBySection_NeverReturnsNilSlice(t *testing.T) {
	repo := &mockShopRepo{listFunc: func(context.Context, string) ([]domain.Shop, error) {
		return nil, nil
	}}
	svc := service.NewShopService(repo, nil, nil, "editor-1")

	got, err := svc.ListBySection(context.Background(), "downtown")

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestDelete_InvalidatesTheRecordsSection(t *testing.T) {
	repo := &mockShopRepo{
		getFunc: func(_ context.Context, id string) (domain.Shop, error) {
			return domain.Shop{ID: id, SectionName: "uptown"}, nil
		},
		deleteFunc: func(context.Context, string) error { return nil },
	}
	catalog := &mockInvalidator{}
	svc := service.NewShopService(repo, nil, catalog, "editor-1")

	err := svc.Delete(context.Background(), "shop-1")

	require.NoError(t, err)
	assert.Equal(t, []string{"uptown"}, catalog.sections)
}

func TestDelete_MissingRecord(t *testing.T) {
	repo := &mockShopRepo{getFunc: func(context.Context, string) (domain.Shop, error) {
		return domain.Shop{}, fmt.Errorf("repo.pgShopRepo.GetByID: %w", domain.ErrNotFound)
	}}
	catalog := &mockInvalidator{}
	svc := service.NewShopService(repo, nil, catalog, "editor-1")

	err := svc.Delete(context.Background(), "missing")

	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, catalog.sections)
}
