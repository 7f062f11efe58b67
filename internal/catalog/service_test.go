package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitrine-app/vitrine/internal/platform/httpx"
)

type mockRepo struct {
	categoriesFn func(ctx context.Context, search string, limit int) ([]Category, error)
	modelsFn     func(ctx context.Context, ids []string) (map[string][]Model, error)
	createCatFn  func(ctx context.Context, id, name string) error

	createdModels []Model
}

func (m *mockRepo) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	return fn(ctx, m)
}

func (m *mockRepo) CreateCategory(ctx context.Context, id, name string) error {
	if m.createCatFn != nil {
		return m.createCatFn(ctx, id, name)
	}
	return nil
}

func (m *mockRepo) UpdateCategory(ctx context.Context, id, name string) error { return nil }
func (m *mockRepo) DeleteCategory(ctx context.Context, id string) error       { return nil }

func (m *mockRepo) Categories(ctx context.Context, search string, limit int) ([]Category, error) {
	return m.categoriesFn(ctx, search, limit)
}

func (m *mockRepo) ModelsByCategory(ctx context.Context, ids []string) (map[string][]Model, error) {
	return m.modelsFn(ctx, ids)
}

func (m *mockRepo) CreateModel(ctx context.Context, model Model) error {
	m.createdModels = append(m.createdModels, model)
	return nil
}

func (m *mockRepo) UpdateModel(ctx context.Context, categoryID, modelID string, req UpdateModelRequest) error {
	return nil
}

func (m *mockRepo) DeleteModel(ctx context.Context, id string) error { return nil }

func (m *mockRepo) Model(ctx context.Context, id string) (*Model, error) {
	return &Model{ID: id}, nil
}

func TestCreateCategoryWithNestedModels(t *testing.T) {
	repo := &mockRepo{}
	service := NewService(repo)

	created, err := service.CreateCategory(context.Background(), CreateCategoryRequest{
		Name: "Vestidos",
		Models: []CreateModelRequest{
			{Name: "Vestido Longo", CostPrice: 4000, SalePrice: 9990},
			{Name: "Vestido Curto", CostPrice: 3000, SalePrice: 7990},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Vestidos", created.Name)
	require.Len(t, created.Models, 2)
	assert.Equal(t, created.ID, created.Models[0].CategoryID)
	require.Len(t, repo.createdModels, 2)
}

func TestCreateCategoryDuplicateName(t *testing.T) {
	repo := &mockRepo{
		createCatFn: func(ctx context.Context, id, name string) error {
			return httpx.ErrDuplicate
		},
	}
	service := NewService(repo)

	_, err := service.CreateCategory(context.Background(), CreateCategoryRequest{Name: "Vestidos"})
	assert.ErrorIs(t, err, httpx.ErrDuplicate)
}

func TestAutocompleteLimitsAndSkipsModels(t *testing.T) {
	var captured int
	repo := &mockRepo{
		categoriesFn: func(ctx context.Context, search string, limit int) ([]Category, error) {
			captured = limit
			return []Category{{ID: "c1", Name: "Vestidos"}}, nil
		},
		modelsFn: func(ctx context.Context, ids []string) (map[string][]Model, error) {
			t.Fatal("models should not be fetched without fetchModels")
			return nil, nil
		},
	}
	service := NewService(repo)

	categories, err := service.Autocomplete(context.Background(), ListParams{Search: "Ve"})
	require.NoError(t, err)
	assert.Equal(t, 5, captured)
	require.Len(t, categories, 1)
	assert.Nil(t, categories[0].Models)
}

func TestListAttachesModels(t *testing.T) {
	repo := &mockRepo{
		categoriesFn: func(ctx context.Context, search string, limit int) ([]Category, error) {
			assert.Zero(t, limit)
			return []Category{{ID: "c1", Name: "Vestidos"}, {ID: "c2", Name: "Saias"}}, nil
		},
		modelsFn: func(ctx context.Context, ids []string) (map[string][]Model, error) {
			return map[string][]Model{
				"c1": {{ID: "m1", Name: "Vestido Longo", CategoryID: "c1", ItemCount: 3}},
			}, nil
		},
	}
	service := NewService(repo)

	categories, err := service.List(context.Background(), ListParams{})
	require.NoError(t, err)
	require.Len(t, categories, 2)
	require.Len(t, categories[0].Models, 1)
	assert.Equal(t, 3, categories[0].Models[0].ItemCount)
	assert.Empty(t, categories[1].Models)
}

func TestListEmptyNeverNil(t *testing.T) {
	repo := &mockRepo{
		categoriesFn: func(ctx context.Context, search string, limit int) ([]Category, error) {
			return nil, nil
		},
	}
	service := NewService(repo)

	categories, err := service.List(context.Background(), ListParams{Search: "zzz"})
	require.NoError(t, err)
	assert.NotNil(t, categories)
	assert.Empty(t, categories)
}
