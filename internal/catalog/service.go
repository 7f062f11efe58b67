package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

const autocompleteLimit = 5

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateCategory creates the category and any models nested in the
// request in one transaction.
func (s *Service) CreateCategory(ctx context.Context, req CreateCategoryRequest) (Category, error) {
	category := Category{ID: uuid.NewString(), Name: req.Name}

	err := s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		if err := repo.CreateCategory(ctx, category.ID, category.Name); err != nil {
			return err
		}
		for _, input := range req.Models {
			model := Model{
				ID:         uuid.NewString(),
				Name:       input.Name,
				CategoryID: category.ID,
				CostPrice:  input.CostPrice,
				SalePrice:  input.SalePrice,
			}
			if err := repo.CreateModel(ctx, model); err != nil {
				return err
			}
			category.Models = append(category.Models, model)
		}
		return nil
	})
	if err != nil {
		return Category{}, err
	}
	return category, nil
}

func (s *Service) UpdateCategory(ctx context.Context, id string, req UpdateCategoryRequest) error {
	return s.repo.UpdateCategory(ctx, id, req.Name)
}

func (s *Service) DeleteCategory(ctx context.Context, id string) error {
	return s.repo.DeleteCategory(ctx, id)
}

// List returns categories matching the search with their models attached.
func (s *Service) List(ctx context.Context, params ListParams) ([]Category, error) {
	categories, err := s.repo.Categories(ctx, params.Search, 0)
	if err != nil {
		return nil, err
	}
	if len(categories) == 0 {
		return []Category{}, nil
	}

	if err := s.attachModels(ctx, categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// Autocomplete returns at most five matching categories, with models only
// when the caller asks for them.
func (s *Service) Autocomplete(ctx context.Context, params ListParams) ([]Category, error) {
	categories, err := s.repo.Categories(ctx, params.Search, autocompleteLimit)
	if err != nil {
		return nil, err
	}
	if len(categories) == 0 {
		return []Category{}, nil
	}

	if params.FetchModels {
		if err := s.attachModels(ctx, categories); err != nil {
			return nil, err
		}
	}
	return categories, nil
}

func (s *Service) attachModels(ctx context.Context, categories []Category) error {
	ids := make([]string, 0, len(categories))
	for _, c := range categories {
		ids = append(ids, c.ID)
	}

	models, err := s.repo.ModelsByCategory(ctx, ids)
	if err != nil {
		return fmt.Errorf("catalog: attach models: %w", err)
	}
	for i := range categories {
		categories[i].Models = models[categories[i].ID]
	}
	return nil
}

func (s *Service) CreateModel(ctx context.Context, categoryID string, req CreateModelRequest) (Model, error) {
	model := Model{
		ID:         uuid.NewString(),
		Name:       req.Name,
		CategoryID: categoryID,
		CostPrice:  req.CostPrice,
		SalePrice:  req.SalePrice,
	}
	if err := s.repo.CreateModel(ctx, model); err != nil {
		return Model{}, err
	}
	return model, nil
}

func (s *Service) UpdateModel(ctx context.Context, categoryID, modelID string, req UpdateModelRequest) (*Model, error) {
	if err := s.repo.UpdateModel(ctx, categoryID, modelID, req); err != nil {
		return nil, err
	}
	return s.repo.Model(ctx, modelID)
}

func (s *Service) DeleteModel(ctx context.Context, id string) error {
	return s.repo.DeleteModel(ctx, id)
}
