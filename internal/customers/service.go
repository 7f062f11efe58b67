package customers

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/vitrine-app/vitrine/internal/query"
	"github.com/vitrine-app/vitrine/internal/shared"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, req CreateCustomerRequest) (Customer, error) {
	created, err := s.repo.Create(ctx, Customer{
		ID:    uuid.NewString(),
		Name:  req.Name,
		Phone: req.Phone,
	})
	if err != nil {
		return Customer{}, fmt.Errorf("customers: create: %w", err)
	}
	return created, nil
}

func (s *Service) Update(ctx context.Context, id string, req UpdateCustomerRequest) error {
	return s.repo.Update(ctx, id, req.Name, req.Phone)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) DeleteMany(ctx context.Context, req DeleteManyCustomersRequest) (int64, error) {
	return s.repo.DeleteMany(ctx, req.IDs)
}

func (s *Service) List(ctx context.Context, params ListCustomersParams) (shared.ListResult[CustomerRow], error) {
	var zero shared.ListResult[CustomerRow]

	predicate, err := query.CompileFilter(params.Filter, listFields)
	if err != nil {
		return zero, err
	}
	order, err := query.CompileSort(params.Sort, sortableFields)
	if err != nil {
		return zero, err
	}
	page := query.Paginate(params.Page, params.Narrow)

	rows, total, err := s.repo.List(ctx, ListQuery{
		Filter: predicate,
		Order:  order,
		Page:   page,
		Search: params.Search,
	})
	if err != nil {
		return zero, fmt.Errorf("customers: list: %w", err)
	}

	return shared.NewListResult(rows, total, page.Limit), nil
}

func (s *Service) Overview(ctx context.Context, id string) (*Overview, error) {
	return s.repo.Overview(ctx, id)
}

// Stats builds the customer detail aggregates. Preferences only make sense
// once the customer exists, so a missing id surfaces as ErrNotFound here.
func (s *Service) Stats(ctx context.Context, id string) (Stats, error) {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return Stats{}, err
	}

	metrics, err := s.repo.Metrics(ctx, id)
	if err != nil {
		return Stats{}, err
	}
	preferences, err := s.repo.Preferences(ctx, id)
	if err != nil {
		return Stats{}, err
	}
	return Stats{Metrics: metrics, Preferences: preferences}, nil
}

func (s *Service) Purchases(ctx context.Context, id string) ([]Purchase, error) {
	purchases, err := s.repo.Purchases(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("customers: purchases: %w", err)
	}
	if purchases == nil {
		purchases = []Purchase{}
	}
	return purchases, nil
}

// Autocomplete is the narrow list used by the sale form's customer picker.
func (s *Service) Autocomplete(ctx context.Context, search string) ([]CustomerRow, error) {
	result, err := s.List(ctx, ListCustomersParams{Page: 1, Search: search, Narrow: true})
	if err != nil {
		return nil, err
	}
	return result.Rows, nil
}
