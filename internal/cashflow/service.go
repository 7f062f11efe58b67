package cashflow

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

func (s *Service) Create(ctx context.Context, req CreateTransactionRequest) (Transaction, error) {
	date, err := shared.ParseDateTime(req.Date)
	if err != nil {
		return Transaction{}, fmt.Errorf("cashflow: parse date: %w", err)
	}

	created, err := s.repo.Create(ctx, Transaction{
		ID:          uuid.NewString(),
		Flow:        req.Flow,
		Date:        date,
		Description: req.Description,
		Category:    req.Category,
		Value:       req.Value,
	})
	if err != nil {
		return Transaction{}, fmt.Errorf("cashflow: create transaction: %w", err)
	}
	return created, nil
}

func (s *Service) Update(ctx context.Context, id string, req UpdateTransactionRequest) (Transaction, error) {
	date, err := shared.ParseDateTime(req.Date)
	if err != nil {
		return Transaction{}, fmt.Errorf("cashflow: parse date: %w", err)
	}

	updated, err := s.repo.Update(ctx, id, Transaction{
		Flow:        req.Flow,
		Date:        date,
		Description: req.Description,
		Category:    req.Category,
		Value:       req.Value,
	})
	if err != nil {
		return Transaction{}, fmt.Errorf("cashflow: update transaction: %w", err)
	}
	return updated, nil
}

// Delete removes a transaction. An entry recorded against a sale takes the
// sale with it, so re-created sales do not keep stale payments around.
func (s *Service) Delete(ctx context.Context, id string) error {
	transaction, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}

	return s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		if err := repo.Delete(ctx, id); err != nil {
			return err
		}
		if transaction.SaleID != nil {
			return repo.DeleteSale(ctx, *transaction.SaleID)
		}
		return nil
	})
}

func (s *Service) DeleteMany(ctx context.Context, req DeleteManyTransactionsRequest) (int64, error) {
	return s.repo.DeleteMany(ctx, req.IDs)
}

func (s *Service) List(ctx context.Context, params ListTransactionsParams) (shared.ListResult[Transaction], error) {
	var zero shared.ListResult[Transaction]

	predicate, err := query.CompileFilter(params.Filter, listFields)
	if err != nil {
		return zero, err
	}
	order, err := query.CompileSort(params.Sort, sortableFields)
	if err != nil {
		return zero, err
	}
	page := query.Paginate(params.Page, false)

	rows, total, err := s.repo.List(ctx, ListQuery{
		Filter: predicate,
		Order:  order,
		Page:   page,
		Search: params.Search,
	})
	if err != nil {
		return zero, fmt.Errorf("cashflow: list transactions: %w", err)
	}

	return shared.NewListResult(rows, total, page.Limit), nil
}
