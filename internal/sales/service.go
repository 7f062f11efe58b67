package sales

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/vitrine-app/vitrine/internal/cashflow"
	"github.com/vitrine-app/vitrine/internal/query"
	"github.com/vitrine-app/vitrine/internal/shared"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create records a sale, its item snapshots and the initial revenue entry
// in one transaction. A sale opened with an installment books only the
// first installment's value; a cash sale books the full total.
func (s *Service) Create(ctx context.Context, req CreateSaleRequest) error {
	purchasedAt, err := shared.ParseDateTime(req.PurchasedAt)
	if err != nil {
		return fmt.Errorf("sales: parse purchasedAt: %w", err)
	}

	var total, profit int64
	for _, item := range req.Items {
		total += item.SalePrice
		profit += item.SalePrice - item.CostPrice
	}

	saleType := "À vista"
	if req.Installment != nil {
		saleType = "Parcela 1"
	}

	description := fmt.Sprintf("Compra [sem cliente] - %s", saleType)
	if req.CustomerID != nil {
		name, err := s.repo.CustomerName(ctx, *req.CustomerID)
		if err != nil {
			return err
		}
		firstName := strings.SplitN(name, " ", 2)[0]
		description = fmt.Sprintf("Compra de %s - %s", firstName, saleType)
	}

	transactionDate := purchasedAt
	transactionValue := total
	if req.Installment != nil {
		paidAt, err := shared.ParseDateTime(req.Installment.PaidAt)
		if err != nil {
			return fmt.Errorf("sales: parse paidAt: %w", err)
		}
		transactionDate = paidAt
		transactionValue = req.Installment.Value
	}

	modelIDs := make([]string, 0, len(req.Items))
	for _, item := range req.Items {
		modelIDs = append(modelIDs, item.ModelID)
	}
	snapshots, err := s.repo.ModelSnapshots(ctx, modelIDs)
	if err != nil {
		return err
	}

	items := make([]Item, 0, len(req.Items))
	for _, input := range req.Items {
		snapshot, ok := snapshots[input.ModelID]
		if !ok {
			return fmt.Errorf("%w: %q", ErrModelNotFound, input.ModelID)
		}
		items = append(items, Item{
			ID:           uuid.NewString(),
			CategoryName: snapshot.CategoryName,
			ModelName:    snapshot.Name,
			Size:         input.Size,
			Color:        input.Color,
			Print:        input.Print,
			CostPrice:    input.CostPrice,
			SalePrice:    input.SalePrice,
		})
	}

	saleID := uuid.NewString()
	return s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		if err := repo.CreateSale(ctx, Sale{
			ID:            saleID,
			CustomerID:    req.CustomerID,
			Total:         total,
			Profit:        profit,
			IsInstallment: req.Installment != nil,
			PurchasedAt:   purchasedAt,
		}); err != nil {
			return err
		}
		if err := repo.CreateItems(ctx, saleID, items); err != nil {
			return err
		}
		return repo.CreateTransaction(ctx, cashflow.Transaction{
			ID:          uuid.NewString(),
			SaleID:      &saleID,
			Flow:        cashflow.FlowInflow,
			Date:        transactionDate,
			Description: description,
			Category:    cashflow.CategorySalesRevenue,
			Value:       transactionValue,
		})
	})
}

// Overview derives the payment status and the share of profit already
// realized from the amount received so far.
func (s *Service) Overview(ctx context.Context, id string) (*Overview, error) {
	overview, err := s.repo.Overview(ctx, id)
	if err != nil {
		return nil, err
	}

	overview.Status = "pending"
	if overview.TotalReceived >= overview.Total {
		overview.Status = "paid"
	}
	if overview.Total > 0 {
		overview.ProfitReceived = overview.TotalReceived * overview.Profit / overview.Total
	}
	return overview, nil
}

func (s *Service) Items(ctx context.Context, saleID string) ([]Item, error) {
	items, err := s.repo.Items(ctx, saleID)
	if err != nil {
		return nil, fmt.Errorf("sales: items: %w", err)
	}
	if items == nil {
		items = []Item{}
	}
	return items, nil
}

func (s *Service) Installments(ctx context.Context, saleID string) ([]Installment, error) {
	installments, err := s.repo.Installments(ctx, saleID)
	if err != nil {
		return nil, fmt.Errorf("sales: installments: %w", err)
	}
	if installments == nil {
		installments = []Installment{}
	}
	return installments, nil
}

// CreateInstallment books one more payment against the sale. The entry is
// numbered after the payments already recorded.
func (s *Service) CreateInstallment(ctx context.Context, saleID string, req CreateInstallmentRequest) (Installment, error) {
	paidAt, err := shared.ParseDateTime(req.PaidAt)
	if err != nil {
		return Installment{}, fmt.Errorf("sales: parse paidAt: %w", err)
	}

	overview, err := s.repo.Overview(ctx, saleID)
	if err != nil {
		return Installment{}, err
	}
	customerName := "[sem cliente]"
	if overview.Customer != nil {
		customerName = overview.Customer.Name
	}

	count, err := s.repo.TransactionCount(ctx, saleID)
	if err != nil {
		return Installment{}, err
	}

	installment := Installment{ID: uuid.NewString(), PaidAt: paidAt, Value: req.Value}
	err = s.repo.CreateTransaction(ctx, cashflow.Transaction{
		ID:          installment.ID,
		SaleID:      &saleID,
		Flow:        cashflow.FlowInflow,
		Date:        paidAt,
		Description: fmt.Sprintf("Compra de %s - Parcela %d", customerName, count+1),
		Category:    cashflow.CategoryInstallment,
		Value:       req.Value,
	})
	if err != nil {
		return Installment{}, err
	}
	return installment, nil
}

func (s *Service) DeleteInstallment(ctx context.Context, id string) error {
	return s.repo.DeleteInstallment(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) DeleteMany(ctx context.Context, req DeleteManySalesRequest) (int64, error) {
	return s.repo.DeleteMany(ctx, req.IDs)
}

func (s *Service) List(ctx context.Context, params ListSalesParams) (shared.ListResult[Row], error) {
	var zero shared.ListResult[Row]

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
		return zero, fmt.Errorf("sales: list: %w", err)
	}

	return shared.NewListResult(rows, total, page.Limit), nil
}
