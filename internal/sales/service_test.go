package sales

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitrine-app/vitrine/internal/cashflow"
	"github.com/vitrine-app/vitrine/internal/shared"
)

type mockRepo struct {
	customerNameFn func(ctx context.Context, id string) (string, error)
	snapshotsFn    func(ctx context.Context, ids []string) (map[string]ModelSnapshot, error)
	overviewFn     func(ctx context.Context, id string) (*Overview, error)
	countFn        func(ctx context.Context, saleID string) (int, error)

	createdSale         *Sale
	createdItems        []Item
	createdTransactions []cashflow.Transaction
}

func (m *mockRepo) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	return fn(ctx, m)
}

func (m *mockRepo) CustomerName(ctx context.Context, id string) (string, error) {
	return m.customerNameFn(ctx, id)
}

func (m *mockRepo) ModelSnapshots(ctx context.Context, ids []string) (map[string]ModelSnapshot, error) {
	return m.snapshotsFn(ctx, ids)
}

func (m *mockRepo) CreateSale(ctx context.Context, sale Sale) error {
	m.createdSale = &sale
	return nil
}

func (m *mockRepo) CreateItems(ctx context.Context, saleID string, items []Item) error {
	m.createdItems = items
	return nil
}

func (m *mockRepo) CreateTransaction(ctx context.Context, t cashflow.Transaction) error {
	m.createdTransactions = append(m.createdTransactions, t)
	return nil
}

func (m *mockRepo) Overview(ctx context.Context, id string) (*Overview, error) {
	return m.overviewFn(ctx, id)
}

func (m *mockRepo) Items(ctx context.Context, saleID string) ([]Item, error) { return nil, nil }

func (m *mockRepo) Installments(ctx context.Context, saleID string) ([]Installment, error) {
	return nil, nil
}

func (m *mockRepo) TransactionCount(ctx context.Context, saleID string) (int, error) {
	return m.countFn(ctx, saleID)
}

func (m *mockRepo) DeleteInstallment(ctx context.Context, id string) error { return nil }
func (m *mockRepo) Delete(ctx context.Context, id string) error            { return nil }
func (m *mockRepo) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	return int64(len(ids)), nil
}
func (m *mockRepo) List(ctx context.Context, req ListQuery) ([]Row, int, error) {
	return nil, 0, nil
}

const (
	modelDress = "5f0c3f7e-9a39-4e83-9c27-3b1a4c2d9e01"
	modelSkirt = "0a81d2bc-6a0e-4a57-b4d4-7c5f1e2a9b02"
)

func snapshotMap() map[string]ModelSnapshot {
	return map[string]ModelSnapshot{
		modelDress: {ID: modelDress, Name: "Vestido Longo", CategoryName: "Vestidos"},
		modelSkirt: {ID: modelSkirt, Name: "Saia Midi", CategoryName: "Saias"},
	}
}

func TestCreateCashSale(t *testing.T) {
	repo := &mockRepo{
		customerNameFn: func(ctx context.Context, id string) (string, error) {
			return "Maria Oliveira", nil
		},
		snapshotsFn: func(ctx context.Context, ids []string) (map[string]ModelSnapshot, error) {
			return snapshotMap(), nil
		},
	}
	service := NewService(repo)

	customerID := "d2f6a1e4-1c3b-4f5a-8e7d-9b0c1a2d3e04"
	err := service.Create(context.Background(), CreateSaleRequest{
		CustomerID:  &customerID,
		PurchasedAt: "2024-03-10",
		Items: []SaleItemInput{
			{ModelID: modelDress, Color: "Azul", Print: "Liso", Size: "M", CostPrice: 4000, SalePrice: 9990},
			{ModelID: modelSkirt, Color: "Preto", Print: "Floral", Size: "P", CostPrice: 3000, SalePrice: 7000},
		},
	})
	require.NoError(t, err)

	require.NotNil(t, repo.createdSale)
	assert.Equal(t, int64(16990), repo.createdSale.Total)
	assert.Equal(t, int64(9990), repo.createdSale.Profit)
	assert.False(t, repo.createdSale.IsInstallment)

	require.Len(t, repo.createdItems, 2)
	assert.Equal(t, "Vestidos", repo.createdItems[0].CategoryName)
	assert.Equal(t, "Vestido Longo", repo.createdItems[0].ModelName)

	require.Len(t, repo.createdTransactions, 1)
	tx := repo.createdTransactions[0]
	assert.Equal(t, cashflow.FlowInflow, tx.Flow)
	assert.Equal(t, cashflow.CategorySalesRevenue, tx.Category)
	assert.Equal(t, int64(16990), tx.Value)
	assert.Equal(t, "Compra de Maria - À vista", tx.Description)
	require.NotNil(t, tx.SaleID)
	assert.Equal(t, repo.createdSale.ID, *tx.SaleID)
}

func TestCreateInstallmentSaleBooksFirstInstallmentOnly(t *testing.T) {
	repo := &mockRepo{
		snapshotsFn: func(ctx context.Context, ids []string) (map[string]ModelSnapshot, error) {
			return snapshotMap(), nil
		},
	}
	service := NewService(repo)

	err := service.Create(context.Background(), CreateSaleRequest{
		PurchasedAt: "2024-03-10",
		Items: []SaleItemInput{
			{ModelID: modelDress, Color: "Azul", Print: "Liso", Size: "M", CostPrice: 4000, SalePrice: 30000},
		},
		Installment: &CreateInstallmentRequest{Value: 10000, PaidAt: "2024-03-15"},
	})
	require.NoError(t, err)

	require.NotNil(t, repo.createdSale)
	assert.True(t, repo.createdSale.IsInstallment)

	require.Len(t, repo.createdTransactions, 1)
	tx := repo.createdTransactions[0]
	assert.Equal(t, int64(10000), tx.Value)
	assert.Equal(t, "Compra [sem cliente] - Parcela 1", tx.Description)

	paidAt, _ := shared.ParseDateTime("2024-03-15")
	assert.True(t, tx.Date.Equal(paidAt))
}

func TestCreateUnknownModel(t *testing.T) {
	repo := &mockRepo{
		snapshotsFn: func(ctx context.Context, ids []string) (map[string]ModelSnapshot, error) {
			return map[string]ModelSnapshot{}, nil
		},
	}
	service := NewService(repo)

	err := service.Create(context.Background(), CreateSaleRequest{
		PurchasedAt: "2024-03-10",
		Items: []SaleItemInput{
			{ModelID: modelDress, Color: "Azul", Print: "Liso", Size: "M", SalePrice: 100},
		},
	})
	assert.ErrorIs(t, err, ErrModelNotFound)
	assert.Nil(t, repo.createdSale)
}

func TestOverviewStatusAndProfitReceived(t *testing.T) {
	repo := &mockRepo{
		overviewFn: func(ctx context.Context, id string) (*Overview, error) {
			return &Overview{
				Total:         20000,
				Profit:        8000,
				TotalReceived: 10000,
				PurchasedAt:   time.Now(),
			}, nil
		},
	}
	service := NewService(repo)

	overview, err := service.Overview(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "pending", overview.Status)
	assert.Equal(t, int64(4000), overview.ProfitReceived)
}

func TestOverviewPaid(t *testing.T) {
	repo := &mockRepo{
		overviewFn: func(ctx context.Context, id string) (*Overview, error) {
			return &Overview{Total: 20000, Profit: 8000, TotalReceived: 20000}, nil
		},
	}
	service := NewService(repo)

	overview, err := service.Overview(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "paid", overview.Status)
	assert.Equal(t, int64(8000), overview.ProfitReceived)
}

func TestOverviewZeroTotal(t *testing.T) {
	repo := &mockRepo{
		overviewFn: func(ctx context.Context, id string) (*Overview, error) {
			return &Overview{Total: 0, Profit: 0, TotalReceived: 0}, nil
		},
	}
	service := NewService(repo)

	overview, err := service.Overview(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "paid", overview.Status)
	assert.Equal(t, int64(0), overview.ProfitReceived)
}

func TestCreateInstallmentNumbersSequentially(t *testing.T) {
	repo := &mockRepo{
		overviewFn: func(ctx context.Context, id string) (*Overview, error) {
			return &Overview{Customer: &CustomerRef{ID: "c1", Name: "Maria Oliveira"}}, nil
		},
		countFn: func(ctx context.Context, saleID string) (int, error) {
			return 2, nil
		},
	}
	service := NewService(repo)

	created, err := service.CreateInstallment(context.Background(), "s1", CreateInstallmentRequest{
		Value:  5000,
		PaidAt: "2024-04-01",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5000), created.Value)

	require.Len(t, repo.createdTransactions, 1)
	tx := repo.createdTransactions[0]
	assert.Equal(t, "Compra de Maria Oliveira - Parcela 3", tx.Description)
	assert.Equal(t, cashflow.CategoryInstallment, tx.Category)
	assert.Equal(t, cashflow.FlowInflow, tx.Flow)
}
