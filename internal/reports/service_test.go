package reports

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitrine-app/vitrine/internal/shared"
)

type mockRepo struct {
	mu sync.Mutex

	flowTotalsFn     func(start, end time.Time) (FlowTotals, error)
	saleTotalsFn     func(start, end time.Time) (SaleTotals, error)
	itemCostFn       func(start, end time.Time) (int64, error)
	recognizedFn     func(start, end time.Time) (RecognizedTotals, error)
	salesRevenueFn   func(start, end time.Time) (int64, error)
	historicalFn     func(end time.Time) (FlowTotals, error)
	topCategoriesFn  func(start, end time.Time, limit int) ([]CategoryCount, error)
	flowTotalsCalls  int
	saleTotalsCalls  int
}

func (m *mockRepo) FlowTotals(ctx context.Context, start, end time.Time) (FlowTotals, error) {
	m.mu.Lock()
	m.flowTotalsCalls++
	m.mu.Unlock()
	if m.flowTotalsFn == nil {
		return FlowTotals{}, nil
	}
	return m.flowTotalsFn(start, end)
}

func (m *mockRepo) SaleTotals(ctx context.Context, start, end time.Time) (SaleTotals, error) {
	m.mu.Lock()
	m.saleTotalsCalls++
	m.mu.Unlock()
	if m.saleTotalsFn == nil {
		return SaleTotals{}, nil
	}
	return m.saleTotalsFn(start, end)
}

func (m *mockRepo) SaleItemCostTotal(ctx context.Context, start, end time.Time) (int64, error) {
	if m.itemCostFn == nil {
		return 0, nil
	}
	return m.itemCostFn(start, end)
}

func (m *mockRepo) RecognizedFlowTotals(ctx context.Context, start, end time.Time) (RecognizedTotals, error) {
	if m.recognizedFn == nil {
		return RecognizedTotals{}, nil
	}
	return m.recognizedFn(start, end)
}

func (m *mockRepo) SalesRevenueTotal(ctx context.Context, start, end time.Time) (int64, error) {
	if m.salesRevenueFn == nil {
		return 0, nil
	}
	return m.salesRevenueFn(start, end)
}

func (m *mockRepo) HistoricalFlowTotals(ctx context.Context, end time.Time) (FlowTotals, error) {
	if m.historicalFn == nil {
		return FlowTotals{}, nil
	}
	return m.historicalFn(end)
}

func (m *mockRepo) TopCategories(ctx context.Context, start, end time.Time, limit int) ([]CategoryCount, error) {
	if m.topCategoriesFn == nil {
		return nil, nil
	}
	return m.topCategoriesFn(start, end, limit)
}

// Wednesday 2024-03-13; the surrounding week runs 03-10 through 03-16.
var testNow = time.Date(2024, 3, 13, 15, 0, 0, 0, shared.Location)

func newTestService(repo Repository) *Service {
	svc := NewService(repo, nil)
	svc.WithNow(func() time.Time { return testNow })
	return svc
}

func TestChartDataStaysAlignedWhenBucketsCompleteOutOfOrder(t *testing.T) {
	// Earlier buckets sleep longer, so completion order is the reverse of
	// bucket order. The chart must still line up index by index.
	repo := &mockRepo{
		flowTotalsFn: func(start, end time.Time) (FlowTotals, error) {
			time.Sleep(time.Duration(17-start.Day()) * 3 * time.Millisecond)
			return FlowTotals{Inflow: int64(start.Day()), Outflow: int64(start.Day()) * 2}, nil
		},
	}
	svc := newTestService(repo)

	points, err := svc.ChartData(context.Background(), PeriodWeek, MethodCashBasis)
	require.NoError(t, err)
	require.Len(t, points, 7)

	labels := []string{"Domingo", "Segunda", "Terça", "Quarta", "Quinta", "Sexta", "Sábado"}
	for i, p := range points {
		assert.Equal(t, labels[i], p.Label)
		assert.Equal(t, int64(10+i), p.Col1, "col_1 of bucket %d", i)
		assert.Equal(t, int64((10+i)*2), p.Col2, "col_2 of bucket %d", i)
	}
}

func TestChartDataAccrualBasisCombinesSalesAndManualEntries(t *testing.T) {
	repo := &mockRepo{
		saleTotalsFn: func(start, end time.Time) (SaleTotals, error) {
			return SaleTotals{Total: 50000, Count: 2}, nil
		},
		itemCostFn: func(start, end time.Time) (int64, error) {
			return 18000, nil
		},
		recognizedFn: func(start, end time.Time) (RecognizedTotals, error) {
			return RecognizedTotals{ManualRevenue: 7000, Expenses: 12000}, nil
		},
	}
	svc := newTestService(repo)

	points, err := svc.ChartData(context.Background(), PeriodWeek, MethodAccrualBasis)
	require.NoError(t, err)
	require.Len(t, points, 7)

	for _, p := range points {
		assert.Equal(t, int64(57000), p.Col1)
		assert.Equal(t, int64(30000), p.Col2)
	}
}

func TestChartDataTodayYieldsNoBuckets(t *testing.T) {
	repo := &mockRepo{}
	svc := newTestService(repo)

	points, err := svc.ChartData(context.Background(), PeriodToday, MethodCashBasis)
	require.NoError(t, err)
	assert.Empty(t, points)
	assert.Zero(t, repo.flowTotalsCalls)
}

func TestChartDataFailsFastOnBucketError(t *testing.T) {
	boom := errors.New("aggregate exploded")
	repo := &mockRepo{
		flowTotalsFn: func(start, end time.Time) (FlowTotals, error) {
			if start.Day() == 12 {
				return FlowTotals{}, boom
			}
			return FlowTotals{Inflow: 1}, nil
		},
	}
	svc := newTestService(repo)

	_, err := svc.ChartData(context.Background(), PeriodWeek, MethodCashBasis)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestChartDataCachesComputedCharts(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	repo := &mockRepo{
		flowTotalsFn: func(start, end time.Time) (FlowTotals, error) {
			return FlowTotals{Inflow: 100, Outflow: 40}, nil
		},
	}
	svc := NewService(repo, NewCache(client, time.Minute))
	svc.WithNow(func() time.Time { return testNow })

	first, err := svc.ChartData(context.Background(), PeriodWeek, MethodCashBasis)
	require.NoError(t, err)
	callsAfterFirst := repo.flowTotalsCalls
	assert.Equal(t, 7, callsAfterFirst)

	second, err := svc.ChartData(context.Background(), PeriodWeek, MethodCashBasis)
	require.NoError(t, err)
	assert.Equal(t, callsAfterFirst, repo.flowTotalsCalls, "second read must come from cache")
	assert.Equal(t, first, second)
}

func TestAccrualCards(t *testing.T) {
	repo := &mockRepo{
		saleTotalsFn: func(start, end time.Time) (SaleTotals, error) {
			return SaleTotals{Total: 100000, Count: 4}, nil
		},
		itemCostFn: func(start, end time.Time) (int64, error) {
			return 30000, nil
		},
		recognizedFn: func(start, end time.Time) (RecognizedTotals, error) {
			return RecognizedTotals{ManualRevenue: 20000, Expenses: 10000}, nil
		},
	}
	svc := newTestService(repo)

	window := DateRange{Start: shared.StartOfDay(testNow), End: shared.EndOfDay(testNow)}
	cards, err := svc.AccrualCards(context.Background(), window)
	require.NoError(t, err)

	assert.Equal(t, AccrualCards{
		SaleCount:   4,
		Invoicing:   120000,
		AvgTicket:   30000,
		GrossProfit: 90000,
		NetProfit:   80000,
	}, cards)
}

func TestAccrualCardsAvgTicketZeroWithoutSales(t *testing.T) {
	repo := &mockRepo{
		recognizedFn: func(start, end time.Time) (RecognizedTotals, error) {
			return RecognizedTotals{ManualRevenue: 5000}, nil
		},
	}
	svc := newTestService(repo)

	cards, err := svc.AccrualCards(context.Background(), DateRange{Start: testNow, End: testNow})
	require.NoError(t, err)
	assert.Zero(t, cards.SaleCount)
	assert.Zero(t, cards.AvgTicket)
	assert.Equal(t, int64(5000), cards.Invoicing)
}

func TestCashCardsReceiptIsWindowScoped(t *testing.T) {
	// No ledger entry inside the window: receipt is zero even with a sale
	// of 10000 on record. Once a SALES_REVENUE entry of 10000 lands inside
	// the window, receipt follows.
	var revenueInWindow int64
	repo := &mockRepo{
		salesRevenueFn: func(start, end time.Time) (int64, error) {
			return revenueInWindow, nil
		},
	}
	svc := newTestService(repo)
	window := DateRange{Start: shared.StartOfDay(testNow), End: shared.EndOfDay(testNow)}

	cards, err := svc.CashCards(context.Background(), window)
	require.NoError(t, err)
	assert.Zero(t, cards.Receipt)

	revenueInWindow = 10000
	cards, err = svc.CashCards(context.Background(), window)
	require.NoError(t, err)
	assert.Equal(t, int64(10000), cards.Receipt)
}

func TestCashCardsBalanceIsCumulative(t *testing.T) {
	repo := &mockRepo{
		flowTotalsFn: func(start, end time.Time) (FlowTotals, error) {
			return FlowTotals{Inflow: 10000, Outflow: 4000}, nil
		},
		historicalFn: func(end time.Time) (FlowTotals, error) {
			// Includes entries dated before the window start.
			return FlowTotals{Inflow: 50000, Outflow: 20000}, nil
		},
	}
	svc := newTestService(repo)

	window := DateRange{Start: shared.StartOfDay(testNow), End: shared.EndOfDay(testNow)}
	cards, err := svc.CashCards(context.Background(), window)
	require.NoError(t, err)

	assert.Equal(t, int64(6000), cards.PeriodResult)
	assert.Equal(t, int64(10000), cards.Inflow)
	assert.Equal(t, int64(4000), cards.Outflow)
	assert.Equal(t, int64(30000), cards.Balance)
}

func TestStatsCombinesCardsTopAndChart(t *testing.T) {
	repo := &mockRepo{
		flowTotalsFn: func(start, end time.Time) (FlowTotals, error) {
			return FlowTotals{Inflow: 100, Outflow: 50}, nil
		},
		historicalFn: func(end time.Time) (FlowTotals, error) {
			return FlowTotals{Inflow: 500, Outflow: 200}, nil
		},
		topCategoriesFn: func(start, end time.Time, limit int) ([]CategoryCount, error) {
			assert.Equal(t, 5, limit)
			return []CategoryCount{{Category: "Vestidos", Count: 3}}, nil
		},
	}
	svc := newTestService(repo)

	window := DateRange{Start: shared.StartOfDay(testNow), End: shared.EndOfDay(testNow)}
	stats, err := svc.Stats(context.Background(), PeriodWeek, MethodCashBasis, window)
	require.NoError(t, err)

	cards, ok := stats.Cards.(CashCards)
	require.True(t, ok)
	assert.Equal(t, int64(300), cards.Balance)
	assert.Equal(t, []CategoryCount{{Category: "Vestidos", Count: 3}}, stats.TopCategories)
	require.Len(t, stats.MetricsChart, 7)
}

func TestStatsFailsWhenAnySubComputationFails(t *testing.T) {
	boom := errors.New("top categories query failed")
	repo := &mockRepo{
		topCategoriesFn: func(start, end time.Time, limit int) ([]CategoryCount, error) {
			return nil, boom
		},
	}
	svc := newTestService(repo)

	_, err := svc.Stats(context.Background(), PeriodWeek, MethodCashBasis,
		DateRange{Start: testNow, End: testNow})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestTopCategoriesNeverReturnsNil(t *testing.T) {
	svc := newTestService(&mockRepo{})
	top, err := svc.TopCategories(context.Background(), DateRange{Start: testNow, End: testNow})
	require.NoError(t, err)
	assert.NotNil(t, top)
	assert.Empty(t, top)
}
