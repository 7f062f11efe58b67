package reports

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vitrine-app/vitrine/internal/cashflow"
	"github.com/vitrine-app/vitrine/internal/shared"
)

// Method selects the accounting convention used by chart and card metrics.
type Method string

const (
	// MethodCashBasis recognizes revenue and expense when cash moves.
	MethodCashBasis Method = "cash_basis"
	// MethodAccrualBasis recognizes revenue and expense at the sale date.
	MethodAccrualBasis Method = "accrual_basis"
)

// ParseMethod validates a method query parameter.
func ParseMethod(value string) (Method, error) {
	switch Method(value) {
	case MethodCashBasis, MethodAccrualBasis:
		return Method(value), nil
	}
	return "", fmt.Errorf("unknown method %q", value)
}

// RecognizedCategories is the transaction category set that enters accrual
// results. Installment entries stay out: their revenue is already recognized
// through the sale total.
var RecognizedCategories = []string{
	cashflow.CategoryOperationalExpense,
	cashflow.CategoryPersonnelExpense,
	cashflow.CategoryTaxExpense,
	cashflow.CategorySalesRevenue,
	cashflow.CategoryOtherIncome,
}

const topCategoriesLimit = 5

// DateRange is an inclusive day-aligned window.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// FlowTotals carries summed transaction values per flow direction, in cents.
type FlowTotals struct {
	Inflow  int64 `json:"inflow"`
	Outflow int64 `json:"outflow"`
}

// SaleTotals carries the summed sale totals and the sale count of a window.
type SaleTotals struct {
	Total int64
	Count int64
}

// RecognizedTotals splits recognized-category transactions of a window into
// manually recorded revenue (inflow without a linked sale) and expenses.
type RecognizedTotals struct {
	ManualRevenue int64
	Expenses      int64
}

// CategoryCount is one top-categories ranking entry.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

// ChartPoint is one chart entry; Col1/Col2 meaning depends on the method.
type ChartPoint struct {
	Label string `json:"label"`
	Col1  int64  `json:"col_1"`
	Col2  int64  `json:"col_2"`
}

// AccrualCards are the summary metrics under accrual accounting.
type AccrualCards struct {
	SaleCount   int64 `json:"saleCount"`
	Invoicing   int64 `json:"invoicing"`
	AvgTicket   int64 `json:"avgTicket"`
	GrossProfit int64 `json:"grossProfit"`
	NetProfit   int64 `json:"netProfit"`
}

// CashCards are the summary metrics under cash accounting. Balance is the
// running total since the beginning of records, not window-scoped.
type CashCards struct {
	Receipt      int64 `json:"receipt"`
	PeriodResult int64 `json:"periodResult"`
	Inflow       int64 `json:"inflow"`
	Outflow      int64 `json:"outflow"`
	Balance      int64 `json:"balance"`
}

// Stats is the combined reporting response.
type Stats struct {
	Cards         any             `json:"cards"`
	TopCategories []CategoryCount `json:"topCategories"`
	MetricsChart  []ChartPoint    `json:"metricsChart"`
}

// Repository exposes the read-only aggregates the reporting engine needs.
// Every call is range-scoped except HistoricalFlowTotals, which sums all
// records up to the given instant.
type Repository interface {
	FlowTotals(ctx context.Context, start, end time.Time) (FlowTotals, error)
	SaleTotals(ctx context.Context, start, end time.Time) (SaleTotals, error)
	SaleItemCostTotal(ctx context.Context, start, end time.Time) (int64, error)
	RecognizedFlowTotals(ctx context.Context, start, end time.Time) (RecognizedTotals, error)
	SalesRevenueTotal(ctx context.Context, start, end time.Time) (int64, error)
	HistoricalFlowTotals(ctx context.Context, end time.Time) (FlowTotals, error)
	TopCategories(ctx context.Context, start, end time.Time, limit int) ([]CategoryCount, error)
}

// Service computes reporting charts and cards on top of a Repository.
type Service struct {
	repo  Repository
	cache *Cache
	now   func() time.Time
}

// NewService wires a Repository with an optional chart cache.
func NewService(repo Repository, cache *Cache) *Service {
	return &Service{repo: repo, cache: cache, now: time.Now}
}

// WithNow overrides the service clock for testing.
func (s *Service) WithNow(fn func() time.Time) {
	if fn != nil {
		s.now = fn
	}
}

// Stats assembles cards, top categories and the chart for one request.
// The three computations are independent and run concurrently; any failure
// aborts the whole response.
func (s *Service) Stats(ctx context.Context, period Period, method Method, window DateRange) (*Stats, error) {
	var stats Stats

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		switch method {
		case MethodCashBasis:
			cards, err := s.CashCards(ctx, window)
			if err != nil {
				return err
			}
			stats.Cards = cards
		case MethodAccrualBasis:
			cards, err := s.AccrualCards(ctx, window)
			if err != nil {
				return err
			}
			stats.Cards = cards
		}
		return nil
	})

	g.Go(func() error {
		top, err := s.TopCategories(ctx, window)
		if err != nil {
			return err
		}
		stats.TopCategories = top
		return nil
	})

	g.Go(func() error {
		chart, err := s.ChartData(ctx, period, method)
		if err != nil {
			return err
		}
		stats.MetricsChart = chart
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &stats, nil
}

// ChartData aggregates every bucket of the period under the given method.
// Bucket computations run concurrently and land in a preallocated slice
// keyed by bucket index, so the result stays aligned with the labels no
// matter which query finishes first.
func (s *Service) ChartData(ctx context.Context, period Period, method Method) ([]ChartPoint, error) {
	if s.cache == nil {
		return s.computeChart(ctx, period, method)
	}

	day := s.now().In(shared.Location).Format("2006-01-02")
	key := fmt.Sprintf("reports:chart:%s:%s:%s", period, method, day)

	var points []ChartPoint
	err := s.cache.FetchJSON(ctx, key, &points, func(ctx context.Context) (any, error) {
		return s.computeChart(ctx, period, method)
	})
	if err != nil {
		return nil, err
	}
	return points, nil
}

func (s *Service) computeChart(ctx context.Context, period Period, method Method) ([]ChartPoint, error) {
	buckets := Buckets(period, s.now())
	points := make([]ChartPoint, len(buckets))

	g, ctx := errgroup.WithContext(ctx)
	for i, bucket := range buckets {
		g.Go(func() error {
			point, err := s.bucketPoint(ctx, bucket, method)
			if err != nil {
				return fmt.Errorf("bucket %s: %w", bucket.Label, err)
			}
			points[i] = point
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return points, nil
}

func (s *Service) bucketPoint(ctx context.Context, bucket Bucket, method Method) (ChartPoint, error) {
	point := ChartPoint{Label: bucket.Label}

	switch method {
	case MethodCashBasis:
		totals, err := s.repo.FlowTotals(ctx, bucket.Start, bucket.End)
		if err != nil {
			return point, err
		}
		point.Col1 = totals.Inflow
		point.Col2 = totals.Outflow

	case MethodAccrualBasis:
		sales, err := s.repo.SaleTotals(ctx, bucket.Start, bucket.End)
		if err != nil {
			return point, err
		}
		cost, err := s.repo.SaleItemCostTotal(ctx, bucket.Start, bucket.End)
		if err != nil {
			return point, err
		}
		recognized, err := s.repo.RecognizedFlowTotals(ctx, bucket.Start, bucket.End)
		if err != nil {
			return point, err
		}
		point.Col1 = sales.Total + recognized.ManualRevenue
		point.Col2 = cost + recognized.Expenses
	}

	return point, nil
}

// AccrualCards computes the sale-date centered summary for a window.
func (s *Service) AccrualCards(ctx context.Context, window DateRange) (AccrualCards, error) {
	var (
		sales      SaleTotals
		cost       int64
		recognized RecognizedTotals
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		sales, err = s.repo.SaleTotals(ctx, window.Start, window.End)
		return err
	})
	g.Go(func() error {
		var err error
		cost, err = s.repo.SaleItemCostTotal(ctx, window.Start, window.End)
		return err
	})
	g.Go(func() error {
		var err error
		recognized, err = s.repo.RecognizedFlowTotals(ctx, window.Start, window.End)
		return err
	})
	if err := g.Wait(); err != nil {
		return AccrualCards{}, err
	}

	invoicing := recognized.ManualRevenue + sales.Total
	var avgTicket int64
	if sales.Count > 0 {
		avgTicket = invoicing / sales.Count
	}
	grossProfit := invoicing - cost

	return AccrualCards{
		SaleCount:   sales.Count,
		Invoicing:   invoicing,
		AvgTicket:   avgTicket,
		GrossProfit: grossProfit,
		NetProfit:   grossProfit - recognized.Expenses,
	}, nil
}

// CashCards computes the cash-movement centered summary for a window.
func (s *Service) CashCards(ctx context.Context, window DateRange) (CashCards, error) {
	var (
		receipt    int64
		flows      FlowTotals
		historical FlowTotals
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		receipt, err = s.repo.SalesRevenueTotal(ctx, window.Start, window.End)
		return err
	})
	g.Go(func() error {
		var err error
		flows, err = s.repo.FlowTotals(ctx, window.Start, window.End)
		return err
	})
	g.Go(func() error {
		var err error
		historical, err = s.repo.HistoricalFlowTotals(ctx, window.End)
		return err
	})
	if err := g.Wait(); err != nil {
		return CashCards{}, err
	}

	return CashCards{
		Receipt:      receipt,
		PeriodResult: flows.Inflow - flows.Outflow,
		Inflow:       flows.Inflow,
		Outflow:      flows.Outflow,
		Balance:      historical.Inflow - historical.Outflow,
	}, nil
}

// TopCategories ranks categories by sold item count within the window.
// Ties break on category name ascending so the ranking is deterministic.
func (s *Service) TopCategories(ctx context.Context, window DateRange) ([]CategoryCount, error) {
	top, err := s.repo.TopCategories(ctx, window.Start, window.End, topCategoriesLimit)
	if err != nil {
		return nil, err
	}
	if top == nil {
		top = []CategoryCount{}
	}
	return top, nil
}
