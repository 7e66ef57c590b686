package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"inventrack/internal/core/apperror"
	"inventrack/internal/core/entity"
	"inventrack/internal/core/tx"
	"inventrack/internal/core/types"
)

// BestSellerWindowDays is the window of the dashboard best seller.
const BestSellerWindowDays = 7

// Service provides analytics over the ledger.
type Service struct {
	reader LedgerReader
	txm    tx.ReadOnlyManager
	clock  func() time.Time
}

// NewService creates a new analytics service.
func NewService(reader LedgerReader, txm tx.ReadOnlyManager) *Service {
	return &Service{
		reader: reader,
		txm:    txm,
		clock:  func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the time source.
func (s *Service) WithClock(clock func() time.Time) *Service {
	s.clock = clock
	return s
}

// TotalRevenue returns the sum of quantity * price over all sales.
func (s *Service) TotalRevenue(ctx context.Context) (types.Money, error) {
	var total types.Money
	err := s.txm.ReadOnly(ctx, func(ctx context.Context) error {
		sales, err := s.reader.ListSalesSince(ctx, nil)
		if err != nil {
			return fmt.Errorf("list sales: %w", err)
		}
		total = revenue(sales)
		return nil
	})
	return total, err
}

// TotalPurchaseCost returns the sum of quantity * price over all purchases.
func (s *Service) TotalPurchaseCost(ctx context.Context) (types.Money, error) {
	var total types.Money
	err := s.txm.ReadOnly(ctx, func(ctx context.Context) error {
		purchases, err := s.reader.ListAllPurchases(ctx)
		if err != nil {
			return fmt.Errorf("list purchases: %w", err)
		}
		total = purchaseCost(purchases)
		return nil
	})
	return total, err
}

// TotalIncome returns revenue minus purchase cost.
func (s *Service) TotalIncome(ctx context.Context) (types.Money, error) {
	var total types.Money
	err := s.txm.ReadOnly(ctx, func(ctx context.Context) error {
		sales, err := s.reader.ListSalesSince(ctx, nil)
		if err != nil {
			return fmt.Errorf("list sales: %w", err)
		}
		purchases, err := s.reader.ListAllPurchases(ctx)
		if err != nil {
			return fmt.Errorf("list purchases: %w", err)
		}
		total = revenue(sales).Sub(purchaseCost(purchases))
		return nil
	})
	return total, err
}

// TotalSaleReturns returns the number of units returned.
func (s *Service) TotalSaleReturns(ctx context.Context) (int, error) {
	var total int
	err := s.txm.ReadOnly(ctx, func(ctx context.Context) error {
		returns, err := s.reader.ListAllSaleReturns(ctx)
		if err != nil {
			return fmt.Errorf("list sale returns: %w", err)
		}
		total = returnedUnits(returns)
		return nil
	})
	return total, err
}

// ProductSalesRanking returns units sold per product, best first.
// Products without sales are omitted; ties go to the lower product id.
func (s *Service) ProductSalesRanking(ctx context.Context) ([]ProductSales, error) {
	var ranking []ProductSales
	err := s.txm.ReadOnly(ctx, func(ctx context.Context) error {
		var err error
		ranking, err = s.rank(ctx, nil)
		return err
	})
	return ranking, err
}

// BestSellerInWindow returns the top product by units sold over the last days.
func (s *Service) BestSellerInWindow(ctx context.Context, days int) (*ProductSales, error) {
	if days <= 0 {
		return nil, apperror.NewValidation("days must be positive").
			WithDetail("field", "days").
			WithDetail("value", days)
	}

	var best *ProductSales
	err := s.txm.ReadOnly(ctx, func(ctx context.Context) error {
		var err error
		best, err = s.bestSince(ctx, days)
		return err
	})
	if err != nil {
		return nil, err
	}
	if best == nil {
		return nil, apperror.NewNotFound("sales in window", days).
			WithDetail("days", days)
	}
	return best, nil
}

// DailyRevenueSeries sums sale unit prices per UTC day, oldest first.
func (s *Service) DailyRevenueSeries(ctx context.Context) ([]DailyPoint, error) {
	return s.series(ctx, func(sale entity.Sale) types.Money { return sale.Price })
}

// DailyProfitSeries sums sale line totals per UTC day, oldest first.
func (s *Service) DailyProfitSeries(ctx context.Context) ([]DailyPoint, error) {
	return s.series(ctx, func(sale entity.Sale) types.Money { return sale.Total() })
}

// Summary returns every total in one read-only unit of work.
func (s *Service) Summary(ctx context.Context) (*Summary, error) {
	var out Summary
	err := s.txm.ReadOnly(ctx, func(ctx context.Context) error {
		sales, err := s.reader.ListSalesSince(ctx, nil)
		if err != nil {
			return fmt.Errorf("list sales: %w", err)
		}
		purchases, err := s.reader.ListAllPurchases(ctx)
		if err != nil {
			return fmt.Errorf("list purchases: %w", err)
		}
		returns, err := s.reader.ListAllSaleReturns(ctx)
		if err != nil {
			return fmt.Errorf("list sale returns: %w", err)
		}

		out.TotalRevenue = revenue(sales)
		out.TotalPurchase = purchaseCost(purchases)
		out.TotalIncome = out.TotalRevenue.Sub(out.TotalPurchase)
		out.TotalSaleReturns = returnedUnits(returns)

		out.BestSeller, err = s.bestSince(ctx, BestSellerWindowDays)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Service) bestSince(ctx context.Context, days int) (*ProductSales, error) {
	since := s.clock().Add(-time.Duration(days) * 24 * time.Hour)
	ranking, err := s.rank(ctx, &since)
	if err != nil {
		return nil, err
	}
	if len(ranking) == 0 {
		return nil, nil
	}
	return &ranking[0], nil
}

func (s *Service) rank(ctx context.Context, since *time.Time) ([]ProductSales, error) {
	sales, err := s.reader.ListSalesSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	products, err := s.reader.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	names := make(map[int64]string, len(products))
	for _, p := range products {
		names[p.ID] = p.Name
	}

	totals := make(map[int64]int)
	for _, sale := range sales {
		totals[sale.ProductID] += sale.Quantity
	}

	ranking := make([]ProductSales, 0, len(totals))
	for productID, qty := range totals {
		ranking = append(ranking, ProductSales{
			ProductID:   productID,
			ProductName: names[productID],
			Quantity:    qty,
		})
	}
	sort.Slice(ranking, func(i, j int) bool {
		if ranking[i].Quantity != ranking[j].Quantity {
			return ranking[i].Quantity > ranking[j].Quantity
		}
		return ranking[i].ProductID < ranking[j].ProductID
	})
	return ranking, nil
}

func (s *Service) series(ctx context.Context, amount func(entity.Sale) types.Money) ([]DailyPoint, error) {
	var points []DailyPoint
	err := s.txm.ReadOnly(ctx, func(ctx context.Context) error {
		sales, err := s.reader.ListSalesSince(ctx, nil)
		if err != nil {
			return fmt.Errorf("list sales: %w", err)
		}

		byDay := make(map[string]types.Money)
		for _, sale := range sales {
			day := sale.SaleDate.UTC().Format(time.DateOnly)
			byDay[day] = byDay[day].Add(amount(sale))
		}

		points = make([]DailyPoint, 0, len(byDay))
		for day, total := range byDay {
			points = append(points, DailyPoint{Date: day, Amount: total})
		}
		sort.Slice(points, func(i, j int) bool { return points[i].Date < points[j].Date })
		return nil
	})
	return points, err
}

func revenue(sales []entity.Sale) types.Money {
	total := types.Zero()
	for i := range sales {
		total = total.Add(sales[i].Total())
	}
	return total
}

func purchaseCost(purchases []entity.Purchase) types.Money {
	total := types.Zero()
	for i := range purchases {
		total = total.Add(purchases[i].Total())
	}
	return total
}

func returnedUnits(returns []entity.SaleReturn) int {
	total := 0
	for _, r := range returns {
		total += r.Quantity
	}
	return total
}
