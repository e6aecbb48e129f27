package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-peinture-api/internal/domain/entity"
)

// ProductStats agregados del catálogo de una organización.
type ProductStats struct {
	Total      int             `json:"total"`
	TotalStock int             `json:"totalStock"`
	TotalValue decimal.Decimal `json:"totalValue"`
	LowStock   int             `json:"lowStock"`
	OutOfStock int             `json:"outOfStock"`
}

// ComputeProductStats:
//   - TotalValue = Σ stock_current * (price ?? 0)
//   - LowStock   = productos con 0 < stock_current <= stock_min
//   - OutOfStock = productos con stock_current == 0
//
// Los productos archivados se ignoran.
func ComputeProductStats(products []*entity.Product) ProductStats {
	s := ProductStats{TotalValue: decimal.Zero}
	for _, p := range products {
		if p == nil || p.IsArchived() {
			continue
		}
		s.Total++
		s.TotalStock += p.StockCurrent
		if p.Price != nil {
			s.TotalValue = s.TotalValue.Add(p.Price.Mul(decimal.NewFromInt(int64(p.StockCurrent))))
		}
		switch {
		case p.StockCurrent == 0:
			s.OutOfStock++
		case p.StockCurrent > 0 && p.StockCurrent <= p.StockMin:
			s.LowStock++
		}
	}
	return s
}
