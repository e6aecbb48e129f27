package inventory

import "math"

// Bandas de color del indicador de salud de stock.
const (
	BandRed    = "red"
	BandOrange = "orange"
	BandGreen  = "green"
)

// StockScore porcentaje de stock_max actualmente en stock. max <= 0 devuelve 0.
// No se acota: un producto por encima de su máximo puede superar 100.
func StockScore(current, max int) int {
	if max <= 0 {
		return 0
	}
	return int(math.Round(float64(current) / float64(max) * 100))
}

// ScoreBand traduce un score a su banda de color (<30 rojo, <60 naranja, resto verde).
func ScoreBand(score int) string {
	switch {
	case score < 30:
		return BandRed
	case score < 60:
		return BandOrange
	default:
		return BandGreen
	}
}

// Direcciones de tendencia.
const (
	TrendUp     = "up"
	TrendDown   = "down"
	TrendStable = "stable"
)

// TrendResult variación entre dos períodos.
type TrendResult struct {
	Direction  string `json:"direction"`
	Percentage int    `json:"percentage"`
}

// Trend compara current con previous. Con previous == 0 no hay base para un porcentaje:
// cualquier valor positivo cuenta como +100 %, cero como estable.
func Trend(current, previous float64) TrendResult {
	if previous == 0 {
		switch {
		case current > 0:
			return TrendResult{Direction: TrendUp, Percentage: 100}
		case current < 0:
			return TrendResult{Direction: TrendDown, Percentage: 100}
		default:
			return TrendResult{Direction: TrendStable, Percentage: 0}
		}
	}
	pct := int(math.Round(math.Abs(current-previous) / math.Abs(previous) * 100))
	switch {
	case current > previous:
		return TrendResult{Direction: TrendUp, Percentage: pct}
	case current < previous:
		return TrendResult{Direction: TrendDown, Percentage: pct}
	default:
		return TrendResult{Direction: TrendStable, Percentage: 0}
	}
}
