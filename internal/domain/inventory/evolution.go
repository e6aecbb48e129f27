package inventory

import (
	"time"

	"github.com/jhoicas/stock-peinture-api/internal/domain/entity"
)

// DefaultEvolutionMonths ventana por defecto del gráfico de evolución.
const DefaultEvolutionMonths = 6

const monthKeyLayout = "2006-01"

// MovementDelta lo mínimo de un movimiento que necesita la reconstrucción.
type MovementDelta struct {
	Type     string
	Quantity int
	At       time.Time
}

// EvolutionPoint un punto mensual del gráfico.
type EvolutionPoint struct {
	Date       string `json:"date"` // YYYY-MM
	TotalStock int    `json:"totalStock"`
	Entries    int    `json:"entries"`
	Exits      int    `json:"exits"`
}

// WindowStart primer instante del mes más antiguo de una ventana de `months` meses que termina
// en el mes de now (incluido).
func WindowStart(now time.Time, months int) time.Time {
	if months <= 0 {
		months = DefaultEvolutionMonths
	}
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return first.AddDate(0, -(months - 1), 0)
}

// ReconstructEvolution reconstruye el stock total mes a mes caminando hacia atrás desde el
// total actual conocido:
//
//	stock[m] = stock[m+1] - entries[m+1] + exits[m+1]
//
// Los meses sin movimientos quedan en 0/0 y heredan el stock del mes siguiente.
// Solo se distingue entrada vs. salida; los tres tipos de salida se suman juntos.
// El resultado puede ser negativo si los datos son incoherentes: no se corrige.
func ReconstructEvolution(currentTotal int, movements []MovementDelta, months int, now time.Time) []EvolutionPoint {
	if months <= 0 {
		months = DefaultEvolutionMonths
	}
	loc := now.Location()
	start := WindowStart(now, months)

	points := make([]EvolutionPoint, months)
	index := make(map[string]int, months)
	for i := 0; i < months; i++ {
		key := start.AddDate(0, i, 0).Format(monthKeyLayout)
		points[i].Date = key
		index[key] = i
	}

	for _, m := range movements {
		i, ok := index[m.At.In(loc).Format(monthKeyLayout)]
		if !ok {
			continue // fuera de la ventana
		}
		if entity.IsEntry(m.Type) {
			points[i].Entries += m.Quantity
		} else {
			points[i].Exits += m.Quantity
		}
	}

	points[months-1].TotalStock = currentTotal
	for i := months - 2; i >= 0; i-- {
		next := points[i+1]
		points[i].TotalStock = next.TotalStock - next.Entries + next.Exits
	}
	return points
}
