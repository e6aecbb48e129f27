package entity

import "time"

// Tipos de movimiento de stock.
const (
	MovementEntry          = "entry"
	MovementExitTechnician = "exit_technician"
	MovementExitAnonymous  = "exit_anonymous"
	MovementExitLoss       = "exit_loss"
)

// ValidMovementType informa si t es un tipo conocido.
func ValidMovementType(t string) bool {
	switch t {
	case MovementEntry, MovementExitTechnician, MovementExitAnonymous, MovementExitLoss:
		return true
	}
	return false
}

// IsEntry: solo "entry" suma stock; los tres tipos de salida restan.
func IsEntry(t string) bool { return t == MovementEntry }

// StockMovement evento inmutable (append-only). Quantity siempre positiva; el signo lo da Type.
type StockMovement struct {
	ID             string
	OrganizationID string
	ProductID      string
	TechnicianID   string // obligatorio solo en exit_technician
	Type           string
	Quantity       int
	Notes          string
	CreatedBy      string
	CreatedAt      time.Time
}
