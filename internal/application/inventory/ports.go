package inventory

import (
	"context"

	"github.com/jhoicas/stock-peinture-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza atomicidad para el motor de movimientos (stock del producto, movimiento e inventario
// del técnico se confirman juntos o no se confirman).
type TxRunner interface {
	Run(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		movementRepo repository.StockMovementRepository,
		techInventoryRepo repository.TechnicianInventoryRepository,
	) error) error
}
