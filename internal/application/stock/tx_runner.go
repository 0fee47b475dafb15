package stock

import (
	"context"

	"github.com/contalibre/conteo-api/internal/domain/repository"
)

// TxRunner ejecuta un callback con un repositorio de movimientos atado a una
// transacción. El libro lo usa solo para traslados (dos appends todo-o-nada).
type TxRunner interface {
	Run(ctx context.Context, fn func(movementRepo repository.StockMovementRepository) error) error
}
