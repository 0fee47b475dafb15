package counting

import (
	"context"

	"github.com/contalibre/conteo-api/internal/domain/repository"
)

// TxRunner ejecuta callbacks dentro de una transacción de BD, pasando
// repositorios atados a esa transacción. Es el único punto del módulo de
// conteos donde se exige atomicidad real.
type TxRunner interface {
	// RunSnapshot corre fn bajo aislamiento REPEATABLE READ: la lectura de
	// stock y la creación de todas las posiciones ven un único punto
	// consistente del libro (un append concurrente se refleja en todas las
	// cantidades esperadas o en ninguna).
	RunSnapshot(ctx context.Context, fn func(
		itemRepo repository.ItemRepository,
		locationRepo repository.LocationRepository,
		movementRepo repository.StockMovementRepository,
		sessionRepo repository.CountSessionRepository,
		positionRepo repository.CountPositionRepository,
	) error) error

	// RunCompletion corre fn en una transacción normal; el cierre usa
	// compare-and-swap sobre el estado de la sesión para que las correcciones
	// y la transición a completado sean todo-o-nada.
	RunCompletion(ctx context.Context, fn func(
		movementRepo repository.StockMovementRepository,
		sessionRepo repository.CountSessionRepository,
		positionRepo repository.CountPositionRepository,
	) error) error
}
