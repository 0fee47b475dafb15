package stock

import (
	"github.com/contalibre/conteo-api/internal/application/dto"
	"github.com/contalibre/conteo-api/internal/domain/repository"
)

// LowStockUseCase deriva los pares (artículo, ubicación) cuyo stock actual
// está por debajo del mínimo configurado del artículo. Lectura pura, sin
// efectos; apta para refresco periódico.
type LowStockUseCase struct {
	movementRepo repository.StockMovementRepository
}

// NewLowStockUseCase construye el caso de uso.
func NewLowStockUseCase(movementRepo repository.StockMovementRepository) *LowStockUseCase {
	return &LowStockUseCase{movementRepo: movementRepo}
}

// List devuelve los pares bajo mínimo ordenados por faltante descendente
// (empates por número de artículo). El valor estimado de reposición es
// faltante × precio de compra del artículo.
func (uc *LowStockUseCase) List(companyID string, limit int) ([]dto.LowStockEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := uc.movementRepo.LowStock(companyID, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LowStockEntry, 0, len(rows))
	for _, r := range rows {
		shortfall := r.MinStock.Sub(r.OnHand)
		out = append(out, dto.LowStockEntry{
			ItemID:                r.ItemID,
			ItemNumber:            r.ItemNumber,
			ItemName:              r.ItemName,
			Unit:                  string(r.Unit),
			LocationID:            r.LocationID,
			LocationName:          r.LocationName,
			OnHand:                r.OnHand,
			MinStock:              r.MinStock,
			Shortfall:             shortfall,
			EstimatedReorderValue: shortfall.Mul(r.PurchasePrice),
		})
	}
	return out, nil
}
