package stock

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/contalibre/conteo-api/internal/application/dto"
	"github.com/contalibre/conteo-api/internal/domain"
	"github.com/contalibre/conteo-api/internal/domain/entity"
	"github.com/contalibre/conteo-api/internal/domain/repository"
	"github.com/contalibre/conteo-api/pkg/metrics"
)

// LedgerUseCase opera el libro de existencias: entradas por compra, salidas
// por venta, ajustes manuales, traslados y consultas de stock derivado.
// El stock actual nunca se almacena como saldo: siempre es la suma de deltas.
type LedgerUseCase struct {
	txRunner     TxRunner
	movementRepo repository.StockMovementRepository
	itemRepo     repository.ItemRepository
	locationRepo repository.LocationRepository
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(
	txRunner TxRunner,
	movementRepo repository.StockMovementRepository,
	itemRepo repository.ItemRepository,
	locationRepo repository.LocationRepository,
) *LedgerUseCase {
	return &LedgerUseCase{
		txRunner:     txRunner,
		movementRepo: movementRepo,
		itemRepo:     itemRepo,
		locationRepo: locationRepo,
	}
}

// Append agrega un movimiento al libro. Delta cero se rechaza; un stock
// resultante negativo se permite y se muestra, no se rechaza (el dominio
// tolera el descuadre hasta el próximo conteo físico). El motivo
// count_correction está reservado para el cierre de conteos.
func (uc *LedgerUseCase) Append(_ context.Context, companyID, actorID string, in dto.AppendMovementRequest) (*dto.MovementResponse, error) {
	reason := entity.MovementReason(in.Reason)
	if !reason.Valid() || reason == entity.ReasonCountCorrection {
		return nil, domain.ErrInvalidInput
	}
	if in.QuantityDelta.IsZero() {
		return nil, domain.ErrInvalidInput
	}
	if err := uc.checkItemLocation(companyID, in.ItemID, in.LocationID); err != nil {
		return nil, err
	}

	movement := &entity.StockMovement{
		ID:            uuid.New().String(),
		CompanyID:     companyID,
		ItemID:        in.ItemID,
		LocationID:    in.LocationID,
		QuantityDelta: in.QuantityDelta,
		Reason:        reason,
		Note:          in.Note,
		CreatedAt:     time.Now(),
		CreatedBy:     actorID,
	}
	if err := uc.movementRepo.Append(movement); err != nil {
		return nil, err
	}
	metrics.MovementsAppended.WithLabelValues(string(reason)).Inc()
	return toMovementResponse(movement), nil
}

// Transfer traslada cantidad entre dos ubicaciones: una salida y una entrada
// manuales en la misma transacción. Origen y destino deben ser distintos y la
// cantidad positiva.
func (uc *LedgerUseCase) Transfer(ctx context.Context, companyID, actorID string, in dto.TransferRequest) error {
	if !in.Quantity.IsPositive() {
		return domain.ErrInvalidInput
	}
	if in.FromLocationID == in.ToLocationID {
		return domain.ErrInvalidInput
	}
	if err := uc.checkItemLocation(companyID, in.ItemID, in.FromLocationID); err != nil {
		return err
	}
	if err := uc.checkLocation(companyID, in.ToLocationID); err != nil {
		return err
	}

	now := time.Now()
	note := in.Note
	if note == "" {
		note = "Traslado entre ubicaciones"
	}
	err := uc.txRunner.Run(ctx, func(movementRepo repository.StockMovementRepository) error {
		out := &entity.StockMovement{
			ID:            uuid.New().String(),
			CompanyID:     companyID,
			ItemID:        in.ItemID,
			LocationID:    in.FromLocationID,
			QuantityDelta: in.Quantity.Neg(),
			Reason:        entity.ReasonManual,
			Note:          note,
			CreatedAt:     now,
			CreatedBy:     actorID,
		}
		if err := movementRepo.Append(out); err != nil {
			return err
		}
		entry := &entity.StockMovement{
			ID:            uuid.New().String(),
			CompanyID:     companyID,
			ItemID:        in.ItemID,
			LocationID:    in.ToLocationID,
			QuantityDelta: in.Quantity,
			Reason:        entity.ReasonManual,
			Note:          note,
			CreatedAt:     now,
			CreatedBy:     actorID,
		}
		return movementRepo.Append(entry)
	})
	if err != nil {
		return err
	}
	metrics.MovementsAppended.WithLabelValues(string(entity.ReasonManual)).Add(2)
	return nil
}

// List devuelve el historial de movimientos con filtros.
func (uc *LedgerUseCase) List(companyID string, in dto.MovementListRequest) ([]dto.MovementResponse, error) {
	in.Normalize()
	f := repository.MovementFilter{
		ItemID:     in.ItemID,
		LocationID: in.LocationID,
		Limit:      in.Limit,
		Offset:     in.Offset,
	}
	if in.Reason != "" {
		reason := entity.MovementReason(in.Reason)
		if !reason.Valid() {
			return nil, domain.ErrInvalidInput
		}
		f.Reason = &reason
	}
	var err error
	if f.From, err = parseTimeFilter(in.From); err != nil {
		return nil, domain.ErrInvalidInput
	}
	if f.To, err = parseTimeFilter(in.To); err != nil {
		return nil, domain.ErrInvalidInput
	}

	movements, err := uc.movementRepo.List(companyID, f)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MovementResponse, 0, len(movements))
	for _, m := range movements {
		out = append(out, *toMovementResponse(m))
	}
	return out, nil
}

// Levels devuelve el stock derivado por par (artículo, ubicación).
func (uc *LedgerUseCase) Levels(companyID string, locationID *string, category *string) ([]dto.StockLevelResponse, error) {
	var cat *entity.ItemCategory
	if category != nil && *category != "" {
		c := entity.ItemCategory(*category)
		if !c.Valid() {
			return nil, domain.ErrInvalidInput
		}
		cat = &c
	}
	rows, err := uc.movementRepo.Levels(companyID, locationID, cat)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockLevelResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.StockLevelResponse{
			ItemID:       r.ItemID,
			ItemNumber:   r.ItemNumber,
			ItemName:     r.ItemName,
			Unit:         string(r.Unit),
			Category:     string(r.Category),
			LocationID:   r.LocationID,
			LocationName: r.LocationName,
			OnHand:       r.OnHand,
		})
	}
	return out, nil
}

func (uc *LedgerUseCase) checkItemLocation(companyID, itemID, locationID string) error {
	item, err := uc.itemRepo.GetByID(itemID)
	if err != nil {
		return err
	}
	if item == nil || item.CompanyID != companyID {
		return domain.ErrNotFound
	}
	return uc.checkLocation(companyID, locationID)
}

func (uc *LedgerUseCase) checkLocation(companyID, locationID string) error {
	loc, err := uc.locationRepo.GetByID(locationID)
	if err != nil {
		return err
	}
	if loc == nil || loc.CompanyID != companyID {
		return domain.ErrNotFound
	}
	return nil
}

// parseTimeFilter acepta RFC 3339 o YYYY-MM-DD; vacío devuelve nil.
func parseTimeFilter(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func toMovementResponse(m *entity.StockMovement) *dto.MovementResponse {
	return &dto.MovementResponse{
		ID:              m.ID,
		ItemID:          m.ItemID,
		LocationID:      m.LocationID,
		QuantityDelta:   m.QuantityDelta,
		Reason:          string(m.Reason),
		SourceSessionID: m.SourceSessionID,
		Note:            m.Note,
		CreatedAt:       m.CreatedAt,
		CreatedBy:       m.CreatedBy,
	}
}
