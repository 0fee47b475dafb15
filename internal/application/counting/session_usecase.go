package counting

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/contalibre/conteo-api/internal/application/dto"
	"github.com/contalibre/conteo-api/internal/domain"
	"github.com/contalibre/conteo-api/internal/domain/entity"
	"github.com/contalibre/conteo-api/internal/domain/repository"
	"github.com/contalibre/conteo-api/pkg/metrics"
)

// SessionUseCase abre, lista y cancela conteos físicos.
// La apertura congela las cantidades esperadas: artículos activos × ubicaciones
// en alcance, con el stock derivado del libro en un único snapshot transaccional.
type SessionUseCase struct {
	txRunner     TxRunner
	sessionRepo  repository.CountSessionRepository
	positionRepo repository.CountPositionRepository
	locationRepo repository.LocationRepository
}

// NewSessionUseCase construye el caso de uso.
func NewSessionUseCase(
	txRunner TxRunner,
	sessionRepo repository.CountSessionRepository,
	positionRepo repository.CountPositionRepository,
	locationRepo repository.LocationRepository,
) *SessionUseCase {
	return &SessionUseCase{
		txRunner:     txRunner,
		sessionRepo:  sessionRepo,
		positionRepo: positionRepo,
		locationRepo: locationRepo,
	}
}

// Create abre un conteo en estado in_progress y genera sus posiciones.
// LocationID nil significa todas las ubicaciones de la empresa. Devuelve la
// sesión creada con el número de posiciones generadas.
func (uc *SessionUseCase) Create(ctx context.Context, companyID, actorID string, in dto.CreateSessionRequest) (*dto.SessionResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	effectiveDate, err := parseDay(in.EffectiveDate)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}

	session := &entity.CountSession{
		ID:            uuid.New().String(),
		CompanyID:     companyID,
		Name:          name,
		EffectiveDate: effectiveDate,
		LocationID:    in.LocationID,
		Status:        entity.StatusInProgress,
		CreatedBy:     actorID,
		CreatedAt:     time.Now(),
	}

	var positionCount int
	err = uc.txRunner.RunSnapshot(ctx, func(
		itemRepo repository.ItemRepository,
		locationRepo repository.LocationRepository,
		movementRepo repository.StockMovementRepository,
		sessionRepo repository.CountSessionRepository,
		positionRepo repository.CountPositionRepository,
	) error {
		locations, err := resolveScope(locationRepo, companyID, in.LocationID)
		if err != nil {
			return err
		}
		items, err := itemRepo.ListActive(companyID)
		if err != nil {
			return err
		}
		onHand, err := movementRepo.OnHandAll(companyID, in.LocationID)
		if err != nil {
			return err
		}

		if err := sessionRepo.Create(session); err != nil {
			return err
		}

		positions := make([]*entity.CountPosition, 0, len(items)*len(locations))
		for _, item := range items {
			for _, loc := range locations {
				positions = append(positions, &entity.CountPosition{
					ID:          uuid.New().String(),
					SessionID:   session.ID,
					ItemID:      item.ID,
					LocationID:  loc.ID,
					ExpectedQty: onHand[repository.PairKey{ItemID: item.ID, LocationID: loc.ID}],
					CreatedAt:   session.CreatedAt,
				})
			}
		}
		if err := positionRepo.BulkCreate(positions); err != nil {
			return err
		}
		positionCount = len(positions)
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.SessionsCreated.Inc()
	resp := toSessionResponse(session)
	resp.PositionCount = positionCount
	return resp, nil
}

// resolveScope devuelve la ubicación indicada (validando empresa) o todas
// las de la empresa cuando locationID es nil.
func resolveScope(locationRepo repository.LocationRepository, companyID string, locationID *string) ([]*entity.Location, error) {
	if locationID == nil {
		return locationRepo.ListByCompany(companyID)
	}
	loc, err := locationRepo.GetByID(*locationID)
	if err != nil {
		return nil, err
	}
	if loc == nil || loc.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	return []*entity.Location{loc}, nil
}

// List devuelve los conteos de la empresa, opcionalmente filtrados por estado.
func (uc *SessionUseCase) List(companyID string, in dto.SessionListRequest) ([]dto.SessionResponse, error) {
	in.Normalize()
	f := repository.SessionFilter{Limit: in.Limit, Offset: in.Offset}
	if in.Status != "" {
		status := entity.SessionStatus(in.Status)
		if !status.Valid() {
			return nil, domain.ErrInvalidInput
		}
		f.Status = &status
	}
	sessions, err := uc.sessionRepo.List(companyID, f)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SessionResponse, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, *toSessionResponse(s))
	}
	return out, nil
}

// Cancel cancela un conteo no terminal. Las posiciones se conservan para
// auditoría pero dejan de ser contables.
func (uc *SessionUseCase) Cancel(sessionID, companyID string) (*dto.SessionResponse, error) {
	session, err := uc.sessionRepo.GetByID(sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil || session.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	if !session.CanCancel() {
		return nil, domain.ErrInvalidState
	}
	ok, err := uc.sessionRepo.MarkCancelled(sessionID)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Otro actor cerró o canceló la sesión entre la lectura y el CAS.
		return nil, domain.ErrInvalidState
	}
	session.Status = entity.StatusCancelled
	return toSessionResponse(session), nil
}

// Positions devuelve las posiciones del conteo con datos de catálogo y la
// diferencia viva de las ya contadas.
func (uc *SessionUseCase) Positions(sessionID, companyID string) ([]dto.PositionResponse, error) {
	session, err := uc.sessionRepo.GetByID(sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil || session.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	details, err := uc.positionRepo.ListBySessionDetailed(sessionID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PositionResponse, 0, len(details))
	for i := range details {
		out = append(out, toPositionResponse(&details[i]))
	}
	return out, nil
}

// parseDay acepta YYYY-MM-DD o RFC 3339 y devuelve la fecha.
func parseDay(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

func toSessionResponse(s *entity.CountSession) *dto.SessionResponse {
	return &dto.SessionResponse{
		ID:            s.ID,
		Name:          s.Name,
		EffectiveDate: s.EffectiveDate,
		LocationID:    s.LocationID,
		Status:        string(s.Status),
		CreatedBy:     s.CreatedBy,
		CreatedAt:     s.CreatedAt,
		CompletedBy:   s.CompletedBy,
		CompletedAt:   s.CompletedAt,
	}
}

func toPositionResponse(d *repository.PositionDetail) dto.PositionResponse {
	p := d.Position
	resp := dto.PositionResponse{
		ID:           p.ID,
		SessionID:    p.SessionID,
		ItemID:       p.ItemID,
		ItemNumber:   d.ItemNumber,
		ItemName:     d.ItemName,
		Unit:         string(d.Unit),
		LocationID:   p.LocationID,
		LocationName: d.LocationName,
		ExpectedQty:  p.ExpectedQty,
		CountedQty:   p.CountedQty,
		CountedBy:    p.CountedBy,
		CountedAt:    p.CountedAt,
		Comment:      p.Comment,
	}
	if diff, ok := p.Difference(); ok {
		resp.Difference = &diff
	}
	return resp
}
