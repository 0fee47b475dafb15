package counting

import (
	"time"

	"github.com/contalibre/conteo-api/internal/application/dto"
	"github.com/contalibre/conteo-api/internal/domain"
	"github.com/contalibre/conteo-api/internal/domain/repository"
)

// RecordCountUseCase registra la cantidad contada de una posición mientras
// la sesión dueña sigue en curso. Política last-writer-wins: una llamada
// repetida sobrescribe el conteo anterior sin detección de versiones; la
// escritura es una sola sentencia SQL, nunca un entrelazado parcial.
type RecordCountUseCase struct {
	positionRepo repository.CountPositionRepository
	sessionRepo  repository.CountSessionRepository
}

// NewRecordCountUseCase construye el caso de uso.
func NewRecordCountUseCase(
	positionRepo repository.CountPositionRepository,
	sessionRepo repository.CountSessionRepository,
) *RecordCountUseCase {
	return &RecordCountUseCase{positionRepo: positionRepo, sessionRepo: sessionRepo}
}

// Record guarda la cantidad contada (no negativa, precisión arbitraria, sin
// redondeo) y el comentario opcional. No toca el libro de existencias: las
// correcciones se generan recién al cerrar el conteo. Devuelve la posición
// con su diferencia viva.
func (uc *RecordCountUseCase) Record(positionID, companyID, actorID string, in dto.RecordCountRequest) (*dto.PositionResponse, error) {
	if in.CountedQty.IsNegative() {
		return nil, domain.ErrInvalidInput
	}

	position, err := uc.positionRepo.GetByID(positionID)
	if err != nil {
		return nil, err
	}
	if position == nil {
		return nil, domain.ErrNotFound
	}
	session, err := uc.sessionRepo.GetByID(position.SessionID)
	if err != nil {
		return nil, err
	}
	if session == nil || session.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	if !session.CanRecord() {
		return nil, domain.ErrSessionClosed
	}

	ok, err := uc.positionRepo.RecordCount(positionID, in.CountedQty, in.Comment, actorID, time.Now())
	if err != nil {
		return nil, err
	}
	if !ok {
		// La sesión se cerró entre la verificación y la escritura.
		return nil, domain.ErrSessionClosed
	}

	detail, err := uc.positionRepo.GetDetailed(positionID)
	if err != nil {
		return nil, err
	}
	if detail == nil {
		return nil, domain.ErrNotFound
	}
	resp := toPositionResponse(detail)
	return &resp, nil
}
