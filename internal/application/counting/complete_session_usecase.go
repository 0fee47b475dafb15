package counting

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/contalibre/conteo-api/internal/application/dto"
	"github.com/contalibre/conteo-api/internal/domain"
	"github.com/contalibre/conteo-api/internal/domain/entity"
	"github.com/contalibre/conteo-api/internal/domain/repository"
	"github.com/contalibre/conteo-api/pkg/metrics"
)

// CompleteSessionUseCase cierra un conteo físico: genera exactamente una
// corrección por posición contada con diferencia distinta de cero y marca la
// sesión como completada, todo dentro de una transacción. Las posiciones sin
// contar se confirman implícitamente en su cantidad esperada y no generan
// movimiento alguno.
type CompleteSessionUseCase struct {
	txRunner    TxRunner
	sessionRepo repository.CountSessionRepository
}

// NewCompleteSessionUseCase construye el caso de uso.
func NewCompleteSessionUseCase(txRunner TxRunner, sessionRepo repository.CountSessionRepository) *CompleteSessionUseCase {
	return &CompleteSessionUseCase{txRunner: txRunner, sessionRepo: sessionRepo}
}

// Complete cierra la sesión y devuelve cuántas correcciones se generaron.
//
// La transición de estado es un compare-and-swap sobre status = in_progress:
// si otro cierre concurrente gana la carrera, el CAS no afecta filas, la
// transacción se revierte (ninguna corrección queda visible) y se devuelve
// domain.ErrConflict, reintentable sin efectos. Un reintento sobre una sesión
// ya completada falla con domain.ErrInvalidState sin duplicar correcciones.
func (uc *CompleteSessionUseCase) Complete(ctx context.Context, sessionID, companyID, actorID string) (*dto.CompleteSessionResponse, error) {
	session, err := uc.sessionRepo.GetByID(sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil || session.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	if session.Status != entity.StatusInProgress {
		return nil, domain.ErrInvalidState
	}

	completedAt := time.Now()
	corrections := 0
	err = uc.txRunner.RunCompletion(ctx, func(
		movementRepo repository.StockMovementRepository,
		sessionRepo repository.CountSessionRepository,
		positionRepo repository.CountPositionRepository,
	) error {
		positions, err := positionRepo.ListBySession(sessionID)
		if err != nil {
			return err
		}
		for _, pos := range positions {
			diff, counted := pos.Difference()
			if !counted || diff.IsZero() {
				continue
			}
			sourceID := sessionID
			if err := movementRepo.Append(&entity.StockMovement{
				ID:              uuid.New().String(),
				CompanyID:       companyID,
				ItemID:          pos.ItemID,
				LocationID:      pos.LocationID,
				QuantityDelta:   diff,
				Reason:          entity.ReasonCountCorrection,
				SourceSessionID: &sourceID,
				Note:            fmt.Sprintf("Corrección por conteo físico: %s", session.Name),
				CreatedAt:       completedAt,
				CreatedBy:       actorID,
			}); err != nil {
				return err
			}
			corrections++
		}

		ok, err := sessionRepo.MarkCompleted(sessionID, actorID, completedAt)
		if err != nil {
			return err
		}
		if !ok {
			// CAS perdido: otro cierre ganó; el rollback descarta las correcciones.
			return domain.ErrConflict
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.SessionsCompleted.Inc()
	metrics.CorrectionsCreated.Add(float64(corrections))

	session.Status = entity.StatusCompleted
	session.CompletedBy = &actorID
	session.CompletedAt = &completedAt
	return &dto.CompleteSessionResponse{
		Session:            *toSessionResponse(session),
		CorrectionsCreated: corrections,
	}, nil
}
