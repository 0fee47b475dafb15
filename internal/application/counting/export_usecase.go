package counting

import (
	"fmt"

	"github.com/contalibre/conteo-api/internal/domain"
	"github.com/contalibre/conteo-api/internal/domain/entity"
	"github.com/contalibre/conteo-api/internal/domain/repository"
)

// CountSheetExporter genera la hoja de conteo (XLSX) que el personal llena
// durante el inventario físico.
type CountSheetExporter interface {
	GenerateCountSheet(session *entity.CountSession, positions []repository.PositionDetail) ([]byte, error)
}

// SessionReportGenerator genera el informe del conteo (PDF) con esperado,
// contado y diferencia por posición.
type SessionReportGenerator interface {
	GenerateSessionReport(session *entity.CountSession, positions []repository.PositionDetail) ([]byte, error)
}

// ExportUseCase exporta un conteo como hoja XLSX o informe PDF.
type ExportUseCase struct {
	sessionRepo  repository.CountSessionRepository
	positionRepo repository.CountPositionRepository
	sheet        CountSheetExporter
	report       SessionReportGenerator
}

// NewExportUseCase construye el caso de uso.
func NewExportUseCase(
	sessionRepo repository.CountSessionRepository,
	positionRepo repository.CountPositionRepository,
	sheet CountSheetExporter,
	report SessionReportGenerator,
) *ExportUseCase {
	return &ExportUseCase{
		sessionRepo:  sessionRepo,
		positionRepo: positionRepo,
		sheet:        sheet,
		report:       report,
	}
}

// CountSheetXLSX genera la hoja de conteo y devuelve el contenido con un
// nombre de archivo sugerido.
func (uc *ExportUseCase) CountSheetXLSX(sessionID, companyID string) ([]byte, string, error) {
	session, positions, err := uc.load(sessionID, companyID)
	if err != nil {
		return nil, "", err
	}
	data, err := uc.sheet.GenerateCountSheet(session, positions)
	if err != nil {
		return nil, "", err
	}
	name := fmt.Sprintf("hoja-conteo-%s.xlsx", session.EffectiveDate.Format("2006-01-02"))
	return data, name, nil
}

// SessionReportPDF genera el informe del conteo en PDF.
func (uc *ExportUseCase) SessionReportPDF(sessionID, companyID string) ([]byte, string, error) {
	session, positions, err := uc.load(sessionID, companyID)
	if err != nil {
		return nil, "", err
	}
	data, err := uc.report.GenerateSessionReport(session, positions)
	if err != nil {
		return nil, "", err
	}
	name := fmt.Sprintf("informe-conteo-%s.pdf", session.EffectiveDate.Format("2006-01-02"))
	return data, name, nil
}

func (uc *ExportUseCase) load(sessionID, companyID string) (*entity.CountSession, []repository.PositionDetail, error) {
	session, err := uc.sessionRepo.GetByID(sessionID)
	if err != nil {
		return nil, nil, err
	}
	if session == nil || session.CompanyID != companyID {
		return nil, nil, domain.ErrNotFound
	}
	positions, err := uc.positionRepo.ListBySessionDetailed(sessionID)
	if err != nil {
		return nil, nil, err
	}
	return session, positions, nil
}
