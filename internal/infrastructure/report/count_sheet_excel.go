// Package report genera los exportes de un conteo físico: la hoja de conteo
// XLSX que se imprime o reparte al personal de bodega, y el informe PDF con
// las diferencias una vez cerrado el conteo.
package report

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/contalibre/conteo-api/internal/application/counting"
	"github.com/contalibre/conteo-api/internal/domain/entity"
	"github.com/contalibre/conteo-api/internal/domain/repository"
)

var _ counting.CountSheetExporter = (*ExcelCountSheet)(nil)

// ExcelCountSheet implementa counting.CountSheetExporter con Excelize.
type ExcelCountSheet struct{}

func NewExcelCountSheet() *ExcelCountSheet { return &ExcelCountSheet{} }

// GenerateCountSheet arma la hoja con una fila por posición. La columna
// "Contado" queda vacía para llenarla a mano; "Esperado" no se incluye para
// que el conteo sea a ciegas.
func (e *ExcelCountSheet) GenerateCountSheet(session *entity.CountSession, positions []repository.PositionDetail) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	if err := f.SetSheetName(sheet, "Hoja de conteo"); err != nil {
		return nil, fmt.Errorf("count sheet: %w", err)
	}
	sheet = "Hoja de conteo"

	title := []interface{}{
		fmt.Sprintf("Conteo: %s (%s)", session.Name, session.EffectiveDate.Format("02/01/2006")),
	}
	if err := f.SetSheetRow(sheet, "A1", &title); err != nil {
		return nil, fmt.Errorf("count sheet: %w", err)
	}

	header := []interface{}{
		"N° Artículo",
		"Artículo",
		"Unidad",
		"Ubicación",
		"Contado",
		"Comentario",
	}
	if err := f.SetSheetRow(sheet, "A3", &header); err != nil {
		return nil, fmt.Errorf("count sheet: %w", err)
	}

	row := 4
	for _, d := range positions {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return nil, fmt.Errorf("count sheet: %w", err)
		}
		values := []interface{}{
			d.ItemNumber,
			d.ItemName,
			string(d.Unit),
			d.LocationName,
			"", // contado
			"", // comentario
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return nil, fmt.Errorf("count sheet: %w", err)
		}
		row++
	}

	_ = f.SetColWidth(sheet, "A", "A", 14)
	_ = f.SetColWidth(sheet, "B", "B", 38)
	_ = f.SetColWidth(sheet, "D", "D", 24)
	_ = f.SetColWidth(sheet, "E", "F", 16)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("count sheet: %w", err)
	}
	return buf.Bytes(), nil
}
