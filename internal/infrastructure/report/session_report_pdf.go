package report

import (
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/contalibre/conteo-api/internal/application/counting"
	"github.com/contalibre/conteo-api/internal/domain/entity"
	"github.com/contalibre/conteo-api/internal/domain/repository"
)

var (
	colorPrimary  = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray     = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorNegative = &props.Color{Red: 180, Green: 30, Blue: 30}
)

var _ counting.SessionReportGenerator = (*MarotoSessionReport)(nil)

// MarotoSessionReport implementa counting.SessionReportGenerator usando
// Maroto v2: una fila por posición con esperado, contado y diferencia, y un
// resumen al pie.
type MarotoSessionReport struct{}

func NewMarotoSessionReport() *MarotoSessionReport { return &MarotoSessionReport{} }

// GenerateSessionReport genera el PDF y devuelve sus bytes.
func (g *MarotoSessionReport) GenerateSessionReport(session *entity.CountSession, positions []repository.PositionDetail) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Informe de conteo físico", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(reportHeaderRow(session))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(positionsHeaderRow())
	for _, r := range positionRows(positions) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(summaryRow(positions))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("session report: %w", err)
	}
	return doc.GetBytes(), nil
}

// reportHeaderRow: nombre del conteo (izq) y fecha + estado (der).
func reportHeaderRow(session *entity.CountSession) core.Row {
	return row.New(16).Add(
		col.New(7).Add(
			text.New("INFORME DE CONTEO FÍSICO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(session.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Top: 6,
			}),
		),
		col.New(5).Add(
			text.New("Fecha: "+session.EffectiveDate.Format("02/01/2006"), props.Text{
				Size: 9, Align: align.Right, Top: 2, Color: colorGray,
			}),
			text.New("Estado: "+string(session.Status), props.Text{
				Size: 9, Align: align.Right, Top: 8, Color: colorGray,
			}),
		),
	)
}

func positionsHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("N° Art.", 2, align.Left),
		h("Artículo", 4, align.Left),
		h("Ubicación", 2, align.Left),
		h("Esperado", 1, align.Right),
		h("Contado", 1, align.Right),
		h("Diferencia", 2, align.Right),
	)
}

// positionRows: una fila por posición. Las no contadas muestran "—" y las
// diferencias negativas van en rojo.
func positionRows(positions []repository.PositionDetail) []core.Row {
	result := make([]core.Row, 0, len(positions))
	for _, d := range positions {
		p := d.Position
		counted, diffText := "—", "—"
		diffColor := colorGray
		if diff, ok := p.Difference(); ok {
			counted = p.CountedQty.String()
			diffText = diff.String()
			if diff.IsNegative() {
				diffColor = colorNegative
			}
		}
		result = append(result, row.New(6).Add(
			col.New(2).Add(text.New(d.ItemNumber, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(4).Add(text.New(d.ItemName, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(d.LocationName, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(1).Add(text.New(p.ExpectedQty.String(), props.Text{
				Size: 8, Align: align.Right, Top: 1, Right: 1,
			})),
			col.New(1).Add(text.New(counted, props.Text{
				Size: 8, Align: align.Right, Top: 1, Right: 1,
			})),
			col.New(2).Add(text.New(diffText, props.Text{
				Size: 8, Align: align.Right, Top: 1, Right: 1, Color: diffColor,
			})),
		))
	}
	return result
}

// summaryRow: posiciones contadas, posiciones con diferencia y suma neta.
func summaryRow(positions []repository.PositionDetail) core.Row {
	counted, withDiff := 0, 0
	net := decimal.Zero
	for _, d := range positions {
		diff, ok := d.Position.Difference()
		if !ok {
			continue
		}
		counted++
		if !diff.IsZero() {
			withDiff++
			net = net.Add(diff)
		}
	}
	summary := fmt.Sprintf("Posiciones: %d   |   Contadas: %d   |   Con diferencia: %d   |   Diferencia neta: %s",
		len(positions), counted, withDiff, net.String())

	return row.New(10).Add(
		col.New(12).Add(text.New(summary, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 3, Right: 1,
		})),
	)
}
