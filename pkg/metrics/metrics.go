// Package metrics expone los contadores Prometheus del servicio.
// Se publican en /metrics cuando METRICS_ENABLED está activo.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// MovementsAppended movimientos agregados al libro, por motivo.
	MovementsAppended = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "conteo_stock_movements_appended_total",
		Help: "Movimientos agregados al libro de existencias, por motivo.",
	}, []string{"reason"})

	// SessionsCreated conteos físicos abiertos.
	SessionsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "conteo_sessions_created_total",
		Help: "Conteos físicos creados.",
	})

	// SessionsCompleted conteos físicos cerrados con éxito.
	SessionsCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "conteo_sessions_completed_total",
		Help: "Conteos físicos completados.",
	})

	// CorrectionsCreated correcciones de inventario generadas al cerrar conteos.
	CorrectionsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "conteo_corrections_created_total",
		Help: "Movimientos de corrección generados por cierres de conteo.",
	})
)
