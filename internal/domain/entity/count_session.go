package entity

import "time"

// SessionStatus estado de un conteo físico (máquina de estados explícita).
// Transiciones permitidas: planned→in_progress, planned→cancelled,
// in_progress→completed, in_progress→cancelled. Los estados terminales
// son inmutables.
type SessionStatus string

const (
	StatusPlanned    SessionStatus = "planned"
	StatusInProgress SessionStatus = "in_progress"
	StatusCompleted  SessionStatus = "completed"
	StatusCancelled  SessionStatus = "cancelled"
)

// Valid indica si el estado es uno de los conocidos.
func (s SessionStatus) Valid() bool {
	switch s {
	case StatusPlanned, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Terminal indica si el estado no admite más transiciones.
func (s SessionStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CountSession representa un conteo físico de existencias sobre un alcance
// de artículos/ubicaciones con fecha efectiva fija.
type CountSession struct {
	ID            string
	CompanyID     string
	Name          string
	EffectiveDate time.Time
	LocationID    *string // nil = todas las ubicaciones de la empresa
	Status        SessionStatus
	CreatedBy     string
	CreatedAt     time.Time
	CompletedBy   *string
	CompletedAt   *time.Time
}

// CanCancel indica si la sesión puede cancelarse (solo estados no terminales).
func (s *CountSession) CanCancel() bool {
	return s.Status == StatusPlanned || s.Status == StatusInProgress
}

// CanRecord indica si la sesión admite registrar cantidades contadas.
func (s *CountSession) CanRecord() bool {
	return s.Status == StatusInProgress
}
