package entity

import "time"

// Location representa una ubicación física de almacenamiento (sin anidamiento).
type Location struct {
	ID          string
	CompanyID   string
	Name        string
	Description string
	Address     string
	IsMain      bool // ubicación principal, se lista primero
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
