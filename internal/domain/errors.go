package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// La capa HTTP los traduce a códigos distinguibles; los fallos de
// almacenamiento se envuelven con fmt.Errorf en los repositorios.
var (
	ErrNotFound      = errors.New("recurso no encontrado")
	ErrInvalidInput  = errors.New("entrada inválida")
	ErrInvalidState  = errors.New("operación no permitida en el estado actual")
	ErrSessionClosed = errors.New("el conteo ya no admite registros")
	ErrConflict      = errors.New("conflicto de concurrencia, reintentar")
	ErrDuplicate     = errors.New("recurso duplicado")
)
