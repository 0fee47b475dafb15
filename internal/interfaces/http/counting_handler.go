package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/contalibre/conteo-api/internal/application/counting"
	"github.com/contalibre/conteo-api/internal/application/dto"
)

// CountingHandler maneja el ciclo de vida de los conteos físicos (protegido).
type CountingHandler struct {
	sessions *counting.SessionUseCase
	record   *counting.RecordCountUseCase
	complete *counting.CompleteSessionUseCase
	export   *counting.ExportUseCase
}

// NewCountingHandler construye el handler.
func NewCountingHandler(
	sessions *counting.SessionUseCase,
	record *counting.RecordCountUseCase,
	complete *counting.CompleteSessionUseCase,
	export *counting.ExportUseCase,
) *CountingHandler {
	return &CountingHandler{sessions: sessions, record: record, complete: complete, export: export}
}

// CreateSession godoc
// @Summary      Abrir conteo físico
// @Description  Congela la cantidad esperada de cada artículo activo en el alcance en una sola transacción.
// @Tags         counting
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSessionRequest  true  "Datos del conteo"
// @Success      201   {object}  dto.SessionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/counting/sessions [post]
func (h *CountingHandler) CreateSession(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "company_id requerido"})
	}
	var in dto.CreateSessionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.sessions.Create(c.Context(), companyID, GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListSessions godoc
// @Summary      Listar conteos
// @Tags         counting
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "Filtrar por estado"
// @Param        limit   query  int     false  "Límite"   default(50)
// @Param        offset  query  int     false  "Offset"   default(0)
// @Success      200     {array}  dto.SessionResponse
// @Router       /api/counting/sessions [get]
func (h *CountingHandler) ListSessions(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "company_id requerido"})
	}
	var in dto.SessionListRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "query inválido"})
	}
	out, err := h.sessions.List(companyID, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Positions godoc
// @Summary      Posiciones de un conteo
// @Description  Con esperado, contado y diferencia viva por posición.
// @Tags         counting
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del conteo"
// @Success      200  {array}  dto.PositionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/counting/sessions/{id}/positions [get]
func (h *CountingHandler) Positions(c *fiber.Ctx) error {
	out, err := h.sessions.Positions(c.Params("id"), GetCompanyID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// RecordCount godoc
// @Summary      Registrar cantidad contada
// @Description  El último registro pisa al anterior mientras el conteo siga en curso.
// @Tags         counting
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la posición"
// @Param        body  body  dto.RecordCountRequest  true  "Cantidad contada"
// @Success      200   {object}  dto.PositionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/counting/positions/{id}/count [put]
func (h *CountingHandler) RecordCount(c *fiber.Ctx) error {
	var in dto.RecordCountRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.record.Record(c.Params("id"), GetCompanyID(c), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// CompleteSession godoc
// @Summary      Cerrar conteo y generar correcciones
// @Description  Emite exactamente una corrección por posición con diferencia; atómico y no repetible.
// @Tags         counting
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del conteo"
// @Success      200  {object}  dto.CompleteSessionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/counting/sessions/{id}/complete [post]
func (h *CountingHandler) CompleteSession(c *fiber.Ctx) error {
	out, err := h.complete.Complete(c.Context(), c.Params("id"), GetCompanyID(c), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// CancelSession godoc
// @Summary      Cancelar conteo
// @Tags         counting
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del conteo"
// @Success      200  {object}  dto.SessionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/counting/sessions/{id}/cancel [post]
func (h *CountingHandler) CancelSession(c *fiber.Ctx) error {
	out, err := h.sessions.Cancel(c.Params("id"), GetCompanyID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// CountSheet godoc
// @Summary      Hoja de conteo en XLSX
// @Tags         counting
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        id  path  string  true  "ID del conteo"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/counting/sessions/{id}/sheet [get]
func (h *CountingHandler) CountSheet(c *fiber.Ctx) error {
	data, name, err := h.export.CountSheetXLSX(c.Params("id"), GetCompanyID(c))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+name+`"`)
	return c.Send(data)
}

// SessionReport godoc
// @Summary      Informe del conteo en PDF
// @Tags         counting
// @Security     Bearer
// @Produce      application/pdf
// @Param        id  path  string  true  "ID del conteo"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/counting/sessions/{id}/report [get]
func (h *CountingHandler) SessionReport(c *fiber.Ctx) error {
	data, name, err := h.export.SessionReportPDF(c.Params("id"), GetCompanyID(c))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+name+`"`)
	return c.Send(data)
}
