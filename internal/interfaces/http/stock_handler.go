package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/contalibre/conteo-api/internal/application/dto"
	"github.com/contalibre/conteo-api/internal/application/stock"
)

// StockHandler maneja el libro de existencias: movimientos, traslados,
// stock derivado y alertas de mínimo (protegido).
type StockHandler struct {
	ledger   *stock.LedgerUseCase
	lowStock *stock.LowStockUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(ledger *stock.LedgerUseCase, lowStock *stock.LowStockUseCase) *StockHandler {
	return &StockHandler{ledger: ledger, lowStock: lowStock}
}

// AppendMovement godoc
// @Summary      Registrar movimiento de stock
// @Description  Entrada, salida o ajuste manual. Las correcciones por conteo las genera solo el cierre de sesión.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AppendMovementRequest  true  "Movimiento con delta con signo"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock/movements [post]
func (h *StockHandler) AppendMovement(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "company_id requerido"})
	}
	var in dto.AppendMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.ledger.Append(c.Context(), companyID, GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Transfer godoc
// @Summary      Trasladar stock entre ubicaciones
// @Description  Genera dos movimientos manuales (salida y entrada) en una sola transacción.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Param        body  body  dto.TransferRequest  true  "Traslado"
// @Success      204
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/transfers [post]
func (h *StockHandler) Transfer(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "company_id requerido"})
	}
	var in dto.TransferRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.ledger.Transfer(c.Context(), companyID, GetUserID(c), in); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListMovements godoc
// @Summary      Historial de movimientos
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        item_id      query  string  false  "Filtrar por artículo"
// @Param        location_id  query  string  false  "Filtrar por ubicación"
// @Param        reason       query  string  false  "Filtrar por motivo"
// @Param        from         query  string  false  "Desde (RFC 3339 o YYYY-MM-DD)"
// @Param        to           query  string  false  "Hasta"
// @Param        limit        query  int     false  "Límite"   default(50)
// @Param        offset       query  int     false  "Offset"   default(0)
// @Success      200          {array}  dto.MovementResponse
// @Router       /api/stock/movements [get]
func (h *StockHandler) ListMovements(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "company_id requerido"})
	}
	var in dto.MovementListRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "query inválido"})
	}
	out, err := h.ledger.List(companyID, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Levels godoc
// @Summary      Stock actual por artículo y ubicación
// @Description  Derivado del libro de existencias, nunca almacenado.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        location_id  query  string  false  "Filtrar por ubicación"
// @Param        category     query  string  false  "Filtrar por categoría"
// @Success      200          {array}  dto.StockLevelResponse
// @Router       /api/stock/levels [get]
func (h *StockHandler) Levels(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "company_id requerido"})
	}
	var locationID, category *string
	if v := c.Query("location_id"); v != "" {
		locationID = &v
	}
	if v := c.Query("category"); v != "" {
		category = &v
	}
	out, err := h.ledger.Levels(companyID, locationID, category)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// LowStock godoc
// @Summary      Artículos bajo stock mínimo
// @Description  Ordenado por faltante descendente; incluye valor estimado de reposición.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        limit  query  int  false  "Límite"  default(50)
// @Success      200    {array}  dto.LowStockEntry
// @Router       /api/stock/low [get]
func (h *StockHandler) LowStock(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "company_id requerido"})
	}
	out, err := h.lowStock.List(companyID, c.QueryInt("limit", 0))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
