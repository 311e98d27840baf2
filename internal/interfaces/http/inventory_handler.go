package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// InventoryHandler maneja las peticiones HTTP de movimientos y stock (protegido).
type InventoryHandler struct {
	ledger *inventory.RecordMovementUseCase
	stock  *inventory.CurrentStockUseCase
	log    *logger.Logger
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(ledger *inventory.RecordMovementUseCase, stock *inventory.CurrentStockUseCase, log *logger.Logger) *InventoryHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &InventoryHandler{ledger: ledger, stock: stock, log: log}
}

// RecordMovement godoc
// @Summary      Registrar movimiento de inventario
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordMovementRequest  true  "type, lines[{sku, quantity}], reference, notes, customer_name"
// @Success      201   {object}  dto.MovementDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) RecordMovement(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.RecordMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	mov, err := h.ledger.RecordMovementFromRequest(c.Context(), userID, in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewMovementDTO(mov))
}

// GetMovement godoc
// @Summary      Obtener movimiento con sus líneas
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del movimiento"
// @Success      200  {object}  dto.MovementDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements/{id} [get]
func (h *InventoryHandler) GetMovement(c *fiber.Ctx) error {
	mov, err := h.ledger.GetMovement(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.NewMovementDTO(mov))
}

// CancelMovement godoc
// @Summary      Cancelar movimiento completado
// @Description  Cambia el estado a cancelled; sus líneas dejan de contar en el stock.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del movimiento"
// @Success      200  {object}  dto.MovementDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements/{id}/cancel [post]
func (h *InventoryHandler) CancelMovement(c *fiber.Ctx) error {
	mov, err := h.ledger.CancelMovement(c.Context(), c.Params("id"), GetUserID(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.NewMovementDTO(mov))
}

// GetCurrentStock godoc
// @Summary      Stock actual por producto
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        sku  query  string  false  "Filtrar por SKU. Vacío = todos."
// @Success      200  {array}   dto.CurrentStockDTO
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/inventory/stock [get]
func (h *InventoryHandler) GetCurrentStock(c *fiber.Ctx) error {
	rows, err := h.stock.GetCurrentStock(c.Context(), c.Query("sku"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(fiber.Map{
		"total": len(rows),
		"items": dto.NewCurrentStockDTOs(rows),
	})
}
