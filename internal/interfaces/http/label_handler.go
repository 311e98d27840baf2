package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/labels"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// LabelHandler planificación e impresión de etiquetas por unidad (protegido).
type LabelHandler struct {
	svc *labels.Service
	log *logger.Logger
}

// NewLabelHandler construye el handler.
func NewLabelHandler(svc *labels.Service, log *logger.Logger) *LabelHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &LabelHandler{svc: svc, log: log}
}

// Plan godoc
// @Summary      Planificar tanda de etiquetas
// @Description  Devuelve los códigos por unidad y advertencias no bloqueantes (stock, padding, techo 9999).
// @Tags         labels
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PlanLabelsRequest  true  "sku, start_unit (0 = continuar), quantity"
// @Success      200   {object}  dto.LabelPlanDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/labels/plan [post]
func (h *LabelHandler) Plan(c *fiber.Ctx) error {
	var in dto.PlanLabelsRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	plan, err := h.svc.PlanForProduct(c.Context(), in.SKU, in.StartUnit, in.Quantity)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.NewLabelPlanDTO(plan))
}

// MarkPrinted godoc
// @Summary      Confirmar impresión de etiquetas
// @Tags         labels
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.MarkPrintedRequest  true  "sku, end_unit"
// @Success      200   {object}  dto.LabeledCountDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/labels/printed [post]
func (h *LabelHandler) MarkPrinted(c *fiber.Ctx) error {
	var in dto.MarkPrintedRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	count, err := h.svc.MarkPrinted(c.Context(), in.SKU, in.EndUnit)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.LabeledCountDTO{SKU: entity.NormalizeSKU(in.SKU), LabeledCount: count})
}

// Code godoc
// @Summary      Código de una unidad
// @Tags         labels
// @Security     Bearer
// @Produce      json
// @Param        sku        query  string  true  "SKU"
// @Param        attribute  query  string  true  "Atributo secundario (ej: 500ML)"
// @Param        unit       query  int     true  "Número de unidad (1-9999)"
// @Success      200  {object}  dto.UnitCodeDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/labels/code [get]
func (h *LabelHandler) Code(c *fiber.Ctx) error {
	unit := c.QueryInt("unit", 0)
	code, err := h.svc.CodeFor(c.Query("sku"), c.Query("attribute"), unit)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.UnitCodeDTO{Code: code})
}
