package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-backoffice/internal/application/dto"
	"github.com/jhoicas/pos-backoffice/internal/application/usecase"
	"github.com/jhoicas/pos-backoffice/pkg/logger"
)

// PricingHandler maneja campañas de descuento y precios por compañía (protegido).
type PricingHandler struct {
	uc  *usecase.ProductUseCase
	log *logger.Logger
}

// NewPricingHandler construye el handler.
func NewPricingHandler(uc *usecase.ProductUseCase, log *logger.Logger) *PricingHandler {
	return &PricingHandler{uc: uc, log: log}
}

// AddDiscount godoc
// @Summary      Crear campaña de descuento
// @Description  Rebaja al crearla el precio de venta de los productos y categorías elegidos.
// @Tags         discounts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.DiscountRequest  true  "Campaña"
// @Success      201   {object}  dto.DiscountResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/discounts [post]
func (h *PricingHandler) AddDiscount(c *fiber.Ctx) error {
	var in dto.DiscountRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.AddDiscount(c.UserContext(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	h.log.Info().Str("discount_id", out.ID).Int("repriced", out.Repriced).Msg("campaña de descuento creada")
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListDiscounts godoc
// @Summary      Listar campañas de descuento
// @Tags         discounts
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "active | upcoming | expired | inactive"
// @Success      200  {array}  dto.DiscountResponse
// @Router       /api/discounts [get]
func (h *PricingHandler) ListDiscounts(c *fiber.Ctx) error {
	out, err := h.uc.ListDiscounts(c.UserContext(), c.Query("status"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// ToggleDiscount godoc
// @Summary      Activar o desactivar campaña
// @Tags         discounts
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la campaña"
// @Success      200  {object}  dto.DiscountResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/discounts/{id}/toggle [post]
func (h *PricingHandler) ToggleDiscount(c *fiber.Ctx) error {
	out, err := h.uc.ToggleDiscount(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// SetCompanyPrice godoc
// @Summary      Fijar precio negociado de un producto para una compañía
// @Tags         company-prices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CompanyPriceRequest  true  "Compañía, producto y precio"
// @Success      200   {object}  dto.CompanyPriceResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/company-prices [put]
func (h *PricingHandler) SetCompanyPrice(c *fiber.Ctx) error {
	var in dto.CompanyPriceRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.SetCompanyPrice(c.UserContext(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// ListCompanyPrices godoc
// @Summary      Listar precios negociados
// @Tags         company-prices
// @Security     Bearer
// @Produce      json
// @Param        company_id  query  string  false  "Filtrar por compañía"
// @Success      200  {array}  dto.CompanyPriceResponse
// @Router       /api/company-prices [get]
func (h *PricingHandler) ListCompanyPrices(c *fiber.Ctx) error {
	out, err := h.uc.ListCompanyPrices(c.UserContext(), c.Query("company_id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// DeleteCompanyPrice godoc
// @Summary      Eliminar precio negociado
// @Tags         company-prices
// @Security     Bearer
// @Param        id   path  string  true  "ID del precio"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/company-prices/{id} [delete]
func (h *PricingHandler) DeleteCompanyPrice(c *fiber.Ctx) error {
	if err := h.uc.DeleteCompanyPrice(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Pricing godoc
// @Summary      Precios del producto y precio final para una compañía
// @Description  Sin company_id se usa la tienda actual.
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id          path   string  true   "ID del producto"
// @Param        company_id  query  string  false  "Compañía"
// @Success      200  {object}  dto.ProductPricingResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/pricing [get]
func (h *PricingHandler) Pricing(c *fiber.Ctx) error {
	companyID := c.Query("company_id", GetShop(c).ID)
	out, err := h.uc.Pricing(c.UserContext(), c.Params("id"), companyID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
