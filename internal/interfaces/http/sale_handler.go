package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-backoffice/internal/application/dto"
	"github.com/jhoicas/pos-backoffice/internal/application/sales"
	"github.com/jhoicas/pos-backoffice/pkg/logger"
)

// SaleHandler maneja ventas, abonos, recibos y borradores de venta (protegido).
type SaleHandler struct {
	post     *sales.PostSaleUseCase
	pending  *sales.PendingSaleUseCase
	payments *sales.CreditPaymentUseCase
	receipts *sales.ReceiptUseCase
	log      *logger.Logger
}

// NewSaleHandler construye el handler.
func NewSaleHandler(post *sales.PostSaleUseCase, pending *sales.PendingSaleUseCase, payments *sales.CreditPaymentUseCase, receipts *sales.ReceiptUseCase, log *logger.Logger) *SaleHandler {
	return &SaleHandler{post: post, pending: pending, payments: payments, receipts: receipts, log: log}
}

// PostSale godoc
// @Summary      Registrar venta
// @Description  Totales calculados en el servidor. Descuenta existencias, actualiza el saldo del
//
//	cliente si es a crédito y devuelve el contenido del recibo. Idempotency-Key opcional.
//
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string               false  "Clave para evitar registros duplicados"
// @Param        body             body    dto.PostSaleRequest  true   "Venta"
// @Success      201  {object}  dto.PostSaleResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *SaleHandler) PostSale(c *fiber.Ctx) error {
	var in dto.PostSaleRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	in.IdempotencyKey = c.Get("Idempotency-Key")
	out, err := h.post.PostSale(c.UserContext(), GetShop(c), GetUserID(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// EditSale godoc
// @Summary      Editar venta (admin)
// @Description  Revierte los efectos de la venta original y registra la nueva versión con el mismo número.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string               true  "ID de la venta"
// @Param        body  body  dto.PostSaleRequest  true  "Nueva versión"
// @Success      200  {object}  dto.PostSaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [put]
func (h *SaleHandler) EditSale(c *fiber.Ctx) error {
	var in dto.PostSaleRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.post.EditSale(c.UserContext(), GetShop(c), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// GetSale godoc
// @Summary      Obtener venta con líneas y abonos
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [get]
func (h *SaleHandler) GetSale(c *fiber.Ctx) error {
	out, err := h.post.GetSale(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// ListCredit godoc
// @Summary      Ventas a crédito con saldo pendiente
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        customer_id  query  string  false  "Filtrar por cliente"
// @Success      200  {array}  dto.OutstandingSaleResponse
// @Router       /api/sales/credit [get]
func (h *SaleHandler) ListCredit(c *fiber.Ctx) error {
	out, err := h.payments.ListOutstanding(c.UserContext(), c.Query("customer_id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// ApplyPayment godoc
// @Summary      Abonar a una venta a crédito
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string              true  "ID de la venta"
// @Param        body  body  dto.PaymentRequest  true  "Abono"
// @Success      201  {object}  dto.CreditPaymentResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/payments [post]
func (h *SaleHandler) ApplyPayment(c *fiber.Ctx) error {
	var in dto.PaymentRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.payments.Apply(c.UserContext(), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GenerateReceipt godoc
// @Summary      Generar recibo numerado (RCP-YYYYMMDD-NNNN)
// @Tags         receipts
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      201  {object}  dto.ReceiptResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/receipts [post]
func (h *SaleHandler) GenerateReceipt(c *fiber.Ctx) error {
	out, err := h.receipts.Generate(c.UserContext(), GetShop(c), GetUserID(c), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetReceipt godoc
// @Summary      Obtener recibo
// @Tags         receipts
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del recibo"
// @Success      200  {object}  dto.ReceiptResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/receipts/{id} [get]
func (h *SaleHandler) GetReceipt(c *fiber.Ctx) error {
	out, err := h.receipts.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// ReceiptPDF godoc
// @Summary      Descargar recibo en PDF
// @Tags         receipts
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID del recibo"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/receipts/{id}/pdf [get]
func (h *SaleHandler) ReceiptPDF(c *fiber.Ctx) error {
	pdf, number, err := h.receipts.RenderPDF(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="`+number+`.pdf"`)
	return c.Send(pdf)
}

// SavePending godoc
// @Summary      Guardar borrador de venta
// @Tags         pending-sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PostSaleRequest  true  "Borrador"
// @Success      201  {object}  dto.PendingSaleResponse
// @Router       /api/pending-sales [post]
// @Router       /api/pending-sales/{id} [put]
func (h *SaleHandler) SavePending(c *fiber.Ctx) error {
	var in dto.PostSaleRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	id := c.Params("id")
	out, err := h.pending.Save(c.UserContext(), GetUserID(c), id, in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	if id != "" {
		return c.JSON(out)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListPending godoc
// @Summary      Borradores de venta del usuario
// @Tags         pending-sales
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "pending | completed"
// @Success      200  {array}  dto.PendingSaleResponse
// @Router       /api/pending-sales [get]
func (h *SaleHandler) ListPending(c *fiber.Ctx) error {
	out, err := h.pending.List(c.UserContext(), GetUserID(c), c.Query("status"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// GetPending godoc
// @Summary      Obtener borrador de venta
// @Tags         pending-sales
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del borrador"
// @Success      200  {object}  dto.PendingSaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/pending-sales/{id} [get]
func (h *SaleHandler) GetPending(c *fiber.Ctx) error {
	out, err := h.pending.Get(c.UserContext(), GetUserID(c), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// DeletePending godoc
// @Summary      Eliminar borrador de venta
// @Tags         pending-sales
// @Security     Bearer
// @Param        id   path  string  true  "ID del borrador"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/pending-sales/{id} [delete]
func (h *SaleHandler) DeletePending(c *fiber.Ctx) error {
	if err := h.pending.Delete(c.UserContext(), GetUserID(c), c.Params("id")); err != nil {
		return writeError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CompletePending godoc
// @Summary      Completar borrador de venta
// @Description  Registra la venta y marca el borrador como completado en la misma transacción.
// @Tags         pending-sales
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del borrador"
// @Success      201  {object}  dto.PostSaleResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/pending-sales/{id}/complete [post]
func (h *SaleHandler) CompletePending(c *fiber.Ctx) error {
	out, err := h.pending.Complete(c.UserContext(), GetShop(c), GetUserID(c), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
