package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-backoffice/internal/application/dto"
	"github.com/jhoicas/pos-backoffice/internal/application/purchasing"
	"github.com/jhoicas/pos-backoffice/pkg/logger"
)

// PurchaseHandler maneja compras, pagos a proveedores, devoluciones y borradores de compra.
type PurchaseHandler struct {
	post     *purchasing.PostPurchaseUseCase
	pending  *purchasing.PendingPurchaseUseCase
	payments *purchasing.SupplierPaymentUseCase
	returns  *purchasing.ReturnUseCase
	log      *logger.Logger
}

// NewPurchaseHandler construye el handler.
func NewPurchaseHandler(post *purchasing.PostPurchaseUseCase, pending *purchasing.PendingPurchaseUseCase, payments *purchasing.SupplierPaymentUseCase, returns *purchasing.ReturnUseCase, log *logger.Logger) *PurchaseHandler {
	return &PurchaseHandler{post: post, pending: pending, payments: payments, returns: returns, log: log}
}

// PostPurchase godoc
// @Summary      Registrar compra
// @Description  Suma existencias, crea o rellena lotes y fija el último precio de compra.
// @Tags         purchases
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PostPurchaseRequest  true  "Compra"
// @Success      201  {object}  dto.PostPurchaseResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/purchases [post]
func (h *PurchaseHandler) PostPurchase(c *fiber.Ctx) error {
	var in dto.PostPurchaseRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.post.PostPurchase(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// EditPurchase godoc
// @Summary      Editar compra (admin)
// @Tags         purchases
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID de la compra"
// @Param        body  body  dto.PostPurchaseRequest  true  "Nueva versión"
// @Success      200  {object}  dto.PostPurchaseResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/purchases/{id} [put]
func (h *PurchaseHandler) EditPurchase(c *fiber.Ctx) error {
	var in dto.PostPurchaseRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.post.EditPurchase(c.UserContext(), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// GetPurchase godoc
// @Summary      Obtener compra con líneas
// @Tags         purchases
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la compra"
// @Success      200  {object}  dto.PurchaseResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchases/{id} [get]
func (h *PurchaseHandler) GetPurchase(c *fiber.Ctx) error {
	out, err := h.post.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// RecordPayment godoc
// @Summary      Registrar pago a proveedor
// @Tags         purchases
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string              true  "ID de la compra"
// @Param        body  body  dto.PaymentRequest  true  "Pago"
// @Success      201  {object}  dto.SupplierPaymentResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/purchases/{id}/payments [post]
func (h *PurchaseHandler) RecordPayment(c *fiber.Ctx) error {
	var in dto.PaymentRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.payments.Record(c.UserContext(), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// CreateReturn godoc
// @Summary      Crear devolución a proveedor
// @Description  Queda pendiente; las existencias cambian solo al aprobarla.
// @Tags         purchases
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateReturnRequest  true  "Devolución"
// @Success      201  {object}  dto.PurchaseResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/purchases/returns [post]
func (h *PurchaseHandler) CreateReturn(c *fiber.Ctx) error {
	var in dto.CreateReturnRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.returns.Create(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ProcessReturn godoc
// @Summary      Aprobar o rechazar devolución (admin)
// @Tags         purchases
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID de la devolución"
// @Param        body  body  dto.ProcessReturnRequest  true  "approved | rejected"
// @Success      200  {object}  dto.PurchaseResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/purchases/returns/{id}/process [post]
func (h *PurchaseHandler) ProcessReturn(c *fiber.Ctx) error {
	var in dto.ProcessReturnRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.returns.Process(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// SavePending godoc
// @Summary      Guardar borrador de compra
// @Tags         pending-purchases
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PostPurchaseRequest  true  "Borrador"
// @Success      201  {object}  dto.PendingPurchaseResponse
// @Router       /api/pending-purchases [post]
// @Router       /api/pending-purchases/{id} [put]
func (h *PurchaseHandler) SavePending(c *fiber.Ctx) error {
	var in dto.PostPurchaseRequest
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
// @Summary      Borradores de compra del usuario
// @Tags         pending-purchases
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "pending | completed | cancelled"
// @Success      200  {array}  dto.PendingPurchaseResponse
// @Router       /api/pending-purchases [get]
func (h *PurchaseHandler) ListPending(c *fiber.Ctx) error {
	out, err := h.pending.List(c.UserContext(), GetUserID(c), c.Query("status"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// GetPending godoc
// @Summary      Obtener borrador de compra
// @Tags         pending-purchases
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del borrador"
// @Success      200  {object}  dto.PendingPurchaseResponse
// @Router       /api/pending-purchases/{id} [get]
func (h *PurchaseHandler) GetPending(c *fiber.Ctx) error {
	out, err := h.pending.Get(c.UserContext(), GetUserID(c), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// DeletePending godoc
// @Summary      Eliminar borrador de compra
// @Tags         pending-purchases
// @Security     Bearer
// @Param        id   path  string  true  "ID del borrador"
// @Success      204
// @Router       /api/pending-purchases/{id} [delete]
func (h *PurchaseHandler) DeletePending(c *fiber.Ctx) error {
	if err := h.pending.Delete(c.UserContext(), GetUserID(c), c.Params("id")); err != nil {
		return writeError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CompletePending godoc
// @Summary      Completar borrador de compra
// @Tags         pending-purchases
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del borrador"
// @Success      201  {object}  dto.PostPurchaseResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/pending-purchases/{id}/complete [post]
func (h *PurchaseHandler) CompletePending(c *fiber.Ctx) error {
	out, err := h.pending.Complete(c.UserContext(), GetUserID(c), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// CancelPending godoc
// @Summary      Cancelar borrador de compra
// @Tags         pending-purchases
// @Security     Bearer
// @Param        id   path  string  true  "ID del borrador"
// @Success      204
// @Router       /api/pending-purchases/{id}/cancel [post]
func (h *PurchaseHandler) CancelPending(c *fiber.Ctx) error {
	if err := h.pending.Cancel(c.UserContext(), GetUserID(c), c.Params("id")); err != nil {
		return writeError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
