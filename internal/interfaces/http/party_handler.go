package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-backoffice/internal/application/dto"
	"github.com/jhoicas/pos-backoffice/internal/application/usecase"
	"github.com/jhoicas/pos-backoffice/pkg/logger"
)

// PartyHandler maneja clientes y proveedores (protegido).
type PartyHandler struct {
	customers *usecase.CustomerUseCase
	suppliers *usecase.SupplierUseCase
	log       *logger.Logger
}

// NewPartyHandler construye el handler.
func NewPartyHandler(customers *usecase.CustomerUseCase, suppliers *usecase.SupplierUseCase, log *logger.Logger) *PartyHandler {
	return &PartyHandler{customers: customers, suppliers: suppliers, log: log}
}

// CreateCustomer godoc
// @Summary      Crear cliente
// @Tags         customers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CustomerRequest  true  "Datos del cliente"
// @Success      201   {object}  dto.CustomerResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/customers [post]
func (h *PartyHandler) CreateCustomer(c *fiber.Ctx) error {
	var in dto.CustomerRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.customers.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListCustomers godoc
// @Summary      Listar clientes
// @Tags         customers
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200  {array}  dto.CustomerResponse
// @Router       /api/customers [get]
func (h *PartyHandler) ListCustomers(c *fiber.Ctx) error {
	out, err := h.customers.List(c.UserContext(), pageRequest(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// SearchCustomers godoc
// @Summary      Buscar clientes por nombre, teléfono o email
// @Tags         customers
// @Security     Bearer
// @Produce      json
// @Param        q      query  string  false  "Texto"
// @Param        limit  query  int     false  "Límite"  default(20)
// @Success      200  {array}  dto.CustomerResponse
// @Router       /api/customers/search [get]
func (h *PartyHandler) SearchCustomers(c *fiber.Ctx) error {
	out, err := h.customers.Search(c.UserContext(), c.Query("q"), queryLimit(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// GetCustomer godoc
// @Summary      Obtener cliente
// @Tags         customers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del cliente"
// @Success      200  {object}  dto.CustomerResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/customers/{id} [get]
func (h *PartyHandler) GetCustomer(c *fiber.Ctx) error {
	out, err := h.customers.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// CreateSupplier godoc
// @Summary      Crear proveedor
// @Tags         suppliers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SupplierRequest  true  "Datos del proveedor"
// @Success      201   {object}  dto.SupplierResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/suppliers [post]
func (h *PartyHandler) CreateSupplier(c *fiber.Ctx) error {
	var in dto.SupplierRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.suppliers.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListSuppliers godoc
// @Summary      Listar proveedores
// @Tags         suppliers
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.SupplierResponse
// @Router       /api/suppliers [get]
func (h *PartyHandler) ListSuppliers(c *fiber.Ctx) error {
	out, err := h.suppliers.List(c.UserContext(), pageRequest(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// SearchSuppliers godoc
// @Summary      Buscar proveedores
// @Tags         suppliers
// @Security     Bearer
// @Produce      json
// @Param        q  query  string  false  "Texto"
// @Success      200  {array}  dto.SupplierResponse
// @Router       /api/suppliers/search [get]
func (h *PartyHandler) SearchSuppliers(c *fiber.Ctx) error {
	out, err := h.suppliers.Search(c.UserContext(), c.Query("q"), queryLimit(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// GetSupplier godoc
// @Summary      Obtener proveedor
// @Tags         suppliers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del proveedor"
// @Success      200  {object}  dto.SupplierResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/suppliers/{id} [get]
func (h *PartyHandler) GetSupplier(c *fiber.Ctx) error {
	out, err := h.suppliers.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
