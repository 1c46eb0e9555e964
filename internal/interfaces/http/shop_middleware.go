package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-backoffice/internal/application/dto"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/pkg/logger"
)

// LocalShop key de la tienda resuelta para la petición.
const LocalShop = "shop"

// shopProvider es el contrato mínimo que necesita el middleware para cargar la tienda.
// Lo implementa *usecase.CompanyUseCase.
type shopProvider interface {
	Current(ctx context.Context) (entity.Company, error)
}

// ShopMiddleware carga los datos de la tienda una vez por petición y los deja en c.Locals;
// los handlers los pasan explícitamente a las operaciones de registro.
//   - 503 Service Unavailable → fallo al consultar la DB.
func ShopMiddleware(provider shopProvider, log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		shop, err := provider.Current(c.UserContext())
		if err != nil {
			log.Error().Err(err).Msg("no se pudo cargar la tienda")
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code:    "SHOP_UNAVAILABLE",
				Message: "no se pudo cargar la configuración de la tienda, intente más tarde",
			})
		}
		c.Locals(LocalShop, shop)
		return c.Next()
	}
}

// GetShop devuelve la tienda resuelta por ShopMiddleware.
func GetShop(c *fiber.Ctx) entity.Company {
	shop, _ := c.Locals(LocalShop).(entity.Company)
	return shop
}
