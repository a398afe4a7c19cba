package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-erp/internal/application/dto"
	"github.com/jhoicas/inventario-erp/internal/application/usecase"
)

// CounterpartyHandler clientes y proveedores.
type CounterpartyHandler struct {
	uc *usecase.CounterpartyUseCase
}

func NewCounterpartyHandler(uc *usecase.CounterpartyUseCase) *CounterpartyHandler {
	return &CounterpartyHandler{uc: uc}
}

// Create godoc
// @Summary      Crear cliente o proveedor
// @Tags         counterparties
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCounterpartyRequest  true  "kind (customer|supplier), name, tax_id"
// @Success      201   {object}  dto.CounterpartyResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/counterparties [post]
func (h *CounterpartyHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCounterpartyRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func (h *CounterpartyHandler) GetByID(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.GetByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
