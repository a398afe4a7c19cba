package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-erp/internal/application/dto"
	"github.com/jhoicas/inventario-erp/internal/application/settlement"
	"github.com/jhoicas/inventario-erp/internal/domain/entity"
	"github.com/jhoicas/inventario-erp/pkg/validator"
)

// SettlementHandler liquidación de cuentas contra recibos/pagos.
type SettlementHandler struct {
	matcher *settlement.Matcher
}

// NewSettlementHandler construye el handler.
func NewSettlementHandler(matcher *settlement.Matcher) *SettlementHandler {
	return &SettlementHandler{matcher: matcher}
}

// Settle godoc
// @Summary      Aplicar una liquidación
// @Tags         settlements
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SettleRequest  true  "account_type (1 cobrar, 2 pagar), account_id, financial_id, settlement_amount, settlement_date, remark"
// @Success      201   {object}  dto.SettlementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/settlements [post]
func (h *SettlementHandler) Settle(c *fiber.Ctx) error {
	var in dto.SettleRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	entry, err := h.matcher.Settle(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToSettlementResponse(entry))
}

// Candidates godoc
// @Summary      Cuentas abiertas candidatas a liquidación
// @Tags         settlements
// @Produce      json
// @Param        account_type     query  int  true   "1 cobrar, 2 pagar"
// @Param        counterparty_id  query  int  false  "Contraparte"
// @Success      200  {array}   dto.AccountResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/settlements/candidates [get]
func (h *SettlementHandler) Candidates(c *fiber.Ctx) error {
	var q dto.CandidatesQuery
	if err := c.QueryParser(&q); err != nil {
		return invalidBody(c)
	}
	if err := validator.Validate(q); err != nil {
		return respondError(c, err)
	}
	accounts, err := h.matcher.Candidates(c.UserContext(), entity.AccountType(q.AccountType), q.CounterpartyID)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.AccountResponse, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, dto.ToAccountResponse(a))
	}
	return c.JSON(out)
}
