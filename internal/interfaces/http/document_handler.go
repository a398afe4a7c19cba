package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-erp/internal/application/document"
	"github.com/jhoicas/inventario-erp/internal/application/dto"
	"github.com/jhoicas/inventario-erp/internal/domain/entity"
)

// DocumentHandler expone el ciclo de vida de los documentos.
type DocumentHandler struct {
	engine *document.Engine
}

// NewDocumentHandler construye el handler.
func NewDocumentHandler(engine *document.Engine) *DocumentHandler {
	return &DocumentHandler{engine: engine}
}

// Create godoc
// @Summary      Crear documento en borrador
// @Tags         documents
// @Accept       json
// @Produce      json
// @Param        type  path  string  true  "purchase | sale | return | take | transfer"
// @Success      201   {object}  dto.DocumentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/documents/{type} [post]
func (h *DocumentHandler) Create(c *fiber.Ctx) error {
	doc, err := h.engine.Create(c.UserContext(), entity.DocumentType(c.Params("type")), c.Body())
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToDocumentResponse(doc))
}

// GetByID godoc
// @Summary      Obtener documento con sus líneas
// @Tags         documents
// @Produce      json
// @Param        id   path  int  true  "ID del documento"
// @Success      200  {object}  dto.DocumentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/documents/{id} [get]
func (h *DocumentHandler) GetByID(c *fiber.Ctx) error {
	return h.transition(c, h.engine.Get)
}

// Confirm godoc
// @Summary      Confirmar documento (registra la cuenta por cobrar/pagar)
// @Tags         documents
// @Produce      json
// @Param        id   path  int  true  "ID del documento"
// @Success      200  {object}  dto.DocumentResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/documents/{id}/confirm [post]
func (h *DocumentHandler) Confirm(c *fiber.Ctx) error {
	return h.transition(c, h.engine.Confirm)
}

// Fulfill godoc
// @Summary      Cumplir documento (agrega los movimientos al libro)
// @Tags         documents
// @Produce      json
// @Param        id   path  int  true  "ID del documento"
// @Success      200  {object}  dto.DocumentResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      423  {object}  dto.ErrorResponse
// @Router       /api/documents/{id}/fulfill [post]
func (h *DocumentHandler) Fulfill(c *fiber.Ctx) error {
	return h.transition(c, h.engine.Fulfill)
}

// Cancel godoc
// @Summary      Anular documento (sin movimientos)
// @Tags         documents
// @Produce      json
// @Param        id   path  int  true  "ID del documento"
// @Success      200  {object}  dto.DocumentResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/documents/{id}/cancel [post]
func (h *DocumentHandler) Cancel(c *fiber.Ctx) error {
	return h.transition(c, h.engine.Cancel)
}

func (h *DocumentHandler) transition(c *fiber.Ctx, fn func(ctx context.Context, id int64) (*entity.Document, error)) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}
	doc, err := fn(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToDocumentResponse(doc))
}
