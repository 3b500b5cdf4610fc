package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Documentos-api/internal/application/crud"
	"github.com/jhoicas/Documentos-api/internal/application/dto"
	"github.com/jhoicas/Documentos-api/internal/domain/entity"
	"github.com/jhoicas/Documentos-api/pkg/config"
)

// DocumentHandler maneja las peticiones HTTP para Document.
type DocumentHandler struct {
	factory *crud.Factory
	paging  config.PagingConfig
}

// NewDocumentHandler construye el handler.
func NewDocumentHandler(factory *crud.Factory, paging config.PagingConfig) *DocumentHandler {
	return &DocumentHandler{factory: factory, paging: paging}
}

func (h *DocumentHandler) core(c *fiber.Ctx) *crud.DocumentCore {
	return h.factory.Documents(GetLogger(c))
}

func documentResponse(d *entity.Document) dto.DocumentResponse {
	return dto.NewDocumentResponse(d)
}

// List godoc
// @Summary      Listar documentos con filtros por campos propios, cliente y ejecutor
// @Tags         documents
// @Produce      json
// @Param        title              query  string  false  "Contiene"
// @Param        customerFirstName  query  string  false  "Contiene"
// @Param        executorId         query  int     false  "ID del ejecutor"
// @Param        sort               query  string  false  "TITLE | STATUS | CREATIONDATE | EXECUTIONPERIOD | CUSTOMER* | EXECUTOR*"
// @Param        page               query  int     false  "Página (base 0)"  default(0)
// @Param        count              query  int     false  "Tamaño de página"     default(10)
// @Param        deleted            query  string  false  "include | only"
// @Success      200  {object}  dto.PageResponse[dto.DocumentResponse]
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/documents [get]
func (h *DocumentHandler) List(c *fiber.Ctx) error {
	p := &listParams{c: c}
	core := h.core(c).
		FilterByTitle(p.str("title")).
		FilterByStatus(p.str("status")).
		FilterByCreationDate(p.date("creationDate")).
		FilterByCreationDateLessThan(p.date("creationDateBefore")).
		FilterByCreationDateMoreThan(p.date("creationDateAfter")).
		FilterByExecutionPeriod(p.date("executionPeriod")).
		FilterByExecutionPeriodLessThan(p.date("executionPeriodBefore")).
		FilterByExecutionPeriodMoreThan(p.date("executionPeriodAfter")).
		FilterByCustomerID(p.id("customerId")).
		FilterByCustomerFirstName(p.str("customerFirstName")).
		FilterByCustomerLastName(p.str("customerLastName")).
		FilterByExecutorID(p.id("executorId")).
		FilterByExecutorFirstName(p.str("executorFirstName")).
		FilterByExecutorLastName(p.str("executorLastName")).
		SetSort(p.str("sort"))
	core.SetVisibility(p.visibility())
	page, count := p.paging(h.paging)
	if p.err != nil {
		return writeError(c, p.err)
	}
	out, err := listPage(c.UserContext(), core.Core, page, count, documentResponse)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear documento
// @Tags         documents
// @Accept       json
// @Produce      json
// @Param        body  body  dto.DocumentRequest  true  "Datos del documento"
// @Success      201   {object}  dto.DocumentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/documents [post]
func (h *DocumentHandler) Create(c *fiber.Ctx) error {
	in, ok := parseDocument(c)
	if !ok {
		return nil
	}
	core := h.core(c)
	saved, err := core.Save(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	out, err := core.FindByID(c.UserContext(), saved.ID)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(documentResponse(out))
}

// GetByID godoc
// @Summary      Obtener documento por ID (incluye borrados)
// @Tags         documents
// @Produce      json
// @Param        id   path  int  true  "ID del documento"
// @Success      200  {object}  dto.DocumentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/documents/{id} [get]
func (h *DocumentHandler) GetByID(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return nil
	}
	out, err := h.core(c).FindByID(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(documentResponse(out))
}

// Update godoc
// @Summary      Reemplazar documento
// @Tags         documents
// @Accept       json
// @Produce      json
// @Param        id    path  int                  true  "ID del documento"
// @Param        body  body  dto.DocumentRequest  true  "Datos completos"
// @Success      200   {object}  dto.DocumentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/documents/{id} [put]
func (h *DocumentHandler) Update(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return nil
	}
	in, ok := parseDocument(c)
	if !ok {
		return nil
	}
	core := h.core(c)
	if _, err := core.Update(c.UserContext(), in, id); err != nil {
		return writeError(c, err)
	}
	out, err := core.FindByID(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(documentResponse(out))
}

// Delete godoc
// @Summary      Borrado lógico de documento
// @Tags         documents
// @Param        id   path  int  true  "ID del documento"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/documents/{id} [delete]
func (h *DocumentHandler) Delete(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return nil
	}
	if err := h.core(c).DeleteByID(c.UserContext(), id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func parseDocument(c *fiber.Ctx) (*entity.Document, bool) {
	var in dto.DocumentRequest
	if err := c.BodyParser(&in); err != nil {
		_ = badBody(c, "cuerpo inválido")
		return nil, false
	}
	d, err := in.ToEntity()
	if err != nil {
		_ = badBody(c, err.Error())
		return nil, false
	}
	return d, true
}
