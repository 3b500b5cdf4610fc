package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Documentos-api/internal/application/crud"
	"github.com/jhoicas/Documentos-api/internal/application/dto"
	"github.com/jhoicas/Documentos-api/internal/domain/entity"
	"github.com/jhoicas/Documentos-api/pkg/config"
)

// PersonHandler maneja las peticiones HTTP para Person.
type PersonHandler struct {
	factory *crud.Factory
	paging  config.PagingConfig
}

// NewPersonHandler construye el handler.
func NewPersonHandler(factory *crud.Factory, paging config.PagingConfig) *PersonHandler {
	return &PersonHandler{factory: factory, paging: paging}
}

func (h *PersonHandler) core(c *fiber.Ctx) *crud.PersonCore {
	return h.factory.Persons(GetLogger(c))
}

// List godoc
// @Summary      Listar personas con filtros, orden y paginación
// @Tags         persons
// @Produce      json
// @Param        firstName        query  string  false  "Contiene"
// @Param        birthDateBefore  query  string  false  "yyyy-MM-dd"
// @Param        sort             query  string  false  "FIRSTNAME | LASTNAME | BIRTHDATE | USERNAME"
// @Param        page             query  int     false  "Página (base 0)"  default(0)
// @Param        count            query  int     false  "Tamaño de página"     default(10)
// @Param        deleted          query  string  false  "include | only"
// @Success      200  {object}  dto.PageResponse[dto.PersonResponse]
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/persons [get]
func (h *PersonHandler) List(c *fiber.Ctx) error {
	p := &listParams{c: c}
	core := h.core(c).
		FilterByUsername(p.str("username")).
		FilterByFirstName(p.str("firstName")).
		FilterByLastName(p.str("lastName")).
		FilterByBirthDate(p.date("birthDate")).
		FilterByBirthDateLessThan(p.date("birthDateBefore")).
		FilterByBirthDateMoreThan(p.date("birthDateAfter")).
		SetSort(p.str("sort"))
	core.SetVisibility(p.visibility())
	page, count := p.paging(h.paging)
	if p.err != nil {
		return writeError(c, p.err)
	}
	out, err := listPage(c.UserContext(), core.Core, page, count, func(e *entity.Person) dto.PersonResponse {
		return dto.NewPersonResponse(e)
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Registrar persona (rol ROLE_USER incluido)
// @Tags         persons
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PersonRequest  true  "Datos de la persona"
// @Success      201   {object}  dto.PersonResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/persons [post]
func (h *PersonHandler) Create(c *fiber.Ctx) error {
	in, ok := parsePerson(c)
	if !ok {
		return nil
	}
	out, err := h.core(c).Save(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewPersonResponse(out))
}

// GetByID godoc
// @Summary      Obtener persona por ID (incluye borradas)
// @Tags         persons
// @Produce      json
// @Param        id   path  int  true  "ID de la persona"
// @Success      200  {object}  dto.PersonResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/persons/{id} [get]
func (h *PersonHandler) GetByID(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return nil
	}
	out, err := h.core(c).FindByID(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewPersonResponse(out))
}

// GetByUsername godoc
// @Summary      Obtener persona por username
// @Tags         persons
// @Produce      json
// @Param        username  path  string  true  "Username"
// @Success      200  {object}  dto.PersonResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/persons/by-username/{username} [get]
func (h *PersonHandler) GetByUsername(c *fiber.Ctx) error {
	out, err := h.core(c).FindByUsername(c.UserContext(), c.Params("username"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewPersonResponse(out))
}

// Update godoc
// @Summary      Reemplazar persona
// @Tags         persons
// @Accept       json
// @Produce      json
// @Param        id    path  int                true  "ID de la persona"
// @Param        body  body  dto.PersonRequest  true  "Datos completos"
// @Success      200   {object}  dto.PersonResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/persons/{id} [put]
func (h *PersonHandler) Update(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return nil
	}
	in, ok := parsePerson(c)
	if !ok {
		return nil
	}
	out, err := h.core(c).Update(c.UserContext(), in, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewPersonResponse(out))
}

// Delete godoc
// @Summary      Borrado lógico de persona (sus documentos se conservan)
// @Tags         persons
// @Param        id   path  int  true  "ID de la persona"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/persons/{id} [delete]
func (h *PersonHandler) Delete(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return nil
	}
	if err := h.core(c).DeleteByID(c.UserContext(), id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Roles godoc
// @Summary      Roles de una persona
// @Tags         persons
// @Produce      json
// @Param        id   path  int  true  "ID de la persona"
// @Success      200  {array}   dto.RoleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/persons/{id}/roles [get]
func (h *PersonHandler) Roles(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return nil
	}
	roles, err := h.core(c).Roles(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.RoleResponse, 0, len(roles))
	for _, r := range roles {
		out = append(out, dto.NewRoleResponse(r))
	}
	return c.JSON(out)
}

// AssignRole godoc
// @Summary      Asignar rol a una persona
// @Tags         persons
// @Accept       json
// @Produce      json
// @Param        id    path  int                    true  "ID de la persona"
// @Param        body  body  dto.AssignRoleRequest  true  "ROLE_USER | ROLE_ADMIN"
// @Success      201   {object}  dto.RoleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/persons/{id}/roles [post]
func (h *PersonHandler) AssignRole(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return nil
	}
	var in dto.AssignRoleRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c, "cuerpo inválido")
	}
	r, err := h.core(c).AssignRole(c.UserContext(), id, in.Role)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewRoleResponse(*r))
}

func parsePerson(c *fiber.Ctx) (*entity.Person, bool) {
	var in dto.PersonRequest
	if err := c.BodyParser(&in); err != nil {
		_ = badBody(c, "cuerpo inválido")
		return nil, false
	}
	p, err := in.ToEntity()
	if err != nil {
		_ = badBody(c, err.Error())
		return nil, false
	}
	return p, true
}
