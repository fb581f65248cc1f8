package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/futsalhq/stadium-booking/internal/repository"
)

// SubFieldHandler serves sub-field CRUD under /api/stadium/subField.
type SubFieldHandler struct {
	SubFields *repository.SubFieldRepo
}

func NewSubFieldHandler(sf *repository.SubFieldRepo) *SubFieldHandler {
	return &SubFieldHandler{SubFields: sf}
}

type createSubFieldReq struct {
	StadiumID uint64 `json:"stadium_id"`
	subFieldReq
}

// Create attaches a new sub-field to an existing stadium.
func (h *SubFieldHandler) Create(c echo.Context) error {
	var req createSubFieldReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if req.StadiumID == 0 {
		return badRequest(c, "stadium_id required")
	}
	if strings.TrimSpace(req.FieldName) == "" {
		return badRequest(c, "field_name required")
	}

	sf := repository.SubField{
		FieldName: strings.TrimSpace(req.FieldName),
		Width:     req.Width,
		Height:    req.Height,
		Indoor:    req.Indoor,
		Surface:   req.Surface,
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.SubFields.Create(ctx, req.StadiumID, &sf); err != nil {
		if errors.Is(err, repository.ErrStadiumNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "stadium not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create sub-field failed"})
	}
	return c.JSON(http.StatusCreated, subFieldView(sf))
}

// Get returns one sub-field by display id.
func (h *SubFieldHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return badRequest(c, "invalid id")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	sf, err := h.SubFields.GetByDisplayID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrSubFieldNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "sub-field not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, subFieldView(*sf))
}

// Update replaces the sub-field's mutable columns.
func (h *SubFieldHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return badRequest(c, "invalid id")
	}
	var req subFieldReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if strings.TrimSpace(req.FieldName) == "" {
		return badRequest(c, "field_name required")
	}

	sf := repository.SubField{
		DisplayID: id,
		FieldName: strings.TrimSpace(req.FieldName),
		Width:     req.Width,
		Height:    req.Height,
		Indoor:    req.Indoor,
		Surface:   req.Surface,
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.SubFields.Update(ctx, &sf); err != nil {
		if errors.Is(err, repository.ErrSubFieldNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "sub-field not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, subFieldView(sf))
}

// Delete removes the sub-field along with its matches and their
// reservations.
func (h *SubFieldHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return badRequest(c, "invalid id")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.SubFields.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrSubFieldNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "sub-field not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "sub-field deleted"})
}
