package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/futsalhq/stadium-booking/internal/repository"
)

// StadiumHandler serves stadium CRUD. Reads are public; writes sit behind
// the admin route group.
type StadiumHandler struct {
	Stadiums *repository.StadiumRepo
}

func NewStadiumHandler(s *repository.StadiumRepo) *StadiumHandler {
	return &StadiumHandler{Stadiums: s}
}

type subFieldReq struct {
	FieldName string `json:"field_name"`
	Width     uint32 `json:"width"`
	Height    uint32 `json:"height"`
	Indoor    bool   `json:"indoor"`
	Surface   string `json:"surface"`
}

type stadiumReq struct {
	Name                 string        `json:"name"`
	Province             string        `json:"province"`
	City                 string        `json:"city"`
	District             string        `json:"district"`
	Address              string        `json:"address"`
	Shower               bool          `json:"shower"`
	FreeParking          bool          `json:"free_parking"`
	ShoesRental          bool          `json:"shoes_rental"`
	VestRental           bool          `json:"vest_rental"`
	BallRental           bool          `json:"ball_rental"`
	DrinkSale            bool          `json:"drink_sale"`
	ToiletGenderDivision bool          `json:"toilet_gender_division"`
	SubFields            []subFieldReq `json:"sub_fields"`
}

type subFieldResp struct {
	ID        uint64 `json:"id"`
	FieldName string `json:"field_name"`
	Width     uint32 `json:"width"`
	Height    uint32 `json:"height"`
	Indoor    bool   `json:"indoor"`
	Surface   string `json:"surface"`
}

type stadiumResp struct {
	ID                   uint64         `json:"id"`
	Name                 string         `json:"name"`
	Province             string         `json:"province"`
	City                 string         `json:"city"`
	District             string         `json:"district"`
	Address              string         `json:"address"`
	Shower               bool           `json:"shower"`
	FreeParking          bool           `json:"free_parking"`
	ShoesRental          bool           `json:"shoes_rental"`
	VestRental           bool           `json:"vest_rental"`
	BallRental           bool           `json:"ball_rental"`
	DrinkSale            bool           `json:"drink_sale"`
	ToiletGenderDivision bool           `json:"toilet_gender_division"`
	ImageURL             string         `json:"image_url,omitempty"`
	ThumbnailURL         string         `json:"thumbnail_url,omitempty"`
	SubFields            []subFieldResp `json:"sub_fields"`
}

func subFieldView(sf repository.SubField) subFieldResp {
	return subFieldResp{
		ID:        sf.DisplayID,
		FieldName: sf.FieldName,
		Width:     sf.Width,
		Height:    sf.Height,
		Indoor:    sf.Indoor,
		Surface:   sf.Surface,
	}
}

func stadiumView(s *repository.Stadium) stadiumResp {
	subs := make([]subFieldResp, 0, len(s.SubFields))
	for _, sf := range s.SubFields {
		subs = append(subs, subFieldView(sf))
	}
	return stadiumResp{
		ID:                   s.DisplayID,
		Name:                 s.Name,
		Province:             s.Province,
		City:                 s.City,
		District:             s.District,
		Address:              s.Address,
		Shower:               s.Shower,
		FreeParking:          s.FreeParking,
		ShoesRental:          s.ShoesRental,
		VestRental:           s.VestRental,
		BallRental:           s.BallRental,
		DrinkSale:            s.DrinkSale,
		ToiletGenderDivision: s.ToiletGenderDivision,
		ImageURL:             s.ImageURL,
		ThumbnailURL:         s.ThumbnailURL,
		SubFields:            subs,
	}
}

func stadiumFromReq(req stadiumReq) repository.Stadium {
	return repository.Stadium{
		Name:                 strings.TrimSpace(req.Name),
		Province:             strings.TrimSpace(req.Province),
		City:                 strings.TrimSpace(req.City),
		District:             strings.TrimSpace(req.District),
		Address:              strings.TrimSpace(req.Address),
		Shower:               req.Shower,
		FreeParking:          req.FreeParking,
		ShoesRental:          req.ShoesRental,
		VestRental:           req.VestRental,
		BallRental:           req.BallRental,
		DrinkSale:            req.DrinkSale,
		ToiletGenderDivision: req.ToiletGenderDivision,
	}
}

// Create inserts a stadium and any inline sub-fields in one transaction;
// each gets its own sequential display id.
func (h *StadiumHandler) Create(c echo.Context) error {
	var req stadiumReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if strings.TrimSpace(req.Name) == "" {
		return badRequest(c, "name required")
	}
	for _, sf := range req.SubFields {
		if strings.TrimSpace(sf.FieldName) == "" {
			return badRequest(c, "sub-field field_name required")
		}
	}

	s := stadiumFromReq(req)
	subs := make([]repository.SubField, 0, len(req.SubFields))
	for _, sf := range req.SubFields {
		subs = append(subs, repository.SubField{
			FieldName: strings.TrimSpace(sf.FieldName),
			Width:     sf.Width,
			Height:    sf.Height,
			Indoor:    sf.Indoor,
			Surface:   sf.Surface,
		})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Stadiums.Create(ctx, &s, subs); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create stadium failed"})
	}
	return c.JSON(http.StatusCreated, stadiumView(&s))
}

// List returns all stadiums with their sub-fields.
func (h *StadiumHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	stadiums, err := h.Stadiums.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]stadiumResp, 0, len(stadiums))
	for _, s := range stadiums {
		out = append(out, stadiumView(s))
	}
	return c.JSON(http.StatusOK, out)
}

// Get returns one stadium by display id.
func (h *StadiumHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return badRequest(c, "invalid id")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	s, err := h.Stadiums.GetByDisplayID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrStadiumNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "stadium not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, stadiumView(s))
}

// Update replaces the stadium's own columns; sub-fields are managed through
// their own endpoints.
func (h *StadiumHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return badRequest(c, "invalid id")
	}
	var req stadiumReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if strings.TrimSpace(req.Name) == "" {
		return badRequest(c, "name required")
	}

	s := stadiumFromReq(req)
	s.DisplayID = id

	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Stadiums.Update(ctx, &s); err != nil {
		if errors.Is(err, repository.ErrStadiumNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "stadium not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	full, err := h.Stadiums.GetByDisplayID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reload failed"})
	}
	return c.JSON(http.StatusOK, stadiumView(full))
}

// Delete removes the stadium and everything under it: sub-fields, their
// matches and those matches' reservations, in one transaction.
func (h *StadiumHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return badRequest(c, "invalid id")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Stadiums.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrStadiumNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "stadium not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "stadium deleted"})
}
