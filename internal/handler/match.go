package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/futsalhq/stadium-booking/internal/repository"
)

// MatchHandler serves match listing, detail and admin CRUD.
type MatchHandler struct {
	Matches *repository.MatchRepo
}

func NewMatchHandler(m *repository.MatchRepo) *MatchHandler { return &MatchHandler{Matches: m} }

type createMatchReq struct {
	SubFieldID      uint64    `json:"sub_field_id"`
	StartsAt        time.Time `json:"starts_at"`
	DurationMinutes uint32    `json:"duration_minutes"`
	Level           string    `json:"level"`
	Gender          string    `json:"gender"`
	MatchFormat     string    `json:"match_format"`
	Theme           string    `json:"theme"`
	Fee             uint32    `json:"fee"`
	MinimumPlayers  uint32    `json:"minimum_players"`
	MaximumPlayers  uint32    `json:"maximum_players"`
	DeadlineMinutes uint32    `json:"deadline_minutes"`
}

type updateMatchReq struct {
	StartsAt        *time.Time `json:"starts_at"`
	DurationMinutes *uint32    `json:"duration_minutes"`
	Level           *string    `json:"level"`
	Gender          *string    `json:"gender"`
	MatchFormat     *string    `json:"match_format"`
	Theme           *string    `json:"theme"`
	Fee             *uint32    `json:"fee"`
	MinimumPlayers  *uint32    `json:"minimum_players"`
	MaximumPlayers  *uint32    `json:"maximum_players"`
	DeadlineMinutes *uint32    `json:"deadline_minutes"`
	Status          *string    `json:"status"`
}

type matchResp struct {
	ID              uint64    `json:"id"`
	StartsAt        time.Time `json:"starts_at"`
	EndsAt          time.Time `json:"ends_at"`
	DurationMinutes uint32    `json:"duration_minutes"`
	Level           string    `json:"level"`
	Gender          string    `json:"gender"`
	MatchFormat     string    `json:"match_format"`
	Theme           string    `json:"theme"`
	Fee             uint32    `json:"fee"`
	MinimumPlayers  uint32    `json:"minimum_players"`
	MaximumPlayers  uint32    `json:"maximum_players"`
	CurrentPlayers  uint32    `json:"current_players"`
	SpotsLeft       uint32    `json:"spots_left"`
	IsFull          bool      `json:"is_full"`
	DeadlineMinutes uint32    `json:"deadline_minutes"`
	Status          string    `json:"status"`
}

type matchDetailResp struct {
	matchResp
	SubFieldID   uint64                   `json:"sub_field_id"`
	FieldName    string                   `json:"field_name"`
	Indoor       bool                     `json:"indoor"`
	Surface      string                   `json:"surface"`
	StadiumID    uint64                   `json:"stadium_id"`
	StadiumName  string                   `json:"stadium_name"`
	Province     string                   `json:"province"`
	City         string                   `json:"city"`
	District     string                   `json:"district"`
	Address      string                   `json:"address"`
	Participants []repository.Participant `json:"participants,omitempty"`
}

func matchView(m repository.Match) matchResp {
	return matchResp{
		ID:              m.DisplayID,
		StartsAt:        m.StartsAt,
		EndsAt:          m.EndsAt,
		DurationMinutes: m.DurationMinutes,
		Level:           m.Level,
		Gender:          m.Gender,
		MatchFormat:     m.MatchFormat,
		Theme:           m.Theme,
		Fee:             m.Fee,
		MinimumPlayers:  m.MinimumPlayers,
		MaximumPlayers:  m.MaximumPlayers,
		CurrentPlayers:  m.CurrentPlayers,
		SpotsLeft:       m.SpotsLeft,
		IsFull:          m.IsFull,
		DeadlineMinutes: m.DeadlineMinutes,
		Status:          m.Status,
	}
}

func matchDetailView(d repository.MatchDetail, parts []repository.Participant) matchDetailResp {
	return matchDetailResp{
		matchResp:    matchView(d.Match),
		SubFieldID:   d.SubFieldDisplayID,
		FieldName:    d.FieldName,
		Indoor:       d.Indoor,
		Surface:      d.Surface,
		StadiumID:    d.StadiumDisplayID,
		StadiumName:  d.StadiumName,
		Province:     d.Province,
		City:         d.City,
		District:     d.District,
		Address:      d.Address,
		Participants: parts,
	}
}

// Create schedules a match on a sub-field. The repository enforces the
// no-overlap rule under a sub-field row lock.
func (h *MatchHandler) Create(c echo.Context) error {
	var req createMatchReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if req.SubFieldID == 0 || req.StartsAt.IsZero() {
		return badRequest(c, "sub_field_id and starts_at required")
	}
	if req.MaximumPlayers == 0 {
		return badRequest(c, "maximum_players required")
	}
	if req.MinimumPlayers > req.MaximumPlayers {
		return badRequest(c, "minimum_players exceeds maximum_players")
	}

	m := repository.Match{
		StartsAt:        req.StartsAt.UTC(),
		DurationMinutes: req.DurationMinutes,
		Level:           req.Level,
		Gender:          req.Gender,
		MatchFormat:     req.MatchFormat,
		Theme:           req.Theme,
		Fee:             req.Fee,
		MinimumPlayers:  req.MinimumPlayers,
		MaximumPlayers:  req.MaximumPlayers,
		DeadlineMinutes: req.DeadlineMinutes,
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Matches.Create(ctx, req.SubFieldID, &m); err != nil {
		switch {
		case errors.Is(err, repository.ErrSubFieldNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "sub-field not found"})
		case errors.Is(err, repository.ErrOverlap):
			return c.JSON(http.StatusConflict, echo.Map{"error": "time slot overlaps an existing match"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create match failed"})
	}
	return c.JSON(http.StatusCreated, matchView(m))
}

// ByDate lists matches on one UTC day, ascending by start. When the day is
// today only matches that have not started yet are returned.
func (h *MatchHandler) ByDate(c echo.Context) error {
	dateStr := c.QueryParam("date")
	if dateStr == "" {
		return badRequest(c, "date query parameter required")
	}
	day, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return badRequest(c, "date must be YYYY-MM-DD")
	}

	from := day
	to := day.AddDate(0, 0, 1)
	now := time.Now().UTC()
	if now.After(from) && now.Before(to) {
		from = now
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	details, err := h.Matches.ListByWindow(ctx, from, to)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]matchDetailResp, 0, len(details))
	for _, d := range details {
		out = append(out, matchDetailView(d, nil))
	}
	return c.JSON(http.StatusOK, out)
}

// ListAll returns every match with sub-field and stadium context.
func (h *MatchHandler) ListAll(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	details, err := h.Matches.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]matchDetailResp, 0, len(details))
	for _, d := range details {
		out = append(out, matchDetailView(d, nil))
	}
	return c.JSON(http.StatusOK, out)
}

// Get returns one match with its participant list, which is assembled from
// active reservations.
func (h *MatchHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return badRequest(c, "invalid id")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	d, parts, err := h.Matches.GetDetailByDisplayID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrMatchNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "match not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, matchDetailView(*d, parts))
}

// Update applies a partial update; absent fields keep their values. Start
// or duration changes re-run the overlap check.
func (h *MatchHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return badRequest(c, "invalid id")
	}
	var req updateMatchReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if req.Status != nil {
		switch *req.Status {
		case repository.MatchRecruiting, repository.MatchClosed, repository.MatchCancelled:
		default:
			return badRequest(c, "invalid status")
		}
	}
	if req.StartsAt != nil {
		utc := req.StartsAt.UTC()
		req.StartsAt = &utc
	}
	if req.MaximumPlayers != nil && *req.MaximumPlayers == 0 {
		return badRequest(c, "maximum_players must be positive")
	}
	if req.MinimumPlayers != nil && req.MaximumPlayers != nil && *req.MinimumPlayers > *req.MaximumPlayers {
		return badRequest(c, "minimum_players exceeds maximum_players")
	}

	upd := repository.MatchUpdate{
		StartsAt:        req.StartsAt,
		DurationMinutes: req.DurationMinutes,
		Level:           req.Level,
		Gender:          req.Gender,
		MatchFormat:     req.MatchFormat,
		Theme:           req.Theme,
		Fee:             req.Fee,
		MinimumPlayers:  req.MinimumPlayers,
		MaximumPlayers:  req.MaximumPlayers,
		DeadlineMinutes: req.DeadlineMinutes,
		Status:          req.Status,
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	m, err := h.Matches.Update(ctx, id, upd)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrMatchNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "match not found"})
		case errors.Is(err, repository.ErrOverlap):
			return c.JSON(http.StatusConflict, echo.Map{"error": "time slot overlaps an existing match"})
		case errors.Is(err, repository.ErrPlayerBounds):
			return badRequest(c, "minimum_players exceeds maximum_players")
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, matchView(*m))
}

// Delete removes the match and its reservations.
func (h *MatchHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return badRequest(c, "invalid id")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Matches.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrMatchNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "match not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "match deleted"})
}
