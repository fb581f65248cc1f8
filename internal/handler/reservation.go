package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/futsalhq/stadium-booking/internal/queue"
	"github.com/futsalhq/stadium-booking/internal/repository"
	"github.com/futsalhq/stadium-booking/internal/service"
)

// ReservationHandler serves booking create, update, delete and listing.
type ReservationHandler struct {
	Reservations *repository.ReservationRepo
	Matches      *repository.MatchRepo
	Users        *repository.UserRepo
}

func NewReservationHandler(r *repository.ReservationRepo, m *repository.MatchRepo, u *repository.UserRepo) *ReservationHandler {
	return &ReservationHandler{Reservations: r, Matches: m, Users: u}
}

type createReservationReq struct {
	MatchID uint64 `json:"match_id"`
}

// updateReservationReq allows exactly one field. Sending both, or neither,
// is rejected with 400 so clients cannot smuggle a combined change past the
// capacity rules.
type updateReservationReq struct {
	MatchID *uint64 `json:"match_id"`
	Status  *string `json:"status"`
}

type reservationResp struct {
	ID         uint64    `json:"id"`
	MatchID    uint64    `json:"match_id"`
	Status     string    `json:"status"`
	ReservedAt time.Time `json:"reserved_at"`
}

func reservationView(rec *repository.Reservation, matchDisplayID uint64) reservationResp {
	return reservationResp{
		ID:         rec.ID,
		MatchID:    matchDisplayID,
		Status:     rec.Status,
		ReservedAt: rec.ReservedAt,
	}
}

// Create books a spot on a match for the caller and publishes a
// reservation.confirmed event. Publishing is best-effort; the booking
// stands even when the broker is down.
func (h *ReservationHandler) Create(c echo.Context) error {
	uid, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	var req createReservationReq
	if err := c.Bind(&req); err != nil || req.MatchID == 0 {
		return badRequest(c, "match_id required")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	rec, err := h.Reservations.Create(ctx, uid, req.MatchID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrMatchNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "match not found"})
		case errors.Is(err, repository.ErrDuplicateReservation):
			return c.JSON(http.StatusConflict, echo.Map{"error": "already reserved"})
		case errors.Is(err, repository.ErrCapacityFull):
			return c.JSON(http.StatusConflict, echo.Map{"error": "match is full"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create reservation failed"})
	}

	h.publishConfirmed(rec, req.MatchID, uid)
	return c.JSON(http.StatusCreated, reservationView(rec, req.MatchID))
}

// publishConfirmed assembles and sends the confirmation event in the
// background so broker latency never delays the response.
func (h *ReservationHandler) publishConfirmed(rec *repository.Reservation, matchDisplayID, uid uint64) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		detail, _, err := h.Matches.GetDetailByDisplayID(ctx, matchDisplayID)
		if err != nil {
			log.Printf("reservation event: load match failed: %v", err)
			return
		}
		u, err := h.Users.GetByID(ctx, uid)
		if err != nil {
			log.Printf("reservation event: load user failed: %v", err)
			return
		}
		_ = service.PublishReservationConfirmed(ctx, queue.ReservationConfirmedEvent{
			ReservationID: rec.ID,
			UserID:        uid,
			UserName:      u.Name,
			MatchID:       matchDisplayID,
			StadiumName:   detail.StadiumName,
			FieldName:     detail.FieldName,
			StartsAt:      detail.StartsAt.UTC().Format(time.RFC3339),
			EndsAt:        detail.EndsAt.UTC().Format(time.RFC3339),
			Fee:           detail.Fee,
			SpotsLeft:     detail.SpotsLeft,
			ConfirmedAt:   rec.ReservedAt.UTC().Format(time.RFC3339),
		})
	}()
}

// Update changes either the match or the status of a reservation, never
// both in one request.
func (h *ReservationHandler) Update(c echo.Context) error {
	uid, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	id, err := pathID(c)
	if err != nil {
		return badRequest(c, "invalid id")
	}
	var req updateReservationReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if (req.MatchID == nil) == (req.Status == nil) {
		return badRequest(c, repository.ErrMultiFieldChange.Error())
	}
	if req.Status != nil && *req.Status != repository.ReservationActive && *req.Status != repository.ReservationCancelled {
		return badRequest(c, "status must be active or cancelled")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	admin := isAdmin(ctx, h.Users, uid)

	var rec *repository.Reservation
	if req.Status != nil {
		rec, err = h.Reservations.UpdateStatus(ctx, id, uid, admin, *req.Status)
	} else {
		rec, err = h.Reservations.ChangeMatch(ctx, id, uid, admin, *req.MatchID)
	}
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrReservationNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		case errors.Is(err, repository.ErrMatchNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "match not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		case errors.Is(err, repository.ErrDuplicateReservation):
			return c.JSON(http.StatusConflict, echo.Map{"error": "already reserved"})
		case errors.Is(err, repository.ErrCapacityFull):
			return c.JSON(http.StatusConflict, echo.Map{"error": "match is full"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}

	// Resolve the display id of whichever match the reservation now points at.
	matchDisplayID := uint64(0)
	if req.MatchID != nil {
		matchDisplayID = *req.MatchID
	} else if d, err := h.Reservations.GetDetailByID(ctx, rec.ID, uid, admin); err == nil {
		matchDisplayID = d.MatchDisplayID
	}
	return c.JSON(http.StatusOK, reservationView(rec, matchDisplayID))
}

// Delete removes the reservation row outright. An active reservation frees
// its spot on the match.
func (h *ReservationHandler) Delete(c echo.Context) error {
	uid, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	id, err := pathID(c)
	if err != nil {
		return badRequest(c, "invalid id")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	admin := isAdmin(ctx, h.Users, uid)
	if err := h.Reservations.Delete(ctx, id, uid, admin); err != nil {
		switch {
		case errors.Is(err, repository.ErrReservationNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "reservation deleted"})
}

// My lists the caller's active reservations with full join context.
func (h *ReservationHandler) My(c echo.Context) error {
	uid, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	out, err := h.Reservations.ListActiveByUser(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, out)
}

// Get returns one fully joined reservation. Owner or admin only.
func (h *ReservationHandler) Get(c echo.Context) error {
	uid, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	id, err := pathID(c)
	if err != nil {
		return badRequest(c, "invalid id")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	d, err := h.Reservations.GetDetailByID(ctx, id, uid, isAdmin(ctx, h.Users, uid))
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrReservationNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, d)
}

// All lists every reservation. Admin only, enforced by the route group.
func (h *ReservationHandler) All(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	out, err := h.Reservations.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, out)
}
