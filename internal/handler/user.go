package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/futsalhq/stadium-booking/internal/repository"
)

// UserHandler serves profile reads, updates and account deletion.
type UserHandler struct {
	Users *repository.UserRepo
}

func NewUserHandler(u *repository.UserRepo) *UserHandler { return &UserHandler{Users: u} }

// userResp is the public projection of a user row; the password hash is
// never serialized.
type userResp struct {
	ID                uint64     `json:"id"`
	Email             string     `json:"email"`
	Name              string     `json:"name"`
	Birth             *time.Time `json:"birth,omitempty"`
	Gender            bool       `json:"gender"`
	Role              string     `json:"role"`
	ProfileImageURL   string     `json:"profile_image_url,omitempty"`
	ThumbnailImageURL string     `json:"thumbnail_image_url,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

func userView(u repository.User) userResp {
	return userResp{
		ID:                u.ID,
		Email:             u.Email,
		Name:              u.Name,
		Birth:             u.Birth,
		Gender:            u.Gender,
		Role:              u.Role,
		ProfileImageURL:   u.ProfileImageURL,
		ThumbnailImageURL: u.ThumbnailImageURL,
		CreatedAt:         u.CreatedAt,
	}
}

type updateUserReq struct {
	Name   string `json:"name"`
	Birth  string `json:"birth"`
	Gender *bool  `json:"gender"`
}

// ListAll returns every user. Admin only, enforced by the route group.
func (h *UserHandler) ListAll(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	users, err := h.Users.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]userResp, 0, len(users))
	for _, u := range users {
		out = append(out, userView(u))
	}
	return c.JSON(http.StatusOK, out)
}

// Get returns one user. A caller may read only themselves unless admin.
func (h *UserHandler) Get(c echo.Context) error {
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
	if id != uid && !isAdmin(ctx, h.Users, uid) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, userView(u))
}

// Update changes the mutable profile fields (name, birth, gender). Email,
// role and password do not change here.
func (h *UserHandler) Update(c echo.Context) error {
	uid, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	id, err := pathID(c)
	if err != nil {
		return badRequest(c, "invalid id")
	}
	var req updateUserReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if strings.TrimSpace(req.Name) == "" {
		return badRequest(c, "name required")
	}
	birth, err := parseBirth(req.Birth)
	if err != nil {
		return badRequest(c, "birth must be YYYY-MM-DD")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	if id != uid && !isAdmin(ctx, h.Users, uid) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	cur, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	gender := cur.Gender
	if req.Gender != nil {
		gender = *req.Gender
	}
	if birth == nil {
		birth = cur.Birth
	}
	if err := h.Users.UpdateProfile(ctx, id, strings.TrimSpace(req.Name), birth, gender); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reload failed"})
	}
	return c.JSON(http.StatusOK, userView(u))
}

// Delete removes the account. The repository cascades: the user's
// reservations go first and every affected match's counters are recomputed,
// so no match keeps counting a deleted player.
func (h *UserHandler) Delete(c echo.Context) error {
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
	if id != uid && !isAdmin(ctx, h.Users, uid) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	if err := h.Users.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "user deleted"})
}
