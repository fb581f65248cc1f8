package handler

import (
	"errors"
	"fmt"
	"net/http"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/futsalhq/stadium-booking/internal/config"
	"github.com/futsalhq/stadium-booking/internal/repository"
	"github.com/futsalhq/stadium-booking/internal/utils"
)

// maxUploadBytes caps uploaded images at 5MB.
const maxUploadBytes = 5 << 20

// UploadHandler stores profile and stadium images with generated thumbnails.
type UploadHandler struct {
	Cfg      config.Config
	Users    *repository.UserRepo
	Stadiums *repository.StadiumRepo
}

func NewUploadHandler(cfg config.Config, u *repository.UserRepo, s *repository.StadiumRepo) *UploadHandler {
	return &UploadHandler{Cfg: cfg, Users: u, Stadiums: s}
}

var allowedImageExt = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true,
}

// saveUpload validates the multipart "image" part and writes original +
// thumbnail under uploadDir/subDir. Returned values are URL paths served
// from the /uploads static route.
func (h *UploadHandler) saveUpload(c echo.Context, subDir, baseName string) (string, string, error) {
	fh, err := c.FormFile("image")
	if err != nil {
		return "", "", errors.New("image file required")
	}
	if fh.Size > maxUploadBytes {
		return "", "", errors.New("image exceeds 5MB limit")
	}
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !allowedImageExt[ext] {
		return "", "", errors.New("only jpg and png images are accepted")
	}

	src, err := fh.Open()
	if err != nil {
		return "", "", errors.New("open upload failed")
	}
	defer src.Close()

	destDir := filepath.Join(h.Cfg.UploadDir, subDir)
	origPath, thumbPath, err := utils.SaveWithThumbnail(src, destDir, baseName+ext)
	if err != nil {
		return "", "", errors.New("image decode failed")
	}

	origURL := path.Join("/uploads", subDir, filepath.Base(origPath))
	thumbURL := path.Join("/uploads", subDir, filepath.Base(thumbPath))
	return origURL, thumbURL, nil
}

// Profile stores the caller's profile image and records both URLs.
func (h *UploadHandler) Profile(c echo.Context) error {
	uid, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	base := fmt.Sprintf("user_%d_%d", uid, time.Now().UnixNano())
	origURL, thumbURL, err := h.saveUpload(c, "profile", base)
	if err != nil {
		return badRequest(c, err.Error())
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Users.SetProfileImages(ctx, uid, origURL, thumbURL); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save image urls failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"profile_image_url":   origURL,
		"thumbnail_image_url": thumbURL,
	})
}

// Stadium stores an image for the stadium with the given display id.
func (h *UploadHandler) Stadium(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return badRequest(c, "invalid id")
	}

	base := fmt.Sprintf("stadium_%d_%d", id, time.Now().UnixNano())
	origURL, thumbURL, uerr := h.saveUpload(c, "stadium", base)
	if uerr != nil {
		return badRequest(c, uerr.Error())
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Stadiums.SetImages(ctx, id, origURL, thumbURL); err != nil {
		if errors.Is(err, repository.ErrStadiumNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "stadium not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save image urls failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"image_url":     origURL,
		"thumbnail_url": thumbURL,
	})
}
