package handlers

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/bazarghat/backend/internal/models"
)

// Uploaded images are normalized to fit this bound before they hit disk.
const thumbnailBound = 200

type UploadHandler struct {
	DB        *gorm.DB
	StaticDir string
}

func allowedExtension(name string) (string, bool) {
	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".png", ".jpg", ".jpeg":
		return ext, true
	}
	return "", false
}

// saveResized decodes the multipart file, scales it down and writes it under
// the static images dir with a random name. Returns the stored file name.
func (h *UploadHandler) saveResized(c echo.Context, field string) (string, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		return "", echo.NewHTTPError(http.StatusBadRequest, "file is required")
	}

	ext, ok := allowedExtension(fileHeader.Filename)
	if !ok {
		return "", echo.NewHTTPError(http.StatusBadRequest, "only png and jpeg images are allowed")
	}

	src, err := fileHeader.Open()
	if err != nil {
		return "", echo.NewHTTPError(http.StatusBadRequest, err)
	}
	defer src.Close()

	img, err := imaging.Decode(src)
	if err != nil {
		return "", echo.NewHTTPError(http.StatusBadRequest, "cannot decode image")
	}
	img = imaging.Fit(img, thumbnailBound, thumbnailBound, imaging.Lanczos)

	dir := filepath.Join(h.StaticDir, "images")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", echo.NewHTTPError(http.StatusInternalServerError, err)
	}

	name := uuid.NewString() + ext
	if err := imaging.Save(img, filepath.Join(dir, name)); err != nil {
		return "", echo.NewHTTPError(http.StatusInternalServerError, err)
	}
	return name, nil
}

// UploadProfile replaces the logo of the caller's business.
func (h *UploadHandler) UploadProfile(c echo.Context) error {
	user := CurrentUser(c)
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "could not validate credentials")
	}

	var business models.Business
	if err := h.DB.Where("owner_id = ?", user.ID).First(&business).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}

	name, err := h.saveResized(c, "file")
	if err != nil {
		return err
	}

	business.Logo = name
	if err := h.DB.Save(&business).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}

	return c.JSON(http.StatusOK, business)
}

// UploadProduct replaces the image of a product owned by the caller.
func (h *UploadHandler) UploadProduct(c echo.Context) error {
	user := CurrentUser(c)
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "could not validate credentials")
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	var business models.Business
	if err := h.DB.Where("owner_id = ?", user.ID).First(&business).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}

	var prod models.Product
	if err := h.DB.First(&prod, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}
	if prod.BusinessID != business.ID {
		return echo.NewHTTPError(http.StatusForbidden, "not your product")
	}

	name, err := h.saveResized(c, "file")
	if err != nil {
		return err
	}

	prod.Image = name
	if err := h.DB.Save(&prod).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}

	return c.JSON(http.StatusOK, prod)
}
