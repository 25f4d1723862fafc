package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/bazarghat/backend/internal/models"
)

type BusinessHandler struct {
	DB *gorm.DB
}

func (h *BusinessHandler) GetBusiness(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	var business models.Business
	if err := h.DB.First(&business, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "business not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}

	return c.JSON(http.StatusOK, business)
}

// UpdateBusiness lets the owner edit the profile fields. The logo only
// changes through the upload endpoint.
func (h *BusinessHandler) UpdateBusiness(c echo.Context) error {
	user := CurrentUser(c)
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "could not validate credentials")
	}

	var req struct {
		BusinessName string `json:"businessname"`
		City         string `json:"city"`
		Region       string `json:"region"`
		Description  string `json:"business_description"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}

	var business models.Business
	if err := h.DB.Where("owner_id = ?", user.ID).First(&business).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "business not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}

	if req.BusinessName != "" {
		business.BusinessName = req.BusinessName
	}
	if req.City != "" {
		business.City = req.City
	}
	if req.Region != "" {
		business.Region = req.Region
	}
	if req.Description != "" {
		business.Description = req.Description
	}

	if err := h.DB.Save(&business).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}

	return c.JSON(http.StatusOK, business)
}
