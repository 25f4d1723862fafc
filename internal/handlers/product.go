package handlers

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/bazarghat/backend/internal/models"
	"github.com/bazarghat/backend/internal/mykafka"
	"github.com/bazarghat/backend/internal/service/search"
	"github.com/bazarghat/backend/internal/util"
)

type ProductHandler struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
	ES       *elasticsearch.Client
	Index    string
}

// DiscountPercent is the rounded percentage saved against the original
// price. Zero when there is no markdown or the original price is not
// positive.
func DiscountPercent(original, current float64) int {
	if original <= 0 || current >= original {
		return 0
	}
	return int(math.Round((original - current) / original * 100))
}

func (h *ProductHandler) index(c echo.Context, prod models.Product) {
	if h.ES == nil {
		return
	}
	if err := search.IndexProduct(c.Request().Context(), h.ES, h.Index, prod); err != nil {
		c.Logger().Errorf("ES index error: %v", err)
	}
}

// ownBusiness resolves the business owned by the authenticated user.
func (h *ProductHandler) ownBusiness(c echo.Context) (*models.Business, error) {
	user := CurrentUser(c)
	if user == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "could not validate credentials")
	}
	var business models.Business
	if err := h.DB.Where("owner_id = ?", user.ID).First(&business).Error; err != nil {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, err)
	}
	return &business, nil
}

func (h *ProductHandler) GetProduct(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	var product models.Product
	if err := h.DB.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}

	return c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) GetProducts(c echo.Context) error {
	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)

	offset, limit := util.Calculate(page, size)

	var total int64
	if err := h.DB.Model(&models.Product{}).Count(&total).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}

	var items []models.Product
	if err := h.DB.Model(&models.Product{}).Order("id ASC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": items,
		"meta": map[string]any{
			"page":        page,
			"size":        limit,
			"total":       total,
			"total_pages": (total + int64(limit) - 1) / int64(limit),
			"has_prev":    page > 1,
			"has_next":    int64(offset+limit) < total,
		},
	})
}

type productRequest struct {
	Name          string    `json:"name"`
	Category      string    `json:"category"`
	OriginalPrice float64   `json:"original_price"`
	NewPrice      float64   `json:"new_price"`
	OfferExpires  time.Time `json:"offer_expires"`
}

func (h *ProductHandler) CreateProduct(c echo.Context) error {
	business, err := h.ownBusiness(c)
	if err != nil {
		return err
	}

	var req productRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}
	if req.Name == "" || req.OriginalPrice <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "name and a positive original_price are required")
	}
	if req.NewPrice <= 0 {
		req.NewPrice = req.OriginalPrice
	}

	prod := models.Product{
		Name:               req.Name,
		Category:           req.Category,
		OriginalPrice:      req.OriginalPrice,
		NewPrice:           req.NewPrice,
		PercentageDiscount: DiscountPercent(req.OriginalPrice, req.NewPrice),
		OfferExpires:       req.OfferExpires,
		BusinessID:         business.ID,
	}

	if err := h.DB.Create(&prod).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}

	h.index(c, prod)
	publish(c, h.Producer, "product_events", fmt.Sprint(prod.ID), map[string]interface{}{
		"type":      "product_created",
		"productID": prod.ID,
		"name":      prod.Name,
	})

	return c.JSON(http.StatusCreated, prod)
}

func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	business, err := h.ownBusiness(c)
	if err != nil {
		return err
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
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

	var req productRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}

	if req.Name != "" {
		prod.Name = req.Name
	}
	if req.Category != "" {
		prod.Category = req.Category
	}
	if req.OriginalPrice > 0 {
		prod.OriginalPrice = req.OriginalPrice
	}
	if req.NewPrice > 0 {
		prod.NewPrice = req.NewPrice
	}
	if !req.OfferExpires.IsZero() {
		prod.OfferExpires = req.OfferExpires
	}
	prod.PercentageDiscount = DiscountPercent(prod.OriginalPrice, prod.NewPrice)

	if err := h.DB.Save(&prod).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}

	h.index(c, prod)
	publish(c, h.Producer, "product_events", fmt.Sprint(prod.ID), map[string]interface{}{
		"type":      "product_updated",
		"productID": prod.ID,
		"name":      prod.Name,
	})

	return c.JSON(http.StatusOK, prod)
}

func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	business, err := h.ownBusiness(c)
	if err != nil {
		return err
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
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

	if err := h.DB.Delete(&models.Product{}, id).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}

	if h.ES != nil {
		if err := search.DeleteProduct(c.Request().Context(), h.ES, h.Index, uint(id)); err != nil {
			c.Logger().Errorf("ES delete error: %v", err)
		}
	}
	publish(c, h.Producer, "product_events", fmt.Sprint(id), map[string]interface{}{
		"type":      "product_deleted",
		"productID": id,
	})

	return c.NoContent(http.StatusNoContent)
}
