package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/merchlab/acc-dashboard/backend-go/internal/domain"
	"github.com/merchlab/acc-dashboard/backend-go/internal/forecast"
	"github.com/merchlab/acc-dashboard/backend-go/internal/service"
)

type DashboardHandler struct {
	service *service.DashboardService
}

func NewDashboardHandler(service *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

func (h *DashboardHandler) parseCategory(c *gin.Context) (domain.Category, bool) {
	raw := strings.TrimSpace(c.DefaultQuery("category", string(domain.CategoryShoes)))
	category, err := domain.ParseCategory(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown category", "details": err.Error()})
		return "", false
	}
	return category, true
}

// GetChart serves the trailing actual months for one brand/category.
func (h *DashboardHandler) GetChart(c *gin.Context) {
	brand := c.Param("brand")
	category, ok := h.parseCategory(c)
	if !ok {
		return
	}
	weeksType := c.DefaultQuery("weeks_type", "4weeks")

	data, err := h.service.ChartData(c.Request.Context(), brand, category, weeksType)
	if err != nil {
		if errors.Is(err, forecast.ErrNoActualData) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no actual data for brand/category"})
			return
		}
		var invalid *forecast.InvalidAssumptionsError
		if errors.As(err, &invalid) {
			c.JSON(http.StatusBadRequest, gin.H{"error": invalid.Reason})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch chart", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, data)
}

// GetClassification serves the per-style season buckets for one month.
func (h *DashboardHandler) GetClassification(c *gin.Context) {
	brand := c.Param("brand")
	category, ok := h.parseCategory(c)
	if !ok {
		return
	}

	period, err := domain.ParsePeriod(strings.TrimSpace(c.Query("month")))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "month must be YYYY-MM", "details": err.Error()})
		return
	}

	out, err := h.service.Classify(c.Request.Context(), brand, category, period)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to classify", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, out)
}

// RunForecast simulates forward from the latest actual month. With
// category=all every category runs in parallel.
func (h *DashboardHandler) RunForecast(c *gin.Context) {
	brand := c.Param("brand")

	var input service.ForecastInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	if strings.EqualFold(strings.TrimSpace(c.Query("category")), "all") {
		outcomes, err := h.service.RunForecastAll(c.Request.Context(), brand, input)
		if err != nil {
			h.forecastError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"categories": outcomes})
		return
	}

	category, ok := h.parseCategory(c)
	if !ok {
		return
	}
	outcome, err := h.service.RunForecast(c.Request.Context(), brand, category, input)
	if err != nil {
		h.forecastError(c, err)
		return
	}

	c.JSON(http.StatusOK, outcome)
}

// SolveOrderCapacity runs a forecast and returns only the solve.
func (h *DashboardHandler) SolveOrderCapacity(c *gin.Context) {
	brand := c.Param("brand")
	category, ok := h.parseCategory(c)
	if !ok {
		return
	}

	var input service.ForecastInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	outcome, err := h.service.RunForecast(c.Request.Context(), brand, category, input)
	if err != nil {
		h.forecastError(c, err)
		return
	}
	if outcome.OrderCapacity == nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   "forecast horizon too short to solve order capacity",
			"results": len(outcome.Results),
			"gaps":    outcome.Gaps,
		})
		return
	}

	c.JSON(http.StatusOK, outcome.OrderCapacity)
}

// GetIncomingAmounts serves the stored incoming schedule over the horizon.
func (h *DashboardHandler) GetIncomingAmounts(c *gin.Context) {
	brand := c.Param("brand")
	category, ok := h.parseCategory(c)
	if !ok {
		return
	}

	schedule, err := h.service.IncomingSchedule(c.Request.Context(), brand, category)
	if err != nil {
		if errors.Is(err, forecast.ErrNoActualData) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no actual data for brand/category"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch incoming amounts", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"incoming": schedule})
}

func (h *DashboardHandler) forecastError(c *gin.Context, err error) {
	var invalid *forecast.InvalidAssumptionsError
	switch {
	case errors.As(err, &invalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": invalid.Reason})
	case errors.Is(err, forecast.ErrNoActualData):
		c.JSON(http.StatusNotFound, gin.H{"error": "no actual data for brand/category"})
	case errors.Is(err, forecast.ErrInsufficientHorizon):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "forecast failed", "details": err.Error()})
	}
}
