package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vidinfra/churnalytics/internal/api/dto"
	ierr "github.com/vidinfra/churnalytics/internal/errors"
	"github.com/vidinfra/churnalytics/internal/logger"
	"github.com/vidinfra/churnalytics/internal/service"
)

type ChurnHandler struct {
	churnService service.ChurnService
	logger       *logger.Logger
}

func NewChurnHandler(churnService service.ChurnService, logger *logger.Logger) *ChurnHandler {
	return &ChurnHandler{
		churnService: churnService,
		logger:       logger,
	}
}

// @Summary Get churn analytics
// @Description Returns churn rate, churned subscriber and churned MRR series for a date range
// @Tags Analytics
// @Produce json
// @Param start_date query string true "Range start (YYYY-MM-DD)"
// @Param end_date query string true "Range end (YYYY-MM-DD)"
// @Param aggregate_by query string false "Bucketing mode: day or month"
// @Param product_ids query []string false "Restrict to these products"
// @Success 200 {object} dto.ChurnAnalyticsResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /analytics/churn [get]
func (h *ChurnHandler) GetChurnAnalytics(c *gin.Context) {
	var req dto.GetChurnAnalyticsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	response, err := h.churnService.GetChurnAnalytics(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// @Summary Get churn chart options
// @Description Returns the supported aggregation options for churn charts
// @Tags Analytics
// @Produce json
// @Success 200 {object} dto.ChurnOptionsResponse
// @Router /analytics/churn/options [get]
func (h *ChurnHandler) GetChurnOptions(c *gin.Context) {
	c.JSON(http.StatusOK, h.churnService.GetChurnOptions(c.Request.Context()))
}
