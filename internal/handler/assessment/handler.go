package assessment

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sepsisai/clinical-api/internal/middleware"
	"github.com/sepsisai/clinical-api/internal/model"
	"github.com/sepsisai/clinical-api/internal/service/assessment"
	"github.com/sepsisai/clinical-api/internal/service/recommendation"
	"github.com/sepsisai/clinical-api/internal/service/report"
	apperrors "github.com/sepsisai/clinical-api/pkg/errors"
	"github.com/sepsisai/clinical-api/pkg/httputil"
)

type Handler struct {
	service         assessment.AssessmentService
	recommendations recommendation.RecommendationService
	reports         *report.Formatter
}

func NewHandler(service assessment.AssessmentService, recs recommendation.RecommendationService, reports *report.Formatter) *Handler {
	return &Handler{
		service:         service,
		recommendations: recs,
		reports:         reports,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	assessments := r.Group("/assessments")
	{
		assessments.POST("", h.Create)
		assessments.GET("", h.List)
		assessments.GET("/stats", h.Stats)
		assessments.GET("/:id", h.Get)
		assessments.POST("/:id/recommendations", h.GenerateRecommendations)
		assessments.GET("/:id/report", h.DownloadReport)
	}
}

func (h *Handler) Create(c *gin.Context) {
	var req model.CreateAssessmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.NewBadRequest(err.Error(), err))
		return
	}

	result, err := h.service.Assess(c.Request.Context(), c.GetString(middleware.ContextUserID), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithCreated(c, result)
}

func (h *Handler) List(c *gin.Context) {
	var filter model.ListRecordsRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		httputil.RespondWithError(c, apperrors.NewBadRequest(err.Error(), err))
		return
	}

	records, err := h.service.List(c.Request.Context(), c.GetString(middleware.ContextUserID), filter)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, records)
}

func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context(), c.GetString(middleware.ContextUserID))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, stats)
}

func (h *Handler) Get(c *gin.Context) {
	result, err := h.service.Get(c.Request.Context(), c.GetString(middleware.ContextUserID), c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, result)
}

// GenerateRecommendations produces a recommendation set for the
// assessment. Repeated calls regenerate; slow older attempts never
// overwrite the newest result.
func (h *Handler) GenerateRecommendations(c *gin.Context) {
	result, err := h.service.Get(c.Request.Context(), c.GetString(middleware.ContextUserID), c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	set, err := h.recommendations.Generate(c.Request.Context(), result)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, set)
}

// DownloadReport renders the assessment as a plain-text clinical
// report. With ?recommendations=true a recommendation set is generated
// and embedded.
func (h *Handler) DownloadReport(c *gin.Context) {
	result, err := h.service.Get(c.Request.Context(), c.GetString(middleware.ContextUserID), c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	var recs *model.RecommendationSet
	if c.Query("recommendations") == "true" {
		recs, err = h.recommendations.Generate(c.Request.Context(), result)
		if err != nil {
			httputil.RespondWithError(c, err)
			return
		}
	}

	text := h.reports.Render(result, recs, c.GetString(middleware.ContextUserEmail))

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", h.reports.Filename(result)))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(text))
}
