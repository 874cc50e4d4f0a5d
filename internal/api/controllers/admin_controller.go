package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"gallerytour/internal/repositories"
	"gallerytour/internal/services"
	"gallerytour/pkg/logger"
	"gallerytour/pkg/utils"
)

type AdminController struct {
	analytics services.AnalyticsServiceInterface
	export    services.ExportServiceInterface
	log       *logger.Logger
}

func NewAdminController(
	analytics services.AnalyticsServiceInterface,
	export services.ExportServiceInterface,
	log *logger.Logger,
) *AdminController {
	return &AdminController{analytics: analytics, export: export, log: log}
}

// Dashboard recomputes all statistics from scratch on every load.
func (a *AdminController) Dashboard(c *gin.Context) {
	stats, err := a.analytics.Dashboard(c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	c.HTML(http.StatusOK, "admin_dashboard.html", gin.H{
		"stats": stats,
	})
}

// Responses renders the filterable answer table.
func (a *AdminController) Responses(c *gin.Context) {
	filter, ok := parseResponseFilter(c)
	if !ok {
		return
	}

	rows, err := a.export.ListResponses(c.Request.Context(), filter)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	c.HTML(http.StatusOK, "admin_responses.html", gin.H{
		"responses":         rows,
		"selected_exhibit":  c.Query("exhibit_id"),
		"selected_question": c.Query("question_id"),
	})
}

// ExportCSV streams every answer joined with its session and question.
func (a *AdminController) ExportCSV(c *gin.Context) {
	filter, ok := parseResponseFilter(c)
	if !ok {
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="export.csv"`)

	if err := a.export.StreamCSV(c.Request.Context(), c.Writer, filter); err != nil {
		// headers may already be out; log instead of re-rendering
		a.log.Error("csv export failed", "error", err)
	}
}

func parseResponseFilter(c *gin.Context) (repositories.ResponseFilter, bool) {
	var filter repositories.ResponseFilter

	if raw := c.Query("exhibit_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, "Invalid exhibit id")
			return filter, false
		}
		v := uint(id)
		filter.ExhibitID = &v
	}

	if raw := c.Query("question_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, "Invalid question id")
			return filter, false
		}
		v := uint(id)
		filter.QuestionID = &v
	}

	return filter, true
}
