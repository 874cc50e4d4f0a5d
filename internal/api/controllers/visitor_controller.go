package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"

	"gallerytour/internal/models/db_models"
	"gallerytour/internal/models/request_models"
	"gallerytour/internal/services"
	"gallerytour/pkg/middleware"
	"gallerytour/pkg/utils"
)

type VisitorController struct {
	content  services.ContentServiceInterface
	answers  services.AnswerServiceInterface
	feedback services.FeedbackServiceInterface
	events   services.EventServiceInterface
	csrf     services.CSRFServiceInterface
}

func NewVisitorController(
	content services.ContentServiceInterface,
	answers services.AnswerServiceInterface,
	feedback services.FeedbackServiceInterface,
	events services.EventServiceInterface,
	csrf services.CSRFServiceInterface,
) *VisitorController {
	return &VisitorController{
		content:  content,
		answers:  answers,
		feedback: feedback,
		events:   events,
		csrf:     csrf,
	}
}

// Index renders the intro page with a link into the tour.
func (v *VisitorController) Index(c *gin.Context) {
	firstSlug, err := v.content.FirstSlug(c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	c.HTML(http.StatusOK, "index.html", gin.H{
		"first_slug": firstSlug,
	})
}

// SelfevalForm is the one-time gate before the first exhibit; a
// session that already submitted it skips straight to the tour.
func (v *VisitorController) SelfevalForm(c *gin.Context) {
	session := middleware.SessionFromContext(c)
	if session.HasSelfeval() {
		v.redirectToFirstExhibit(c)
		return
	}

	token, err := v.csrf.Issue(session.UUID.String())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	c.HTML(http.StatusOK, "selfeval.html", gin.H{
		"questions":  v.content.SelfevalQuestions(),
		"csrf_token": token,
	})
}

func (v *VisitorController) SubmitSelfeval(c *gin.Context) {
	session := middleware.SessionFromContext(c)

	if err := c.Request.ParseForm(); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid form payload")
		return
	}

	if err := v.feedback.SubmitSelfeval(c.Request.Context(), session, c.Request.PostForm); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	v.redirectToFirstExhibit(c)
}

// ExhibitDetail renders one exhibit with navigation, any answers this
// session already gave, and a fresh form token.
func (v *VisitorController) ExhibitDetail(c *gin.Context) {
	v.renderExhibit(c, c.Param("slug"), http.StatusOK, "")
}

// SubmitExhibitAnswers records the answers and advances the tour;
// validation failures re-render the exhibit with an inline error and
// persist nothing.
func (v *VisitorController) SubmitExhibitAnswers(c *gin.Context) {
	session := middleware.SessionFromContext(c)
	slug := c.Param("slug")

	if err := c.Request.ParseForm(); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid form payload")
		return
	}

	advance, err := v.answers.RecordExhibitAnswers(c.Request.Context(), session, slug, c.Request.PostForm)
	if err != nil {
		var validation *utils.ValidationError
		var likert *utils.LikertRangeError
		switch {
		case errors.As(err, &validation):
			v.renderExhibit(c, slug, http.StatusBadRequest, validation.Error())
		case errors.As(err, &likert):
			v.renderExhibit(c, slug, http.StatusBadRequest, likert.Error())
		default:
			utils.HandleServiceError(c, err)
		}
		return
	}

	if advance.Completed {
		c.Redirect(http.StatusSeeOther, "/exhibition-feedback")
		return
	}
	c.Redirect(http.StatusSeeOther, "/exhibit/"+advance.NextSlug)
}

// ExhibitionFeedbackForm is reached after the last exhibit; a session
// that already submitted feedback skips to thanks.
func (v *VisitorController) ExhibitionFeedbackForm(c *gin.Context) {
	session := middleware.SessionFromContext(c)
	if session.HasExhibitionFeedback() {
		c.Redirect(http.StatusSeeOther, "/thanks")
		return
	}

	token, err := v.csrf.Issue(session.UUID.String())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	c.HTML(http.StatusOK, "exhibition_feedback.html", gin.H{
		"questions":  v.content.FeedbackQuestions(),
		"csrf_token": token,
	})
}

func (v *VisitorController) SubmitExhibitionFeedback(c *gin.Context) {
	session := middleware.SessionFromContext(c)

	if err := c.Request.ParseForm(); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid form payload")
		return
	}

	err := v.feedback.SubmitExhibitionFeedback(c.Request.Context(), session, c.Request.PostForm)
	if err != nil {
		var validation *utils.ValidationError
		var likert *utils.LikertRangeError
		switch {
		case errors.As(err, &validation), errors.As(err, &likert):
			token, issueErr := v.csrf.Issue(session.UUID.String())
			if issueErr != nil {
				utils.HandleServiceError(c, issueErr)
				return
			}
			c.HTML(http.StatusBadRequest, "exhibition_feedback.html", gin.H{
				"questions":  v.content.FeedbackQuestions(),
				"csrf_token": token,
				"error":      err.Error(),
			})
		default:
			utils.HandleServiceError(c, err)
		}
		return
	}

	c.Redirect(http.StatusSeeOther, "/thanks")
}

func (v *VisitorController) Thanks(c *gin.Context) {
	c.HTML(http.StatusOK, "thanks.html", gin.H{})
}

// RecordEvent appends one telemetry event for the current session.
func (v *VisitorController) RecordEvent(c *gin.Context) {
	session := middleware.SessionFromContext(c)

	var req request_models.RecordEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	eventType, ok := db_models.ParseEventType(req.EventType)
	if !ok {
		utils.RespondError(c, http.StatusBadRequest, "Unknown event type")
		return
	}

	var metadata datatypes.JSON
	if req.Metadata != nil {
		raw, err := json.Marshal(req.Metadata)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, "Invalid metadata")
			return
		}
		metadata = datatypes.JSON(raw)
	}

	if err := v.events.Record(c.Request.Context(), session.ID, req.ExhibitSlug, eventType, metadata); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Event recorded")
}

func (v *VisitorController) renderExhibit(c *gin.Context, slug string, status int, errorMessage string) {
	session := middleware.SessionFromContext(c)
	ctx := c.Request.Context()

	exhibit, err := v.content.ExhibitBySlug(ctx, slug)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	answers, err := v.answers.AnswersBySession(ctx, session.ID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	hasAnswered, err := v.answers.HasAnswered(ctx, session.ID, exhibit)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	prevSlug, err := v.content.Previous(ctx, slug)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	nextSlug, err := v.content.Next(ctx, slug)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	token, err := v.csrf.Issue(session.UUID.String())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	c.HTML(status, "exhibit.html", gin.H{
		"exhibit":      exhibit,
		"answers":      answers,
		"has_answered": hasAnswered,
		"prev_slug":    prevSlug,
		"next_slug":    nextSlug,
		"csrf_token":   token,
		"error":        errorMessage,
	})
}

func (v *VisitorController) redirectToFirstExhibit(c *gin.Context) {
	firstSlug, err := v.content.FirstSlug(c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	if firstSlug == "" {
		c.Redirect(http.StatusSeeOther, "/exhibition-feedback")
		return
	}
	c.Redirect(http.StatusSeeOther, "/exhibit/"+firstSlug)
}
