package services

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"
	"time"

	"gorm.io/datatypes"

	"gallerytour/internal/models/db_models"
	"gallerytour/internal/repositories"
	"gallerytour/pkg/utils"
)

// FeedbackServiceInterface covers both one-shot questionnaires: the
// self-evaluation intake before the first exhibit and the exhibition
// feedback after the last one.
type FeedbackServiceInterface interface {
	SubmitSelfeval(ctx context.Context, session *db_models.Session, form url.Values) error
	SubmitExhibitionFeedback(ctx context.Context, session *db_models.Session, form url.Values) error
}

type FeedbackService struct {
	sessionRepo repositories.SessionRepositoryInterface
	content     ContentServiceInterface
}

func NewFeedbackService(sessionRepo repositories.SessionRepositoryInterface, content ContentServiceInterface) FeedbackServiceInterface {
	return &FeedbackService{sessionRepo: sessionRepo, content: content}
}

// SubmitSelfeval stores the whole posted form as one opaque JSON
// object. Re-entry after a successful submission is a no-op.
func (s *FeedbackService) SubmitSelfeval(ctx context.Context, session *db_models.Session, form url.Values) error {
	if session.HasSelfeval() {
		return nil
	}

	payload := formToMap(form)
	blob, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	if err := s.sessionRepo.SetSelfeval(ctx, session.ID, datatypes.JSON(blob)); err != nil {
		return err
	}
	session.SelfevalJSON = datatypes.JSON(blob)
	return nil
}

// SubmitExhibitionFeedback validates against the feedback manifest and
// stores answers plus a submission timestamp. A second POST fails hard
// instead of silently overwriting.
func (s *FeedbackService) SubmitExhibitionFeedback(ctx context.Context, session *db_models.Session, form url.Values) error {
	if session.HasExhibitionFeedback() {
		return utils.ErrAlreadySubmitted
	}

	questions := s.content.FeedbackQuestions()
	payload := make(map[string]interface{}, len(questions)+1)
	var missing []utils.MissingQuestion

	for _, q := range questions {
		values := presentValues(form[q.ID])
		if len(values) == 0 {
			if q.Required {
				missing = append(missing, utils.MissingQuestion{Text: q.Text})
			}
			continue
		}

		switch q.Type {
		case string(db_models.QuestionLikert):
			min, max := q.Options.LikertRange()
			n, err := strconv.Atoi(strings.TrimSpace(values[0]))
			if err != nil || n < min || n > max {
				return &utils.LikertRangeError{QuestionID: q.ID, Min: min, Max: max}
			}
			payload[q.ID] = n
		case string(db_models.QuestionMulti):
			payload[q.ID] = values
		default:
			payload[q.ID] = values[0]
		}
	}

	if len(missing) > 0 {
		return &utils.ValidationError{Missing: missing}
	}

	payload["submitted_at"] = time.Now().UTC().Format(time.RFC3339)
	blob, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	if err := s.sessionRepo.SetExhibitionFeedback(ctx, session.ID, datatypes.JSON(blob)); err != nil {
		return err
	}
	session.ExhibitionFeedbackJSON = datatypes.JSON(blob)
	return nil
}

// formToMap collapses the form into an opaque JSON object; repeated
// fields become arrays. The CSRF token is transport, not data.
func formToMap(form url.Values) map[string]interface{} {
	payload := make(map[string]interface{}, len(form))
	for key, values := range form {
		if key == "csrf_token" {
			continue
		}
		cleaned := presentValues(values)
		switch len(cleaned) {
		case 0:
			continue
		case 1:
			payload[key] = cleaned[0]
		default:
			payload[key] = cleaned
		}
	}
	return payload
}
