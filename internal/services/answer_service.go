package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"gorm.io/datatypes"

	"gallerytour/internal/models/db_models"
	"gallerytour/internal/repositories"
	"gallerytour/pkg/utils"
)

// Advance tells the HTTP layer where the visitor goes after a
// successful (or already-recorded) submission.
type Advance struct {
	NextSlug  string // empty when the tour is finished
	Completed bool   // true once the last exhibit is behind the visitor
}

type AnswerServiceInterface interface {
	RecordExhibitAnswers(ctx context.Context, session *db_models.Session, slug string, form url.Values) (*Advance, error)
	AnswersBySession(ctx context.Context, sessionID uint) (map[uint]string, error)
	HasAnswered(ctx context.Context, sessionID uint, exhibit *db_models.Exhibit) (bool, error)
}

type AnswerService struct {
	exhibitRepo repositories.ExhibitRepositoryInterface
	answerRepo  repositories.AnswerRepositoryInterface
	sessionRepo repositories.SessionRepositoryInterface
	content     ContentServiceInterface
}

func NewAnswerService(
	exhibitRepo repositories.ExhibitRepositoryInterface,
	answerRepo repositories.AnswerRepositoryInterface,
	sessionRepo repositories.SessionRepositoryInterface,
	content ContentServiceInterface,
) AnswerServiceInterface {
	return &AnswerService{
		exhibitRepo: exhibitRepo,
		answerRepo:  answerRepo,
		sessionRepo: sessionRepo,
		content:     content,
	}
}

// RecordExhibitAnswers validates and persists one exhibit submission.
// Required questions left blank abort the whole submission with a
// ValidationError; nothing is persisted partially. A re-submission for
// an exhibit this session already answered is a no-op that still
// advances.
func (s *AnswerService) RecordExhibitAnswers(ctx context.Context, session *db_models.Session, slug string, form url.Values) (*Advance, error) {
	exhibit, err := s.exhibitRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	answered, err := s.HasAnswered(ctx, session.ID, exhibit)
	if err != nil {
		return nil, err
	}
	if answered {
		return s.advance(ctx, session, slug)
	}

	var missing []utils.MissingQuestion
	var answers []db_models.Answer

	for _, question := range exhibit.Questions {
		values := presentValues(form[fmt.Sprintf("q_%d", question.ID)])

		answer, ok, err := buildAnswer(session.ID, question, values)
		if err != nil {
			return nil, err
		}
		if !ok {
			if question.Required {
				missing = append(missing, utils.MissingQuestion{ID: question.ID, Text: question.Text})
			}
			continue
		}
		answers = append(answers, answer)
	}

	if len(missing) > 0 {
		return nil, &utils.ValidationError{Missing: missing}
	}

	if err := s.answerRepo.UpsertAll(ctx, answers); err != nil {
		return nil, err
	}

	return s.advance(ctx, session, slug)
}

// buildAnswer maps a submitted value onto its storage shape by question
// type. This switch is the single place deciding shape and validity.
func buildAnswer(sessionID uint, question db_models.Question, values []string) (db_models.Answer, bool, error) {
	answer := db_models.Answer{SessionID: sessionID, QuestionID: question.ID}
	if len(values) == 0 {
		return answer, false, nil
	}

	switch question.Type {
	case db_models.QuestionMulti:
		raw, err := json.Marshal(values)
		if err != nil {
			return answer, false, err
		}
		answer.ValueJSON = datatypes.JSON(raw)
	case db_models.QuestionLikert:
		min, max := likertRangeFromOptions(question.OptionsJSON)
		trimmed := strings.TrimSpace(values[0])
		n, err := strconv.Atoi(trimmed)
		if err != nil || n < min || n > max {
			return answer, false, &utils.LikertRangeError{
				QuestionID: fmt.Sprintf("q_%d", question.ID),
				Min:        min,
				Max:        max,
			}
		}
		answer.ValueText = &trimmed
	case db_models.QuestionSingle, db_models.QuestionText:
		v := values[0]
		answer.ValueText = &v
	default:
		return answer, false, fmt.Errorf("unhandled question type %q", question.Type)
	}

	return answer, true, nil
}

func likertRangeFromOptions(options datatypes.JSON) (int, int) {
	r := db_models.LikertRange{Min: 1, Max: 5}
	if len(options) > 0 {
		// Malformed options keep the default range.
		_ = json.Unmarshal(options, &r)
		if r.Min == 0 && r.Max == 0 {
			r.Min, r.Max = 1, 5
		}
	}
	return r.Min, r.Max
}

func presentValues(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}

// HasAnswered: one answer among the exhibit's questions means the
// exhibit counts as submitted for this session.
func (s *AnswerService) HasAnswered(ctx context.Context, sessionID uint, exhibit *db_models.Exhibit) (bool, error) {
	ids := make([]uint, 0, len(exhibit.Questions))
	for _, q := range exhibit.Questions {
		ids = append(ids, q.ID)
	}
	n, err := s.answerRepo.CountForQuestions(ctx, sessionID, ids)
	return n > 0, err
}

// AnswersBySession maps question id to the stored display value, used
// to re-render an already answered exhibit.
func (s *AnswerService) AnswersBySession(ctx context.Context, sessionID uint) (map[uint]string, error) {
	answers, err := s.answerRepo.ListForSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	out := make(map[uint]string, len(answers))
	for _, a := range answers {
		if a.ValueText != nil {
			out[a.QuestionID] = *a.ValueText
			continue
		}
		out[a.QuestionID] = string(a.ValueJSON)
	}
	return out, nil
}

func (s *AnswerService) advance(ctx context.Context, session *db_models.Session, slug string) (*Advance, error) {
	next, err := s.content.Next(ctx, slug)
	if err != nil {
		return nil, err
	}
	if next != "" {
		return &Advance{NextSlug: next}, nil
	}

	if !session.Completed {
		if err := s.sessionRepo.SetCompleted(ctx, session.ID); err != nil {
			return nil, err
		}
		session.Completed = true
	}
	return &Advance{Completed: true}, nil
}
