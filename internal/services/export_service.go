package services

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"gallerytour/internal/repositories"
)

// exportHeader is the contract of the CSV export; column order is part
// of the interface and must not change.
var exportHeader = []string{
	"session_uuid", "ts", "exhibit_slug", "question_id",
	"question_text", "answer_value", "selfeval_json",
}

type ExportServiceInterface interface {
	ListResponses(ctx context.Context, filter repositories.ResponseFilter) ([]repositories.ResponseRow, error)
	StreamCSV(ctx context.Context, w io.Writer, filter repositories.ResponseFilter) error
}

type ExportService struct {
	answerRepo repositories.AnswerRepositoryInterface
}

func NewExportService(answerRepo repositories.AnswerRepositoryInterface) ExportServiceInterface {
	return &ExportService{answerRepo: answerRepo}
}

func (s *ExportService) ListResponses(ctx context.Context, filter repositories.ResponseFilter) ([]repositories.ResponseRow, error) {
	return s.answerRepo.ListResponses(ctx, filter)
}

// StreamCSV writes one row per answer joined with its session and
// question, flushing as it goes so large exports never buffer whole.
func (s *ExportService) StreamCSV(ctx context.Context, w io.Writer, filter repositories.ResponseFilter) error {
	rows, err := s.answerRepo.ListResponses(ctx, filter)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(exportHeader); err != nil {
		return err
	}

	for _, row := range rows {
		record := []string{
			row.SessionUUID,
			row.CreatedAt.UTC().Format(time.RFC3339),
			derefOr(row.ExhibitSlug, ""),
			strconv.FormatUint(uint64(row.QuestionID), 10),
			row.QuestionText,
			answerValue(row),
			string(row.SelfevalJSON),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
		writer.Flush()
	}

	writer.Flush()
	return writer.Error()
}

func answerValue(row repositories.ResponseRow) string {
	if row.ValueText != nil {
		return *row.ValueText
	}
	return string(row.ValueJSON)
}

func derefOr(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}
