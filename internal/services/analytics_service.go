package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"gorm.io/datatypes"

	"gallerytour/internal/models/db_models"
	"gallerytour/internal/models/response_models"
	"gallerytour/internal/repositories"
)

// maxPlausibleDwell caps view_start/view_end pairing; longer gaps are
// abandoned tabs, not dwell time.
const maxPlausibleDwell = time.Hour

// AnalyticsServiceInterface recomputes every dashboard figure from the
// live tables on each call; there is no cache to invalidate.
type AnalyticsServiceInterface interface {
	Dashboard(ctx context.Context) (*response_models.DashboardStats, error)
	VisitorCount(ctx context.Context) (int64, error)
	VisitorsOverTime(ctx context.Context) ([]response_models.DateCount, error)
	ExhibitQuestionStats(ctx context.Context) ([]response_models.ExhibitStat, error)
	DetailedSelfevalStats(ctx context.Context) ([]response_models.FieldBreakdown, error)
	EnhancedExhibitionFeedbackStats(ctx context.Context) ([]response_models.FieldBreakdown, error)
	AverageTimePerExhibit(ctx context.Context) ([]response_models.ExhibitTiming, error)
}

type AnalyticsService struct {
	analyticsRepo repositories.AnalyticsRepositoryInterface
	exhibitRepo   repositories.ExhibitRepositoryInterface
	content       ContentServiceInterface
}

func NewAnalyticsService(
	analyticsRepo repositories.AnalyticsRepositoryInterface,
	exhibitRepo repositories.ExhibitRepositoryInterface,
	content ContentServiceInterface,
) AnalyticsServiceInterface {
	return &AnalyticsService{
		analyticsRepo: analyticsRepo,
		exhibitRepo:   exhibitRepo,
		content:       content,
	}
}

func (s *AnalyticsService) Dashboard(ctx context.Context) (*response_models.DashboardStats, error) {
	total, err := s.analyticsRepo.CountSessions(ctx)
	if err != nil {
		return nil, err
	}
	completed, err := s.analyticsRepo.CountCompletedSessions(ctx)
	if err != nil {
		return nil, err
	}

	visitorCount, err := s.VisitorCount(ctx)
	if err != nil {
		return nil, err
	}
	overTime, err := s.VisitorsOverTime(ctx)
	if err != nil {
		return nil, err
	}
	exhibitStats, err := s.ExhibitQuestionStats(ctx)
	if err != nil {
		return nil, err
	}
	selfevalStats, err := s.DetailedSelfevalStats(ctx)
	if err != nil {
		return nil, err
	}
	feedbackStats, err := s.EnhancedExhibitionFeedbackStats(ctx)
	if err != nil {
		return nil, err
	}
	timings, err := s.AverageTimePerExhibit(ctx)
	if err != nil {
		return nil, err
	}

	rate := 0.0
	if total > 0 {
		rate = float64(completed) / float64(total) * 100
	}

	return &response_models.DashboardStats{
		TotalSessions:     total,
		CompletedSessions: completed,
		CompletionRate:    rate,
		VisitorCount:      visitorCount,
		VisitorsOverTime:  overTime,
		ExhibitStats:      exhibitStats,
		SelfevalStats:     selfevalStats,
		FeedbackStats:     feedbackStats,
		ExhibitTimings:    timings,
	}, nil
}

// VisitorCount: a visitor is a session that actually submitted the
// intake form. Empty blobs do not count.
func (s *AnalyticsService) VisitorCount(ctx context.Context) (int64, error) {
	rows, err := s.analyticsRepo.SessionBlobs(ctx)
	if err != nil {
		return 0, err
	}
	var n int64
	for _, row := range rows {
		if db_models.JSONBlobPresent(row.SelfevalJSON) {
			n++
		}
	}
	return n, nil
}

func (s *AnalyticsService) VisitorsOverTime(ctx context.Context) ([]response_models.DateCount, error) {
	rows, err := s.analyticsRepo.SessionBlobs(ctx)
	if err != nil {
		return nil, err
	}
	counts := map[string]int64{}
	for _, row := range rows {
		if !db_models.JSONBlobPresent(row.SelfevalJSON) {
			continue
		}
		counts[row.CreatedAt.UTC().Format("2006-01-02")]++
	}

	days := make([]string, 0, len(counts))
	for d := range counts {
		days = append(days, d)
	}
	sort.Strings(days)

	out := make([]response_models.DateCount, 0, len(days))
	for _, d := range days {
		out = append(out, response_models.DateCount{Date: d, Count: counts[d]})
	}
	return out, nil
}

func (s *AnalyticsService) ExhibitQuestionStats(ctx context.Context) ([]response_models.ExhibitStat, error) {
	rows, err := s.analyticsRepo.ExhibitAnswerCounts(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]response_models.ExhibitStat, 0, len(rows))
	for _, row := range rows {
		out = append(out, response_models.ExhibitStat{
			Slug:     row.Slug,
			Title:    row.Title,
			Sessions: row.SessionCount,
		})
	}
	return out, nil
}

func (s *AnalyticsService) DetailedSelfevalStats(ctx context.Context) ([]response_models.FieldBreakdown, error) {
	rows, err := s.analyticsRepo.SessionBlobs(ctx)
	if err != nil {
		return nil, err
	}
	blobs := make([]datatypes.JSON, 0, len(rows))
	for _, row := range rows {
		if db_models.JSONBlobPresent(row.SelfevalJSON) {
			blobs = append(blobs, row.SelfevalJSON)
		}
	}
	return breakdowns(blobs, manifestKeys(s.content.SelfevalQuestions())), nil
}

func (s *AnalyticsService) EnhancedExhibitionFeedbackStats(ctx context.Context) ([]response_models.FieldBreakdown, error) {
	rows, err := s.analyticsRepo.SessionBlobs(ctx)
	if err != nil {
		return nil, err
	}
	blobs := make([]datatypes.JSON, 0, len(rows))
	for _, row := range rows {
		if db_models.JSONBlobPresent(row.ExhibitionFeedbackJSON) {
			blobs = append(blobs, row.ExhibitionFeedbackJSON)
		}
	}
	return breakdowns(blobs, manifestKeys(s.content.FeedbackQuestions())), nil
}

func (s *AnalyticsService) AverageTimePerExhibit(ctx context.Context) ([]response_models.ExhibitTiming, error) {
	events, err := s.analyticsRepo.ViewEvents(ctx)
	if err != nil {
		return nil, err
	}
	exhibits, err := s.exhibitRepo.ListOrdered(ctx)
	if err != nil {
		return nil, err
	}

	durations := pairViewDurations(events)

	out := make([]response_models.ExhibitTiming, 0, len(durations))
	for _, exhibit := range exhibits {
		samples := durations[exhibit.ID]
		if len(samples) == 0 {
			continue
		}
		var sum float64
		for _, d := range samples {
			sum += d.Seconds()
		}
		out = append(out, response_models.ExhibitTiming{
			Slug:           exhibit.Slug,
			Title:          exhibit.Title,
			AverageSeconds: sum / float64(len(samples)),
		})
	}
	return out, nil
}

// pairViewDurations matches every view_start with the earliest
// view_end that follows it for the same session and exhibit.
func pairViewDurations(events []repositories.ViewEventRow) map[uint][]time.Duration {
	type key struct {
		session uint
		exhibit uint
	}
	grouped := map[key][]repositories.ViewEventRow{}
	for _, e := range events {
		if e.ExhibitID == nil {
			continue
		}
		k := key{session: e.SessionID, exhibit: *e.ExhibitID}
		grouped[k] = append(grouped[k], e)
	}

	durations := map[uint][]time.Duration{}
	for k, group := range grouped {
		// rows arrive ordered by timestamp from the repository
		var pendingStart *time.Time
		for _, e := range group {
			switch e.EventType {
			case db_models.EventViewStart:
				t := e.Timestamp
				pendingStart = &t
			case db_models.EventViewEnd:
				if pendingStart == nil {
					continue
				}
				diff := e.Timestamp.Sub(*pendingStart)
				if diff > 0 && diff < maxPlausibleDwell {
					durations[k.exhibit] = append(durations[k.exhibit], diff)
				}
				pendingStart = nil
			}
		}
	}
	return durations
}

func manifestKeys(questions []ManifestQuestion) []manifestKey {
	keys := make([]manifestKey, 0, len(questions))
	for _, q := range questions {
		keys = append(keys, manifestKey{ID: q.ID, Text: q.Text})
	}
	return keys
}

type manifestKey struct {
	ID   string
	Text string
}

// breakdowns builds one value histogram per known key over the
// qualifying blobs. Keys default to the union observed in the data
// when no manifest names them. A blob missing the key falls into the
// "N/A" bucket, so every qualifying session is counted exactly once
// and the percentages close at 100.
func breakdowns(blobs []datatypes.JSON, keys []manifestKey) []response_models.FieldBreakdown {
	decoded := make([]map[string]interface{}, 0, len(blobs))
	for _, blob := range blobs {
		var m map[string]interface{}
		if err := json.Unmarshal(blob, &m); err != nil || m == nil {
			continue
		}
		decoded = append(decoded, m)
	}

	if len(keys) == 0 {
		keys = observedKeys(decoded)
	}

	out := make([]response_models.FieldBreakdown, 0, len(keys))
	for _, key := range keys {
		counts := map[string]int64{}
		for _, m := range decoded {
			counts[displayValue(m[key.ID])]++
		}

		values := make([]string, 0, len(counts))
		for v := range counts {
			values = append(values, v)
		}
		sort.Slice(values, func(i, j int) bool {
			if counts[values[i]] != counts[values[j]] {
				return counts[values[i]] > counts[values[j]]
			}
			return values[i] < values[j]
		})

		total := int64(len(decoded))
		stats := make([]response_models.FieldValueStat, 0, len(values))
		for _, v := range values {
			percent := 0.0
			if total > 0 {
				percent = float64(counts[v]) / float64(total) * 100
			}
			stats = append(stats, response_models.FieldValueStat{
				Value:   v,
				Count:   counts[v],
				Percent: percent,
			})
		}
		out = append(out, response_models.FieldBreakdown{
			Key:    key.ID,
			Text:   key.Text,
			Total:  total,
			Values: stats,
		})
	}
	return out
}

func observedKeys(decoded []map[string]interface{}) []manifestKey {
	seen := map[string]struct{}{}
	for _, m := range decoded {
		for k := range m {
			if k == "submitted_at" {
				continue
			}
			seen[k] = struct{}{}
		}
	}
	ids := make([]string, 0, len(seen))
	for k := range seen {
		ids = append(ids, k)
	}
	sort.Strings(ids)

	keys := make([]manifestKey, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, manifestKey{ID: id})
	}
	return keys
}

// displayValue flattens a JSON value into a histogram bucket label.
// Absent or unrecognized values bucket as "N/A".
func displayValue(v interface{}) string {
	switch value := v.(type) {
	case nil:
		return "N/A"
	case string:
		if strings.TrimSpace(value) == "" {
			return "N/A"
		}
		return value
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(value)
	case []interface{}:
		if len(value) == 0 {
			return "N/A"
		}
		parts := make([]string, 0, len(value))
		for _, item := range value {
			parts = append(parts, displayValue(item))
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprintf("%v", value)
	}
}
