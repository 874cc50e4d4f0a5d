package services

import (
	"testing"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"gallerytour/internal/models/db_models"
	"gallerytour/internal/models/response_models"
	"gallerytour/internal/repositories"
)

func newAnalyticsService(t *testing.T, db *gorm.DB) AnalyticsServiceInterface {
	t.Helper()
	exhibitRepo := repositories.NewExhibitRepository(db)
	content := NewContentService(exhibitRepo, "", newTestLogger(t))
	return NewAnalyticsService(repositories.NewAnalyticsRepository(db), exhibitRepo, content)
}

func seedSessionWithBlob(t *testing.T, db *gorm.DB, selfeval string, createdAt time.Time) *db_models.Session {
	t.Helper()
	session := seedSession(t, db)
	updates := map[string]interface{}{"created_at": createdAt}
	if selfeval != "" {
		updates["selfeval_json"] = datatypes.JSON(selfeval)
	}
	if err := db.Model(session).Updates(updates).Error; err != nil {
		t.Fatalf("set blob: %v", err)
	}
	return session
}

func seedEvent(t *testing.T, db *gorm.DB, sessionID uint, exhibitID *uint, eventType db_models.EventType, at time.Time) {
	t.Helper()
	event := &db_models.Event{
		SessionID: sessionID,
		ExhibitID: exhibitID,
		EventType: eventType,
		Timestamp: at,
	}
	if err := db.Create(event).Error; err != nil {
		t.Fatalf("seed event: %v", err)
	}
}

func TestVisitorCountSkipsEmptyBlobs(t *testing.T) {
	db := newTestDB(t)
	now := time.Now().UTC()

	seedSessionWithBlob(t, db, `{"age":"30"}`, now)
	seedSessionWithBlob(t, db, `{"age":"41"}`, now)
	seedSessionWithBlob(t, db, "", now)     // never submitted
	seedSessionWithBlob(t, db, `{}`, now)   // submitted nothing
	seedSessionWithBlob(t, db, `null`, now) // stored as JSON null

	svc := newAnalyticsService(t, db)
	n, err := svc.VisitorCount(testCtx)
	if err != nil {
		t.Fatalf("visitor count: %v", err)
	}
	if n != 2 {
		t.Fatalf("visitor count = %d, want 2", n)
	}
}

func TestVisitorsOverTimeGroupsByDay(t *testing.T) {
	db := newTestDB(t)
	day1 := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	seedSessionWithBlob(t, db, `{"age":"30"}`, day1)
	seedSessionWithBlob(t, db, `{"age":"31"}`, day1.Add(3*time.Hour))
	seedSessionWithBlob(t, db, `{"age":"32"}`, day2)
	seedSessionWithBlob(t, db, "", day2) // not a visitor

	svc := newAnalyticsService(t, db)
	series, err := svc.VisitorsOverTime(testCtx)
	if err != nil {
		t.Fatalf("visitors over time: %v", err)
	}

	want := []response_models.DateCount{
		{Date: "2026-03-01", Count: 2},
		{Date: "2026-03-02", Count: 1},
	}
	if len(series) != len(want) {
		t.Fatalf("series = %+v, want %+v", series, want)
	}
	for i := range want {
		if series[i] != want[i] {
			t.Fatalf("series[%d] = %+v, want %+v", i, series[i], want[i])
		}
	}
}

func TestExhibitQuestionStatsKeepsZeroAnswerExhibits(t *testing.T) {
	db := newTestDB(t)
	answered := seedExhibit(t, db, "room-1", 1, requiredTextQuestion("Q1"))
	seedExhibit(t, db, "room-2", 2, requiredTextQuestion("Q2"))

	sessionA := seedSession(t, db)
	sessionB := seedSession(t, db)
	value := "yes"
	for _, s := range []*db_models.Session{sessionA, sessionB} {
		answer := &db_models.Answer{
			SessionID:  s.ID,
			QuestionID: answered.Questions[0].ID,
			ValueText:  &value,
		}
		if err := db.Create(answer).Error; err != nil {
			t.Fatalf("seed answer: %v", err)
		}
	}

	svc := newAnalyticsService(t, db)
	stats, err := svc.ExhibitQuestionStats(testCtx)
	if err != nil {
		t.Fatalf("exhibit stats: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("stats = %+v, want both exhibits", stats)
	}
	if stats[0].Slug != "room-1" || stats[0].Sessions != 2 {
		t.Fatalf("room-1 stat = %+v, want 2 sessions", stats[0])
	}
	if stats[1].Slug != "room-2" || stats[1].Sessions != 0 {
		t.Fatalf("room-2 stat = %+v, want 0 sessions", stats[1])
	}
}

func TestSelfevalBreakdownBucketsAndPercentages(t *testing.T) {
	db := newTestDB(t)
	now := time.Now().UTC()

	seedSessionWithBlob(t, db, `{"gender":"female"}`, now)
	seedSessionWithBlob(t, db, `{"gender":"female"}`, now)
	seedSessionWithBlob(t, db, `{"gender":"male"}`, now)
	seedSessionWithBlob(t, db, `{"age":"40"}`, now) // no gender: N/A bucket

	svc := newAnalyticsService(t, db)
	breakdowns, err := svc.DetailedSelfevalStats(testCtx)
	if err != nil {
		t.Fatalf("selfeval stats: %v", err)
	}

	var gender *response_models.FieldBreakdown
	for i := range breakdowns {
		if breakdowns[i].Key == "gender" {
			gender = &breakdowns[i]
		}
	}
	if gender == nil {
		t.Fatalf("no gender breakdown in %+v", breakdowns)
	}
	if gender.Total != 4 {
		t.Fatalf("total = %d, want 4", gender.Total)
	}

	// Sorted by count descending, then value.
	if gender.Values[0].Value != "female" || gender.Values[0].Count != 2 || gender.Values[0].Percent != 50 {
		t.Fatalf("top bucket = %+v", gender.Values[0])
	}

	var percentSum float64
	sawNA := false
	for _, v := range gender.Values {
		percentSum += v.Percent
		if v.Value == "N/A" {
			sawNA = true
		}
	}
	if !sawNA {
		t.Fatal("missing N/A bucket for sessions without the field")
	}
	if percentSum < 99.9 || percentSum > 100.1 {
		t.Fatalf("percentages sum to %f, want 100", percentSum)
	}
}

func TestAverageTimePerExhibit(t *testing.T) {
	db := newTestDB(t)
	exhibit := seedExhibit(t, db, "room-1", 1)
	session := seedSession(t, db)
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	// Two clean views: 30s and 90s. Average 60s.
	seedEvent(t, db, session.ID, &exhibit.ID, db_models.EventViewStart, base)
	seedEvent(t, db, session.ID, &exhibit.ID, db_models.EventViewEnd, base.Add(30*time.Second))
	seedEvent(t, db, session.ID, &exhibit.ID, db_models.EventViewStart, base.Add(5*time.Minute))
	seedEvent(t, db, session.ID, &exhibit.ID, db_models.EventViewEnd, base.Add(5*time.Minute+90*time.Second))
	// An abandoned tab: gap over an hour is discarded.
	seedEvent(t, db, session.ID, &exhibit.ID, db_models.EventViewStart, base.Add(time.Hour))
	seedEvent(t, db, session.ID, &exhibit.ID, db_models.EventViewEnd, base.Add(3*time.Hour))
	// A dangling end with no start is ignored.
	seedEvent(t, db, session.ID, &exhibit.ID, db_models.EventViewEnd, base.Add(4*time.Hour))

	svc := newAnalyticsService(t, db)
	timings, err := svc.AverageTimePerExhibit(testCtx)
	if err != nil {
		t.Fatalf("timings: %v", err)
	}
	if len(timings) != 1 {
		t.Fatalf("timings = %+v, want one exhibit", timings)
	}
	if timings[0].Slug != "room-1" {
		t.Fatalf("slug = %q", timings[0].Slug)
	}
	if got := timings[0].AverageSeconds; got < 59.9 || got > 60.1 {
		t.Fatalf("average = %f, want 60", got)
	}
}

func TestDashboardCompletionRate(t *testing.T) {
	db := newTestDB(t)
	now := time.Now().UTC()

	done := seedSessionWithBlob(t, db, `{"age":"30"}`, now)
	if err := db.Model(done).Update("completed", true).Error; err != nil {
		t.Fatalf("mark completed: %v", err)
	}
	seedSessionWithBlob(t, db, "", now)

	svc := newAnalyticsService(t, db)
	stats, err := svc.Dashboard(testCtx)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if stats.TotalSessions != 2 || stats.CompletedSessions != 1 {
		t.Fatalf("sessions = %d/%d, want 1 of 2 completed", stats.CompletedSessions, stats.TotalSessions)
	}
	if stats.CompletionRate != 50 {
		t.Fatalf("completion rate = %f, want 50", stats.CompletionRate)
	}
	if stats.VisitorCount != 1 {
		t.Fatalf("visitor count = %d, want 1", stats.VisitorCount)
	}
}
