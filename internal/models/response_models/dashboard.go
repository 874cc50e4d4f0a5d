package response_models

// DateCount is one point of the visitors-over-time series.
type DateCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// FieldValueStat is one bucket of a value histogram. Percent is the
// share of the qualifying population; the buckets of one breakdown
// always sum to 100%.
type FieldValueStat struct {
	Value   string  `json:"value"`
	Count   int64   `json:"count"`
	Percent float64 `json:"percent"`
}

// FieldBreakdown is the distribution of one selfeval field or feedback
// question across all qualifying sessions. Sessions without the key
// land in the explicit "N/A" bucket.
type FieldBreakdown struct {
	Key    string           `json:"key"`
	Text   string           `json:"text,omitempty"`
	Total  int64            `json:"total"`
	Values []FieldValueStat `json:"values"`
}

// ExhibitStat counts distinct sessions that answered at least one of
// the exhibit's questions.
type ExhibitStat struct {
	Slug     string `json:"slug"`
	Title    string `json:"title"`
	Sessions int64  `json:"sessions"`
}

// ExhibitTiming is the average dwell time derived from paired
// view_start/view_end events.
type ExhibitTiming struct {
	Slug           string  `json:"slug"`
	Title          string  `json:"title"`
	AverageSeconds float64 `json:"average_seconds"`
}

type DashboardStats struct {
	TotalSessions     int64            `json:"total_sessions"`
	CompletedSessions int64            `json:"completed_sessions"`
	CompletionRate    float64          `json:"completion_rate"`
	VisitorCount      int64            `json:"visitor_count"`
	VisitorsOverTime  []DateCount      `json:"visitors_over_time"`
	ExhibitStats      []ExhibitStat    `json:"exhibit_stats"`
	SelfevalStats     []FieldBreakdown `json:"selfeval_stats"`
	FeedbackStats     []FieldBreakdown `json:"feedback_stats"`
	ExhibitTimings    []ExhibitTiming  `json:"exhibit_timings"`
}
