package request_models

type RecordEventRequest struct {
	EventType   string                 `json:"event_type" binding:"required"`
	ExhibitSlug string                 `json:"exhibit_slug"`
	Metadata    map[string]interface{} `json:"metadata"`
}
