package dto

import "time"

// AnalyticsQuery represents the query parameters for event analytics
type AnalyticsQuery struct {
	Date string `form:"date"`
}

// Validate validates the AnalyticsQuery
func (q *AnalyticsQuery) Validate() (bool, string) {
	if q.Date == "" {
		return true, ""
	}
	if _, err := time.Parse("2006-01-02", q.Date); err != nil {
		return false, "Date must be in YYYY-MM-DD format"
	}
	return true, ""
}

// HourlyBucket is one bar of the check-in histogram
type HourlyBucket struct {
	Hour  int    `json:"hour"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

// AnalyticsResponse summarizes attendance for an event
type AnalyticsResponse struct {
	EventID        string         `json:"event_id"`
	TotalGuests    int            `json:"total_guests"`
	CheckedIn      int            `json:"checked_in"`
	CheckedOut     int            `json:"checked_out"`
	Pending        int            `json:"pending"`
	HourlyCheckIns []HourlyBucket `json:"hourly_check_ins"`

	// ActivityFeed carries the most recent ledger entries, newest first
	ActivityFeed []*ActivityLogResponse `json:"activity_feed"`
}
