package models

// Service is a category of customer request. Name is the kiosk lookup
// key and is unique; ServiceTime is the average handling duration in
// minutes.
type Service struct {
	ServiceID   string `json:"service_id"`
	Tag         string `json:"tag"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	ServiceTime int    `json:"service_time_minutes"`
}
