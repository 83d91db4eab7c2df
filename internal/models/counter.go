package models

// Counter is a physical service point. Services holds the IDs of the
// services it can handle, in configured order; that order is
// significant for the scheduler tie-break.
type Counter struct {
	CounterID string   `json:"counter_id"`
	Name      string   `json:"name"`
	Active    bool     `json:"active"`
	Services  []string `json:"services,omitempty"`
}
