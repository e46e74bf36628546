package models

// Report is the persisted unit. Field names on the wire match the original
// reports.json layout. Records are immutable once appended.
type Report struct {
	Category  string             `json:"category"`
	Heading   string             `json:"heading"`
	Body      string             `json:"body"`
	Location  string             `json:"location"`
	Date      string             `json:"date"`
	Score     float64            `json:"score"`
	Status    string             `json:"status"`
	Reason    string             `json:"reason"`
	Breakdown map[string]float64 `json:"breakdown,omitempty"`
	HashID    string             `json:"hash_id"`
	File      *string            `json:"file"`
	Entities  []string           `json:"entities,omitempty"`
}

// DateLayout is the second-precision timestamp assigned at ingestion time.
const DateLayout = "2006-01-02 15:04:05"
