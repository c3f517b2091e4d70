package storage

import (
	"database/sql"
	"time"
)

// RunSummary is a stored run without its trace and per-signal rows.
type RunSummary struct {
	ID           string    `json:"id"`
	CreatedAt    time.Time `json:"createdAt"`
	Source       string    `json:"source,omitempty"`
	Status       string    `json:"status"`
	NoiseFloor   float64   `json:"noiseFloor"`
	Samples      int       `json:"samples"`
	Signals      int       `json:"signals"`
	Interference int       `json:"interference"`
}

type runData struct {
	ID         string
	CreatedAt  time.Time
	Source     sql.NullString
	Status     string
	NoiseFloor float64
	Delay      float64
	Config     string
}

type featureData struct {
	Index           int
	PeakIndex       int
	FrequencyLower  float64
	FrequencyCenter float64
	FrequencyUpper  float64
	Bandwidth       float64
	PeakPower       float64
	NoiseFloor      float64
	SNR             float64
	ChannelPower    float64
	Satellite       string
}
