package models

import "time"

// Pipeline stage names, in execution order
const (
	StageFundamental    = "fundamental"
	StageTechnical      = "technical"
	StageRecommendation = "recommendation"
)

// AnalysisReport holds the output of a full three-stage analysis run
type AnalysisReport struct {
	ID          string    `json:"id"`
	Ticker      string    `json:"ticker"`
	Name        string    `json:"name"`
	GeneratedAt time.Time `json:"generated_at"`
	Elapsed     string    `json:"elapsed"`
	Model       string    `json:"model"`

	// Inputs snapshot
	Signals *TickerSignals    `json:"signals,omitempty"`
	Metrics *ValuationMetrics `json:"metrics,omitempty"`

	// Narrative stage outputs, in pipeline order
	Fundamental    string `json:"fundamental"`
	Technical      string `json:"technical"`
	Recommendation string `json:"recommendation"`

	// Rendered artifacts
	Markdown  string `json:"markdown"`
	ChartPath string `json:"chart_path,omitempty"`
}
