package domain

// RiskLevel grades how close a plan is to missing its booking lead times.
type RiskLevel string

const (
	RiskCritical RiskLevel = "critical"
	RiskAtRisk   RiskLevel = "at_risk"
	RiskOnTrack  RiskLevel = "on_track"
	// RiskUnknown means the plan has no planned date to measure against.
	RiskUnknown RiskLevel = "unknown"
)
