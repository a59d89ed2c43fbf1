package domain

import "strings"

// RiskLevel is the coarse risk of an app, derived from its scopes.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Label returns a human-readable label.
func (r RiskLevel) Label() string {
	switch r {
	case RiskHigh:
		return "High Risk"
	case RiskMedium:
		return "Write Access"
	default:
		return "Low Risk"
	}
}

// IsHighRiskScope reports whether an OAuth scope grants more than read access.
// Read-only, userinfo and email scopes are low risk; everything else is not.
func IsHighRiskScope(scope string) bool {
	lower := strings.ToLower(scope)
	if strings.Contains(lower, "readonly") {
		return false
	}
	if strings.Contains(lower, "userinfo") || strings.Contains(lower, "email") {
		return false
	}
	return true
}

// isAdminScope reports whether a scope touches tenant administration or settings.
func isAdminScope(scope string) bool {
	lower := strings.ToLower(scope)
	return IsHighRiskScope(scope) &&
		(strings.Contains(lower, "admin") || strings.Contains(lower, "settings"))
}

// FormatScopeName turns a scope URL into a short readable name,
// e.g. "https://www.googleapis.com/auth/drive.readonly" becomes "drive readonly".
func FormatScopeName(scope string) string {
	parts := strings.Split(scope, "/")
	name := parts[len(parts)-1]
	name = strings.ReplaceAll(name, "_", " ")
	name = strings.ReplaceAll(name, ".", " ")
	return strings.Replace(name, "auth ", "", 1)
}

// AppRisk classifies a set of granted scopes.
func AppRisk(scopes []string) RiskLevel {
	level := RiskLow
	for _, s := range scopes {
		if isAdminScope(s) {
			return RiskHigh
		}
		if IsHighRiskScope(s) {
			level = RiskMedium
		}
	}
	return level
}

// RiskSummary counts apps per risk level.
type RiskSummary struct {
	Low    int `json:"low"`
	Medium int `json:"medium"`
	High   int `json:"high"`
	// HighRiskApps lists the names of high risk apps.
	HighRiskApps []string `json:"high_risk_apps,omitempty"`
}

// Add counts one app.
func (s *RiskSummary) Add(name string, level RiskLevel) {
	switch level {
	case RiskHigh:
		s.High++
		s.HighRiskApps = append(s.HighRiskApps, name)
	case RiskMedium:
		s.Medium++
	default:
		s.Low++
	}
}

// Total returns the number of apps counted.
func (s RiskSummary) Total() int {
	return s.Low + s.Medium + s.High
}
