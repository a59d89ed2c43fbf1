package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsHighRiskScope(t *testing.T) {
	tests := []struct {
		scope string
		high  bool
	}{
		{"https://www.googleapis.com/auth/drive.readonly", false},
		{"https://www.googleapis.com/auth/userinfo.profile", false},
		{"https://www.googleapis.com/auth/userinfo.email", false},
		{"email", false},
		{"https://www.googleapis.com/auth/drive", true},
		{"https://www.googleapis.com/auth/admin.directory.user", true},
		{"https://www.googleapis.com/auth/gmail.settings.basic", true},
		{"https://mail.google.com/", true},
	}

	for _, tt := range tests {
		t.Run(tt.scope, func(t *testing.T) {
			assert.Equal(t, tt.high, IsHighRiskScope(tt.scope))
		})
	}
}

func TestFormatScopeName(t *testing.T) {
	assert.Equal(t, "drive readonly", FormatScopeName("https://www.googleapis.com/auth/drive.readonly"))
	assert.Equal(t, "admin directory user", FormatScopeName("https://www.googleapis.com/auth/admin.directory.user"))
	assert.Equal(t, "calendar events", FormatScopeName("calendar_events"))
	assert.Equal(t, "openid", FormatScopeName("openid"))
}

func TestAppRisk(t *testing.T) {
	assert.Equal(t, RiskLow, AppRisk(nil))
	assert.Equal(t, RiskLow, AppRisk([]string{
		"https://www.googleapis.com/auth/userinfo.email",
		"https://www.googleapis.com/auth/calendar.readonly",
	}))
	assert.Equal(t, RiskMedium, AppRisk([]string{
		"https://www.googleapis.com/auth/userinfo.email",
		"https://www.googleapis.com/auth/drive",
	}))
	assert.Equal(t, RiskHigh, AppRisk([]string{
		"https://www.googleapis.com/auth/drive",
		"https://www.googleapis.com/auth/admin.directory.user",
	}))
	assert.Equal(t, RiskLow, AppRisk([]string{"https://www.googleapis.com/auth/admin.directory.user.readonly"}))
}

func TestRiskSummary_Add(t *testing.T) {
	var s RiskSummary
	s.Add("Drive Sync", RiskMedium)
	s.Add("Admin Tool", RiskHigh)
	s.Add("Calendar Viewer", RiskLow)
	s.Add("Backup", RiskHigh)

	assert.Equal(t, 1, s.Low)
	assert.Equal(t, 1, s.Medium)
	assert.Equal(t, 2, s.High)
	assert.Equal(t, 4, s.Total())
	assert.Equal(t, []string{"Admin Tool", "Backup"}, s.HighRiskApps)
}

func TestRiskLevel_Label(t *testing.T) {
	assert.Equal(t, "High Risk", RiskHigh.Label())
	assert.Equal(t, "Write Access", RiskMedium.Label())
	assert.Equal(t, "Low Risk", RiskLow.Label())
}

func TestTimelineEvent_Label(t *testing.T) {
	assert.Equal(t, "Access Granted", TimelineEvent{EventType: "authorize"}.Label())
	assert.Equal(t, "Access Granted", TimelineEvent{EventType: "GRANT"}.Label())
	assert.Equal(t, "Access Revoked", TimelineEvent{EventType: "revoke"}.Label())
	assert.Equal(t, "Risk Score Changed", TimelineEvent{EventType: "risk_change"}.Label())
	assert.Equal(t, "token refreshed", TimelineEvent{EventType: "token_refreshed"}.Label())
}

func TestChatReply_Append(t *testing.T) {
	var reply ChatReply
	events := []string{
		`{"type":"llm_start","data":""}`,
		`{"type":"tool_start","data":{"name":"list_apps"}}`,
		`{"type":"tool_end","data":{}}`,
		`{"type":"text","data":"You have "}`,
		`{"type":"text","data":"3 risky apps."}`,
		`{"type":"tool_start","data":{}}`,
		`{"type":"llm_end","data":""}`,
	}

	for _, raw := range events {
		var e ChatEvent
		assert.NoError(t, json.Unmarshal([]byte(raw), &e))
		reply.Append(e)
	}

	assert.Equal(t, "You have 3 risky apps.", reply.Content)
	assert.Equal(t, []string{"list_apps", "tool"}, reply.ToolsUsed)
}

func TestPagination_HasNext(t *testing.T) {
	assert.True(t, Pagination{Page: 1, TotalPages: 3}.HasNext())
	assert.False(t, Pagination{Page: 3, TotalPages: 3}.HasNext())
	assert.False(t, Pagination{Page: 1, TotalPages: 0}.HasNext())
}
