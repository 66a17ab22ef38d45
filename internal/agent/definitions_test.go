package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefinitionsRoster(t *testing.T) {
	defs, err := LoadDefinitions()
	require.NoError(t, err)
	assert.Equal(t, StudentHubAgent, defs.Coordinator)

	want := map[string][]string{
		StudentHubAgent: {"generate_teacher_report"},
		AcademicAgent:   {"get_homework", "add_homework"},
		WellnessAgent:   {"add_daily_checkin", "get_recent_checkins"},
		GoalAgent:       {"get_goals", "update_goals"},
		AnalyticsAgent:  {"get_recent_checkins", "get_goals", "get_homework"},
		OnboardingAgent: {"get_student_profile", "update_student_profile", "update_goals", "complete_onboarding"},
	}
	for name, tools := range want {
		def, ok := defs.Get(name)
		require.True(t, ok, name)
		assert.Equal(t, tools, def.Tools, name)
	}
	for _, name := range []string{StudentHubAgent, WellnessAgent, AnalyticsAgent} {
		def, _ := defs.Get(name)
		assert.True(t, def.Memory, name)
	}
}

func TestParseDefinitionsRejectsBadRoster(t *testing.T) {
	_, err := ParseDefinitions([]byte("agents:\n  - name: A\n    instruction: x\n  - name: A\n    instruction: y\n"))
	assert.Error(t, err)
	_, err = ParseDefinitions([]byte("coordinator: Missing\nagents:\n  - name: A\n    instruction: x\n"))
	assert.Error(t, err)
	_, err = ParseDefinitions([]byte("agents:\n  - name: A\n"))
	assert.Error(t, err)
}

func TestBindRequiresRegisteredTools(t *testing.T) {
	_, err := Bind(Definition{Name: "A", Tools: []string{"missing"}}, map[string]Tool{})
	assert.Error(t, err)
}
