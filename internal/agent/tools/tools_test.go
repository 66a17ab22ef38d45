package tools

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/mentor-backend/internal/agent"
	"github.com/yungbote/mentor-backend/internal/platform/docstore"
	"github.com/yungbote/mentor-backend/internal/platform/logger"
	"github.com/yungbote/mentor-backend/internal/repos"
	"github.com/yungbote/mentor-backend/internal/services"
)

type stubReports struct {
	studentID, prompt string
	err               error
}

func (s *stubReports) RunReport(_ context.Context, studentID, prompt string) (string, error) {
	s.studentID, s.prompt = studentID, prompt
	if s.err != nil {
		return "", s.err
	}
	return "doing fine", nil
}

type fixture struct {
	tools  map[string]agent.Tool
	memory agent.MemoryBank
	store  *docstore.MemoryStore
}

func newFixture(t *testing.T, reports ReportRunner) *fixture {
	t.Helper()
	store := docstore.NewMemoryStore()
	log := logger.Nop()
	profiles := repos.NewProfileRepo(store, log)
	assignments := repos.NewAssignmentRepo(store, log)
	submissions := repos.NewSubmissionRepo(store, log)
	memory := agent.NewMemoryBank(10)
	return &fixture{
		tools: Registry(Deps{
			Profiles: services.NewProfileService(log, profiles),
			Goals:    services.NewGoalService(log, profiles),
			Checkins: services.NewCheckinService(log, repos.NewCheckinRepo(store, log)),
			Homework: services.NewHomeworkService(log, assignments, submissions),
			Memory:   memory,
			Reports:  reports,
		}),
		memory: memory,
		store:  store,
	}
}

func (f *fixture) call(t *testing.T, name, studentID, args string) (map[string]any, error) {
	t.Helper()
	tool, ok := f.tools[name]
	require.True(t, ok, "tool %s not registered", name)
	out, err := tool.Call(context.Background(), agent.Session{ID: "chat:" + studentID, StudentID: studentID}, json.RawMessage(args))
	if err != nil {
		return nil, err
	}
	var res map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	return res, nil
}

func kindOf(err error) Kind {
	var te *Error
	if errors.As(err, &te) {
		return te.Kind
	}
	return ""
}

func TestRegistryNamesMatchSpecs(t *testing.T) {
	f := newFixture(t, nil)
	assert.Len(t, f.tools, 10)
	for name, tool := range f.tools {
		assert.Equal(t, name, tool.Spec().Name)
		assert.Equal(t, "object", tool.Spec().Parameters["type"])
	}
}

func TestGoalsTools(t *testing.T) {
	f := newFixture(t, nil)

	res, err := f.call(t, "get_goals", "s1", `{}`)
	require.NoError(t, err)
	assert.Nil(t, res["goals"])

	res, err = f.call(t, "update_goals", "s1", `{"goals":["read more","sleep by 11"]}`)
	require.NoError(t, err)
	assert.Equal(t, []any{"read more", "sleep by 11"}, res["goals"])

	res, err = f.call(t, "get_goals", "s1", ``)
	require.NoError(t, err)
	assert.Equal(t, []any{"read more", "sleep by 11"}, res["goals"])

	_, err = f.call(t, "update_goals", "s1", `{}`)
	assert.Equal(t, KindInvalidInput, kindOf(err))
	_, err = f.call(t, "update_goals", "s1", `{"goals":"nope"}`)
	assert.Equal(t, KindInvalidInput, kindOf(err))
}

func TestAddDailyCheckinWritesMemory(t *testing.T) {
	f := newFixture(t, nil)
	res, err := f.call(t, "add_daily_checkin", "s1", `{"mood":"tired","win":"finished essay","sleep_hours":6.5}`)
	require.NoError(t, err)
	assert.Contains(t, res["message"], "Daily check-in stored with id")

	mem, err := f.memory.Recent(context.Background(), "s1", 5)
	require.NoError(t, err)
	require.Len(t, mem, 1)
	assert.Contains(t, mem[0], "tired")
	assert.Contains(t, mem[0], "finished essay")

	res, err = f.call(t, "get_recent_checkins", "s1", `{"limit":3}`)
	require.NoError(t, err)
	list := res["checkins"].([]any)
	require.Len(t, list, 1)
	assert.Equal(t, "s1", list[0].(map[string]any)["studentId"])
}

func TestAddDailyCheckinRejectsBadInput(t *testing.T) {
	f := newFixture(t, nil)
	for _, args := range []string{`{}`, `{"mood":"  "}`, `{"mood":"ok","sleep_hours":30}`, `[1,2]`} {
		_, err := f.call(t, "add_daily_checkin", "s1", args)
		assert.Equal(t, KindInvalidInput, kindOf(err), args)
	}
	mem, err := f.memory.Recent(context.Background(), "s1", 5)
	require.NoError(t, err)
	assert.Empty(t, mem)
}

func TestHomeworkTools(t *testing.T) {
	f := newFixture(t, nil)
	res, err := f.call(t, "add_homework", "s1", `{"title":"Algebra","dueDate":"2026-11-01"}`)
	require.NoError(t, err)
	sub := res["submission"].(map[string]any)
	assert.Equal(t, "assigned", sub["status"])

	res, err = f.call(t, "get_homework", "s1", `{}`)
	require.NoError(t, err)
	items := res["homework"].([]any)
	require.Len(t, items, 1)
	assignment := items[0].(map[string]any)["assignment"].(map[string]any)
	assert.Equal(t, "Algebra", assignment["title"])

	_, err = f.call(t, "add_homework", "s1", `{"title":" "}`)
	assert.Equal(t, KindInvalidInput, kindOf(err))
}

func TestProfileTools(t *testing.T) {
	f := newFixture(t, nil)
	res, err := f.call(t, "get_student_profile", "s1", `{}`)
	require.NoError(t, err)
	assert.Nil(t, res["profile"])

	res, err = f.call(t, "update_student_profile", "s1", `{"name":"Ada","date_of_birth":"2010-01-02"}`)
	require.NoError(t, err)
	profile := res["profile"].(map[string]any)
	assert.Equal(t, "Ada", profile["name"])
	assert.Equal(t, "2010-01-02", profile["dateOfBirth"])

	_, err = f.call(t, "update_student_profile", "s1", `{}`)
	assert.Equal(t, KindInvalidInput, kindOf(err))

	res, err = f.call(t, "complete_onboarding", "s1", `{}`)
	require.NoError(t, err)
	assert.Equal(t, true, res["profile"].(map[string]any)["onboardingComplete"])
}

func TestToolsUseSessionStudent(t *testing.T) {
	f := newFixture(t, nil)
	_, err := f.call(t, "update_goals", "s1", `{"goals":["mine"],"student_id":"s2"}`)
	require.NoError(t, err)

	res, err := f.call(t, "get_goals", "s2", `{}`)
	require.NoError(t, err)
	assert.Nil(t, res["goals"])

	_, err = f.tools["get_goals"].Call(context.Background(), agent.Session{ID: "x"}, nil)
	assert.Equal(t, KindInvalidInput, kindOf(err))
}

func TestGenerateTeacherReport(t *testing.T) {
	_, err := newFixture(t, nil).call(t, "generate_teacher_report", "s1", `{}`)
	assert.Equal(t, KindUnavailable, kindOf(err))

	reports := &stubReports{}
	f := newFixture(t, reports)
	res, err := f.call(t, "generate_teacher_report", "s1", `{}`)
	require.NoError(t, err)
	assert.Equal(t, "doing fine", res["report"])
	assert.Equal(t, "s1", reports.studentID)
	assert.Equal(t, services.ReportPrompt, reports.prompt)

	reports.err = errors.New("model down")
	_, err = f.call(t, "generate_teacher_report", "s1", `{"focus":"math"}`)
	assert.Equal(t, KindDownstream, kindOf(err))
	assert.Contains(t, reports.prompt, "Focus on: math")
}
