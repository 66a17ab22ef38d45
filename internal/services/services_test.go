package services

import (
	"context"
	"errors"
	"io"
	"iter"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/mentor-backend/internal/agent"
	"github.com/yungbote/mentor-backend/internal/domain"
	"github.com/yungbote/mentor-backend/internal/platform/apierr"
	"github.com/yungbote/mentor-backend/internal/platform/docstore"
	"github.com/yungbote/mentor-backend/internal/platform/firebaseauth"
	"github.com/yungbote/mentor-backend/internal/platform/logger"
	"github.com/yungbote/mentor-backend/internal/repos"
)

type stubVerifier struct {
	tok *firebaseauth.Token
	err error
}

func (v stubVerifier) VerifyIDToken(context.Context, string) (*firebaseauth.Token, error) {
	return v.tok, v.err
}

func seedUser(t *testing.T, store docstore.Store, id string, data map[string]any) {
	t.Helper()
	require.NoError(t, store.Set(context.Background(), docstore.Users, id, data, docstore.SetOptions{}))
}

func TestAuthenticate(t *testing.T) {
	store := docstore.NewMemoryStore()
	seedUser(t, store, "stu", map[string]any{"role": "student", "email": "stu@school.test"})
	seedUser(t, store, "odd", map[string]any{"role": "admin"})
	users := repos.NewUserRepo(store, logger.Nop())

	tests := []struct {
		name     string
		token    string
		verifier stubVerifier
		status   int
	}{
		{"missing token", "", stubVerifier{}, http.StatusUnauthorized},
		{"rejected token", "t", stubVerifier{err: errors.New("expired")}, http.StatusUnauthorized},
		{"no uid", "t", stubVerifier{tok: &firebaseauth.Token{}}, http.StatusUnauthorized},
		{"unprovisioned", "t", stubVerifier{tok: &firebaseauth.Token{UID: "ghost"}}, http.StatusForbidden},
		{"bad role", "t", stubVerifier{tok: &firebaseauth.Token{UID: "odd"}}, http.StatusForbidden},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewAuthService(logger.Nop(), tc.verifier, users)
			_, err := svc.Authenticate(context.Background(), tc.token)
			apiErr, ok := apierr.As(err)
			require.True(t, ok, "want *apierr.Error, got %v", err)
			assert.Equal(t, tc.status, apiErr.Status)
		})
	}

	svc := NewAuthService(logger.Nop(), stubVerifier{tok: &firebaseauth.Token{UID: "stu", Email: "token@x.test"}}, users)
	p, err := svc.Authenticate(context.Background(), "t")
	require.NoError(t, err)
	assert.Equal(t, "stu", p.ID)
	assert.Equal(t, domain.RoleStudent, p.Role)
	assert.Equal(t, "stu@school.test", p.Email)
}

func TestProfileUpdate(t *testing.T) {
	store := docstore.NewMemoryStore()
	svc := NewProfileService(logger.Nop(), repos.NewProfileRepo(store, logger.Nop()))
	ctx := context.Background()

	_, err := svc.Get(ctx, "s1")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Update(ctx, "s1", map[string]any{})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.Update(ctx, "s1", map[string]any{"name": nil, "id": "x"})
	assert.ErrorIs(t, err, ErrValidation)

	doc, err := svc.Update(ctx, "s1", map[string]any{"name": "Ada", "date_of_birth": "2010-01-02", "grade": nil})
	require.NoError(t, err)
	assert.Equal(t, "Ada", doc["name"])
	assert.Equal(t, "2010-01-02", doc[domain.FieldDateOfBirth])
	assert.NotContains(t, doc, "date_of_birth")
	assert.NotContains(t, doc, "grade")
	assert.Equal(t, "s1", doc[domain.FieldID])

	got, err := svc.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, doc, got)
}

func TestNormalizeProfileUpdateCamelCaseWins(t *testing.T) {
	out := NormalizeProfileUpdate(map[string]any{"date_of_birth": "a", "dateOfBirth": "b", "updatedAt": "x"})
	assert.Equal(t, map[string]any{"dateOfBirth": "b"}, out)
}

func TestGoals(t *testing.T) {
	svc := NewGoalService(logger.Nop(), repos.NewProfileRepo(docstore.NewMemoryStore(), logger.Nop()))
	ctx := context.Background()

	goals, err := svc.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Nil(t, goals)

	_, err = svc.Set(ctx, "s1", []string{"ok", " "})
	assert.ErrorIs(t, err, ErrValidation)

	goals, err = svc.Set(ctx, "s1", []string{"b", "a"})
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, goals)

	goals, err = svc.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, goals)
}

func TestCheckinCreateAndList(t *testing.T) {
	svc := NewCheckinService(logger.Nop(), repos.NewCheckinRepo(docstore.NewMemoryStore(), logger.Nop()))
	ctx := context.Background()

	_, err := svc.Create(ctx, "s1", map[string]any{"win": "x"})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.Create(ctx, "s1", map[string]any{"mood": 3})
	assert.ErrorIs(t, err, ErrValidation)

	doc, err := svc.Create(ctx, "s1", map[string]any{"mood": "ok", "studentId": "s2", "sleepHours": 7.0})
	require.NoError(t, err)
	assert.Equal(t, "s1", doc[domain.FieldStudentID])
	assert.NotEmpty(t, doc[domain.FieldID])
	assert.Equal(t, 7.0, doc["sleepHours"])

	list, err := svc.ListRecent(ctx, "s1", 0)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	list, err = svc.ListRecent(ctx, "s2", 5)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func newHomework(store docstore.Store) (HomeworkService, AssignmentService, repos.AssignmentRepo, repos.SubmissionRepo) {
	log := logger.Nop()
	assignments := repos.NewAssignmentRepo(store, log)
	submissions := repos.NewSubmissionRepo(store, log)
	return NewHomeworkService(log, assignments, submissions), NewAssignmentService(log, assignments, submissions), assignments, submissions
}

func TestAssignAndListHomework(t *testing.T) {
	store := docstore.NewMemoryStore()
	hw, as, _, _ := newHomework(store)
	ctx := context.Background()

	_, err := as.Assign(ctx, "t1", AssignRequest{StudentIDs: []string{"s1"}, Fields: map[string]any{}})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = as.Assign(ctx, "t1", AssignRequest{StudentIDs: []string{" "}, Fields: map[string]any{"title": "Essay"}})
	assert.ErrorIs(t, err, ErrValidation)

	res, err := as.Assign(ctx, "t1", AssignRequest{
		StudentIDs: []string{"s1", "s2", "s1"},
		Fields:     map[string]any{"title": "Essay", "studentIds": []any{"s1"}, "dueDate": "2026-11-01"},
	})
	require.NoError(t, err)
	assert.Len(t, res.Submissions, 2)
	assert.Equal(t, "t1", res.Assignment[domain.FieldAssignedBy])
	assert.NotContains(t, res.Assignment, "studentIds")

	items, err := hw.List(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Essay", items[0]["assignment"].(map[string]any)["title"])
	assert.Equal(t, string(domain.SubmissionAssigned), items[0][domain.FieldStatus])

	items, err = hw.List(ctx, "nobody")
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestHomeworkListSkipsDanglingAssignment(t *testing.T) {
	store := docstore.NewMemoryStore()
	hw, _, _, subs := newHomework(store)
	ctx := context.Background()
	_, err := subs.Create(ctx, "gone", "s1")
	require.NoError(t, err)

	items, err := hw.List(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.NotContains(t, items[0], "assignment")
}

func TestHomeworkUpdateStatus(t *testing.T) {
	store := docstore.NewMemoryStore()
	hw, _, _, _ := newHomework(store)
	ctx := context.Background()

	sub, err := hw.AddForStudent(ctx, "s1", map[string]any{"title": "Read ch. 4"})
	require.NoError(t, err)
	id := sub[domain.FieldID].(string)

	_, err = hw.UpdateStatus(ctx, "s1", id, "bogus")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = hw.UpdateStatus(ctx, "s2", id, domain.SubmissionCompleted)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = hw.UpdateStatus(ctx, "s1", "missing", domain.SubmissionCompleted)
	assert.ErrorIs(t, err, ErrNotFound)

	doc, err := hw.UpdateStatus(ctx, "s1", id, domain.SubmissionCompleted)
	require.NoError(t, err)
	assert.Equal(t, string(domain.SubmissionCompleted), doc[domain.FieldStatus])

	_, err = hw.AddForStudent(ctx, "s1", map[string]any{})
	assert.ErrorIs(t, err, ErrValidation)
}

type stubRuntime struct {
	sessions []agent.Session
}

func (r *stubRuntime) Generate(_ context.Context, prompt string, session agent.Session) iter.Seq2[string, error] {
	r.sessions = append(r.sessions, session)
	return func(yield func(string, error) bool) { yield("echo: "+prompt, nil) }
}

func TestChatStream(t *testing.T) {
	hub, onboarding := &stubRuntime{}, &stubRuntime{}
	svc := NewChatService(logger.Nop(), hub, onboarding)
	ctx := context.Background()
	student := &domain.Principal{ID: "s1", Role: domain.RoleStudent}
	teacher := &domain.Principal{ID: "t1", Role: domain.RoleTeacher}

	_, err := svc.Stream(ctx, student, "s2", "hi")
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = svc.Stream(ctx, student, "s1", "  ")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.Stream(ctx, student, "", "hi")
	assert.ErrorIs(t, err, ErrValidation)

	seq, err := svc.Stream(ctx, teacher, "s2", "how is s2?")
	require.NoError(t, err)
	text, err := agent.Collect(seq)
	require.NoError(t, err)
	assert.Equal(t, "echo: how is s2?", text)
	assert.Equal(t, agent.Session{ID: "chat:s2", StudentID: "s2"}, hub.sessions[0])

	_, err = svc.Onboarding(ctx, teacher, "hi")
	assert.ErrorIs(t, err, ErrForbidden)
	seq, err = svc.Onboarding(ctx, student, "hi")
	require.NoError(t, err)
	_, err = agent.Collect(seq)
	require.NoError(t, err)
	assert.Equal(t, agent.Session{ID: "onboarding:s1", StudentID: "s1"}, onboarding.sessions[0])
}

type stubRunner struct {
	prompt string
	err    error
}

func (r *stubRunner) RunReport(_ context.Context, studentID, prompt string) (string, error) {
	r.prompt = prompt
	return "report for " + studentID, r.err
}

type stubArchive struct {
	key  string
	body string
	err  error
}

func (a *stubArchive) Put(_ context.Context, key, _ string, body io.Reader) (string, error) {
	b, _ := io.ReadAll(body)
	a.key, a.body = key, string(b)
	if a.err != nil {
		return "", a.err
	}
	return "https://storage.test/" + key, nil
}

func (a *stubArchive) Close() error { return nil }

func TestReportGenerate(t *testing.T) {
	ctx := context.Background()
	runner := &stubRunner{}

	rep, err := NewReportService(logger.Nop(), runner, nil).Generate(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, &Report{StudentID: "s1", Report: "report for s1"}, rep)
	assert.Equal(t, ReportPrompt, runner.prompt)

	archive := &stubArchive{}
	svc := NewReportService(logger.Nop(), runner, archive).(*reportService)
	svc.now = func() time.Time { return time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC) }
	rep, err = svc.Generate(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "reports/s1/20260304T050607Z.md", archive.key)
	assert.Equal(t, "report for s1", archive.body)
	assert.Equal(t, "https://storage.test/reports/s1/20260304T050607Z.md", rep.ArchiveURL)

	archive.err = errors.New("bucket gone")
	rep, err = svc.Generate(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, rep.ArchiveURL)

	runner.err = errors.New("model down")
	_, err = svc.Generate(ctx, "s1")
	assert.Error(t, err)

	_, err = svc.Generate(ctx, " ")
	assert.ErrorIs(t, err, ErrValidation)
}
