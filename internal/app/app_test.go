package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/mentor-backend/internal/platform/docstore"
	"github.com/yungbote/mentor-backend/internal/platform/logger"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("ENV_FILE", "")
	t.Setenv("PORT", "8000")
	t.Setenv("STORE_DRIVER", " Memory ")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.test,https://b.test")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, ":8000", cfg.Addr())
	assert.Equal(t, "memory", cfg.StoreDriver)
	assert.Equal(t, "gemini", cfg.AgentProvider)
	assert.Equal(t, "gemini-2.5-flash", cfg.GeminiModel)
	assert.Equal(t, 40, cfg.SessionMaxMessages)
	assert.Equal(t, []string{"https://a.test", "https://b.test"}, cfg.CORSAllowedOrigins)
}

func TestOpenStoreRejectsUnknownDriver(t *testing.T) {
	_, err := openStore(logger.Nop(), &Config{StoreDriver: "mongo"})
	assert.Error(t, err)

	for _, cfg := range []*Config{
		{StoreDriver: "firestore", FirestoreProjectID: "mentor-test"},
		{StoreDriver: "postgres", DatabaseURL: "postgres://localhost/mentor"},
		{StoreDriver: "sqlite", SQLitePath: "mentor.db"},
		{StoreDriver: "memory"},
	} {
		s, err := openStore(logger.Nop(), cfg)
		require.NoError(t, err, cfg.StoreDriver)
		assert.NotNil(t, s)
	}
}

func TestOpenStoreRequiresConnectionSettings(t *testing.T) {
	for _, tc := range []struct {
		driver string
		want   string
	}{
		{"", "FIRESTORE_PROJECT_ID"},
		{"firestore", "FIRESTORE_PROJECT_ID"},
		{"postgres", "DATABASE_URL"},
		{"sqlite", "SQLITE_PATH"},
	} {
		_, err := openStore(logger.Nop(), &Config{StoreDriver: tc.driver})
		require.Error(t, err, tc.driver)
		assert.ErrorIs(t, err, docstore.ErrNotConfigured)
		assert.Contains(t, err.Error(), tc.want)
	}
}

func TestNewWithConfigFailsWithoutStoreSettings(t *testing.T) {
	_, err := NewWithConfig(context.Background(), logger.Nop(), &Config{FirebaseProjectID: "mentor-test", StoreDriver: "postgres"})
	assert.ErrorIs(t, err, docstore.ErrNotConfigured)
}

func TestOpenModelRequiresKnownProvider(t *testing.T) {
	_, err := openModel(context.Background(), &Config{AgentProvider: "llama"})
	assert.Error(t, err)

	m, err := openModel(context.Background(), &Config{AgentProvider: "openai", OpenAIAPIKey: "sk-test", OpenAIModel: "gpt-4o-mini"})
	require.NoError(t, err)
	assert.Equal(t, "openai:gpt-4o-mini", m.Name())
}

func TestNewWithConfigServesHealth(t *testing.T) {
	cfg := &Config{
		Port:               "0",
		StoreDriver:        "memory",
		FirebaseProjectID:  "demo-project",
		AgentProvider:      "openai",
		OpenAIAPIKey:       "sk-test",
		OpenAIModel:        "gpt-4o-mini",
		SessionMaxMessages: 20,
		MemoryMaxItems:     10,
	}
	a, err := NewWithConfig(context.Background(), logger.Nop(), cfg)
	require.NoError(t, err)
	t.Cleanup(a.Close)

	rec := httptest.NewRecorder()
	a.Server.Engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	a.Server.Engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/goals", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.NotNil(t, a.Agents.Reports)
}

func TestNewWithConfigRequiresFirebaseProject(t *testing.T) {
	_, err := NewWithConfig(context.Background(), logger.Nop(), &Config{StoreDriver: "memory", AgentProvider: "openai", OpenAIAPIKey: "k"})
	assert.Error(t, err)
}
