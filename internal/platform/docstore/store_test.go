package docstore

import (
	"context"
	"errors"
	"path/filepath"
	"sync/atomic"
	"testing"

	"cloud.google.com/go/firestore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backends(t *testing.T) map[string]Store {
	t.Helper()
	sqlStore, err := NewSQLStore(SQLConfig{
		Driver: "sqlite",
		DSN:    filepath.Join(t.TempDir(), "docs.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlStore.Close() })

	return map[string]Store{
		"memory": NewMemoryStore(),
		"sqlite": sqlStore,
	}
}

func TestStoreCreateThenGet(t *testing.T) {
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			doc, err := store.Create(ctx, Checkins, map[string]any{"studentId": "s1", "mood": "ok"})
			require.NoError(t, err)
			require.NotEmpty(t, doc.ID)

			got, err := store.Get(ctx, Checkins, doc.ID)
			require.NoError(t, err)
			assert.Equal(t, "ok", got.Data["mood"])
			assert.Equal(t, doc.ID, got.Map()["id"])
		})
	}
}

func TestStoreGetMissing(t *testing.T) {
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := store.Get(context.Background(), Users, "nobody")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestStoreMergeKeepsExistingFields(t *testing.T) {
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, store.Set(ctx, Students, "s1", map[string]any{"name": "Ada", "grade": "9"}, SetOptions{}))
			require.NoError(t, store.Set(ctx, Students, "s1", map[string]any{"goals": []string{"x", "y"}}, SetOptions{Merge: true}))

			got, err := store.Get(ctx, Students, "s1")
			require.NoError(t, err)
			assert.Equal(t, "Ada", got.Data["name"])
			assert.Equal(t, "9", got.Data["grade"])
			assert.Equal(t, []any{"x", "y"}, got.Data["goals"])
		})
	}
}

func TestStoreOverwriteReplacesDocument(t *testing.T) {
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, store.Set(ctx, Students, "s1", map[string]any{"name": "Ada"}, SetOptions{}))
			require.NoError(t, store.Set(ctx, Students, "s1", map[string]any{"grade": "10"}, SetOptions{}))

			got, err := store.Get(ctx, Students, "s1")
			require.NoError(t, err)
			assert.NotContains(t, got.Data, "name")
			assert.Equal(t, "10", got.Data["grade"])
		})
	}
}

func TestStoreQueryByEquality(t *testing.T) {
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			for _, sid := range []string{"a", "b", "a"} {
				_, err := store.Create(ctx, StudentSubmissions, map[string]any{"studentId": sid, "status": "assigned"})
				require.NoError(t, err)
			}

			docs, err := store.Query(ctx, StudentSubmissions, Eq("studentId", "a"))
			require.NoError(t, err)
			assert.Len(t, docs, 2)
			for _, d := range docs {
				assert.Equal(t, "a", d.Data["studentId"])
			}

			none, err := store.Query(ctx, StudentSubmissions, Eq("studentId", "zzz"))
			require.NoError(t, err)
			assert.Empty(t, none)
		})
	}
}

func TestStoreUnknownCollection(t *testing.T) {
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := store.Get(context.Background(), "nope", "1")
			assert.ErrorIs(t, err, ErrUnknownCollection)
		})
	}
}

func TestLazyOpensOnceAndMemoizes(t *testing.T) {
	var opens atomic.Int32
	mem := NewMemoryStore()
	lazy := NewLazy(func(context.Context) (Store, error) {
		opens.Add(1)
		return mem, nil
	})

	ctx := context.Background()
	require.NoError(t, lazy.Set(ctx, Users, "u1", map[string]any{"role": "student"}, SetOptions{}))
	_, err := lazy.Get(ctx, Users, "u1")
	require.NoError(t, err)

	assert.Equal(t, int32(1), opens.Load())
}

func TestLazyMemoizesConfigurationError(t *testing.T) {
	var opens atomic.Int32
	lazy := NewLazy(func(context.Context) (Store, error) {
		opens.Add(1)
		return nil, ErrNotConfigured
	})

	_, err := lazy.Get(context.Background(), Users, "u1")
	assert.True(t, errors.Is(err, ErrNotConfigured))
	_, err = lazy.Query(context.Background(), Users)
	assert.True(t, errors.Is(err, ErrNotConfigured))
	assert.Equal(t, int32(1), opens.Load())
}

func TestLazyCloseWithoutUse(t *testing.T) {
	lazy := NewLazy(func(context.Context) (Store, error) {
		t.Fatal("opener must not run on Close")
		return nil, nil
	})
	assert.NoError(t, lazy.Close())
}

func TestTopLevelMergePathsReplaceNestedMaps(t *testing.T) {
	data := map[string]any{
		"preferences": map[string]any{"subject": "math"},
		"name":        "Ada",
		"a.b":         1,
	}
	assert.Equal(t, []firestore.FieldPath{{"a.b"}, {"name"}, {"preferences"}}, topLevelMergePaths(data))
	assert.Empty(t, topLevelMergePaths(nil))
}

func TestStoreMergeReplacesNestedMaps(t *testing.T) {
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, store.Set(ctx, Students, "s1", map[string]any{
				"name":        "Ada",
				"preferences": map[string]any{"subject": "math", "time": "am"},
			}, SetOptions{}))
			require.NoError(t, store.Set(ctx, Students, "s1", map[string]any{
				"preferences": map[string]any{"subject": "art"},
			}, SetOptions{Merge: true}))

			got, err := store.Get(ctx, Students, "s1")
			require.NoError(t, err)
			assert.Equal(t, "Ada", got.Data["name"])
			assert.Equal(t, map[string]any{"subject": "art"}, got.Data["preferences"])
		})
	}
}
