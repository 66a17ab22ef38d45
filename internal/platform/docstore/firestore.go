package docstore

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type FirestoreConfig struct {
	ProjectID string
	Options   []option.ClientOption
}

// FirestoreStore talks to Cloud Firestore (or its emulator when
// FIRESTORE_EMULATOR_HOST is set).
type FirestoreStore struct {
	client *firestore.Client
}

var _ Store = (*FirestoreStore)(nil)

func NewFirestoreStore(ctx context.Context, cfg FirestoreConfig) (*FirestoreStore, error) {
	projectID := strings.TrimSpace(cfg.ProjectID)
	if projectID == "" {
		return nil, fmt.Errorf("%w: FIRESTORE_PROJECT_ID is required for Firestore access", ErrNotConfigured)
	}
	client, err := firestore.NewClient(ctx, projectID, cfg.Options...)
	if err != nil {
		return nil, fmt.Errorf("firestore client: %w", err)
	}
	return &FirestoreStore{client: client}, nil
}

func (s *FirestoreStore) Get(ctx context.Context, collection, id string) (Document, error) {
	name, err := Resolve(collection)
	if err != nil {
		return Document{}, err
	}
	snap, err := s.client.Collection(name).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return Document{}, fmt.Errorf("%s/%s: %w", name, id, ErrNotFound)
		}
		return Document{}, fmt.Errorf("firestore get %s/%s: %w", name, id, err)
	}
	if !snap.Exists() {
		return Document{}, fmt.Errorf("%s/%s: %w", name, id, ErrNotFound)
	}
	return Document{ID: snap.Ref.ID, Data: snap.Data()}, nil
}

func (s *FirestoreStore) Create(ctx context.Context, collection string, data map[string]any) (Document, error) {
	name, err := Resolve(collection)
	if err != nil {
		return Document{}, err
	}
	ref := s.client.Collection(name).NewDoc()
	record := mergeInto(nil, data)
	record["id"] = ref.ID
	if _, err := ref.Set(ctx, record); err != nil {
		return Document{}, fmt.Errorf("firestore create %s: %w", name, err)
	}
	return Document{ID: ref.ID, Data: record}, nil
}

func (s *FirestoreStore) Set(ctx context.Context, collection, id string, data map[string]any, opts SetOptions) error {
	name, err := Resolve(collection)
	if err != nil {
		return err
	}
	if id == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidDocument)
	}
	ref := s.client.Collection(name).Doc(id)
	if opts.Merge && len(data) > 0 {
		_, err = ref.Set(ctx, data, firestore.Merge(topLevelMergePaths(data)...))
	} else if opts.Merge {
		_, err = ref.Set(ctx, data, firestore.MergeAll)
	} else {
		_, err = ref.Set(ctx, data)
	}
	if err != nil {
		return fmt.Errorf("firestore set %s/%s: %w", name, id, err)
	}
	return nil
}

// topLevelMergePaths lists the top-level keys of data as field paths so a
// merge replaces nested maps wholesale, matching the other backends.
func topLevelMergePaths(data map[string]any) []firestore.FieldPath {
	keys := slices.Sorted(maps.Keys(data))
	paths := make([]firestore.FieldPath, 0, len(keys))
	for _, k := range keys {
		paths = append(paths, firestore.FieldPath{k})
	}
	return paths
}

func (s *FirestoreStore) Query(ctx context.Context, collection string, filters ...Filter) ([]Document, error) {
	name, err := Resolve(collection)
	if err != nil {
		return nil, err
	}
	q := s.client.Collection(name).Query
	for _, f := range filters {
		q = q.Where(f.Field, "==", f.Value)
	}
	it := q.Documents(ctx)
	defer it.Stop()

	out := make([]Document, 0)
	for {
		snap, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("firestore query %s: %w", name, err)
		}
		out = append(out, Document{ID: snap.Ref.ID, Data: snap.Data()})
	}
	return out, nil
}

func (s *FirestoreStore) Close() error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Close()
}
