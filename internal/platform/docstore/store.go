// Package docstore is a small document-database abstraction: documents are
// JSON-like maps addressed by collection and id.
package docstore

import (
	"context"
	"errors"
	"fmt"
	"maps"
)

var (
	ErrNotFound          = errors.New("document not found")
	ErrNotConfigured     = errors.New("document store not configured")
	ErrUnknownCollection = errors.New("unknown collection")
	ErrInvalidDocument   = errors.New("invalid document")
)

// Logical collection names. Physical names come from Collections.
const (
	Users              = "users"
	Students           = "students"
	Checkins           = "checkins"
	Assignments        = "assignments"
	StudentSubmissions = "studentSubmissions"
)

// Collections maps logical names to physical collection names.
var Collections = map[string]string{
	Users:              "users",
	Students:           "students",
	Checkins:           "daily_checkins",
	Assignments:        "assignments",
	StudentSubmissions: "studentSubmissions",
}

// Resolve returns the physical name for a logical collection.
func Resolve(logical string) (string, error) {
	name, ok := Collections[logical]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownCollection, logical)
	}
	return name, nil
}

type Document struct {
	ID   string
	Data map[string]any
}

// Map returns a copy of the document data with "id" populated.
func (d Document) Map() map[string]any {
	out := make(map[string]any, len(d.Data)+1)
	maps.Copy(out, d.Data)
	if _, ok := out["id"]; !ok || out["id"] == "" {
		out["id"] = d.ID
	}
	return out
}

type Filter struct {
	Field string
	Value any
}

func Eq(field string, value any) Filter { return Filter{Field: field, Value: value} }

type SetOptions struct {
	// Merge writes only the given top-level fields, keeping the rest.
	Merge bool
}

// Store is implemented by every backend. Collection arguments are logical
// names; backends resolve them through Collections.
type Store interface {
	Get(ctx context.Context, collection, id string) (Document, error)
	Create(ctx context.Context, collection string, data map[string]any) (Document, error)
	Set(ctx context.Context, collection, id string, data map[string]any, opts SetOptions) error
	Query(ctx context.Context, collection string, filters ...Filter) ([]Document, error)
	Close() error
}

func mergeInto(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = make(map[string]any, len(src))
	}
	maps.Copy(dst, src)
	return dst
}

func matches(data map[string]any, filters []Filter) bool {
	for _, f := range filters {
		v, ok := data[f.Field]
		if !ok || !equalValues(v, f.Value) {
			return false
		}
	}
	return true
}

func equalValues(a, b any) bool {
	if af, ok := toFloat(a); ok {
		if bf, ok := toFloat(b); ok {
			return af == bf
		}
	}
	return fmt.Sprint(a) == fmt.Sprint(b)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
