// Package repos gives typed access to the document collections.
package repos

import (
	"errors"
	"sort"
	"time"

	"github.com/yungbote/mentor-backend/internal/domain"
	"github.com/yungbote/mentor-backend/internal/platform/docstore"
)

// ErrNotFound is returned when a document does not exist.
var ErrNotFound = docstore.ErrNotFound

// Clock is overridable in tests.
type Clock func() time.Time

func systemClock() time.Time { return time.Now() }

func IsNotFound(err error) bool { return errors.Is(err, docstore.ErrNotFound) }

// sortNewestFirst orders documents by createdAt descending, then id.
func sortNewestFirst(docs []map[string]any) {
	sort.SliceStable(docs, func(i, j int) bool {
		ci, _ := docs[i][domain.FieldCreatedAt].(string)
		cj, _ := docs[j][domain.FieldCreatedAt].(string)
		if ci != cj {
			return ci > cj
		}
		ii, _ := docs[i][domain.FieldID].(string)
		ij, _ := docs[j][domain.FieldID].(string)
		return ii < ij
	})
}

func toMaps(docs []docstore.Document) []map[string]any {
	out := make([]map[string]any, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.Map())
	}
	return out
}
