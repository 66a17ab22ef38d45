package agent

import (
	"context"
	"fmt"
	"strings"
	"sync"

	goredis "github.com/redis/go-redis/v9"
)

// MemoryBank holds long-term notes about a student, newest last.
type MemoryBank interface {
	Add(ctx context.Context, studentID, text string) error
	Recent(ctx context.Context, studentID string, n int) ([]string, error)
}

type memoryBank struct {
	max  int
	mu   sync.RWMutex
	data map[string][]string
}

func NewMemoryBank(maxItems int) MemoryBank {
	if maxItems <= 0 {
		maxItems = 50
	}
	return &memoryBank{max: maxItems, data: map[string][]string{}}
}

func (b *memoryBank) Add(_ context.Context, studentID, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	items := append(b.data[studentID], text)
	if len(items) > b.max {
		items = append([]string(nil), items[len(items)-b.max:]...)
	}
	b.data[studentID] = items
	return nil
}

func (b *memoryBank) Recent(_ context.Context, studentID string, n int) ([]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	items := b.data[studentID]
	if n > 0 && len(items) > n {
		items = items[len(items)-n:]
	}
	return append([]string(nil), items...), nil
}

type redisMemoryBank struct {
	rdb goredis.UniversalClient
	max int
}

func NewRedisMemoryBank(rdb goredis.UniversalClient, maxItems int) MemoryBank {
	if maxItems <= 0 {
		maxItems = 50
	}
	return &redisMemoryBank{rdb: rdb, max: maxItems}
}

func (b *redisMemoryBank) key(studentID string) string { return "mentor:memory:" + studentID }

func (b *redisMemoryBank) Add(ctx context.Context, studentID, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	key := b.key(studentID)
	_, err := b.rdb.TxPipelined(ctx, func(p goredis.Pipeliner) error {
		p.RPush(ctx, key, text)
		p.LTrim(ctx, key, int64(-b.max), -1)
		return nil
	})
	if err != nil {
		return fmt.Errorf("add memory: %w", err)
	}
	return nil
}

func (b *redisMemoryBank) Recent(ctx context.Context, studentID string, n int) ([]string, error) {
	start := int64(0)
	if n > 0 {
		start = int64(-n)
	}
	items, err := b.rdb.LRange(ctx, b.key(studentID), start, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read memory: %w", err)
	}
	return items, nil
}

// SummarizeCheckin renders a check-in as a one-line memory.
func SummarizeCheckin(data map[string]any) string {
	mood := firstText(data, "unknown", "mood", "feeling")
	win := firstText(data, "none", "win", "achievements")
	blocker := firstText(data, "none", "blocker", "challenges")
	return fmt.Sprintf("Mood: %s | Win: %s | Blocker: %s", mood, win, blocker)
}

func firstText(data map[string]any, fallback string, keys ...string) string {
	for _, k := range keys {
		if s := textValue(data[k]); s != "" {
			return s
		}
	}
	return fallback
}

func textValue(v any) string {
	switch x := v.(type) {
	case string:
		return strings.TrimSpace(x)
	case []string:
		return strings.Join(x, ", ")
	case []any:
		parts := make([]string, 0, len(x))
		for _, it := range x {
			parts = append(parts, fmt.Sprint(it))
		}
		return strings.Join(parts, ", ")
	case nil:
		return ""
	default:
		return fmt.Sprint(x)
	}
}
