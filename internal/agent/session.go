package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// SessionStore persists conversation history per session id.
type SessionStore interface {
	History(ctx context.Context, sessionID string) ([]Message, error)
	Append(ctx context.Context, sessionID string, msgs ...Message) error
}

type SessionOptions struct {
	// MaxMessages caps stored history; older messages are dropped.
	MaxMessages int
	// TTL expires idle sessions. Zero keeps them forever.
	TTL time.Duration
}

func (o SessionOptions) maxMessages() int {
	if o.MaxMessages <= 0 {
		return 40
	}
	return o.MaxMessages
}

type memorySessions struct {
	opts SessionOptions
	mu   sync.Mutex
	data map[string]*memorySession
}

type memorySession struct {
	msgs    []Message
	touched time.Time
}

func NewMemorySessionStore(opts SessionOptions) SessionStore {
	return &memorySessions{opts: opts, data: map[string]*memorySession{}}
}

func (m *memorySessions) History(_ context.Context, sessionID string) ([]Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.data[sessionID]
	if !ok {
		return nil, nil
	}
	if m.opts.TTL > 0 && time.Since(s.touched) > m.opts.TTL {
		delete(m.data, sessionID)
		return nil, nil
	}
	return append([]Message(nil), s.msgs...), nil
}

func (m *memorySessions) Append(_ context.Context, sessionID string, msgs ...Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.data[sessionID]
	if !ok {
		s = &memorySession{}
		m.data[sessionID] = s
	}
	s.msgs = append(s.msgs, msgs...)
	if n := m.opts.maxMessages(); len(s.msgs) > n {
		s.msgs = append([]Message(nil), s.msgs[len(s.msgs)-n:]...)
	}
	s.touched = time.Now()
	return nil
}

type redisSessions struct {
	rdb    goredis.UniversalClient
	opts   SessionOptions
	prefix string
}

// NewRedisSessionStore keeps each session as a capped list of JSON messages.
func NewRedisSessionStore(rdb goredis.UniversalClient, opts SessionOptions) SessionStore {
	return &redisSessions{rdb: rdb, opts: opts, prefix: "mentor:session:"}
}

func (r *redisSessions) key(id string) string { return r.prefix + id }

func (r *redisSessions) History(ctx context.Context, sessionID string) ([]Message, error) {
	raw, err := r.rdb.LRange(ctx, r.key(sessionID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", sessionID, err)
	}
	out := make([]Message, 0, len(raw))
	for _, item := range raw {
		var m Message
		if err := json.Unmarshal([]byte(item), &m); err != nil {
			return nil, fmt.Errorf("decode session %s: %w", sessionID, err)
		}
		out = append(out, m)
	}
	return out, nil
}

func (r *redisSessions) Append(ctx context.Context, sessionID string, msgs ...Message) error {
	if len(msgs) == 0 {
		return nil
	}
	values := make([]any, 0, len(msgs))
	for _, m := range msgs {
		b, err := json.Marshal(m)
		if err != nil {
			return err
		}
		values = append(values, b)
	}
	key := r.key(sessionID)
	_, err := r.rdb.TxPipelined(ctx, func(p goredis.Pipeliner) error {
		p.RPush(ctx, key, values...)
		p.LTrim(ctx, key, int64(-r.opts.maxMessages()), -1)
		if r.opts.TTL > 0 {
			p.Expire(ctx, key, r.opts.TTL)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("append session %s: %w", sessionID, err)
	}
	return nil
}

// trimHistory drops leading messages until history starts at a user turn,
// so a capped window never opens with orphaned tool results.
func trimHistory(msgs []Message) []Message {
	for i, m := range msgs {
		if m.Role == RoleUser {
			return msgs[i:]
		}
	}
	return nil
}
