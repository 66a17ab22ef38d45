package redisx

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/mentor-backend/internal/platform/logger"
)

func TestNewClientEmptyAddr(t *testing.T) {
	rdb, err := NewClient(context.Background(), logger.Nop(), Config{})
	require.NoError(t, err)
	assert.Nil(t, rdb)
}

func TestNewClientPings(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb, err := NewClient(context.Background(), logger.Nop(), Config{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })
	require.NoError(t, rdb.Set(context.Background(), "k", "v", 0).Err())
	mr.CheckGet(t, "k", "v")
}

func TestNewClientUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()
	_, err := NewClient(context.Background(), logger.Nop(), Config{Addr: addr})
	assert.Error(t, err)
}
