package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_PutGetDelete(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	_, ok, err := m.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok, "missing key reports absent, not an error")

	require.NoError(t, m.Put(ctx, "k", []byte(`"v1"`), 0))
	v, ok, err := m.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte(`"v1"`), v)

	// Put is an unconditional overwrite.
	require.NoError(t, m.Put(ctx, "k", []byte(`"v2"`), 0))
	v, _, _ = m.Get(ctx, "k")
	assert.Equal(t, []byte(`"v2"`), v)

	require.NoError(t, m.Delete(ctx, "k"))
	_, ok, err = m.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemory_TTL(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.Put(ctx, "short", []byte(`1`), 20*time.Millisecond))
	_, ok, _ := m.Get(ctx, "short")
	require.True(t, ok)

	time.Sleep(50 * time.Millisecond)
	_, ok, err := m.Get(ctx, "short")
	require.NoError(t, err)
	assert.False(t, ok, "expired key reports absent")
}

func TestJSONHelpers(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	require.NoError(t, PutJSON(ctx, m, "p", payload{Name: "x", Count: 3}, 0))

	var out payload
	ok, err := GetJSON(ctx, m, "p", &out)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, payload{Name: "x", Count: 3}, out)

	ok, err = GetJSON(ctx, m, "absent", &out)
	require.NoError(t, err)
	assert.False(t, ok)
}
