package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPutAndGet(t *testing.T) {
	store := New()
	uri, err := store.Put(context.Background(), "x/y.html", "text/html", []byte("body"))
	require.NoError(t, err)
	assert.Equal(t, "memory://x/y.html", uri)

	data, ok := store.Get("x/y.html")
	require.True(t, ok)
	assert.Equal(t, "body", string(data))
	assert.Equal(t, 1, store.Len())
}

func TestPutCopiesData(t *testing.T) {
	store := New()
	payload := []byte("original")
	_, err := store.Put(context.Background(), "p", "", payload)
	require.NoError(t, err)

	payload[0] = 'X'
	data, ok := store.Get("p")
	require.True(t, ok)
	assert.Equal(t, "original", string(data))
}

func TestPutEmptyPath(t *testing.T) {
	store := New()
	_, err := store.Put(context.Background(), "", "", []byte("x"))
	assert.Error(t, err)
}
