package storage

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttachmentKey(t *testing.T) {
	id := uuid.MustParse("7d9f8d4e-2c1b-4a55-9c1e-0f4b7c3a2e11")

	key := AttachmentKey(id, "fire_safety", "../../etc/report.pdf")
	assert.True(t, strings.HasPrefix(key, "validations/"+id.String()+"/fire_safety/"))
	assert.True(t, strings.HasSuffix(key, "-report.pdf"))
	assert.NotContains(t, key, "..")

	assert.True(t, strings.HasSuffix(AttachmentKey(id, "visual", ""), "-attachment"))
	assert.NotEqual(t, AttachmentKey(id, "visual", "a.jpg"), AttachmentKey(id, "visual", "a.jpg"))
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	n, err := s.Put(ctx, "k", strings.NewReader("hello"), 5, "text/plain")
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)
	assert.Equal(t, []string{"k"}, s.Keys())

	rc, err := s.Get(ctx, "k")
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	require.NoError(t, s.Remove(ctx, "k"))
	_, err = s.Get(ctx, "k")
	assert.Error(t, err)
}

func TestCountingReader(t *testing.T) {
	cr := newCountingReader(strings.NewReader("twelve bytes"))
	_, err := io.Copy(io.Discard, cr)
	require.NoError(t, err)
	assert.Equal(t, int64(12), cr.bytes)
}

type countingBackend struct {
	*MemoryStore
	gets int
}

func (b *countingBackend) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	b.gets++
	return b.MemoryStore.Get(ctx, key)
}

type observed struct {
	hits, misses, evictions int
}

func (o *observed) CacheLookup(hit bool) {
	if hit {
		o.hits++
	} else {
		o.misses++
	}
}

func (o *observed) CacheEviction() { o.evictions++ }

func readAll(t *testing.T, s BlobStore, key string) string {
	t.Helper()
	rc, err := s.Get(context.Background(), key)
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	return string(data)
}

func TestCachedStoreServesRepeatedReadsFromMemory(t *testing.T) {
	ctx := context.Background()
	backend := &countingBackend{MemoryStore: NewMemoryStore()}
	obs := &observed{}
	s := NewCachedStore(backend, 64, time.Minute, obs, nil)

	_, err := s.Put(ctx, "a", strings.NewReader("photo-a"), 7, "image/jpeg")
	require.NoError(t, err)

	assert.Equal(t, "photo-a", readAll(t, s, "a"))
	assert.Equal(t, "photo-a", readAll(t, s, "a"))
	assert.Equal(t, 1, backend.gets)
	assert.Equal(t, 1, obs.hits)
	assert.Equal(t, 1, obs.misses)

	_, err = s.Put(ctx, "a", strings.NewReader("photo-b"), 7, "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "photo-b", readAll(t, s, "a"), "writes drop the cached copy")

	require.NoError(t, s.Remove(ctx, "a"))
	_, err = s.Get(ctx, "a")
	assert.Error(t, err)

	stats := s.Stats()
	assert.Zero(t, stats.Objects)
	assert.Zero(t, stats.SizeBytes)
}

func TestCachedStoreEvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	backend := &countingBackend{MemoryStore: NewMemoryStore()}
	obs := &observed{}
	s := NewCachedStore(backend, 40, time.Minute, obs, nil)

	for _, k := range []string{"a", "b", "c"} {
		_, err := backend.Put(ctx, k, strings.NewReader(strings.Repeat(k, 10)), 10, "")
		require.NoError(t, err)
	}
	readAll(t, s, "a")
	readAll(t, s, "b")
	readAll(t, s, "a")
	readAll(t, s, "c")
	readAll(t, s, "c")

	assert.Equal(t, 3, backend.gets)
	assert.Zero(t, obs.evictions)

	_, err := backend.Put(ctx, "d", strings.NewReader(strings.Repeat("d", 10)), 10, "")
	require.NoError(t, err)
	_, err = backend.Put(ctx, "e", strings.NewReader(strings.Repeat("e", 10)), 10, "")
	require.NoError(t, err)
	readAll(t, s, "d")
	readAll(t, s, "e")
	assert.Equal(t, 1, obs.evictions)

	before := backend.gets
	readAll(t, s, "b")
	assert.Equal(t, before+1, backend.gets, "b was the least recently used")
}

func TestCachedStoreBypassesLargeBlobs(t *testing.T) {
	ctx := context.Background()
	backend := &countingBackend{MemoryStore: NewMemoryStore()}
	s := NewCachedStore(backend, 40, time.Minute, nil, nil)

	big := strings.Repeat("x", 25)
	_, err := backend.Put(ctx, "big", strings.NewReader(big), 25, "")
	require.NoError(t, err)

	assert.Equal(t, big, readAll(t, s, "big"))
	assert.Equal(t, big, readAll(t, s, "big"))
	assert.Equal(t, 2, backend.gets)
	assert.Zero(t, s.Stats().Objects)
}

func TestCachedStoreExpiresEntries(t *testing.T) {
	ctx := context.Background()
	backend := &countingBackend{MemoryStore: NewMemoryStore()}
	s := NewCachedStore(backend, 64, time.Minute, nil, nil)
	_, err := backend.Put(ctx, "a", strings.NewReader("abc"), 3, "")
	require.NoError(t, err)

	readAll(t, s, "a")
	_, ok := s.lookup("a", time.Now().Add(2*time.Minute))
	assert.False(t, ok)
	assert.Zero(t, s.Stats().Objects)
}
