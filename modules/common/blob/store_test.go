package blob

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorePutGetRelease(t *testing.T) {
	s := NewStore()

	ref := s.Put([]byte("video-bytes"), "video/mp4")
	require.NotEmpty(t, ref.ID)
	assert.Equal(t, "/blobs/"+ref.ID, ref.URL)
	assert.Equal(t, "video/mp4", ref.MIME)

	data, mime, ok := s.Get(ref.ID)
	require.True(t, ok)
	assert.Equal(t, []byte("video-bytes"), data)
	assert.Equal(t, "video/mp4", mime)
	assert.Equal(t, 1, s.Len())

	s.Release(ref.ID)
	_, _, ok = s.Get(ref.ID)
	assert.False(t, ok)
	assert.Equal(t, 0, s.Len())

	// 없는 ID 해제는 무시됨
	s.Release("missing")
}
