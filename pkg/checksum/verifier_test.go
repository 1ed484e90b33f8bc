package checksum

import (
	"errors"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const helloDigest = "5891b5b522d5df086d0ff0b110fbd9d21bb4fc7163af34d08286a2e846f6be03"

type mockCache struct {
	mock.Mock
}

func (m *mockCache) GetFileChecksum(path string) (string, error) {
	args := m.Called(path)
	return args.String(0), args.Error(1)
}

func TestVerifier_IsChecksumCorrect(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/metadata/example.csv", []byte("hello\n"), 0o644))

	tests := []struct {
		name    string
		path    string
		cached  string
		want    bool
		wantErr assert.ErrorAssertionFunc
	}{
		{
			name:   "matching digest",
			path:   "/metadata/example.csv",
			cached: helloDigest,
			want:   true,
		},
		{
			name:   "different digest",
			path:   "/metadata/example.csv",
			cached: "abc123",
		},
		{
			name:   "comparison is case sensitive",
			path:   "/metadata/example.csv",
			cached: "5891B5B522D5DF086D0FF0B110FBD9D21BB4FC7163AF34D08286A2E846F6BE03",
		},
		{
			name: "cache miss",
			path: "/metadata/example.csv",
		},
		{
			name:    "unreadable file",
			path:    "/metadata/missing.csv",
			cached:  helloDigest,
			wantErr: assert.Error,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.wantErr == nil {
				tt.wantErr = assert.NoError
			}
			v := NewVerifier(fs, Static{tt.path: tt.cached}, false)

			got, err := v.IsChecksumCorrect(tt.path)
			if !tt.wantErr(t, err) {
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVerifier_BypassNeverTouchesCacheOrFile(t *testing.T) {
	cache := &mockCache{}
	v := NewVerifier(afero.NewMemMapFs(), cache, true)

	got, err := v.IsChecksumCorrect("foo")
	require.NoError(t, err)
	assert.True(t, got)

	cache.AssertNotCalled(t, "GetFileChecksum", mock.Anything)
}

func TestVerifier_CacheError(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/metadata/example.csv", []byte("hello\n"), 0o644))

	cache := &mockCache{}
	cache.On("GetFileChecksum", "/metadata/example.csv").Return("", errors.New("cache unavailable"))

	_, err := NewVerifier(fs, cache, false).IsChecksumCorrect("/metadata/example.csv")
	assert.Error(t, err)
	cache.AssertExpectations(t)
}

func TestVerifier_NilCacheIsAlwaysAMiss(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/metadata/example.csv", []byte("hello\n"), 0o644))

	got, err := NewVerifier(fs, nil, false).IsChecksumCorrect("/metadata/example.csv")
	require.NoError(t, err)
	assert.False(t, got)
}
