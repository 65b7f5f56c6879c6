package gateway

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouterRoute(t *testing.T) {
	router := NewRouter(DefaultServiceMap())

	testCases := []struct {
		name    string
		path    string
		target  string
		matched bool
	}{
		{
			name:    "films by id",
			path:    "/api/v1/films/3fa85f64-5717-4562-b3fc-2c963f66afa6",
			target:  "http://app:8000",
			matched: true,
		},
		{
			name:    "auth login",
			path:    "/api/v1/auth/login",
			target:  "http://auth:8082",
			matched: true,
		},
		{
			name:    "unversioned auth prefix",
			path:    "/api/auth/login",
			target:  "http://auth:8082",
			matched: true,
		},
		{
			name:    "admin panel",
			path:    "/admin/movies",
			target:  "http://django_admin:8001",
			matched: true,
		},
		{
			name:    "no matching prefix",
			path:    "/unknown/path",
			matched: false,
		},
		{
			name:    "root path",
			path:    "/",
			matched: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			target, ok := router.Route(tc.path)
			assert.Equal(t, tc.matched, ok)
			assert.Equal(t, tc.target, target)
		})
	}
}

// The longest prefix must win even when a shorter one also matches.
func TestRouterLongestPrefixWins(t *testing.T) {
	router := NewRouter(map[string]string{
		"/api":          "http://short:1",
		"/api/v1":       "http://medium:2",
		"/api/v1/films": "http://long:3",
	})

	target, ok := router.Route("/api/v1/films/123")
	require.True(t, ok)
	assert.Equal(t, "http://long:3", target)

	target, ok = router.Route("/api/v1/genres")
	require.True(t, ok)
	assert.Equal(t, "http://medium:2", target)

	target, ok = router.Route("/api/health")
	require.True(t, ok)
	assert.Equal(t, "http://short:1", target)
}

func TestParseServiceMap(t *testing.T) {
	t.Run("empty input yields default map", func(t *testing.T) {
		table, err := ParseServiceMap("")
		require.NoError(t, err)
		assert.Equal(t, DefaultServiceMap(), table)
	})

	t.Run("valid json", func(t *testing.T) {
		table, err := ParseServiceMap(`{"/api/v1/films": "http://films:9000"}`)
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"/api/v1/films": "http://films:9000"}, table)
	})

	t.Run("invalid json", func(t *testing.T) {
		_, err := ParseServiceMap(`{broken`)
		require.Error(t, err)
	})
}
