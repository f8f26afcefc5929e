package secret

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theMackabu/ship/pkg/value"
)

func TestReadUnwrapsKVv2(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/kv/data/app/db", r.URL.Path)
		assert.Equal(t, "tok-1", r.Header.Get("X-Vault-Token"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"data":{"user":"admin","pass":"hunter2"},"metadata":{"version":3}}}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "tok-1", srv.Client())
	got, err := c.Read("app/db")
	require.NoError(t, err)
	require.Equal(t, value.KindObject, got.Kind())

	user, ok := got.AsObject().Get("user")
	require.True(t, ok)
	assert.Equal(t, "admin", user.AsString())
	assert.False(t, got.AsObject().Has("metadata"), "outer metadata must be unwrapped away")
}

func TestReadErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"errors":["permission denied"]}`, http.StatusForbidden)
	}))
	defer srv.Close()

	c := New(srv.URL, "bad", srv.Client())
	_, err := c.Read("app/db")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")

	unconfigured := New("", "", nil)
	_, err = unconfigured.Read("app/db")
	assert.Error(t, err)
}
