package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theMackabu/ship/pkg/config"
	"github.com/theMackabu/ship/pkg/httputil"
)

func newTestServer(t *testing.T, files map[string]string) *Server {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		full := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}
	return New(config.Settings{Listen: "127.0.0.1:0", Storage: root}, WithVersion("0.0.1-test"))
}

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) httputil.ErrorBody {
	t.Helper()
	var body httputil.ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

const appDoc = `
meta {
  file   = "app"
  export = "json"
}
const {
  name = "demo"
}
app  = var.name
port = 8080
`

func TestRenderJSON(t *testing.T) {
	s := newTestServer(t, map[string]string{"app.hcl": appDoc})

	rec := get(t, s, "/app.hcl")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="app.json"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "{\n  \"app\": \"demo\",\n  \"port\": 8080\n}", rec.Body.String())
}

func TestRenderLangOverride(t *testing.T) {
	s := newTestServer(t, map[string]string{"app.hcl": appDoc})

	rec := get(t, s, "/app.hcl?lang=toml")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/toml", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="app.toml"`, rec.Header().Get("Content-Disposition"))
	assert.Contains(t, rec.Body.String(), `app = "demo"`)
	assert.Contains(t, rec.Body.String(), "port = 8080")
}

func TestRenderUnknownLang(t *testing.T) {
	s := newTestServer(t, map[string]string{"app.hcl": appDoc})

	rec := get(t, s, "/app.hcl?lang=xml")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := errorBody(t, rec)
	assert.Equal(t, http.StatusBadRequest, body.Code)
	assert.Equal(t, "language not found", body.Error)
}

func TestRenderNoFormatAnywhere(t *testing.T) {
	s := newTestServer(t, map[string]string{"bare.hcl": `
meta {
  file = "bare"
}
x = 1
`})

	rec := get(t, s, "/bare.hcl")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRenderIndexFallback(t *testing.T) {
	s := newTestServer(t, map[string]string{"site/index.hcl": `
meta {
  file = "site.yml"
}
name = "site"
`})

	rec := get(t, s, "/site")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, `attachment; filename="site.yml"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "name: site\n", rec.Body.String())
}

func TestRenderMissingDocument(t *testing.T) {
	s := newTestServer(t, nil)

	rec := get(t, s, "/nope.hcl")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRenderMissingMeta(t *testing.T) {
	s := newTestServer(t, map[string]string{"plain.hcl": `x = 1`})

	rec := get(t, s, "/plain.hcl")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, errorBody(t, rec).Error, "missing meta")
}

func TestRenderParseError(t *testing.T) {
	s := newTestServer(t, map[string]string{"broken.hcl": `meta {`})

	rec := get(t, s, "/broken.hcl")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRenderConstConflict(t *testing.T) {
	s := newTestServer(t, map[string]string{"conflict.hcl": `
meta {
  file = "out.json"
}
const {
  a = 1
}
var {
  a = 2
}
`})

	rec := get(t, s, "/conflict.hcl")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, errorBody(t, rec).Error, "cannot override const values")
}

func TestRenderPathEscape(t *testing.T) {
	s := newTestServer(t, map[string]string{"app.hcl": appDoc})

	// The mux canonicalizes the path; whatever happens, nothing outside
	// the storage root may be served.
	rec := get(t, s, "/../../etc/passwd")
	assert.NotEqual(t, http.StatusOK, rec.Code)
}

func TestRenderDefaultFileName(t *testing.T) {
	s := newTestServer(t, map[string]string{"nested/cfg.hcl": `
meta {
  export = "json"
}
x = 1
`})

	rec := get(t, s, "/nested/cfg.hcl")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, `attachment; filename="cfg.json"`, rec.Header().Get("Content-Disposition"))
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t, nil)

	rec := get(t, s, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestStartStop(t *testing.T) {
	s := newTestServer(t, nil)
	require.NoError(t, s.Start())
	assert.True(t, s.IsRunning())
	assert.Error(t, s.Start())
	require.NoError(t, s.Stop())
	assert.False(t, s.IsRunning())
	require.NoError(t, s.Stop())
}
