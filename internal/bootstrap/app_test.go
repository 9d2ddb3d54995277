package bootstrap

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/locvowork/excel_intelligence/internal/config"
	"github.com/locvowork/excel_intelligence/internal/handler"
	"github.com/locvowork/excel_intelligence/internal/service"
	"github.com/locvowork/excel_intelligence/internal/session"
)

func newTestApp(bodyLimit string) *App {
	app := NewApp()
	app.Store = session.NewStore(time.Hour)
	svc := service.NewViewerService(app.Store, config.DefaultViewConfig(), service.ViewerOptions{})
	app.RegisterMiddlewares(bodyLimit)
	app.RegisterRoutes(handler.NewViewerHandler(svc))
	return app
}

func TestRegisterRoutes(t *testing.T) {
	app := newTestApp("1M")

	routes := map[string]bool{}
	for _, r := range app.Echo.Routes() {
		routes[r.Method+" "+r.Path] = true
	}
	for _, want := range []string{
		"GET /",
		"GET /healthz",
		"POST /api/workbooks",
		"GET /api/workbooks",
		"DELETE /api/workbooks",
		"POST /api/view",
		"GET /api/insights",
		"POST /api/export/pdf",
		"POST /api/export/xlsx",
	} {
		assert.True(t, routes[want], want)
	}
}

func TestBodyLimit(t *testing.T) {
	app := newTestApp("1K")

	req := httptest.NewRequest(http.MethodPost, "/api/workbooks", bytes.NewReader(make([]byte, 4096)))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=x")
	rec := httptest.NewRecorder()
	app.Echo.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	rec = httptest.NewRecorder()
	app.Echo.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestInitialize_ViewConfigPathOverride(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("VIEW_CONFIG_PATH", "")

	bad := filepath.Join(t.TempDir(), "view.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("highlight:\n  color: not-a-color\n"), 0o644))

	app := NewApp()
	app.ViewConfigPath = bad
	err := app.Initialize(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load view config")

	good := filepath.Join(t.TempDir(), "view.yaml")
	require.NoError(t, os.WriteFile(good, []byte("highlight:\n  keywords: [spend]\n"), 0o644))

	app = NewApp()
	app.ViewConfigPath = good
	require.NoError(t, app.Initialize(context.Background()))
	require.NoError(t, app.Shutdown(context.Background()))
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, added in Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	})
}
