package controllers

import (
	"archive/zip"
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/moyoez/qrdrop/api/middlewares"
	"github.com/moyoez/qrdrop/api/models"
	"github.com/moyoez/qrdrop/archive"
	"github.com/moyoez/qrdrop/types"
)

// setupRouter builds a test router the way api.Server wires the real one.
func setupRouter(session *types.Session, rateLimit int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middlewares.RateLimit(rateLimit))
	ctrl := NewDownloadController(session)
	router.GET("/:token", ctrl.HandleDownload)
	router.NoRoute(HandleUnknownPath)
	return router
}

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "payload.bin")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	return path
}

func get(router *gin.Engine, url string, headers map[string]string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("GET", url, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// Scenario: single file, no password, no expiry.
func TestDownloadSingleFile(t *testing.T) {
	content := "exact file bytes \x00\x01\x02"
	session, err := models.NewSession(writeTempFile(t, content), "", 0, false)
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	router := setupRouter(session, 0)

	w := get(router, "/"+session.Token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w.Body.String() != content {
		t.Errorf("body does not match file bytes")
	}
	if cd := w.Header().Get("Content-Disposition"); cd != `attachment; filename="payload.bin"` {
		t.Errorf("unexpected Content-Disposition: %q", cd)
	}
	if session.Downloads() != 1 {
		t.Errorf("expected counter 1, got %d", session.Downloads())
	}
}

func TestDownloadWrongToken(t *testing.T) {
	session, err := models.NewSession(writeTempFile(t, "data"), "", 0, false)
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	router := setupRouter(session, 0)

	w := get(router, "/definitely-not-the-token", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
	if session.Downloads() != 0 {
		t.Errorf("rejected request must not be counted, got %d", session.Downloads())
	}
}

// Unknown paths must look exactly like a wrong token.
func TestUnknownPathIndistinguishable(t *testing.T) {
	session, err := models.NewSession(writeTempFile(t, "data"), "", 0, false)
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	router := setupRouter(session, 0)

	wrongToken := get(router, "/wrong-token", nil)
	deepPath := get(router, "/some/deep/path", nil)
	if deepPath.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown path, got %d", deepPath.Code)
	}
	if deepPath.Body.String() != wrongToken.Body.String() {
		t.Errorf("unknown path body %q differs from wrong token body %q", deepPath.Body.String(), wrongToken.Body.String())
	}
}

// Scenario: password "teamSecret123" via query param and header.
func TestPasswordProtected(t *testing.T) {
	session, err := models.NewSession(writeTempFile(t, "secret data"), "teamSecret123", 0, false)
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	router := setupRouter(session, 0)

	if w := get(router, "/"+session.Token+"?passed=wrongpass", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("wrong password: expected 401, got %d", w.Code)
	}
	if w := get(router, "/"+session.Token, nil); w.Code != http.StatusUnauthorized {
		t.Errorf("missing password: expected 401, got %d", w.Code)
	}
	if w := get(router, "/"+session.Token+"?passed=teamSecret123", nil); w.Code != http.StatusOK {
		t.Errorf("correct query password: expected 200, got %d", w.Code)
	}
	if w := get(router, "/"+session.Token, map[string]string{"X-Password": "teamSecret123"}); w.Code != http.StatusOK {
		t.Errorf("correct header password: expected 200, got %d", w.Code)
	}
	// Header takes precedence over the query parameter.
	if w := get(router, "/"+session.Token+"?passed=teamSecret123", map[string]string{"X-Password": "wrongpass"}); w.Code != http.StatusUnauthorized {
		t.Errorf("wrong header should win over correct query param, got %d", w.Code)
	}
	if session.Downloads() != 2 {
		t.Errorf("expected 2 counted downloads, got %d", session.Downloads())
	}
}

// Scenario: link already expired, correct token and password.
func TestExpiredLink(t *testing.T) {
	session := &types.Session{
		Token:     "expired-token",
		Password:  "teamSecret123",
		ExpiresAt: time.Now().Add(-time.Second),
		FilePath:  writeTempFile(t, "late"),
		FileName:  "payload.bin",
	}
	router := setupRouter(session, 0)

	w := get(router, "/expired-token?passed=teamSecret123", nil)
	if w.Code != http.StatusGone {
		t.Errorf("expected 410, got %d", w.Code)
	}
	// Expiry wins over a wrong password for holders of the right token.
	if w := get(router, "/expired-token?passed=wrongpass", nil); w.Code != http.StatusGone {
		t.Errorf("expected 410 for expired link with wrong password, got %d", w.Code)
	}
	if w := get(router, "/other-token?passed=teamSecret123", nil); w.Code != http.StatusNotFound {
		t.Errorf("wrong token must stay 404 even when expired, got %d", w.Code)
	}
	if session.Downloads() != 0 {
		t.Errorf("expired requests must not be counted, got %d", session.Downloads())
	}
}

// Scenario: several paths and no zip flag still produce one archive.
func TestDownloadArchiveOfMultipleFiles(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for _, name := range []string{"one.txt", "two.txt", "three.txt"} {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte("content of "+name), 0o644); err != nil {
			t.Fatalf("failed to write input: %v", err)
		}
		paths = append(paths, path)
	}

	need, err := archive.ShouldArchive(paths, false)
	if err != nil || !need {
		t.Fatalf("three paths should require an archive (need=%v, err=%v)", need, err)
	}
	archivePath, err := archive.Build(paths)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer os.Remove(archivePath)

	session, err := models.NewSession(archivePath, "", 0, true)
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	router := setupRouter(session, 0)

	w := get(router, "/"+session.Token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	zr, err := zip.NewReader(bytes.NewReader(w.Body.Bytes()), int64(w.Body.Len()))
	if err != nil {
		t.Fatalf("response is not a readable zip: %v", err)
	}
	if len(zr.File) != 3 {
		t.Errorf("expected 3 entries in the served archive, got %d", len(zr.File))
	}
}

func TestConcurrentDownloadsAllCounted(t *testing.T) {
	session, err := models.NewSession(writeTempFile(t, "concurrent payload"), "", 0, false)
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	router := setupRouter(session, 0)

	const n = 50
	var wg sync.WaitGroup
	codes := make([]int, n)
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			codes[i] = get(router, "/"+session.Token, nil).Code
		}(i)
	}
	wg.Wait()

	for i, code := range codes {
		if code != http.StatusOK {
			t.Errorf("request %d: expected 200, got %d", i, code)
		}
	}
	if got := session.Downloads(); got != n {
		t.Errorf("expected exactly %d counted downloads, got %d", n, got)
	}
}

func TestRateLimitRejectsBursts(t *testing.T) {
	session, err := models.NewSession(writeTempFile(t, "limited"), "", 0, false)
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	router := setupRouter(session, 1)

	limited := 0
	for i := 0; i < 20; i++ {
		if get(router, "/probe", nil).Code == http.StatusTooManyRequests {
			limited++
		}
	}
	if limited == 0 {
		t.Error("expected at least one 429 from a 20-request burst at 1 rps")
	}
}
