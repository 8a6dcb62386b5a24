package server

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestStatic_ServesStoredFile(t *testing.T) {
	s, dir := newTestServer(t)
	data := []byte("\x89PNG\r\n\x1a\nrest-of-image")
	name := "0b6f7d52-3c51-4b8e-9d8e-2f1f4c3a9b10.png"
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	// No credentials: reads are public.
	rr := serve(s, httptest.NewRequest(http.MethodGet, "/"+name, nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("Content-Type = %q, want image/png", ct)
	}
	if !bytes.Equal(rr.Body.Bytes(), data) {
		t.Errorf("body mismatch")
	}
	if got := s.Metrics().Snapshot().ServedTotal; got != 1 {
		t.Errorf("ServedTotal = %d", got)
	}
}

func TestStatic_JPEGContentType(t *testing.T) {
	s, dir := newTestServer(t)
	name := "5f0c2a8e-7d61-4f5e-a1a3-6c9b7e2d4f00.jpeg"
	if err := os.WriteFile(filepath.Join(dir, name), []byte("jpg"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	rr := serve(s, httptest.NewRequest(http.MethodGet, "/"+name, nil))
	if ct := rr.Header().Get("Content-Type"); ct != "image/jpeg" {
		t.Errorf("Content-Type = %q, want image/jpeg", ct)
	}
}

func TestStatic_NotFound(t *testing.T) {
	s, dir := newTestServer(t)
	if err := os.Mkdir(filepath.Join(dir, "nested"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".upload-123"), []byte("partial"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "nested", "a.png"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	for _, path := range []string{"/nonexistent.png", "/", "/nested", "/nested/a.png", "/.upload-123"} {
		t.Run(path, func(t *testing.T) {
			rr := serve(s, httptest.NewRequest(http.MethodGet, path, nil))
			if rr.Code != http.StatusNotFound {
				t.Errorf("GET %s: expected 404, got %d", path, rr.Code)
			}
		})
	}
}

func TestStatic_RoundTripAfterUpload(t *testing.T) {
	s, _ := newTestServer(t)
	data := []byte("round trip png bytes")

	rr := serve(s, uploadRequest(t, "/", "image/png", data))
	if rr.Code != http.StatusOK {
		t.Fatalf("upload: %d", rr.Code)
	}
	url := decodeSuccess(t, rr).Data.Image.URL
	path := strings.TrimPrefix(url, testHost)

	rr = serve(s, httptest.NewRequest(http.MethodGet, path, nil))
	if rr.Code != http.StatusOK || !bytes.Equal(rr.Body.Bytes(), data) {
		t.Fatalf("GET %s: status %d body %q", path, rr.Code, rr.Body.String())
	}

	head := serve(s, httptest.NewRequest(http.MethodHead, path, nil))
	if head.Code != http.StatusOK || head.Body.Len() != 0 {
		t.Fatalf("HEAD %s: status %d body len %d", path, head.Code, head.Body.Len())
	}
}
