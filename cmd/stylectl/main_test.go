package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
)

const sampleResults = `{"results": [
	{"rank": 1, "productIdStr": "p1", "name": "Acme Studio Linen Shirt", "category": "Shirts", "score": 0.91, "imageUrl": "https://img/p1.jpg"},
	{"rank": 2, "productIdStr": "p2", "name": "Solo", "category": "Outerwear", "imageUrl": "https://img/p2.jpg"}
]}`

type upstream struct {
	url   string
	calls atomic.Int32
	path  atomic.Value
	body  atomic.Value
}

func newUpstream(t *testing.T, status int, body string) *upstream {
	t.Helper()
	u := &upstream{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u.calls.Add(1)
		raw, _ := io.ReadAll(r.Body)
		u.path.Store(r.URL.Path)
		u.body.Store(string(raw))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	u.url = srv.URL
	return u
}

func execute(t *testing.T, args ...string) (stdout, stderr string, code int) {
	t.Helper()
	var out, errOut bytes.Buffer
	code = run(context.Background(), args, &out, &errOut)
	return out.String(), errOut.String(), code
}

func TestText_Table(t *testing.T) {
	u := newUpstream(t, http.StatusOK, sampleResults)

	out, errOut, code := execute(t, "text", "--base-url", u.url, "--seed", "1", "linen", "shirt")
	if code != exitSuccess {
		t.Fatalf("exit = %d, stderr:\n%s", code, errOut)
	}
	if got := u.path.Load(); got != "/search/text-to-image" {
		t.Errorf("path = %v", got)
	}
	raw, _ := u.body.Load().(string)
	if !strings.Contains(raw, `"query_text":"linen shirt"`) {
		t.Errorf("body = %s", raw)
	}
	for _, want := range []string{"p1", "Acme Studio", "Fashion Brand", ".99", "91%"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q. Got:\n%s", want, out)
		}
	}
}

func TestText_JSON(t *testing.T) {
	u := newUpstream(t, http.StatusOK, sampleResults)

	out, errOut, code := execute(t, "text", "-o", "json", "--base-url", u.url, "linen")
	if code != exitSuccess {
		t.Fatalf("exit = %d, stderr:\n%s", code, errOut)
	}
	var items []map[string]any
	if err := json.Unmarshal([]byte(out), &items); err != nil {
		t.Fatalf("invalid JSON output: %v\nGot: %s", err, out)
	}
	if len(items) != 2 {
		t.Fatalf("items = %d, want 2", len(items))
	}
	if items[0]["productId"] != "p1" || items[0]["brand"] != "Acme Studio" {
		t.Errorf("first item = %v", items[0])
	}
}

func TestText_SameSeedSameOutput(t *testing.T) {
	u := newUpstream(t, http.StatusOK, sampleResults)

	first, _, _ := execute(t, "text", "-o", "json", "--seed", "42", "--base-url", u.url, "linen")
	second, _, _ := execute(t, "text", "-o", "json", "--seed", "42", "--base-url", u.url, "linen")
	if first != second {
		t.Errorf("outputs differ with the same seed:\n%s\n%s", first, second)
	}
}

func TestText_BaseURLFromEnv(t *testing.T) {
	u := newUpstream(t, http.StatusOK, `{"results": []}`)
	t.Setenv("STYLESEARCH_BASE_URL", u.url)

	out, errOut, code := execute(t, "text", "dress")
	if code != exitSuccess {
		t.Fatalf("exit = %d, stderr:\n%s", code, errOut)
	}
	if !strings.Contains(out, "No recommendations found.") {
		t.Errorf("expected empty-state notice, got:\n%s", out)
	}
}

func TestText_EmptyQuery(t *testing.T) {
	u := newUpstream(t, http.StatusOK, sampleResults)

	_, errOut, code := execute(t, "text", "--base-url", u.url, "   ")
	if code != exitUsageError {
		t.Errorf("exit = %d, want %d", code, exitUsageError)
	}
	if !strings.Contains(errOut, "empty_query") {
		t.Errorf("stderr missing constraint:\n%s", errOut)
	}
	if n := u.calls.Load(); n != 0 {
		t.Errorf("upstream calls = %d, want 0", n)
	}
}

func TestText_Upstream(t *testing.T) {
	u := newUpstream(t, http.StatusInternalServerError, `{"detail":"boom"}`)

	_, errOut, code := execute(t, "text", "--base-url", u.url, "dress")
	if code != exitUpstream {
		t.Errorf("exit = %d, want %d", code, exitUpstream)
	}
	if !strings.Contains(errOut, "Status: 500") {
		t.Errorf("stderr missing status:\n%s", errOut)
	}
}

func TestText_MissingBaseURL(t *testing.T) {
	t.Setenv("STYLESEARCH_BASE_URL", "")
	_, errOut, code := execute(t, "text", "dress")
	if code != exitUsageError {
		t.Errorf("exit = %d, want %d", code, exitUsageError)
	}
	if !strings.Contains(errOut, "base URL is required") {
		t.Errorf("stderr:\n%s", errOut)
	}
}

func TestInvalidOutput(t *testing.T) {
	_, _, code := execute(t, "facets", "-o", "yaml")
	if code != exitUsageError {
		t.Errorf("exit = %d, want %d", code, exitUsageError)
	}
}

func TestUnknownFlag(t *testing.T) {
	_, _, code := execute(t, "facets", "--nope")
	if code != exitUsageError {
		t.Errorf("exit = %d, want %d", code, exitUsageError)
	}
}

func TestImage(t *testing.T) {
	u := newUpstream(t, http.StatusOK, sampleResults)
	path := filepath.Join(t.TempDir(), "look.png")
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	if err := os.WriteFile(path, png, 0o600); err != nil {
		t.Fatal(err)
	}

	_, errOut, code := execute(t, "image", path, "--base-url", u.url,
		"--category", "Outerwear", "--style", "All Styles")
	if code != exitSuccess {
		t.Fatalf("exit = %d, stderr:\n%s", code, errOut)
	}
	if got := u.path.Load(); got != "/search/image-to-image" {
		t.Errorf("path = %v", got)
	}
	body, _ := u.body.Load().(string)
	for _, want := range []string{`name="query_image"; filename="look.png"`, "image/png", `name="category"`, "Outerwear"} {
		if !strings.Contains(body, want) {
			t.Errorf("form missing %q", want)
		}
	}
	if strings.Contains(body, `name="style"`) {
		t.Error("sentinel style must not be sent")
	}
}

func TestImage_NotAnImage(t *testing.T) {
	u := newUpstream(t, http.StatusOK, sampleResults)
	path := filepath.Join(t.TempDir(), "doc.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.4\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	_, errOut, code := execute(t, "image", path, "--base-url", u.url)
	if code != exitUsageError {
		t.Errorf("exit = %d, want %d", code, exitUsageError)
	}
	if !strings.Contains(errOut, "Constraint: type") {
		t.Errorf("stderr:\n%s", errOut)
	}
	if n := u.calls.Load(); n != 0 {
		t.Errorf("upstream calls = %d, want 0", n)
	}
}

func TestImage_MissingFile(t *testing.T) {
	_, _, code := execute(t, "image", filepath.Join(t.TempDir(), "nope.jpg"), "--base-url", "http://unused")
	if code != exitUsageError {
		t.Errorf("exit = %d, want %d", code, exitUsageError)
	}
}

func TestFacets(t *testing.T) {
	out, _, code := execute(t, "facets")
	if code != exitSuccess {
		t.Fatalf("exit = %d", code)
	}
	for _, want := range []string{"All Categories", "All Styles", "All Occasions", "Date Night"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestFacets_JSON(t *testing.T) {
	out, _, code := execute(t, "facets", "--output", "json")
	if code != exitSuccess {
		t.Fatalf("exit = %d", code)
	}
	var facets []struct {
		Name     string   `json:"name"`
		AllLabel string   `json:"allLabel"`
		Options  []string `json:"options"`
	}
	if err := json.Unmarshal([]byte(out), &facets); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(facets) != 3 || facets[0].Name != "category" {
		t.Errorf("facets = %+v", facets)
	}
}

func TestHealth(t *testing.T) {
	u := newUpstream(t, http.StatusOK, `{}`)
	out, _, code := execute(t, "health", "--base-url", u.url)
	if code != exitSuccess {
		t.Fatalf("exit = %d", code)
	}
	if strings.TrimSpace(out) != "ok" {
		t.Errorf("output = %q", out)
	}
}

func TestVersion_JSON(t *testing.T) {
	out, _, code := execute(t, "version", "-o", "json")
	if code != exitSuccess {
		t.Fatalf("exit = %d", code)
	}
	var info map[string]string
	if err := json.Unmarshal([]byte(out), &info); err != nil {
		t.Fatalf("invalid JSON output: %v\nGot: %s", err, out)
	}
	for _, key := range []string{"version", "commit", "built", "goVersion"} {
		if _, ok := info[key]; !ok {
			t.Errorf("JSON output missing key %q", key)
		}
	}
}
