//go:build integration

package integration

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
)

// binaryPath returns the path to the built CLI binary
func binaryPath(t *testing.T) string {
	t.Helper()
	paths := []string{
		"../appcenter-builds",
		"./appcenter-builds",
		filepath.Join(os.Getenv("GOPATH"), "bin", "appcenter-builds"),
	}

	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			abs, _ := filepath.Abs(p)
			return abs
		}
	}

	t.Log("Binary not found, building...")
	cmd := exec.Command("go", "build", "-o", "../appcenter-builds", "../cmd/appcenter-builds")
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("Failed to build binary: %v\n%s", err, out)
	}

	abs, _ := filepath.Abs("../appcenter-builds")
	return abs
}

// FixturesDir returns the path to the fixtures directory
func FixturesDir(t *testing.T) string {
	t.Helper()
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	return filepath.Join(filepath.Dir(filename), "fixtures")
}

// TempConfigPath creates a temporary settings file path for testing
func TempConfigPath(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	return filepath.Join(dir, "config.toml")
}

// createTestConfig writes a settings file pointing at apiURL
func createTestConfig(t *testing.T, apiURL string) string {
	t.Helper()
	configPath := TempConfigPath(t)

	config := `[appcenter]
token = "integration-token"
app_name = "shop"
owner_name = "acme"
api_url = "` + apiURL + `"
web_url = "https://appcenter.ms"

[notifications]
desktop = false

[log]
level = "warn"
`

	if err := os.WriteFile(configPath, []byte(config), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return configPath
}

// fakeService is an in-process App Center stand-in. Branch builds
// listed in refuse are answered with 404.
type fakeService struct {
	mu       sync.Mutex
	requests []string
	configs  map[string]string
}

func startFakeService(t *testing.T, branchesJSON string, refuse ...string) (*fakeService, string) {
	t.Helper()
	f := &fakeService{configs: map[string]string{}}
	refused := map[string]bool{}
	for _, b := range refuse {
		refused[b] = true
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /v0.1/apps/acme/shop/branches", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, branchesJSON)
	})
	mux.HandleFunc("/v0.1/apps/acme/shop/branches/{branch}/config", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		f.mu.Lock()
		f.configs[r.PathValue("branch")] = string(body)
		f.mu.Unlock()
		fmt.Fprint(w, `{"id": 1}`)
	})
	mux.HandleFunc("POST /v0.1/apps/acme/shop/branches/{branch}/builds", func(w http.ResponseWriter, r *http.Request) {
		branch := r.PathValue("branch")
		if refused[branch] {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprintf(w, `{"message":"cannot build %s"}`, branch)
			return
		}
		fmt.Fprintf(w, `{"buildNumber": "100", "sourceBranch": %q}`, branch)
	})

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.requests = append(f.requests, r.Method+" "+r.URL.Path)
		f.mu.Unlock()
		if r.Header.Get("X-API-Token") != "integration-token" {
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprint(w, `{"message":"Unauthorized"}`)
			return
		}
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(server.Close)

	return f, server.URL
}

func (f *fakeService) Requests() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.requests...)
}

func (f *fakeService) Config(branch string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.configs[branch]
}
