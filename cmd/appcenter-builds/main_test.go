package main

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// fakeAppCenter serves two branches: "A" is configured, "B" is not.
// It records "METHOD path" for every request.
type fakeAppCenter struct {
	server   *httptest.Server
	requests []string
	bodies   map[string]string
}

func newFakeAppCenter(t *testing.T) *fakeAppCenter {
	t.Helper()
	f := &fakeAppCenter{bodies: map[string]string{}}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /v0.1/apps/acme/shop/branches", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[
			{"branch": {"name": "A"}, "configured": true,
			 "lastBuild": {"id": 11, "buildNumber": "11", "sourceBranch": "A", "status": "completed", "result": "succeeded",
			  "startTime": "2024-01-01T00:00:00Z", "finishTime": "2024-01-01T00:05:30Z"}},
			{"branch": {"name": "B"}, "configured": false}
		]`)
	})
	mux.HandleFunc("POST /v0.1/apps/acme/shop/branches/B/config", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		f.bodies["B"] = string(body)
		fmt.Fprint(w, `{"id": 1}`)
	})
	mux.HandleFunc("PUT /v0.1/apps/acme/shop/branches/A/config", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id": 1}`)
	})
	mux.HandleFunc("POST /v0.1/apps/acme/shop/branches/A/builds", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message":"no agent"}`)
	})
	mux.HandleFunc("POST /v0.1/apps/acme/shop/branches/B/builds", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"buildNumber": "12", "sourceBranch": "B"}`)
	})

	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.requests = append(f.requests, r.Method+" "+r.URL.Path)
		if r.Header.Get("X-API-Token") != "tok" {
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprint(w, `{"message":"bad token"}`)
			return
		}
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(f.server.Close)
	return f
}

func writeSettings(t *testing.T, apiURL string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `[appcenter]
api_url = "` + apiURL + `"
app_name = "acme-ignored"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func writeBuildConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "build_config.json")
	if err := os.WriteFile(path, []byte(`{"trigger": "manual"}`), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := newRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestCLI_StartBuildAll(t *testing.T) {
	fake := newFakeAppCenter(t)
	settings := writeSettings(t, fake.server.URL)

	out, _, err := execute(t, "start_build_all",
		"--config", settings,
		"--token", "tok", "--app_name", "shop", "--owner_name", "acme",
		"--config_file", writeBuildConfig(t))
	if err != nil {
		t.Fatalf("start_build_all failed: %v", err)
	}

	want := []string{
		"GET /v0.1/apps/acme/shop/branches",
		"POST /v0.1/apps/acme/shop/branches/A/builds",
		"POST /v0.1/apps/acme/shop/branches/B/config",
		"POST /v0.1/apps/acme/shop/branches/B/builds",
	}
	if diff := cmp.Diff(want, fake.requests); diff != "" {
		t.Errorf("requests (-want +got):\n%s", diff)
	}
	if fake.bodies["B"] != `{"trigger":"manual"}` {
		t.Errorf("config body = %q", fake.bodies["B"])
	}

	if !strings.Contains(out, `{"message":"no agent"}`) {
		t.Errorf("expected refused start body in output, got: %s", out)
	}
	if !strings.Contains(out, "Build No 12 of branch B added") {
		t.Errorf("expected started build in output, got: %s", out)
	}
	if !strings.Contains(out, `"print"`) {
		t.Errorf("expected hint to run print, got: %s", out)
	}
}

func TestCLI_StartBuildAlias(t *testing.T) {
	fake := newFakeAppCenter(t)
	settings := writeSettings(t, fake.server.URL)

	_, _, err := execute(t, "start_build",
		"--config", settings,
		"--token", "tok", "--app_name", "shop", "--owner_name", "acme",
		"--config_file", writeBuildConfig(t))
	if err != nil {
		t.Fatalf("start_build alias failed: %v", err)
	}
	if len(fake.requests) != 4 {
		t.Errorf("requests = %v, want 4", fake.requests)
	}
}

func TestCLI_Print(t *testing.T) {
	fake := newFakeAppCenter(t)
	settings := writeSettings(t, fake.server.URL)

	out, _, err := execute(t, "print",
		"--config", settings,
		"--token", "tok", "--app_name", "shop", "--owner_name", "acme")
	if err != nil {
		t.Fatalf("print failed: %v", err)
	}

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want header + 1:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "Branch name") {
		t.Errorf("header = %q", lines[0])
	}
	for _, want := range []string{"succeeded", "0:05:30", "https://appcenter.ms/users/acme/apps/shop/build/branches/A/builds/11"} {
		if !strings.Contains(lines[1], want) {
			t.Errorf("row %q missing %q", lines[1], want)
		}
	}
	if diff := cmp.Diff([]string{"GET /v0.1/apps/acme/shop/branches"}, fake.requests); diff != "" {
		t.Errorf("requests (-want +got):\n%s", diff)
	}
}

func TestCLI_UpdateConfig(t *testing.T) {
	fake := newFakeAppCenter(t)
	settings := writeSettings(t, fake.server.URL)

	out, _, err := execute(t, "update_config",
		"--config", settings,
		"--token", "tok", "--app_name", "shop", "--owner_name", "acme",
		"--branch", "A", "--config_file", writeBuildConfig(t))
	if err != nil {
		t.Fatalf("update_config failed: %v", err)
	}
	if diff := cmp.Diff([]string{"PUT /v0.1/apps/acme/shop/branches/A/config"}, fake.requests); diff != "" {
		t.Errorf("requests (-want +got):\n%s", diff)
	}
	if !strings.Contains(out, "A") {
		t.Errorf("output = %q", out)
	}
}

func TestCLI_UpdateConfigRequiresBranch(t *testing.T) {
	fake := newFakeAppCenter(t)
	settings := writeSettings(t, fake.server.URL)

	_, _, err := execute(t, "update_config",
		"--config", settings,
		"--token", "tok", "--app_name", "shop", "--owner_name", "acme",
		"--config_file", writeBuildConfig(t))
	if err == nil || !strings.Contains(err.Error(), `"branch"`) {
		t.Errorf("error = %v, want missing branch flag", err)
	}
	if len(fake.requests) != 0 {
		t.Errorf("requests = %v, want none", fake.requests)
	}
}

func TestCLI_RemoteErrorFailsCommand(t *testing.T) {
	fake := newFakeAppCenter(t)
	settings := writeSettings(t, fake.server.URL)

	_, _, err := execute(t, "print",
		"--config", settings,
		"--token", "wrong", "--app_name", "shop", "--owner_name", "acme")
	if err == nil {
		t.Fatal("print with a rejected token should fail")
	}
	if !strings.Contains(err.Error(), "401") {
		t.Errorf("error = %v, want status code", err)
	}
}

func TestCLI_MissingToken(t *testing.T) {
	settings := writeSettings(t, "http://127.0.0.1:1")

	_, _, err := execute(t, "print", "--config", settings, "--app_name", "shop", "--owner_name", "acme")
	if err == nil || !strings.Contains(err.Error(), "token") {
		t.Errorf("error = %v, want missing token", err)
	}
}

func TestCLI_SettingsFileSuppliesValues(t *testing.T) {
	fake := newFakeAppCenter(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `[appcenter]
api_url = "` + fake.server.URL + `"
token = "tok"
app_name = "shop"
owner_name = "acme"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	if _, _, err := execute(t, "print", "--config", path); err != nil {
		t.Fatalf("print with settings file failed: %v", err)
	}
	if len(fake.requests) != 1 {
		t.Errorf("requests = %v, want 1", fake.requests)
	}
}

func TestCLI_VerboseLogsToStderr(t *testing.T) {
	fake := newFakeAppCenter(t)
	settings := writeSettings(t, fake.server.URL)

	out, errOut, err := execute(t, "print", "-v",
		"--config", settings,
		"--token", "tok", "--app_name", "shop", "--owner_name", "acme")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(errOut, "run_id=") || !strings.Contains(errOut, "level=DEBUG") {
		t.Errorf("stderr = %q, want debug logs with run_id", errOut)
	}
	if strings.Contains(out, "level=") {
		t.Error("logs leaked into stdout")
	}
}

func TestRequireSet(t *testing.T) {
	err := requireSet(map[string]string{"token": "x", "app_name": "", "owner_name": ""})
	if err == nil || !strings.Contains(err.Error(), "app_name") {
		t.Errorf("requireSet() = %v, want app_name reported first", err)
	}
	if err := requireSet(map[string]string{"token": "x", "app_name": "a", "owner_name": "o"}); err != nil {
		t.Errorf("requireSet() = %v, want nil", err)
	}
}
