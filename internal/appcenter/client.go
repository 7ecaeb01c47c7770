// Package appcenter is a small client for the App Center build API:
// listing branches, attaching build configurations and starting builds.
package appcenter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/hochfrequenz/appcenter-builds/internal/buildconfig"
	"github.com/hochfrequenz/appcenter-builds/internal/ctxlog"
	"github.com/hochfrequenz/appcenter-builds/internal/domain"
)

// ClientConfig configures a Client. It is copied at construction and not
// changed afterwards.
type ClientConfig struct {
	Token  string
	APIURL string
	WebURL string
	Paths  Paths
	// Timeout bounds each request; zero means no limit
	Timeout time.Duration
	// HTTPClient overrides the transport, mainly for tests
	HTTPClient *http.Client
}

// Client talks to the App Center REST API
type Client struct {
	config ClientConfig
	http   *http.Client
}

// NewClient creates a Client, filling in default URLs and paths
func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("api token is required")
	}
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	if cfg.WebURL == "" {
		cfg.WebURL = DefaultWebURL
	}
	if cfg.Paths == (Paths{}) {
		cfg.Paths = DefaultPaths()
	}
	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")
	cfg.WebURL = strings.TrimRight(cfg.WebURL, "/")

	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.Timeout}
	}

	return &Client{config: cfg, http: hc}, nil
}

// ListBranches returns the app's branches in the order the service sends them
func (c *Client) ListBranches(ctx context.Context, app App, includeInactive bool) ([]domain.Branch, error) {
	const op = "list branches"

	url := c.config.APIURL + expand(c.config.Paths.Branches, app, "", 0) +
		"?includeInactive=" + strconv.FormatBool(includeInactive)

	resp, err := c.do(ctx, op, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if err := resp.Err(op); err != nil {
		return nil, err
	}

	var branches []domain.Branch
	if err := json.Unmarshal(resp.Body, &branches); err != nil {
		return nil, fmt.Errorf("%s: decode response: %w", op, err)
	}
	return branches, nil
}

// ListLastBuilds returns the last build of each branch that has been built.
// Branches without builds are skipped.
func (c *Client) ListLastBuilds(ctx context.Context, app App, includeInactive bool) ([]domain.Build, error) {
	branches, err := c.ListBranches(ctx, app, includeInactive)
	if err != nil {
		return nil, err
	}
	return domain.LastBuilds(branches), nil
}

// AttachConfig sends doc as the branch's build configuration, creating it
// (POST) or replacing it (PUT) when isUpdate is set. A non-2xx status is
// returned in the Response, not as an error.
func (c *Client) AttachConfig(ctx context.Context, app App, branch string, doc buildconfig.Document, isUpdate bool) (*Response, error) {
	op := "attach config"
	method := http.MethodPost
	if isUpdate {
		op = "replace config"
		method = http.MethodPut
	}

	body, err := doc.JSON()
	if err != nil {
		return nil, fmt.Errorf("%s: encode config: %w", op, err)
	}

	url := c.config.APIURL + expand(c.config.Paths.BranchConfig, app, branch, 0)
	return c.do(ctx, op, method, url, body)
}

type startBuildResponse struct {
	BuildNumber  domain.BuildNumber `json:"buildNumber"`
	SourceBranch string             `json:"sourceBranch"`
}

// StartBuild queues a build of branch. Only transport failures are
// returned as errors; a refusal by the service is a StartOutcome with
// Started unset.
func (c *Client) StartBuild(ctx context.Context, app App, branch string) (StartOutcome, error) {
	const op = "start build"

	url := c.config.APIURL + expand(c.config.Paths.BranchBuilds, app, branch, 0)
	resp, err := c.do(ctx, op, http.MethodPost, url, nil)
	if err != nil {
		return StartOutcome{Branch: branch}, err
	}

	outcome := StartOutcome{Branch: branch, StatusCode: resp.StatusCode}
	if resp.StatusCode != http.StatusOK {
		outcome.Body = string(resp.Body)
		return outcome, nil
	}

	var started startBuildResponse
	if err := json.Unmarshal(resp.Body, &started); err != nil {
		outcome.Body = string(resp.Body)
		ctxlog.FromContext(ctx).Warn("unreadable start build response",
			"branch", branch, "error", err)
		return outcome, nil
	}

	outcome.Started = true
	outcome.BuildNumber = started.BuildNumber.String()
	outcome.SourceBranch = started.SourceBranch
	return outcome, nil
}

// BuildLogURL returns the web console link to a build's logs. A person
// must be signed in to open it.
func (c *Client) BuildLogURL(app App, branch string, buildID int) string {
	return c.config.WebURL + expand(c.config.Paths.BuildLog, app, branch, buildID)
}

func (c *Client) do(ctx context.Context, op, method, url string, body []byte) (*Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("X-API-Token", c.config.Token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	log := ctxlog.FromContext(ctx)
	log.Debug("request", "op", op, "method", method, "url", url)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &NetworkError{Op: op, URL: url, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Op: op, URL: url, Err: err}
	}

	log.Debug("response", "op", op, "status", resp.StatusCode, "bytes", len(data))
	return &Response{StatusCode: resp.StatusCode, Body: data}, nil
}
