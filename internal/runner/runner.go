// Package runner sequences API calls for the command-line operations.
// Every call is synchronous and branches are handled one at a time.
package runner

import (
	"context"
	"fmt"
	"io"

	"github.com/hochfrequenz/appcenter-builds/internal/appcenter"
	"github.com/hochfrequenz/appcenter-builds/internal/buildconfig"
	"github.com/hochfrequenz/appcenter-builds/internal/ctxlog"
	"github.com/hochfrequenz/appcenter-builds/internal/domain"
	"github.com/hochfrequenz/appcenter-builds/internal/notify"
	"github.com/hochfrequenz/appcenter-builds/internal/report"
)

// ResultHint is printed after start_build_all
const ResultHint = `To see the results run the "print" command`

// API is the subset of the App Center client the runner uses
type API interface {
	ListBranches(ctx context.Context, app appcenter.App, includeInactive bool) ([]domain.Branch, error)
	ListLastBuilds(ctx context.Context, app appcenter.App, includeInactive bool) ([]domain.Build, error)
	AttachConfig(ctx context.Context, app appcenter.App, branch string, doc buildconfig.Document, isUpdate bool) (*appcenter.Response, error)
	StartBuild(ctx context.Context, app appcenter.App, branch string) (appcenter.StartOutcome, error)
	BuildLogURL(app appcenter.App, branch string, buildID int) string
}

var _ API = (*appcenter.Client)(nil)

// Options configures a Runner
type Options struct {
	App             appcenter.App
	IncludeInactive bool
	Out             io.Writer
	Notifier        notify.Notifier
}

// Runner executes the print, start_build_all and update_config operations
type Runner struct {
	api  API
	opts Options
}

// New creates a Runner
func New(api API, opts Options) *Runner {
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	if opts.Notifier == nil {
		opts.Notifier = notify.NoopNotifier{}
	}
	return &Runner{api: api, opts: opts}
}

// Print writes the last build of every built branch as a table
func (r *Runner) Print(ctx context.Context) error {
	builds, err := r.api.ListLastBuilds(ctx, r.opts.App, r.opts.IncludeInactive)
	if err != nil {
		return err
	}

	link := func(branch string, buildID int) string {
		return r.api.BuildLogURL(r.opts.App, branch, buildID)
	}
	return report.Write(r.opts.Out, report.Rows(builds, link))
}

// BatchResult summarises a StartBuildAll run
type BatchResult struct {
	// Configured lists branches that had a config attached
	Configured []string
	Outcomes   []appcenter.StartOutcome
}

// Started counts builds the service accepted
func (b *BatchResult) Started() int {
	n := 0
	for _, o := range b.Outcomes {
		if o.Started {
			n++
		}
	}
	return n
}

// Failed counts builds the service refused
func (b *BatchResult) Failed() int {
	return len(b.Outcomes) - b.Started()
}

// StartBuildAll starts a build on every branch. Branches without a build
// configuration first get the document at configPath attached. A refused
// build start is printed and the next branch is processed; a failed
// attach or a transport error stops the run.
func (r *Runner) StartBuildAll(ctx context.Context, configPath string) (*BatchResult, error) {
	log := ctxlog.FromContext(ctx)

	branches, err := r.api.ListBranches(ctx, r.opts.App, r.opts.IncludeInactive)
	if err != nil {
		return nil, err
	}
	log.Info("branches listed", "app", r.opts.App.String(), "count", len(branches))

	result := &BatchResult{}
	var doc buildconfig.Document

	for _, b := range branches {
		if !b.Configured {
			if doc == nil {
				doc, err = buildconfig.Load(configPath)
				if err != nil {
					return result, err
				}
			}
			if err := r.attach(ctx, b.Name, doc, false); err != nil {
				return result, err
			}
			result.Configured = append(result.Configured, b.Name)
		}

		outcome, err := r.api.StartBuild(ctx, r.opts.App, b.Name)
		if err != nil {
			return result, err
		}
		result.Outcomes = append(result.Outcomes, outcome)
		if !outcome.Started {
			log.Warn("build not started", "branch", b.Name, "status", outcome.StatusCode)
		}
		fmt.Fprintln(r.opts.Out, outcome.Message())
	}

	fmt.Fprintln(r.opts.Out, ResultHint)

	summary := notify.BatchSummary(r.opts.App.String(), result.Started(), result.Failed())
	if err := r.opts.Notifier.Send(ctx, summary); err != nil {
		log.Warn("notification failed", "error", err)
	}

	return result, nil
}

// UpdateConfig replaces the build configuration of one branch
func (r *Runner) UpdateConfig(ctx context.Context, branch, configPath string) error {
	doc, err := buildconfig.Load(configPath)
	if err != nil {
		return err
	}
	if err := r.attach(ctx, branch, doc, true); err != nil {
		return err
	}
	fmt.Fprintf(r.opts.Out, "Config of branch %s updated\n", branch)
	return nil
}

func (r *Runner) attach(ctx context.Context, branch string, doc buildconfig.Document, isUpdate bool) error {
	resp, err := r.api.AttachConfig(ctx, r.opts.App, branch, doc, isUpdate)
	if err != nil {
		return err
	}

	op := "attach config"
	if isUpdate {
		op = "replace config"
	}
	if err := resp.Err(op + " for " + branch); err != nil {
		return err
	}
	ctxlog.FromContext(ctx).Info("config attached", "branch", branch, "status", resp.StatusCode, "update", isUpdate)
	return nil
}
