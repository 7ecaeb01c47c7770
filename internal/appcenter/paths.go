package appcenter

import (
	"net/url"
	"strconv"
	"strings"
)

const (
	// DefaultAPIURL is the base for REST calls
	DefaultAPIURL = "https://api.appcenter.ms"
	// DefaultWebURL is the base for links a person opens in a browser
	DefaultWebURL = "https://appcenter.ms"
)

// Paths holds the endpoint templates. Placeholders are written as
// {owner_name}, {app_name}, {branch}, {branch_name} and {build_id}.
type Paths struct {
	Branches     string
	BranchConfig string
	BranchBuilds string
	// BuildLog is relative to the web console, not the API
	BuildLog string
}

// DefaultPaths returns the v0.1 templates
func DefaultPaths() Paths {
	return Paths{
		Branches:     "/v0.1/apps/{owner_name}/{app_name}/branches",
		BranchConfig: "/v0.1/apps/{owner_name}/{app_name}/branches/{branch}/config",
		BranchBuilds: "/v0.1/apps/{owner_name}/{app_name}/branches/{branch}/builds",
		BuildLog:     "/users/{owner_name}/apps/{app_name}/build/branches/{branch_name}/builds/{build_id}",
	}
}

// App identifies an app by its owner and name
type App struct {
	Owner string
	Name  string
}

func (a App) String() string {
	return a.Owner + "/" + a.Name
}

// expand substitutes the app and branch into tmpl. Values are escaped as
// single path segments, so "feature/x" becomes "feature%2Fx".
func expand(tmpl string, app App, branch string, buildID int) string {
	r := strings.NewReplacer(
		"{owner_name}", url.PathEscape(app.Owner),
		"{app_name}", url.PathEscape(app.Name),
		"{branch}", url.PathEscape(branch),
		"{branch_name}", url.PathEscape(branch),
		"{build_id}", strconv.Itoa(buildID),
	)
	return r.Replace(tmpl)
}
