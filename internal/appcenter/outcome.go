package appcenter

import "fmt"

// StartOutcome is the result of triggering one build. A refused start is
// an outcome, not an error, so a batch over many branches keeps going.
type StartOutcome struct {
	Branch  string
	Started bool

	// Set when Started
	BuildNumber  string
	SourceBranch string

	// Set when not Started
	StatusCode int
	Body       string
}

// Message is the line printed for this outcome
func (o StartOutcome) Message() string {
	if o.Started {
		return fmt.Sprintf("Build No %s of branch %s added", o.BuildNumber, o.SourceBranch)
	}
	return o.Body
}
