package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Build is one execution of the build pipeline for a branch
type Build struct {
	ID            int         `json:"id"`
	BuildNumber   BuildNumber `json:"buildNumber,omitempty"`
	SourceBranch  string      `json:"sourceBranch"`
	SourceVersion string      `json:"sourceVersion,omitempty"`
	Status        BuildStatus `json:"status"`
	Result        BuildResult `json:"result,omitempty"`
	Reason        string      `json:"reason,omitempty"`
	QueueTime     *time.Time  `json:"queueTime,omitempty"`
	StartTime     *time.Time  `json:"startTime,omitempty"`
	FinishTime    *time.Time  `json:"finishTime,omitempty"`
}

// State is the status shown to users: the result once the build has
// completed, the lifecycle status before that.
func (b *Build) State() string {
	if b.Status == StatusCompleted {
		return string(b.Result)
	}
	return string(b.Status)
}

// Duration returns finish minus start. ok is false unless both
// timestamps are present.
func (b *Build) Duration() (d time.Duration, ok bool) {
	if b.StartTime == nil || b.FinishTime == nil {
		return 0, false
	}
	return b.FinishTime.Sub(*b.StartTime), true
}

// BuildNumber is the service's build number. It arrives as a JSON string
// but plain numbers are accepted too.
type BuildNumber string

// UnmarshalJSON accepts "42" and 42
func (n *BuildNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = BuildNumber(s)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("build number: %w", err)
	}
	*n = BuildNumber(num.String())
	return nil
}

func (n BuildNumber) String() string {
	return string(n)
}
