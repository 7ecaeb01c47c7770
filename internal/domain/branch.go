package domain

import "encoding/json"

// Branch is a development line of an app as tracked by the build service.
type Branch struct {
	Name       string
	Configured bool
	Trigger    Trigger
	LastBuild  *Build
}

// HasBuilt reports whether the branch has ever been built
func (b *Branch) HasBuilt() bool {
	return b.LastBuild != nil
}

// wireBranch mirrors the branch status payload, where the name is nested
// under "branch".
type wireBranch struct {
	Branch struct {
		Name string `json:"name"`
	} `json:"branch"`
	Configured bool    `json:"configured"`
	Trigger    Trigger `json:"trigger,omitempty"`
	LastBuild  *Build  `json:"lastBuild,omitempty"`
}

// UnmarshalJSON decodes a branch status object
func (b *Branch) UnmarshalJSON(data []byte) error {
	var w wireBranch
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*b = Branch{
		Name:       w.Branch.Name,
		Configured: w.Configured,
		Trigger:    w.Trigger,
		LastBuild:  w.LastBuild,
	}
	return nil
}

// MarshalJSON encodes the branch in the service's wire shape
func (b Branch) MarshalJSON() ([]byte, error) {
	var w wireBranch
	w.Branch.Name = b.Name
	w.Configured = b.Configured
	w.Trigger = b.Trigger
	w.LastBuild = b.LastBuild
	return json.Marshal(w)
}

// LastBuilds returns the last build of every branch that has one,
// preserving branch order.
func LastBuilds(branches []Branch) []Build {
	builds := make([]Build, 0, len(branches))
	for _, b := range branches {
		if b.HasBuilt() {
			builds = append(builds, *b.LastBuild)
		}
	}
	return builds
}
