package domain

// BuildStatus represents the lifecycle state of a build
type BuildStatus string

const (
	StatusNotStarted BuildStatus = "notStarted"
	StatusInProgress BuildStatus = "inProgress"
	StatusCompleted  BuildStatus = "completed"
	StatusCancelling BuildStatus = "cancelling"
	StatusPostponed  BuildStatus = "postponed"
)

// BuildResult is the outcome of a completed build
type BuildResult string

const (
	ResultSucceeded BuildResult = "succeeded"
	ResultFailed    BuildResult = "failed"
	ResultCanceled  BuildResult = "canceled"
	ResultSkipped   BuildResult = "skipped"
)

// Trigger controls when the service builds a branch on its own
type Trigger string

const (
	TriggerContinuous Trigger = "continuous"
	TriggerManual     Trigger = "manual"
)
