package report

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/hochfrequenz/appcenter-builds/internal/domain"
)

func testLink(branch string, buildID int) string {
	return fmt.Sprintf("https://appcenter.ms/users/acme/apps/shop/build/branches/%s/builds/%d", branch, buildID)
}

func ts(s string) *time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return &t
}

func TestNewRow_CompletedShowsResult(t *testing.T) {
	b := domain.Build{ID: 1, SourceBranch: "main", Status: domain.StatusCompleted, Result: domain.ResultSucceeded}

	row := NewRow(b, testLink)
	if row.Status != "succeeded" {
		t.Errorf("Status = %q, want succeeded", row.Status)
	}
}

func TestNewRow_InProgressShowsStatus(t *testing.T) {
	b := domain.Build{ID: 2, SourceBranch: "develop", Status: domain.StatusInProgress}

	row := NewRow(b, testLink)
	if row.Status != "inProgress" {
		t.Errorf("Status = %q, want inProgress", row.Status)
	}
}

func TestNewRow_Duration(t *testing.T) {
	b := domain.Build{
		ID:         3,
		Status:     domain.StatusCompleted,
		Result:     domain.ResultSucceeded,
		StartTime:  ts("2024-01-01T00:00:00Z"),
		FinishTime: ts("2024-01-01T00:05:30Z"),
	}

	if got := NewRow(b, testLink).Duration; got != "0:05:30" {
		t.Errorf("Duration = %q, want 0:05:30", got)
	}

	b.FinishTime = nil
	if got := NewRow(b, testLink).Duration; got != "" {
		t.Errorf("Duration = %q, want empty without finish time", got)
	}
}

func TestNewRow_Link(t *testing.T) {
	b := domain.Build{ID: 9, SourceBranch: "main", Status: domain.StatusNotStarted}

	want := "https://appcenter.ms/users/acme/apps/shop/build/branches/main/builds/9"
	if got := NewRow(b, testLink).Link; got != want {
		t.Errorf("Link = %q, want %q", got, want)
	}
}

func TestRow_Line(t *testing.T) {
	row := Row{Branch: "main", Status: "succeeded", Duration: "0:05:30", Link: "http://x"}

	line := row.Line()
	want := "main" + strings.Repeat(" ", 11) + " " +
		"succeeded" + strings.Repeat(" ", 6) + " " +
		"0:05:30" + strings.Repeat(" ", 8) + " " +
		"http://x" + strings.Repeat(" ", 92)
	if line != want {
		t.Errorf("Line() = %q, want %q", line, want)
	}
	if len(line) != BranchWidth+StatusWidth+DurationWidth+LinkWidth+3 {
		t.Errorf("len(Line()) = %d", len(line))
	}
}

// Overlong values are not truncated, so the following columns shift right.
func TestRow_Line_OverlongValueMisalignsColumns(t *testing.T) {
	long := "feature/very-long-branch-name"
	row := Row{Branch: long, Status: "failed"}

	line := row.Line()
	if !strings.HasPrefix(line, long+" failed") {
		t.Errorf("Line() = %q, want untruncated branch followed by status", line)
	}
	if idx := strings.Index(line, "failed"); idx == BranchWidth+1 {
		t.Error("status column should be shifted by the overlong branch")
	}
}

func TestLjust_CountsRunes(t *testing.T) {
	got := ljust("früh", 6)
	if got != "früh  " {
		t.Errorf("ljust = %q, want two spaces of padding", got)
	}
}

func TestWrite(t *testing.T) {
	builds := []domain.Build{
		{ID: 1, SourceBranch: "main", Status: domain.StatusCompleted, Result: domain.ResultFailed,
			StartTime: ts("2024-01-01T10:00:00Z"), FinishTime: ts("2024-01-01T10:01:00Z")},
		{ID: 2, SourceBranch: "develop", Status: domain.StatusInProgress,
			StartTime: ts("2024-01-01T10:00:00Z")},
	}

	var buf bytes.Buffer
	if err := Write(&buf, Rows(builds, testLink)); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want header + 2", len(lines))
	}
	if !strings.HasPrefix(lines[0], "Branch name     Build status    Duration        Link to build logs") {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "main            failed          0:01:00         https://") {
		t.Errorf("line 1 = %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], "develop         inProgress                      https://") {
		t.Errorf("line 2 = %q", lines[2])
	}
}

func TestWrite_NoBuildsPrintsHeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, nil); err != nil {
		t.Fatal(err)
	}
	if strings.Count(buf.String(), "\n") != 1 {
		t.Errorf("output = %q, want header line only", buf.String())
	}
}
