package output

import (
	"bytes"
	"os"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"taskboard/internal/metrics"
	"taskboard/internal/service"
	"taskboard/internal/testutil"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func TestFormatTask(t *testing.T) {
	tests := []struct {
		task service.Task
		want string
	}{
		{service.Task{ID: 1, Title: "Write docs", Status: service.StatusTodo}, "   1  To do        Write docs\n"},
		{service.Task{ID: 42, Title: "Ship", Status: service.StatusDone}, "  42  Done         Ship\n"},
		{service.Task{ID: 7, Title: "a\r\nb", Status: service.StatusReview}, "   7  Review       a  b\n"},
		{service.Task{ID: 8, Title: "  ", Status: "archived"}, "   8  archived     (untitled)\n"},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		FormatTask(&buf, tt.task)
		assert.Equal(t, tt.want, buf.String())
	}
}

func TestFormatProject(t *testing.T) {
	var buf bytes.Buffer
	FormatProject(&buf, service.Project{ID: 3, Name: "Alpha"})
	FormatProject(&buf, service.Project{ID: 12, Name: ""})
	assert.Equal(t, "   3  Alpha\n  12  (untitled)\n", buf.String())
}

func TestFormatProjectDetail(t *testing.T) {
	var buf bytes.Buffer
	FormatProjectDetail(&buf, service.Project{
		ID:          5,
		Name:        "Alpha",
		Description: "Team board",
		OwnerID:     1,
		Members: []service.Membership{
			{UserID: 1, Role: "owner", User: &service.User{ID: 1, Username: "alice"}},
			{UserID: 9},
		},
	})
	testutil.Golden(t, "project_detail", buf.String())
}

func TestFormatProjectDetail_NoMembers(t *testing.T) {
	var buf bytes.Buffer
	FormatProjectDetail(&buf, service.Project{ID: 2, Name: "Solo"})
	assert.Equal(t, "Solo (#2)\nmembers: none\n", buf.String())
}

func TestFormatTaskDetail(t *testing.T) {
	assignee := 9
	var buf bytes.Buffer
	FormatTaskDetail(&buf, service.Task{
		ID:          12,
		Title:       "Ship",
		Status:      service.StatusInProgress,
		Priority:    "high",
		AssigneeID:  &assignee,
		DueDate:     "2026-11-01",
		Description: "Release v1",
	})
	testutil.Golden(t, "task_detail", buf.String())
}

func TestFormatBoard(t *testing.T) {
	var buf bytes.Buffer
	FormatBoard(&buf, map[service.TaskStatus][]service.Task{
		service.StatusTodo: {
			{ID: 1, Title: "Write docs"},
			{ID: 4, Title: "Fix\nbug"},
		},
		service.StatusInProgress: {{ID: 2, Title: "Review PR"}},
		service.StatusReview:     {},
		service.StatusDone:       {{ID: 3}},
	})
	testutil.Golden(t, "board", buf.String())
}

func TestFormatUser(t *testing.T) {
	var buf bytes.Buffer
	FormatUser(&buf, service.User{ID: 1, Username: "alice", Email: "alice@example.com"})
	FormatUser(&buf, service.User{ID: 2, Username: "bob"})
	assert.Equal(t, "   1  alice  <alice@example.com>\n   2  bob\n", buf.String())
}

func TestErrorf(t *testing.T) {
	var buf bytes.Buffer
	Errorf(&buf, "project not found: %d", 4)
	assert.Equal(t, "error: project not found: 4\n", buf.String())
}

func TestFormatRequestStats(t *testing.T) {
	var buf bytes.Buffer
	FormatRequestStats(&buf, nil)
	assert.Empty(t, buf.String())

	FormatRequestStats(&buf, []metrics.RequestStat{
		{Method: "GET", Route: "/projects/", Status: "200", Count: 2, Total: 300 * time.Millisecond},
	})
	out := buf.String()
	assert.Contains(t, out, "requests:")
	assert.Contains(t, out, "/projects/")
	assert.Contains(t, out, "avg 150ms")
}
