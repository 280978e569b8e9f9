// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"taskboard/internal/metrics"
	"taskboard/internal/service"
)

const (
	// Separator frames board column headers.
	Separator = "------------"
)

var (
	errorColor = color.New(color.FgRed, color.Bold)
	dim        = color.New(color.Faint)
	heading    = color.New(color.Bold)

	statusColors = map[service.TaskStatus]*color.Color{
		service.StatusTodo:       color.New(color.FgYellow),
		service.StatusInProgress: color.New(color.FgCyan),
		service.StatusReview:     color.New(color.FgMagenta),
		service.StatusDone:       color.New(color.FgGreen),
	}

	statusLabels = map[service.TaskStatus]string{
		service.StatusTodo:       "To do",
		service.StatusInProgress: "In progress",
		service.StatusReview:     "Review",
		service.StatusDone:       "Done",
	}
)

// Errorf writes "error: <msg>" to w.
func Errorf(w io.Writer, format string, args ...any) {
	errorColor.Fprint(w, "error:")
	fmt.Fprintf(w, " "+format+"\n", args...)
}

// StatusLabel returns the display name of a status. Unknown statuses are
// shown as sent by the server.
func StatusLabel(s service.TaskStatus) string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

// FormatProject formats a project line.
// Format: "{ID:>4}  {NAME}\n"
func FormatProject(w io.Writer, p service.Project) {
	fmt.Fprintf(w, "%4d  %s\n", p.ID, normalizeTitle(p.Name))
}

// FormatProjectDetail formats a project with its description and members.
func FormatProjectDetail(w io.Writer, p service.Project) {
	heading.Fprintf(w, "%s", normalizeTitle(p.Name))
	fmt.Fprintf(w, " (#%d)\n", p.ID)
	if d := strings.TrimSpace(p.Description); d != "" {
		fmt.Fprintln(w, d)
	}
	if p.OwnerID != 0 {
		fmt.Fprintf(w, "owner: %d\n", p.OwnerID)
	}
	if len(p.Members) == 0 {
		fmt.Fprintln(w, "members: none")
		return
	}
	fmt.Fprintln(w, "members:")
	for _, m := range p.Members {
		name := fmt.Sprintf("user %d", m.UserID)
		if m.User != nil && m.User.Username != "" {
			name = m.User.Username
		}
		if m.Role != "" {
			fmt.Fprintf(w, "    %4d  %s (%s)\n", m.UserID, name, m.Role)
		} else {
			fmt.Fprintf(w, "    %4d  %s\n", m.UserID, name)
		}
	}
}

// FormatTask formats a task line.
// Format: "{ID:>4}  {STATUS:<11}  {TITLE}\n"
func FormatTask(w io.Writer, t service.Task) {
	fmt.Fprintf(w, "%4d  ", t.ID)
	statusColor(t.Status).Fprintf(w, "%-11s", StatusLabel(t.Status))
	fmt.Fprintf(w, "  %s\n", normalizeTitle(t.Title))
}

// FormatTaskIndented formats a task line inside a board column.
// Format: "    {ID:>4}  {TITLE}\n"
func FormatTaskIndented(w io.Writer, t service.Task) {
	fmt.Fprintf(w, "    %4d  %s\n", t.ID, normalizeTitle(t.Title))
}

// FormatTaskDetail formats every field of a task that is set.
func FormatTaskDetail(w io.Writer, t service.Task) {
	heading.Fprintf(w, "%s", normalizeTitle(t.Title))
	fmt.Fprintf(w, " (#%d)\n", t.ID)
	fmt.Fprint(w, "status:   ")
	statusColor(t.Status).Fprintln(w, StatusLabel(t.Status))
	if t.Priority != "" {
		fmt.Fprintf(w, "priority: %s\n", t.Priority)
	}
	if t.AssigneeID != nil {
		fmt.Fprintf(w, "assignee: %d\n", *t.AssigneeID)
	}
	if t.DueDate != "" {
		fmt.Fprintf(w, "due:      %s\n", t.DueDate)
	}
	if d := strings.TrimSpace(t.Description); d != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, d)
	}
}

// FormatColumnHeader formats a board column header.
func FormatColumnHeader(w io.Writer, status service.TaskStatus, count int) {
	fmt.Fprintln(w, Separator)
	statusColor(status).Fprintf(w, "%s", StatusLabel(status))
	fmt.Fprintf(w, " (%d)\n", count)
	fmt.Fprintln(w, Separator)
}

// FormatBoard formats tasks grouped by status, one column per known
// status in board order. Empty columns are shown.
func FormatBoard(w io.Writer, grouped map[service.TaskStatus][]service.Task) {
	for _, st := range service.Statuses {
		tasks := grouped[st]
		FormatColumnHeader(w, st, len(tasks))
		for _, t := range tasks {
			FormatTaskIndented(w, t)
		}
	}
}

// FormatUser formats a user line.
// Format: "{ID:>4}  {USERNAME}[  <EMAIL>]\n"
func FormatUser(w io.Writer, u service.User) {
	fmt.Fprintf(w, "%4d  %s", u.ID, u.Username)
	if u.Email != "" {
		dim.Fprintf(w, "  <%s>", u.Email)
	}
	fmt.Fprintln(w)
}

// FormatRequestStats formats the per-route request summary.
func FormatRequestStats(w io.Writer, stats []metrics.RequestStat) {
	if len(stats) == 0 {
		return
	}
	dim.Fprintln(w, "requests:")
	for _, s := range stats {
		avg := s.Total
		if s.Count > 0 {
			avg = s.Total / time.Duration(s.Count)
		}
		avg = avg.Round(time.Millisecond)
		dim.Fprintf(w, "  %-6s %-36s %-5s %3d  avg %s\n", s.Method, s.Route, s.Status, s.Count, avg)
	}
}

func statusColor(s service.TaskStatus) *color.Color {
	if c, ok := statusColors[s]; ok {
		return c
	}
	return dim
}

// normalizeTitle normalizes a title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")

	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
