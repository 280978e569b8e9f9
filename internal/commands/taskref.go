package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// TaskRef identifies a task inside a project.
type TaskRef struct {
	ProjectID int
	TaskID    int
}

func (r TaskRef) String() string {
	return fmt.Sprintf("%d/%d", r.ProjectID, r.TaskID)
}

// ErrTaskRefRequired indicates no task reference was provided.
var ErrTaskRefRequired = errors.New("task reference required")

// ErrProjectRequired indicates no project ID was provided.
var ErrProjectRequired = errors.New("project id required")

// ParseTaskRef parses a task reference from args and returns the
// remaining args.
//
// Accepted forms:
//  1. "<project>/<task>" in one argument, e.g. 4/12
//  2. "<project> <task>" as two arguments, e.g. 4 12
//
// A project ID with no task ID is ErrTaskRefRequired.
func ParseTaskRef(args []string) (TaskRef, []string, error) {
	if len(args) == 0 {
		return TaskRef{}, nil, ErrTaskRefRequired
	}
	first := args[0]

	if p, t, found := strings.Cut(first, "/"); found {
		if !isAllDigits(p) || !isAllDigits(t) {
			return TaskRef{}, nil, fmt.Errorf("invalid task reference: %s", first)
		}
		return TaskRef{ProjectID: atoi(p), TaskID: atoi(t)}, args[1:], nil
	}

	if !isAllDigits(first) {
		return TaskRef{}, nil, fmt.Errorf("invalid task reference: %s", first)
	}
	if len(args) < 2 {
		return TaskRef{}, nil, ErrTaskRefRequired
	}
	if !isAllDigits(args[1]) {
		return TaskRef{}, nil, fmt.Errorf("invalid task reference: %s %s", first, args[1])
	}
	return TaskRef{ProjectID: atoi(first), TaskID: atoi(args[1])}, args[2:], nil
}

// ParseProjectID parses the leading project ID from args and returns the
// remaining args.
func ParseProjectID(args []string) (int, []string, error) {
	if len(args) == 0 {
		return 0, nil, ErrProjectRequired
	}
	if !isAllDigits(args[0]) {
		return 0, nil, fmt.Errorf("invalid project id: %s", args[0])
	}
	return atoi(args[0]), args[1:], nil
}

// atoi converts a string already checked by isAllDigits. Values that
// overflow become 0, which no server assigns.
func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
