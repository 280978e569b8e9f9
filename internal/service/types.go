package service

// Token is a session token issued by the login endpoint.
type Token struct {
	AccessToken string
	TokenType   string
}

// User is an account known to the server.
type User struct {
	ID        int    `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email,omitempty"`
	FullName  string `json:"full_name,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

// Membership links a user to a project.
type Membership struct {
	ID        int    `json:"id"`
	ProjectID int    `json:"project_id"`
	UserID    int    `json:"user_id"`
	Role      string `json:"role,omitempty"`
	User      *User  `json:"user,omitempty"`
}

// Project is a container of tasks shared by its members.
// Timestamps are kept as sent by the server.
type Project struct {
	ID          int          `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	OwnerID     int          `json:"owner_id,omitempty"`
	Members     []Membership `json:"members"`
	CreatedAt   string       `json:"created_at,omitempty"`
	UpdatedAt   string       `json:"updated_at,omitempty"`
}

// TaskStatus is the board column a task sits in.
type TaskStatus string

const (
	StatusTodo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "in_progress"
	StatusReview     TaskStatus = "review"
	StatusDone       TaskStatus = "done"
)

// Statuses lists the known statuses in board order.
var Statuses = []TaskStatus{StatusTodo, StatusInProgress, StatusReview, StatusDone}

// Known reports whether s is one of the four board statuses.
func (s TaskStatus) Known() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusReview, StatusDone:
		return true
	}
	return false
}

// Task is a unit of work inside a project.
type Task struct {
	ID          int        `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      TaskStatus `json:"status"`
	Priority    string     `json:"priority,omitempty"`
	ProjectID   int        `json:"project_id,omitempty"`
	AssigneeID  *int       `json:"assignee_id,omitempty"`
	DueDate     string     `json:"due_date,omitempty"`
	CreatedAt   string     `json:"created_at,omitempty"`
	UpdatedAt   string     `json:"updated_at,omitempty"`
}

// RegisterInput is the body of a registration request.
type RegisterInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ProjectInput carries project fields for create and partial update.
// Nil fields are not sent.
type ProjectInput struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

// TaskInput carries task fields for create and partial update.
// Nil fields are not sent.
type TaskInput struct {
	Title       *string     `json:"title,omitempty"`
	Description *string     `json:"description,omitempty"`
	Status      *TaskStatus `json:"status,omitempty"`
	Priority    *string     `json:"priority,omitempty"`
	AssigneeID  *int        `json:"assignee_id,omitempty"`
	DueDate     *string     `json:"due_date,omitempty"`
}

// String returns a pointer to s, for building inputs.
func String(s string) *string { return &s }

// Status returns a pointer to s, for building inputs.
func Status(s TaskStatus) *TaskStatus { return &s }
