package client

import "time"

// Board columns in display order.
const (
	StatusIdeas      = "ideas"
	StatusTodo       = "todo"
	StatusInProgress = "inprogress"
	StatusCompleted  = "completed"
)

// Statuses lists the board columns in display order.
func Statuses() []string {
	return []string{StatusIdeas, StatusTodo, StatusInProgress, StatusCompleted}
}

// Task mirrors the server task resource.
type Task struct {
	ID          string     `json:"id,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Priority    string     `json:"priority,omitempty"`
	Status      string     `json:"status"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	CreatedAt   time.Time  `json:"createdAt,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	SharedWith  []string   `json:"sharedWith,omitempty"`
	Reminded    bool       `json:"reminded,omitempty"`
	OwnerEmail  string     `json:"userEmail"`
}

// TaskPatch is a partial task update. Nil fields are left unchanged.
type TaskPatch struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Priority    *string    `json:"priority,omitempty"`
	Status      *string    `json:"status,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	SharedWith  []string   `json:"sharedWith,omitempty"`
}

// Streak mirrors the server streak resource.
type Streak struct {
	Current        int       `json:"currentStreak"`
	Longest        int       `json:"longestStreak"`
	LastActiveDate time.Time `json:"lastActiveDate"`
	WeeklyProgress [7]bool   `json:"weeklyProgress"`
}

// User mirrors the server user resource. The password hash never crosses the
// wire.
type User struct {
	Email          string    `json:"email"`
	Name           string    `json:"name"`
	Avatar         string    `json:"avatar,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	CurrentStreak  int       `json:"currentStreak"`
	LongestStreak  int       `json:"longestStreak"`
	LastActiveDate time.Time `json:"lastActiveDate"`
	WeeklyProgress [7]bool   `json:"weeklyProgress"`
}

// AuthResult is the server's signup and login response.
type AuthResult struct {
	Message string `json:"message"`
	Token   string `json:"token,omitempty"`
	User    *User  `json:"user"`
}

// HealthStatus is the server's health response.
type HealthStatus struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}
