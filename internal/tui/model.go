// Package tui implements the motivatr terminal client: a four-column task
// board, a due-date calendar, and a streak profile view.
//
// The server is the single source of truth: every mutation triggers a full
// re-list and the profile never computes streaks locally.
package tui

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/fyrsmithlabs/motivatr/pkg/client"
)

const requestTimeout = 5 * time.Second

// API is the server surface the TUI needs. *client.Client satisfies it.
type API interface {
	ListTasks(ctx context.Context, owner string) ([]client.Task, error)
	CreateTask(ctx context.Context, t *client.Task) (*client.Task, error)
	UpdateTask(ctx context.Context, id string, patch *client.TaskPatch) (*client.Task, error)
	DeleteTask(ctx context.Context, id string) error
	Streak(ctx context.Context, email string) (*client.Streak, error)
}

type view int

const (
	viewBoard view = iota
	viewCalendar
	viewProfile
)

type dateFilter int

const (
	filterAll dateFilter = iota
	filterToday
	filterWeek
	filterMonth
)

func (f dateFilter) String() string {
	switch f {
	case filterToday:
		return "today"
	case filterWeek:
		return "week"
	case filterMonth:
		return "month"
	}
	return "all"
}

// Messages.
type tasksMsg []client.Task
type streakMsg *client.Streak
type mutatedMsg struct{}
type errMsg error

// Model is the bubbletea model for the motivatr TUI.
type Model struct {
	api   API
	owner string

	view    view
	tasks   []client.Task
	streak  *client.Streak
	filter  dateFilter
	month   time.Time
	col     int
	cursor  [4]int
	loading bool
	err     error

	search    textinput.Model
	searching bool
	input     textinput.Model
	adding    bool

	now      func() time.Time
	quitting bool
}

// NewModel creates the TUI model for one user's board.
func NewModel(api API, owner string) Model {
	search := textinput.New()
	search.Placeholder = "search tasks"
	search.CharLimit = 100

	input := textinput.New()
	input.Placeholder = "new task title"
	input.CharLimit = 200

	now := time.Now
	return Model{
		api:     api,
		owner:   owner,
		search:  search,
		input:   input,
		month:   time.Date(now().Year(), now().Month(), 1, 0, 0, 0, 0, time.Local),
		loading: true,
		now:     now,
	}
}

// Init loads the board and the streak.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.fetchTasks(), m.fetchStreak())
}

func (m Model) fetchTasks() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		tasks, err := m.api.ListTasks(ctx, m.owner)
		if err != nil {
			return errMsg(err)
		}
		return tasksMsg(tasks)
	}
}

func (m Model) fetchStreak() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		s, err := m.api.Streak(ctx, m.owner)
		if err != nil {
			return errMsg(err)
		}
		return streakMsg(s)
	}
}

func (m Model) createTask(title string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		_, err := m.api.CreateTask(ctx, &client.Task{
			Title:      title,
			Status:     client.StatusIdeas,
			OwnerEmail: m.owner,
		})
		if err != nil {
			return errMsg(err)
		}
		return mutatedMsg{}
	}
}

func (m Model) moveTask(id, status string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		if _, err := m.api.UpdateTask(ctx, id, &client.TaskPatch{Status: &status}); err != nil {
			return errMsg(err)
		}
		return mutatedMsg{}
	}
}

func (m Model) deleteTask(id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		if err := m.api.DeleteTask(ctx, id); err != nil {
			return errMsg(err)
		}
		return mutatedMsg{}
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tasksMsg:
		m.tasks = msg
		m.loading = false
		m.err = nil
		m.clampCursor()
		return m, nil

	case streakMsg:
		m.streak = msg
		return m, nil

	case mutatedMsg:
		// Re-list after every mutation; the server owns derived state.
		return m, tea.Batch(m.fetchTasks(), m.fetchStreak())

	case errMsg:
		m.err = error(msg)
		m.loading = false
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.adding {
		switch msg.String() {
		case "enter":
			title := strings.TrimSpace(m.input.Value())
			m.adding = false
			m.input.SetValue("")
			if title == "" {
				return m, nil
			}
			return m, m.createTask(title)
		case "esc":
			m.adding = false
			m.input.SetValue("")
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	if m.searching {
		switch msg.String() {
		case "enter", "esc":
			if msg.String() == "esc" {
				m.search.SetValue("")
			}
			m.searching = false
			m.clampCursor()
			return m, nil
		}
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		m.clampCursor()
		return m, cmd
	}

	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "tab":
		m.view = (m.view + 1) % 3
		return m, nil
	case "b":
		m.view = viewBoard
		return m, nil
	case "p":
		m.view = viewProfile
		return m, nil
	case "r":
		return m, tea.Batch(m.fetchTasks(), m.fetchStreak())
	}

	switch m.view {
	case viewBoard:
		return m.handleBoardKey(msg)
	case viewCalendar:
		return m.handleCalendarKey(msg)
	}
	return m, nil
}

func (m Model) handleBoardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "left", "h":
		if m.col > 0 {
			m.col--
			m.clampCursor()
		}
	case "right", "l":
		if m.col < 3 {
			m.col++
			m.clampCursor()
		}
	case "up", "k":
		if m.cursor[m.col] > 0 {
			m.cursor[m.col]--
		}
	case "down", "j":
		m.cursor[m.col]++
		m.clampCursor()
	case "[":
		if t, ok := m.selected(); ok && m.col > 0 {
			return m, m.moveTask(t.ID, client.Statuses()[m.col-1])
		}
	case "]":
		if t, ok := m.selected(); ok && m.col < 3 {
			return m, m.moveTask(t.ID, client.Statuses()[m.col+1])
		}
	case "c":
		if t, ok := m.selected(); ok && t.Status != client.StatusCompleted {
			return m, m.moveTask(t.ID, client.StatusCompleted)
		}
	case "d":
		if t, ok := m.selected(); ok {
			return m, m.deleteTask(t.ID)
		}
	case "n":
		m.adding = true
		return m, m.input.Focus()
	case "/":
		m.searching = true
		return m, m.search.Focus()
	case "f":
		m.filter = (m.filter + 1) % 4
		m.clampCursor()
	}
	return m, nil
}

func (m Model) handleCalendarKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "left", "h":
		m.month = m.month.AddDate(0, -1, 0)
	case "right", "l":
		m.month = m.month.AddDate(0, 1, 0)
	case "t":
		now := m.now()
		m.month = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.Local)
	}
	return m, nil
}

// visible returns the tasks passing the search and date filters, in creation
// order.
func (m Model) visible() []client.Task {
	query := strings.ToLower(strings.TrimSpace(m.search.Value()))
	now := m.now()

	out := make([]client.Task, 0, len(m.tasks))
	for _, t := range m.tasks {
		if query != "" && !matchesQuery(t, query) {
			continue
		}
		if !matchesDateFilter(t, m.filter, now) {
			continue
		}
		out = append(out, t)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func matchesQuery(t client.Task, query string) bool {
	if strings.Contains(strings.ToLower(t.Title), query) {
		return true
	}
	for _, tag := range t.Tags {
		if strings.Contains(strings.ToLower(tag), query) {
			return true
		}
	}
	return false
}

func matchesDateFilter(t client.Task, f dateFilter, now time.Time) bool {
	if f == filterAll {
		return true
	}
	if t.DueDate == nil {
		return false
	}
	due := *t.DueDate
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch f {
	case filterToday:
		return !due.Before(dayStart) && due.Before(dayStart.AddDate(0, 0, 1))
	case filterWeek:
		weekStart := dayStart.AddDate(0, 0, -int(now.Weekday()))
		return !due.Before(weekStart) && due.Before(weekStart.AddDate(0, 0, 7))
	case filterMonth:
		monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return !due.Before(monthStart) && due.Before(monthStart.AddDate(0, 1, 0))
	}
	return true
}

// column returns the visible tasks in board column i.
func (m Model) column(i int) []client.Task {
	status := client.Statuses()[i]
	var out []client.Task
	for _, t := range m.visible() {
		if t.Status == status {
			out = append(out, t)
		}
	}
	return out
}

func (m Model) selected() (client.Task, bool) {
	col := m.column(m.col)
	if len(col) == 0 || m.cursor[m.col] >= len(col) {
		return client.Task{}, false
	}
	return col[m.cursor[m.col]], true
}

func (m *Model) clampCursor() {
	for i := 0; i < 4; i++ {
		n := len(m.column(i))
		if m.cursor[i] >= n {
			m.cursor[i] = n - 1
		}
		if m.cursor[i] < 0 {
			m.cursor[i] = 0
		}
	}
}

// View renders the active view.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var body string
	switch m.view {
	case viewBoard:
		body = m.renderBoard()
	case viewCalendar:
		body = m.renderCalendar()
	case viewProfile:
		body = m.renderProfile()
	}
	return containerStyle.Render(body)
}
