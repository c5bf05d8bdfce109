package ui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/taskdeck/internal/api"
	"github.com/idilsaglam/taskdeck/internal/model"
	"github.com/idilsaglam/taskdeck/internal/notify"
	"github.com/idilsaglam/taskdeck/internal/state"
)

// listItem adapts a task to bubbles/list.Item.
type listItem struct {
	task model.Task
}

func (i listItem) Title() string       { return i.task.Title }
func (i listItem) Description() string { return "" }
func (i listItem) FilterValue() string { return i.task.Title }

// Custom delegate to control how items render (single line).
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, _ := item.(listItem)
	th := Current()

	box := th.Muted.Render(th.BoxUnchecked)
	title := it.task.Title
	if it.task.Completed {
		box = th.Success.Render(th.BoxChecked)
		title = th.Done.Render(title)
	}

	meta := string(it.task.Priority)
	if it.task.Category != "" {
		meta += " · " + it.task.Category
	}
	if it.task.DueDate != nil {
		meta += " · due " + it.task.DueDate.Local().Format("Jan 2")
	}
	line := fmt.Sprintf("%s %s  %s", box, title, th.Muted.Render(meta))

	prefix := "  "
	if index == m.Index() {
		prefix = th.Selected.Render("> ")
	}
	fmt.Fprintln(w, prefix+line)
}

// ---------------------------------------------------
// Messages settled from network commands
// ---------------------------------------------------

type tasksLoadedMsg struct{ tasks []model.Task }
type statsLoadedMsg struct{ stats model.DashboardStats }
type loadFailedMsg struct{ err error }
type taskSavedMsg struct{ task model.Task }
type taskCreatedMsg struct{ task model.Task }
type taskDeletedMsg struct{ id string }
type mutationFailedMsg struct {
	action string
	err    error
}
type rolledBackMsg struct {
	tasks []model.Task
	stats *model.DashboardStats
}
type toastTickMsg time.Time

// taskListModel is the interactive list view. It owns the collection and
// the stats cache for as long as it is mounted.
type taskListModel struct {
	ctx    context.Context
	client *api.Client
	token  string

	col    *state.Collection
	stats  *state.StatsCache
	toasts *notify.Center

	list list.Model

	// Inline add / edit share one text input
	ti       textinput.Model
	adding   bool
	editing  bool
	editID   string
	inputErr string
}

// RunTaskList mounts the interactive task list. The context is canceled
// when the program exits, so in-flight requests cannot touch a dead view.
func RunTaskList(parent context.Context, client *api.Client, token string) error {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	l := list.New(nil, itemDelegate{}, 0, 0)
	l.Title = Current().Title.Render("Tasks")
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = Current().Title
	l.Styles.HelpStyle = Current().Help
	l.Styles.PaginationStyle = Current().Help
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("task", "tasks")

	addBind := key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add"))
	editBind := key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit"))
	refreshBind := key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh"))
	l.AdditionalShortHelpKeys = func() []key.Binding { return []key.Binding{addBind, editBind, refreshBind} }
	l.AdditionalFullHelpKeys = func() []key.Binding { return []key.Binding{addBind, editBind, refreshBind} }

	m := taskListModel{
		ctx:    ctx,
		client: client,
		token:  token,
		col:    state.NewCollection(),
		stats:  &state.StatsCache{},
		toasts: notify.NewCenter(notify.DefaultTTL),
		list:   l,
	}
	m.ti = textinput.New()
	m.ti.Prompt = "> "
	m.ti.Placeholder = "New task title..."
	m.ti.CharLimit = 200

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// ---------------------------------------------------
// Network commands
// ---------------------------------------------------

func (m taskListModel) loadTasksCmd() tea.Cmd {
	return func() tea.Msg {
		tasks, err := m.client.ListTodos(m.ctx, m.token)
		if err != nil {
			return loadFailedMsg{err}
		}
		return tasksLoadedMsg{tasks}
	}
}

func (m taskListModel) loadStatsCmd() tea.Cmd {
	return func() tea.Msg {
		stats, err := m.client.DashboardStats(m.ctx, m.token)
		if err != nil {
			return loadFailedMsg{err}
		}
		return statsLoadedMsg{stats}
	}
}

func (m taskListModel) saveCmd(id string, upd model.TaskUpdate, action string) tea.Cmd {
	return func() tea.Msg {
		task, err := m.client.UpdateTodo(m.ctx, m.token, id, upd)
		if err != nil {
			return mutationFailedMsg{action, err}
		}
		return taskSavedMsg{task}
	}
}

func (m taskListModel) createCmd(in model.TaskCreate) tea.Cmd {
	return func() tea.Msg {
		task, err := m.client.CreateTodo(m.ctx, m.token, in)
		if err != nil {
			return mutationFailedMsg{"create", err}
		}
		return taskCreatedMsg{task}
	}
}

func (m taskListModel) deleteCmd(id string) tea.Cmd {
	return func() tea.Msg {
		if _, err := m.client.DeleteTodo(m.ctx, m.token, id); err != nil {
			return mutationFailedMsg{"delete", err}
		}
		return taskDeletedMsg{id}
	}
}

// rollbackCmd refetches authoritative state after a failed mutation.
func (m taskListModel) rollbackCmd() tea.Cmd {
	return func() tea.Msg {
		tasks, err := m.client.ListTodos(m.ctx, m.token)
		if err != nil {
			return loadFailedMsg{err}
		}
		out := rolledBackMsg{tasks: tasks}
		if stats, err := m.client.DashboardStats(m.ctx, m.token); err == nil {
			out.stats = &stats
		}
		return out
	}
}

func toastTick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return toastTickMsg(t) })
}

// ---------------------------------------------------
// Bubble Tea model
// ---------------------------------------------------

func (m taskListModel) Init() tea.Cmd {
	m.col.BeginLoad()
	return tea.Batch(m.loadTasksCmd(), m.loadStatsCmd(), toastTick())
}

func (m taskListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		h := msg.Height - 6
		if m.adding || m.editing {
			h -= 3
		}
		m.list.SetSize(msg.Width-4, h)
		return m, nil

	case toastTickMsg:
		m.toasts.Pending() // prune expired
		return m, toastTick()

	case tasksLoadedMsg:
		m.col.Load(msg.tasks)
		m.syncItems()
		return m, nil

	case statsLoadedMsg:
		m.stats.Set(msg.stats)
		return m, nil

	case loadFailedMsg:
		m.col.Fail(msg.err)
		m.toasts.Notify("Failed to load tasks", notify.Error)
		return m, nil

	case taskSavedMsg:
		m.col.Reconcile(msg.task)
		m.syncItems()
		m.toasts.Notify("Task updated", notify.Success)
		return m, nil

	case taskCreatedMsg:
		m.col.Insert(msg.task)
		m.stats.AdjustForCreate()
		m.syncItems()
		m.toasts.Notify("Task created", notify.Success)
		return m, nil

	case taskDeletedMsg:
		m.col.ConfirmRemoved(msg.id)
		m.toasts.Notify("Task deleted", notify.Success)
		return m, nil

	case mutationFailedMsg:
		// Discard optimistic state: refetch authoritative truth.
		m.toasts.Notify("Failed to "+msg.action+" task", notify.Error)
		return m, m.rollbackCmd()

	case rolledBackMsg:
		m.col.Load(msg.tasks)
		if msg.stats != nil {
			m.stats.Set(*msg.stats)
		}
		m.syncItems()
		return m, nil
	}

	if m.adding || m.editing {
		return m.updateInput(msg)
	}
	return m.updateList(msg)
}

func (m taskListModel) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "enter":
			title := strings.TrimSpace(m.ti.Value())
			if title == "" {
				m.inputErr = "Title cannot be empty"
				return m, nil
			}
			if len(title) > 200 {
				m.inputErr = "Title must be at most 200 characters"
				return m, nil
			}
			var cmd tea.Cmd
			if m.adding {
				cmd = m.createCmd(model.TaskCreate{Title: title})
			} else {
				if task, ok := m.col.OptimisticRetitle(m.editID, title); ok {
					cmd = m.saveCmd(task.ID, model.TaskUpdate{Title: &title}, "edit")
				}
				m.syncItems()
			}
			m.resetInput()
			return m, cmd
		case "esc":
			m.resetInput()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	return m, cmd
}

func (m taskListModel) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && !m.list.SettingFilter() {
		switch k.String() {
		case "q", "esc":
			return m, tea.Quit

		case " ":
			if id, ok := m.selectedID(); ok {
				if task, ok := m.col.OptimisticToggle(id); ok {
					m.stats.AdjustForToggle(task.Completed)
					m.syncItems()
					done := task.Completed
					return m, m.saveCmd(id, model.TaskUpdate{Completed: &done}, "update")
				}
			}
			return m, nil

		case "d":
			if id, ok := m.selectedID(); ok {
				if removed, ok := m.col.OptimisticRemove(id); ok {
					m.stats.AdjustForRemove(removed.Completed)
					m.syncItems()
					return m, m.deleteCmd(id)
				}
			}
			return m, nil

		case "a":
			m.adding = true
			m.ti.SetValue("")
			m.ti.Placeholder = "New task title..."
			m.ti.Focus()
			return m, nil

		case "e":
			if id, ok := m.selectedID(); ok {
				if task, ok := m.col.Get(id); ok {
					m.editing = true
					m.editID = id
					m.ti.SetValue(task.Title)
					m.ti.CursorEnd()
					m.ti.Placeholder = "Edit task title..."
					m.ti.Focus()
				}
			}
			return m, nil

		case "r":
			m.col.BeginLoad()
			return m, tea.Batch(m.loadTasksCmd(), m.loadStatsCmd())
		}
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m taskListModel) View() string {
	th := Current()

	header := m.headerLine()
	content := header + "\n" + m.list.View()

	if m.adding || m.editing {
		title := "Add new task"
		if m.editing {
			title = "Edit task"
		}
		if m.inputErr != "" {
			title += "  " + th.Error.Render(m.inputErr)
		}
		content += "\n" + th.Border.Render(title+"\n"+m.ti.View())
	}

	if toasts := m.toasts.Pending(); len(toasts) > 0 {
		lines := make([]string, 0, len(toasts))
		for _, n := range toasts {
			lines = append(lines, m.renderToast(n))
		}
		content += "\n" + strings.Join(lines, "\n")
	}

	return PanelString(content)
}

func (m taskListModel) headerLine() string {
	th := Current()
	stats, ok := m.stats.Get()
	if !ok {
		if m.col.Phase() == state.Loading {
			return th.Muted.Render("loading...")
		}
		return ""
	}
	return fmt.Sprintf("%s %d  %s %d  %s %d   %s",
		th.Success.Render(th.SymDone), stats.Completed,
		th.Pending.Render("•"), stats.InProgress,
		th.Accent.Render("Total"), stats.TotalTasks,
		ProgressBar(stats.Completed, stats.TotalTasks, 20),
	)
}

func (m taskListModel) renderToast(n notify.Notification) string {
	th := Current()
	switch n.Severity {
	case notify.Success:
		return th.Success.Render(th.SymDone + " " + n.Message)
	case notify.Error:
		return th.Error.Render(th.SymCross + " " + n.Message)
	case notify.Warning:
		return th.Warning.Render("! " + n.Message)
	default:
		return th.Info.Render("· " + n.Message)
	}
}

func (m *taskListModel) resetInput() {
	m.adding = false
	m.editing = false
	m.editID = ""
	m.inputErr = ""
	m.ti.SetValue("")
	m.ti.Blur()
}

func (m *taskListModel) selectedID() (string, bool) {
	it, ok := m.list.SelectedItem().(listItem)
	if !ok {
		return "", false
	}
	return it.task.ID, true
}

// syncItems rebuilds the rendered list from the collection.
func (m *taskListModel) syncItems() {
	tasks := m.col.Tasks()
	items := make([]list.Item, 0, len(tasks))
	for _, t := range tasks {
		items = append(items, listItem{task: t})
	}
	idx := m.list.Index()
	m.list.SetItems(items)
	if idx >= len(items) {
		idx = len(items) - 1
	}
	if idx >= 0 {
		m.list.Select(idx)
	}
}
