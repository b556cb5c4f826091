package views

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/sticky/internal/db"
	"github.com/tgienger/sticky/internal/models"
	"github.com/tgienger/sticky/internal/ui/keys"
	"github.com/tgienger/sticky/internal/ui/styles"
)

// clamp returns val clamped between minVal and maxVal
func clamp(val, minVal, maxVal int) int {
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

// Operations is the task API the view drives
type Operations interface {
	List(ctx context.Context) ([]models.Task, error)
	Add(ctx context.Context, text string) (models.Task, error)
	Update(ctx context.Context, task models.Task) (models.Task, error)
	Delete(ctx context.Context, id int64) (bool, error)
	ClearCompleted(ctx context.Context) (bool, error)
	ReorderIDs(ctx context.Context, ids []int64) (bool, error)
}

// Settings persists view preferences
type Settings interface {
	GetSetting(key string) (string, error)
	SetSetting(key, value string) error
}

// TaskListView shows the task collection
type TaskListView struct {
	ctx      context.Context
	ops      Operations
	settings Settings
	styles   *styles.Styles
	keys     keys.KeyMap
	now      func() time.Time

	width  int
	height int

	// tasks is the whole collection in display order; the filter is applied
	// when rendering
	tasks  []models.Task
	filter models.Filter

	cursor  int
	scrollY int

	// Task creation/editing
	editing    bool
	editingNew bool
	editTarget models.Task
	editInput  textinput.Model

	// Delete confirmation
	confirmingDelete bool
	deleteTarget     models.Task

	status string

	// busy is set while a mutation is in flight; keys pressed meanwhile wait
	// in pending so each mutation is built from the reloaded collection
	busy    bool
	pending []tea.KeyMsg
}

// NewTaskListView creates a new task list view
func NewTaskListView(ctx context.Context, ops Operations, settings Settings) *TaskListView {
	input := textinput.New()
	input.Placeholder = "What needs doing?  #tag !1 >2006-01-02"
	input.CharLimit = 500

	return &TaskListView{
		ctx:       ctx,
		ops:       ops,
		settings:  settings,
		styles:    styles.NewStyles(),
		keys:      keys.DefaultKeyMap(),
		now:       time.Now,
		filter:    models.FilterAll,
		editInput: input,
	}
}

// Init initializes the view
func (v *TaskListView) Init() tea.Cmd {
	return tea.Batch(v.loadFilter, v.loadTasks)
}

type tasksLoadedMsg struct {
	tasks    []models.Task
	mutation bool
}

type filterLoadedMsg struct {
	filter models.Filter
}

type opFailedMsg struct {
	op       string
	err      error
	mutation bool
}

func (v *TaskListView) loadTasks() tea.Msg {
	tasks, err := v.ops.List(v.ctx)
	if err != nil {
		return opFailedMsg{op: "load", err: err}
	}
	return tasksLoadedMsg{tasks: tasks}
}

func (v *TaskListView) loadFilter() tea.Msg {
	if v.settings == nil {
		return nil
	}
	value, err := v.settings.GetSetting(db.SettingFilter)
	if err != nil {
		return opFailedMsg{op: "load filter", err: err}
	}
	return filterLoadedMsg{filter: models.ParseFilter(value)}
}

// mutate runs op and reloads the collection afterwards. The view stays busy
// until the reload arrives.
func (v *TaskListView) mutate(name string, op func(ctx context.Context) error) tea.Cmd {
	v.busy = true
	return func() tea.Msg {
		if err := op(v.ctx); err != nil {
			return opFailedMsg{op: name, err: err, mutation: true}
		}
		switch msg := v.loadTasks().(type) {
		case tasksLoadedMsg:
			msg.mutation = true
			return msg
		case opFailedMsg:
			msg.mutation = true
			return msg
		default:
			return msg
		}
	}
}

// settle clears busy and replays pending keys until one starts another
// mutation
func (v *TaskListView) settle() tea.Cmd {
	v.busy = false
	var cmds []tea.Cmd
	for len(v.pending) > 0 && !v.busy {
		msg := v.pending[0]
		v.pending = v.pending[1:]
		_, cmd := v.handleKey(msg)
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

// Visible returns the tasks shown under the current filter
func (v *TaskListView) Visible() []models.Task {
	out := make([]models.Task, 0, len(v.tasks))
	for _, t := range v.tasks {
		if v.filter.Match(t) {
			out = append(out, t)
		}
	}
	return out
}

func (v *TaskListView) selected() (models.Task, bool) {
	visible := v.Visible()
	if v.cursor < 0 || v.cursor >= len(visible) {
		return models.Task{}, false
	}
	return visible[v.cursor], true
}

// Update handles messages
func (v *TaskListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		v.editInput.Width = clamp(styles.ContentWidth(v.width)-8, 10, 60)
		return v, nil

	case tasksLoadedMsg:
		v.tasks = msg.tasks
		v.clampCursor()
		if msg.mutation {
			return v, v.settle()
		}
		return v, nil

	case filterLoadedMsg:
		v.filter = msg.filter
		v.clampCursor()
		return v, nil

	case opFailedMsg:
		v.status = fmt.Sprintf("%s failed: %v", msg.op, msg.err)
		if msg.mutation {
			return v, v.settle()
		}
		return v, nil

	case tea.KeyMsg:
		if v.busy {
			if msg.Type == tea.KeyCtrlC {
				return v, tea.Quit
			}
			v.pending = append(v.pending, msg)
			return v, nil
		}
		return v.handleKey(msg)
	}

	if v.editing {
		var cmd tea.Cmd
		v.editInput, cmd = v.editInput.Update(msg)
		return v, cmd
	}
	return v, nil
}

func (v *TaskListView) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if v.confirmingDelete {
		return v.updateConfirmDelete(msg)
	}

	if v.editing {
		return v.updateEditing(msg)
	}

	return v.updateNormal(msg)
}

func (v *TaskListView) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	v.status = ""

	switch {
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit

	case key.Matches(msg, v.keys.MoveUp):
		return v, v.move(-1)

	case key.Matches(msg, v.keys.MoveDown):
		return v, v.move(1)

	case key.Matches(msg, v.keys.Up):
		if v.cursor > 0 {
			v.cursor--
			v.ensureVisible()
		}
		return v, nil

	case key.Matches(msg, v.keys.Down):
		if v.cursor < len(v.Visible())-1 {
			v.cursor++
			v.ensureVisible()
		}
		return v, nil

	case key.Matches(msg, v.keys.New):
		v.startNewTask()
		return v, textinput.Blink

	case key.Matches(msg, v.keys.Edit):
		if task, ok := v.selected(); ok {
			v.startEditTask(task)
			return v, textinput.Blink
		}
		return v, nil

	case key.Matches(msg, v.keys.Toggle):
		task, ok := v.selected()
		if !ok {
			return v, nil
		}
		task.Completed = !task.Completed
		return v, v.mutate("update", func(ctx context.Context) error {
			_, err := v.ops.Update(ctx, task)
			return err
		})

	case key.Matches(msg, v.keys.Delete):
		if task, ok := v.selected(); ok {
			v.confirmingDelete = true
			v.deleteTarget = task
		}
		return v, nil

	case key.Matches(msg, v.keys.ClearCompleted):
		return v, v.mutate("clear completed", func(ctx context.Context) error {
			_, err := v.ops.ClearCompleted(ctx)
			return err
		})

	case key.Matches(msg, v.keys.Filter):
		v.filter = v.filter.Next()
		v.cursor = 0
		v.scrollY = 0
		return v, v.saveFilter(v.filter)
	}

	return v, nil
}

func (v *TaskListView) saveFilter(f models.Filter) tea.Cmd {
	if v.settings == nil {
		return nil
	}
	return func() tea.Msg {
		if err := v.settings.SetSetting(db.SettingFilter, string(f)); err != nil {
			return opFailedMsg{op: "save filter", err: err}
		}
		return nil
	}
}

// move swaps the selected task with its visible neighbour in direction dir
// and persists the new order
func (v *TaskListView) move(dir int) tea.Cmd {
	visible := v.Visible()
	target := v.cursor + dir
	if v.cursor < 0 || v.cursor >= len(visible) || target < 0 || target >= len(visible) {
		return nil
	}

	ids := make([]int64, len(v.tasks))
	from, to := -1, -1
	for i, t := range v.tasks {
		ids[i] = t.ID
		if t.ID == visible[v.cursor].ID && from < 0 {
			from = i
		}
		if t.ID == visible[target].ID && to < 0 {
			to = i
		}
	}
	if from < 0 || to < 0 {
		return nil
	}
	ids[from], ids[to] = ids[to], ids[from]
	v.tasks[from], v.tasks[to] = v.tasks[to], v.tasks[from]

	v.cursor = target
	v.ensureVisible()

	return v.mutate("reorder", func(ctx context.Context) error {
		_, err := v.ops.ReorderIDs(ctx, ids)
		return err
	})
}

func (v *TaskListView) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		v.confirmingDelete = false
		id := v.deleteTarget.ID
		return v, v.mutate("delete", func(ctx context.Context) error {
			_, err := v.ops.Delete(ctx, id)
			return err
		})
	case "n", "N", "esc":
		v.confirmingDelete = false
		return v, nil
	}
	return v, nil
}

func (v *TaskListView) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.editing = false
		v.editInput.Blur()
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		return v, v.saveTask()
	}

	var cmd tea.Cmd
	v.editInput, cmd = v.editInput.Update(msg)
	return v, cmd
}

func (v *TaskListView) startNewTask() {
	v.editing = true
	v.editingNew = true
	v.editTarget = models.Task{}
	v.editInput.Reset()
	v.editInput.Focus()
}

func (v *TaskListView) startEditTask(task models.Task) {
	v.editing = true
	v.editingNew = false
	v.editTarget = task
	v.editInput.SetValue(task.Text)
	v.editInput.CursorEnd()
	v.editInput.Focus()
}

// saveTask adds or updates the task being edited. Blank or unchanged text
// closes the editor without touching the store.
func (v *TaskListView) saveTask() tea.Cmd {
	text := strings.TrimSpace(v.editInput.Value())
	v.editing = false
	v.editInput.Blur()

	if text == "" {
		return nil
	}

	if v.editingNew {
		return v.mutate("add", func(ctx context.Context) error {
			_, err := v.ops.Add(ctx, text)
			return err
		})
	}

	if text == v.editTarget.Text {
		return nil
	}
	task := v.editTarget
	task.Text = text
	return v.mutate("update", func(ctx context.Context) error {
		_, err := v.ops.Update(ctx, task)
		return err
	})
}

func (v *TaskListView) clampCursor() {
	n := len(v.Visible())
	if v.cursor >= n {
		v.cursor = max(0, n-1)
	}
	v.ensureVisible()
}

func (v *TaskListView) visibleRows() int {
	// Title, filter line, footer and help take 7 rows
	return max(v.height-7, 1)
}

func (v *TaskListView) ensureVisible() {
	rows := v.visibleRows()
	if v.cursor < v.scrollY {
		v.scrollY = v.cursor
	} else if v.cursor >= v.scrollY+rows {
		v.scrollY = v.cursor - rows + 1
	}
}

// View renders the view
func (v *TaskListView) View() string {
	if v.confirmingDelete {
		return v.renderDeleteConfirm()
	}

	var b strings.Builder
	b.WriteString(v.renderHeader())
	b.WriteString("\n\n")

	if v.editing {
		b.WriteString(v.renderEditor())
		b.WriteString("\n")
	}

	b.WriteString(v.renderTaskList())
	b.WriteString("\n")
	b.WriteString(v.renderFooter())
	b.WriteString("\n")
	b.WriteString(v.renderHelp())

	return styles.CenterView(b.String(), v.width, v.height)
}

func (v *TaskListView) renderHeader() string {
	s := v.styles

	var filters []string
	for _, f := range []models.Filter{models.FilterAll, models.FilterActive, models.FilterCompleted} {
		if f == v.filter {
			filters = append(filters, s.HelpKey.Render(string(f)))
		} else {
			filters = append(filters, s.TitleMuted.Render(string(f)))
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render("To-do"),
		strings.Join(filters, s.TitleMuted.Render(" · ")),
	)
}

func (v *TaskListView) renderEditor() string {
	s := v.styles
	label := "New task"
	if !v.editingNew {
		label = "Edit task"
	}
	width := clamp(styles.ContentWidth(v.width)-4, 14, 64)
	return lipgloss.JoinVertical(lipgloss.Left,
		s.TitleMuted.Render(label),
		s.InputFocused.Width(width).Render(v.editInput.View()),
	)
}

func (v *TaskListView) renderTaskList() string {
	s := v.styles
	visible := v.Visible()

	if len(visible) == 0 {
		if len(v.tasks) == 0 {
			return s.TitleMuted.Render("Nothing to do yet. Press 'n' to add your first task.")
		}
		return s.TitleMuted.Render("No " + string(v.filter) + " tasks.")
	}

	var items []string
	endIdx := min(v.scrollY+v.visibleRows(), len(visible))
	for i := v.scrollY; i < endIdx; i++ {
		items = append(items, v.renderTaskItem(visible[i], i == v.cursor && !v.editing))
	}
	return lipgloss.JoinVertical(lipgloss.Left, items...)
}

func (v *TaskListView) renderTaskItem(task models.Task, selected bool) string {
	s := v.styles
	meta := ParseMeta(task.Text)
	width := max(styles.ContentWidth(v.width)-2, 20)

	check := "[ ]"
	body := meta.Body
	if task.Completed {
		check = "[x]"
		body = s.TaskDone.Render(body)
	}

	parts := []string{check}
	if meta.Priority > 0 {
		parts = append(parts, s.Priority[meta.Priority].Render(fmt.Sprintf("!%d", meta.Priority)))
	}
	parts = append(parts, body)
	if meta.Tag != "" {
		parts = append(parts, s.Tag.Render("#"+meta.Tag))
	}
	if meta.HasDue() {
		due := meta.Due.Format(dueLayout)
		if !task.Completed && meta.Overdue(v.now()) {
			parts = append(parts, s.Overdue.Render("⚑ "+due))
		} else {
			parts = append(parts, s.Due.Render(due))
		}
	}

	line := strings.Join(parts, " ")
	if selected {
		return s.ListSelected.Width(width).Render(line)
	}
	return s.ListItem.Width(width).Render(line)
}

func (v *TaskListView) renderFooter() string {
	if v.status != "" {
		return v.styles.StatusError.Render(v.status)
	}
	pending, completed := models.Counts(v.tasks)
	return v.styles.StatusBar.Render(fmt.Sprintf("%d items · %d completed", pending, completed))
}

func (v *TaskListView) renderHelp() string {
	s := v.styles
	if v.editing {
		return s.Help.Render(fmt.Sprintf("%s save • %s cancel",
			s.HelpKey.Render("↵"),
			s.HelpKey.Render("esc"),
		))
	}

	bindings := []key.Binding{
		v.keys.New, v.keys.Edit, v.keys.Toggle, v.keys.Delete,
		v.keys.MoveUp, v.keys.MoveDown, v.keys.ClearCompleted, v.keys.Filter, v.keys.Quit,
	}
	var parts []string
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, s.HelpKey.Render(h.Key)+" "+s.HelpDesc.Render(h.Desc))
	}
	width := styles.ContentWidth(v.width)
	if width <= 0 {
		width = styles.MaxWidth
	}
	return s.Help.Width(width).Render(strings.Join(parts, " • "))
}

func (v *TaskListView) renderDeleteConfirm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Foreground(styles.Current.Error).Render("Delete Task?"),
		"",
		s.TitleMuted.Render(ParseMeta(v.deleteTarget.Text).Body),
		"",
		lipgloss.JoinHorizontal(lipgloss.Center,
			s.ButtonPrimary.Render(" Y - Yes "),
			"  ",
			s.Button.Render(" N - No "),
		),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		s.Dialog.Render(content),
	)
	return styles.CenterView(centered, v.width, v.height)
}
