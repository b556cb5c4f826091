package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/tgienger/sticky/internal/ui/views"
)

// App is the root bubbletea model
type App struct {
	taskList *views.TaskListView
}

// NewApp creates a new application over the task operations and the
// settings store
func NewApp(ctx context.Context, ops views.Operations, settings views.Settings) *App {
	return &App{
		taskList: views.NewTaskListView(ctx, ops, settings),
	}
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(tea.SetWindowTitle("sticky"), a.taskList.Init())
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	_, cmd := a.taskList.Update(msg)
	return a, cmd
}

func (a *App) View() string {
	return a.taskList.View()
}
