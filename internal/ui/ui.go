package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"taskmaster/internal/auth"
	"taskmaster/internal/config"
	"taskmaster/internal/query"
	"taskmaster/internal/reminder"
	"taskmaster/internal/storage"
	"taskmaster/internal/task"
)

type screen int

const (
	screenAuth screen = iota
	screenTasks
)

type confirmKind int

const (
	confirmDelete confirmKind = iota
	confirmClear
	confirmLogout
)

type confirmState struct {
	kind   confirmKind
	taskID int64
	prompt string
}

type filterTab struct {
	label string
	sel   query.Selector
}

func filterTabs() []filterTab {
	tabs := []filterTab{{label: "All", sel: query.All}}
	for _, p := range task.Priorities {
		tabs = append(tabs, filterTab{label: string(p), sel: query.ByPriority(p)})
	}
	for _, c := range task.Categories {
		tabs = append(tabs, filterTab{label: string(c), sel: query.ByCategory(c)})
	}
	return tabs
}

type reminderEventMsg reminder.Event

type alertsProbeMsg struct{ err error }

type Model struct {
	cfg      config.Config
	kv       *storage.KV
	registry *auth.Registry
	session  *auth.Session
	store    *task.Store
	sched    *reminder.Scheduler
	notify   func(reminder.Event)

	screen screen
	theme  string
	styles styles
	input  textinput.Model

	authState   *authState
	authPending bool

	cursor    int
	filterIdx int
	search    string
	searching bool
	showStats bool
	alerts    bool
	form      *formState
	confirm   *confirmState
	tour      bool
	toasts    []toastItem
	status    string
}

func Run(kv *storage.KV, cfg config.Config, registry *auth.Registry, session *auth.Session, store *task.Store, sched *reminder.Scheduler) error {
	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 40

	theme := cfg.Theme
	if _, err := kv.Get(storage.KeyTheme, &theme); err != nil {
		return err
	}
	if theme != "dark" {
		theme = "light"
	}

	m := Model{
		cfg:       cfg,
		kv:        kv,
		registry:  registry,
		session:   session,
		store:     store,
		sched:     sched,
		theme:     theme,
		styles:    newStyles(theme),
		input:     ti,
		showStats: true,
		alerts:    cfg.DesktopAlerts,
		filterIdx: defaultFilterIndex(cfg.DefaultFilter),
	}

	var program *tea.Program
	m.notify = func(ev reminder.Event) {
		if program != nil {
			program.Send(reminderEventMsg(ev))
		}
	}

	user, loggedIn := session.Current()
	if loggedIn {
		m.screen = screenTasks
		m.status = listHint(cfg.Keys)
		m.tour = registry.FirstLogin(user)
	} else {
		m.screen = screenAuth
		m.authState = &authState{mode: authSignIn}
		m.syncAuthInput()
	}

	program = tea.NewProgram(m)
	if loggedIn {
		sched.Start(user, m.notify)
	}
	_, err := program.Run()
	sched.Stop()
	return err
}

func defaultFilterIndex(name string) int {
	for i, tab := range filterTabs() {
		if strings.EqualFold(tab.label, name) {
			return i
		}
	}
	return 0
}

func listHint(k config.Keymap) string {
	return fmt.Sprintf("Press '%s' to add, space to toggle, '%s' to delete.", k.Add, k.Delete)
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case reminderEventMsg:
		cmd := showToast("Reminder: "+msg.Title, toastInfo)
		if m.alerts {
			ev := reminder.Event(msg)
			return m, tea.Batch(cmd, func() tea.Msg {
				// Best effort: the toast above is the fallback surface.
				_ = reminder.NotifyDesktop("Due soon", ev.Title)
				return nil
			})
		}
		return m, cmd
	case toastMsg:
		cmd := m.addToast(msg)
		return m, cmd
	case toastGCMsg:
		m.sweepToasts()
		return m, nil
	case authDelayMsg:
		if m.authState == nil {
			return m, nil
		}
		return m.finishAuth()
	case alertsProbeMsg:
		if msg.err != nil {
			m.alerts = false
			return m, showToast("Desktop notifications unavailable", toastError)
		}
		return m, showToast("Desktop notifications enabled!", toastSuccess)
	case tea.WindowSizeMsg:
		m.input.Width = msg.Width - 10
		return m, nil
	case tea.KeyMsg:
		if m.screen == screenAuth {
			return m.updateAuth(msg.String(), msg)
		}
		return m.updateTasks(msg.String(), msg)
	}
	return m, nil
}

func (m Model) updateTasks(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.tour {
		return m.updateTour(key)
	}
	if m.confirm != nil {
		return m.updateConfirm(key)
	}
	if m.form != nil {
		return m.updateForm(key, msg)
	}
	if m.searching {
		return m.updateSearch(key, msg)
	}
	return m.updateList(key)
}

func (m Model) updateList(key string) (tea.Model, tea.Cmd) {
	visible := m.visibleTasks()
	m.cursor = clampCursor(m.cursor, len(visible))
	switch key {
	case "ctrl+c", m.cfg.Keys.Quit:
		return m, tea.Quit
	case m.cfg.Keys.Down, "down":
		if len(visible) == 0 {
			return m, nil
		}
		m.cursor = clampCursor(m.cursor+1, len(visible))
	case m.cfg.Keys.Up, "up":
		if m.cursor > 0 {
			m.cursor = clampCursor(m.cursor-1, len(visible))
		}
	case m.cfg.Keys.Add:
		m.form = newCreateForm()
		m.syncFormInput()
		m.status = "New task: Enter to advance, Esc to cancel"
	case m.cfg.Keys.Edit:
		if len(visible) == 0 {
			m.status = "No tasks to edit"
			return m, nil
		}
		m.form = newEditForm(visible[m.cursor])
		m.syncFormInput()
		m.status = "Edit task: Enter to advance, Esc to cancel"
	case m.cfg.Keys.Toggle:
		if len(visible) == 0 {
			return m, nil
		}
		done, err := m.store.Toggle(visible[m.cursor].ID)
		if err != nil {
			return m, showToast("Toggle failed: "+err.Error(), toastError)
		}
		if done {
			return m, showToast("Task completed! 🎉", toastSuccess)
		}
		return m, showToast("Task reopened", toastInfo)
	case m.cfg.Keys.Delete:
		if len(visible) == 0 {
			return m, nil
		}
		t := visible[m.cursor]
		m.confirm = &confirmState{
			kind:   confirmDelete,
			taskID: t.ID,
			prompt: fmt.Sprintf("Delete %q permanently? y/n", t.Title),
		}
	case m.cfg.Keys.ClearDone:
		owner, _ := m.session.Current()
		done := 0
		for _, t := range m.store.All() {
			if t.Owner == owner && t.Completed {
				done++
			}
		}
		if done == 0 {
			return m, showToast("No completed tasks to clear", toastInfo)
		}
		m.confirm = &confirmState{
			kind:   confirmClear,
			prompt: fmt.Sprintf("Clear all %d completed tasks? y/n", done),
		}
	case m.cfg.Keys.Filter:
		m.filterIdx = (m.filterIdx + 1) % len(filterTabs())
		m.cursor = 0
	case m.cfg.Keys.Search:
		m.searching = true
		m.input.EchoMode = textinput.EchoNormal
		m.input.SetValue(m.search)
		m.input.Placeholder = "search title"
		m.input.CursorEnd()
		m.input.Focus()
		m.status = "Search: Enter to apply, Esc to clear"
	case m.cfg.Keys.Theme:
		return m.toggleTheme()
	case m.cfg.Keys.Analytics:
		m.showStats = !m.showStats
	case m.cfg.Keys.Alerts:
		if m.alerts {
			m.alerts = false
			return m, showToast("Desktop notifications off", toastInfo)
		}
		m.alerts = true
		return m, func() tea.Msg {
			return alertsProbeMsg{err: reminder.NotifyDesktop("Alerts active", "Reminders will show up here")}
		}
	case m.cfg.Keys.Logout:
		m.confirm = &confirmState{
			kind:   confirmLogout,
			prompt: "Log out of your session? y/n",
		}
	}
	return m, nil
}

func (m Model) updateSearch(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Cancel, "esc":
		m.search = ""
		m.searching = false
		m.input.Blur()
		m.cursor = 0
		m.status = listHint(m.cfg.Keys)
		return m, nil
	case m.cfg.Keys.Confirm, "enter":
		m.search = m.input.Value()
		m.searching = false
		m.input.Blur()
		m.cursor = 0
		m.status = listHint(m.cfg.Keys)
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		m.search = m.input.Value()
		return m, cmd
	}
}

func (m Model) updateForm(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Cancel, "esc":
		m.form = nil
		m.input.Blur()
		m.status = "Cancelled"
		return m, nil
	case "tab", "down":
		m.form.setCurrentValue(m.input.Value())
		m.form.index = wrapIndex(m.form.index+1, len(formFields()))
		m.syncFormInput()
		return m, nil
	case "shift+tab", "up":
		m.form.setCurrentValue(m.input.Value())
		m.form.index = wrapIndex(m.form.index-1, len(formFields()))
		m.syncFormInput()
		return m, nil
	case m.cfg.Keys.Confirm, "enter":
		m.form.setCurrentValue(m.input.Value())
		if m.form.index < len(formFields())-1 {
			m.form.index++
			m.syncFormInput()
			return m, nil
		}
		return m.saveForm()
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m Model) saveForm() (tea.Model, tea.Cmd) {
	fields, err := m.form.parse()
	if err != nil {
		m.status = err.Error()
		return m, nil
	}
	editing := m.form.taskID != 0
	if editing {
		if err := m.store.Update(m.form.taskID, fields); err != nil {
			return m, showToast("Save failed: "+err.Error(), toastError)
		}
	} else {
		owner, _ := m.session.Current()
		if _, err := m.store.Create(owner, fields); err != nil {
			return m, showToast("Save failed: "+err.Error(), toastError)
		}
	}
	m.form = nil
	m.input.Blur()
	m.status = listHint(m.cfg.Keys)
	if editing {
		return m, showToast("Task updated", toastSuccess)
	}
	m.cursor = clampCursor(len(m.visibleTasks())-1, len(m.visibleTasks()))
	return m, showToast("Task added", toastSuccess)
}

func (m Model) updateConfirm(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "n", "N", m.cfg.Keys.Cancel, "esc":
		m.confirm = nil
		m.status = "Cancelled"
		return m, nil
	case "y", "Y":
		c := m.confirm
		m.confirm = nil
		switch c.kind {
		case confirmDelete:
			if err := m.store.Delete(c.taskID); err != nil {
				return m, showToast("Delete failed: "+err.Error(), toastError)
			}
			m.cursor = clampCursor(m.cursor, len(m.visibleTasks()))
			return m, showToast("Task removed", toastInfo)
		case confirmClear:
			owner, _ := m.session.Current()
			n, err := m.store.ClearCompleted(owner)
			if err != nil {
				return m, showToast("Clear failed: "+err.Error(), toastError)
			}
			m.cursor = clampCursor(m.cursor, len(m.visibleTasks()))
			return m, showToast(fmt.Sprintf("History cleared (%d)", n), toastSuccess)
		case confirmLogout:
			return m.performLogout()
		}
		return m, nil
	default:
		return m, nil
	}
}

func (m Model) updateTour(key string) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Confirm, "enter", m.cfg.Keys.Cancel, "esc":
		m.tour = false
		owner, _ := m.session.Current()
		if err := m.registry.ClearFirstLogin(owner); err != nil {
			return m, showToast("Save failed: "+err.Error(), toastError)
		}
		return m, showToast("You're all set! 🎉", toastSuccess)
	default:
		return m, nil
	}
}

func (m Model) performLogin(user string) (Model, tea.Cmd) {
	if err := m.session.Login(user); err != nil {
		return m, showToast("Login failed: "+err.Error(), toastError)
	}
	m.screen = screenTasks
	m.authState = nil
	m.cursor = 0
	m.search = ""
	m.searching = false
	m.filterIdx = defaultFilterIndex(m.cfg.DefaultFilter)
	m.status = listHint(m.cfg.Keys)
	m.tour = m.registry.FirstLogin(user)
	m.input.EchoMode = textinput.EchoNormal
	m.input.SetValue("")
	m.input.Blur()
	m.sched.Start(user, m.notify)
	return m, nil
}

func (m Model) performLogout() (Model, tea.Cmd) {
	m.sched.Stop()
	m.sched.Reset()
	if err := m.session.Logout(); err != nil {
		return m, showToast("Logout failed: "+err.Error(), toastError)
	}
	m.screen = screenAuth
	m.authPending = false
	m.authState = &authState{mode: authSignIn}
	m.syncAuthInput()
	return m, showToast("Logged out successfully", toastInfo)
}

func (m Model) toggleTheme() (Model, tea.Cmd) {
	if m.theme == "dark" {
		m.theme = "light"
	} else {
		m.theme = "dark"
	}
	m.styles = newStyles(m.theme)
	if err := m.kv.Set(storage.KeyTheme, m.theme); err != nil {
		return m, showToast("Theme save failed: "+err.Error(), toastError)
	}
	return m, nil
}

func (m Model) visibleTasks() []task.Task {
	owner, _ := m.session.Current()
	return query.Filter(m.store.All(), owner, filterTabs()[m.filterIdx].sel, m.search)
}

func (m Model) View() string {
	if m.screen == screenAuth {
		return m.viewAuth()
	}
	return m.viewTasks()
}

func (m Model) viewTasks() string {
	owner, _ := m.session.Current()
	var b strings.Builder

	b.WriteString(m.styles.title.Render("Task Master"))
	b.WriteString(m.styles.dim.Render("  Hi, " + owner + "!"))
	b.WriteString("\n\n")

	if m.tour {
		return b.String() + m.viewTour()
	}

	b.WriteString(m.renderTabs())
	b.WriteString("\n")
	if m.searching {
		b.WriteString("Search: ")
		b.WriteString(m.input.View())
		b.WriteString("\n")
	} else if m.search != "" {
		b.WriteString(m.styles.dim.Render("Search: " + m.search))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	visible := m.visibleTasks()
	if len(visible) == 0 {
		b.WriteString(m.styles.dim.Render("No tasks here. Press '" + m.cfg.Keys.Add + "' to add one."))
		b.WriteString("\n")
	} else {
		b.WriteString(m.renderTaskList(visible))
	}

	if m.form != nil {
		b.WriteString("\n---\n")
		b.WriteString(m.renderForm())
	} else if m.showStats {
		b.WriteString("\n---\n")
		b.WriteString(m.renderAnalytics(owner))
	}

	b.WriteString("\n")
	if m.confirm != nil {
		b.WriteString(m.styles.toastErr.Render(m.confirm.prompt))
		b.WriteString("\n")
	}
	b.WriteString(m.renderToasts())
	b.WriteString(m.status)
	b.WriteString("\n")
	b.WriteString(renderHelp(m.styles, m.cfg.Keys))
	return b.String()
}

func (m Model) renderTabs() string {
	parts := make([]string, 0, len(filterTabs()))
	for i, tab := range filterTabs() {
		if i == m.filterIdx {
			parts = append(parts, m.styles.tabActive.Render(tab.label))
		} else {
			parts = append(parts, m.styles.tab.Render(tab.label))
		}
	}
	return strings.Join(parts, " · ")
}

func (m Model) renderTaskList(visible []task.Task) string {
	var b strings.Builder
	for i, t := range visible {
		cursor := " "
		if m.cursor == i {
			cursor = m.styles.cursor.Render(">")
		}

		checkbox := "[ ]"
		if t.Completed {
			checkbox = "[x]"
		}

		title := t.Title
		if t.Completed {
			title = m.styles.done.Render(title)
		}

		chips := []string{
			m.styles.category.Render(string(t.Category)),
			m.styles.priority(t.Priority).Render(string(t.Priority)),
		}
		if t.Due != nil {
			chips = append(chips, m.styles.dim.Render("due "+formatDue(t.Due)))
		}

		b.WriteString(fmt.Sprintf("%s %s %s  %s\n", cursor, checkbox, title, strings.Join(chips, " ")))
		if t.Description != "" && m.cursor == i {
			b.WriteString(m.styles.dim.Render("      " + t.Description))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m Model) renderForm() string {
	fs := m.form
	values := []string{fs.title, fs.desc, fs.priority, fs.category, fs.due}
	var b strings.Builder
	if fs.taskID != 0 {
		b.WriteString("Edit Task\n")
	} else {
		b.WriteString("New Task\n")
	}
	for i, name := range formFields() {
		prefix := " "
		if i == fs.index {
			prefix = ">"
		}
		val := values[i]
		if i == fs.index {
			val = m.input.View()
		} else if strings.TrimSpace(val) == "" {
			val = m.styles.dim.Render("(empty)")
		}
		b.WriteString(fmt.Sprintf("%s %-42s : %s\n", prefix, name, val))
	}
	return b.String()
}

func (m Model) renderAnalytics(owner string) string {
	all := m.store.All()
	stats := query.ComputeStats(all, owner)
	var b strings.Builder
	b.WriteString(m.styles.panel.Render("Analytics"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Total: %d  Completed: %d  High open: %d\n", stats.Total, stats.Completed, stats.HighPriorityOpen))
	b.WriteString("Progress  ")
	b.WriteString(renderProgress(m.styles, stats))
	b.WriteString("\n")
	b.WriteString(renderChart(m.styles, query.CategoryBreakdown(all, owner)))
	return b.String()
}

func (m Model) viewTour() string {
	var b strings.Builder
	b.WriteString(m.styles.panel.Render("Welcome aboard! A quick tour:"))
	b.WriteString("\n\n")
	b.WriteString("  '" + m.cfg.Keys.Add + "' adds a task, space toggles it done\n")
	b.WriteString("  '" + m.cfg.Keys.Filter + "' cycles filters, '" + m.cfg.Keys.Search + "' searches titles\n")
	b.WriteString("  '" + m.cfg.Keys.Analytics + "' shows your progress chart\n")
	b.WriteString("  Tasks due within the hour raise a reminder\n\n")
	b.WriteString(m.styles.dim.Render("Press enter to get started"))
	return b.String()
}

func renderHelp(st styles, k config.Keymap) string {
	return st.dim.Render(fmt.Sprintf("%s/%s move • %s add • %s edit • %s toggle • %s delete • %s filter • %s search • %s clear done • %s theme • %s stats • %s alerts • %s logout • %s quit",
		k.Up, k.Down, k.Add, k.Edit, k.Toggle, k.Delete, k.Filter, k.Search, k.ClearDone, k.Theme, k.Analytics, k.Alerts, k.Logout, k.Quit))
}

func (m *Model) syncFormInput() {
	m.input.EchoMode = textinput.EchoNormal
	m.input.SetValue(m.form.currentValue())
	m.input.Placeholder = m.form.currentLabel()
	m.input.CursorEnd()
	m.input.Focus()
}

func wrapIndex(idx, n int) int {
	if n <= 0 {
		return 0
	}
	idx %= n
	if idx < 0 {
		idx += n
	}
	return idx
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}
