// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/studyhall-tui/internal/access"
	"github.com/jeranaias/studyhall-tui/internal/api"
	"github.com/jeranaias/studyhall-tui/internal/auth"
	"github.com/jeranaias/studyhall-tui/internal/chat"
	"github.com/jeranaias/studyhall-tui/internal/config"
	"github.com/jeranaias/studyhall-tui/internal/history"
	"github.com/jeranaias/studyhall-tui/internal/ui/styles"
)

// Ctx bundles the long-lived collaborators every view needs.
type Ctx struct {
	Cfg     *config.Config
	Theme   *styles.Theme
	Auth    *auth.Session
	Chat    *chat.Session
	API     *api.Client
	History *history.Store // nil when archiving is disabled
}

// View identifies the active screen.
type View int

const (
	ViewLogin View = iota
	ViewRegister
	ViewHome
	ViewChat
	ViewCourses
	ViewNotes
	ViewAdmin
	ViewOwner
)

// routeFor maps a view to its access route. Login and Register are public.
func routeFor(v View) (access.Route, bool) {
	switch v {
	case ViewHome:
		return access.RouteHome, true
	case ViewChat:
		return access.RouteChat, true
	case ViewCourses:
		return access.RouteCourses, true
	case ViewNotes:
		return access.RouteNotes, true
	case ViewAdmin:
		return access.RouteAdmin, true
	case ViewOwner:
		return access.RouteOwner, true
	default:
		return access.Route{}, false
	}
}

// =============================================================================
// APP MODEL
// =============================================================================

// App is the root Bubble Tea model.
type App struct {
	ctx *Ctx

	view          View
	bootstrapping bool
	notice        string

	width  int
	height int

	login    loginModel
	register registerModel
	chat     chatModel
	courses  coursesModel
	notes    notesModel
	admin    adminModel
	owner    ownerModel
}

// NewApp builds the root model. The session starts in Loading; Init kicks
// off Bootstrap and the first frame shows a neutral indicator, never a
// login flash.
func NewApp(ctx *Ctx) *App {
	return &App{
		ctx:           ctx,
		view:          ViewHome,
		bootstrapping: true,
		login:         newLoginModel(ctx),
		register:      newRegisterModel(ctx),
		chat:          newChatModel(ctx),
		courses:       newCoursesModel(ctx),
		notes:         newNotesModel(ctx),
		admin:         newAdminModel(ctx),
		owner:         newOwnerModel(ctx),
	}
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(bootstrapCmd(a.ctx), a.chat.spinner.Tick)
}

// navigate routes to a view through the access guard. Returns the command
// that loads the view's data when access is allowed.
func (a *App) navigate(target View) tea.Cmd {
	route, protected := routeFor(target)
	if !protected {
		a.view = target
		return nil
	}

	state, identity := a.ctx.Auth.Snapshot()
	switch access.DecideRoute(state, identity, route) {
	case access.DecisionPending:
		a.bootstrapping = true
		return nil
	case access.DecisionLogin:
		a.view = ViewLogin
		return nil
	case access.DecisionHome:
		a.view = ViewHome
		a.notice = "You don't have access to that area."
		return nil
	}

	a.view = target
	a.notice = ""
	return a.loadCmdFor(target)
}

// loadCmdFor returns the data-loading command for a view.
func (a *App) loadCmdFor(v View) tea.Cmd {
	switch v {
	case ViewCourses:
		return loadCoursesCmd(a.ctx)
	case ViewNotes:
		return loadNotesCmd(a.ctx)
	case ViewOwner:
		return loadStatsCmd(a.ctx)
	default:
		return nil
	}
}

// availableViews lists the views the current identity may cycle through.
func (a *App) availableViews() []View {
	views := []View{ViewHome, ViewChat, ViewCourses, ViewNotes}
	state, identity := a.ctx.Auth.Snapshot()
	if access.DecideRoute(state, identity, access.RouteAdmin) == access.DecisionAllow {
		views = append(views, ViewAdmin)
	}
	if access.DecideRoute(state, identity, access.RouteOwner) == access.DecisionAllow {
		views = append(views, ViewOwner)
	}
	return views
}

// cycleView moves to the next available view.
func (a *App) cycleView() tea.Cmd {
	views := a.availableViews()
	for i, v := range views {
		if v == a.view {
			return a.navigate(views[(i+1)%len(views)])
		}
	}
	return a.navigate(ViewHome)
}

// signOut ends the session from any state and lands on the login view.
func (a *App) signOut() tea.Cmd {
	archive := archiveCmd(a.ctx)
	a.ctx.Auth.Logout()
	a.ctx.Chat.Clear()
	a.view = ViewLogin
	a.notice = ""
	a.login.reset("Signed out.")
	return archive
}

// handleAuthError invalidates the session when a gateway call came back
// with a rejected credential. Returns true when handled.
func (a *App) handleAuthError(err error) bool {
	if err == nil || !api.IsUnauthorized(err) {
		return false
	}
	a.ctx.Auth.Invalidate()
	a.view = ViewLogin
	a.login.reset("Session expired. Please sign in again.")
	return true
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ctx.Theme.SetSize(msg.Width, msg.Height)
		a.chat.setSize(msg.Width, msg.Height)
		return a, nil

	case BootstrapDoneMsg:
		a.bootstrapping = false
		if msg.State == auth.StateAuthenticated {
			return a, a.navigate(ViewHome)
		}
		a.view = ViewLogin
		return a, nil

	case LoginResultMsg:
		m, cmd := a.login.handleResult(msg)
		a.login = m
		if msg.Err == nil && msg.Identity != nil {
			return a, tea.Batch(cmd, a.navigate(ViewHome))
		}
		return a, cmd

	case RegisterResultMsg:
		m, cmd := a.register.handleResult(msg)
		a.register = m
		if msg.Err == nil {
			// Account created; back to login, not into a session.
			a.view = ViewLogin
			a.login.reset("Account created. Please sign in.")
			a.login.setUsername(msg.Username)
		}
		return a, cmd

	case ChatReplyMsg, ChatFailedMsg, ArchiveDoneMsg:
		if cf, ok := msg.(ChatFailedMsg); ok && a.handleAuthError(cf.Err) {
			// Still record the failure so the pending flag clears.
			a.ctx.Chat.Fail(cf.Epoch)
			return a, nil
		}
		m, cmd := a.chat.update(msg)
		a.chat = m
		return a, cmd

	case CoursesLoadedMsg:
		if a.handleAuthError(msg.Err) {
			return a, nil
		}
		m, cmd := a.courses.update(msg)
		a.courses = m
		return a, cmd
	case CourseBoughtMsg:
		if a.handleAuthError(msg.Err) {
			return a, nil
		}
		m, cmd := a.courses.update(msg)
		a.courses = m
		return a, cmd
	case ContentLoadedMsg:
		if a.handleAuthError(msg.Err) {
			return a, nil
		}
		m, cmd := a.courses.update(msg)
		a.courses = m
		return a, cmd

	case NotesLoadedMsg, NoteSavedMsg, NoteDeletedMsg:
		if err := errOf(msg); a.handleAuthError(err) {
			return a, nil
		}
		m, cmd := a.notes.update(msg)
		a.notes = m
		return a, cmd

	case CourseCreatedMsg, ContentAddedMsg:
		if err := errOf(msg); a.handleAuthError(err) {
			return a, nil
		}
		m, cmd := a.admin.update(msg)
		a.admin = m
		return a, cmd

	case StatsLoadedMsg:
		if a.handleAuthError(msg.Err) {
			return a, nil
		}
		m, cmd := a.owner.update(msg)
		a.owner = m
		return a, cmd

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	// Remaining messages (spinner ticks, blink) go to the active view.
	return a.updateActive(msg)
}

// errOf extracts the error from a result message.
func errOf(msg tea.Msg) error {
	switch m := msg.(type) {
	case NotesLoadedMsg:
		return m.Err
	case NoteSavedMsg:
		return m.Err
	case NoteDeletedMsg:
		return m.Err
	case CourseCreatedMsg:
		return m.Err
	case ContentAddedMsg:
		return m.Err
	default:
		return nil
	}
}

// handleKey routes key presses: global chords first, then the active view.
func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return a, tea.Sequence(archiveCmd(a.ctx), tea.Quit)
	case "ctrl+o":
		return a, a.signOut()
	case "tab":
		if a.view != ViewLogin && a.view != ViewRegister && !a.activeViewEditing() {
			return a, a.cycleView()
		}
	case "esc":
		if a.view != ViewLogin && a.view != ViewRegister && a.view != ViewHome && !a.activeViewEditing() {
			return a, a.navigate(ViewHome)
		}
	}
	return a.updateActive(msg)
}

// activeViewEditing reports whether the active view owns the keyboard
// (a focused text field that should receive tab/esc).
func (a *App) activeViewEditing() bool {
	switch a.view {
	case ViewChat:
		return a.chat.editing()
	case ViewNotes:
		return a.notes.editing()
	case ViewAdmin:
		return a.admin.editing()
	default:
		return false
	}
}

// updateActive forwards a message to the active view's model.
func (a *App) updateActive(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.view {
	case ViewLogin:
		var next View
		a.login, next, cmd = a.login.update(msg)
		if next == ViewRegister {
			a.register.reset("")
			a.view = ViewRegister
		}
	case ViewRegister:
		var next View
		a.register, next, cmd = a.register.update(msg)
		if next == ViewLogin {
			a.view = ViewLogin
		}
	case ViewHome:
		if key, ok := msg.(tea.KeyMsg); ok {
			return a, a.handleHomeKey(key)
		}
	case ViewChat:
		a.chat, cmd = a.chat.update(msg)
	case ViewCourses:
		a.courses, cmd = a.courses.update(msg)
	case ViewNotes:
		a.notes, cmd = a.notes.update(msg)
	case ViewAdmin:
		a.admin, cmd = a.admin.update(msg)
	case ViewOwner:
		a.owner, cmd = a.owner.update(msg)
	}
	return a, cmd
}

// handleHomeKey handles the home menu shortcuts.
func (a *App) handleHomeKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "c":
		return a.navigate(ViewChat)
	case "s":
		return a.navigate(ViewCourses)
	case "n":
		return a.navigate(ViewNotes)
	case "a":
		return a.navigate(ViewAdmin)
	case "o":
		return a.navigate(ViewOwner)
	}
	return nil
}

// =============================================================================
// VIEW
// =============================================================================

// View implements tea.Model.
func (a *App) View() string {
	t := a.ctx.Theme

	state, _ := a.ctx.Auth.Snapshot()
	if state == auth.StateLoading || a.bootstrapping {
		// Neutral indicator while the stored token is verified.
		return t.Container.Render(t.ThinkingText.Render("Connecting to StudyHall..."))
	}

	var body string
	switch a.view {
	case ViewLogin:
		body = a.login.view()
	case ViewRegister:
		body = a.register.view()
	case ViewHome:
		body = a.homeView()
	case ViewChat:
		body = a.chat.view()
	case ViewCourses:
		body = a.courses.view()
	case ViewNotes:
		body = a.notes.view()
	case ViewAdmin:
		body = a.admin.view()
	case ViewOwner:
		body = a.owner.view()
	}

	header := a.headerView()
	status := a.statusView()

	sections := []string{header, body}
	if a.notice != "" {
		sections = append(sections, styles.RenderWarning(a.notice))
	}
	sections = append(sections, status)
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// headerView renders the title bar with the signed-in identity.
func (a *App) headerView() string {
	t := a.ctx.Theme
	title := t.HeaderTitle.Render("StudyHall")

	_, identity := a.ctx.Auth.Snapshot()
	if identity == nil {
		return t.Header.Render(title)
	}

	badge := t.RoleBadge.Render(identity.Role.DisplayName())
	who := t.HeaderSubtitle.Render(identity.Username)
	return t.Header.Render(title + "  " + who + " " + badge)
}

// statusView renders the shortcut bar.
func (a *App) statusView() string {
	t := a.ctx.Theme

	if a.view == ViewLogin || a.view == ViewRegister {
		return t.StatusBar.Render(
			t.ShortcutKey.Render("tab") + t.ShortcutDesc.Render(" next field  ") +
				t.ShortcutKey.Render("enter") + t.ShortcutDesc.Render(" submit  ") +
				t.ShortcutKey.Render("ctrl+c") + t.ShortcutDesc.Render(" quit"))
	}

	return t.StatusBar.Render(
		t.ShortcutKey.Render("tab") + t.ShortcutDesc.Render(" switch view  ") +
			t.ShortcutKey.Render("esc") + t.ShortcutDesc.Render(" home  ") +
			t.ShortcutKey.Render("ctrl+o") + t.ShortcutDesc.Render(" sign out  ") +
			t.ShortcutKey.Render("ctrl+c") + t.ShortcutDesc.Render(" quit"))
}

// homeView renders the main menu.
func (a *App) homeView() string {
	t := a.ctx.Theme
	var b strings.Builder

	b.WriteString(t.FormTitle.Render("Welcome back"))
	b.WriteString("\n\n")
	b.WriteString(t.ListItem.Render("c  Study chat"))
	b.WriteString("\n")
	b.WriteString(t.ListItem.Render("s  Courses"))
	b.WriteString("\n")
	b.WriteString(t.ListItem.Render("n  Notes"))
	b.WriteString("\n")

	state, identity := a.ctx.Auth.Snapshot()
	if access.DecideRoute(state, identity, access.RouteAdmin) == access.DecisionAllow {
		b.WriteString(t.ListItem.Render("a  Course management"))
		b.WriteString("\n")
	}
	if access.DecideRoute(state, identity, access.RouteOwner) == access.DecisionAllow {
		b.WriteString(t.ListItem.Render("o  Analytics"))
		b.WriteString("\n")
	}

	return t.Container.Render(b.String())
}
