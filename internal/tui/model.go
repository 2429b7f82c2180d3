package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"bookctl/internal/core"
	"bookctl/internal/engine"
)

// KeyMap defines the keybindings for the TUI
type KeyMap struct {
	Up         key.Binding
	Down       key.Binding
	New        key.Binding
	Delete     key.Binding
	Refresh    key.Binding
	Connect    key.Binding
	Disconnect key.Binding
	Quit       key.Binding
	Help       key.Binding
}

var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓", "down"),
	),
	New: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "new booking"),
	),
	Delete: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "delete"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
	),
	Connect: key.NewBinding(
		key.WithKeys("g"),
		key.WithHelp("g", "connect calendar"),
	),
	Disconnect: key.NewBinding(
		key.WithKeys("G"),
		key.WithHelp("G", "disconnect calendar"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
}

// Creation-form field order
const (
	fieldName = iota
	fieldDate
	fieldStart
	fieldEnd
	fieldCount
)

// Model is the Bubble Tea model for the TUI. All booking and profile state
// lives in the engine; the model holds only presentation concerns.
type Model struct {
	eng  *engine.Engine
	keys KeyMap

	width         int
	height        int
	contentHeight int
	listWidth     int

	selectedIdx   int
	listView      viewport.Model
	viewportReady bool

	spin     spinner.Model
	inputs   []textinput.Model
	focusIdx int

	status    string
	statusErr bool
	showHelp  bool
}

// NewModel creates a new TUI model over the engine.
func NewModel(eng *engine.Engine) Model {
	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = lipgloss.NewStyle().Foreground(primaryColor)

	inputs := make([]textinput.Model, fieldCount)
	for i := range inputs {
		inputs[i] = textinput.New()
		inputs[i].CharLimit = 64
	}
	inputs[fieldName].Placeholder = "Booking name"
	inputs[fieldDate].Placeholder = "YYYY-MM-DD"
	inputs[fieldStart].Placeholder = "09:00"
	inputs[fieldEnd].Placeholder = "10:00"

	return Model{
		eng:    eng,
		keys:   DefaultKeyMap,
		spin:   spin,
		inputs: inputs,
	}
}

// Messages
type dataLoadedMsg struct {
	err error
}

type bookingCreatedMsg struct {
	err error
}

type bookingDeletedMsg struct {
	id  string
	err error
}

type calendarConnectMsg struct {
	err error
}

type calendarDisconnectMsg struct {
	err error
}

type tickMsg time.Time

// Commands
func (m Model) loadCmd() tea.Cmd {
	return func() tea.Msg {
		return dataLoadedMsg{err: m.eng.Load(context.Background())}
	}
}

func (m Model) createCmd() tea.Cmd {
	return func() tea.Msg {
		_, err := m.eng.CreateBooking(context.Background())
		return bookingCreatedMsg{err: err}
	}
}

func (m Model) deleteCmd(id string) tea.Cmd {
	return func() tea.Msg {
		return bookingDeletedMsg{id: id, err: m.eng.DeleteBooking(context.Background(), id)}
	}
}

func (m Model) connectCmd() tea.Cmd {
	return func() tea.Msg {
		return calendarConnectMsg{err: m.eng.ConnectCalendar(context.Background())}
	}
}

func (m Model) disconnectCmd() tea.Cmd {
	return func() tea.Msg {
		return calendarDisconnectMsg{err: m.eng.DisconnectCalendar(context.Background())}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Minute, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadCmd(), m.spin.Tick, tickCmd())
}

// calculateLayout calculates responsive layout dimensions
func (m *Model) calculateLayout() {
	height := m.height
	if height < 10 {
		height = 10
	}

	// Header: ~2 lines, status + help: ~3 lines, padding: ~2 lines
	m.contentHeight = height - 7
	if m.contentHeight < 5 {
		m.contentHeight = 5
	}

	m.listWidth = m.width - 4
	if m.listWidth < 30 {
		m.listWidth = 30
	}
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.calculateLayout()

		viewportHeight := m.contentHeight - 2
		if viewportHeight < 1 {
			viewportHeight = 1
		}
		viewportWidth := m.listWidth - 4
		if viewportWidth < 10 {
			viewportWidth = 10
		}

		if !m.viewportReady {
			m.listView = viewport.New(viewportWidth, viewportHeight)
			m.viewportReady = true
		} else {
			m.listView.Width = viewportWidth
			m.listView.Height = viewportHeight
		}
		m.updateListContent()
		return m, nil

	case dataLoadedMsg:
		if msg.err != nil {
			m.setStatus(fmt.Sprintf("Failed to load data: %v", msg.err), true)
		} else {
			m.clampSelection()
			m.setStatus("", false)
		}
		m.updateListContent()
		return m, nil

	case bookingCreatedMsg:
		if msg.err != nil {
			if errors.Is(msg.err, engine.ErrSubmitInFlight) {
				// Rejected duplicate submit; the first attempt decides.
				return m, nil
			}
			m.setStatus(fmt.Sprintf("Failed to create booking: %v", msg.err), true)
			return m, nil
		}
		m.resetForm()
		m.setStatus("Booking created", false)
		m.updateListContent()
		return m, nil

	case bookingDeletedMsg:
		if msg.err != nil {
			m.setStatus(fmt.Sprintf("Failed to delete booking: %v", msg.err), true)
		} else {
			m.clampSelection()
			m.setStatus("Booking deleted", false)
		}
		m.updateListContent()
		return m, nil

	case calendarConnectMsg:
		if msg.err != nil {
			m.setStatus(fmt.Sprintf("Calendar connection failed: %v", msg.err), true)
		} else {
			m.setStatus("Finish the consent flow in your browser, then refresh", false)
		}
		return m, nil

	case calendarDisconnectMsg:
		if msg.err != nil {
			m.setStatus(fmt.Sprintf("Failed to disconnect calendar: %v", msg.err), true)
		} else {
			m.setStatus("Google Calendar disconnected", false)
		}
		return m, nil

	case tickMsg:
		// Refresh in-progress markers once a minute
		m.updateListContent()
		return m, tickCmd()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.eng.ModalOpen() {
			return m.updateForm(msg)
		}
		return m.updateList(msg)
	}

	return m, nil
}

// updateList handles keys while the booking list has focus.
func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	bookings := m.eng.SortedBookings()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.selectedIdx > 0 {
			m.selectedIdx--
			m.updateListContent()
			m.scrollToSelection()
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.selectedIdx < len(bookings)-1 {
			m.selectedIdx++
			m.updateListContent()
			m.scrollToSelection()
		}
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		return m, m.loadCmd()

	case key.Matches(msg, m.keys.New):
		m.eng.OpenModal()
		m.focusField(fieldName)
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Delete):
		if len(bookings) > 0 && m.selectedIdx < len(bookings) {
			return m, m.deleteCmd(bookings[m.selectedIdx].ID)
		}
		return m, nil

	case key.Matches(msg, m.keys.Connect):
		return m, m.connectCmd()

	case key.Matches(msg, m.keys.Disconnect):
		return m, m.disconnectCmd()
	}

	return m, nil
}

// updateForm handles keys while the create form is open.
func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		// Closing never aborts an in-flight create; if one succeeds later
		// the booking still lands in the list.
		m.eng.CloseModal()
		m.resetForm()
		return m, nil

	case "tab", "down":
		m.focusField((m.focusIdx + 1) % fieldCount)
		return m, textinput.Blink

	case "shift+tab", "up":
		m.focusField((m.focusIdx + fieldCount - 1) % fieldCount)
		return m, textinput.Blink

	case "enter":
		if m.focusIdx < fieldCount-1 {
			m.focusField(m.focusIdx + 1)
			return m, textinput.Blink
		}
		if m.eng.Submitting() {
			// Form stays open; the in-flight attempt decides.
			return m, nil
		}
		m.eng.SetDraft(core.Draft{
			Name:      m.inputs[fieldName].Value(),
			Date:      m.inputs[fieldDate].Value(),
			StartTime: m.inputs[fieldStart].Value(),
			EndTime:   m.inputs[fieldEnd].Value(),
		})
		return m, tea.Batch(m.createCmd(), m.spin.Tick)
	}

	var cmd tea.Cmd
	m.inputs[m.focusIdx], cmd = m.inputs[m.focusIdx].Update(msg)
	return m, cmd
}

func (m *Model) focusField(idx int) {
	m.focusIdx = idx
	for i := range m.inputs {
		if i == idx {
			m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
}

func (m *Model) resetForm() {
	for i := range m.inputs {
		m.inputs[i].SetValue("")
		m.inputs[i].Blur()
	}
	m.focusIdx = fieldName
}

func (m *Model) setStatus(text string, isErr bool) {
	m.status = text
	m.statusErr = isErr
}

func (m *Model) clampSelection() {
	n := len(m.eng.SortedBookings())
	if m.selectedIdx >= n {
		m.selectedIdx = n - 1
	}
	if m.selectedIdx < 0 {
		m.selectedIdx = 0
	}
}

// scrollToSelection keeps the selected row visible in the viewport.
func (m *Model) scrollToSelection() {
	if !m.viewportReady {
		return
	}

	selectedTop := m.selectedIdx
	selectedBottom := selectedTop + 1

	viewTop := m.listView.YOffset
	viewBottom := viewTop + m.listView.Height

	if selectedTop < viewTop {
		m.listView.SetYOffset(selectedTop)
	}
	if selectedBottom > viewBottom {
		m.listView.SetYOffset(selectedBottom - m.listView.Height)
	}
}

// updateListContent rerenders the booking rows into the viewport.
func (m *Model) updateListContent() {
	if !m.viewportReady {
		return
	}

	bookings := m.eng.SortedBookings()

	var rows []string
	if len(bookings) == 0 {
		rows = append(rows, NormalItemStyle.Render("No bookings yet — press n to create one"))
	} else {
		now := time.Now()
		for i, booking := range bookings {
			rows = append(rows, m.renderListItem(booking, i == m.selectedIdx, now))
		}
	}

	m.listView.SetContent(strings.Join(rows, "\n"))
}

func (m Model) renderListItem(b core.Booking, selected bool, now time.Time) string {
	past := b.EndTime.Before(now)

	timeStyle := TimeStyle
	itemStyle := NormalItemStyle
	switch {
	case selected && past:
		timeStyle = PastTimeStyle
		itemStyle = SelectedPastStyle
	case selected:
		itemStyle = SelectedItemStyle
	case past:
		timeStyle = PastTimeStyle
		itemStyle = PastItemStyle
	}

	timeText := fmt.Sprintf("%s %s", b.StartTime.Local().Format("Jan 2"), b.StartTime.Local().Format("3:04 PM"))
	nameWidth := m.listView.Width - 24
	if nameWidth < 10 {
		nameWidth = 10
	}
	name := ansi.Truncate(b.Name, nameWidth, "…")

	row := timeStyle.Render(timeText) + itemStyle.Render(name)
	if b.InProgress(now) {
		row += " " + InProgressStyle.Render("NOW")
	}
	return row
}

// View renders the TUI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	header := m.renderHeader()

	var content string
	switch {
	case m.eng.Loading():
		content = lipgloss.NewStyle().
			Width(m.listWidth).
			Height(m.contentHeight).
			Align(lipgloss.Center, lipgloss.Center).
			Render(m.spin.View() + " Loading bookings...")
	case m.showHelp:
		content = m.renderHelpPanel()
	case m.eng.ModalOpen():
		content = m.renderForm()
	default:
		content = ListPanelStyle.Width(m.listWidth).Height(m.contentHeight).Render(m.listView.View())
	}

	status := m.renderStatus()
	help := m.renderHelpBar()

	return AppStyle.Render(
		lipgloss.JoinVertical(lipgloss.Left, header, content, status, help),
	)
}

func (m Model) renderHeader() string {
	title := HeaderStyle.Render("📅 bookctl")

	var account string
	if profile, ok := m.eng.Profile(); ok {
		badge := CalendarOffStyle.Render("calendar off")
		if profile.CalendarConnected {
			badge = CalendarOnStyle.Render("calendar linked")
		}
		account = lipgloss.NewStyle().Foreground(mutedColor).Render(profile.DisplayName()) + "  " + badge
	}

	return lipgloss.JoinHorizontal(lipgloss.Center, title, "  ", account)
}

func (m Model) renderForm() string {
	var rows []string
	rows = append(rows, FormTitleStyle.Render("Create Booking"))

	labels := [fieldCount]string{"Name", "Date", "Start", "End"}
	for i, input := range m.inputs {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top,
			FormLabelStyle.Render(labels[i]), input.View()))
	}

	if m.eng.Submitting() {
		rows = append(rows, "", m.spin.View()+" Creating...")
	} else {
		rows = append(rows, "", HelpStyle.Render("enter next/submit · tab move · esc cancel"))
	}

	return FormPanelStyle.Width(m.listWidth).Render(strings.Join(rows, "\n"))
}

func (m Model) renderStatus() string {
	if m.status == "" {
		return ""
	}
	if m.statusErr {
		return StatusErrStyle.Render("✗ " + m.status)
	}
	return StatusOKStyle.Render("✓ " + m.status)
}

func (m Model) renderHelpBar() string {
	entries := []struct{ k, desc string }{
		{"↑/↓", "move"},
		{"n", "new"},
		{"x", "delete"},
		{"r", "refresh"},
		{"g/G", "calendar"},
		{"?", "help"},
		{"q", "quit"},
	}

	var parts []string
	for _, e := range entries {
		parts = append(parts, HelpKeyStyle.Render(e.k)+" "+e.desc)
	}
	return HelpStyle.Render(strings.Join(parts, " · "))
}

func (m Model) renderHelpPanel() string {
	lines := []string{
		FormTitleStyle.Render("Keybindings"),
		"",
		"  ↑/↓, j/k     move selection",
		"  n            open the create form",
		"  x            delete the selected booking",
		"  r            reload profile and bookings",
		"  g            link Google Calendar (opens browser)",
		"  G            unlink Google Calendar",
		"  ?            toggle this help",
		"  q, ctrl+c    quit",
		"",
		"In the create form:",
		"  enter        next field, submit on the last one",
		"  tab / s-tab  move between fields",
		"  esc          cancel (keeps any in-flight submit running)",
		"",
		HelpStyle.Render("press any key to close"),
	}
	return FormPanelStyle.Width(m.listWidth).Render(strings.Join(lines, "\n"))
}
