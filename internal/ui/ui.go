package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/wingera/schematic-material-viewer/internal/formatter"
	"github.com/wingera/schematic-material-viewer/internal/models"
	"github.com/wingera/schematic-material-viewer/internal/services"
	"github.com/wingera/schematic-material-viewer/internal/session"
	"github.com/wingera/schematic-material-viewer/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	FileListView ViewState = iota
	DocumentView
)

// Model represents the TUI application state.
type Model struct {
	ctx     context.Context
	view    ViewState
	api     services.API
	engine  *tasks.SyncEngine
	store   *session.Store
	notices <-chan tasks.Notice

	width  int
	height int

	fileList list.Model
	files    []models.FileInfo
	cursor   int

	notification string
	connected    bool
	err          error

	help help.Model
	keys keyMap
}

type filesFetchedMsg struct {
	files []models.FileInfo
	err   error
}

type fileOpenedMsg struct {
	filename string
	err      error
}

type savedMsg struct {
	message string
	err     error
}

type exportedMsg struct {
	path string
	err  error
}

type noticeMsg tasks.Notice

// NewModel creates a new TUI model with the provided dependencies. When
// the session store already holds a restored document, the model starts
// on the table view.
func NewModel(ctx context.Context, api services.API, engine *tasks.SyncEngine, store *session.Store, notices <-chan tasks.Notice) *Model {
	view := FileListView
	if store.HasDocument() {
		view = DocumentView
	}

	return &Model{
		ctx:       ctx,
		view:      view,
		api:       api,
		engine:    engine,
		store:     store,
		notices:   notices,
		connected: true,
		help:      help.New(),
		keys:      newKeyMap(),
	}
}

// Init fetches the document list and starts listening for notices.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.fetchFiles(), m.waitForNotice())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.fileList.Width() == 0 {
			m.fileList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case FileListView:
			return m.handleFileListKeys(msg)
		case DocumentView:
			return m.handleDocumentKeys(msg)
		}

	case filesFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.files = msg.files
		items := make([]list.Item, len(msg.files))
		for i, file := range msg.files {
			items[i] = fileItem{file: file}
		}
		m.fileList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.fileList.Title = "Documents"
		m.fileList.SetSize(m.width-4, m.height-8)
		return m, nil

	case fileOpenedMsg:
		if msg.err != nil {
			m.notification = styles.err.Render(fmt.Sprintf("open failed: %v", msg.err))
			return m, nil
		}
		m.view = DocumentView
		m.cursor = 0
		m.notification = ""
		return m, nil

	case savedMsg:
		if msg.err != nil {
			m.notification = styles.err.Render(fmt.Sprintf("save failed: %v", msg.err))
		} else {
			m.notification = styles.ok.Render(msg.message)
		}
		return m, nil

	case exportedMsg:
		if msg.err != nil {
			m.notification = styles.err.Render(fmt.Sprintf("export failed: %v", msg.err))
		} else {
			m.notification = styles.ok.Render(fmt.Sprintf("exported to %s", msg.path))
		}
		return m, nil

	case noticeMsg:
		m.applyNotice(tasks.Notice(msg))
		return m, m.waitForNotice()
	}

	if m.view == FileListView {
		var cmd tea.Cmd
		m.fileList, cmd = m.fileList.Update(msg)
		return m, cmd
	}
	return m, nil
}

// applyNotice folds an engine notice into the view state. Render
// notices need no extra work: View reads the store directly, so the
// next draw already shows the change.
func (m *Model) applyNotice(notice tasks.Notice) {
	switch notice.Kind {
	case tasks.NoticeRender, tasks.NoticeInfo:
		m.notification = styles.help.Render(notice.Message)
	case tasks.NoticeError:
		m.notification = styles.err.Render(notice.Message)
	case tasks.NoticeConnection:
		if up, ok := notice.Data.(bool); ok {
			m.connected = up
		}
		m.notification = styles.warn.Render(notice.Message)
	}
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case FileListView:
		return m.renderFileList()
	case DocumentView:
		return m.renderDocument()
	default:
		return ""
	}
}

func (m *Model) handleFileListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.refresh):
		return m, m.fetchFiles()
	case key.Matches(msg, m.keys.enter):
		if selected, ok := m.fileList.SelectedItem().(fileItem); ok {
			return m, m.openFile(selected.file.Filename)
		}
	}

	var cmd tea.Cmd
	m.fileList, cmd = m.fileList.Update(msg)
	return m, cmd
}

func (m *Model) handleDocumentKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.back):
		if err := m.engine.CloseDocument(); err != nil {
			m.notification = styles.err.Render(err.Error())
			return m, nil
		}
		m.view = FileListView
		m.notification = ""
		return m, m.fetchFiles()

	case key.Matches(msg, m.keys.up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.down):
		if m.cursor < m.store.RowCount()-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.pending):
		return m, m.setStatus(models.NotCompleted)
	case key.Matches(msg, m.keys.inProgress):
		return m, m.setStatus(models.InProgress)
	case key.Matches(msg, m.keys.done):
		return m, m.setStatus(models.Completed)

	case key.Matches(msg, m.keys.cycle):
		row, err := m.store.Row(m.cursor)
		if err != nil {
			return m, nil
		}
		next := models.Status((int(row.Status) + 1) % 3)
		return m, m.setStatus(next)

	case key.Matches(msg, m.keys.save):
		return m, m.save()

	case key.Matches(msg, m.keys.export):
		return m, m.export()
	}

	return m, nil
}

func (m *Model) fetchFiles() tea.Cmd {
	return func() tea.Msg {
		files, err := m.api.FileList(m.ctx)
		return filesFetchedMsg{files: files, err: err}
	}
}

func (m *Model) openFile(filename string) tea.Cmd {
	return func() tea.Msg {
		err := m.engine.OpenDocument(m.ctx, filename)
		return fileOpenedMsg{filename: filename, err: err}
	}
}

func (m *Model) setStatus(status models.Status) tea.Cmd {
	if _, err := m.engine.SetStatus(m.cursor, status); err != nil {
		m.notification = styles.err.Render(err.Error())
	}
	return nil
}

func (m *Model) save() tea.Cmd {
	filename := m.store.Filename()
	return func() tea.Msg {
		result, err := m.engine.Save(m.ctx, filename, "")
		if err != nil {
			return savedMsg{err: err}
		}
		return savedMsg{message: result.Message}
	}
}

func (m *Model) export() tea.Cmd {
	filename := m.store.Filename()
	rows := m.store.Rows()
	return func() tea.Msg {
		path, err := formatter.WriteCSVExport(filename, rows, "")
		return exportedMsg{path: path, err: err}
	}
}

// waitForNotice blocks on the engine's notice channel and resolves to a
// message; Update re-arms it after every delivery.
func (m *Model) waitForNotice() tea.Cmd {
	return func() tea.Msg {
		notice, ok := <-m.notices
		if !ok {
			return nil
		}
		return noticeMsg(notice)
	}
}

func (m *Model) renderFileList() string {
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.enter, m.keys.refresh, m.keys.quit})
	parts := []string{m.fileList.View()}
	if m.notification != "" {
		parts = append(parts, m.notification)
	}
	parts = append(parts, helpView)
	return strings.Join(parts, "\n\n")
}

func (m *Model) renderDocument() string {
	var b strings.Builder

	indicator := styles.ok.Render("●")
	if !m.connected {
		indicator = styles.err.Render("○")
	}
	b.WriteString(styles.title.Render(fmt.Sprintf("%s %s", indicator, m.store.Filename())))
	b.WriteString("\n\n")

	rows := m.store.Rows()
	for i, row := range rows {
		line := fmt.Sprintf("%3d  %-24s %-20s %s",
			i+1,
			row.Name,
			formatter.FormatQuantity(row),
			styles.statusStyle(row.Status).Render(row.Status.Label()),
		)
		if i == m.cursor {
			line = styles.selected.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(formatter.FormatStats(m.store.Counts()))
	b.WriteString("\n")

	if m.notification != "" {
		b.WriteString("\n" + m.notification + "\n")
	}

	helpView := m.help.ShortHelpView([]key.Binding{
		m.keys.cycle, m.keys.pending, m.keys.inProgress, m.keys.done,
		m.keys.save, m.keys.export, m.keys.back, m.keys.quit,
	})
	b.WriteString("\n" + helpView)

	return b.String()
}
