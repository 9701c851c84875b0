package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/PRATIKABAJIGANGURDE/tunemigrate/internal/models"
	"github.com/PRATIKABAJIGANGURDE/tunemigrate/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	ReviewView ViewState = iota
	ConfirmView
	CreateView
	ResultView
)

// Model represents the TUI application state for reviewing matches and
// creating the destination playlist.
type Model struct {
	ctx          context.Context
	view         ViewState
	engine       *tasks.ConvertEngine
	songs        []models.Song
	playlistName string

	width  int
	height int

	songList     list.Model
	progressChan chan tasks.ProgressUpdate
	progress     tasks.ProgressUpdate
	result       *models.ConversionResult
	err          error
	help         help.Model
	keys         keyMap
}

type progressUpdateMsg tasks.ProgressUpdate

type createCompleteMsg struct {
	result *models.ConversionResult
	err    error
}

// NewModel creates a new review model over matched songs. The songs slice is
// mutated in place as the user toggles and approves.
func NewModel(ctx context.Context, engine *tasks.ConvertEngine, songs []models.Song, playlistName string) *Model {
	m := &Model{
		ctx:          ctx,
		view:         ReviewView,
		engine:       engine,
		songs:        songs,
		playlistName: playlistName,
		help:         help.New(),
		keys:         newKeyMap(),
	}

	items := make([]list.Item, len(songs))
	for i := range songs {
		items[i] = songItem{song: &songs[i]}
	}
	m.songList = list.New(items, list.NewDefaultDelegate(), 0, 0)
	m.songList.Title = "Review Matches"

	return m
}

// Songs returns the reviewed song slice.
func (m *Model) Songs() []models.Song {
	return m.songs
}

// Result returns the conversion result, nil until creation completes.
func (m *Model) Result() *models.ConversionResult {
	return m.result
}

// Err returns the terminal error, if any.
func (m *Model) Err() error {
	return m.err
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.songList.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case ReviewView:
			return m.handleReviewKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case progressUpdateMsg:
		m.progress = tasks.ProgressUpdate(msg)
		return m, m.waitForProgress()

	case createCompleteMsg:
		m.result = msg.result
		m.err = msg.err
		m.view = ResultView
		m.progressChan = nil
		return m, nil
	}

	return m.updateList(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil && m.view != ResultView {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case ReviewView:
		return m.renderReview()
	case ConfirmView:
		return m.renderConfirm()
	case CreateView:
		return m.renderCreate()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleReviewKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case " ":
		if song := m.selectedSong(); song != nil {
			song.Selected = !song.Selected
		}
		return m, nil
	case "a":
		if song := m.selectedSong(); song != nil {
			m.engine.ApproveMatch(song)
		}
		return m, nil
	case "enter":
		m.view = ConfirmView
		return m, nil
	}

	var cmd tea.Cmd
	m.songList, cmd = m.songList.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "n", "esc":
		m.view = ReviewView
		return m, nil
	case "y":
		m.view = CreateView
		return m, m.startCreate()
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "enter":
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.view != ReviewView {
		return m, nil
	}
	var cmd tea.Cmd
	m.songList, cmd = m.songList.Update(msg)
	return m, cmd
}

func (m *Model) selectedSong() *models.Song {
	item := m.songList.SelectedItem()
	if item == nil {
		return nil
	}
	if si, ok := item.(songItem); ok {
		return si.song
	}
	return nil
}

func (m *Model) startCreate() tea.Cmd {
	m.progressChan = make(chan tasks.ProgressUpdate, 50)
	progressChan := m.progressChan

	go func() {
		result, err := m.engine.CreateFromSongs(m.ctx, m.songs, m.playlistName, "Converted from YouTube", progressChan)
		m.result = result
		m.err = err
		close(progressChan)
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	return func() tea.Msg {
		if m.progressChan == nil {
			return createCompleteMsg{result: m.result, err: m.err}
		}

		update, ok := <-m.progressChan
		if !ok {
			return createCompleteMsg{result: m.result, err: m.err}
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) renderReview() string {
	helpKeys := []key.Binding{m.keys.toggle, m.keys.approve, m.keys.enter, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.songList.View(), helpView)
}

func (m *Model) renderConfirm() string {
	selected, matched := 0, 0
	for i := range m.songs {
		if !m.songs[i].Selected {
			continue
		}
		selected++
		if m.songs[i].Matched() {
			matched++
		}
	}

	title := styles.title.Render(fmt.Sprintf("Create playlist '%s' on Spotify?", m.playlistName))
	info := fmt.Sprintf("\nSelected: %d\nMatched: %d\n", selected, matched)

	helpKeys := []key.Binding{m.keys.yes, m.keys.no, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n%s", title, info, helpView)
}

func (m *Model) renderCreate() string {
	title := styles.title.Render("Creating Playlist")

	var phase string
	switch m.progress.Phase {
	case tasks.ValidateAuth:
		phase = "Validating credentials..."
	case tasks.CreatePlaylist:
		phase = "Creating playlist on Spotify..."
	case tasks.AddTracks:
		phase = "Adding tracks..."
	default:
		phase = "Processing..."
	}

	return fmt.Sprintf("%s\n\n%s\n%s", title, phase, m.progress.Message)
}

func (m *Model) renderResult() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Conversion failed: %v\n\nPress q to quit", m.err))
	}

	if m.result == nil {
		return styles.err.Render("No result available\n\nPress q to quit")
	}

	title := styles.ok.Render("✓ Playlist Created!")
	info := fmt.Sprintf(
		"\nPlaylist: %s\nTracks added: %d/%d\nURL: %s",
		m.playlistName,
		m.result.MatchedCount,
		m.result.TotalCount,
		m.result.PlaylistURL,
	)

	var unmatched string
	missing := 0
	for i := range m.songs {
		if m.songs[i].Selected && !m.songs[i].Matched() {
			missing++
		}
	}
	if missing > 0 {
		unmatched = fmt.Sprintf("\n\n%s", styles.warn.Render(fmt.Sprintf("%d songs had no match and were skipped", missing)))
	}

	helpKeys := []key.Binding{m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s%s\n\n%s", title, info, unmatched, helpView)
}
