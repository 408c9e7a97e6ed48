// Package ui contains the root application model.
package ui

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tbracken/pantree/internal/config"
	"github.com/tbracken/pantree/internal/keys"
	"github.com/tbracken/pantree/internal/log"
	"github.com/tbracken/pantree/internal/pantry"
	"github.com/tbracken/pantree/internal/pubsub"
	"github.com/tbracken/pantree/internal/ui/logoverlay"
	"github.com/tbracken/pantree/internal/ui/styles"
)

// uiMode tracks which surface owns keyboard input.
type uiMode int

const (
	modeList uiMode = iota
	modeInsert
	modeSearch
)

const (
	focusName = iota
	focusPriority
)

// configChangedMsg signals that the config file on disk was modified.
type configChangedMsg struct{}

// ReloadFunc re-reads the configuration from disk. Injected so the
// model does not depend on viper directly.
type ReloadFunc func() (config.Config, error)

// Options configures the root model.
type Options struct {
	Store      *pantry.Store
	Config     config.Config
	ConfigPath string
	Debug      bool

	// ReloadCh delivers debounced config-change notifications; nil
	// disables auto-reload. Reload is called for each notification.
	ReloadCh <-chan struct{}
	Reload   ReloadFunc
}

// Model is the root application state.
type Model struct {
	store      *pantry.Store
	cfg        config.Config
	configPath string
	keys       keys.KeyMap

	nameInput     textinput.Model
	priorityInput textinput.Model
	searchInput   textinput.Model
	focus         int

	mode      uiMode
	cursor    int
	traversal pantry.TraversalKind
	sketch    bool

	status    string
	statusErr bool

	help   help.Model
	width  int
	height int

	debug        bool
	logOverlay   logoverlay.Model
	logListenCmd tea.Cmd

	storeListener *pubsub.ContinuousListener[pantry.Change]

	reloadCh <-chan struct{}
	reload   ReloadFunc
}

// New creates the root model.
func New(opts Options) Model {
	nameInput := textinput.New()
	nameInput.Placeholder = "item name"
	nameInput.CharLimit = 64
	nameInput.Width = 24

	priorityInput := textinput.New()
	priorityInput.Placeholder = "priority 1-3"
	priorityInput.CharLimit = 1
	priorityInput.Width = 12

	searchInput := textinput.New()
	searchInput.Placeholder = "search by name"
	searchInput.CharLimit = 64
	searchInput.Width = 32

	overlay := logoverlay.New()
	var logListenCmd tea.Cmd
	if opts.Debug {
		logListenCmd = overlay.StartListening()
	}

	return Model{
		store:         opts.Store,
		cfg:           opts.Config,
		configPath:    opts.ConfigPath,
		keys:          keys.DefaultKeyMap(),
		nameInput:     nameInput,
		priorityInput: priorityInput,
		searchInput:   searchInput,
		traversal:     pantry.TraverseInOrder,
		help:          help.New(),
		debug:         opts.Debug,
		logOverlay:    overlay,
		logListenCmd:  logListenCmd,
		storeListener: pubsub.NewContinuousListener(context.Background(), opts.Store.Events()),
		reloadCh:      opts.ReloadCh,
		reload:        opts.Reload,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		textinput.Blink,
		m.storeListener.Listen(),
	}
	if m.reloadCh != nil {
		cmds = append(cmds, waitForReload(m.reloadCh))
	}
	if m.logListenCmd != nil {
		cmds = append(cmds, m.logListenCmd)
	}
	return tea.Batch(cmds...)
}

func waitForReload(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return configChangedMsg{}
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.logOverlay.SetSize(msg.Width, msg.Height)
		return m, nil

	case log.LogEvent:
		var cmd tea.Cmd
		m.logOverlay, cmd = m.logOverlay.Update(msg)
		return m, cmd

	case pubsub.Event[pantry.Change]:
		m.clampCursor()
		return m, m.storeListener.Listen()

	case configChangedMsg:
		m.applyReload()
		return m, waitForReload(m.reloadCh)

	case logoverlay.CloseMsg:
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateInputs(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.debug && key.Matches(msg, m.keys.LogOverlay) {
		m.logOverlay.Toggle()
		return m, nil
	}
	if m.logOverlay.Visible() {
		var cmd tea.Cmd
		m.logOverlay, cmd = m.logOverlay.Update(msg)
		return m, cmd
	}

	// ctrl+c quits from any mode; plain q only outside text entry.
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.mode {
	case modeInsert:
		return m.handleInsertKey(msg)
	case modeSearch:
		return m.handleSearchKey(msg)
	default:
		return m.handleListKey(msg)
	}
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.cursor < m.store.Len()-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.Tab):
		m.mode = modeInsert
		m.focus = focusName
		return m, m.nameInput.Focus()

	case key.Matches(msg, m.keys.Search):
		m.mode = modeSearch
		m.searchInput.Reset()
		return m, m.searchInput.Focus()

	case key.Matches(msg, m.keys.Delete):
		return m.deleteSelected()

	case key.Matches(msg, m.keys.ToggleOrder):
		return m.toggleOrdering()

	case key.Matches(msg, m.keys.CycleTraversal):
		m.traversal = m.traversal.Next()
		m.setStatus(fmt.Sprintf("traversal: %s", m.traversal), false)
		return m, nil

	case key.Matches(msg, m.keys.ToggleSketch):
		m.sketch = !m.sketch
		return m, nil
	}

	return m, nil
}

func (m Model) handleInsertKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.mode = modeList
		m.nameInput.Blur()
		m.priorityInput.Blur()
		return m, nil

	case key.Matches(msg, m.keys.Tab):
		if m.focus == focusName {
			m.focus = focusPriority
			m.nameInput.Blur()
			return m, m.priorityInput.Focus()
		}
		m.focus = focusName
		m.priorityInput.Blur()
		return m, m.nameInput.Focus()

	case key.Matches(msg, m.keys.Enter):
		return m.submitAdd()
	}

	return m.updateInputs(msg)
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.mode = modeList
		m.searchInput.Blur()
		return m, nil

	case key.Matches(msg, m.keys.Enter):
		return m.submitSearch()
	}

	return m.updateInputs(msg)
}

func (m Model) submitAdd() (tea.Model, tea.Cmd) {
	name := m.nameInput.Value()
	item, err := m.store.Add(name, m.priorityInput.Value())
	switch {
	case errors.Is(err, pantry.ErrEmptyName):
		m.setStatus("item name cannot be empty", true)
	case errors.Is(err, pantry.ErrDuplicateName):
		m.setStatus(fmt.Sprintf("%q is already on the list", name), true)
	case err != nil:
		m.setStatus(err.Error(), true)
	default:
		m.setStatus(fmt.Sprintf("added %s (priority %d)", item.Name(), item.Priority()), false)
		m.nameInput.Reset()
		m.priorityInput.Reset()
		m.focus = focusName
		m.priorityInput.Blur()
		return m, m.nameInput.Focus()
	}
	return m, nil
}

func (m Model) submitSearch() (tea.Model, tea.Cmd) {
	query := m.searchInput.Value()
	m.mode = modeList
	m.searchInput.Blur()

	if item, found := m.store.Search(query); found {
		m.setStatus(fmt.Sprintf("%s found (priority %d)", item.Name(), item.Priority()), false)
	} else {
		m.setStatus(fmt.Sprintf("%q not found", query), true)
	}
	return m, nil
}

func (m Model) deleteSelected() (tea.Model, tea.Cmd) {
	items := m.store.Traverse(m.traversal)
	if len(items) == 0 || m.cursor >= len(items) {
		return m, nil
	}

	name := items[m.cursor].Name()
	if m.store.Delete(name) {
		m.setStatus(fmt.Sprintf("deleted %s", name), false)
	}
	m.clampCursor()
	return m, nil
}

func (m Model) toggleOrdering() (tea.Model, tea.Cmd) {
	next := pantry.OrderByPriority
	if m.store.Ordering() == pantry.OrderByPriority {
		next = pantry.OrderByName
	}
	if err := m.store.SetOrdering(next); err != nil {
		m.setStatus(err.Error(), true)
		return m, nil
	}

	if m.configPath != "" {
		if err := config.SaveOrdering(m.configPath, string(next)); err != nil {
			log.ErrorErr(log.CatConfig, "failed to persist ordering", err)
		}
	}
	m.setStatus(fmt.Sprintf("ordering: %s", next), false)
	return m, nil
}

// applyReload re-reads the config and applies the parts that can change
// at runtime: ordering, theme, and UI toggles.
func (m *Model) applyReload() {
	if m.reload == nil {
		return
	}
	cfg, err := m.reload()
	if err != nil {
		log.ErrorErr(log.CatConfig, "config reload failed", err)
		m.setStatus("config reload failed", true)
		return
	}

	m.cfg = cfg
	if err := styles.ApplyTheme(styles.ThemeConfig(cfg.Theme)); err != nil {
		log.ErrorErr(log.CatConfig, "invalid theme in reloaded config", err)
	}

	ord := pantry.Ordering(cfg.Ordering)
	if ord != m.store.Ordering() {
		if err := m.store.SetOrdering(ord); err != nil {
			m.setStatus(fmt.Sprintf("reloaded config has unknown ordering %q", cfg.Ordering), true)
			return
		}
	}

	log.Info(log.CatConfig, "config reloaded", "ordering", cfg.Ordering)
	m.setStatus("config reloaded", false)
}

func (m *Model) updateInputsInPlace(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	m.nameInput, cmd = m.nameInput.Update(msg)
	cmds = append(cmds, cmd)
	m.priorityInput, cmd = m.priorityInput.Update(msg)
	cmds = append(cmds, cmd)
	m.searchInput, cmd = m.searchInput.Update(msg)
	cmds = append(cmds, cmd)

	return tea.Batch(cmds...)
}

func (m Model) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := m.updateInputsInPlace(msg)
	return m, cmd
}

func (m *Model) setStatus(msg string, isErr bool) {
	m.status = msg
	m.statusErr = isErr
}

func (m *Model) clampCursor() {
	if n := m.store.Len(); m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
}
