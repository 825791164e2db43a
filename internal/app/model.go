package app

import (
	"context"
	"log/slog"
	"maps"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/marcus/notehub/internal/config"
	"github.com/marcus/notehub/internal/keymap"
	"github.com/marcus/notehub/internal/modal"
	"github.com/marcus/notehub/internal/noteform"
	"github.com/marcus/notehub/internal/notehub"
	"github.com/marcus/notehub/internal/notelist"
	"github.com/marcus/notehub/internal/querycache"
	"github.com/marcus/notehub/internal/search"
	"github.com/marcus/notehub/internal/styles"
)

// Toast texts.
const (
	toastCreated      = "Note has been successfully created!"
	toastCreateFailed = "Error occured while creating note!"
	toastDeleted      = "Note has been successfully deleted!"
	toastDeleteFailed = "Error occured while deleting note!"
	toastCopied       = "Copied note to clipboard"
	toastReloaded     = "Config reloaded"
	toastReloadFailed = "Config reload failed"
)

// Layout rows above the list.
const (
	headerHeight = 1
	searchHeight = 1
	footerHeight = 1
)

// NoteService is the part of the NoteHub client the app drives.
type NoteService interface {
	List(ctx context.Context, p notehub.ListParams) (notehub.Page, error)
	Create(ctx context.Context, p notehub.CreateParams) (notehub.Note, error)
	Delete(ctx context.Context, id string) (notehub.Note, error)
}

// Options configures New. Only Service is required.
type Options struct {
	Service NoteService
	Config  *config.Config
	Logger  *slog.Logger
	Keymap  *keymap.Registry

	// Clipboard writes yanked note content. Defaults to the system clipboard.
	Clipboard func(string) error
	// SavePreview persists the preview toggle. Defaults to config.SavePreview.
	SavePreview func(bool) error

	// ConfigChanges signals edits to the config file; ReloadConfig reads it
	// again. Theme and keymap overrides are applied live. Both or neither.
	ConfigChanges <-chan struct{}
	ReloadConfig  func() (*config.Config, error)
}

// toast is the footer message currently showing.
type toast struct {
	id      int
	message string
	isError bool
}

// Model is the root Bubble Tea model for the notes client.
type Model struct {
	// Configuration
	cfg    *config.Config
	logger *slog.Logger

	// Data
	service NoteService
	cache   *querycache.Cache
	query   *querycache.Query
	search  *search.Controller

	ctx    context.Context
	cancel context.CancelFunc

	// Keymap
	keymap *keymap.Registry

	// UI state
	width, height int
	ready         bool
	list          *notelist.View
	host          *modal.Host
	form          *noteform.Form
	help          *modal.Modal
	searchInput   textinput.Model
	searchFocused bool
	spinner       spinner.Model
	spinning      bool
	deleting      map[string]bool
	// removed holds notes deleted on the server whose rows stay marked
	// until the next list result lands.
	removed map[string]bool

	// Status/toast messages
	toast   toast
	toastID int

	copyText    func(string) error
	savePreview func(bool) error

	configChanges <-chan struct{}
	reloadConfig  func() (*config.Config, error)
	ownKeymap     bool

	initCmd tea.Cmd
}

// New creates the model and issues the first list query.
func New(opts Options) Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	km := opts.Keymap
	if km == nil {
		km = newKeymap(cfg.Keymap.Overrides)
	}
	copyText := opts.Clipboard
	if copyText == nil {
		copyText = clipboard.WriteAll
	}
	savePreview := opts.SavePreview
	if savePreview == nil {
		savePreview = config.SavePreview
	}

	svc := opts.Service
	perPage := cfg.API.PerPage
	fetch := func(ctx context.Context, key querycache.Key) (notehub.Page, error) {
		return svc.List(ctx, notehub.ListParams{
			Search:  key.Search,
			Page:    key.Page,
			PerPage: perPage,
		})
	}
	cache := querycache.New(fetch,
		querycache.WithRetry(uint(cfg.Cache.Retries), cfg.Cache.RetryDelay),
		querycache.WithStaleTime(cfg.Cache.StaleTime),
		querycache.WithLogger(logger),
	)

	list := notelist.New(logger)
	list.SetPreview(cfg.UI.ShowPreview)

	ti := textinput.New()
	ti.Placeholder = "Search notes"
	ti.Prompt = ""

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.ListCursor

	ctx, cancel := context.WithCancel(context.Background())

	m := Model{
		cfg:         cfg,
		logger:      logger,
		service:     svc,
		cache:       cache,
		query:       querycache.NewQuery(cache),
		search:      search.New(cfg.Search.Debounce),
		ctx:         ctx,
		cancel:      cancel,
		keymap:      km,
		list:        list,
		host:        modal.NewHost(list),
		searchInput: ti,
		spinner:     sp,
		deleting:    make(map[string]bool),
		removed:     make(map[string]bool),
		copyText:    copyText,
		savePreview: savePreview,

		configChanges: opts.ConfigChanges,
		reloadConfig:  opts.ReloadConfig,
		ownKeymap:     opts.Keymap == nil,
	}
	m.initCmd = m.switchQuery()
	return m
}

// Init starts the first fetch.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.initCmd, m.waitForConfigChange())
}

func newKeymap(overrides map[string]string) *keymap.Registry {
	km := keymap.NewRegistry()
	keymap.RegisterDefaults(km)
	for key, cmdID := range overrides {
		km.SetUserOverride(key, cmdID)
	}
	return km
}

// applyConfig takes the live-reloadable parts of a freshly loaded config
// and reports whether any of them changed. API and cache settings still
// need a restart.
func (m *Model) applyConfig(cfg *config.Config) bool {
	theme := cfg.UI.Theme
	changed := theme.Name != m.cfg.UI.Theme.Name ||
		!maps.Equal(theme.Overrides, m.cfg.UI.Theme.Overrides) ||
		(m.ownKeymap && !maps.Equal(cfg.Keymap.Overrides, m.cfg.Keymap.Overrides))
	if !changed {
		return false
	}
	if err := styles.ApplyThemeWithOverrides(theme.Name, theme.Overrides); err != nil {
		m.logger.Warn("ignoring theme overrides", "err", err)
	}
	m.cfg.UI.Theme = theme
	m.spinner.Style = styles.ListCursor
	if m.ownKeymap {
		m.cfg.Keymap = cfg.Keymap
		m.keymap = newKeymap(cfg.Keymap.Overrides)
	}
	return true
}

// switchQuery points the query at the controller's key and returns the
// fetch to run, if one is needed.
func (m *Model) switchQuery() tea.Cmd {
	t, need := m.query.Switch(m.search.Key())
	m.syncList()
	if !need {
		return nil
	}
	return tea.Batch(m.fetchCmd(t), m.startSpinner())
}

// invalidate drops cached pages after a mutation and refetches the current one.
func (m *Model) invalidate() tea.Cmd {
	m.cache.InvalidateAll()
	t, ok := m.query.Refetch()
	if !ok {
		return nil
	}
	m.syncList()
	return tea.Batch(m.fetchCmd(t), m.startSpinner())
}

// syncList copies the query's state into the list view.
func (m *Model) syncList() {
	if m.query.HasData() {
		m.list.SetPage(m.query.Page(), m.query.Key().Page)
	}
	m.list.SetState(notelist.State{
		Loading: !m.query.HasData() && m.query.Err() == nil,
		Err:     m.query.Err(),
		Spinner: m.spinner.View(),
	})
}

// busy reports whether anything is waiting on the network.
func (m *Model) busy() bool {
	return m.query.IsFetching() || len(m.deleting) > 0 || (m.form != nil && m.form.Submitting())
}

func (m *Model) startSpinner() tea.Cmd {
	if m.spinning {
		return nil
	}
	m.spinning = true
	return m.spinner.Tick
}

// layout sizes the list to the space between the search bar and the footer.
func (m *Model) layout() {
	top := headerHeight + searchHeight
	m.list.SetSize(m.width, max(0, m.height-top-footerHeight))
	m.list.SetOrigin(0, top)
	m.searchInput.Width = max(10, m.width-12)
}

// syncModal forgets modals the host has closed.
func (m *Model) syncModal() {
	if m.host.IsOpen() {
		return
	}
	m.form = nil
	m.help = nil
}

// quit closes any modal so its scroll lock is released, then stops in-flight
// requests.
func (m *Model) quit() tea.Cmd {
	m.host.Close()
	m.syncModal()
	m.cancel()
	return tea.Quit
}
