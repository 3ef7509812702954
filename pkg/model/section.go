package model

import (
	"time"

	"github.com/byxorna/shipwright/pkg/draft"
	"github.com/byxorna/shipwright/pkg/entity"
	"github.com/byxorna/shipwright/pkg/listing"
	"github.com/byxorna/shipwright/pkg/remote"
	v1 "github.com/byxorna/shipwright/pkg/types/v1"
	"github.com/byxorna/shipwright/pkg/ui"
	"github.com/byxorna/shipwright/pkg/upload"
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/paginator"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// Section is one admin screen: the list of a collection plus its form,
// upload prompt and preview. Sections are listed on the home screen, so
// they double as list items.
type Section interface {
	Key() string
	Title() string
	Description() string
	FilterValue() string

	Init() tea.Cmd
	Update(tea.Msg) (Section, tea.Cmd)
	View() string
	SetSize(width, height int)

	// Capturing is true while the section wants esc and letter keys for
	// itself, e.g. while a form or search field is focused
	Capturing() bool
	Close()
}

type sectionState int

const (
	sectionBrowsing sectionState = iota
	sectionSearching
	sectionConfirmingDelete
	sectionEditing
	sectionUploading
	sectionPreviewing
	sectionShowingError
)

type section[T v1.Item] struct {
	common *commonModel
	kind   entity.Kind[T]
	keys   keyMap

	list    *listing.Manager[T]
	draft   *draft.Session[T]
	uploads *upload.Session

	state   sectionState
	cursor  int
	pending listing.Confirmation[T]

	spinner     spinner.Model
	ticking     bool
	paginator   paginator.Model
	help        help.Model
	searchInput textinput.Model
	form        formModel
	uploadInput textinput.Model
	picked      string
	pager       viewport.Model
	previewID   string
	rendering   bool

	err                error
	showStatusMessage  bool
	statusMessage      statusMessage
	statusMessageTimer *time.Timer
}

// New builds the section for kind over coll. up may be nil for kinds that
// take no images.
func New[T v1.Item](kind entity.Kind[T], coll remote.Collection[T], up remote.Uploader, opts Options) Section {
	common := newCommon(opts)
	log := common.log.With("section", kind.Name)

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = spinnerStyle

	p := paginator.New()
	p.Type = paginator.Dots
	p.ActiveDot = ui.BrightGrayFg("•")
	p.InactiveDot = ui.DarkGrayFg("•")

	search := newInput(common.opts.Static)
	search.Prompt = "Find: "
	search.PromptStyle = promptStyle
	search.CharLimit = 80

	path := newInput(common.opts.Static)
	path.Prompt = "Image: "
	path.PromptStyle = promptStyle
	path.Placeholder = "~/Pictures/hull.jpg"

	s := &section[T]{
		common:      common,
		kind:        kind,
		keys:        newKeyMap(),
		list:        listing.New[T](coll, common.opts.PageSize, listing.WithLogger[T](log)),
		draft:       draft.NewSession[T](kind.Schema, coll, log),
		spinner:     sp,
		paginator:   p,
		help:        help.New(),
		searchInput: search,
		uploadInput: path,
		pager:       viewport.New(0, 0),
	}
	if up != nil && kind.Schema.ImageField != "" {
		s.uploads = upload.NewSession(up, upload.WithMaxBytes(common.opts.MaxUploadBytes), upload.WithLogger(log))
	}
	return s
}

func newInput(static bool) textinput.Model {
	ti := textinput.New()
	ti.Cursor.Style = cursorStyle
	if static {
		ti.Cursor.SetMode(cursor.CursorStatic)
	}
	return ti
}

func (s *section[T]) Key() string         { return s.kind.Name }
func (s *section[T]) Title() string       { return s.kind.Title }
func (s *section[T]) FilterValue() string { return s.kind.Name + " " + s.kind.Title }

func (s *section[T]) Description() string {
	switch s.list.Status() {
	case listing.Ready:
		return plural(s.list.Total(), "record")
	case listing.Failed:
		return "unavailable"
	}
	return "loading…"
}

func (s *section[T]) Capturing() bool {
	return s.state != sectionBrowsing || s.list.Query().Search != ""
}

func (s *section[T]) Init() tea.Cmd {
	opts := []listing.QueryOption{}
	if len(s.kind.SortKeys) > 0 {
		opts = append(opts, listing.Sort(s.kind.SortKeys[0]))
	}
	return s.fetch(s.list.SetQuery(opts...))
}

func (s *section[T]) SetSize(w, h int) {
	s.common.width = w
	s.common.height = h
	s.help.Width = w
	s.searchInput.Width = w - len(s.searchInput.Prompt) - stashViewHorizontalPadding*2 - 1
	s.uploadInput.Width = w - len(s.uploadInput.Prompt) - stashViewHorizontalPadding*2 - 1
	s.form.setWidth(w)
	s.pager.Width = w
	s.pager.Height = max(0, h-statusBarHeight)
}

// Close stops background work; results still in flight are dropped
func (s *section[T]) Close() {
	s.list.Close()
	s.draft.Cancel()
	if s.uploads != nil {
		s.uploads.Close()
	}
	if s.statusMessageTimer != nil {
		s.statusMessageTimer.Stop()
	}
}

func (s *section[T]) Update(msg tea.Msg) (Section, tea.Cmd) {
	switch msg := msg.(type) {
	case fetchedMsg[T]:
		return s, s.handleFetched(msg.res)
	case removedMsg:
		return s, s.handleRemoved(msg.res)
	case committedMsg[T]:
		return s, s.handleCommitted(msg.res)
	case uploadedMsg:
		return s, s.handleUploaded(msg.res)
	case contentRenderedMsg:
		return s, s.handleRendered(msg)
	case editedMsg:
		return s, s.handleEdited(msg)

	case statusMessageTimeoutMsg:
		s.hideStatusMessage()
		return s, nil

	case spinner.TickMsg:
		if !s.busy() {
			s.ticking = false
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.WindowSizeMsg:
		s.SetSize(msg.Width, msg.Height)
		if s.state == sectionPreviewing {
			return s, s.renderPreview()
		}
		return s, nil
	}

	switch s.state {
	case sectionSearching:
		return s, s.handleSearching(msg)
	case sectionConfirmingDelete:
		return s, s.handleDeleteConfirmation(msg)
	case sectionEditing:
		return s, s.handleForm(msg)
	case sectionUploading:
		return s, s.handleUploadPrompt(msg)
	case sectionPreviewing:
		return s, s.handlePreview(msg)
	case sectionShowingError:
		if _, ok := msg.(tea.KeyMsg); ok {
			s.state = sectionBrowsing
		}
		return s, nil
	}
	return s, s.handleBrowsing(msg)
}

func (s *section[T]) View() string {
	switch s.state {
	case sectionShowingError:
		return errorView(s.err, false)
	case sectionEditing, sectionUploading:
		return s.formView()
	case sectionPreviewing:
		return s.pagerView()
	}
	return s.stashView()
}

func (s *section[T]) busy() bool {
	return s.list.Loading() ||
		s.draft.Saving() ||
		s.rendering ||
		(s.uploads != nil && s.uploads.Busy())
}

// spin starts the spinner unless it is already going
func (s *section[T]) spin() tea.Cmd {
	if s.ticking || s.common.opts.Static || !s.busy() {
		return nil
	}
	s.ticking = true
	return s.spinner.Tick
}

// COMMANDS

func (s *section[T]) fetch(f listing.Fetch[T]) tea.Cmd {
	return tea.Batch(fetchCmd(s.common.ctx, s.kind.Name, f), s.spin())
}

func (s *section[T]) newStatusMessage(sm statusMessage) tea.Cmd {
	s.statusMessage = sm
	s.showStatusMessage = true
	if s.statusMessageTimer != nil {
		s.statusMessageTimer.Stop()
	}
	if s.common.opts.StatusTimeout <= 0 {
		return nil
	}
	s.statusMessageTimer = time.NewTimer(s.common.opts.StatusTimeout)
	return waitForStatusMessageTimeout(s.kind.Name, s.statusMessageTimer)
}

func (s *section[T]) hideStatusMessage() {
	s.showStatusMessage = false
	s.statusMessage = statusMessage{}
	if s.statusMessageTimer != nil {
		s.statusMessageTimer.Stop()
	}
}

// failure turns err into a status line, preferring what the server said
func failure(what string, err error) statusMessage {
	msg := remote.Message(err, err.Error())
	if remote.IsUnauthorized(err) {
		msg = "session expired, log in again"
	}
	return statusMessage{errorStatusMessage, what + ": " + msg}
}
