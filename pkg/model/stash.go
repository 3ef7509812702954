package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/byxorna/shipwright/pkg/entity"
	"github.com/byxorna/shipwright/pkg/listing"
	"github.com/byxorna/shipwright/pkg/ui"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/paginator"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/truncate"
)

const (
	stashIndent                = 1
	stashViewItemHeight        = 3 // height of stash entry, including gap
	stashViewTopPadding        = 5 // logo, status bar, gaps
	stashViewBottomPadding     = 3 // pagination and gaps, but not help
	stashViewHorizontalPadding = 6
)

// UPDATE

func (s *section[T]) handleFetched(res listing.Fetched[T]) tea.Cmd {
	if !s.list.Apply(res) {
		return nil
	}
	if res.Err != nil {
		s.clampCursor()
		s.updatePagination()
		s.err = res.Err
		return s.newStatusMessage(failure("Couldn’t load "+strings.ToLower(s.kind.Title), res.Err))
	}
	// a delete can empty the last page; follow the records back
	if s.list.Len() == 0 && s.list.Page() > s.list.PageCount() {
		return s.page(s.list.SetPage(s.list.PageCount()))
	}
	s.clampCursor()
	s.updatePagination()
	return nil
}

func (s *section[T]) handleRemoved(res listing.Removed) tea.Cmd {
	cmds := []tea.Cmd{s.fetch(s.list.Settle(res))}
	if res.Err != nil {
		s.err = res.Err
		cmds = append(cmds, s.newStatusMessage(failure("Couldn’t delete", res.Err)))
	} else {
		cmds = append(cmds, s.newStatusMessage(statusMessage{subtleStatusMessage, "Deleted"}))
	}
	return tea.Batch(cmds...)
}

func (s *section[T]) clampCursor() {
	if s.cursor >= s.list.Len() {
		s.cursor = s.list.Len() - 1
	}
	if s.cursor < 0 {
		s.cursor = 0
	}
}

func (s *section[T]) updatePagination() {
	s.paginator.PerPage = s.list.Query().PageSize
	s.paginator.TotalPages = s.list.PageCount()
	s.paginator.Page = s.list.Page() - 1
}

// page issues f when the move went anywhere
func (s *section[T]) page(f listing.Fetch[T], ok bool) tea.Cmd {
	if !ok {
		return nil
	}
	s.cursor = 0
	s.updatePagination()
	return s.fetch(f)
}

func (s *section[T]) handleBrowsing(msg tea.Msg) tea.Cmd {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	k := s.keys

	switch {
	case key.Matches(km, k.Up):
		if s.cursor > 0 {
			s.cursor--
			return nil
		}
		if f, ok := s.list.PrevPage(); ok {
			cmd := s.page(f, ok)
			s.cursor = s.list.Query().PageSize - 1
			return cmd
		}

	case key.Matches(km, k.Down):
		if s.cursor < s.list.Len()-1 {
			s.cursor++
			return nil
		}
		return s.page(s.list.NextPage())

	case key.Matches(km, k.PrevPage):
		return s.page(s.list.PrevPage())

	case key.Matches(km, k.NextPage):
		return s.page(s.list.NextPage())

	case key.Matches(km, k.First):
		return s.page(s.list.SetPage(1))

	case key.Matches(km, k.Last):
		return s.page(s.list.SetPage(s.list.PageCount()))

	case key.Matches(km, k.Search):
		s.hideStatusMessage()
		s.state = sectionSearching
		s.searchInput.SetValue(s.list.Query().Search)
		s.searchInput.CursorEnd()
		return s.searchInput.Focus()

	case key.Matches(km, k.Filter):
		field, choices := s.kind.Filter()
		if field == "" {
			return nil
		}
		next := entity.Cycle(choices, s.list.Query().Filter)
		s.cursor = 0
		return s.fetch(s.list.SetQuery(listing.Filter(next)))

	case key.Matches(km, k.Sort):
		if len(s.kind.SortKeys) < 2 {
			return nil
		}
		next := entity.Cycle(s.kind.SortKeys, s.list.Query().Sort)
		if next == "" {
			next = s.kind.SortKeys[0]
		}
		return s.fetch(s.list.SetQuery(listing.Sort(next)))

	case key.Matches(km, k.Refresh):
		return s.fetch(s.list.Refresh())

	case key.Matches(km, k.New):
		s.draft.OpenCreate()
		return s.openForm()

	case key.Matches(km, k.Edit):
		item, ok := s.list.Item(s.cursor)
		if !ok {
			return nil
		}
		if err := s.draft.OpenEdit(item); err != nil {
			s.err = err
			return s.newStatusMessage(failure("Couldn’t edit", err))
		}
		return s.openForm()

	case key.Matches(km, k.Delete):
		item, ok := s.list.Item(s.cursor)
		if !ok {
			return nil
		}
		if c, ok := s.list.ConfirmRemove(item.Identifier()); ok {
			s.hideStatusMessage()
			s.pending = c
			s.state = sectionConfirmingDelete
		}

	case key.Matches(km, k.Preview):
		return s.openPreview()

	case key.Matches(km, k.Errors):
		if s.err != nil {
			s.state = sectionShowingError
		}

	case key.Matches(km, k.Help):
		s.help.ShowAll = !s.help.ShowAll

	case km.String() == "esc":
		if s.list.Query().Search != "" {
			s.searchInput.Reset()
			s.cursor = 0
			return s.fetch(s.list.SetQuery(listing.Search("")))
		}
	}
	return nil
}

func (s *section[T]) handleDeleteConfirmation(msg tea.Msg) tea.Cmd {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	s.state = sectionBrowsing
	if km.String() != "y" {
		s.pending = listing.Confirmation[T]{}
		return nil
	}

	r, ok := s.list.OptimisticRemove(s.pending)
	s.pending = listing.Confirmation[T]{}
	if !ok {
		return s.newStatusMessage(failure("Couldn’t delete", errors.New("the record is no longer listed")))
	}
	s.clampCursor()
	return tea.Batch(removeCmd(s.common.ctx, s.kind.Name, r), s.spin())
}

// Every keystroke refetches; stale answers are dropped by the list manager
func (s *section[T]) handleSearching(msg tea.Msg) tea.Cmd {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "esc":
			s.state = sectionBrowsing
			s.searchInput.Blur()
			s.searchInput.Reset()
			if s.list.Query().Search == "" {
				return nil
			}
			s.cursor = 0
			return s.fetch(s.list.SetQuery(listing.Search("")))
		case "enter", "tab", "shift+tab", "ctrl+k", "up", "ctrl+p", "down", "ctrl+n":
			s.state = sectionBrowsing
			s.searchInput.Blur()
			return nil
		}
	}

	before := s.searchInput.Value()
	var cmd tea.Cmd
	s.searchInput, cmd = s.searchInput.Update(msg)
	if after := s.searchInput.Value(); after != before {
		s.cursor = 0
		return tea.Batch(cmd, s.fetch(s.list.SetQuery(listing.Search(strings.TrimSpace(after)))))
	}
	return cmd
}

// VIEW

func (s *section[T]) stashView() string {
	loadingIndicator := " "
	if s.busy() {
		loadingIndicator = s.spinner.View()
	}

	var header string
	if s.state == sectionConfirmingDelete {
		header = ui.RedFg(fmt.Sprintf("Delete “%s”? ", s.pending.Item.Label())) + ui.FaintRedFg("(y/N)")
	} else {
		header = s.headerView()
	}

	// Rules for the logo, filter and status message.
	logoOrFilter := " "
	if s.state == sectionSearching {
		logoOrFilter += s.searchInput.View()
	} else {
		logoOrFilter += ui.Logo(" " + s.kind.Title + " ")
		if s.showStatusMessage {
			logoOrFilter += "  " + s.statusMessage.String()
		}
	}
	if s.common.width > 0 {
		logoOrFilter = truncate.StringWithTail(logoOrFilter, uint(s.common.width-1), ellipsis)
	}

	help := s.help.View(s.keys.forState(s.state))
	helpHeight := strings.Count(help, "\n") + 1

	populatedView := s.populatedView()
	populatedViewHeight := strings.Count(populatedView, "\n") + 2

	// Fill any empty height with newlines so the footer reaches the bottom.
	availHeight := s.common.height -
		stashViewTopPadding -
		populatedViewHeight -
		helpHeight -
		stashViewBottomPadding
	blankLines := strings.Repeat("\n", max(0, availHeight))

	var pagination string
	if s.paginator.TotalPages > 1 {
		pagination = s.paginator.View()
		// Too many dots for the window, count instead.
		if ansi.PrintableRuneWidth(pagination) > s.common.width-stashViewHorizontalPadding {
			p := s.paginator
			p.Type = paginator.Arabic
			pagination = ui.SubtleFg(p.View())
		}
	}

	out := fmt.Sprintf(
		"%s%s\n\n  %s\n\n%s\n\n%s  %s\n\n  %s",
		loadingIndicator,
		logoOrFilter,
		header,
		populatedView,
		blankLines,
		pagination,
		help,
	)
	return "\n" + indent(out, stashIndent)
}

func (s *section[T]) headerView() string {
	q := s.list.Query()

	if s.list.Status() == listing.Ready && s.list.Total() == 0 {
		if q.Search != "" || q.Filter != "" {
			return ui.GrayFg("Nothing found.")
		}
		return ui.SubtleFg("No " + strings.ToLower(s.kind.Title) + " yet. Press n to add one.")
	}

	var tabs []string
	tabs = append(tabs, ui.SelectedTabColor(plural(s.list.Total(), "record")))
	if field, _ := s.kind.Filter(); field != "" {
		value := q.Filter
		if value == "" {
			value = "all"
		}
		tabs = append(tabs, ui.TabColor(field+": "+value))
	}
	if q.Sort != "" {
		tabs = append(tabs, ui.TabColor("sort: "+q.Sort))
	}
	if q.Search != "" {
		tabs = append(tabs, ui.TabColor(fmt.Sprintf("“%s”", q.Search)))
	}
	return strings.Join(tabs, dividerBar)
}

func (s *section[T]) populatedView() string {
	var b strings.Builder
	items := s.list.Items()

	if len(items) == 0 {
		switch s.list.Status() {
		case listing.Loading:
			b.WriteString("  " + ui.GrayFg("Loading "+strings.ToLower(s.kind.Title)+"…"))
		case listing.Failed:
			b.WriteString("  " + ui.GrayFg("Couldn’t load this page. Press r to retry, ! for details."))
		}
	}

	for i, item := range items {
		s.itemView(&b, i, item)
		if i != len(items)-1 {
			fmt.Fprintf(&b, "\n\n")
		}
	}

	// Pad out a short page so the footer stays put.
	perPage := s.list.Query().PageSize
	if len(items) < perPage {
		n := (perPage - len(items)) * stashViewItemHeight
		if len(items) == 0 {
			n -= stashViewItemHeight - 1
		}
		b.WriteString(strings.Repeat("\n", max(0, n)))
	}
	return b.String()
}
