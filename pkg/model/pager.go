// Pager adapted from https://raw.githubusercontent.com/charmbracelet/glow/d0737b41af48960a341e24327d9d5acb5b7d92aa/ui/pager.go
package model

import (
	"fmt"
	"math"
	"strings"

	"github.com/byxorna/shipwright/pkg/site"
	"github.com/byxorna/shipwright/pkg/ui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/truncate"
)

const statusBarHeight = 1

var (
	statusBarBg = ui.NewColorPair("#242424", "#E6E6E6")

	statusBarScrollPosStyle = ui.NewStyle(ui.NewColorPair("#5A5A5A", "#949494"), statusBarBg, false)
	statusBarNoteStyle      = ui.NewStyle(ui.NewColorPair("#7D7D7D", "#656565"), statusBarBg, false)
	statusBarHelpStyle      = ui.NewStyle(ui.NewColorPair("#7D7D7D", "#656565"), ui.NewColorPair("#323232", "#DCDCDC"), false)
	statusBarMessageStyle   = ui.NewStyle(ui.NewColorPair("#89F0CB", "#89F0CB"), ui.NewColorPair("#1C8760", "#1C8760"), false)
)

// UPDATE

func (s *section[T]) openPreview() tea.Cmd {
	if !s.kind.HasPreview() {
		return nil
	}
	item, ok := s.list.Item(s.cursor)
	if !ok {
		return nil
	}
	s.hideStatusMessage()
	s.state = sectionPreviewing
	s.previewID = item.Identifier()
	s.pager.SetContent("")
	s.pager.GotoTop()
	return s.renderPreview()
}

func (s *section[T]) renderPreview() tea.Cmd {
	item, ok := s.previewItem()
	if !ok {
		return nil
	}
	s.rendering = true
	return tea.Batch(renderWithGlamour(s.kind.Name, item.Identifier(), s.kind.Markdown(item), s.pager.Width), s.spin())
}

func (s *section[T]) previewItem() (T, bool) {
	for _, item := range s.list.Items() {
		if item.Identifier() == s.previewID {
			return item, true
		}
	}
	var zero T
	return zero, false
}

func (s *section[T]) handleRendered(msg contentRenderedMsg) tea.Cmd {
	if msg.id != s.previewID {
		return nil
	}
	s.rendering = false
	if msg.err != nil {
		s.err = msg.err
		return s.newStatusMessage(failure("Couldn’t render", msg.err))
	}
	s.pager.SetContent(msg.content)
	return nil
}

func (s *section[T]) handlePreview(msg tea.Msg) tea.Cmd {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "esc", "q", "p":
			s.state = sectionBrowsing
			s.previewID = ""
			s.rendering = false
			s.pager.SetContent("")
			return nil
		case "home", "g":
			s.pager.GotoTop()
			return nil
		case "end", "G":
			s.pager.GotoBottom()
			return nil
		}
	}
	var cmd tea.Cmd
	s.pager, cmd = s.pager.Update(msg)
	return cmd
}

// VIEW

func (s *section[T]) pagerView() string {
	var b strings.Builder
	fmt.Fprint(&b, s.pager.View()+"\n")
	s.statusBarView(&b)
	return b.String()
}

func (s *section[T]) statusBarView(b *strings.Builder) {
	title := ""
	if item, ok := s.previewItem(); ok {
		title = item.Label()
	}
	logo := ui.Logo(" " + s.kind.Title + " ")

	percent := math.Max(0, math.Min(1, s.pager.ScrollPercent()))
	scrollPercent := statusBarScrollPosStyle(fmt.Sprintf(" %3.f%% ", percent*100))
	helpNote := statusBarHelpStyle(" esc back ")

	var indicator string
	if s.rendering {
		indicator = statusBarNoteStyle(" ") + s.spinner.View()
	}

	note := title
	style := statusBarNoteStyle
	if s.showStatusMessage {
		note = s.statusMessage.message
		style = statusBarMessageStyle
	}
	note = truncate.StringWithTail(" "+note+" ", uint(max(0,
		s.common.width-
			ansi.PrintableRuneWidth(logo)-
			ansi.PrintableRuneWidth(indicator)-
			ansi.PrintableRuneWidth(scrollPercent)-
			ansi.PrintableRuneWidth(helpNote),
	)), ellipsis)
	note = style(note)

	padding := max(0,
		s.common.width-
			ansi.PrintableRuneWidth(logo)-
			ansi.PrintableRuneWidth(indicator)-
			ansi.PrintableRuneWidth(note)-
			ansi.PrintableRuneWidth(scrollPercent)-
			ansi.PrintableRuneWidth(helpNote),
	)
	emptySpace := style(strings.Repeat(" ", padding))

	fmt.Fprintf(b, "%s%s%s%s%s%s",
		logo,
		indicator,
		note,
		emptySpace,
		scrollPercent,
		helpNote,
	)
}

// COMMANDS

func renderWithGlamour(key, id, md string, width int) tea.Cmd {
	return func() tea.Msg {
		s, err := glamourRender(md, width)
		return contentRenderedMsg{key: key, id: id, content: s, err: err}
	}
}

// This is where the magic happens.
func glamourRender(markdown string, width int) (string, error) {
	out, err := site.Render(markdown, width)
	if err != nil {
		return "", err
	}

	// trim lines
	lines := strings.Split(out, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	return strings.Join(lines, "\n"), nil
}
