// Row rendering adapted from https://raw.githubusercontent.com/charmbracelet/glow/master/ui/stashitem.go
package model

import (
	"fmt"
	"strings"

	"github.com/byxorna/shipwright/pkg/text"
	v1 "github.com/byxorna/shipwright/pkg/types/v1"
	"github.com/byxorna/shipwright/pkg/ui"
	"github.com/dustin/go-humanize/english"
	"github.com/muesli/reflow/truncate"
)

const verticalLine = "│"

func statusIcon(item v1.Item) string {
	if st, ok := item.(v1.Stateful); ok {
		return st.State().Icon() + " "
	}
	return ""
}

func caption(item v1.Item) string {
	parts := []string{}
	if st, ok := item.(v1.Stateful); ok && st.State() != "" {
		parts = append(parts, st.State().String())
	}
	if c := item.Caption(); c != "" {
		parts = append(parts, c)
	}
	if ts, ok := item.(v1.Timestamped); ok && !ts.Created().IsZero() {
		parts = append(parts, text.RelativeTime(ts.Created()))
	}
	return strings.Join(parts, " · ")
}

func (s *section[T]) itemView(b *strings.Builder, index int, item T) {
	var (
		gutter string
		icon   = statusIcon(item)
		title  = item.Label()
		desc   = caption(item)
		search = s.list.Query().Search
	)
	if title == "" {
		title = "(untitled)"
	}
	if s.common.width > 0 {
		truncateTo := uint(max(0, s.common.width-stashViewHorizontalPadding*2))
		title = truncate.StringWithTail(title, truncateTo, ellipsis)
		desc = truncate.StringWithTail(desc, truncateTo, ellipsis)
	}

	if index == s.cursor {
		switch s.state {
		case sectionConfirmingDelete:
			gutter = ui.FaintRedFg(verticalLine)
			title = ui.RedFg(title)
			desc = ui.FaintRedFg(desc)
		default:
			gutter = ui.DullFuchsiaFg(verticalLine)
			title = text.StyleFilteredText(title, search, ui.Termenv(ui.Fuchsia))
			desc = ui.ItemLineSecondaryFocused(desc)
		}
	} else {
		gutter = " "
		if s.state == sectionSearching && search == "" {
			title = ui.DimNormalFg(title)
		} else {
			title = text.StyleFilteredText(title, search, ui.Termenv(ui.NewColorPair("#dddddd", "#1a1a1a")))
		}
		desc = ui.ItemLineSecondaryUnfocused(desc)
	}

	fmt.Fprintf(b, "%s %s%s\n", gutter, icon, title)
	fmt.Fprintf(b, "%s %s", gutter, desc)
}

func plural(n int, word string) string {
	return english.Plural(n, word, "")
}
