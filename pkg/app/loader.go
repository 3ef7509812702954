package app

import (
	"context"
	"errors"
	"log/slog"

	"github.com/byxorna/shipwright/pkg/config"
	"github.com/byxorna/shipwright/pkg/model"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
)

// FromConfig opens the backend cfg describes and builds the admin over it
func FromConfig(ctx context.Context, cfg *config.Config, log *slog.Logger, useAltScreen bool) (*Application, error) {
	b, err := Open(cfg, log)
	if err != nil {
		return nil, err
	}
	if b.Demo && cfg.Demo.DataFile != "" {
		if err := b.Watch(ctx, cfg.Demo.DataFile); err != nil {
			return nil, err
		}
	}

	opts := model.DefaultOptions()
	opts.Context = ctx
	opts.Logger = log
	opts.PageSize = cfg.PageSize
	opts.MaxUploadBytes = cfg.Upload.MaxBytes

	m, err := New(b, cfg.Sections, opts)
	if err != nil {
		return nil, err
	}
	m.UseAltScreen = useAltScreen
	return m, nil
}

// New builds the admin with one section per name, in the order given
func New(b *Backend, names []string, opts model.Options) (*Application, error) {
	if len(names) == 0 {
		return nil, errors.New("no sections configured")
	}

	m := Application{
		keys:   DefaultKeyMap(),
		active: home,
	}
	for _, name := range names {
		h, err := b.Handle(name)
		if err != nil {
			return nil, err
		}
		m.sections = append(m.sections, h.Section(b.Uploads, opts))
	}

	m.list = list.New(itemsFromSections(m.sections), newSectionDelegate(&sectionListKeys), 0, 0)
	m.list.Title = "Shipwright"
	if b.Demo {
		m.list.Title += " (demo data)"
	}
	m.list.Styles.Title = titleStyle
	// quitting goes through the application so sections get closed
	m.list.KeyMap.Quit.SetEnabled(false)
	m.list.KeyMap.ForceQuit.SetEnabled(false)
	m.list.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{m.keys.Quit, m.keys.ToggleTitleBar, m.keys.toggleStatusBar, m.keys.togglePagination, m.keys.toggleHelpMenu}
	}
	m.list.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{m.keys.Quit}
	}
	return &m, nil
}

func itemsFromSections(sections []model.Section) []list.Item {
	lx := make([]list.Item, len(sections))
	for i := range sections {
		lx[i] = homeItem{sections[i]}
	}
	return lx
}
