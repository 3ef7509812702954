package app

import (
	"github.com/byxorna/shipwright/pkg/model"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// home is the active index while the section list is on screen
const home = -1

type Application struct {
	UseAltScreen bool

	keys     applicationKeyMap
	quitting bool

	sections []model.Section
	active   int
	list     list.Model
}

// Init starts loading every section, so the list can show record counts
// before any of them is opened.
func (m Application) Init() tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(m.sections)+1)
	if m.UseAltScreen {
		cmds = append(cmds, tea.EnterAltScreen)
	}
	for _, s := range m.sections {
		cmds = append(cmds, s.Init())
	}
	return tea.Batch(cmds...)
}

func (m Application) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Results go to the section that asked for them, on screen or not.
	if name, ok := model.Target(msg); ok {
		for i, s := range m.sections {
			if s.Key() == name {
				return m, m.updateSection(i, msg)
			}
		}
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		topGap, rightGap, bottomGap, leftGap := appStyle.GetPadding()
		m.list.SetSize(msg.Width-leftGap-rightGap, msg.Height-topGap-bottomGap)
		for _, s := range m.sections {
			s.SetSize(msg.Width, msg.Height)
		}
		return m, nil

	case spinner.TickMsg:
		// Ticks name no section; every spinner drops the ones that are not its own.
		var cmds []tea.Cmd
		for i := range m.sections {
			cmds = append(cmds, m.updateSection(i, msg))
		}
		return m, tea.Batch(cmds...)

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.ForceQuit) {
			return m.quit()
		}

		if m.active != home {
			if !m.sections[m.active].Capturing() {
				switch {
				case key.Matches(msg, m.keys.Home):
					m.active = home
					return m, nil
				case key.Matches(msg, m.keys.Quit):
					return m.quit()
				}
			}
			return m, m.updateSection(m.active, msg)
		}

		// Don't match any of the keys below if we're actively filtering.
		if m.list.FilterState() == list.Filtering {
			break
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			return m.quit()

		case key.Matches(msg, m.keys.Open):
			item, ok := m.list.SelectedItem().(homeItem)
			if !ok {
				break
			}
			for i, s := range m.sections {
				if s.Key() == item.Key() {
					m.active = i
				}
			}
			var cmd tea.Cmd
			m.list, cmd = m.list.Update(msg)
			return m, cmd

		case key.Matches(msg, m.keys.ToggleTitleBar):
			v := !m.list.ShowTitle()
			m.list.SetShowTitle(v)
			m.list.SetShowFilter(v)
			m.list.SetFilteringEnabled(v)
			return m, nil

		case key.Matches(msg, m.keys.toggleStatusBar):
			m.list.SetShowStatusBar(!m.list.ShowStatusBar())
			return m, nil

		case key.Matches(msg, m.keys.togglePagination):
			m.list.SetShowPagination(!m.list.ShowPagination())
			return m, nil

		case key.Matches(msg, m.keys.toggleHelpMenu):
			m.list.SetShowHelp(!m.list.ShowHelp())
			return m, nil
		}
	}

	if m.active != home {
		return m, m.updateSection(m.active, msg)
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Application) updateSection(i int, msg tea.Msg) tea.Cmd {
	s, cmd := m.sections[i].Update(msg)
	m.sections[i] = s
	return cmd
}

func (m Application) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	for _, s := range m.sections {
		s.Close()
	}
	return m, tea.Quit
}

// Active is the key of the section on screen, "" on the section list
func (m Application) Active() string {
	if m.active == home {
		return ""
	}
	return m.sections[m.active].Key()
}

func (m Application) View() string {
	if m.quitting {
		return "Bye!\n"
	}
	if m.active != home {
		return m.sections[m.active].View()
	}
	return appStyle.Render(m.list.View())
}
