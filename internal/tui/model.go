package tui

import (
	"errors"
	"os"

	"lol-leaderboard/internal/domain"
	"lol-leaderboard/internal/session"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tui "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/term"
)

var ErrNotTerminal = errors.New("stdout is not a terminal")

// Controller is the session surface the terminal UI drives.
type Controller interface {
	View() session.View
	Subscribe() (<-chan session.View, func())
	SetQueue(queue domain.Queue) error
	SetSearchTerm(term string)
	TriggerManualRefresh()
}

type viewMsg session.View

type closedMsg struct{}

type model struct {
	ctrl  Controller
	views <-chan session.View

	view      session.View
	search    textinput.Model
	searching bool
	spinner   spinner.Model
	help      help.Model

	width  int
	height int
}

func newModel(ctrl Controller, views <-chan session.View) *model {
	search := textinput.New()
	search.Placeholder = "search players"
	search.Prompt = "/ "
	search.CharLimit = 64

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return &model{
		ctrl:    ctrl,
		views:   views,
		view:    ctrl.View(),
		search:  search,
		spinner: sp,
		help:    help.New(),
	}
}

// Run takes over the terminal until the user quits.
func Run(ctrl Controller) error {
	if !term.IsTerminal(os.Stdout.Fd()) {
		return ErrNotTerminal
	}

	views, unsubscribe := ctrl.Subscribe()
	defer unsubscribe()

	_, err := tui.NewProgram(newModel(ctrl, views), tui.WithAltScreen()).Run()
	return err
}

func waitForView(views <-chan session.View) tui.Cmd {
	return func() tui.Msg {
		v, ok := <-views
		if !ok {
			return closedMsg{}
		}
		return viewMsg(v)
	}
}

func (m *model) Init() tui.Cmd {
	return tui.Batch(waitForView(m.views), m.spinner.Tick)
}

func (m *model) Update(msg tui.Msg) (tui.Model, tui.Cmd) {
	switch msg := msg.(type) {
	case viewMsg:
		m.view = session.View(msg)
		return m, waitForView(m.views)
	case closedMsg:
		return m, tui.Quit
	case spinner.TickMsg:
		var cmd tui.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tui.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil
	case tui.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tui.Quit
		case key.Matches(msg, keys.Queue):
			m.selectQueue(otherQueue(m.view.Summary.Queue))
		case key.Matches(msg, keys.Solo):
			m.selectQueue(domain.QueueSolo)
		case key.Matches(msg, keys.Flex):
			m.selectQueue(domain.QueueFlex)
		case key.Matches(msg, keys.Refresh):
			if !m.view.Refreshing {
				m.ctrl.TriggerManualRefresh()
			}
		case key.Matches(msg, keys.Search):
			m.searching = true
			return m, m.search.Focus()
		case key.Matches(msg, keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
	}
	return m, nil
}

func (m *model) updateSearch(msg tui.KeyMsg) (tui.Model, tui.Cmd) {
	if key.Matches(msg, keys.Done) {
		m.searching = false
		m.search.Blur()
		return m, nil
	}
	if msg.String() == "ctrl+c" {
		return m, tui.Quit
	}

	before := m.search.Value()
	var cmd tui.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() != before {
		m.ctrl.SetSearchTerm(m.search.Value())
	}
	return m, cmd
}

func (m *model) selectQueue(queue domain.Queue) {
	if err := m.ctrl.SetQueue(queue); err != nil {
		m.view.Notice = &domain.Notice{Kind: domain.BannerError, Message: err.Error()}
	}
}

func otherQueue(q domain.Queue) domain.Queue {
	if q == domain.QueueFlex {
		return domain.QueueSolo
	}
	return domain.QueueFlex
}
