package tui

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/s0lar1s/kolichka/internal/browser"
	"github.com/s0lar1s/kolichka/pkg/client"
	"github.com/s0lar1s/kolichka/pkg/domain"
)

type shopsMode int

const (
	shopsModeShops shopsMode = iota
	shopsModeBrochures
)

type shopsLoadedMsg struct {
	shops []domain.Shop
	err   error
}

type brochuresLoadedMsg struct {
	brochures []domain.Brochure
	err       error
}

type openedMsg struct{ err error }

type shopsModel struct {
	client    *client.Client
	mode      shopsMode
	shops     []domain.Shop
	brochures []domain.Brochure
	cursor    int
	loading   bool
	err       error
	statusMsg string
	width     int
	height    int
}

func newShopsModel(c *client.Client) shopsModel {
	return shopsModel{client: c, loading: true}
}

func (m shopsModel) loadShops() tea.Cmd {
	c := m.client
	return func() tea.Msg {
		shops, err := c.Shops(context.Background())
		return shopsLoadedMsg{shops: shops, err: err}
	}
}

func (m shopsModel) loadBrochures() tea.Cmd {
	c := m.client
	return func() tea.Msg {
		brochures, err := c.Brochures(context.Background())
		return brochuresLoadedMsg{brochures: brochures, err: err}
	}
}

func (m shopsModel) loadCurrent() tea.Cmd {
	if m.mode == shopsModeBrochures {
		return m.loadBrochures()
	}
	return m.loadShops()
}

func (m shopsModel) Init() tea.Cmd {
	return m.loadCurrent()
}

func (m shopsModel) Update(msg tea.Msg) (shopsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case shopsLoadedMsg:
		m.loading = false
		m.shops = msg.shops
		m.err = msg.err
		if m.cursor >= len(m.shops) {
			m.cursor = 0
		}
		return m, nil

	case brochuresLoadedMsg:
		m.loading = false
		m.brochures = msg.brochures
		m.err = msg.err
		if m.cursor >= len(m.brochures) {
			m.cursor = 0
		}
		return m, nil

	case openedMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("could not open browser: %v", msg.err)
		} else {
			m.statusMsg = "opened in browser"
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		m.statusMsg = ""
		switch msg.String() {
		case "j", "down":
			if m.cursor < m.listLen()-1 {
				m.cursor++
			}
		case "k", "up":
			if m.cursor > 0 {
				m.cursor--
			}
		case "b":
			if m.mode == shopsModeShops {
				m.mode = shopsModeBrochures
			} else {
				m.mode = shopsModeShops
			}
			m.cursor = 0
			m.loading = true
			return m, m.loadCurrent()
		case "enter":
			return m.open()
		case "r":
			m.loading = true
			return m, m.loadCurrent()
		}
	}
	return m, nil
}

// open hands the selected brochure PDF or shop map link to the OS browser.
func (m shopsModel) open() (shopsModel, tea.Cmd) {
	var target string
	switch {
	case m.mode == shopsModeBrochures && m.cursor < len(m.brochures):
		target = m.brochures[m.cursor].PDFURL
	case m.mode == shopsModeShops && m.cursor < len(m.shops):
		s := m.shops[m.cursor]
		if s.Lat != 0 || s.Lng != 0 {
			target = fmt.Sprintf("https://www.google.com/maps?q=%f,%f", s.Lat, s.Lng)
		} else {
			target = "https://www.google.com/maps/search/" + url.QueryEscape(s.Name+" "+s.Address)
		}
	}
	if target == "" {
		return m, nil
	}
	return m, func() tea.Msg {
		return openedMsg{err: browser.Open(target)}
	}
}

func (m shopsModel) listLen() int {
	if m.mode == shopsModeBrochures {
		return len(m.brochures)
	}
	return len(m.shops)
}

func (m shopsModel) View() string {
	var b strings.Builder

	// Mode toggle: [shops] [brochures]
	b.WriteString(" ")
	if m.mode == shopsModeShops {
		b.WriteString(accentStyle.Render("[shops]") + " " + dimStyle.Render("[brochures]"))
	} else {
		b.WriteString(dimStyle.Render("[shops]") + " " + accentStyle.Render("[brochures]"))
	}
	b.WriteString("  " + helpKeyStyle.Render("b") + "\n")

	if m.statusMsg != "" {
		b.WriteString(" " + okStyle.Render(m.statusMsg) + "\n")
	}

	if m.loading {
		b.WriteString(" " + dimStyle.Render("loading..."))
		return b.String()
	}
	if m.err != nil {
		b.WriteString(" " + errStyle.Render(fmt.Sprintf("error: %v", m.err)) + "\n")
		b.WriteString(" " + dimStyle.Render("r to retry"))
		return b.String()
	}

	if m.mode == shopsModeBrochures {
		return truncateToHeight(b.String()+m.viewBrochures(), m.height)
	}
	return truncateToHeight(b.String()+m.viewShops(), m.height)
}

func (m shopsModel) viewShops() string {
	if len(m.shops) == 0 {
		return " " + dimStyle.Render("no shops found")
	}

	var b strings.Builder
	for i, s := range m.shops {
		cursor := "  "
		nameStyle := dimStyle
		if i == m.cursor {
			cursor = accentStyle.Render("▸") + " "
			nameStyle = normalStyle.Bold(true)
		}
		line := cursor + nameStyle.Render(s.Name)
		if s.City != "" {
			line += "  " + metaStyle.Render(s.City)
		}
		b.WriteString(line + "\n")
	}

	// Detail for the selected shop
	if m.cursor < len(m.shops) {
		s := m.shops[m.cursor]
		b.WriteString("\n")
		if s.Address != "" {
			b.WriteString(" " + normalStyle.Render(s.Address) + "\n")
		}
		if s.Hours != "" {
			b.WriteString(" " + metaStyle.Render("open "+s.Hours) + "\n")
		}
		if s.Phone != "" {
			b.WriteString(" " + metaStyle.Render(s.Phone) + "\n")
		}
		b.WriteString(" " + dimStyle.Render("enter to open on the map") + "\n")
	}
	return b.String()
}

func (m shopsModel) viewBrochures() string {
	if len(m.brochures) == 0 {
		return " " + dimStyle.Render("no brochures right now")
	}

	var b strings.Builder
	for i, br := range m.brochures {
		cursor := "  "
		titleStyle := dimStyle
		if i == m.cursor {
			cursor = accentStyle.Render("▸") + " "
			titleStyle = normalStyle.Bold(true)
		}
		line := cursor + titleStyle.Render(truncStr(br.Title, m.width-20))
		if v := formatValidity(br.ValidFrom, br.ValidTo); v != "" {
			line += "  " + metaStyle.Render(v)
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n " + dimStyle.Render("enter to open the PDF") + "\n")
	return b.String()
}
