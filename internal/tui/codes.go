package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/s0lar1s/kolichka/pkg/client"
)

// codesLoadedMsg carries one page of promo codes.
type codesLoadedMsg struct {
	page *client.PromoCodePage
	err  error
}

type codeCopiedMsg struct{ err error }

type codesModel struct {
	client    *client.Client
	page      *client.PromoCodePage
	pageNum   int
	cursor    int
	loading   bool
	err       error
	statusMsg string
	width     int
	height    int
}

func newCodesModel(c *client.Client) codesModel {
	return codesModel{client: c, pageNum: 1, loading: true}
}

func (m codesModel) load() tea.Cmd {
	c := m.client
	page := m.pageNum
	return func() tea.Msg {
		res, err := c.PromoCodes(context.Background(), page, pageSize, "")
		return codesLoadedMsg{page: res, err: err}
	}
}

func (m codesModel) Init() tea.Cmd {
	return m.load()
}

func (m codesModel) Update(msg tea.Msg) (codesModel, tea.Cmd) {
	switch msg := msg.(type) {
	case codesLoadedMsg:
		m.loading = false
		m.page = msg.page
		m.err = msg.err
		if m.page != nil && m.cursor >= len(m.page.Data) {
			m.cursor = 0
		}
		return m, nil

	case codeCopiedMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("copy failed: %v", msg.err)
		} else {
			m.statusMsg = "copied!"
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
			if m.page != nil && m.cursor < len(m.page.Data)-1 {
				m.cursor++
			}
		case "k", "up":
			if m.cursor > 0 {
				m.cursor--
			}
		case "n", "right":
			if m.page != nil && m.pageNum < m.page.Meta.TotalPages {
				m.pageNum++
				m.cursor = 0
				m.loading = true
				return m, m.load()
			}
		case "p", "left":
			if m.pageNum > 1 {
				m.pageNum--
				m.cursor = 0
				m.loading = true
				return m, m.load()
			}
		case "c", "enter":
			if m.page != nil && m.cursor < len(m.page.Data) {
				code := m.page.Data[m.cursor].Code
				return m, func() tea.Msg {
					return codeCopiedMsg{err: clipboard.WriteAll(code)}
				}
			}
		case "r":
			m.loading = true
			return m, m.load()
		}
	}
	return m, nil
}

func (m codesModel) View() string {
	var b strings.Builder

	if m.loading {
		b.WriteString(" " + dimStyle.Render("loading..."))
		return b.String()
	}
	if m.err != nil {
		b.WriteString(" " + errStyle.Render(fmt.Sprintf("error: %v", m.err)) + "\n")
		b.WriteString(" " + dimStyle.Render("r to retry"))
		return b.String()
	}
	if m.page == nil || len(m.page.Data) == 0 {
		b.WriteString(" " + dimStyle.Render("no promo codes right now"))
		return b.String()
	}

	header := " " + metaStyle.Render("PROMO CODES")
	if m.page.Meta.TotalPages > 1 {
		header += "  " + metaStyle.Render(fmt.Sprintf("page %d/%d", m.page.Meta.Page, m.page.Meta.TotalPages))
	}
	b.WriteString(header + "\n")

	if m.statusMsg != "" {
		b.WriteString(" " + okStyle.Render(m.statusMsg) + "\n")
	}

	for i, pc := range m.page.Data {
		cursor := "  "
		titleStyle := dimStyle
		if i == m.cursor {
			cursor = accentStyle.Render("▸") + " "
			titleStyle = normalStyle.Bold(true)
		}

		titleWidth := m.width - 30
		if titleWidth < 16 {
			titleWidth = 16
		}
		title := fmt.Sprintf("%-*s", titleWidth, truncStr(pc.Title, titleWidth))

		line := cursor + titleStyle.Render(title) + " " + codeStyle.Render(pc.Code)
		if pc.ValidTo != nil {
			line += "  " + metaStyle.Render(formatValidity(nil, pc.ValidTo))
		}
		b.WriteString(line + "\n")
	}

	// Description of the selected code
	if m.cursor < len(m.page.Data) && m.page.Data[m.cursor].Description != "" {
		b.WriteString("\n " + metaStyle.Render(truncStr(m.page.Data[m.cursor].Description, m.width-2)) + "\n")
	}

	return truncateToHeight(b.String(), m.height)
}
