package tui

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/s0lar1s/kolichka/pkg/client"
	"github.com/s0lar1s/kolichka/pkg/domain"
)

// homeLoadedMsg carries the home screen content.
type homeLoadedMsg struct {
	banners  []domain.Banner
	products []domain.Product
	err      error
}

type homeModel struct {
	client   *client.Client
	banners  []domain.Banner
	products []domain.Product
	cursor   int
	loading  bool
	err      error
	width    int
	height   int
}

func newHomeModel(c *client.Client) homeModel {
	return homeModel{client: c, loading: true}
}

func (m homeModel) load() tea.Cmd {
	c := m.client
	return func() tea.Msg {
		banners, err := c.Banners(context.Background())
		if err != nil {
			return homeLoadedMsg{err: err}
		}
		products, err := c.HomeProducts(context.Background(), pageSize, "")
		if err != nil {
			return homeLoadedMsg{banners: banners, err: err}
		}
		return homeLoadedMsg{banners: banners, products: products}
	}
}

func (m homeModel) Init() tea.Cmd {
	return m.load()
}

func (m homeModel) Update(msg tea.Msg) (homeModel, tea.Cmd) {
	switch msg := msg.(type) {
	case homeLoadedMsg:
		m.loading = false
		m.banners = msg.banners
		m.products = msg.products
		m.err = msg.err
		if m.cursor >= len(m.products) {
			m.cursor = 0
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "j", "down":
			if m.cursor < len(m.products)-1 {
				m.cursor++
			}
		case "k", "up":
			if m.cursor > 0 {
				m.cursor--
			}
		case "r":
			m.loading = true
			return m, m.load()
		}
	}
	return m, nil
}

func (m homeModel) View() string {
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

	for _, banner := range m.banners {
		line := " " + accentStyle.Render("▌ ") + selectedStyle.Render(banner.Title)
		if banner.Subtitle != "" {
			titleWidth := utf8.RuneCountInString(banner.Title)
			line += "  " + dimStyle.Render(truncStr(banner.Subtitle, m.width-titleWidth-6))
		}
		b.WriteString(line + "\n")
	}
	if len(m.banners) > 0 {
		b.WriteString("\n")
	}

	if len(m.products) == 0 {
		b.WriteString(" " + dimStyle.Render("no offers right now"))
		return b.String()
	}

	b.WriteString(" " + metaStyle.Render("THIS WEEK") + "\n")
	for i, p := range m.products {
		cursor := "  "
		titleStyle := dimStyle
		if i == m.cursor {
			cursor = accentStyle.Render("▸") + " "
			titleStyle = normalStyle.Bold(true)
		}

		price := priceStyle.Render(formatPrice(p.Price))
		if p.OldPrice > p.Price {
			price += " " + oldPriceStyle.Render(formatPrice(p.OldPrice))
			pct := int((1 - p.Price/p.OldPrice) * 100)
			price += " " + discountStyle.Render(fmt.Sprintf("-%d%%", pct))
		}

		titleWidth := m.width - 32
		if titleWidth < 16 {
			titleWidth = 16
		}
		title := fmt.Sprintf("%-*s", titleWidth, truncStr(p.Title, titleWidth))

		line := cursor + CategoryStyle(p.Category).Render("●") + " " + titleStyle.Render(title) + " " + price
		b.WriteString(line + "\n")
	}

	// Description of the selected product
	if m.cursor < len(m.products) && m.products[m.cursor].Description != "" {
		b.WriteString("\n " + metaStyle.Render(truncStr(m.products[m.cursor].Description, m.width-2)) + "\n")
	}

	return truncateToHeight(b.String(), m.height)
}
