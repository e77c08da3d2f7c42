package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/s0lar1s/kolichka/internal/shoplist"
	"github.com/s0lar1s/kolichka/pkg/domain"
)

type listState int

const (
	listBrowsing listState = iota
	listAdding
	listEditing
	listDeleting
)

// listRefreshedMsg signals that the repository finished a load or mutation;
// the model re-reads the items from it.
type listRefreshedMsg struct {
	err error
}

type listModel struct {
	repo      *shoplist.List
	items     []domain.ShoppingItem
	cursor    int
	state     listState
	input     string
	editID    domain.ItemID
	loading   bool
	statusMsg string
	width     int
	height    int
}

func newListModel(repo *shoplist.List) listModel {
	return listModel{repo: repo, loading: true}
}

func (m listModel) load() tea.Cmd {
	repo := m.repo
	return func() tea.Msg {
		return listRefreshedMsg{err: repo.Load(context.Background())}
	}
}

func (m listModel) Init() tea.Cmd {
	return m.load()
}

func (m listModel) Update(msg tea.Msg) (listModel, tea.Cmd) {
	switch msg := msg.(type) {
	case listRefreshedMsg:
		m.loading = false
		m.items = m.repo.Items()
		if msg.err != nil {
			if errors.Is(msg.err, shoplist.ErrEmptyTitle) {
				m.statusMsg = "title must not be empty"
			} else {
				m.statusMsg = fmt.Sprintf("something went wrong: %v", msg.err)
			}
		}
		if m.cursor >= len(m.items) {
			m.cursor = 0
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		m.statusMsg = ""
		switch m.state {
		case listAdding, listEditing:
			return m.updateInput(msg)
		case listDeleting:
			return m.updateConfirm(msg)
		}
		return m.updateBrowsing(msg)
	}
	return m, nil
}

func (m listModel) updateBrowsing(msg tea.KeyMsg) (listModel, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "a":
		m.state = listAdding
		m.input = ""
	case "e":
		if m.cursor < len(m.items) {
			m.state = listEditing
			m.editID = m.items[m.cursor].ID
			m.input = m.items[m.cursor].Title
		}
	case "d":
		if m.cursor < len(m.items) {
			m.state = listDeleting
		}
	case " ", "enter":
		if m.cursor < len(m.items) {
			repo := m.repo
			id := m.items[m.cursor].ID
			return m, func() tea.Msg {
				return listRefreshedMsg{err: repo.ToggleDone(context.Background(), id)}
			}
		}
	case "r":
		m.loading = true
		return m, m.load()
	}
	return m, nil
}

func (m listModel) updateInput(msg tea.KeyMsg) (listModel, tea.Cmd) {
	switch msg.String() {
	case "enter":
		title := m.input
		state := m.state
		editID := m.editID
		m.state = listBrowsing
		m.input = ""
		repo := m.repo
		if state == listEditing {
			return m, func() tea.Msg {
				return listRefreshedMsg{err: repo.Update(context.Background(), editID, title)}
			}
		}
		return m, func() tea.Msg {
			return listRefreshedMsg{err: repo.Create(context.Background(), title)}
		}
	case "esc":
		m.state = listBrowsing
		m.input = ""
	default:
		m.input = editRune(m.input, msg.String())
	}
	return m, nil
}

func (m listModel) updateConfirm(msg tea.KeyMsg) (listModel, tea.Cmd) {
	switch msg.String() {
	case "y":
		m.state = listBrowsing
		if m.cursor < len(m.items) {
			repo := m.repo
			id := m.items[m.cursor].ID
			return m, func() tea.Msg {
				return listRefreshedMsg{err: repo.Remove(context.Background(), id)}
			}
		}
	case "n", "esc":
		m.state = listBrowsing
	}
	return m, nil
}

func (m listModel) editing() bool {
	return m.state == listAdding || m.state == listEditing
}

func (m listModel) View() string {
	var b strings.Builder

	header := " " + metaStyle.Render("SHOPPING LIST")
	if m.repo != nil && m.repo.Mode() == shoplist.ModeLocal {
		header += "  " + localBadgeStyle.Render(" LOCAL ") + " " + dimStyle.Render("changes stay on this device")
	}
	b.WriteString(header + "\n")

	if m.statusMsg != "" {
		b.WriteString(" " + warnStyle.Render(m.statusMsg) + "\n")
	}

	switch m.state {
	case listAdding:
		line := " " + inputPromptStyle.Render("add: ") + m.input + accentStyle.Render("█")
		if m.input == "" {
			line += " " + inputPlaceholderStyle.Render("what do you need?")
		}
		b.WriteString(line + "\n")
	case listEditing:
		b.WriteString(" " + inputPromptStyle.Render("edit: ") + m.input + accentStyle.Render("█") + "\n")
	case listDeleting:
		if m.cursor < len(m.items) {
			b.WriteString(" " + errStyle.Render(fmt.Sprintf("delete %q? (y/n)", m.items[m.cursor].Title)) + "\n")
		}
	}

	if m.loading {
		b.WriteString(" " + dimStyle.Render("loading..."))
		return b.String()
	}

	if len(m.items) == 0 {
		b.WriteString(" " + dimStyle.Render("your list is empty — a to add"))
		return b.String()
	}

	for i, it := range m.items {
		cursor := "  "
		if i == m.cursor && m.state != listAdding {
			cursor = accentStyle.Render("▸") + " "
		}

		check := dimStyle.Render("[ ]")
		titleStyle := normalStyle
		if it.Done() {
			check = okStyle.Render("[x]")
			titleStyle = doneStyle
		}

		line := cursor + check + " " + titleStyle.Render(truncStr(it.Title, m.width-8))
		if i == m.cursor && m.state != listAdding {
			b.WriteString(selectedRowBg.Render(line) + "\n")
		} else {
			b.WriteString(line + "\n")
		}
	}

	return truncateToHeight(b.String(), m.height)
}
