package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/s0lar1s/kolichka/internal/cards"
	"github.com/s0lar1s/kolichka/internal/session"
	"github.com/s0lar1s/kolichka/internal/shoplist"
	"github.com/s0lar1s/kolichka/pkg/client"
)

type view int

const (
	viewHome view = iota
	viewCodes
	viewShops
	viewList
	viewCard
	viewAccount
)

// Deps bundles everything the TUI needs.
type Deps struct {
	API     *client.Client
	Auth    *session.Manager
	Cards   *cards.Manager
	List    *shoplist.List
	Log     zerolog.Logger
	Version string
}

// App is the root Bubbletea model.
type App struct {
	deps          Deps
	view          view
	home          homeModel
	codes         codesModel
	shops         shopsModel
	list          listModel
	card          cardModel
	auth          authModel
	width         int
	height        int
	frame         int // logo shimmer animation frame
	latestVersion string
}

// NewApp creates the TUI application.
func NewApp(deps Deps) App {
	return App{
		deps:  deps,
		home:  newHomeModel(deps.API),
		codes: newCodesModel(deps.API),
		shops: newShopsModel(deps.API),
		list:  newListModel(deps.List),
		card:  newCardModel(deps.Cards),
		auth:  newAuthModel(deps.Auth),
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(a.home.Init(), a.list.load(), shimmerTickCmd(), checkVersion(a.deps.Version))
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Chrome: header(2) + tabs(1) + help(1) = 4 lines
		bodyMsg := tea.WindowSizeMsg{Width: msg.Width, Height: msg.Height - 4}
		a.home, _ = a.home.Update(bodyMsg)
		a.codes, _ = a.codes.Update(bodyMsg)
		a.shops, _ = a.shops.Update(bodyMsg)
		a.list, _ = a.list.Update(bodyMsg)
		a.card, _ = a.card.Update(bodyMsg)
		a.auth, _ = a.auth.Update(bodyMsg)
		return a, nil

	case shimmerTickMsg:
		a.frame++
		return a, shimmerTickCmd()

	case versionCheckMsg:
		if msg.hasUpdate {
			a.latestVersion = msg.latestVersion
		}
		return a, nil

	case authDoneMsg:
		var cmd tea.Cmd
		a.auth, cmd = a.auth.Update(msg)
		if msg.err == nil && a.deps.Auth.IsAuthenticated() {
			// A fresh session: the card and the list load against it.
			return a, tea.Batch(cmd, a.card.load(), a.list.load())
		}
		return a, cmd

	case tea.KeyMsg:
		if !a.isEditing() {
			switch msg.String() {
			case "q", "ctrl+c":
				return a, tea.Quit
			case "1":
				if a.view != viewHome {
					a.view = viewHome
					return a, a.home.Init()
				}
				return a, nil
			case "2":
				if a.view != viewCodes {
					a.view = viewCodes
					return a, a.codes.Init()
				}
				return a, nil
			case "3":
				if a.view != viewShops {
					a.view = viewShops
					return a, a.shops.Init()
				}
				return a, nil
			case "4":
				if a.view != viewList {
					a.view = viewList
					return a, a.list.Init()
				}
				return a, nil
			case "5":
				if a.view != viewCard {
					a.view = viewCard
					return a, a.card.Init()
				}
				return a, nil
			case "6":
				if a.view != viewAccount {
					a.view = viewAccount
				}
				return a, nil
			}
		}
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.view == viewAccount {
			return a.updateAccount(msg)
		}
	}

	var cmd tea.Cmd
	switch a.view {
	case viewHome:
		a.home, cmd = a.home.Update(msg)
	case viewCodes:
		a.codes, cmd = a.codes.Update(msg)
	case viewShops:
		a.shops, cmd = a.shops.Update(msg)
	case viewList:
		a.list, cmd = a.list.Update(msg)
	case viewCard:
		a.card, cmd = a.card.Update(msg)
	case viewAccount:
		a.auth, cmd = a.auth.Update(msg)
	}
	return a, cmd
}

// updateAccount handles keys on the account tab when signed in; the sign-in
// form otherwise takes them through the normal routing.
func (a App) updateAccount(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !a.deps.Auth.IsAuthenticated() {
		var cmd tea.Cmd
		a.auth, cmd = a.auth.Update(msg)
		return a, cmd
	}
	switch msg.String() {
	case "o":
		if err := a.deps.Auth.Logout(); err != nil {
			a.deps.Log.Error().Err(err).Msg("logout failed")
		}
		// Back to the local list and an empty card.
		return a, tea.Batch(a.list.load(), a.card.load())
	case "esc":
		a.view = viewHome
		return a, a.home.Init()
	}
	return a, nil
}

func (a App) isEditing() bool {
	switch a.view {
	case viewList:
		return a.list.editing()
	case viewCard:
		return a.card.editing()
	case viewAccount:
		return !a.deps.Auth.IsAuthenticated()
	}
	return false
}

func (a App) View() string {
	// Header: centered shimmer logo
	logo := renderShimmerLogo(a.frame)
	logoWidth := lipgloss.Width(logo)
	logoPad := (a.width - logoWidth) / 2
	if logoPad < 0 {
		logoPad = 0
	}
	header := strings.Repeat(" ", logoPad) + logo

	// Status line: identity, offline badge, update hint
	var parts []string
	if user := a.deps.Auth.User(); user != nil {
		parts = append(parts, user.Email)
	} else {
		parts = append(parts, "not signed in")
	}
	if a.deps.List != nil && a.deps.List.Mode() == shoplist.ModeLocal {
		parts = append(parts, localBadgeStyle.Render(" LOCAL LIST "))
	}
	if a.latestVersion != "" {
		parts = append(parts, warnStyle.Render(a.latestVersion+" available — kolichka update"))
	}
	statusLine := metaStyle.Render(strings.Join(parts, " · "))
	statsWidth := lipgloss.Width(statusLine)
	statsPad := (a.width - statsWidth) / 2
	if statsPad < 0 {
		statsPad = 0
	}
	header += "\n" + strings.Repeat(" ", statsPad) + statusLine

	// Tab bar: equal-width columns spread across the terminal
	type tabEntry struct {
		key  string
		name string
		v    view
	}
	tabs := []tabEntry{
		{"1", "Home", viewHome},
		{"2", "Codes", viewCodes},
		{"3", "Shops", viewShops},
		{"4", "List", viewList},
		{"5", "Card", viewCard},
		{"6", "Account", viewAccount},
	}
	colWidth := a.width / len(tabs)
	var tabBar strings.Builder
	for _, t := range tabs {
		var label string
		if t.v == a.view {
			label = accentStyle.Render(t.key) + " " + selectedStyle.Underline(true).Render(t.name)
		} else {
			label = metaStyle.Render(t.key) + " " + dimStyle.Render(t.name)
		}
		labelWidth := lipgloss.Width(label)
		leftPad := (colWidth - labelWidth) / 2
		if leftPad < 0 {
			leftPad = 0
		}
		rightPad := colWidth - labelWidth - leftPad
		if rightPad < 0 {
			rightPad = 0
		}
		tabBar.WriteString(strings.Repeat(" ", leftPad) + label + strings.Repeat(" ", rightPad))
	}

	// Body + per-view help bar
	var body, help string
	switch a.view {
	case viewHome:
		body = a.home.View()
		help = " " + helpEntry("1-6", "tabs") + "  " + helpEntry("j/k", "nav") + "  " + helpEntry("r", "reload") + "  " + helpEntry("q", "quit")
	case viewCodes:
		body = a.codes.View()
		help = " " + helpEntry("1-6", "tabs") + "  " + helpEntry("j/k", "nav") + "  " + helpEntry("n/p", "page") + "  " + helpEntry("c", "copy code") + "  " + helpEntry("q", "quit")
	case viewShops:
		body = a.shops.View()
		help = " " + helpEntry("1-6", "tabs") + "  " + helpEntry("j/k", "nav") + "  " + helpEntry("b", "brochures") + "  " + helpEntry("enter", "open") + "  " + helpEntry("q", "quit")
	case viewList:
		body = a.list.View()
		if a.list.editing() {
			help = " " + helpEntry("enter", "save") + "  " + helpEntry("esc", "cancel")
		} else {
			help = " " + helpEntry("1-6", "tabs") + "  " + helpEntry("a", "add") + "  " + helpEntry("space", "done") + "  " + helpEntry("e", "edit") + "  " + helpEntry("d", "delete") + "  " + helpEntry("q", "quit")
		}
	case viewCard:
		body = a.card.View()
		if a.card.editing() {
			help = " " + helpEntry("enter", "save") + "  " + helpEntry("esc", "cancel")
		} else {
			help = " " + helpEntry("1-6", "tabs") + "  " + helpEntry("s", "scan") + "  " + helpEntry("m", "manual") + "  " + helpEntry("c", "copy") + "  " + helpEntry("x", "remove") + "  " + helpEntry("q", "quit")
		}
	case viewAccount:
		if a.deps.Auth.IsAuthenticated() {
			body = a.viewAccount()
			help = " " + helpEntry("1-6", "tabs") + "  " + helpEntry("o", "sign out") + "  " + helpEntry("q", "quit")
		} else {
			body = a.auth.View()
			help = " " + helpEntry("tab", "next field") + "  " + helpEntry("enter", "submit") + "  " + helpEntry("ctrl+r", "login/register")
		}
	}

	// Chrome around the body: header(2) + tabs(1) + help(1) = 4 lines
	body = strings.TrimRight(truncateToHeight(body, a.height-4), "\n")

	return fmt.Sprintf("%s\n%s\n%s\n%s", header, tabBar.String(), body, help)
}

func (a App) viewAccount() string {
	user := a.deps.Auth.User()
	if user == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(" " + metaStyle.Render("ACCOUNT") + "\n\n")
	if user.Name != "" {
		b.WriteString(" " + selectedStyle.Render(user.Name) + "\n")
	}
	b.WriteString(" " + normalStyle.Render(user.Email) + "\n")
	b.WriteString("\n " + dimStyle.Render("o to sign out") + "\n")
	return b.String()
}
