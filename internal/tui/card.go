package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/s0lar1s/kolichka/internal/cards"
	"github.com/s0lar1s/kolichka/pkg/domain"
)

type cardState int

const (
	cardViewing cardState = iota
	cardScanning
	cardEntering
	cardConfirmRemove
	cardVirtualForm
)

type virtualField int

const (
	vfFirstName virtualField = iota
	vfMiddleName
	vfLastName
	vfEGN
	vfPostCode
	vfPhone
	vfEmail
	vfConsent
	numVirtualFields
)

var virtualFieldLabels = [numVirtualFields]string{
	"first name", "middle name", "last name", "EGN",
	"post code", "phone", "email", "consent",
}

// cardRefreshedMsg signals that the manager finished a load or save; the
// model re-reads the card from it.
type cardRefreshedMsg struct {
	err error
}

type cardRemovedMsg struct{ err error }

type cardCopiedMsg struct{ err error }

type virtualAppliedMsg struct {
	ccnum string
	err   error
}

type cardModel struct {
	mgr       *cards.Manager
	card      *domain.ClientCard
	state     cardState
	input     string
	form      [numVirtualFields]string
	consent   bool
	focus     virtualField
	loading   bool
	statusMsg string
	width     int
	height    int
}

func newCardModel(mgr *cards.Manager) cardModel {
	return cardModel{mgr: mgr, loading: true}
}

func (m cardModel) load() tea.Cmd {
	mgr := m.mgr
	return func() tea.Msg {
		return cardRefreshedMsg{err: mgr.Load(context.Background())}
	}
}

func (m cardModel) Init() tea.Cmd {
	return m.load()
}

func (m cardModel) Update(msg tea.Msg) (cardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case cardRefreshedMsg:
		m.loading = false
		m.card = m.mgr.Card()
		if msg.err != nil {
			switch {
			case errors.Is(msg.err, domain.ErrInvalidCardNumber):
				m.statusMsg = "the number must contain at least 6 digits"
			case errors.Is(msg.err, cards.ErrScanIgnored):
				// Duplicate scanner callback, nothing to tell the user.
			default:
				m.statusMsg = fmt.Sprintf("something went wrong: %v", msg.err)
			}
		}
		return m, nil

	case cardRemovedMsg:
		m.card = m.mgr.Card()
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("remove failed: %v", msg.err)
		} else {
			m.statusMsg = "card removed"
		}
		return m, nil

	case cardCopiedMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("copy failed: %v", msg.err)
		} else {
			m.statusMsg = "copied!"
		}
		return m, nil

	case virtualAppliedMsg:
		if msg.err != nil {
			m.statusMsg = msg.err.Error()
			return m, nil
		}
		m.state = cardViewing
		m.form = [numVirtualFields]string{}
		m.consent = false
		m.focus = vfFirstName
		m.statusMsg = "virtual card issued: " + msg.ccnum
		// Attach the freshly issued card right away.
		mgr := m.mgr
		ccnum := msg.ccnum
		return m, func() tea.Msg {
			return cardRefreshedMsg{err: mgr.SaveCard(context.Background(), ccnum)}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		m.statusMsg = ""
		switch m.state {
		case cardScanning, cardEntering:
			return m.updateInput(msg)
		case cardConfirmRemove:
			return m.updateConfirm(msg)
		case cardVirtualForm:
			return m.updateForm(msg)
		}
		return m.updateViewing(msg)
	}
	return m, nil
}

func (m cardModel) updateViewing(msg tea.KeyMsg) (cardModel, tea.Cmd) {
	switch msg.String() {
	case "s":
		// The scan view re-arms the lock: the previous accepted code no
		// longer blocks a new scan gesture.
		m.mgr.RearmScanner()
		m.state = cardScanning
		m.input = ""
	case "m":
		m.state = cardEntering
		m.input = ""
	case "c":
		if m.card != nil {
			ccnum := m.card.Ccnum
			return m, func() tea.Msg {
				return cardCopiedMsg{err: clipboard.WriteAll(ccnum)}
			}
		}
	case "x":
		if m.card != nil {
			m.state = cardConfirmRemove
		}
	case "v":
		if _, ccnum := m.mgr.VirtualHint(); ccnum != "" {
			mgr := m.mgr
			return m, func() tea.Msg {
				return cardRefreshedMsg{err: mgr.SaveCard(context.Background(), ccnum)}
			}
		}
	case "f":
		if avail, _ := m.mgr.VirtualHint(); avail {
			m.state = cardVirtualForm
			m.focus = vfFirstName
		}
	case "r":
		m.loading = true
		return m, m.load()
	}
	return m, nil
}

func (m cardModel) updateInput(msg tea.KeyMsg) (cardModel, tea.Cmd) {
	switch msg.String() {
	case "enter":
		raw := m.input
		scanned := m.state == cardScanning
		m.state = cardViewing
		m.input = ""
		mgr := m.mgr
		if scanned {
			return m, func() tea.Msg {
				return cardRefreshedMsg{err: mgr.Scan(context.Background(), raw)}
			}
		}
		ccnum, err := domain.NormalizeCardNumber(raw)
		if err != nil {
			m.statusMsg = "the number must contain at least 6 digits"
			return m, nil
		}
		return m, func() tea.Msg {
			return cardRefreshedMsg{err: mgr.SaveCard(context.Background(), ccnum)}
		}
	case "esc":
		m.state = cardViewing
		m.input = ""
	default:
		m.input = editRune(m.input, msg.String())
	}
	return m, nil
}

func (m cardModel) updateConfirm(msg tea.KeyMsg) (cardModel, tea.Cmd) {
	switch msg.String() {
	case "y":
		m.state = cardViewing
		mgr := m.mgr
		return m, func() tea.Msg {
			return cardRemovedMsg{err: mgr.RemoveCard(context.Background())}
		}
	case "n", "esc":
		m.state = cardViewing
	}
	return m, nil
}

func (m cardModel) updateForm(msg tea.KeyMsg) (cardModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.state = cardViewing
	case "tab", "down":
		m.focus = (m.focus + 1) % numVirtualFields
	case "shift+tab", "up":
		m.focus = (m.focus - 1 + numVirtualFields) % numVirtualFields
	case "ctrl+s":
		return m.submitForm()
	case "enter":
		if m.focus == vfConsent {
			return m.submitForm()
		}
		m.focus = (m.focus + 1) % numVirtualFields
	case " ":
		if m.focus == vfConsent {
			m.consent = !m.consent
			return m, nil
		}
		m.form[m.focus] = editRune(m.form[m.focus], msg.String())
	default:
		if m.focus != vfConsent {
			m.form[m.focus] = editRune(m.form[m.focus], msg.String())
		}
	}
	return m, nil
}

func (m cardModel) submitForm() (cardModel, tea.Cmd) {
	app := domain.VirtualCardApplication{
		FirstName:  m.form[vfFirstName],
		MiddleName: m.form[vfMiddleName],
		LastName:   m.form[vfLastName],
		EGN:        m.form[vfEGN],
		PostCode:   m.form[vfPostCode],
		Phone:      m.form[vfPhone],
		Email:      m.form[vfEmail],
		Consent:    m.consent,
	}
	mgr := m.mgr
	return m, func() tea.Msg {
		ccnum, err := mgr.ApplyVirtual(context.Background(), app)
		return virtualAppliedMsg{ccnum: ccnum, err: err}
	}
}

func (m cardModel) editing() bool {
	return m.state == cardScanning || m.state == cardEntering || m.state == cardVirtualForm
}

func (m cardModel) View() string {
	if m.state == cardVirtualForm {
		return m.viewForm()
	}

	var b strings.Builder
	b.WriteString(" " + metaStyle.Render("CLIENT CARD") + "\n")

	if m.statusMsg != "" {
		b.WriteString(" " + warnStyle.Render(m.statusMsg) + "\n")
	}

	switch m.state {
	case cardScanning:
		b.WriteString(" " + inputPromptStyle.Render("scan: ") + m.input + accentStyle.Render("█") + "\n")
		b.WriteString(" " + dimStyle.Render("paste or type the barcode digits, enter to save") + "\n")
		return b.String()
	case cardEntering:
		b.WriteString(" " + inputPromptStyle.Render("number: ") + m.input + accentStyle.Render("█") + "\n")
		b.WriteString(" " + dimStyle.Render("enter to save, esc to cancel") + "\n")
		return b.String()
	case cardConfirmRemove:
		b.WriteString(" " + errStyle.Render("remove your card? (y/n)") + "\n")
		return b.String()
	}

	if m.loading {
		b.WriteString(" " + dimStyle.Render("loading..."))
		return b.String()
	}

	if m.mgr.Saving() {
		b.WriteString(" " + dimStyle.Render("saving...") + "\n")
	}

	if m.card == nil {
		b.WriteString(" " + dimStyle.Render("no card attached") + "\n\n")
		b.WriteString(" " + helpEntry("s", "scan a card") + "  " + helpEntry("m", "type the number") + "\n")
		if avail, ccnum := m.mgr.VirtualHint(); avail {
			if ccnum != "" {
				b.WriteString("\n " + okStyle.Render("you already have a virtual card "+ccnum) + "  " + helpEntry("v", "add it") + "\n")
			} else {
				b.WriteString("\n " + helpEntry("f", "apply for a virtual card") + "\n")
			}
		}
		return truncateToHeight(b.String(), m.height)
	}

	b.WriteString("\n ")
	b.WriteString(renderBarcode(m.card.Ccnum))
	b.WriteString("\n\n")
	b.WriteString(" " + dimStyle.Render("show this at the register") + "\n")

	return truncateToHeight(b.String(), m.height)
}

func (m cardModel) viewForm() string {
	var b strings.Builder
	b.WriteString(" " + metaStyle.Render("VIRTUAL CARD APPLICATION") + "\n")

	if m.statusMsg != "" {
		b.WriteString(" " + warnStyle.Render(m.statusMsg) + "\n")
	}

	for i := virtualField(0); i < numVirtualFields; i++ {
		cursor := " "
		style := metaStyle
		if i == m.focus {
			cursor = ">"
			style = selectedStyle
		}
		if i == vfConsent {
			mark := dimStyle.Render("[ ]")
			if m.consent {
				mark = okStyle.Render("[x]")
			}
			fmt.Fprintf(&b, "%s %s %s  %s\n",
				cursor, style.Render(virtualFieldLabels[i]+":"), mark,
				dimStyle.Render("(space to toggle) I agree my data to be processed"))
			continue
		}
		value := m.form[i]
		if i == m.focus {
			value += "█"
		}
		fmt.Fprintf(&b, "%s %s %s\n", cursor, style.Render(virtualFieldLabels[i]+":"), value)
	}

	b.WriteString("\n " + helpEntry("tab", "next field") + "  " + helpEntry("ctrl+s", "submit") + "  " + helpEntry("esc", "cancel") + "\n")
	return truncateToHeight(b.String(), m.height)
}
