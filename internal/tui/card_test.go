package tui

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/s0lar1s/kolichka/internal/cards"
	"github.com/s0lar1s/kolichka/internal/session"
	"github.com/s0lar1s/kolichka/internal/store"
	"github.com/s0lar1s/kolichka/pkg/client"
	"github.com/s0lar1s/kolichka/pkg/domain"
)

func newTestCardModel(t *testing.T) cardModel {
	t.Helper()
	kv, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { kv.Close() }) //nolint:errcheck
	sessions := session.NewStore(kv)
	mgr := cards.New(client.New("http://unreachable.invalid", sessions), sessions, zerolog.Nop())
	m := newCardModel(mgr)
	m.width, m.height = 80, 24
	m.loading = false
	return m
}

func TestCardViewNoCard(t *testing.T) {
	m := newTestCardModel(t)
	v := m.View()
	if !strings.Contains(v, "no card attached") {
		t.Errorf("expected no-card hint, got:\n%s", v)
	}
}

func TestCardScanInput(t *testing.T) {
	m := newTestCardModel(t)
	m, _ = m.Update(keyMsg("s"))
	if m.state != cardScanning {
		t.Fatalf("state = %d after 's', want scanning", m.state)
	}
	for _, r := range "123456" {
		m, _ = m.Update(keyMsg(string(r)))
	}
	if m.input != "123456" {
		t.Errorf("input = %q", m.input)
	}
	if !strings.Contains(m.View(), "scan:") {
		t.Error("scan prompt not rendered")
	}
}

func TestCardManualEntryRejectsShortNumber(t *testing.T) {
	m := newTestCardModel(t)
	m, _ = m.Update(keyMsg("m"))
	for _, r := range "123" {
		m, _ = m.Update(keyMsg(string(r)))
	}
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Fatal("short number must not produce a save command")
	}
	if !strings.Contains(m.View(), "6 digits") {
		t.Error("validation message not rendered")
	}
}

func TestCardBarcodeRendered(t *testing.T) {
	m := newTestCardModel(t)
	m.card = &domain.ClientCard{Ccnum: "12345678"}
	v := m.View()
	if !strings.Contains(v, "1234 5678") {
		t.Errorf("expected grouped digits under the barcode, got:\n%s", v)
	}
	if !strings.Contains(v, "show this at the register") {
		t.Error("register hint not rendered")
	}
}

func TestCardRemoveConfirm(t *testing.T) {
	m := newTestCardModel(t)
	m.card = &domain.ClientCard{Ccnum: "123456"}

	m, _ = m.Update(keyMsg("x"))
	if m.state != cardConfirmRemove {
		t.Fatalf("state = %d after 'x', want confirm", m.state)
	}
	if !strings.Contains(m.View(), "remove your card?") {
		t.Error("confirmation prompt not rendered")
	}

	m, _ = m.Update(keyMsg("n"))
	if m.state != cardViewing || m.card == nil {
		t.Error("cancel must keep the card")
	}
}

func TestCardVirtualFormValidatesBeforeNetwork(t *testing.T) {
	m := newTestCardModel(t)
	m.state = cardVirtualForm

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd == nil {
		t.Fatal("expected submit command")
	}
	// The manager validates before any call, so executing is network-free.
	msg := cmd().(virtualAppliedMsg)
	if msg.err == nil {
		t.Fatal("empty application must fail validation")
	}
	m, _ = m.Update(msg)
	if m.statusMsg == "" {
		t.Error("validation error not surfaced")
	}
}

func TestCardVirtualFormConsentToggle(t *testing.T) {
	m := newTestCardModel(t)
	m.state = cardVirtualForm
	m.focus = vfConsent

	m, _ = m.Update(keyMsg(" "))
	if !m.consent {
		t.Error("space must toggle consent on")
	}
	m, _ = m.Update(keyMsg(" "))
	if m.consent {
		t.Error("space must toggle consent off")
	}
}

func TestCardVirtualFormTabCyclesFields(t *testing.T) {
	m := newTestCardModel(t)
	m.state = cardVirtualForm

	for i := 0; i < int(numVirtualFields); i++ {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	}
	if m.focus != vfFirstName {
		t.Errorf("focus = %d after a full tab cycle, want first field", m.focus)
	}
}
