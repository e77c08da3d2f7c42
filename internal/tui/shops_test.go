package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/s0lar1s/kolichka/pkg/domain"
)

func TestShopsViewRendersShopDetail(t *testing.T) {
	m := newShopsModel(nil)
	m.width, m.height = 80, 24
	m.loading = false
	m.shops = []domain.Shop{
		{ID: 1, Name: "Kolichka Lozenets", Address: "bul. Cherni Vrah 25", City: "Sofia", Hours: "08:00-22:00"},
		{ID: 2, Name: "Kolichka Mladost", City: "Sofia"},
	}

	v := m.View()
	if !strings.Contains(v, "Kolichka Lozenets") {
		t.Error("shop name not rendered")
	}
	if !strings.Contains(v, "bul. Cherni Vrah 25") {
		t.Error("selected shop address not rendered")
	}
	if !strings.Contains(v, "08:00-22:00") {
		t.Error("opening hours not rendered")
	}
}

func TestShopsToggleToBrochures(t *testing.T) {
	m := newShopsModel(nil)
	m.width, m.height = 80, 24
	m.loading = false

	m, cmd := m.Update(keyMsg("b"))
	if m.mode != shopsModeBrochures {
		t.Fatalf("mode = %d after 'b', want brochures", m.mode)
	}
	if cmd == nil {
		t.Error("expected a load command after mode switch")
	}
	if !m.loading {
		t.Error("loading flag not set")
	}
}

func TestShopsBrochureOpenProducesCommand(t *testing.T) {
	m := newShopsModel(nil)
	m.width, m.height = 80, 24
	m.loading = false
	m.mode = shopsModeBrochures
	m.brochures = []domain.Brochure{{ID: 1, Title: "Weekly offers", PDFURL: "https://example.com/b.pdf"}}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected open command on enter")
	}
	if !strings.Contains(m.View(), "Weekly offers") {
		t.Error("brochure title not rendered")
	}
	if !strings.Contains(m.View(), "open the PDF") {
		t.Error("PDF hint not rendered")
	}
}
