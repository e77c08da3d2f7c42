package tui

import (
	"strings"
	"testing"

	"github.com/s0lar1s/kolichka/pkg/domain"
)

func TestHomeViewRendersBannersAndProducts(t *testing.T) {
	m := newHomeModel(nil)
	m.width, m.height = 80, 24
	m.loading = false
	m.banners = []domain.Banner{{ID: 1, Title: "Седмични оферти", Subtitle: "до -40%"}}
	m.products = []domain.Product{
		{ID: 1, Title: "Прясно мляко 3%", Category: "dairy", Price: 2.99, OldPrice: 3.99},
		{ID: 2, Title: "Хляб", Category: "bakery", Price: 1.49},
	}

	v := m.View()
	if !strings.Contains(v, "Седмични оферти") {
		t.Error("banner title not rendered")
	}
	if !strings.Contains(v, "2.99 лв") {
		t.Error("price not rendered")
	}
	if !strings.Contains(v, "3.99 лв") {
		t.Error("old price not rendered")
	}
	if !strings.Contains(v, "-25%") {
		t.Errorf("discount percent not rendered:\n%s", v)
	}
}

func TestHomeBannerSubtitleWidthIsRuneBased(t *testing.T) {
	m := newHomeModel(nil)
	// Title is 12 runes but 23 bytes; at width 40 the subtitle (17 runes)
	// fits only when the padding counts runes.
	m.width, m.height = 40, 24
	m.loading = false
	m.banners = []domain.Banner{{ID: 1, Title: "Прясно мляко", Subtitle: "валидни до неделя"}}

	if !strings.Contains(m.View(), "валидни до неделя") {
		t.Error("subtitle truncated: banner width math must count runes, not bytes")
	}
}

func TestHomeCursorNavigation(t *testing.T) {
	m := newHomeModel(nil)
	m.width, m.height = 80, 24
	m.loading = false
	m.products = []domain.Product{{ID: 1, Title: "A"}, {ID: 2, Title: "B"}}

	m, _ = m.Update(keyMsg("j"))
	if m.cursor != 1 {
		t.Errorf("cursor = %d after j, want 1", m.cursor)
	}
	m, _ = m.Update(keyMsg("j"))
	if m.cursor != 1 {
		t.Errorf("cursor = %d, must clamp at the end", m.cursor)
	}
	m, _ = m.Update(keyMsg("k"))
	if m.cursor != 0 {
		t.Errorf("cursor = %d after k, want 0", m.cursor)
	}
}

func TestHomeEmptyState(t *testing.T) {
	m := newHomeModel(nil)
	m.width, m.height = 80, 24
	m.loading = false
	if !strings.Contains(m.View(), "no offers") {
		t.Error("expected empty-state hint")
	}
}
