package domain

import (
	"encoding/json"
	"regexp"
	"testing"
)

func TestSortItemsUndoneFirst(t *testing.T) {
	items := []ShoppingItem{
		{ID: "1", IsDone: 1, SortOrder: 0},
		{ID: "2", IsDone: 0, SortOrder: 5},
		{ID: "3", IsDone: 0, SortOrder: 1},
	}
	got := SortItems(items)

	want := []ItemID{"3", "2", "1"}
	for i, id := range want {
		if got[i].ID != id {
			t.Fatalf("position %d: got id %q, want %q (order %v)", i, got[i].ID, id, got)
		}
	}
	// Input order untouched — the sort is render-only.
	if items[0].ID != "1" {
		t.Errorf("SortItems mutated its input")
	}
}

func TestSortItemsRecencyAndIDTieBreaks(t *testing.T) {
	items := []ShoppingItem{
		{ID: "10", IsDone: 0, SortOrder: 2, CreatedAtTS: 100},
		{ID: "11", IsDone: 0, SortOrder: 2, CreatedAtTS: 200},
		{ID: "12", IsDone: 0, SortOrder: 2, CreatedAtTS: 200},
	}
	got := SortItems(items)

	want := []ItemID{"12", "11", "10"}
	for i, id := range want {
		if got[i].ID != id {
			t.Fatalf("position %d: got id %q, want %q", i, got[i].ID, id)
		}
	}
}

func TestItemIDUnmarshalNumberAndString(t *testing.T) {
	var it ShoppingItem
	if err := json.Unmarshal([]byte(`{"id": 42, "title": "milk"}`), &it); err != nil {
		t.Fatalf("unmarshal numeric id: %v", err)
	}
	if it.ID != "42" || it.ID.Num() != 42 || it.ID.Local() {
		t.Errorf("numeric id decoded as %q (num=%d, local=%v)", it.ID, it.ID.Num(), it.ID.Local())
	}

	if err := json.Unmarshal([]byte(`{"id": "local_17_ab", "title": "bread"}`), &it); err != nil {
		t.Fatalf("unmarshal string id: %v", err)
	}
	if !it.ID.Local() || it.ID.Num() != 0 {
		t.Errorf("local id decoded as %q (num=%d, local=%v)", it.ID, it.ID.Num(), it.ID.Local())
	}
}

func TestItemIDMarshalPreservesWireType(t *testing.T) {
	data, err := json.Marshal(ShoppingItem{ID: "42", Title: "milk"})
	if err != nil {
		t.Fatal(err)
	}
	if string(data) == "" || !regexp.MustCompile(`"id":42[,}]`).MatchString(string(data)) {
		t.Errorf("server id not marshaled as number: %s", data)
	}

	data, err = json.Marshal(ShoppingItem{ID: "local_17_ab"})
	if err != nil {
		t.Fatal(err)
	}
	if !regexp.MustCompile(`"id":"local_17_ab"`).MatchString(string(data)) {
		t.Errorf("local id not marshaled as string: %s", data)
	}
}

func TestNewLocalItem(t *testing.T) {
	it := NewLocalItem("Мляко")
	if it.Title != "Мляко" {
		t.Errorf("Title = %q", it.Title)
	}
	if it.Done() || it.IsDone != 0 {
		t.Errorf("new item must start undone")
	}
	if !regexp.MustCompile(`^local_\d+_[0-9a-f]{8}$`).MatchString(string(it.ID)) {
		t.Errorf("local id has unexpected shape: %q", it.ID)
	}
	if it.CreatedAtTS == 0 {
		t.Errorf("CreatedAtTS not set")
	}

	other := NewLocalItem("Мляко")
	if other.ID == it.ID {
		t.Errorf("two local items share id %q", it.ID)
	}
}
