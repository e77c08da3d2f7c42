package domain

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// localIDPrefix marks ids synthesized on-device. Server ids are numeric, local
// ids are strings; the two id spaces are never mixed in one backing store.
const localIDPrefix = "local_"

// ItemID is a shopping list item id. The server issues numeric ids, offline
// mode issues "local_<timestamp>_<random>" strings; both decode into ItemID.
type ItemID string

// UnmarshalJSON accepts either a JSON number or a JSON string.
func (id *ItemID) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ItemID(s)
		return nil
	}
	*id = ItemID(b)
	return nil
}

// MarshalJSON emits a bare number for server ids so round-trips preserve the
// wire type, and a quoted string for local ids.
func (id ItemID) MarshalJSON() ([]byte, error) {
	if _, err := strconv.ParseInt(string(id), 10, 64); err == nil {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// Num returns the numeric value of a server id, or 0 for local ids.
func (id ItemID) Num() int64 {
	n, _ := strconv.ParseInt(string(id), 10, 64)
	return n
}

// Local reports whether the id was generated on-device.
func (id ItemID) Local() bool {
	return strings.HasPrefix(string(id), localIDPrefix)
}

// ShoppingItem is one entry of the personal shopping list.
type ShoppingItem struct {
	ID          ItemID `json:"id"`
	Title       string `json:"title"`
	IsDone      int    `json:"is_done"`
	SortOrder   int    `json:"sort_order"`
	CreatedAtTS int64  `json:"created_at_ts"`
}

// Done reports whether the item is checked off.
func (it ShoppingItem) Done() bool {
	return it.IsDone != 0
}

// NewLocalItem synthesizes an offline item with a fresh local id.
func NewLocalItem(title string) ShoppingItem {
	now := time.Now()
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return ShoppingItem{
		ID:          ItemID(fmt.Sprintf("%s%d_%s", localIDPrefix, now.UnixMilli(), suffix)),
		Title:       title,
		CreatedAtTS: now.UnixMilli(),
	}
}

// SortItems returns the render order of the list: undone before done, then
// ascending sort_order, then most recently created, then highest id. The sort
// is computed fresh for every render and is never the persisted order.
func SortItems(items []ShoppingItem) []ShoppingItem {
	out := make([]ShoppingItem, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.IsDone != b.IsDone {
			return a.IsDone < b.IsDone
		}
		if a.SortOrder != b.SortOrder {
			return a.SortOrder < b.SortOrder
		}
		if a.CreatedAtTS != b.CreatedAtTS {
			return a.CreatedAtTS > b.CreatedAtTS
		}
		return a.ID.Num() > b.ID.Num()
	})
	return out
}
