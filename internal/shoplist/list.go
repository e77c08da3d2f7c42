// Package shoplist keeps the personal shopping list consistent across two
// backing stores: the server (remote mode) and the on-device key-value store
// (local mode). Every mutation is optimistic; a 401/403 from any list call
// demotes the list to local mode for the rest of the session, keeping the
// already-applied change. The demotion is one-way — only a fresh successful
// load while authenticated brings the list back to remote mode.
package shoplist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/s0lar1s/kolichka/internal/session"
	"github.com/s0lar1s/kolichka/internal/store"
	"github.com/s0lar1s/kolichka/pkg/client"
	"github.com/s0lar1s/kolichka/pkg/domain"
)

// Mode tags the backing store of the list.
type Mode int

const (
	// ModeRemote means the list lives on the server.
	ModeRemote Mode = iota
	// ModeLocal means the list lives in the on-device store.
	ModeLocal
)

func (m Mode) String() string {
	if m == ModeLocal {
		return "local"
	}
	return "remote"
}

// ErrEmptyTitle rejects create and rename calls with a blank title before any
// network call is made.
var ErrEmptyTitle = errors.New("title must not be empty")

// List is the shopping list repository. Calling code never branches on the
// mode itself: every operation carries its own fallback behavior.
type List struct {
	api      *client.Client
	sessions *session.Store
	kv       *store.KV
	log      zerolog.Logger

	mu    sync.Mutex
	items []domain.ShoppingItem
	local bool
}

// New creates the list repository.
func New(api *client.Client, sessions *session.Store, kv *store.KV, log zerolog.Logger) *List {
	return &List{api: api, sessions: sessions, kv: kv, log: log}
}

// Mode returns the current backing store tag.
func (l *List) Mode() Mode {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.local {
		return ModeLocal
	}
	return ModeRemote
}

// Items returns the list in render order. The sort is computed fresh on every
// call and is never the persisted order.
func (l *List) Items() []domain.ShoppingItem {
	l.mu.Lock()
	defer l.mu.Unlock()
	return domain.SortItems(l.items)
}

// Load replaces the in-memory list from the current backing store. The mode
// flag is re-evaluated here: with no access token the list loads locally;
// with one, a successful fetch returns the list to remote mode, a 401/403
// demotes it to local, and any other failure leaves the prior state untouched.
func (l *List) Load(ctx context.Context) error {
	if l.sessions.AccessToken() == "" {
		l.mu.Lock()
		l.local = true
		l.items = l.readLocal()
		l.mu.Unlock()
		return nil
	}

	items, err := l.api.ShoppingList(ctx)
	switch {
	case err == nil:
		l.mu.Lock()
		l.local = false
		l.items = items
		l.mu.Unlock()
		return nil
	case client.IsUnauthorized(err):
		l.demote("load")
		return nil
	default:
		return fmt.Errorf("shoplist.Load: %w", err)
	}
}

// Create adds a new item at the top of the list.
func (l *List) Create(ctx context.Context, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return ErrEmptyTitle
	}

	if l.offline() {
		l.mu.Lock()
		l.items = append([]domain.ShoppingItem{domain.NewLocalItem(title)}, l.items...)
		l.persistLocked()
		l.mu.Unlock()
		return nil
	}

	created, err := l.api.CreateShoppingItem(ctx, title)
	switch {
	case err == nil:
		if created.ID == "" {
			// Older servers create without echoing an id; resynchronize.
			return l.Load(ctx)
		}
		l.mu.Lock()
		l.items = append([]domain.ShoppingItem{*created}, l.items...)
		l.mu.Unlock()
		return nil
	case client.IsUnauthorized(err):
		l.mu.Lock()
		l.local = true
		l.items = append([]domain.ShoppingItem{domain.NewLocalItem(title)}, l.items...)
		l.persistLocked()
		l.mu.Unlock()
		l.log.Warn().Str("op", "create").Msg("authorization failed, shopping list went local")
		return nil
	default:
		return fmt.Errorf("shoplist.Create: %w", err)
	}
}

// ToggleDone flips the done state of the item with the given id.
func (l *List) ToggleDone(ctx context.Context, id domain.ItemID) error {
	next, ok := l.nextDone(id)
	if !ok {
		return nil
	}
	return l.mutate(ctx, "toggle",
		func(items []domain.ShoppingItem) []domain.ShoppingItem {
			for i := range items {
				if items[i].ID == id {
					items[i].IsDone = next
				}
			}
			return items
		},
		func(ctx context.Context) error {
			return l.api.ToggleShoppingItem(ctx, id, next)
		})
}

// Update renames the item with the given id.
func (l *List) Update(ctx context.Context, id domain.ItemID, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return ErrEmptyTitle
	}
	return l.mutate(ctx, "update",
		func(items []domain.ShoppingItem) []domain.ShoppingItem {
			for i := range items {
				if items[i].ID == id {
					items[i].Title = title
				}
			}
			return items
		},
		func(ctx context.Context) error {
			return l.api.UpdateShoppingItem(ctx, id, title)
		})
}

// Remove deletes the item with the given id. The yes/no confirmation gate
// lives in the UI.
func (l *List) Remove(ctx context.Context, id domain.ItemID) error {
	return l.mutate(ctx, "remove",
		func(items []domain.ShoppingItem) []domain.ShoppingItem {
			out := items[:0]
			for _, it := range items {
				if it.ID != id {
					out = append(out, it)
				}
			}
			return out
		},
		func(ctx context.Context) error {
			return l.api.DeleteShoppingItem(ctx, id)
		})
}

// mutate is the shared optimistic-mutation path: apply the change in memory,
// then reconcile with the backing store. Local mode persists immediately with
// no call. Remote mode: success keeps the change; a 401/403 keeps the change,
// persists it and demotes to local mode; any other failure restores the
// pre-mutation snapshot and surfaces the error for a generic message.
func (l *List) mutate(ctx context.Context, op string, apply func([]domain.ShoppingItem) []domain.ShoppingItem, commit func(context.Context) error) error {
	l.mu.Lock()
	snapshot := l.items
	l.items = apply(cloneItems(l.items))

	if l.offlineLocked() {
		l.persistLocked()
		l.mu.Unlock()
		return nil
	}
	l.mu.Unlock()

	err := commit(ctx)
	switch {
	case err == nil:
		return nil
	case client.IsUnauthorized(err):
		l.mu.Lock()
		l.local = true
		l.persistLocked()
		l.mu.Unlock()
		l.log.Warn().Str("op", op).Msg("authorization failed, shopping list went local")
		return nil
	default:
		l.mu.Lock()
		l.items = snapshot
		l.mu.Unlock()
		return fmt.Errorf("shoplist.%s: %w", op, err)
	}
}

func (l *List) nextDone(id domain.ItemID) (int, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, it := range l.items {
		if it.ID == id {
			if it.IsDone == 0 {
				return 1, true
			}
			return 0, true
		}
	}
	return 0, false
}

func (l *List) offline() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.offlineLocked()
}

func (l *List) offlineLocked() bool {
	return l.local || l.sessions.AccessToken() == ""
}

// demote switches to local mode and replaces the in-memory list with the
// locally persisted one.
func (l *List) demote(op string) {
	l.mu.Lock()
	l.local = true
	l.items = l.readLocal()
	l.mu.Unlock()
	l.log.Warn().Str("op", op).Msg("authorization failed, shopping list went local")
}

// readLocal reads the persisted offline list. Absent or corrupt blobs load
// as an empty list.
func (l *List) readLocal() []domain.ShoppingItem {
	raw, ok, err := l.kv.Get(store.KeyShoppingList)
	if err != nil || !ok {
		return nil
	}
	var items []domain.ShoppingItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil
	}
	return items
}

// persistLocked writes the whole in-memory list to the offline key. Persist
// failures only degrade durability, so they are logged and swallowed.
func (l *List) persistLocked() {
	items := l.items
	if items == nil {
		items = []domain.ShoppingItem{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		l.log.Error().Err(err).Msg("shopping list marshal failed")
		return
	}
	if err := l.kv.Set(store.KeyShoppingList, string(data)); err != nil {
		l.log.Error().Err(err).Msg("shopping list persist failed")
	}
}

func cloneItems(items []domain.ShoppingItem) []domain.ShoppingItem {
	out := make([]domain.ShoppingItem, len(items))
	copy(out, items)
	return out
}
