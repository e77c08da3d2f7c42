// Package cards reconciles the loyalty client card between the API and the
// UI. Saving is pessimistic and serialized: at most one save can be
// outstanding, and a scanned code is consumed at most once, so a rapid-fire
// scanner feed cannot issue duplicate saves for one physical scan gesture.
package cards

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/s0lar1s/kolichka/internal/session"
	"github.com/s0lar1s/kolichka/pkg/client"
	"github.com/s0lar1s/kolichka/pkg/domain"
)

// ErrScanIgnored is returned for scan callbacks that arrive while a save is
// in flight or after a code has already been accepted.
var ErrScanIgnored = errors.New("scan ignored")

// ErrSaveInFlight is returned when a manual save is attempted while another
// save is still outstanding.
var ErrSaveInFlight = errors.New("card save already in flight")

// Manager owns the card state for the card screen.
type Manager struct {
	api      *client.Client
	sessions *session.Store
	log      zerolog.Logger

	mu               sync.Mutex
	card             *domain.ClientCard
	virtualAvailable bool
	virtualCcnum     string
	saving           bool
	consumed         bool // an accepted scan blocks further scans until re-armed
}

// New creates a card manager.
func New(api *client.Client, sessions *session.Store, log zerolog.Logger) *Manager {
	return &Manager{api: api, sessions: sessions, log: log}
}

// Card returns the current card, or nil when none is attached.
func (m *Manager) Card() *domain.ClientCard {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.card == nil {
		return nil
	}
	c := *m.card
	return &c
}

// VirtualHint returns whether a virtual card is available for the account,
// and its number.
func (m *Manager) VirtualHint() (bool, string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.virtualAvailable, m.virtualCcnum
}

// Saving reports whether a save is in flight.
func (m *Manager) Saving() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saving
}

// Load fetches the current card and virtual-card hints and replaces the local
// state. It is silently skipped when there is no authenticated session.
func (m *Manager) Load(ctx context.Context) error {
	if !m.sessions.Current().Authenticated() {
		return nil
	}
	info, err := m.api.ClientCard(ctx)
	if err != nil {
		return fmt.Errorf("cards.Load: %w", err)
	}
	m.mu.Lock()
	m.card = info.Card
	m.virtualAvailable = info.VirtualAvailable
	m.virtualCcnum = info.VirtualCcnum
	m.mu.Unlock()
	return nil
}

// Scan handles one scanner callback. The raw value is normalized first; while
// a save is in flight, or once a code has been accepted, further callbacks
// return ErrScanIgnored without touching the network. On failure the scanner
// is re-armed so the user can retry.
func (m *Manager) Scan(ctx context.Context, raw string) error {
	ccnum, err := domain.NormalizeCardNumber(raw)
	if err != nil {
		return err
	}

	m.mu.Lock()
	if m.saving || m.consumed {
		m.mu.Unlock()
		return ErrScanIgnored
	}
	m.consumed = true
	m.saving = true
	m.mu.Unlock()

	if err := m.save(ctx, ccnum); err != nil {
		m.mu.Lock()
		m.consumed = false
		m.mu.Unlock()
		return err
	}
	return nil
}

// SaveCard saves a manually entered card number. The number must already be
// normalized; ErrSaveInFlight is returned while another save is outstanding.
func (m *Manager) SaveCard(ctx context.Context, ccnum string) error {
	m.mu.Lock()
	if m.saving {
		m.mu.Unlock()
		return ErrSaveInFlight
	}
	m.saving = true
	m.mu.Unlock()

	return m.save(ctx, ccnum)
}

// save runs the remote set-card call; m.saving must be held by the caller.
// It is cleared in a final step regardless of outcome.
func (m *Manager) save(ctx context.Context, ccnum string) error {
	defer func() {
		m.mu.Lock()
		m.saving = false
		m.mu.Unlock()
	}()

	card, err := m.api.SetClientCard(ctx, ccnum)
	if err != nil {
		m.log.Warn().Err(err).Msg("set card failed")
		return fmt.Errorf("cards.save: %w", err)
	}

	m.mu.Lock()
	m.card = card
	m.mu.Unlock()

	// Refresh the virtual-card hints. The save itself already succeeded, so a
	// failed refresh is only logged.
	if err := m.Load(ctx); err != nil {
		m.log.Warn().Err(err).Msg("card refresh after save failed")
	}
	m.log.Info().Msg("card saved")
	return nil
}

// RearmScanner allows the next scan callback through again, e.g. when the
// user re-opens the scan view after a completed save.
func (m *Manager) RearmScanner() {
	m.mu.Lock()
	m.consumed = false
	m.mu.Unlock()
}

// RemoveCard detaches the card. Unlike the shopping list this is pessimistic:
// local state is only cleared after the server confirms, and left untouched
// on failure. The yes/no confirmation gate lives in the UI.
func (m *Manager) RemoveCard(ctx context.Context) error {
	if err := m.api.RemoveClientCard(ctx); err != nil {
		return fmt.Errorf("cards.RemoveCard: %w", err)
	}
	m.mu.Lock()
	m.card = nil
	m.mu.Unlock()
	m.log.Info().Msg("card removed")
	return nil
}

// ApplyVirtual validates and submits a virtual-card application, returning
// the issued card number. The caller decides whether to attach it.
func (m *Manager) ApplyVirtual(ctx context.Context, app domain.VirtualCardApplication) (string, error) {
	if err := app.Validate(); err != nil {
		return "", err
	}
	ccnum, err := m.api.CreateVirtualCard(ctx, app)
	if err != nil {
		return "", fmt.Errorf("cards.ApplyVirtual: %w", err)
	}
	m.log.Info().Msg("virtual card issued")
	return ccnum, nil
}
