package cards

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/s0lar1s/kolichka/internal/session"
	"github.com/s0lar1s/kolichka/internal/store"
	"github.com/s0lar1s/kolichka/pkg/client"
	"github.com/s0lar1s/kolichka/pkg/domain"
)

func newSessions(t *testing.T, authenticated bool) *session.Store {
	t.Helper()
	kv, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { kv.Close() }) //nolint:errcheck

	sessions := session.NewStore(kv)
	if authenticated {
		err := sessions.Replace(domain.Session{
			AccessToken: "tok",
			User:        &domain.User{ID: 1, Email: "ivan@example.com"},
		})
		if err != nil {
			t.Fatal(err)
		}
	}
	return sessions
}

func writeCardInfo(w http.ResponseWriter, ccnum string) {
	json.NewEncoder(w).Encode(client.CardInfo{ //nolint:errcheck
		Card:             &domain.ClientCard{Ccnum: ccnum},
		VirtualAvailable: true,
		VirtualCcnum:     "999000",
	})
}

func TestScanDedupesRapidCallbacks(t *testing.T) {
	// Scenario: a camera feed fires the same barcode many times while the
	// first save is still in flight. Exactly one save call may reach the API.
	var saves int32
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			atomic.AddInt32(&saves, 1)
			<-release
			json.NewEncoder(w).Encode(map[string]any{"card": domain.ClientCard{Ccnum: "1234567890123"}}) //nolint:errcheck
		case http.MethodGet:
			writeCardInfo(w, "1234567890123")
		}
	}))
	defer srv.Close()

	sessions := newSessions(t, true)
	m := New(client.New(srv.URL, sessions), sessions, zerolog.Nop())

	var wg sync.WaitGroup
	wg.Add(1)
	var firstErr error
	go func() {
		defer wg.Done()
		firstErr = m.Scan(context.Background(), "1234567890123")
	}()

	// Wait for the first scan to reach the API.
	for !m.Saving() {
		time.Sleep(time.Millisecond)
	}

	for i := 0; i < 5; i++ {
		if err := m.Scan(context.Background(), "1234567890123"); !errors.Is(err, ErrScanIgnored) {
			t.Errorf("scan %d: error = %v, want ErrScanIgnored", i, err)
		}
	}

	close(release)
	wg.Wait()
	if firstErr != nil {
		t.Fatalf("first scan failed: %v", firstErr)
	}
	if n := atomic.LoadInt32(&saves); n != 1 {
		t.Errorf("saves = %d, want 1", n)
	}
	if card := m.Card(); card == nil || card.Ccnum != "1234567890123" {
		t.Errorf("Card() = %+v", card)
	}
}

func TestScanConsumedUntilRearmed(t *testing.T) {
	var saves int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			atomic.AddInt32(&saves, 1)
			json.NewEncoder(w).Encode(map[string]any{"card": domain.ClientCard{Ccnum: "123456"}}) //nolint:errcheck
			return
		}
		writeCardInfo(w, "123456")
	}))
	defer srv.Close()

	sessions := newSessions(t, true)
	m := New(client.New(srv.URL, sessions), sessions, zerolog.Nop())

	if err := m.Scan(context.Background(), "123456"); err != nil {
		t.Fatalf("Scan() error: %v", err)
	}
	// The accepted code stays consumed after the save completes.
	if err := m.Scan(context.Background(), "123456"); !errors.Is(err, ErrScanIgnored) {
		t.Fatalf("second scan error = %v, want ErrScanIgnored", err)
	}

	m.RearmScanner()
	if err := m.Scan(context.Background(), "654321"); err != nil {
		t.Fatalf("scan after rearm: %v", err)
	}
	if n := atomic.LoadInt32(&saves); n != 2 {
		t.Errorf("saves = %d, want 2", n)
	}
}

func TestScanInvalidInputMakesNoCall(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		t.Error("invalid scan must not reach the network")
	}))
	defer srv.Close()

	sessions := newSessions(t, true)
	m := New(client.New(srv.URL, sessions), sessions, zerolog.Nop())

	if err := m.Scan(context.Background(), "12a3"); !errors.Is(err, domain.ErrInvalidCardNumber) {
		t.Errorf("Scan() error = %v, want ErrInvalidCardNumber", err)
	}
}

func TestScanFailureRearms(t *testing.T) {
	var saves int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			if atomic.AddInt32(&saves, 1) == 1 {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			json.NewEncoder(w).Encode(map[string]any{"card": domain.ClientCard{Ccnum: "123456"}}) //nolint:errcheck
			return
		}
		writeCardInfo(w, "123456")
	}))
	defer srv.Close()

	sessions := newSessions(t, true)
	m := New(client.New(srv.URL, sessions), sessions, zerolog.Nop())

	if err := m.Scan(context.Background(), "123456"); err == nil {
		t.Fatal("expected first scan to fail")
	}
	if m.Saving() {
		t.Error("saving flag not cleared after failure")
	}
	// The failure re-armed the scanner; the retry goes through.
	if err := m.Scan(context.Background(), "123456"); err != nil {
		t.Fatalf("retry scan error: %v", err)
	}
	if n := atomic.LoadInt32(&saves); n != 2 {
		t.Errorf("saves = %d, want 2", n)
	}
}

func TestLoadSkippedWithoutSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		t.Error("unauthenticated load must not reach the network")
	}))
	defer srv.Close()

	sessions := newSessions(t, false)
	m := New(client.New(srv.URL, sessions), sessions, zerolog.Nop())

	if err := m.Load(context.Background()); err != nil {
		t.Errorf("Load() error = %v, want silent skip", err)
	}
	if m.Card() != nil {
		t.Errorf("Card() = %+v, want nil", m.Card())
	}
}

func TestLoadReplacesState(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeCardInfo(w, "777888999")
	}))
	defer srv.Close()

	sessions := newSessions(t, true)
	m := New(client.New(srv.URL, sessions), sessions, zerolog.Nop())

	if err := m.Load(context.Background()); err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if card := m.Card(); card == nil || card.Ccnum != "777888999" {
		t.Errorf("Card() = %+v", card)
	}
	if avail, ccnum := m.VirtualHint(); !avail || ccnum != "999000" {
		t.Errorf("VirtualHint() = (%v, %q)", avail, ccnum)
	}
}

func TestRemoveCardIsPessimistic(t *testing.T) {
	fail := true
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			if fail {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			w.WriteHeader(http.StatusOK)
			return
		}
		writeCardInfo(w, "123456")
	}))
	defer srv.Close()

	sessions := newSessions(t, true)
	m := New(client.New(srv.URL, sessions), sessions, zerolog.Nop())
	if err := m.Load(context.Background()); err != nil {
		t.Fatal(err)
	}

	if err := m.RemoveCard(context.Background()); err == nil {
		t.Fatal("expected remove to fail")
	}
	if m.Card() == nil {
		t.Error("failed remove must leave the card untouched")
	}

	fail = false
	if err := m.RemoveCard(context.Background()); err != nil {
		t.Fatalf("RemoveCard() error: %v", err)
	}
	if m.Card() != nil {
		t.Error("card not cleared after confirmed remove")
	}
}

func TestApplyVirtualValidatesFirst(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		t.Error("invalid application must not reach the network")
	}))
	defer srv.Close()

	sessions := newSessions(t, true)
	m := New(client.New(srv.URL, sessions), sessions, zerolog.Nop())

	_, err := m.ApplyVirtual(context.Background(), domain.VirtualCardApplication{})
	if err == nil {
		t.Error("expected validation error")
	}
}
