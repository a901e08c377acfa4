package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lmedrano/pulso/internal/domain/game"
	"github.com/lmedrano/pulso/internal/domain/pulse"
)

func testSession(id string) *Session {
	city := game.CityState{
		ID:                    "c1",
		Name:                  "City",
		Neighborhoods:         []game.Neighborhood{{ID: "n1", Name: "N1"}},
		CurrentNeighborhoodID: "n1",
	}
	st := game.NewGameState(id, city, pulse.FamilyImpact{Stress: 50}, pulse.GlobalPulse{}, 30)
	return &Session{ID: id, State: st, CreatedAt: time.Now()}
}

func TestMemoryStoreSetGet(t *testing.T) {
	s := NewMemoryStore(time.Hour)
	defer s.Close()
	ctx := context.Background()

	if err := s.Set(ctx, testSession("s1")); err != nil {
		t.Fatalf("set: %v", err)
	}

	got, err := s.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ID != "s1" || got.State.SessionID != "s1" {
		t.Errorf("got = %+v", got)
	}
	if got.LastAccess.IsZero() {
		t.Error("set should stamp LastAccess")
	}
	if s.Len() != 1 {
		t.Errorf("len = %d, want 1", s.Len())
	}
}

func TestMemoryStoreGetMissing(t *testing.T) {
	s := NewMemoryStore(time.Hour)
	defer s.Close()

	if _, err := s.Get(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestMemoryStoreDelete(t *testing.T) {
	s := NewMemoryStore(time.Hour)
	defer s.Close()
	ctx := context.Background()

	s.Set(ctx, testSession("s1"))
	if err := s.Delete(ctx, "s1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.Get(ctx, "s1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err after delete = %v, want ErrNotFound", err)
	}
	if ok, _ := s.Exists(ctx, "s1"); ok {
		t.Error("deleted session should not exist")
	}
	// Deleting an absent session is not an error.
	if err := s.Delete(ctx, "s1"); err != nil {
		t.Errorf("second delete: %v", err)
	}
}

func TestMemoryStoreTouch(t *testing.T) {
	s := NewMemoryStore(time.Hour)
	defer s.Close()
	ctx := context.Background()

	sess := testSession("s1")
	s.Set(ctx, sess)
	before := sess.LastAccess

	time.Sleep(5 * time.Millisecond)
	if err := s.Touch(ctx, "s1"); err != nil {
		t.Fatalf("touch: %v", err)
	}
	if !sess.LastAccess.After(before) {
		t.Error("touch should refresh LastAccess")
	}

	if err := s.Touch(ctx, "absent"); !errors.Is(err, ErrNotFound) {
		t.Errorf("touch absent: err = %v, want ErrNotFound", err)
	}
}
