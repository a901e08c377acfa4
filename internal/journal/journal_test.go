package journal

import (
	"sync"
	"testing"
)

type captivePersister struct {
	mu      sync.Mutex
	entries []Entry
	done    chan struct{}
}

func (p *captivePersister) Append(entry Entry) error {
	p.mu.Lock()
	p.entries = append(p.entries, entry)
	p.mu.Unlock()
	select {
	case p.done <- struct{}{}:
	default:
	}
	return nil
}

func TestAppendFillsIDAndTimestamp(t *testing.T) {
	j := New(nil)

	got := j.Append(Entry{SessionID: "s1", Turn: 1, Type: EntryTypeSessionCreated})
	if got.ID == "" {
		t.Error("append should assign an id")
	}
	if got.Timestamp.IsZero() {
		t.Error("append should assign a timestamp")
	}
	if j.Len() != 1 {
		t.Errorf("len = %d, want 1", j.Len())
	}
}

func TestAppendKeepsProvidedID(t *testing.T) {
	j := New(nil)
	got := j.Append(Entry{ID: "fixed", SessionID: "s1"})
	if got.ID != "fixed" {
		t.Errorf("id = %q, want fixed", got.ID)
	}
}

func TestBySessionAndByTurn(t *testing.T) {
	j := New(nil)
	j.Append(Entry{SessionID: "a", Turn: 1, Type: EntryTypeAdvance})
	j.Append(Entry{SessionID: "b", Turn: 1, Type: EntryTypeAdvance})
	j.Append(Entry{SessionID: "a", Turn: 2, Type: EntryTypeAdvance})
	j.Append(Entry{SessionID: "a", Turn: 2, Type: EntryTypeEnding})

	if got := j.BySession("a"); len(got) != 3 {
		t.Errorf("BySession(a) = %d entries, want 3", len(got))
	}
	if got := j.BySession("missing"); got != nil {
		t.Errorf("BySession(missing) = %+v, want nil", got)
	}

	got := j.ByTurn("a", 2)
	if len(got) != 2 || got[1].Type != EntryTypeEnding {
		t.Errorf("ByTurn(a,2) = %+v", got)
	}
}

func TestSinceWindows(t *testing.T) {
	j := New(nil)
	for i := 0; i < 4; i++ {
		j.Append(Entry{SessionID: "s", Turn: i})
	}

	if got := j.Since(2); len(got) != 2 || got[0].Turn != 2 {
		t.Errorf("Since(2) = %+v", got)
	}
	if got := j.Since(4); got != nil {
		t.Errorf("Since(len) = %+v, want nil", got)
	}
	if got := j.Since(-1); got != nil {
		t.Errorf("Since(-1) = %+v, want nil", got)
	}
}

func TestAttachNarration(t *testing.T) {
	j := New(nil)
	e := j.Append(Entry{SessionID: "s", Type: EntryTypeAdvance})

	if !j.AttachNarration(e.ID, "The street went quiet early.") {
		t.Fatal("attach should find the entry")
	}
	if got := j.BySession("s")[0].Narration; got != "The street went quiet early." {
		t.Errorf("narration = %q", got)
	}
	if j.AttachNarration("nope", "x") {
		t.Error("attach to unknown id should report false")
	}
}

func TestAppendWritesThroughPersister(t *testing.T) {
	p := &captivePersister{done: make(chan struct{}, 1)}
	j := New(p)

	j.Append(Entry{SessionID: "s", Type: EntryTypeAdvance})
	<-p.done

	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.entries) != 1 || p.entries[0].SessionID != "s" {
		t.Errorf("persisted = %+v", p.entries)
	}
}
