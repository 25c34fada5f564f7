package server

import (
	"testing"
	"time"

	"github.com/Benkess/CrossSim/internal/logging"
)

func TestPublishNeverBlocks(t *testing.T) {
	h := newHub(logging.Noop())
	// No run loop is draining, so the buffer fills; publishing past its
	// capacity must drop events instead of stalling the caller.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 1000; i++ {
			h.publish("scenario.saved", "")
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked with a full event buffer")
	}
}

func TestHubCloseIsIdempotent(t *testing.T) {
	h := newHub(logging.Noop())
	go h.run()

	h.close()
	h.close()

	if n := h.clientCount(); n != 0 {
		t.Errorf("clientCount() = %d after close, want 0", n)
	}
}

func TestPublishedEventCarriesTimestamp(t *testing.T) {
	h := newHub(logging.Noop())
	h.publish("agent.added", "a1")

	select {
	case ev := <-h.events:
		if ev.Event != "agent.added" || ev.ID != "a1" {
			t.Errorf("event = %+v, want agent.added/a1", ev)
		}
		if _, err := time.Parse(time.RFC3339, ev.At); err != nil {
			t.Errorf("At = %q is not RFC 3339: %v", ev.At, err)
		}
	default:
		t.Fatal("no event queued")
	}
}
