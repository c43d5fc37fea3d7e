package inspector

import (
	"testing"

	"embeddedsass/internal/wire"
)

func TestEventFromLogEventMapsDeprecationWarning(t *testing.T) {
	ev := eventFromLogEvent(&wire.LogEvent{
		Type:      wire.LogEventDeprecationWarning,
		Message:   "old syntax",
		Formatted: "DEPRECATION WARNING: old syntax",
	})
	if ev.Type != "deprecation" {
		t.Fatalf("got type %q", ev.Type)
	}
	if ev.Message != "old syntax" {
		t.Fatalf("got message %q", ev.Message)
	}
}

func TestEventFromLogEventDefaultsToWarning(t *testing.T) {
	ev := eventFromLogEvent(&wire.LogEvent{Type: wire.LogEventWarning, Message: "m"})
	if ev.Type != "warning" {
		t.Fatalf("got type %q", ev.Type)
	}
}

func TestEventFromLogEventMapsDebug(t *testing.T) {
	ev := eventFromLogEvent(&wire.LogEvent{Type: wire.LogEventDebug, Message: "m"})
	if ev.Type != "debug" {
		t.Fatalf("got type %q", ev.Type)
	}
}

func TestWatchDrainsUntilChannelClosed(t *testing.T) {
	s := New()
	events := make(chan *wire.LogEvent, 2)
	events <- &wire.LogEvent{Type: wire.LogEventWarning, Message: "a"}
	events <- &wire.LogEvent{Type: wire.LogEventWarning, Message: "b"}
	close(events)

	done := make(chan struct{})
	go func() {
		s.Watch(events)
		close(done)
	}()
	<-done
}
