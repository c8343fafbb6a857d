package ui

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"

	"bindgen/internal/driver"
)

func TestProgressTracksInputs(t *testing.T) {
	m := newProgressModel("generating headers", []string{"a.toml", "b.toml"}, nil)

	m.applyEvent(driver.Event{Input: "a.toml", Stage: driver.StageDecode, Status: driver.StatusWorking})
	if got := m.items[0].status; got != "decoding" {
		t.Fatalf("status = %q", got)
	}
	if got := m.percent(); math.Abs(got-0.15) > 1e-9 {
		t.Fatalf("percent = %v, want 0.15", got)
	}

	m.applyEvent(driver.Event{Input: "a.toml", Stage: driver.StageWrite, Status: driver.StatusDone, Cached: true})
	m.applyEvent(driver.Event{Input: "b.toml", Stage: driver.StageGenerate, Status: driver.StatusError, Err: errors.New("cycle")})
	m.applyEvent(driver.Event{Input: "unknown.toml", Stage: driver.StageLoad, Status: driver.StatusWorking})

	if m.items[0].status != "cached" || m.items[1].status != "error" {
		t.Fatalf("statuses = %q, %q", m.items[0].status, m.items[1].status)
	}
	if got := m.percent(); got != 1 {
		t.Fatalf("percent = %v, want 1", got)
	}
	view := m.View()
	for _, want := range []string{"generating headers (2/2)", "cached", "error", "a.toml", "b.toml"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view lacks %q:\n%s", want, view)
		}
	}
}

func TestProgressQuitsWhenEventsClose(t *testing.T) {
	events := make(chan driver.Event, 1)
	m := newProgressModel("check", []string{"a.toml"}, events)
	events <- driver.Event{Input: "a.toml", Stage: driver.StageLoad, Status: driver.StatusWorking}
	close(events)

	listen := m.listenForEvent()
	if _, ok := listen().(eventMsg); !ok {
		t.Fatalf("first message is not an event")
	}
	msg := listen()
	if _, ok := msg.(doneMsg); !ok {
		t.Fatalf("closed channel gave %T", msg)
	}
	if _, cmd := m.Update(msg); cmd == nil || !m.done {
		t.Fatalf("model did not finish")
	}
	if !strings.Contains(m.View(), "done: check") {
		t.Fatalf("view:\n%s", m.View())
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("got %q", got)
	}
	got := truncate("a/very/long/path.toml", 10)
	if !strings.HasSuffix(got, "...") || runewidth.StringWidth(got) > 10 {
		t.Fatalf("got %q", got)
	}
}
