package pipeline

import (
	"testing"
	"time"
)

func TestTimings(t *testing.T) {
	var timings Timings
	timings.Set(StageLoad, 10*time.Millisecond)
	timings.Set(StageLint, 5*time.Millisecond)

	if !timings.Has(StageLoad) || timings.Has(StageReport) {
		t.Error("Has answers wrong")
	}
	if timings.Duration(StageLint) != 5*time.Millisecond {
		t.Errorf("lint duration = %v", timings.Duration(StageLint))
	}
	if got := timings.Sum(StageLoad, StageLint, StageReport); got != 15*time.Millisecond {
		t.Errorf("sum = %v, want 15ms", got)
	}
}

func TestChannelSink(t *testing.T) {
	ch := make(chan Event, 4)
	sink := ChannelSink{Ch: ch}
	EmitQueued(sink, []string{"a.sbx", "b.sbx"})
	close(ch)

	var got []Event
	for evt := range ch {
		got = append(got, evt)
	}
	if len(got) != 2 || got[0].Status != StatusQueued || got[1].File != "b.sbx" {
		t.Errorf("events = %+v", got)
	}
}

func TestNilSinksAreSafe(t *testing.T) {
	Emit(nil, Event{})
	EmitQueued(nil, []string{"a"})
	ChannelSink{}.OnEvent(Event{})
	MultiSink{nil, ChannelSink{}}.OnEvent(Event{})
}
