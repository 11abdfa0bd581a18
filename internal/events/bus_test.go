package events

import (
	"encoding/json"
	"sync"
	"testing"
	"time"
)

func TestBus_PublishSubscribe(t *testing.T) {
	bus := New()
	received := make(chan StreamingChangedEvent, 1)

	unsub := bus.Subscribe(func(e StreamingChangedEvent) {
		received <- e
	})
	defer unsub()

	ev := StreamingChangedEvent{
		Streaming: true,
		Timestamp: "2025-01-27T10:30:00Z",
	}
	bus.Publish(ev)

	got := <-received
	if got.Streaming != ev.Streaming {
		t.Errorf("Streaming = %v, want %v", got.Streaming, ev.Streaming)
	}
}

func TestBus_MultipleSubscribers(_ *testing.T) {
	bus := New()
	received1 := make(chan ControlChangedEvent, 1)
	received2 := make(chan ControlChangedEvent, 1)

	unsub1 := bus.Subscribe(func(e ControlChangedEvent) {
		received1 <- e
	})
	defer unsub1()

	unsub2 := bus.Subscribe(func(e ControlChangedEvent) {
		received2 <- e
	})
	defer unsub2()

	bus.Publish(ControlChangedEvent{Control: "exposure", Value: 380})

	<-received1
	<-received2
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := New()
	received := make(chan TransportErrorEvent, 1)

	unsub := bus.Subscribe(func(e TransportErrorEvent) {
		received <- e
	})

	bus.Publish(TransportErrorEvent{Operation: "apply exposure"})
	<-received

	unsub()

	bus.Publish(TransportErrorEvent{Operation: "apply gain"})
	select {
	case <-received:
		t.Fatal("received event after unsubscribe")
	case <-time.After(10 * time.Millisecond):
	}
}

func TestBus_TypeSafety(t *testing.T) {
	bus := New()

	streamingReceived := make(chan bool, 1)
	controlReceived := make(chan bool, 1)

	unsub1 := bus.Subscribe(func(_ StreamingChangedEvent) {
		streamingReceived <- true
	})
	defer unsub1()

	unsub2 := bus.Subscribe(func(_ ControlChangedEvent) {
		controlReceived <- true
	})
	defer unsub2()

	bus.Publish(StreamingChangedEvent{Streaming: true})
	<-streamingReceived

	select {
	case <-controlReceived:
		t.Fatal("control subscriber received StreamingChangedEvent")
	case <-time.After(10 * time.Millisecond):
	}

	bus.Publish(ControlChangedEvent{Control: "vblank"})
	<-controlReceived
}

func TestBus_ThreadSafety(_ *testing.T) {
	bus := New()
	var wg sync.WaitGroup
	numGoroutines := 10
	eventsPerGoroutine := 100
	expected := numGoroutines * eventsPerGoroutine

	receivedCh := make(chan bool, expected)

	unsub := bus.Subscribe(func(_ ControlChangedEvent) {
		receivedCh <- true
	})
	defer unsub()

	for range numGoroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range eventsPerGoroutine {
				bus.Publish(ControlChangedEvent{
					Control:   "exposure",
					Timestamp: time.Now().Format(time.RFC3339),
				})
			}
		}()
	}

	wg.Wait()

	for range expected {
		<-receivedCh
	}
}

func TestBus_AllEventTypes(t *testing.T) {
	bus := New()

	tests := []struct {
		name  string
		event Event
	}{
		{"StreamingChanged", StreamingChangedEvent{Streaming: true}},
		{"ControlChanged", ControlChangedEvent{Control: "exposure", Value: 100}},
		{"FormatChanged", FormatChangedEvent{Width: 3840, Height: 2160}},
		{"TransportError", TransportErrorEvent{Operation: "probe"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(_ *testing.T) {
			received := make(chan Event, 1)

			var unsub func()
			switch tt.event.(type) {
			case StreamingChangedEvent:
				unsub = bus.Subscribe(func(e StreamingChangedEvent) { received <- e })
			case ControlChangedEvent:
				unsub = bus.Subscribe(func(e ControlChangedEvent) { received <- e })
			case FormatChangedEvent:
				unsub = bus.Subscribe(func(e FormatChangedEvent) { received <- e })
			case TransportErrorEvent:
				unsub = bus.Subscribe(func(e TransportErrorEvent) { received <- e })
			}
			defer unsub()

			bus.Publish(tt.event)
			<-received
		})
	}
}

func TestEventJSONSerialization(t *testing.T) {
	tests := []struct {
		name  string
		event any
	}{
		{
			"StreamingChangedEvent",
			StreamingChangedEvent{Streaming: true, Timestamp: "2025-01-27T10:30:00Z"},
		},
		{
			"ControlChangedEvent",
			ControlChangedEvent{Control: "analogue_gain", Value: 16, Timestamp: "2025-01-27T10:30:00Z"},
		},
		{
			"FormatChangedEvent",
			FormatChangedEvent{Width: 3840, Height: 2160, Code: 0x300A},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.event)
			if err != nil {
				t.Fatalf("Failed to marshal: %v", err)
			}

			var result map[string]any
			if unmarshalErr := json.Unmarshal(data, &result); unmarshalErr != nil {
				t.Fatalf("Failed to unmarshal: %v", unmarshalErr)
			}

			if len(result) == 0 {
				t.Fatal("Unmarshaled to empty object")
			}
		})
	}
}

func TestSubscribeToChannel(t *testing.T) {
	bus := New()
	ch := make(chan any, 10)

	unsub := SubscribeToChannel[StreamingChangedEvent](bus, ch)
	defer unsub()

	bus.Publish(StreamingChangedEvent{Streaming: true})

	received := <-ch
	ev, ok := received.(StreamingChangedEvent)
	if !ok {
		t.Fatalf("Expected StreamingChangedEvent, got %T", received)
	}
	if !ev.Streaming {
		t.Error("Streaming = false, want true")
	}
}

func TestSubscribeToChannel_NonBlocking(_ *testing.T) {
	bus := New()
	ch := make(chan any) // No buffer

	unsub := SubscribeToChannel[TransportErrorEvent](bus, ch)
	defer unsub()

	done := make(chan bool, 1)
	go func() {
		bus.Publish(TransportErrorEvent{Operation: "probe"})
		done <- true
	}()

	<-done // Should complete without blocking
}
