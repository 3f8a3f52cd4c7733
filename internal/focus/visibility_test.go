package focus

import "testing"

func TestVisibilityDetectorIsLevelTriggered(t *testing.T) {
	bus := NewBus(newTestLogger(t))
	var hidden counter
	d := NewVisibilityDetector(newTestLogger(t), bus, hidden.inc)
	d.Activate()
	defer d.Deactivate()

	bus.Emit(Event{Type: EventVisibilityChange, Hidden: true})
	bus.Emit(Event{Type: EventVisibilityChange, Hidden: true})
	if got := hidden.get(); got != 1 {
		t.Fatalf("repeated hidden: want=1 got=%d", got)
	}

	bus.Emit(Event{Type: EventVisibilityChange, Hidden: false})
	bus.Emit(Event{Type: EventVisibilityChange, Hidden: true})
	if got := hidden.get(); got != 2 {
		t.Fatalf("second transition: want=2 got=%d", got)
	}

	bus.Emit(Event{Type: EventBlur})
	if got := hidden.get(); got != 2 {
		t.Fatalf("blur must not count as hidden: want=2 got=%d", got)
	}
}

func TestBlurDetectorRearmsOnFocus(t *testing.T) {
	bus := NewBus(newTestLogger(t))
	var blurred counter
	d := NewBlurDetector(newTestLogger(t), bus, blurred.inc)
	d.Activate()

	bus.Emit(Event{Type: EventBlur})
	bus.Emit(Event{Type: EventBlur})
	bus.Emit(Event{Type: EventFocus})
	bus.Emit(Event{Type: EventBlur})
	if got := blurred.get(); got != 2 {
		t.Fatalf("blur transitions: want=2 got=%d", got)
	}

	d.Deactivate()
	bus.Emit(Event{Type: EventFocus})
	bus.Emit(Event{Type: EventBlur})
	if got := blurred.get(); got != 2 {
		t.Fatalf("after deactivate: want=2 got=%d", got)
	}
	if bus.Len() != 0 {
		t.Fatalf("listeners after deactivate: want=0 got=%d", bus.Len())
	}
}

func TestDetectorsAreFaultIsolated(t *testing.T) {
	bus := NewBus(newTestLogger(t))
	var blurred counter
	vis := NewVisibilityDetector(newTestLogger(t), bus, func() { panic("hidden handler broke") })
	blur := NewBlurDetector(newTestLogger(t), bus, blurred.inc)
	vis.Activate()
	blur.Activate()
	defer vis.Deactivate()
	defer blur.Deactivate()

	bus.Emit(Event{Type: EventVisibilityChange, Hidden: true})
	bus.Emit(Event{Type: EventBlur})
	if got := blurred.get(); got != 1 {
		t.Fatalf("blur after hidden panic: want=1 got=%d", got)
	}
	if !vis.Active() {
		t.Fatalf("visibility detector should remain active after a panicking callback")
	}
}
