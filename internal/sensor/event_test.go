package sensor

import "testing"

func TestDecodeNativeEventLegacy(t *testing.T) {
	ev, err := DecodeNativeEvent([]byte("10050\n"))
	if err != nil {
		t.Fatalf("DecodeNativeEvent: %v", err)
	}
	if ev.Kind != NativeLegacy {
		t.Fatalf("expected legacy kind, got %v", ev.Kind)
	}
	if ev.Raw != 10050 {
		t.Fatalf("expected raw 10050, got %d", ev.Raw)
	}
}

func TestDecodeNativeEventWithRaw(t *testing.T) {
	ev, err := DecodeNativeEvent([]byte(`{"steps": 3, "raw": 10053}`))
	if err != nil {
		t.Fatalf("DecodeNativeEvent: %v", err)
	}
	if ev.Kind != NativeWithRaw {
		t.Fatalf("expected with-raw kind, got %v", ev.Kind)
	}
	if ev.Steps != 3 || ev.Raw != 10053 {
		t.Fatalf("unexpected event: %+v", ev)
	}
}

func TestDecodeNativeEventObjectMissingRaw(t *testing.T) {
	if _, err := DecodeNativeEvent([]byte(`{"steps": 3}`)); err == nil {
		t.Fatal("expected error for object without raw counter")
	}
}

func TestDecodeNativeEventRejectsGarbage(t *testing.T) {
	for _, payload := range []string{"", "   ", "abc", "-5", `{"raw": "x"}`} {
		if _, err := DecodeNativeEvent([]byte(payload)); err == nil {
			t.Errorf("expected error for payload %q", payload)
		}
	}
}
