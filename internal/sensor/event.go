package sensor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// NativeEventKind tags the two bridge payload shapes.
type NativeEventKind int

const (
	// NativeLegacy is a bare number: the lifetime counter value.
	NativeLegacy NativeEventKind = iota
	// NativeWithRaw is an object carrying both a step increment and the
	// lifetime counter value.
	NativeWithRaw
)

// NativeEvent is one decoded hardware counter reading. Legacy drivers report
// only the lifetime value; newer bridges also report the increment since the
// previous event. Reconciliation always runs off Raw, so both shapes converge
// downstream.
type NativeEvent struct {
	Kind  NativeEventKind
	Steps uint32
	Raw   uint64
}

// DecodeNativeEvent parses a bridge payload. Payloads are either a bare
// unsigned number (legacy sysfs value) or a JSON object {"steps": n, "raw": m}
// as emitted by newer vendor bridges. The shape is resolved here, once;
// downstream code switches on the tag only.
func DecodeNativeEvent(data []byte) (NativeEvent, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return NativeEvent{}, fmt.Errorf("empty native event payload")
	}

	if trimmed[0] == '{' {
		var payload struct {
			Steps *uint32 `json:"steps"`
			Raw   *uint64 `json:"raw"`
		}
		if err := json.Unmarshal(trimmed, &payload); err != nil {
			return NativeEvent{}, fmt.Errorf("decode native event object: %w", err)
		}
		if payload.Raw == nil {
			return NativeEvent{}, fmt.Errorf("native event object missing raw counter")
		}
		ev := NativeEvent{Kind: NativeWithRaw, Raw: *payload.Raw}
		if payload.Steps != nil {
			ev.Steps = *payload.Steps
		}
		return ev, nil
	}

	value, err := strconv.ParseUint(string(trimmed), 10, 64)
	if err != nil {
		return NativeEvent{}, fmt.Errorf("decode native event value %q: %w", trimmed, err)
	}
	return NativeEvent{Kind: NativeLegacy, Raw: value}, nil
}
