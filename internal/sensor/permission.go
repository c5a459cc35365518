package sensor

// PermissionGate answers whether the process may read motion data. On
// desktop Linux this reduces to filesystem access on the IIO channels, but
// the gate stays explicit so denial is a distinct, testable failure mode
// rather than a generic read error.
type PermissionGate interface {
	Allowed() bool
}

// ProbeGate grants access when at least one source can actually be read.
type ProbeGate struct {
	Reader SampleReader
	Bridge CounterBridge
}

func (g ProbeGate) Allowed() bool {
	if g.Bridge != nil && g.Bridge.Available() {
		return true
	}
	return g.Reader != nil && g.Reader.Available()
}

// StaticGate returns a fixed answer. Used in tests and for explicit
// administrative lockout.
type StaticGate bool

func (g StaticGate) Allowed() bool { return bool(g) }
