// Package sensor owns signal-source selection and the raw motion inputs the
// step engine consumes.
//
// Two sources exist: the hardware step counter (a lifetime-cumulative count
// exposed through Linux IIO sysfs) and the accelerometer stream (periodic
// 3-axis samples reduced to magnitude). The Manager arbitrates between them
// at tracking start and enforces the one-way fallback rule: once a session
// falls back to the accelerometer it never returns to the hardware counter,
// avoiding oscillation and double counting.
//
// Bridge payloads are decoded exactly once at the boundary into the tagged
// NativeEvent variant; nothing downstream inspects raw payload shapes. A udev
// netlink monitor reports IIO hotplug so availability changes show up in
// status output without polling.
package sensor
