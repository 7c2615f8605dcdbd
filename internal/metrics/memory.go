package metrics

import (
	"fmt"
	"runtime"
)

// MemorySnapshot is a point-in-time reading of the runtime heap, taken after
// a task materialized its values.
type MemorySnapshot struct {
	HeapAlloc   uint64 // bytes of live heap objects
	HeapObjects uint64 // live heap objects
	Sys         uint64 // total bytes obtained from the OS
	NumGC       uint32 // completed GC cycles
}

// ReadMemory returns the current heap statistics.
func ReadMemory() MemorySnapshot {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return MemorySnapshot{
		HeapAlloc:   m.HeapAlloc,
		HeapObjects: m.HeapObjects,
		Sys:         m.Sys,
		NumGC:       m.NumGC,
	}
}

// String formats the snapshot for the verbose CLI summary.
func (s MemorySnapshot) String() string {
	return fmt.Sprintf("heap %s in %d objects, sys %s, %d GC", FormatBytes(s.HeapAlloc), s.HeapObjects, FormatBytes(s.Sys), s.NumGC)
}

// FormatBytes renders a byte count with a binary unit suffix.
func FormatBytes(b uint64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := uint64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(b)/float64(div), "KMGTPE"[exp])
}
