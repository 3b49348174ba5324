package diag

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/sarchlab/formia/instr"
)

var (
	// ErrNoSnapshots is reported by a rollback on an empty store.
	ErrNoSnapshots = errors.New("no snapshots to roll back to")

	// ErrUnknownVersion is reported by a rollback to a version that was
	// never taken.
	ErrUnknownVersion = errors.New("unknown snapshot version")
)

// Latest selects the most recent snapshot in Rollback.
const Latest = 0

// Snapshot is a frozen copy of the trace log.
type Snapshot struct {
	Version int
	entries []instr.Instruction
}

// Entries returns a copy of the frozen trace content.
func (s Snapshot) Entries() []instr.Instruction {
	return instr.Clone(s.entries)
}

// Len returns the number of frozen instructions.
func (s Snapshot) Len() int {
	return len(s.entries)
}

// SnapshotStore keeps versioned copies of one trace log.
type SnapshotStore struct {
	trace     *TraceLog
	snapshots []Snapshot
}

// NewSnapshotStore creates a store over trace.
func NewSnapshotStore(trace *TraceLog) *SnapshotStore {
	return &SnapshotStore{trace: trace}
}

// Take copies the current trace content. Versions start at 1.
func (s *SnapshotStore) Take() Snapshot {
	snap := Snapshot{
		Version: len(s.snapshots) + 1,
		entries: instr.Clone(s.trace.entries),
	}
	s.snapshots = append(s.snapshots, snap)

	slog.Debug("snapshot taken",
		"Version", snap.Version,
		"Entries", snap.Len(),
	)

	return snap
}

// Rollback replaces the live trace content with the snapshot at version.
// Version Latest picks the most recent one. An empty store or an unknown
// version leaves the trace untouched and is reported through the returned
// error.
func (s *SnapshotStore) Rollback(version int) error {
	if len(s.snapshots) == 0 {
		slog.Warn("rollback skipped", "Reason", ErrNoSnapshots.Error())
		return ErrNoSnapshots
	}

	if version == Latest {
		version = len(s.snapshots)
	}

	snap, ok := s.Get(version)
	if !ok {
		return fmt.Errorf("%w: %d (have 1..%d)",
			ErrUnknownVersion, version, len(s.snapshots))
	}

	s.trace.replace(snap.entries)

	slog.Debug("trace rolled back",
		"Version", version,
		"Entries", snap.Len(),
	)

	return nil
}

// Get returns the snapshot at version.
func (s *SnapshotStore) Get(version int) (Snapshot, bool) {
	if version < 1 || version > len(s.snapshots) {
		return Snapshot{}, false
	}

	return s.snapshots[version-1], true
}

// Versions returns how many snapshots were taken.
func (s *SnapshotStore) Versions() int {
	return len(s.snapshots)
}

// Snapshots returns every snapshot in version order.
func (s *SnapshotStore) Snapshots() []Snapshot {
	return append([]Snapshot(nil), s.snapshots...)
}
