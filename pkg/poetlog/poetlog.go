// Package poetlog implements POET's per-period data log: a ring of
// buffer_depth records that is flushed to a text file in batches once the
// ring wraps. Grounded on the log_buffer struct and logger() function in
// original_source/src/poet.c. This is distinct from operational logging
// (logrus, used by the poet package for lifecycle events) — poetlog
// carries control-loop telemetry only, in the fixed-width columnar
// format §6 specifies.
package poetlog

import (
	"fmt"
	"io"

	"github.com/kpeeters/poet/pkg/controller"
	"github.com/kpeeters/poet/pkg/kalman"
	"github.com/kpeeters/poet/pkg/poetmath"
)

// Header is the column header line written once, at Init, before any
// records. Sixteen-character fixed-width fields per §6.
const Header = "             TAG      ACTUAL_RATE      X_HAT_MINUS            X_HAT          P_MINUS                H                K                P          SPEEDUP            ERROR         WORKLOAD         LOWER_ID         UPPER_ID  LOW_STATE_ITERS"

// Record is one period's snapshot (§3's LogRecord).
type Record struct {
	Tag           uint64
	ActRate       poetmath.Real
	Filter        kalman.FilterState
	Controller    controllerSnapshot
	Workload      poetmath.Real
	LowerID       int64 // -1 when unset
	UpperID       int64 // -1 when unset
	LowStateIters uint32
}

type controllerSnapshot struct {
	U poetmath.Real
	E poetmath.Real
}

// Snapshot builds the controller portion of a Record from live state.
func Snapshot(cs *controller.State) controllerSnapshot {
	return controllerSnapshot{U: cs.U, E: cs.E}
}

// Ring is a fixed-depth ring buffer of Records, indexed by
// (tag/period) mod depth and flushed to w only when the index wraps to
// depth-1, matching the C implementation's batch-on-wrap behavior
// exactly (§3, §5: "flushed only when index == buffer_depth - 1").
type Ring struct {
	depth   uint32
	period  uint32
	records []Record
	filled  uint32 // slots written since the last flush, 0..depth
	w       io.Writer
}

// NewRing allocates a Ring of the given depth, writing depth*14-column
// batches to w. NewRing does not write the header; callers write Header
// once up front (mirroring poet_init's single fprintf of the column
// names before any data rows).
func NewRing(depth, period uint32, w io.Writer) *Ring {
	return &Ring{
		depth:   depth,
		period:  period,
		records: make([]Record, depth),
		w:       w,
	}
}

// Push stores rec at its ring slot and flushes the whole ring to the
// writer if this write lands on the last slot (index == depth-1). tag is
// assumed monotonically increasing across calls (§5's ordering
// guarantee); violating that is host error and is not detected here.
func (r *Ring) Push(rec Record) error {
	index := (rec.Tag / uint64(r.period)) % uint64(r.depth)
	r.records[index] = rec
	r.filled = uint32(index) + 1

	if index == uint64(r.depth-1) {
		return r.flush(r.depth)
	}
	return nil
}

func (r *Ring) flush(n uint32) error {
	defer func() { r.filled = 0 }()
	for _, rec := range r.records[:n] {
		if _, err := fmt.Fprintf(r.w,
			"%16d %16f %16f %16f %16f %16f %16f %16f %16f %16f %16f %16d %16d %16d\n",
			rec.Tag,
			rec.ActRate.ToFloat64(),
			rec.Filter.XHatMinus.ToFloat64(),
			rec.Filter.XHat.ToFloat64(),
			rec.Filter.PMinus.ToFloat64(),
			rec.Filter.H.ToFloat64(),
			rec.Filter.K.ToFloat64(),
			rec.Filter.P.ToFloat64(),
			rec.Controller.U.ToFloat64(),
			rec.Controller.E.ToFloat64(),
			rec.Workload.ToFloat64(),
			rec.LowerID,
			rec.UpperID,
			rec.LowStateIters,
		); err != nil {
			return err
		}
	}
	return nil
}

// Flush forces out whatever partial batch is currently buffered (only the
// slots written since the last flush, in order — not stale data left
// over from a previous cycle). The original C poet_destroy does not do
// this — a partial batch is simply lost. This implementation flushes on
// Destroy (poet.State.Destroy calls Flush) as a documented, intentional deviation (§4.6, §9 "Log flush on
// destroy"): losing the tail of a run's telemetry silently is worse than
// writing a short final batch.
func (r *Ring) Flush() error {
	if r.filled == 0 {
		return nil
	}
	return r.flush(r.filled)
}
