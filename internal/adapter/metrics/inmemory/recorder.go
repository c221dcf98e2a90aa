package inmemory

import (
	"sync"

	"kaamos/internal/domain/survival"
)

type Snapshot struct {
	OperationTotal   uint64            `json:"operation_total"`
	OperationSuccess uint64            `json:"operation_success"`
	OperationFailure uint64            `json:"operation_failure"`
	ByOperation      map[string]uint64 `json:"by_operation"`
	FailuresByOp     map[string]uint64 `json:"failures_by_operation"`
	Endings          map[string]uint64 `json:"endings"`
}

// Recorder counts session operations and reached endings for /ops/kpi.
type Recorder struct {
	mu       sync.Mutex
	success  uint64
	failure  uint64
	byOp     map[string]uint64
	failByOp map[string]uint64
	endings  map[string]uint64
}

func NewRecorder() *Recorder {
	return &Recorder{
		byOp:     map[string]uint64{},
		failByOp: map[string]uint64{},
		endings:  map[string]uint64{},
	}
}

func (r *Recorder) RecordOperation(op string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.success++
	r.byOp[op]++
}

func (r *Recorder) RecordFailure(op string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failure++
	r.failByOp[op]++
}

func (r *Recorder) RecordEnding(id survival.EndingID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.endings[string(id)]++
}

func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	return Snapshot{
		OperationSuccess: r.success,
		OperationFailure: r.failure,
		OperationTotal:   r.success + r.failure,
		ByOperation:      copyCounts(r.byOp),
		FailuresByOp:     copyCounts(r.failByOp),
		Endings:          copyCounts(r.endings),
	}
}

func (r *Recorder) SnapshotAny() any {
	return r.Snapshot()
}

func copyCounts(in map[string]uint64) map[string]uint64 {
	out := make(map[string]uint64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
