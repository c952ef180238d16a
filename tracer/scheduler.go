package tracer

import "math"

// The BlockScheduler interface is implemented by all block scheduling algorithms.
type BlockScheduler interface {
	// Split frame into blocks of variable height and assign to the pool
	// of tracers using feedback collected from previous frames.
	//
	// This function returns the block height assignment for each tracer
	// in the input list. Assignments always add up to frameH.
	Schedule(tracers []Tracer, frameH uint32) []uint32
}

// The naive scheduler splits the frame rows proportionally to each tracer's
// speed estimate.
type naiveScheduler struct {
	blockAssignment []uint32
}

// Create a new naive scheduler instance.
func NaiveScheduler() BlockScheduler {
	return &naiveScheduler{}
}

func (sch *naiveScheduler) Schedule(tracers []Tracer, frameH uint32) []uint32 {
	if len(sch.blockAssignment) != len(tracers) {
		sch.blockAssignment = make([]uint32, len(tracers))
	}

	weights := make([]float64, len(tracers))
	for idx, tr := range tracers {
		weights[idx] = float64(tr.Speed())
	}

	distributeRows(sch.blockAssignment, weights, frameH)
	return sch.blockAssignment
}

// The perfect scheduler assumes that the volume of tracing work between two
// subsequent frames is approximately the same.
type perfectScheduler struct {
	naiveScheduler
}

// Create a new perfect scheduler instance.
func PerfectScheduler() BlockScheduler {
	return &perfectScheduler{}
}

// Split frame into blocks of variable height and assign to the pool
// of tracers using feedback collected from previous frames.
//
// When previous frame information is available the scheduler uses the
// following formula for estimating the workload for tracer w and frame i+1:
// w_i, f_i+1 = (blockH,w_i / time,w_i) / Σ(blockH_i-1 / time,i-1)
func (sch *perfectScheduler) Schedule(tracers []Tracer, frameH uint32) []uint32 {
	// If this is the first time we try to schedule or the number of tracers
	// has changed fall back to the speed estimates
	if len(sch.blockAssignment) != len(tracers) {
		return sch.naiveScheduler.Schedule(tracers, frameH)
	}

	// Use last frame statistics
	weights := make([]float64, len(tracers))
	for idx, tr := range tracers {
		stats := tr.Stats()
		if stats.BlockH == 0 {
			// This tracer did not take part in the last frame; use the
			// naive split until we get feedback from every tracer
			return sch.naiveScheduler.Schedule(tracers, frameH)
		}
		weights[idx] = float64(stats.BlockH) / math.Max(1.0, float64(stats.RenderTime))
	}

	distributeRows(sch.blockAssignment, weights, frameH)
	return sch.blockAssignment
}

// Split frameH rows into len(weights) blocks proportional to the weights.
// Each block is assigned at least one row as long as there are enough rows.
func distributeRows(blockAssignment []uint32, weights []float64, frameH uint32) {
	if len(blockAssignment) == 0 {
		return
	}

	var total float64
	for _, w := range weights {
		total += w
	}

	var scheduledRows uint32
	for idx, w := range weights {
		rows := 1.0
		if total > 0 {
			rows = math.Max(1.0, math.Floor(w*float64(frameH)/total))
		}
		blockAssignment[idx] = uint32(rows)
		scheduledRows += blockAssignment[idx]
	}

	// In case rows don't add up to the frame height append the missing ones to the first tracer
	if scheduledRows <= frameH {
		blockAssignment[0] += frameH - scheduledRows
		return
	}

	// More tracers than rows; trim blocks from the end
	for idx := len(blockAssignment) - 1; idx >= 0 && scheduledRows > frameH; idx-- {
		trim := blockAssignment[idx]
		if excess := scheduledRows - frameH; trim > excess {
			trim = excess
		}
		blockAssignment[idx] -= trim
		scheduledRows -= trim
	}
}
