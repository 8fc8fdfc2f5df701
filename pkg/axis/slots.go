package axis

import (
	"iter"
	"math"
	"strconv"
)

// ordinalTolerance absorbs float error when the domain width is an exact
// multiple of the step.
const ordinalTolerance = 1e-9

// lastOrdinal is the ordinal of max. Slots are min, min+step, ... and max, which
// is a slot of its own when max-min is not a multiple of step.
func (r *Model) lastOrdinal() int {
	if r.max <= r.min {
		return 0
	}
	return int(math.Ceil((r.max-r.min)/r.step - ordinalTolerance))
}

func (r *Model) slotValue(k int) float64 {
	if k >= r.lastOrdinal() {
		return r.max
	}
	if k <= 0 {
		return r.min
	}
	v := normalize(r.min + float64(k)*r.step)
	if v >= r.max {
		return r.max
	}
	return v
}

func (r *Model) ordinalOf(v float64) int {
	last := r.lastOrdinal()
	if v >= r.max {
		return last
	}
	if v <= r.min {
		return 0
	}
	k := int(math.Round((v - r.min) / r.step))
	return min(max(k, 0), last)
}

// quantize snaps v to the nearest slot. Values at or beyond the bounds snap to
// the bound itself.
func (r *Model) quantize(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return r.min
	case v >= r.max:
		return r.max
	case v <= r.min:
		return r.min
	}
	return r.slotValue(r.ordinalOf(v))
}

// candidates yields every slot starting at the slot of preferred up to max,
// then wraps around from min up to the preferred slot.
func (r *Model) candidates(preferred float64) iter.Seq[float64] {
	start := r.ordinalOf(r.quantize(preferred))
	last := r.lastOrdinal()
	return func(yield func(float64) bool) {
		for k := start; k <= last; k++ {
			if !yield(r.slotValue(k)) {
				return
			}
		}
		for k := 0; k < start; k++ {
			if !yield(r.slotValue(k)) {
				return
			}
		}
	}
}

func (r *Model) findFreeSlot(preferred float64) (float64, bool) {
	index, err := r.slots.FindFree(r.candidates(preferred))
	if err != nil {
		return 0, false
	}
	return index, true
}

// normalize drops float noise such as 0.1*3 = 0.30000000000000004 so slot keys
// print and compare the way a user typed them.
func normalize(v float64) float64 {
	n, err := strconv.ParseFloat(strconv.FormatFloat(v, 'g', 15, 64), 64)
	if err != nil {
		return v
	}
	return n
}
