package axis

import "k8s.io/apimachinery/pkg/labels"

// slotOwner is what a Handler needs from the axis that owns it.
type slotOwner interface {
	isSlotOccupied(index float64) bool
	claimSlot(index float64, owner Owner)
	releaseSlot(index float64)
	resolveItem(index float64) any
	bounds() (min, max float64)
	notifyValueChanged(change ValueChange)
}

// Handler is one movable marker on the axis. It holds exactly one slot while it
// is placed.
type Handler struct {
	owner            slotOwner
	handlerIndex     int
	itemIndex        float64
	item             any
	relativePosition float64
	labels           labels.Set
	placed           bool
}

func newHandler(owner slotOwner, handlerIndex int, l labels.Set) *Handler {
	return &Handler{
		owner:        owner,
		handlerIndex: handlerIndex,
		labels:       l,
	}
}

func (r *Handler) Index() int                { return r.handlerIndex }
func (r *Handler) ItemIndex() float64        { return r.itemIndex }
func (r *Handler) Item() any                 { return r.item }
func (r *Handler) RelativePosition() float64 { return r.relativePosition }
func (r *Handler) Labels() labels.Set        { return r.labels }

func (r *Handler) Snapshot() HandlerSnapshot {
	return HandlerSnapshot{
		HandlerIndex:     r.handlerIndex,
		ItemIndex:        r.itemIndex,
		Item:             r.item,
		RelativePosition: r.relativePosition,
		Labels:           r.labels,
	}
}

// place claims the first slot of a new handler. The caller has checked the slot
// is free.
func (r *Handler) place(index float64) {
	r.itemIndex = index
	r.refresh()
	r.owner.claimSlot(index, r.ownerRecord())
	r.placed = true
}

// adoptIndex moves the handler to newIndex. When the slot is taken (by this or
// another handler) the handler stays where it is and only its derived fields are
// recomputed. Listeners are notified in both cases.
func (r *Handler) adoptIndex(newIndex float64) ValueChange {
	if r.owner.isSlotOccupied(newIndex) {
		r.refresh()
		return r.notify()
	}

	if r.placed {
		r.owner.releaseSlot(r.itemIndex)
	}
	r.itemIndex = newIndex
	r.refresh()
	r.owner.claimSlot(newIndex, r.ownerRecord())
	r.placed = true
	return r.notify()
}

func (r *Handler) release() {
	if !r.placed {
		return
	}
	r.owner.releaseSlot(r.itemIndex)
	r.placed = false
}

func (r *Handler) refresh() {
	r.item = r.owner.resolveItem(r.itemIndex)
	lo, hi := r.owner.bounds()
	r.relativePosition = relativePosition(r.itemIndex, lo, hi)
}

func (r *Handler) notify() ValueChange {
	change := ValueChange{
		HandlerIndex:     r.handlerIndex,
		RelativePosition: r.relativePosition,
		Item:             r.item,
		ItemIndex:        r.itemIndex,
	}
	r.owner.notifyValueChanged(change)
	return change
}

func (r *Handler) ownerRecord() Owner {
	return Owner{HandlerIndex: r.handlerIndex, Labels: r.labels}
}

// relativePosition maps index into [0,1]. A single slot domain sits at 1 since
// its only slot is max.
func relativePosition(index, lo, hi float64) float64 {
	if hi <= lo {
		return 1
	}
	p := (index - lo) / (hi - lo)
	return min(max(p, 0), 1)
}
