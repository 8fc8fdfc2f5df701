package axis

import (
	"errors"
	"fmt"
	"io"
	"math"
	"reflect"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/henderiw/slotaxis/pkg/idxtable"
	"k8s.io/apimachinery/pkg/labels"
)

var (
	ErrInvalidConfig   = errors.New("invalid axis config")
	ErrNoFreeSlot      = errors.New("no free slot available")
	ErrHandlerNotFound = errors.New("handler not found")
)

// Owner is the occupancy record of a claimed slot.
type Owner struct {
	HandlerIndex int
	Labels       labels.Set
}

type Option func(*Model)

// WithLogger sets the logger used for debug output. The default discards.
func WithLogger(l *log.Logger) Option {
	return func(r *Model) {
		if l != nil {
			r.log = l
		}
	}
}

// Model owns the numeric domain of a slider and the handlers placed on it.
// No two handlers ever hold the same slot.
//
// A Model is not safe for concurrent use.
type Model struct {
	min  float64
	max  float64
	step float64

	items          []any
	itemsCustom    bool
	handlersCustom bool

	slots    idxtable.Table[float64, Owner]
	handlers []*Handler

	valueListeners   []func(ValueChange)
	removedListeners []func(HandlerRemoved)

	log *log.Logger
}

func New(cfg Config, opts ...Option) (*Model, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	slots, err := idxtable.NewTable[float64, Owner](nil, validateSlot)
	if err != nil {
		return nil, err
	}
	step := cfg.Step
	if step == 0 {
		step = 1
	}
	r := &Model{
		min:   cfg.Min,
		max:   cfg.Max,
		step:  step,
		slots: slots,
		log:   log.New(io.Discard),
	}
	for _, o := range opts {
		o(r)
	}
	r.SetItems(cfg.Items)

	switch {
	case len(cfg.Handlers) > 0:
		r.SetHandlers(cfg.Handlers)
	case len(cfg.Values) > 0:
		r.CreateHandlers(cfg.Values)
	default:
		count := 1
		if cfg.IsRange {
			count = 2
		}
		r.CreateDefaultHandlers(count)
	}
	return r, nil
}

func validateSlot(index float64) error {
	if math.IsNaN(index) {
		return fmt.Errorf("slot index cannot be NaN")
	}
	return nil
}

func (r *Model) Min() float64  { return r.min }
func (r *Model) Max() float64  { return r.max }
func (r *Model) Step() float64 { return r.step }

func (r *Model) Items() []any { return slices.Clone(r.items) }

// SetRange updates both bounds at once when both are finite and ordered.
// Otherwise every finite bound is applied on its own through SetMin and SetMax;
// a non-finite argument leaves that bound alone. The range is fixed while an
// item list is installed.
func (r *Model) SetRange(min, max float64) {
	if r.itemsCustom {
		return
	}
	if isFinite(min) && isFinite(max) {
		if min > max {
			return
		}
		r.min, r.max = min, max
		r.requantize()
		return
	}
	if isFinite(min) {
		r.SetMin(min)
	}
	if isFinite(max) {
		r.SetMax(max)
	}
}

func (r *Model) SetMin(v float64) {
	if r.itemsCustom || !isFinite(v) || v > r.max {
		return
	}
	r.min = v
	r.requantize()
}

func (r *Model) SetMax(v float64) {
	if r.itemsCustom || !isFinite(v) || v < r.min {
		return
	}
	r.max = v
	r.requantize()
}

// SetStep ignores zero, negative and non-finite steps. With an item list the
// step is rounded to a whole number of items.
func (r *Model) SetStep(step float64) {
	if !(step > 0) || math.IsInf(step, 0) {
		return
	}
	if r.itemsCustom {
		step = roundItemStep(step)
	}
	r.step = step
	r.requantize()
}

// SetItems installs a fixed item list, which pins the domain to 0..len-1. An
// empty list goes back to a plain numeric domain. Handlers are not moved.
func (r *Model) SetItems(items []any) {
	if len(items) == 0 {
		r.items = nil
		r.itemsCustom = false
		return
	}
	r.items = slices.Clone(items)
	r.itemsCustom = true
	r.min = 0
	r.max = float64(len(items) - 1)
	r.step = roundItemStep(r.step)
}

func roundItemStep(step float64) float64 {
	return max(math.Round(step), 1)
}

// CreateHandlers replaces every handler with one handler per item index.
// An index that finds no free slot is skipped.
func (r *Model) CreateHandlers(indices []float64) {
	r.clearHandlers()
	r.handlersCustom = false
	for _, index := range indices {
		if _, err := r.createHandler(index, nil); err != nil {
			r.log.Debug("skipping handler", "itemIndex", index, "err", err)
		}
	}
}

// SetHandlers replaces every handler with the given specs.
func (r *Model) SetHandlers(specs []HandlerSpec) {
	r.clearHandlers()
	r.handlersCustom = true
	for _, spec := range specs {
		if _, err := r.createHandler(spec.ItemIndex, spec.Labels); err != nil {
			r.log.Debug("skipping handler", "itemIndex", spec.ItemIndex, "labels", spec.Labels, "err", err)
		}
	}
}

// CreateDefaultHandlers replaces every handler with count handlers spread
// evenly between min and max, endpoints excluded.
func (r *Model) CreateDefaultHandlers(count int) {
	indices := make([]float64, 0, count)
	for i := 0; i < count; i++ {
		indices = append(indices, r.min+float64(i+1)*(r.max-r.min)/float64(count+1))
	}
	r.CreateHandlers(indices)
}

func (r *Model) AddHandler(itemIndex float64) (HandlerSnapshot, error) {
	return r.AddHandlerWithLabels(itemIndex, nil)
}

// AddHandlerWithLabels places a new handler on the first free slot at or after
// itemIndex, wrapping around to min. It returns ErrNoFreeSlot when every slot
// is taken.
func (r *Model) AddHandlerWithLabels(itemIndex float64, l labels.Set) (HandlerSnapshot, error) {
	if !isFinite(itemIndex) {
		return HandlerSnapshot{}, fmt.Errorf("itemIndex %v: %w", itemIndex, ErrNoFreeSlot)
	}
	h, err := r.createHandler(itemIndex, l)
	if err != nil {
		return HandlerSnapshot{}, err
	}
	return h.Snapshot(), nil
}

// RemoveHandler drops the handler and frees its slot. It returns the removed
// handler index or ErrHandlerNotFound.
func (r *Model) RemoveHandler(handlerIndex int) (int, error) {
	if !r.removeHandler(handlerIndex, RemovedByRequest) {
		return 0, fmt.Errorf("handler %d: %w", handlerIndex, ErrHandlerNotFound)
	}
	return handlerIndex, nil
}

// RequestPositionChange moves a handler to the slot nearest to a relative
// position. Position 1 always maps to max, even when max is not step aligned.
// When the target slot is held by another handler the handler stays put.
func (r *Model) RequestPositionChange(handlerIndex int, relativePosition float64) (ValueChange, error) {
	h, ok := r.Handler(handlerIndex)
	if !ok {
		return ValueChange{}, fmt.Errorf("handler %d: %w", handlerIndex, ErrHandlerNotFound)
	}
	if !(relativePosition > 0) {
		relativePosition = 0
	}
	var index float64
	if relativePosition >= 1 {
		index = r.max
	} else {
		index = r.quantize(r.min + relativePosition*(r.max-r.min))
	}
	return h.adoptIndex(index), nil
}

// SetHandlerItemIndex moves a handler to the slot nearest to itemIndex.
func (r *Model) SetHandlerItemIndex(handlerIndex int, itemIndex float64) (ValueChange, error) {
	h, ok := r.Handler(handlerIndex)
	if !ok {
		return ValueChange{}, fmt.Errorf("handler %d: %w", handlerIndex, ErrHandlerNotFound)
	}
	return h.adoptIndex(r.quantize(itemIndex)), nil
}

func (r *Model) Handler(handlerIndex int) (*Handler, bool) {
	for _, h := range r.handlers {
		if h.handlerIndex == handlerIndex {
			return h, true
		}
	}
	return nil, false
}

func (r *Model) PositioningData() PositioningData {
	var step float64
	if r.max > r.min {
		step = r.step / (r.max - r.min)
	}
	return PositioningData{
		Step:         step,
		AbsoluteStep: r.step,
		Min:          r.min,
		Max:          r.max,
	}
}

func (r *Model) HandlersSnapshot() HandlersSnapshot {
	snapshots := make([]HandlerSnapshot, 0, len(r.handlers))
	for _, h := range r.handlers {
		snapshots = append(snapshots, h.Snapshot())
	}
	return HandlersSnapshot{
		CustomHandlers: r.handlersCustom,
		Handlers:       snapshots,
	}
}

// HandlersByLabel returns the handlers whose labels match selector, ordered by
// their position on the axis.
func (r *Model) HandlersByLabel(selector labels.Selector) []HandlerSnapshot {
	snapshots := []HandlerSnapshot{}

	iter := r.slots.Iterate()
	for iter.Next() {
		owner := iter.Value()
		if !selector.Matches(owner.Labels) {
			continue
		}
		if h, ok := r.Handler(owner.HandlerIndex); ok {
			snapshots = append(snapshots, h.Snapshot())
		}
	}
	return snapshots
}

// ResolveItem returns the item at index, or the index itself without an item list.
func (r *Model) ResolveItem(index float64) any {
	return r.resolveItem(index)
}

// ItemIndexOf is the inverse of ResolveItem. With duplicate items the first
// match wins.
func (r *Model) ItemIndexOf(item any) (float64, bool) {
	if r.itemsCustom {
		for i, it := range r.items {
			if reflect.DeepEqual(it, item) {
				return float64(i), true
			}
		}
		return 0, false
	}
	var v float64
	switch x := item.(type) {
	case float64:
		v = x
	case int:
		v = float64(x)
	default:
		return 0, false
	}
	if v < r.min || v > r.max {
		return 0, false
	}
	return v, true
}

func (r *Model) OnValueChanged(fn func(ValueChange)) {
	r.valueListeners = append(r.valueListeners, fn)
}

func (r *Model) OnHandlerRemoved(fn func(HandlerRemoved)) {
	r.removedListeners = append(r.removedListeners, fn)
}

func (r *Model) createHandler(itemIndex float64, l labels.Set) (*Handler, error) {
	index, ok := r.findFreeSlot(itemIndex)
	if !ok {
		return nil, fmt.Errorf("itemIndex %v: %w", itemIndex, ErrNoFreeSlot)
	}
	h := newHandler(r, r.nextHandlerIndex(), l)
	h.place(index)
	r.handlers = append(r.handlers, h)
	return h, nil
}

func (r *Model) nextHandlerIndex() int {
	next := 0
	for _, h := range r.handlers {
		next = max(next, h.handlerIndex+1)
	}
	return next
}

func (r *Model) clearHandlers() {
	for _, h := range r.handlers {
		h.release()
	}
	r.handlers = nil
}

func (r *Model) removeHandler(handlerIndex int, reason RemoveReason) bool {
	i := slices.IndexFunc(r.handlers, func(h *Handler) bool { return h.handlerIndex == handlerIndex })
	if i < 0 {
		return false
	}
	h := r.handlers[i]
	h.release()
	r.handlers = slices.Delete(r.handlers, i, i+1)

	removed := HandlerRemoved{
		HandlerIndex: handlerIndex,
		ItemIndex:    h.itemIndex,
		Reason:       reason,
	}
	for _, fn := range r.removedListeners {
		fn(removed)
	}
	return true
}

// requantize snaps every handler onto the current grid after a bounds or step
// change. A handler whose slot is taken moves to the next free slot; when there
// is none it is removed and only the removal listeners hear about it.
func (r *Model) requantize() {
	for _, h := range slices.Clone(r.handlers) {
		next := r.quantize(h.itemIndex)
		switch {
		case next == h.itemIndex:
			h.adoptIndex(next)
		case r.isSlotOccupied(next):
			free, ok := r.findFreeSlot(next)
			if !ok {
				r.log.Debug("removing handler without reachable slot",
					"handler", h.handlerIndex, "itemIndex", h.itemIndex, "min", r.min, "max", r.max, "step", r.step)
				r.removeHandler(h.handlerIndex, RemovedUnreachable)
				continue
			}
			h.adoptIndex(free)
		default:
			h.adoptIndex(next)
		}
	}
}

func (r *Model) isSlotOccupied(index float64) bool {
	return !r.slots.IsFree(index)
}

func (r *Model) claimSlot(index float64, owner Owner) {
	if err := r.slots.Claim(index, owner); err != nil {
		r.log.Debug("claim failed", "itemIndex", index, "handler", owner.HandlerIndex, "err", err)
	}
}

func (r *Model) releaseSlot(index float64) {
	if err := r.slots.Release(index); err != nil {
		r.log.Debug("release failed", "itemIndex", index, "err", err)
	}
}

func (r *Model) resolveItem(index float64) any {
	if !r.itemsCustom {
		return index
	}
	i := int(math.Round(index))
	if i < 0 || i >= len(r.items) {
		return nil
	}
	return r.items[i]
}

func (r *Model) bounds() (float64, float64) {
	return r.min, r.max
}

func (r *Model) notifyValueChanged(change ValueChange) {
	for _, fn := range r.valueListeners {
		fn(change)
	}
}
