package axis

import (
	"fmt"
	"math"

	"k8s.io/apimachinery/pkg/labels"
)

// Config describes the initial state of an axis.
//
// Handlers are created from Handlers when set, otherwise from Values, otherwise
// one handler (two when IsRange is set) is spread evenly across the domain.
type Config struct {
	IsRange  bool          `yaml:"isRange" toml:"isRange"`
	Min      float64       `yaml:"min" toml:"min"`
	Max      float64       `yaml:"max" toml:"max"`
	Step     float64       `yaml:"step" toml:"step"`
	Items    []any         `yaml:"items,omitempty" toml:"items,omitempty"`
	Values   []float64     `yaml:"values,omitempty" toml:"values,omitempty"`
	Handlers []HandlerSpec `yaml:"handlers,omitempty" toml:"handlers,omitempty"`
}

// HandlerSpec is an explicitly requested handler.
type HandlerSpec struct {
	ItemIndex float64    `yaml:"itemIndex" toml:"itemIndex"`
	Labels    labels.Set `yaml:"labels,omitempty" toml:"labels,omitempty"`
}

func DefaultConfig() Config {
	return Config{
		Min:  0,
		Max:  100,
		Step: 1,
	}
}

// Validate checks bounds and step. Min and Max are not checked when Items is set
// since the item list defines the bounds. A zero step means the default of 1.
func (r Config) Validate() error {
	if r.Step < 0 || math.IsNaN(r.Step) || math.IsInf(r.Step, 0) {
		return fmt.Errorf("%w: step %v must be a positive number", ErrInvalidConfig, r.Step)
	}
	if len(r.Items) > 0 {
		return nil
	}
	if !isFinite(r.Min) || !isFinite(r.Max) {
		return fmt.Errorf("%w: bounds %v..%v must be finite", ErrInvalidConfig, r.Min, r.Max)
	}
	if r.Min > r.Max {
		return fmt.Errorf("%w: min %v is bigger then max %v", ErrInvalidConfig, r.Min, r.Max)
	}
	for _, v := range r.Values {
		if !isFinite(v) {
			return fmt.Errorf("%w: value %v must be finite", ErrInvalidConfig, v)
		}
	}
	for _, h := range r.Handlers {
		if !isFinite(h.ItemIndex) {
			return fmt.Errorf("%w: handler itemIndex %v must be finite", ErrInvalidConfig, h.ItemIndex)
		}
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
