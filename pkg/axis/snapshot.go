package axis

import "k8s.io/apimachinery/pkg/labels"

// PositioningData is the scale description handed to a renderer. Step is the
// step expressed as a fraction of the domain.
type PositioningData struct {
	Step         float64 `yaml:"step"`
	AbsoluteStep float64 `yaml:"absoluteStep"`
	Min          float64 `yaml:"min"`
	Max          float64 `yaml:"max"`
}

type HandlerSnapshot struct {
	HandlerIndex     int        `yaml:"handlerIndex"`
	ItemIndex        float64    `yaml:"itemIndex"`
	Item             any        `yaml:"item"`
	RelativePosition float64    `yaml:"relativePosition"`
	Labels           labels.Set `yaml:"labels,omitempty"`
}

type HandlersSnapshot struct {
	CustomHandlers bool              `yaml:"customHandlers"`
	Handlers       []HandlerSnapshot `yaml:"handlers"`
}

// ValueChange is emitted every time a handler adopts an index, including
// adoptions that leave the index unchanged.
type ValueChange struct {
	HandlerIndex     int     `yaml:"handlerIndex"`
	RelativePosition float64 `yaml:"relativePosition"`
	Item             any     `yaml:"item"`
	ItemIndex        float64 `yaml:"itemIndex"`
}

type RemoveReason string

const (
	RemovedByRequest   RemoveReason = "request"
	RemovedUnreachable RemoveReason = "unreachable"
)

type HandlerRemoved struct {
	HandlerIndex int          `yaml:"handlerIndex"`
	ItemIndex    float64      `yaml:"itemIndex"`
	Reason       RemoveReason `yaml:"reason"`
}
