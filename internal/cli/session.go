package cli

import (
	"fmt"

	"github.com/henderiw/slotaxis/pkg/axis"
	"github.com/henderiw/slotaxis/pkg/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// report is what every command prints.
type report struct {
	Positioning axis.PositioningData   `yaml:"positioning"`
	Handlers    axis.HandlersSnapshot  `yaml:"handlers"`
	Selected    []axis.HandlerSnapshot `yaml:"selected,omitempty"`
	Changes     []axis.ValueChange     `yaml:"changes,omitempty"`
	Removed     []axis.HandlerRemoved  `yaml:"removed,omitempty"`
	Added       *axis.HandlerSnapshot  `yaml:"added,omitempty"`
}

// session is one axis built from the --config file, with listeners recording
// what the command changed.
type session struct {
	cmd     *cobra.Command
	model   *axis.Model
	changes []axis.ValueChange
	removed []axis.HandlerRemoved
}

func newSession(cmd *cobra.Command) (*session, error) {
	logger := loggerFromContext(cmd.Context())

	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	m, err := axis.New(cfg, axis.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	logger.Debug("loaded axis", "config", path, "min", m.Min(), "max", m.Max(), "step", m.Step(),
		"handlers", len(m.HandlersSnapshot().Handlers))

	s := &session{cmd: cmd, model: m}
	m.OnValueChanged(func(c axis.ValueChange) { s.changes = append(s.changes, c) })
	m.OnHandlerRemoved(func(r axis.HandlerRemoved) { s.removed = append(s.removed, r) })
	return s, nil
}

func (r *session) report() *report {
	return &report{
		Positioning: r.model.PositioningData(),
		Handlers:    r.model.HandlersSnapshot(),
		Changes:     r.changes,
		Removed:     r.removed,
	}
}

func (r *session) write(rep *report) error {
	enc := yaml.NewEncoder(r.cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(rep); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return enc.Close()
}
