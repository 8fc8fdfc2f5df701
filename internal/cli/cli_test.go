package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const testConfig = `
min: 0
max: 10
step: 3
handlers:
  - itemIndex: 0
    labels:
      role: from
  - itemIndex: 9
    labels:
      role: to
`

type testReport struct {
	Positioning struct {
		Step         float64 `yaml:"step"`
		AbsoluteStep float64 `yaml:"absoluteStep"`
		Min          float64 `yaml:"min"`
		Max          float64 `yaml:"max"`
	} `yaml:"positioning"`
	Handlers struct {
		CustomHandlers bool `yaml:"customHandlers"`
		Handlers       []struct {
			HandlerIndex int     `yaml:"handlerIndex"`
			ItemIndex    float64 `yaml:"itemIndex"`
		} `yaml:"handlers"`
	} `yaml:"handlers"`
	Selected []struct {
		HandlerIndex int `yaml:"handlerIndex"`
	} `yaml:"selected"`
	Removed []struct {
		HandlerIndex int    `yaml:"handlerIndex"`
		Reason       string `yaml:"reason"`
	} `yaml:"removed"`
	Added *struct {
		HandlerIndex int               `yaml:"handlerIndex"`
		ItemIndex    float64           `yaml:"itemIndex"`
		Labels       map[string]string `yaml:"labels"`
	} `yaml:"added"`
}

func run(t *testing.T, args ...string) (testReport, error) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "axis.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testConfig), 0o600))

	var out, logs bytes.Buffer
	root := newRootCmd(&logs)
	root.SetOut(&out)
	root.SetErr(&logs)
	root.SetArgs(append(args, "--config", path))

	var rep testReport
	if err := root.ExecuteContext(context.Background()); err != nil {
		return rep, err
	}
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &rep))
	return rep, nil
}

func itemIndices(rep testReport) []float64 {
	indices := []float64{}
	for _, h := range rep.Handlers.Handlers {
		indices = append(indices, h.ItemIndex)
	}
	return indices
}

func TestSnapshotCmd(t *testing.T) {
	rep, err := run(t, "snapshot", "--selector", "role=to")
	require.NoError(t, err)

	assert.Equal(t, 3.0, rep.Positioning.AbsoluteStep)
	assert.Equal(t, 0.3, rep.Positioning.Step)
	assert.True(t, rep.Handlers.CustomHandlers)
	assert.Equal(t, []float64{0, 9}, itemIndices(rep))
	require.Len(t, rep.Selected, 1)
	assert.Equal(t, 1, rep.Selected[0].HandlerIndex)
}

func TestMoveCmd(t *testing.T) {
	rep, err := run(t, "move", "--handler", "1", "--position", "1")
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 10}, itemIndices(rep))

	_, err = run(t, "move", "--handler", "5", "--position", "0.5")
	assert.Error(t, err)
}

func TestAddCmd(t *testing.T) {
	rep, err := run(t, "add", "--index", "9", "--labels", "role=extra")
	require.NoError(t, err)
	require.NotNil(t, rep.Added)
	assert.Equal(t, 2, rep.Added.HandlerIndex)
	assert.Equal(t, 10.0, rep.Added.ItemIndex)
	assert.Equal(t, map[string]string{"role": "extra"}, rep.Added.Labels)
	assert.Len(t, rep.Handlers.Handlers, 3)
}

func TestRemoveCmd(t *testing.T) {
	rep, err := run(t, "remove", "--handler", "0")
	require.NoError(t, err)
	assert.Equal(t, []float64{9}, itemIndices(rep))
	require.Len(t, rep.Removed, 1)
	assert.Equal(t, "request", rep.Removed[0].Reason)

	_, err = run(t, "remove", "--handler", "3")
	assert.Error(t, err)
}

func TestBoundsCmd(t *testing.T) {
	rep, err := run(t, "bounds", "--max", "0")
	require.NoError(t, err)
	assert.Equal(t, []float64{0}, itemIndices(rep))
	require.Len(t, rep.Removed, 1)
	assert.Equal(t, 1, rep.Removed[0].HandlerIndex)
	assert.Equal(t, "unreachable", rep.Removed[0].Reason)

	rep, err = run(t, "bounds", "--step", "5")
	require.NoError(t, err)
	assert.Equal(t, 5.0, rep.Positioning.AbsoluteStep)
	assert.Equal(t, []float64{0, 10}, itemIndices(rep))
}

func TestMissingConfig(t *testing.T) {
	root := newRootCmd(&bytes.Buffer{})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"snapshot", "--config", filepath.Join(t.TempDir(), "none.yaml")})
	assert.Error(t, root.ExecuteContext(context.Background()))
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, log.InfoLevel)
	logger.Debug("hidden")
	assert.Zero(t, buf.Len())
	logger.Info("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestLoggerFromContext(t *testing.T) {
	assert.Equal(t, log.Default(), loggerFromContext(context.Background()))

	l := newLogger(&bytes.Buffer{}, log.DebugLevel)
	assert.Same(t, l, loggerFromContext(withLogger(context.Background(), l)))
}
