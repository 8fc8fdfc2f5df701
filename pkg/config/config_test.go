package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/henderiw/slotaxis/pkg/axis"
	"github.com/tj/assert"
	"k8s.io/apimachinery/pkg/labels"
)

const yamlConfig = `
isRange: true
step: 2
items: [1, test, 3.5]
values: [0, 2]
handlers:
  - itemIndex: 1
    labels:
      role: from
`

const tomlConfig = `
isRange = true
step = 2
items = [1, "test", 3.5]
values = [0.0, 2.0]

[[handlers]]
itemIndex = 1.0
labels = { role = "from" }
`

func TestParse(t *testing.T) {
	expected := axis.Config{
		IsRange: true,
		Min:     0,
		Max:     100,
		Step:    2,
		Items:   []any{1, "test", 3.5},
		Values:  []float64{0, 2},
		Handlers: []axis.HandlerSpec{
			{ItemIndex: 1, Labels: labels.Set{"role": "from"}},
		},
	}

	cases := map[string]struct {
		data        string
		format      string
		expected    axis.Config
		expectedErr bool
	}{
		"YAML": {
			data:     yamlConfig,
			format:   "yaml",
			expected: expected,
		},
		"TOML": {
			data:     tomlConfig,
			format:   "toml",
			expected: expected,
		},
		"Defaults": {
			data:     "",
			format:   "yml",
			expected: axis.DefaultConfig(),
		},
		"Bounds": {
			data:     "min: -5\nmax: 5\nstep: 0.5\n",
			format:   "yaml",
			expected: axis.Config{Min: -5, Max: 5, Step: 0.5},
		},
		"ErrorInvalidBounds": {
			data:        "min: 10\nmax: 5\n",
			format:      "yaml",
			expectedErr: true,
		},
		"ErrorSyntax": {
			data:        "min = ",
			format:      "toml",
			expectedErr: true,
		},
		"ErrorFormat": {
			data:        "{}",
			format:      "json",
			expectedErr: true,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			cfg, err := Parse([]byte(tc.data), tc.format)
			if tc.expectedErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			if diff := cmp.Diff(tc.expected, cfg); diff != "" {
				t.Errorf("%s: -want, +got:\n%s", name, diff)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "axis.toml")
	assert.NoError(t, os.WriteFile(path, []byte(tomlConfig), 0o600))

	cfg, err := Load(path)
	assert.NoError(t, err)
	assert.Equal(t, 2.0, cfg.Step)

	m, err := axis.New(cfg)
	assert.NoError(t, err)
	snapshot := m.HandlersSnapshot()
	assert.True(t, snapshot.CustomHandlers)
	assert.Len(t, snapshot.Handlers, 1)
	// a step of two items leaves slots 0 and 2 only
	assert.Equal(t, 2.0, snapshot.Handlers[0].ItemIndex)
	assert.Equal(t, 3.5, snapshot.Handlers[0].Item)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
