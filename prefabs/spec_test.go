package prefabs

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/milk9111/tether/rope"
)

func TestEmbeddedRopeSpec(t *testing.T) {
	spec, err := LoadRopeSpec("rope.yaml")
	require.NoError(t, err)

	cfg, err := spec.Config()
	require.NoError(t, err)
	assert.Equal(t, rope.CountUnitLength, cfg.Segments.Policy)
	assert.InDelta(t, 0.1, cfg.Segments.UnitLength, 1e-12)
	assert.Equal(t, rope.JointPivot, cfg.Joint)
	assert.True(t, cfg.FreezeAnchorB)
	require.NotNil(t, spec.Color)
	assert.Equal(t, color.NRGBA{R: 255, G: 255, A: 255}, spec.Color.Color)
}

func TestParseRopeSpecKeepsDefaults(t *testing.T) {
	spec, err := ParseRopeSpec([]byte("joint: limited\nwidth: 0.05\n"))
	require.NoError(t, err)

	cfg, err := spec.Config()
	require.NoError(t, err)
	def := rope.DefaultConfig()
	assert.Equal(t, rope.JointLimited, cfg.Joint)
	assert.InDelta(t, 0.05, cfg.Width, 1e-12)
	assert.Equal(t, def.Segments, cfg.Segments)
	assert.InDelta(t, def.MaxBend, cfg.MaxBend, 1e-12)
	assert.Equal(t, def.Stabilize, cfg.Stabilize)
}

func TestRopeSpecConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{name: "unknown joint", yaml: "joint: hinge"},
		{name: "unknown policy", yaml: "segments: {policy: random}"},
		{name: "zero unit length", yaml: "segments: {policy: unit_length, unit_length: 0}"},
		{name: "negative width", yaml: "width: -1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := ParseRopeSpec([]byte(tt.yaml))
			require.NoError(t, err)
			_, err = spec.Config()
			assert.ErrorIs(t, err, rope.ErrInvalidConfig)
		})
	}
}

func TestEmbeddedSceneSpec(t *testing.T) {
	spec, err := LoadSceneSpec("scene.yaml")
	require.NoError(t, err)

	assert.Equal(t, "rope.yaml", spec.Rope)
	assert.True(t, spec.AnchorA.Kinematic)
	assert.Greater(t, spec.AnchorB.Mass, 0.0)
	assert.Len(t, spec.Camera.Presets, 4)
	assert.Len(t, spec.Spots, 3)
	assert.Equal(t, "home_sequence.tengo", spec.Sequence.Script)

	var keys []string
	for _, p := range spec.Camera.Presets {
		keys = append(keys, p.Key)
	}
	assert.Equal(t, []string{"I", "J", "K", "L"}, keys)
}

func TestLoadScript(t *testing.T) {
	for _, name := range []string{"home_sequence.tengo", "scripts/home_sequence.tengo", "prefabs/scripts/home_sequence.tengo"} {
		data, err := LoadScript(name)
		require.NoError(t, err, name)
		assert.Contains(t, string(data), "plan")
	}

	_, err := LoadScript("missing.tengo")
	assert.Error(t, err)
}

func TestLoadAcceptsPrefabsPrefix(t *testing.T) {
	bare, err := Load("rope.yaml")
	require.NoError(t, err)
	prefixed, err := Load("prefabs/rope.yaml")
	require.NoError(t, err)
	assert.Equal(t, bare, prefixed)

	_, err = Load("scripts/home_sequence.tengo")
	assert.NoError(t, err, "scripts live in the same asset tree")
}

func TestYAMLColor(t *testing.T) {
	tests := []struct {
		in      string
		want    color.NRGBA
		wantErr bool
	}{
		{in: `"#102030"`, want: color.NRGBA{R: 0x10, G: 0x20, B: 0x30, A: 0xff}},
		{in: `"10203040"`, want: color.NRGBA{R: 0x10, G: 0x20, B: 0x30, A: 0x40}},
		{in: `"#123"`, wantErr: true},
		{in: `"#zz0000"`, wantErr: true},
		{in: `[1, 2]`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var c YAMLColor
			err := yaml.Unmarshal([]byte(tt.in), &c)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, c.Color)
		})
	}
}
