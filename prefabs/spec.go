package prefabs

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"

	"github.com/milk9111/tether/rope"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

type Vec2Spec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

func (v Vec2Spec) Vec() mgl64.Vec2 {
	return mgl64.Vec2{v.X, v.Y}
}

type SegmentsSpec struct {
	Policy     string  `yaml:"policy"`
	Count      int     `yaml:"count"`
	UnitLength float64 `yaml:"unit_length"`
	Density    float64 `yaml:"density"`
	Min        int     `yaml:"min"`
}

type StabilizeSpec struct {
	SettleDelay        float64 `yaml:"settle_delay"`
	AnchorReleaseDelay float64 `yaml:"anchor_release_delay"`
}

// RopeSpec is rope.yaml. Keys left out keep the rope package defaults.
type RopeSpec struct {
	Segments      SegmentsSpec  `yaml:"segments"`
	Placement     string        `yaml:"placement"`
	Joint         string        `yaml:"joint"`
	MaxBendDeg    float64       `yaml:"max_bend_deg"`
	Width         float64       `yaml:"width"`
	Mass          float64       `yaml:"mass"`
	Damping       float64       `yaml:"damping"`
	FreezeAnchorB bool          `yaml:"freeze_anchor_b"`
	Stabilize     StabilizeSpec `yaml:"stabilize"`
	Color         *YAMLColor    `yaml:"color"`
}

func ropeSpecFrom(c rope.Config) RopeSpec {
	return RopeSpec{
		Segments: SegmentsSpec{
			Policy:     string(c.Segments.Policy),
			Count:      c.Segments.Count,
			UnitLength: c.Segments.UnitLength,
			Density:    c.Segments.Density,
			Min:        c.Segments.Min,
		},
		Placement:     string(c.Placement),
		Joint:         c.Joint.String(),
		MaxBendDeg:    mgl64.RadToDeg(c.MaxBend),
		Width:         c.Width,
		Mass:          c.Mass,
		Damping:       c.Damping,
		FreezeAnchorB: c.FreezeAnchorB,
		Stabilize: StabilizeSpec{
			SettleDelay:        c.Stabilize.SettleDelay,
			AnchorReleaseDelay: c.Stabilize.AnchorReleaseDelay,
		},
	}
}

// Config converts the spec and validates the result.
func (s RopeSpec) Config() (rope.Config, error) {
	joint, err := rope.ParseJointKind(s.Joint)
	if err != nil {
		return rope.Config{}, err
	}
	cfg := rope.Config{
		Segments: rope.SegmentsConfig{
			Policy:     rope.CountPolicy(strings.ToLower(s.Segments.Policy)),
			Count:      s.Segments.Count,
			UnitLength: s.Segments.UnitLength,
			Density:    s.Segments.Density,
			Min:        s.Segments.Min,
		},
		Placement:     rope.Placement(strings.ToLower(s.Placement)),
		Joint:         joint,
		MaxBend:       mgl64.DegToRad(s.MaxBendDeg),
		Width:         s.Width,
		Mass:          s.Mass,
		Damping:       s.Damping,
		FreezeAnchorB: s.FreezeAnchorB,
		Stabilize: rope.StabilizeConfig{
			SettleDelay:        s.Stabilize.SettleDelay,
			AnchorReleaseDelay: s.Stabilize.AnchorReleaseDelay,
		},
	}
	if err := cfg.Validate(); err != nil {
		return rope.Config{}, err
	}
	return cfg, nil
}

func LoadRopeSpec(filename string) (RopeSpec, error) {
	data, err := Load(filename)
	if err != nil {
		return RopeSpec{}, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}
	return ParseRopeSpec(data)
}

// ParseRopeSpec decodes rope.yaml over the rope package defaults.
func ParseRopeSpec(data []byte) (RopeSpec, error) {
	spec := ropeSpecFrom(rope.DefaultConfig())
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return RopeSpec{}, fmt.Errorf("prefabs: unmarshal rope spec: %w", err)
	}
	return spec, nil
}

type PhysicsSpec struct {
	Step     float64  `yaml:"step"`
	MaxSteps int      `yaml:"max_steps"`
	Gravity  Vec2Spec `yaml:"gravity"`
	Damping  float64  `yaml:"damping"`
	Debug    bool     `yaml:"debug"`
}

type AnchorSpec struct {
	Name      string   `yaml:"name"`
	Position  Vec2Spec `yaml:"position"`
	Radius    float64  `yaml:"radius"`
	Mass      float64  `yaml:"mass"`
	Damping   float64  `yaml:"damping"`
	Kinematic bool     `yaml:"kinematic"`
	// Speed enables manual movement when > 0.
	Speed float64 `yaml:"speed"`
}

type CameraPresetSpec struct {
	Name     string   `yaml:"name"`
	Key      string   `yaml:"key"`
	Position Vec2Spec `yaml:"position"`
	Zoom     float64  `yaml:"zoom"`
	// RotationDeg is clockwise on screen.
	RotationDeg float64 `yaml:"rotation_deg"`
}

type CameraSpec struct {
	Position     Vec2Spec           `yaml:"position"`
	Zoom         float64            `yaml:"zoom"`
	MoveDuration float64            `yaml:"move_duration"`
	Instant      bool               `yaml:"instant"`
	Presets      []CameraPresetSpec `yaml:"presets"`
}

type SpotSpec struct {
	Name     string   `yaml:"name"`
	Position Vec2Spec `yaml:"position"`
}

type SequenceSpec struct {
	ExtendDuration   float64 `yaml:"extend_duration"`
	WaitAfterExtend  float64 `yaml:"wait_after_extend"`
	RetractDuration  float64 `yaml:"retract_duration"`
	WaitBeforeSpot   float64 `yaml:"wait_before_spot"`
	MoveSpeed        float64 `yaml:"move_speed"`
	ArrivalThreshold float64 `yaml:"arrival_threshold"`
	Script           string  `yaml:"script"`
}

type StaticSpec struct {
	A      Vec2Spec `yaml:"a"`
	B      Vec2Spec `yaml:"b"`
	Radius float64  `yaml:"radius"`
}

// SceneSpec is scene.yaml.
type SceneSpec struct {
	Rope     string       `yaml:"rope"`
	Physics  PhysicsSpec  `yaml:"physics"`
	AnchorA  AnchorSpec   `yaml:"anchor_a"`
	AnchorB  AnchorSpec   `yaml:"anchor_b"`
	Camera   CameraSpec   `yaml:"camera"`
	Spots    []SpotSpec   `yaml:"spots"`
	Sequence SequenceSpec `yaml:"sequence"`
	Statics  []StaticSpec `yaml:"statics"`
}

func LoadSceneSpec(filename string) (SceneSpec, error) {
	spec, err := LoadSpec[SceneSpec](filename)
	if err != nil {
		return SceneSpec{}, err
	}
	if spec.Rope == "" {
		spec.Rope = "rope.yaml"
	}
	return spec, nil
}

type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.Color = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}
