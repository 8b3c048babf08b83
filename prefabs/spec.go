package prefabs

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultArena is the prefab loaded when no other arena is named.
const DefaultArena = "arena.yaml"

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

// ArenaSpec is the fixed breakout layout plus the material values of every
// body in it.
type ArenaSpec struct {
	Name    string      `yaml:"name"`
	Width   float64     `yaml:"width"`
	Height  float64     `yaml:"height"`
	Bounds  BoundsSpec  `yaml:"bounds"`
	Bottom  BottomSpec  `yaml:"bottom"`
	Ball    BallSpec    `yaml:"ball"`
	Paddle  PaddleSpec  `yaml:"paddle"`
	Block   BlockSpec   `yaml:"block"`
	Grid    GridSpec    `yaml:"grid"`
	Physics PhysicsSpec `yaml:"physics"`
}

func LoadArenaSpec(name string) (ArenaSpec, error) {
	if name == "" {
		name = DefaultArena
	}
	spec, err := LoadSpec[ArenaSpec](name)
	if err != nil {
		return ArenaSpec{}, err
	}
	if err := spec.Validate(); err != nil {
		return ArenaSpec{}, fmt.Errorf("prefabs: %s: %w", name, err)
	}
	return spec, nil
}

type MaterialSpec struct {
	Friction    float64 `yaml:"friction"`
	Restitution float64 `yaml:"restitution"`
}

type BoundsSpec struct {
	Material MaterialSpec `yaml:",inline"`
	Color    *YAMLColor   `yaml:"color"`
}

type BottomSpec struct {
	Height float64 `yaml:"height"`
	// Sensor turns the bottom edge into a non-colliding trigger and opens the
	// boundary's lower side so the ball falls through.
	Sensor bool       `yaml:"sensor"`
	Color  *YAMLColor `yaml:"color"`
}

type BallSpec struct {
	Width          float64      `yaml:"width"`
	StartDivisor   float64      `yaml:"start_divisor"`
	Mass           float64      `yaml:"mass"`
	Material       MaterialSpec `yaml:",inline"`
	LinearDamping  float64      `yaml:"linear_damping"`
	AllowsRotation bool         `yaml:"allows_rotation"`
	Impulse        VectorSpec   `yaml:"impulse"`
	Color          *YAMLColor   `yaml:"color"`
}

type PaddleSpec struct {
	Width    float64      `yaml:"width"`
	Height   float64      `yaml:"height"`
	Material MaterialSpec `yaml:",inline"`
	Color    *YAMLColor   `yaml:"color"`
}

type BlockSpec struct {
	Width    float64      `yaml:"width"`
	Height   float64      `yaml:"height"`
	Material MaterialSpec `yaml:",inline"`
	Color    *YAMLColor   `yaml:"color"`
}

type GridSpec struct {
	Rows    int     `yaml:"rows"`
	Columns int     `yaml:"columns"`
	Padding float64 `yaml:"padding"`
	// RowY lists each row's centre as a fraction of arena height, top row
	// first.
	RowY []float64 `yaml:"row_y"`
}

type PhysicsSpec struct {
	Iterations int `yaml:"iterations"`
	// BounceFloor is the least elasticity given to non-dynamic shapes.
	// Chipmunk multiplies the elasticities of both shapes in a contact, so
	// without a floor a low-restitution paddle would swallow the ball's bounce.
	BounceFloor float64 `yaml:"bounce_floor"`
}

type VectorSpec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

var errInvalidSpec = errors.New("invalid arena spec")

// Validate checks the values the arena builder divides by or lays out with.
func (s ArenaSpec) Validate() error {
	var problems []string
	if s.Ball.Width <= 0 {
		problems = append(problems, "ball.width must be positive")
	}
	if s.Ball.StartDivisor <= 0 {
		problems = append(problems, "ball.start_divisor must be positive")
	}
	if s.Ball.Mass <= 0 {
		problems = append(problems, "ball.mass must be positive")
	}
	if s.Paddle.Width <= 0 || s.Paddle.Height <= 0 {
		problems = append(problems, "paddle size must be positive")
	}
	if s.Block.Width <= 0 || s.Block.Height <= 0 {
		problems = append(problems, "block size must be positive")
	}
	if s.Grid.Rows <= 0 || s.Grid.Columns <= 0 {
		problems = append(problems, "grid rows and columns must be positive")
	}
	if s.Grid.Padding < 0 {
		problems = append(problems, "grid.padding must not be negative")
	}
	if len(s.Grid.RowY) != s.Grid.Rows {
		problems = append(problems, fmt.Sprintf("grid.row_y has %d entries, want %d", len(s.Grid.RowY), s.Grid.Rows))
	}
	if s.Bottom.Height <= 0 {
		problems = append(problems, "bottom.height must be positive")
	}
	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", errInvalidSpec, strings.Join(problems, "; "))
}

// YAMLColor decodes "#rrggbb" or "#rrggbbaa".
type YAMLColor struct {
	color.NRGBA
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

	c.NRGBA = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}

// Or returns the decoded colour, or fallback when the field was absent.
func (c *YAMLColor) Or(fallback color.NRGBA) color.NRGBA {
	if c == nil {
		return fallback
	}
	return c.NRGBA
}
