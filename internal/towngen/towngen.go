// Package towngen is the boundary to the procedural town generator. Only a
// stub generator lives here; real generators plug in through Generator.
package towngen

import (
	"context"
	"fmt"
)

const (
	Mode2D = "2d"
	Mode3D = "3d"
)

// Request selects what to generate.
type Request struct {
	Seed int64
	Mode string
}

// Road is a straight road segment.
type Road struct {
	X1 float64 `cty:"x1"`
	Y1 float64 `cty:"y1"`
	X2 float64 `cty:"x2"`
	Y2 float64 `cty:"y2"`
}

// Lot is a rectangular building lot.
type Lot struct {
	X float64 `cty:"x"`
	Y float64 `cty:"y"`
	W float64 `cty:"w"`
	H float64 `cty:"h"`
}

// Town is a generated layout. Source names the generator that built it and
// is not part of the encoded payload.
type Town struct {
	Seed  int64  `cty:"seed"`
	Mode  string `cty:"mode"`
	Roads []Road `cty:"roads"`
	Lots  []Lot  `cty:"lots"`

	Source string
}

// Generator builds towns.
type Generator interface {
	Generate(ctx context.Context, req Request) (*Town, error)
}

// Stub returns a fixed single-road layout for every request.
type Stub struct{}

// Generate implements Generator.
func (Stub) Generate(ctx context.Context, req Request) (*Town, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("town generation aborted: %w", err)
	}
	return &Town{
		Seed:   req.Seed,
		Mode:   req.Mode,
		Roads:  []Road{{X1: 0, Y1: 0, X2: 10, Y2: 0}},
		Lots:   []Lot{{X: 2, Y: 1, W: 3, H: 2}},
		Source: "stub",
	}, nil
}
