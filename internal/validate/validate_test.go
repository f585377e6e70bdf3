package validate

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/nodeflow/internal/graph"
	"github.com/vk/nodeflow/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

// testRegistry holds a small set of node types covering every pin type
// relationship the checks care about.
func testRegistry() *registry.Registry {
	r := registry.New()
	r.Register(registry.NodeDefinition{
		TypeID:  "src.string",
		Outputs: []registry.PinDefinition{{ID: "value", Type: registry.TypeString}},
	})
	r.Register(registry.NodeDefinition{
		TypeID:  "src.int",
		Outputs: []registry.PinDefinition{{ID: "value", Type: registry.TypeInt}},
	})
	r.Register(registry.NodeDefinition{
		TypeID:  "src.any",
		Outputs: []registry.PinDefinition{{ID: "value", Type: registry.TypeAny}},
	})
	r.Register(registry.NodeDefinition{
		TypeID: "sink",
		Inputs: []registry.PinDefinition{
			{ID: "msg", Type: registry.TypeString},
			{ID: "num", Type: registry.TypeFloat},
			{ID: "count", Type: registry.TypeInt},
		},
	})
	r.Register(registry.NodeDefinition{
		TypeID:  "relay",
		Inputs:  []registry.PinDefinition{{ID: "in", Type: registry.TypeAny}},
		Outputs: []registry.PinDefinition{{ID: "out", Type: registry.TypeAny}},
	})
	return r
}

func requireValidationError(t *testing.T, err error, sentinel error) *Error {
	t.Helper()
	require.Error(t, err)
	require.True(t, errors.Is(err, sentinel), "expected %v, got %v", sentinel, err)
	var verr *Error
	require.True(t, errors.As(err, &verr), "expected *validate.Error, got %T", err)
	return verr
}

func TestValidate_Valid(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name  string
		build func(g *graph.Graph)
	}{
		{name: "empty graph", build: func(*graph.Graph) {}},
		{name: "string to string", build: func(g *graph.Graph) {
			g.Connect(g.AddNode("src.string", cty.NilVal), "value", g.AddNode("sink", cty.NilVal), "msg")
		}},
		{name: "int widens to float", build: func(g *graph.Graph) {
			g.Connect(g.AddNode("src.int", cty.NilVal), "value", g.AddNode("sink", cty.NilVal), "num")
		}},
		{name: "any connects to anything", build: func(g *graph.Graph) {
			g.Connect(g.AddNode("src.any", cty.NilVal), "value", g.AddNode("sink", cty.NilVal), "count")
		}},
		{name: "unconnected inputs are allowed", build: func(g *graph.Graph) {
			g.AddNode("sink", cty.NilVal)
		}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			g := graph.Empty()
			tc.build(g)
			require.NoError(t, Validate(g, testRegistry()))
		})
	}
}

func TestValidate_UnknownNodeType(t *testing.T) {
	t.Parallel()

	g := graph.Empty()
	id := g.AddNode("does.not.exist", cty.NilVal)

	verr := requireValidationError(t, Validate(g, testRegistry()), ErrUnknownNodeType)
	assert.Equal(t, id, verr.NodeID)
	assert.Contains(t, verr.Error(), "does.not.exist")
}

func TestValidate_DuplicateNode(t *testing.T) {
	t.Parallel()

	g := graph.Empty()
	id := g.AddNode("src.string", cty.NilVal)
	g.Nodes = append(g.Nodes, graph.NodeInstance{ID: id, TypeID: "sink"})

	verr := requireValidationError(t, Validate(g, testRegistry()), ErrDuplicateNode)
	assert.Equal(t, id, verr.NodeID)
}

func TestValidate_UnknownPin(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name   string
		build  func(g *graph.Graph) uuid.UUID
		detail string
	}{
		{
			name: "missing source output",
			build: func(g *graph.Graph) uuid.UUID {
				return g.Connect(g.AddNode("src.string", cty.NilVal), "nope", g.AddNode("sink", cty.NilVal), "msg")
			},
			detail: "src.string has no output 'nope'",
		},
		{
			name: "missing destination input",
			build: func(g *graph.Graph) uuid.UUID {
				return g.Connect(g.AddNode("src.string", cty.NilVal), "value", g.AddNode("sink", cty.NilVal), "nope")
			},
			detail: "sink has no input 'nope'",
		},
		{
			name: "input used as output",
			build: func(g *graph.Graph) uuid.UUID {
				return g.Connect(g.AddNode("sink", cty.NilVal), "msg", g.AddNode("sink", cty.NilVal), "msg")
			},
			detail: "sink has no output 'msg'",
		},
		{
			name: "source node missing",
			build: func(g *graph.Graph) uuid.UUID {
				return g.Connect(uuid.New(), "value", g.AddNode("sink", cty.NilVal), "msg")
			},
			detail: "source node",
		},
		{
			name: "destination node missing",
			build: func(g *graph.Graph) uuid.UUID {
				return g.Connect(g.AddNode("src.string", cty.NilVal), "value", uuid.New(), "msg")
			},
			detail: "destination node",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			g := graph.Empty()
			edgeID := tc.build(g)

			verr := requireValidationError(t, Validate(g, testRegistry()), ErrUnknownPin)
			assert.Equal(t, edgeID, verr.EdgeID)
			assert.Contains(t, verr.Detail, tc.detail)
		})
	}
}

func TestValidate_TypeMismatch(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		srcType string
		dstPin  string
	}{
		{name: "string into int", srcType: "src.string", dstPin: "count"},
		{name: "int into string", srcType: "src.int", dstPin: "msg"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			g := graph.Empty()
			edgeID := g.Connect(g.AddNode(tc.srcType, cty.NilVal), "value", g.AddNode("sink", cty.NilVal), tc.dstPin)

			verr := requireValidationError(t, Validate(g, testRegistry()), ErrTypeMismatch)
			assert.Equal(t, edgeID, verr.EdgeID)
		})
	}
}

func TestValidate_Cycle(t *testing.T) {
	t.Parallel()

	t.Run("two node cycle", func(t *testing.T) {
		t.Parallel()
		g := graph.Empty()
		a := g.AddNode("relay", cty.NilVal)
		b := g.AddNode("relay", cty.NilVal)
		g.Connect(a, "out", b, "in")
		g.Connect(b, "out", a, "in")

		requireValidationError(t, Validate(g, testRegistry()), ErrCycle)
	})

	t.Run("self loop", func(t *testing.T) {
		t.Parallel()
		g := graph.Empty()
		a := g.AddNode("relay", cty.NilVal)
		g.Connect(a, "out", a, "in")

		requireValidationError(t, Validate(g, testRegistry()), ErrCycle)
	})
}

func TestValidate_Precedence(t *testing.T) {
	t.Parallel()

	t.Run("unknown type beats pin errors", func(t *testing.T) {
		t.Parallel()
		g := graph.Empty()
		good := g.AddNode("src.string", cty.NilVal)
		g.Connect(good, "nope", g.AddNode("sink", cty.NilVal), "msg")
		g.AddNode("does.not.exist", cty.NilVal)

		requireValidationError(t, Validate(g, testRegistry()), ErrUnknownNodeType)
	})

	t.Run("unknown pin on a later edge beats a mismatch on an earlier one", func(t *testing.T) {
		t.Parallel()
		g := graph.Empty()
		src := g.AddNode("src.string", cty.NilVal)
		sink := g.AddNode("sink", cty.NilVal)
		g.Connect(src, "value", sink, "count")
		g.Connect(src, "value", sink, "nope")

		requireValidationError(t, Validate(g, testRegistry()), ErrUnknownPin)
	})

	t.Run("mismatch beats cycle", func(t *testing.T) {
		t.Parallel()
		g := graph.Empty()
		a := g.AddNode("relay", cty.NilVal)
		b := g.AddNode("relay", cty.NilVal)
		g.Connect(a, "out", b, "in")
		g.Connect(b, "out", a, "in")
		g.Connect(g.AddNode("src.string", cty.NilVal), "value", g.AddNode("sink", cty.NilVal), "count")

		requireValidationError(t, Validate(g, testRegistry()), ErrTypeMismatch)
	})
}

func TestValidate_Idempotent(t *testing.T) {
	t.Parallel()

	g := graph.Empty()
	g.Connect(g.AddNode("src.string", cty.NilVal), "value", g.AddNode("sink", cty.NilVal), "count")
	reg := testRegistry()

	first := Validate(g, reg)
	second := Validate(g, reg)
	require.Error(t, first)
	assert.Equal(t, first.Error(), second.Error())
}
