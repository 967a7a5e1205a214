package ir_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/YPares/frp-arduino/build/comperr"
	"github.com/YPares/frp-arduino/build/ir"
)

func wordSource() ir.Body {
	return ir.Driver{
		Init:   ir.End{},
		Update: ir.ReadWord{Reg: "TCNT1", Next: ir.End{}},
	}
}

func forward() ir.Body {
	return ir.Transform{Expr: ir.Input{Index: 0}}
}

func in(index int, name string) ir.InputDecl {
	return ir.InputDecl{Index: index, Stream: name}
}

func TestGraphOutputsDerivedFromInputs(t *testing.T) {
	g, err := ir.NewGraph([]ir.StreamDecl{
		{Name: "clock", Body: wordSource()},
		{Name: "level", Inputs: []ir.InputDecl{in(0, "clock")}, Body: forward()},
		{Name: "both", Inputs: []ir.InputDecl{in(0, "clock"), in(1, "level")}, Body: forward()},
	})
	if err != nil {
		t.Fatalf("NewGraph: %v", err)
	}
	clock, ok := g.Lookup("clock")
	if !ok {
		t.Fatal("clock not found")
	}
	level, _ := g.Lookup("level")
	both, _ := g.Lookup("both")
	wantClock := []ir.Output{
		{Consumer: level.ID(), ArgIndex: 0},
		{Consumer: both.ID(), ArgIndex: 0},
	}
	if diff := cmp.Diff(wantClock, clock.Outputs()); diff != "" {
		t.Errorf("clock outputs mismatch (-want +got):\n%s", diff)
	}
	wantLevel := []ir.Output{{Consumer: both.ID(), ArgIndex: 1}}
	if diff := cmp.Diff(wantLevel, level.Outputs()); diff != "" {
		t.Errorf("level outputs mismatch (-want +got):\n%s", diff)
	}
	if both.NumInputs() != 2 || both.Input(0) != clock.ID() || both.Input(1) != level.ID() {
		t.Errorf("both inputs not resolved to producers")
	}
}

func TestGraphErrors(t *testing.T) {
	tests := []struct {
		name  string
		decls []ir.StreamDecl
		kind  comperr.Kind
	}{
		{
			name: "unknown input",
			decls: []ir.StreamDecl{
				{Name: "a", Inputs: []ir.InputDecl{in(0, "ghost")}, Body: forward()},
			},
			kind: comperr.UnknownStream,
		},
		{
			name: "duplicate argument index",
			decls: []ir.StreamDecl{
				{Name: "clock", Body: wordSource()},
				{Name: "a", Inputs: []ir.InputDecl{in(0, "clock"), in(0, "clock")}, Body: forward()},
			},
			kind: comperr.DuplicateInput,
		},
		{
			name: "argument index outside arity",
			decls: []ir.StreamDecl{
				{Name: "clock", Body: wordSource()},
				{Name: "a", Inputs: []ir.InputDecl{in(1, "clock")}, Body: forward()},
			},
			kind: comperr.DuplicateInput,
		},
		{
			name: "stream declared twice",
			decls: []ir.StreamDecl{
				{Name: "a", Body: wordSource()},
				{Name: "a", Body: wordSource()},
			},
			kind: comperr.DuplicateInput,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			g, err := ir.NewGraph(test.decls)
			if err == nil {
				t.Fatalf("NewGraph returned a graph of %d streams but want a %s error", g.Len(), test.kind)
			}
			if !comperr.IsKind(err, test.kind) {
				t.Errorf("got error %v but want kind %s", err, test.kind)
			}
		})
	}
}

func TestReachableFrom(t *testing.T) {
	g, err := ir.NewGraph([]ir.StreamDecl{
		{Name: "clock", Body: wordSource()},
		{Name: "level", Inputs: []ir.InputDecl{in(0, "clock")}, Body: forward()},
		{Name: "orphan", Inputs: []ir.InputDecl{in(0, "stray")}, Body: forward()},
		{Name: "stray", Body: ir.Transform{Expr: ir.WordConstant{Value: 1}}},
	})
	if err != nil {
		t.Fatalf("NewGraph: %v", err)
	}
	// stray is a root too: everything is reachable from the full root set.
	all := g.ReachableFrom(g.Roots())
	for id := 0; id < g.Len(); id++ {
		if !all[id] {
			t.Errorf("stream %s not reachable from the root set", g.At(id).Name())
		}
	}
	// From clock alone, the stray chain is not referenced.
	clock, _ := g.Lookup("clock")
	part := g.ReachableFrom([]*ir.Stream{clock})
	level, _ := g.Lookup("level")
	orphan, _ := g.Lookup("orphan")
	if !part[clock.ID()] || !part[level.ID()] {
		t.Errorf("clock subgraph must reach clock and level")
	}
	if part[orphan.ID()] {
		t.Errorf("orphan must not be reachable from clock")
	}
}
