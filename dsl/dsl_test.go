package dsl_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/YPares/frp-arduino/board/uno"
	"github.com/YPares/frp-arduino/build/comperr"
	"github.com/YPares/frp-arduino/build/ir"
	"github.com/YPares/frp-arduino/dsl"
)

func TestProgramCompilesBlink(t *testing.T) {
	pin, err := uno.DigitalPin(13)
	if err != nil {
		t.Fatalf("DigitalPin: %v", err)
	}
	p := dsl.NewProgram()
	clock := p.Define("clock", uno.Timer1())
	level := p.Transform("level", ir.Even{X: ir.Input{Index: 0}}, clock)
	p.Define("led", uno.OutputPin(pin), level)

	var out bytes.Buffer
	if err := p.Compile(&out); err != nil {
		t.Fatalf("Compile: %v", err)
	}
	src := out.String()
	for _, want := range []string{
		"static void clock(void) {",
		"    bool tmp0 = (input_0 % 2) == 0;",
		"    led(0, (void*)&tmp0);",
		"        DDRB |= (1 << PB5);",
		"    while (1) {",
		"        clock();",
	} {
		if !strings.Contains(src, want) {
			t.Errorf("output does not contain %q", want)
		}
	}
}

func TestMapNamesAfterProducer(t *testing.T) {
	p := dsl.NewProgram()
	clock := p.Define("clock", uno.Timer1())
	first := p.Map(ir.Even{X: ir.Input{Index: 0}}, clock)
	p.Map(ir.Not{X: ir.Input{Index: 0}}, first)

	g, err := p.Graph()
	if err != nil {
		t.Fatalf("Graph: %v", err)
	}
	if _, ok := g.Lookup("clock_map0"); !ok {
		t.Errorf("first map not named clock_map0")
	}
	if _, ok := g.Lookup("clock_map0_map0"); !ok {
		t.Errorf("second map not named clock_map0_map0")
	}
}

func TestCompileFailureWritesNothing(t *testing.T) {
	p := dsl.NewProgram()
	clock := p.Define("clock", uno.Timer1())
	p.Transform("bad", ir.Not{X: ir.Input{Index: 0}}, clock)

	var out bytes.Buffer
	err := p.Compile(&out)
	if !comperr.IsKind(err, comperr.TypeMismatch) {
		t.Fatalf("got error %v but want a type mismatch", err)
	}
	if out.Len() != 0 {
		t.Errorf("a failed compilation wrote %d bytes", out.Len())
	}
}
