package cgen_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/YPares/frp-arduino/board/uno"
	"github.com/YPares/frp-arduino/build/comperr"
	"github.com/YPares/frp-arduino/build/ir"
	"github.com/YPares/frp-arduino/cgen"
)

func mustGraph(t *testing.T, decls []ir.StreamDecl) *ir.Graph {
	t.Helper()
	g, err := ir.NewGraph(decls)
	if err != nil {
		t.Fatalf("NewGraph: %v", err)
	}
	return g
}

func mustCompile(t *testing.T, decls []ir.StreamDecl) string {
	t.Helper()
	out, err := cgen.Compile(mustGraph(t, decls))
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	return out
}

func in(index int, name string) ir.InputDecl {
	return ir.InputDecl{Index: index, Stream: name}
}

func blinkDecls(t *testing.T) []ir.StreamDecl {
	t.Helper()
	pin, err := uno.DigitalPin(13)
	if err != nil {
		t.Fatalf("DigitalPin: %v", err)
	}
	return []ir.StreamDecl{
		{Name: "clock", Body: uno.Timer1()},
		{Name: "level", Inputs: []ir.InputDecl{in(0, "clock")}, Body: ir.Transform{
			Expr: ir.Even{X: ir.Input{Index: 0}},
		}},
		{Name: "led", Inputs: []ir.InputDecl{in(0, "level")}, Body: uno.OutputPin(pin)},
	}
}

func TestCompileBlink(t *testing.T) {
	want := strings.Join([]string{
		"#include <avr/io.h>",
		"#include <stdbool.h>",
		"#include <stdint.h>",
		"",
		"struct list {",
		"    uint8_t size;",
		"    void *values;",
		"};",
		"",
		"static void clock(void);",
		"static void level(uint8_t arg_index, void *arg);",
		"static void led(uint8_t arg_index, void *arg);",
		"",
		"static void clock(void) {",
		"    uint16_t tmp0 = TCNT1;",
		"    level(0, (void*)&tmp0);",
		"}",
		"",
		"static void level(uint8_t arg_index, void *arg) {",
		"    static uint16_t input_0;",
		"    switch (arg_index) {",
		"    case 0:",
		"        input_0 = *((uint16_t*)arg);",
		"        break;",
		"    }",
		"    bool tmp0 = (input_0 % 2) == 0;",
		"    led(0, (void*)&tmp0);",
		"}",
		"",
		"static void led(uint8_t arg_index, void *arg) {",
		"    static bool input_0;",
		"    switch (arg_index) {",
		"    case 0:",
		"        input_0 = *((bool*)arg);",
		"        break;",
		"    }",
		"    if (input_0) {",
		"        PORTB |= (1 << PB5);",
		"    } else {",
		"        PORTB &= ~(1 << PB5);",
		"    }",
		"}",
		"",
		"int main(void) {",
		"    {",
		"        uint8_t tmp0 = 5;",
		"        TCCR1B = tmp0;",
		"    }",
		"    {",
		"        DDRB |= (1 << PB5);",
		"    }",
		"    while (1) {",
		"        clock();",
		"    }",
		"    return 0;",
		"}",
	}, "\n") + "\n"
	got := mustCompile(t, blinkDecls(t))
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unit mismatch (-want +got):\n%s", diff)
	}
}

func TestCompileIsDeterministic(t *testing.T) {
	first := mustCompile(t, blinkDecls(t))
	second := mustCompile(t, blinkDecls(t))
	if first != second {
		t.Errorf("two compilations of the same graph differ")
	}
}

func TestCompileFanOutArgIndices(t *testing.T) {
	out := mustCompile(t, []ir.StreamDecl{
		{Name: "clock", Body: uno.Timer1()},
		{Name: "double", Inputs: []ir.InputDecl{in(0, "clock")}, Body: ir.Transform{
			Expr: ir.Add{X: ir.Input{Index: 0}, Y: ir.Input{Index: 0}},
		}},
		{Name: "join", Inputs: []ir.InputDecl{in(0, "clock"), in(1, "double")}, Body: ir.Transform{
			Expr: ir.Sub{X: ir.Input{Index: 1}, Y: ir.Input{Index: 0}},
		}},
	})
	// clock fans out to both consumers from one temporary; each call
	// carries the consumer's own argument index.
	for _, want := range []string{
		"    double(0, (void*)&tmp0);",
		"    join(0, (void*)&tmp0);",
		"    join(1, (void*)&tmp0);",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output does not contain %q", want)
		}
	}
}

func TestCompileGuardedDelivery(t *testing.T) {
	out := mustCompile(t, []ir.StreamDecl{
		{Name: "clock", Body: uno.Timer1()},
		{Name: "evens", Inputs: []ir.InputDecl{in(0, "clock")}, Body: ir.Transform{
			Expr: ir.Filter{Cond: ir.Even{X: ir.Input{Index: 0}}, Value: ir.Input{Index: 0}},
		}},
		{Name: "sink", Inputs: []ir.InputDecl{in(0, "evens")}, Body: ir.Driver{
			Init:   ir.End{},
			Update: ir.WriteWord{Reg: "OCR1A", Value: ir.InputValue{}, Next: ir.End{}},
		}},
	})
	guarded := strings.Join([]string{
		"    if (tmp0) {",
		"        sink(0, (void*)&input_0);",
		"    }",
	}, "\n")
	if !strings.Contains(out, guarded) {
		t.Errorf("output does not contain the guarded call:\n%s", out)
	}
}

func TestCompileUnrolledDelivery(t *testing.T) {
	out := mustCompile(t, []ir.StreamDecl{
		{Name: "clock", Body: uno.Timer1()},
		{Name: "digits", Inputs: []ir.InputDecl{in(0, "clock")}, Body: ir.Transform{
			Expr: ir.Flatten{X: ir.NumberToByteArray{X: ir.Input{Index: 0}}},
		}},
		{Name: "serial", Inputs: []ir.InputDecl{in(0, "digits")}, Body: uno.UART(9600)},
	})
	// The digit loop already took i0, so the delivery loop gets i1.
	unrolled := strings.Join([]string{
		"    for (uint8_t i1 = 0; i1 < tmp0.size; i1 = i1 + 1) {",
		"        uint8_t elem0 = ((uint8_t*)tmp0.values)[i1];",
		"        serial(0, (void*)&elem0);",
		"    }",
	}, "\n")
	if !strings.Contains(out, unrolled) {
		t.Errorf("output does not contain the unrolled delivery:\n%s", out)
	}
}

func TestCompileIsolatesDriverInits(t *testing.T) {
	// Timer1 and UART both allocate temporaries in their init
	// programs; each init must live in its own scope in main or the
	// second tmp0 would redefine the first.
	out := mustCompile(t, []ir.StreamDecl{
		{Name: "clock", Body: uno.Timer1()},
		{Name: "count", Inputs: []ir.InputDecl{in(0, "clock")}, Body: ir.Transform{
			Expr: ir.Fold{
				Step: ir.Add{X: ir.Input{Index: 1}, Y: ir.WordConstant{Value: 1}},
				Seed: ir.WordConstant{Value: 0},
			},
		}},
		{Name: "digits", Inputs: []ir.InputDecl{in(0, "count")}, Body: ir.Transform{
			Expr: ir.Flatten{X: ir.NumberToByteArray{X: ir.Input{Index: 0}}},
		}},
		{Name: "serial", Inputs: []ir.InputDecl{in(0, "digits")}, Body: uno.UART(9600)},
	})
	prologue := strings.Join([]string{
		"int main(void) {",
		"    {",
		"        uint8_t tmp0 = 5;",
		"        TCCR1B = tmp0;",
		"    }",
		"    {",
		"        uint8_t tmp0 = 0;",
		"        UBRR0H = tmp0;",
		"        uint8_t tmp1 = 103;",
		"        UBRR0L = tmp1;",
		"        UCSR0B |= (1 << TXEN0);",
		"    }",
	}, "\n")
	if !strings.Contains(out, prologue) {
		t.Errorf("main does not scope each driver init:\n%s", out)
	}
	if got := strings.Count(out, "    uint8_t tmp0 = "); got != 0 {
		t.Errorf("%d init temporaries declared in main's outer scope", got)
	}
}

func TestCompileFoldSlot(t *testing.T) {
	out := mustCompile(t, []ir.StreamDecl{
		{Name: "clock", Body: uno.Timer1()},
		{Name: "count", Inputs: []ir.InputDecl{in(0, "clock")}, Body: ir.Transform{
			Expr: ir.Fold{
				Step: ir.Add{X: ir.Input{Index: 1}, Y: ir.WordConstant{Value: 1}},
				Seed: ir.WordConstant{Value: 0},
			},
		}},
	})
	if !strings.Contains(out, "static uint16_t count_fold_0;\n") {
		t.Errorf("output does not declare the fold slot:\n%s", out)
	}
	seed := strings.Join([]string{
		"    {",
		"        uint16_t tmp0 = 0;",
		"        count_fold_0 = tmp0;",
		"    }",
	}, "\n")
	if !strings.Contains(out, seed) {
		t.Errorf("output does not seed the fold slot in main:\n%s", out)
	}
	if !strings.Contains(out, "    count_fold_0 = tmp2;") {
		t.Errorf("output does not update the fold slot:\n%s", out)
	}
}

func TestCompileFailureEmitsNothing(t *testing.T) {
	out, err := cgen.Compile(mustGraph(t, []ir.StreamDecl{
		{Name: "clock", Body: uno.Timer1()},
		{Name: "bad", Inputs: []ir.InputDecl{in(0, "clock")}, Body: ir.Transform{
			Expr: ir.Not{X: ir.Input{Index: 0}},
		}},
	}))
	if !comperr.IsKind(err, comperr.TypeMismatch) {
		t.Fatalf("got error %v but want a type mismatch", err)
	}
	if out != "" {
		t.Errorf("a failed compilation must produce no output, got %d bytes", len(out))
	}
}
