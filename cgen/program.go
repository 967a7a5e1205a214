// Copyright 2025 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package cgen assembles the stream graph into one freestanding C
// source unit for the AVR target.
//
// The unit is rendered entirely in memory and returned as a string:
// a failed compilation produces no output at all, so a caller can
// only ever write a unit that type-checked and scheduled cleanly.
package cgen

import (
	"github.com/golang/glog"

	"github.com/YPares/frp-arduino/build/infer"
	"github.com/YPares/frp-arduino/build/ir"
	"github.com/YPares/frp-arduino/build/lower"
	"github.com/YPares/frp-arduino/build/schedule"
)

type compiler struct {
	g     *ir.Graph
	types *infer.Result
	w     *writer

	// inits holds the driver initialization blocks, in scheduled
	// order, spliced into main before the drive loop. Each driver's
	// block gets its own braces so its temporaries cannot collide
	// with another driver's.
	inits [][]string
	// folds holds every persistent slot discovered while emitting,
	// in scheduled order of their streams.
	folds []*lower.FoldSlot
}

// Compile schedules, types, and lowers the graph, returning the
// complete C source unit. Compiling the same graph twice yields
// byte-identical output.
func Compile(g *ir.Graph) (string, error) {
	order, err := schedule.Schedule(g)
	if err != nil {
		return "", err
	}
	types, err := infer.Infer(g, order)
	if err != nil {
		return "", err
	}
	cp := &compiler{g: g, types: types, w: &writer{}}
	cp.prelude()
	for _, s := range order {
		if err := cp.function(s); err != nil {
			return "", err
		}
	}
	cp.main(order)
	glog.V(1).Infof("emitted %d stream functions", len(order))
	return cp.w.render(), nil
}

// prelude emits the includes and the generic list struct shared by
// every list value.
func (cp *compiler) prelude() {
	cp.w.headerf("#include <avr/io.h>")
	cp.w.headerf("#include <stdbool.h>")
	cp.w.headerf("#include <stdint.h>")
	cp.w.headerf("")
	cp.w.headerf("struct list {")
	cp.w.headerf("    uint8_t size;")
	cp.w.headerf("    void *values;")
	cp.w.headerf("};")
	cp.w.headerf("")
}

// main initializes every driver once, seeds every fold slot, then
// loops forever invoking the root streams once per pass.
func (cp *compiler) main(order []*ir.Stream) {
	// Fold slots go into the declaration pass: the functions that
	// update them are already in the body buffer at this point.
	if len(cp.folds) > 0 {
		cp.w.headerf("")
	}
	for _, f := range cp.folds {
		cp.w.headerf("static %s %s;", f.Type.CType(), f.Name)
	}
	cp.w.bodyf("int main(void) {")
	for _, init := range cp.inits {
		cp.w.bodyf("    {")
		cp.w.bodyLines(init)
		cp.w.bodyf("    }")
	}
	for _, f := range cp.folds {
		cp.w.bodyf("    {")
		cp.w.bodyLines(f.Init)
		cp.w.bodyf("    }")
	}
	cp.w.bodyf("    while (1) {")
	for _, s := range order {
		if s.IsRoot() {
			cp.w.bodyf("        %s();", s.Name())
		}
	}
	cp.w.bodyf("    }")
	cp.w.bodyf("    return 0;")
	cp.w.bodyf("}")
}
