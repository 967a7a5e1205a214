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

// Package schedule orders the stream graph for emission.
package schedule

import (
	"strings"

	"github.com/golang/glog"

	"github.com/YPares/frp-arduino/build/comperr"
	"github.com/YPares/frp-arduino/build/ir"
)

// Schedule returns the subset of the graph reachable from its root
// streams, in topological order: every stream appears after all the
// streams it takes inputs from. Ties between independent streams are
// broken by declaration order, so the order is deterministic for a
// given graph. A dependency cycle is a fatal error: fold state is
// resolved inside expression lowering and never shows up as a graph
// edge, so any cycle seen here is illegal.
func Schedule(g *ir.Graph) ([]*ir.Stream, error) {
	// The whole graph goes through the topological pass, so a cycle
	// is rejected even in a subgraph no root reaches. The returned
	// order then keeps only the reachable subset.
	pending := make([]int, g.Len())
	emitted := make([]bool, g.Len())
	for id := 0; id < g.Len(); id++ {
		pending[id] = g.At(id).NumInputs()
	}
	var all []*ir.Stream
	for len(all) < g.Len() {
		next := -1
		for id := 0; id < g.Len(); id++ {
			if !emitted[id] && pending[id] == 0 {
				next = id
				break
			}
		}
		if next < 0 {
			return nil, cycleError(g, emitted)
		}
		s := g.At(next)
		emitted[next] = true
		all = append(all, s)
		for _, out := range s.Outputs() {
			pending[out.Consumer]--
		}
	}
	reachable := g.ReachableFrom(g.Roots())
	var order []*ir.Stream
	for _, s := range all {
		if reachable[s.ID()] {
			order = append(order, s)
		}
	}
	glog.V(2).Infof("scheduled %d of %d streams", len(order), g.Len())
	return order, nil
}

func cycleError(g *ir.Graph, emitted []bool) error {
	var stuck []string
	for id := 0; id < g.Len(); id++ {
		if !emitted[id] {
			stuck = append(stuck, g.At(id).Name())
		}
	}
	return comperr.Errorf(comperr.CyclicGraph, stuck[0], "dependency cycle through %s", strings.Join(stuck, ", "))
}
