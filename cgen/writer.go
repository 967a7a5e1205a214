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

package cgen

import (
	"fmt"
	"strings"
)

// writer accumulates the two passes of the output unit: forward
// declarations of every stream function first, full definitions
// after. C forbids calling a function before it is declared, and
// consumers are emitted in the same pass as the producers calling
// them, so every symbol is declared up front.
type writer struct {
	header []string
	body   []string
}

func (w *writer) headerf(format string, args ...any) {
	w.header = append(w.header, fmt.Sprintf(format, args...))
}

func (w *writer) bodyf(format string, args ...any) {
	w.body = append(w.body, fmt.Sprintf(format, args...))
}

func (w *writer) bodyLines(lines []string) {
	w.body = append(w.body, lines...)
}

func (w *writer) render() string {
	all := make([]string, 0, len(w.header)+len(w.body)+1)
	all = append(all, w.header...)
	all = append(all, "")
	all = append(all, w.body...)
	return strings.Join(all, "\n") + "\n"
}
