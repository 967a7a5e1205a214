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

package comperr

import "go.uber.org/multierr"

// Appender collects compilation errors while a pass keeps going,
// so that a malformed graph reports every offending stream instead
// of only the first one.
type Appender struct {
	errs error
}

// Append an error. Appending nil is a no-op.
func (a *Appender) Append(err error) {
	a.errs = multierr.Append(a.errs, err)
}

// Appendf formats a compilation error and appends it.
func (a *Appender) Appendf(kind Kind, stream string, format string, args ...any) {
	a.Append(Errorf(kind, stream, format, args...))
}

// Empty returns true if no error has been appended.
func (a *Appender) Empty() bool { return a.errs == nil }

// ToError returns all appended errors joined together, or nil.
func (a *Appender) ToError() error { return a.errs }
