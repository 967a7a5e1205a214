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

package yamlgraph

import (
	"github.com/pkg/errors"
	"github.com/spf13/cast"

	"github.com/YPares/frp-arduino/board/uno"
	"github.com/YPares/frp-arduino/build/ir"
)

// parseDriver decodes a board driver reference: either a bare name
// ("timer1") or a single-key map with a parameter ("output-pin: 13").
func parseDriver(v any) (ir.Body, error) {
	if name, ok := v.(string); ok {
		switch name {
		case "timer1":
			return uno.Timer1(), nil
		}
		return nil, errors.Errorf("unknown driver %q", name)
	}
	name, arg, err := constructor(v)
	if err != nil {
		return nil, errors.Errorf("a driver is a name or a single-key map: %v", err)
	}
	switch name {
	case "output-pin":
		p, err := pinArg(arg)
		if err != nil {
			return nil, err
		}
		return uno.OutputPin(p), nil
	case "input-pin":
		p, err := pinArg(arg)
		if err != nil {
			return nil, err
		}
		return uno.InputPin(p), nil
	case "uart":
		baud, err := cast.ToUint32E(arg)
		if err != nil || baud == 0 {
			return nil, errors.Errorf("uart expects a positive baud rate, got %v", arg)
		}
		return uno.UART(baud), nil
	}
	return nil, errors.Errorf("unknown driver %q", name)
}

func pinArg(arg any) (uno.Pin, error) {
	number, err := cast.ToIntE(arg)
	if err != nil {
		return uno.Pin{}, errors.Errorf("expected a pin number, got %v", arg)
	}
	return uno.DigitalPin(number)
}
