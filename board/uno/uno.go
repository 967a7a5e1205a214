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

// Package uno describes the Arduino Uno (ATmega328P) target: its
// digital pins and the driver programs for its peripherals.
package uno

import (
	_ "embed"
	"sync"

	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"
)

//go:embed pins.yaml
var pinsYAML []byte

// Pin is one digital pin: the registers and bit name that address it.
type Pin struct {
	Number int    `yaml:"number"`
	DDR    string `yaml:"ddr"`
	Port   string `yaml:"port"`
	In     string `yaml:"in"`
	Bit    string `yaml:"bit"`
}

type pinsFile struct {
	Pins []Pin `yaml:"pins"`
}

var loadPins = sync.OnceValues(func() (map[int]Pin, error) {
	var file pinsFile
	if err := yaml.Unmarshal(pinsYAML, &file); err != nil {
		return nil, errors.Errorf("cannot parse embedded pin table: %v", err)
	}
	pins := make(map[int]Pin, len(file.Pins))
	for _, p := range file.Pins {
		pins[p.Number] = p
	}
	return pins, nil
})

// DigitalPin returns the pin with the given board number.
func DigitalPin(number int) (Pin, error) {
	pins, err := loadPins()
	if err != nil {
		return Pin{}, err
	}
	p, ok := pins[number]
	if !ok {
		return Pin{}, errors.Errorf("the board has no digital pin %d", number)
	}
	return p, nil
}
