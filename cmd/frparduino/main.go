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

// Command frparduino compiles declarative stream graph descriptions
// into freestanding C for AVR boards.
package main

import (
	goflag "flag"
	"fmt"
	"os"

	"github.com/golang/glog"
	"github.com/spf13/cobra"

	"github.com/YPares/frp-arduino/build/importers/yamlgraph"
	"github.com/YPares/frp-arduino/cgen"
)

func newCompileCmd() *cobra.Command {
	var input, output string
	cmd := &cobra.Command{
		Use:   "compile",
		Short: "Compile a YAML stream graph into a C source unit",
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := yamlgraph.Load(input)
			if err != nil {
				return err
			}
			src, err := cgen.Compile(g)
			if err != nil {
				return err
			}
			if output == "" || output == "-" {
				fmt.Fprint(cmd.OutOrStdout(), src)
				return nil
			}
			// The unit is rendered in memory first: the target file
			// only comes into existence on a clean compilation.
			if err := os.WriteFile(output, []byte(src), 0o644); err != nil {
				return err
			}
			glog.V(1).Infof("wrote %s", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "graph description to compile")
	cmd.Flags().StringVarP(&output, "output", "o", "-", "target C file, - for stdout")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func main() {
	root := &cobra.Command{
		Use:           "frparduino",
		Short:         "A dataflow-to-C compiler for AVR boards",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().AddGoFlagSet(goflag.CommandLine)
	root.AddCommand(newCompileCmd())
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}
