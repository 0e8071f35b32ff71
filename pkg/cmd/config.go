// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/consensys/go-cclosure/pkg/cc"
	"github.com/consensys/go-cclosure/pkg/kernel"
	"github.com/consensys/go-cclosure/pkg/script"
	"github.com/hashicorp/go-set/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// engineConfig is the contents of a configuration file, for example:
//
//	ignore_instances: true
//	values: false
//	ho: [f, g]
//	transparency: all
type engineConfig struct {
	cc.Config    `yaml:",inline"`
	HO           []string `yaml:"ho"`
	Transparency string   `yaml:"transparency"`
}

func defaultEngineConfig() engineConfig {
	return engineConfig{cc.DefaultConfig(), nil, kernel.REDUCIBLE.String()}
}

// Parse an engine configuration, starting from the defaults.
func parseEngineConfig(bytes []byte) (engineConfig, error) {
	config := defaultEngineConfig()
	//
	if err := yaml.Unmarshal(bytes, &config); err != nil {
		return config, err
	}
	//
	return config, nil
}

// Determine the engine configuration from the config file (if given), with any
// flags explicitly set taking precedence.  Functions given by --ho are added to
// those of the config file.
func readEngineConfig(cmd *cobra.Command) engineConfig {
	config := defaultEngineConfig()
	//
	if filename := GetString(cmd, "config"); filename != "" {
		bytes, err := os.ReadFile(filename)
		if err == nil {
			config, err = parseEngineConfig(bytes)
		}
		//
		if err != nil {
			fmt.Printf("%s: %s\n", filename, err)
			os.Exit(2)
		}
	}
	//
	flags := cmd.Flags()
	//
	if flags.Changed("ho") {
		config.HO = mergeNames(config.HO, GetStringSlice(cmd, "ho"))
	}
	//
	if flags.Changed("all-ho") {
		config.AllHO = GetFlag(cmd, "all-ho")
	}
	//
	if flags.Changed("ignore-instances") {
		config.IgnoreInstances = GetFlag(cmd, "ignore-instances")
	}
	//
	if flags.Changed("values") {
		config.Values = GetFlag(cmd, "values")
	}
	//
	if flags.Changed("transparency") {
		config.Transparency = GetString(cmd, "transparency")
	}
	//
	return config
}

// Union of two lists of function names, in sorted order.
func mergeNames(lhs []string, rhs []string) []string {
	names := set.From(lhs)
	names.InsertSlice(rhs)
	//
	merged := names.Slice()
	sort.Strings(merged)
	//
	return merged
}

// Construct a fresh session, as determined by the command's configuration.
func newSession(cmd *cobra.Command) *script.Session {
	config := readEngineConfig(cmd)
	//
	mode, err := kernel.ParseTransparency(config.Transparency)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	return script.NewSession(config.Config, config.HO, mode, os.Stdout)
}
