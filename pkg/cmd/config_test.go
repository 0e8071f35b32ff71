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
	"testing"

	"github.com/consensys/go-cclosure/pkg/cc"
	"github.com/google/go-cmp/cmp"
)

func Test_Config_01(t *testing.T) {
	checkConfig(t, "", defaultEngineConfig())
}

func Test_Config_02(t *testing.T) {
	expected := engineConfig{cc.Config{IgnoreInstances: true, Values: false, AllHO: false}, []string{"f", "g"}, "all"}
	checkConfig(t, "values: false\nho: [f, g]\ntransparency: all\n", expected)
}

func Test_Config_03(t *testing.T) {
	expected := engineConfig{cc.Config{IgnoreInstances: false, Values: true, AllHO: true}, nil, "reducible"}
	checkConfig(t, "ignore_instances: false\nall_ho: true\n", expected)
}

func Test_Config_04(t *testing.T) {
	if _, err := parseEngineConfig([]byte("values: [")); err == nil {
		t.Errorf("malformed configuration should be rejected")
	}
}

func Test_Config_05(t *testing.T) {
	// Functions named on the command line extend those of the file
	merged := mergeNames([]string{"g", "f"}, []string{"f", "h"})
	//
	if diff := cmp.Diff([]string{"f", "g", "h"}, merged); diff != "" {
		t.Errorf("unexpected functions (-expected +actual):\n%s", diff)
	}
}

func checkConfig(t *testing.T, text string, expected engineConfig) {
	config, err := parseEngineConfig([]byte(text))
	if err != nil {
		t.Fatal(err)
	}
	//
	if diff := cmp.Diff(expected, config); diff != "" {
		t.Errorf("unexpected configuration (-expected +actual):\n%s", diff)
	}
}
