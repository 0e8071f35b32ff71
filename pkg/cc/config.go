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
package cc

// Config determines how terms are encoded by the closure.
type Config struct {
	// Instance implicit arguments are not recursed into.  Instead, instances of
	// the same type which are definitionally equal are merged.
	IgnoreInstances bool `yaml:"ignore_instances"`
	// Numeral literals are interpreted values, such that merging two distinct
	// literals is inconsistent.
	Values bool `yaml:"values"`
	// Every application uses the higher-order encoding, regardless of its head.
	AllHO bool `yaml:"all_ho"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{IgnoreInstances: true, Values: true, AllHO: false}
}
