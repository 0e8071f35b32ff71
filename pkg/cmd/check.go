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

	"github.com/consensys/go-cclosure/pkg/util/source"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check [flags] script_file(s)",
	Short: "Run one or more problem scripts.",
	Long: `Run one or more problem scripts, reporting any expectation which fails.
	Each script is run in a fresh session.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		srcfiles, err := source.ReadFiles(args...)
		if err != nil {
			fmt.Println(err)
			os.Exit(3)
		}
		//
		failures := uint(0)
		//
		for i := range srcfiles {
			session := newSession(cmd)
			//
			log.Debugf("running %s", srcfiles[i].Filename())
			//
			if err := session.Run(&srcfiles[i]); err != nil {
				printSyntaxError(err)
				os.Exit(4)
			}
			//
			failures += session.Failures()
		}
		//
		if failures > 0 {
			fmt.Printf("%d expectation(s) failed\n", failures)
			os.Exit(1)
		}
	},
}

//nolint:errcheck
func init() {
	rootCmd.AddCommand(checkCmd)
}
