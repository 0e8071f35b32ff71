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
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/consensys/go-cclosure/pkg/script"
	"github.com/consensys/go-cclosure/pkg/util/source"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var replCmd = &cobra.Command{
	Use:   "repl [flags]",
	Short: "Run problem script commands interactively.",
	Long:  `Read and execute problem script commands one line at a time, until end of input.`,
	Run: func(cmd *cobra.Command, args []string) {
		session := newSession(cmd)
		//
		if !term.IsTerminal(0) {
			runRepl(session, bufio.NewReader(os.Stdin).ReadString, os.Stdout)
			return
		}
		// Line editing makes no sense without raw mode
		state, err := term.MakeRaw(0)
		if err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
		//
		defer term.Restore(0, state)
		//
		screen := struct {
			io.Reader
			io.Writer
		}{os.Stdin, os.Stdout}
		//
		terminal := term.NewTerminal(screen, "> ")
		readLine := func(byte) (string, error) { return terminal.ReadLine() }
		// The terminal translates newlines for raw mode
		runRepl(session, readLine, terminal)
	},
}

// Execute lines until the input is exhausted.  Errors are reported, but do not
// stop the session.
func runRepl(session *script.Session, readLine func(byte) (string, error), out io.Writer) {
	session.SetOutput(out)
	//
	for n := 1; ; n++ {
		line, err := readLine('\n')
		//
		if strings.TrimSpace(line) != "" {
			srcfile := source.NewSourceFile(fmt.Sprintf("<stdin:%d>", n), []byte(line))
			//
			if err := session.Run(srcfile); err != nil {
				fmt.Fprintf(out, "error: %s\n", err.Message())
			}
		}
		//
		if err != nil {
			return
		}
	}
}

//nolint:errcheck
func init() {
	rootCmd.AddCommand(replCmd)
}

