/*******************************************************************************
 * Copyright (c) 2025 Genome Research Ltd.
 *
 * Author: Sendu Bala <sb10@sanger.ac.uk>
 *
 * Permission is hereby granted, free of charge, to any person obtaining
 * a copy of this software and associated documentation files (the
 * "Software"), to deal in the Software without restriction, including
 * without limitation the rights to use, copy, modify, merge, publish,
 * distribute, sublicense, and/or sell copies of the Software, and to
 * permit persons to whom the Software is furnished to do so, subject to
 * the following conditions:
 *
 * The above copyright notice and this permission notice shall be included
 * in all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND,
 * EXPRESS OR IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF
 * MERCHANTABILITY, FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.
 * IN NO EVENT SHALL THE AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY
 * CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER IN AN ACTION OF CONTRACT,
 * TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN CONNECTION WITH THE
 * SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.
 ******************************************************************************/

// package cmd is the cobra file that enables subcommands and handles
// command-line args.

package cmd

import (
	"fmt"
	"os"

	"github.com/inconshreveable/log15"
	"github.com/spf13/cobra"
)

type Error string

func (e Error) Error() string { return string(e) }

// appLogger is used for logging events in our commands.
var appLogger = log15.New()

// global options.
var (
	m1Path      string
	m2Path      string
	workers     int
	archiveRun  string
	scorePAMN   bool
	debugOutput bool
)

// RootCmd represents the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use:   "moff",
	Short: "moff predicts CRISPR/Cas9 off-target effects",
	Long: `moff predicts CRISPR/Cas9 off-target effects.

Off-target cleavage is predicted for mismatch-only guide-target pairs using two
static matrices: M1, the penalty for a single mismatch of a given type at a
given position, and M2, the interaction weight of each pair of mismatched
positions.

Use the "score" sub-command to predict the cleavage efficiency of individual
guide-target pairs, and the "aggregate" sub-command to combine many off-target
sites of each guide in to a genome-wide risk. The "matrices" sub-command
reports on how completely your matrices cover possible mismatches.

The matrix files are given with --m1 and --m2, or with the MOFF_M1_MATRIX and
MOFF_M2_MATRIX environment variables, which can also be set in a .env file in
the current directory.
`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if debugOutput {
			setLogLevel(log15.LvlDebug)
		}
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main(). It only needs to happen once to
// the rootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		die(err)
	}
}

func init() {
	// set up logging to stderr
	setLogLevel(log15.LvlInfo)

	RootCmd.PersistentFlags().StringVar(&m1Path, "m1", "",
		"path to the M1 (single mismatch) matrix file [$MOFF_M1_MATRIX]")
	RootCmd.PersistentFlags().StringVar(&m2Path, "m2", "",
		"path to the M2 (mismatch combination) matrix file [$MOFF_M2_MATRIX]")
	RootCmd.PersistentFlags().IntVarP(&workers, "workers", "w", 0,
		"number of pairs to score in parallel [$MOFF_WORKERS, default number of CPUs]")
	RootCmd.PersistentFlags().StringVar(&archiveRun, "archive", "",
		"also save results under this run name in the database configured by $MOFF_DB_DRIVER")
	RootCmd.PersistentFlags().BoolVar(&scorePAMN, "score-pam-n", false,
		"score mismatches at the N of the NGG PAM instead of ignoring them")
	RootCmd.PersistentFlags().BoolVar(&debugOutput, "debug", false,
		"log details of every skipped row")
}

func setLogLevel(lvl log15.Lvl) {
	appLogger.SetHandler(log15.LvlFilterHandler(lvl, log15.StderrHandler))
}

// cliPrintf outputs the message to STDOUT.
func cliPrintf(msg string, a ...interface{}) {
	fmt.Fprintf(os.Stdout, msg, a...)
}

// infof is a convenience to log a message at the Info level.
func infof(msg string, a ...interface{}) {
	appLogger.Info(fmt.Sprintf(msg, a...))
}

// warnf is a convenience to log a message at the Warn level.
func warnf(msg string, a ...interface{}) {
	appLogger.Warn(fmt.Sprintf(msg, a...))
}

// die is a convenience to log an error at the Error level and exit non zero.
func die(err error) {
	appLogger.Error(err.Error())
	os.Exit(1)
}
