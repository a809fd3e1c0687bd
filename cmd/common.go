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

package cmd

import (
	"bufio"
	"io"
	"os"

	"github.com/wtsi-hgi/moff/config"
	"github.com/wtsi-hgi/moff/matrix"
	"github.com/wtsi-hgi/moff/runner"
	"github.com/wtsi-hgi/moff/score"
	"github.com/wtsi-hgi/moff/store"
	"github.com/wtsi-hgi/moff/types"
)

const (
	ErrNoDB = Error("--archive needs a results database; set " + config.EnvVarDBDriver)

	dirPerm    = 0755
	inputFlag  = "input"
	outputFlag = "output"
	prefixFlag = "prefix"
)

// loadConfig gets our Config from the environment, with any matrix and worker
// flags taking precedence.
func loadConfig() (*config.Config, error) {
	c, err := config.FromEnvWithMatrices(m1Path, m2Path)
	if err != nil {
		return nil, err
	}

	if workers > 0 {
		c.Workers = workers
	}

	if archiveRun != "" && !c.HasDB() {
		return nil, ErrNoDB
	}

	return c, nil
}

func loadMatrices(c *config.Config) (*matrix.Store, error) {
	infof("loading M1 matrix %s and M2 matrix %s", c.M1Path, c.M2Path)

	m, err := matrix.Load(c.M1Path, c.M2Path)
	if err != nil {
		return nil, err
	}

	n1, n2 := m.Len()
	infof("loaded %d M1 and %d M2 entries", n1, n2)

	return m, nil
}

// newRunner loads the configured matrices and returns a Runner that scores
// with them.
func newRunner(c *config.Config) (*runner.Runner, error) {
	m, err := loadMatrices(c)
	if err != nil {
		return nil, err
	}

	scorer := score.New(m)
	scorer.ScorePAMWildcard = scorePAMN

	r := runner.New(scorer, c.Workers)
	r.Logger = appLogger.New("pkg", "runner")

	return r, nil
}

// prepareOutputDir creates the output directory if it doesn't exist.
func prepareOutputDir(dir string) error {
	_, err := os.Stat(dir)
	if err == nil {
		warnf("output directory %s already exists", dir)

		return nil
	}

	if err = createDirIfNotExist(dir, err); err != nil {
		return err
	}

	infof("created output directory %s", dir)

	return nil
}

func createDirIfNotExist(dir string, statErr error) error {
	if !os.IsNotExist(statErr) {
		return statErr
	}

	return os.MkdirAll(dir, dirPerm)
}

// writeTable creates the file at path and writes to it with the given func.
func writeTable(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(f)

	if err = write(bw); err != nil {
		f.Close()

		return err
	}

	if err = bw.Flush(); err != nil {
		f.Close()

		return err
	}

	return f.Close()
}

// logReport summarises a run. Details of each skipped row are logged at the
// Debug level by the runner.
func logReport(report *runner.Report) {
	infof("%d rows read, %d scored", report.Rows, len(report.Scored))

	if report.Skipped() > 0 {
		counts := report.Counts()
		warnf("%d rows skipped: %d invalid guide-target pairs, %d mismatches not covered by the matrices",
			report.Skipped(), counts[runner.ReasonValidation], counts[runner.ReasonScoring])
	}

	if report.Excluded > 0 {
		infof("%d perfectly matching sites left out of aggregates", report.Excluded)
	}

	for _, guide := range report.EmptyGuides {
		warnf("guide %s has no scorable sites, so has no aggregate", guide)
	}
}

// archive saves results to the configured database if --archive was used.
func archive(c *config.Config, scored []types.ScoredPair, aggs []types.AggregateRecord) error {
	if archiveRun == "" {
		return nil
	}

	s, err := store.FromConfig(c)
	if err != nil {
		return err
	}

	defer s.Close()

	if err = s.SaveScores(archiveRun, scored); err != nil {
		return err
	}

	if aggs != nil {
		if err = s.SaveAggregates(archiveRun, aggs); err != nil {
			return err
		}
	}

	infof("results archived in the %s database as run %s", c.DBDriver, archiveRun)

	return nil
}
