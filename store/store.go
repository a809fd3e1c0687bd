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

// Package store archives score and aggregate tables in a SQL database, keyed
// by a run name.
package store

import (
	"database/sql"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq" // postgres driver
	"github.com/pkg/errors"
	"github.com/wtsi-hgi/moff/config"
	"github.com/wtsi-hgi/moff/types"
	_ "modernc.org/sqlite" // sqlite driver
)

type Error string

func (e Error) Error() string { return string(e) }

const (
	ErrUnknownDriver = Error("unknown database driver; use mysql, sqlite or postgres")
	ErrNoRun         = Error("run name required")

	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	sqlNetwork      = "tcp"
	connMaxLifetime = time.Minute * 3
	maxOpenConns    = 10
	maxIdleConns    = 10
)

const createScores = `
CREATE TABLE IF NOT EXISTS moff_scores (
	run VARCHAR(255) NOT NULL,
	row_index INTEGER NOT NULL,
	guide VARCHAR(23) NOT NULL,
	target VARCHAR(23) NOT NULL,
	mismatches INTEGER NOT NULL,
	mde DOUBLE PRECISION NOT NULL,
	ce DOUBLE PRECISION NOT NULL,
	score DOUBLE PRECISION NOT NULL,
	PRIMARY KEY (run, row_index)
)`

const createAggregates = `
CREATE TABLE IF NOT EXISTS moff_aggregates (
	run VARCHAR(255) NOT NULL,
	row_index INTEGER NOT NULL,
	guide VARCHAR(23) NOT NULL,
	sites INTEGER NOT NULL,
	score DOUBLE PRECISION NOT NULL,
	PRIMARY KEY (run, row_index)
)`

const insertScore = `
INSERT INTO moff_scores (run, row_index, guide, target, mismatches, mde, ce, score)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

const insertAggregate = `
INSERT INTO moff_aggregates (run, row_index, guide, sites, score)
VALUES (?, ?, ?, ?, ?)`

const deleteScores = `DELETE FROM moff_scores WHERE run = ?`

const deleteAggregates = `DELETE FROM moff_aggregates WHERE run = ?`

const getScores = `
SELECT guide, target, mismatches, mde, ce, score
FROM moff_scores WHERE run = ? ORDER BY row_index`

const getAggregates = `
SELECT guide, sites, score
FROM moff_aggregates WHERE run = ? ORDER BY row_index`

// Store is a connection to a results database.
type Store struct {
	pool   *sql.DB
	driver string
}

// New connects to the database with the given driver (DriverMySQL,
// DriverSQLite or DriverPostgres) and data source name, creating the results
// tables if they don't exist.
func New(driver, dsn string) (*Store, error) {
	switch driver {
	case DriverMySQL, DriverSQLite, DriverPostgres:
	default:
		return nil, errors.Wrapf(ErrUnknownDriver, "%q", driver)
	}

	pool, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s database", driver)
	}

	pool.SetConnMaxLifetime(connMaxLifetime)
	pool.SetMaxIdleConns(maxIdleConns)

	if driver == DriverSQLite {
		pool.SetMaxOpenConns(1)
	} else {
		pool.SetMaxOpenConns(maxOpenConns)
	}

	s := &Store{pool: pool, driver: driver}

	if err = s.createTables(); err != nil {
		pool.Close()

		return nil, err
	}

	return s, nil
}

// FromConfig connects using the configured driver. For MySQL the DSN is made
// by MySQLConfigFromConfig(); other drivers use the configured DSN.
func FromConfig(c *config.Config) (*Store, error) {
	if c.DBDriver == DriverMySQL {
		return New(DriverMySQL, MySQLConfigFromConfig(c).FormatDSN())
	}

	return New(c.DBDriver, c.DBDSN)
}

// MySQLConfigFromConfig makes a mysql.Config from the MOFF_SQL_* settings.
func MySQLConfigFromConfig(c *config.Config) *mysql.Config {
	mc := mysql.NewConfig()
	mc.User = c.User
	mc.Passwd = c.Password
	mc.Net = sqlNetwork
	mc.Addr = net.JoinHostPort(c.Host, c.Port)
	mc.DBName = c.DBName

	return mc
}

func (s *Store) createTables() error {
	for _, ddl := range []string{createScores, createAggregates} {
		if _, err := s.pool.Exec(ddl); err != nil {
			return errors.Wrap(err, "failed to create results tables")
		}
	}

	return nil
}

// rebind converts ? placeholders to the $n form postgres needs.
func (s *Store) rebind(query string) string {
	if s.driver != DriverPostgres {
		return query
	}

	var b strings.Builder

	n := 0

	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))

			continue
		}

		b.WriteRune(r)
	}

	return b.String()
}

// SaveScores stores the given pairs, in order, under the given run name, in a
// single transaction. Any scores previously saved under that run are replaced.
func (s *Store) SaveScores(run string, pairs []types.ScoredPair) error {
	if run == "" {
		return ErrNoRun
	}

	return s.inTx(run, deleteScores, insertScore, func(stmt *sql.Stmt) error {
		for i, sp := range pairs {
			if _, err := stmt.Exec(run, i, string(sp.Guide), string(sp.Target),
				sp.Mismatches, sp.MDE, sp.CE, sp.Score); err != nil {
				return err
			}
		}

		return nil
	})
}

// SaveAggregates stores the given records, in order, under the given run
// name, in a single transaction. Any aggregates previously saved under that
// run are replaced.
func (s *Store) SaveAggregates(run string, recs []types.AggregateRecord) error {
	if run == "" {
		return ErrNoRun
	}

	return s.inTx(run, deleteAggregates, insertAggregate, func(stmt *sql.Stmt) error {
		for i, rec := range recs {
			if _, err := stmt.Exec(run, i, string(rec.Guide), len(rec.Sites), rec.Score); err != nil {
				return err
			}
		}

		return nil
	})
}

// inTx clears the run with the given delete query, then calls fn with the
// prepared insert query, all in one transaction.
func (s *Store) inTx(run, deleteQuery, insertQuery string, fn func(*sql.Stmt) error) error {
	tx, err := s.pool.Begin()
	if err != nil {
		return err
	}

	if _, err = tx.Exec(s.rebind(deleteQuery), run); err != nil {
		tx.Rollback() //nolint:errcheck

		return errors.Wrap(err, "failed to clear previous results")
	}

	stmt, err := tx.Prepare(s.rebind(insertQuery))
	if err != nil {
		tx.Rollback() //nolint:errcheck

		return err
	}

	defer stmt.Close()

	if err = fn(stmt); err != nil {
		tx.Rollback() //nolint:errcheck

		return errors.Wrap(err, "failed to save results")
	}

	return tx.Commit()
}

// Scores returns the pairs stored under the given run name, in their original
// order.
func (s *Store) Scores(run string) ([]types.ScoredPair, error) {
	rows, err := s.pool.Query(s.rebind(getScores), run)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var pairs []types.ScoredPair

	for rows.Next() {
		var (
			guide, target string
			sp            types.ScoredPair
		)

		if err := rows.Scan(&guide, &target, &sp.Mismatches, &sp.MDE, &sp.CE, &sp.Score); err != nil {
			return nil, err
		}

		sp.SequencePair, err = types.NewSequencePair(guide, target)
		if err != nil {
			return nil, err
		}

		pairs = append(pairs, sp)
	}

	return pairs, rows.Err()
}

// Aggregate is a stored aggregate record: the guide, its number of sites and
// its aggregate score.
type Aggregate struct {
	Guide string
	Sites int
	Score float64
}

// Aggregates returns the aggregates stored under the given run name, in their
// original order.
func (s *Store) Aggregates(run string) ([]Aggregate, error) {
	rows, err := s.pool.Query(s.rebind(getAggregates), run)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var aggs []Aggregate

	for rows.Next() {
		var agg Aggregate

		if err := rows.Scan(&agg.Guide, &agg.Sites, &agg.Score); err != nil {
			return nil, err
		}

		aggs = append(aggs, agg)
	}

	return aggs, rows.Err()
}

// Close closes the connection to the database.
func (s *Store) Close() error {
	return s.pool.Close()
}
