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

package config

import (
	"os"
	"runtime"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	EnvVarM1       = "MOFF_M1_MATRIX"
	EnvVarM2       = "MOFF_M2_MATRIX"
	EnvVarWorkers  = "MOFF_WORKERS"
	EnvVarCreds    = "MOFF_CREDENTIALS_FILE"
	EnvVarDBDriver = "MOFF_DB_DRIVER"
	EnvVarDBDSN    = "MOFF_DB_DSN"
	EnvVarUser     = "MOFF_SQL_USER"
	EnvVarPass     = "MOFF_SQL_PASS"
	EnvVarHost     = "MOFF_SQL_HOST"
	EnvVarPort     = "MOFF_SQL_PORT"
	EnvVarDBName   = "MOFF_SQL_DB"
)

type Error string

func (e Error) Error() string { return string(e) }

const (
	ErrMissingEnvs = Error("missing required environment variables " + EnvVarM1 + " and " + EnvVarM2)
	ErrBadWorkers  = Error(EnvVarWorkers + " must be a positive integer")
)

type Config struct {
	M1Path          string
	M2Path          string
	Workers         int
	CredentialsPath string
	DBDriver        string
	DBDSN           string
	User            string
	Password        string
	Host            string
	Port            string
	DBName          string
}

// FromEnv returns a new Config with properies populated from environment
// variables MOFF_*, where * is amongst: M1_MATRIX, M2_MATRIX, WORKERS,
// CREDENTIALS_FILE, DB_DRIVER, DB_DSN, SQL_USER, SQL_PASS, SQL_HOST, SQL_PORT
// and SQL_DB. Only the two matrix paths are required. WORKERS defaults to the
// number of CPUs.
//
// If these environment variables are defined in a file called .env (and not
// previously set in an environment variable), they will be automatically
// loaded.
//
// Optionally supply a directory to look for the .env file in.
func FromEnv(dir ...string) (*Config, error) {
	return FromEnvWithMatrices("", "", dir...)
}

// FromEnvWithMatrices is like FromEnv, but non-blank m1 and m2 paths are used
// in preference to MOFF_M1_MATRIX and MOFF_M2_MATRIX.
func FromEnvWithMatrices(m1, m2 string, dir ...string) (*Config, error) {
	var parentDir string
	if len(dir) == 1 {
		parentDir = dir[0] + string(os.PathSeparator)
	}

	godotenv.Load(parentDir + ".env") //nolint:errcheck

	m1 = valueOrEnv(m1, EnvVarM1)
	m2 = valueOrEnv(m2, EnvVarM2)

	if m1 == "" || m2 == "" {
		return nil, ErrMissingEnvs
	}

	workers, err := workersFromEnv()
	if err != nil {
		return nil, err
	}

	return &Config{
		M1Path:          m1,
		M2Path:          m2,
		Workers:         workers,
		CredentialsPath: os.Getenv(EnvVarCreds),
		DBDriver:        os.Getenv(EnvVarDBDriver),
		DBDSN:           os.Getenv(EnvVarDBDSN),
		User:            os.Getenv(EnvVarUser),
		Password:        os.Getenv(EnvVarPass),
		Host:            os.Getenv(EnvVarHost),
		Port:            os.Getenv(EnvVarPort),
		DBName:          os.Getenv(EnvVarDBName),
	}, nil
}

func valueOrEnv(val, key string) string {
	if val != "" {
		return val
	}

	return os.Getenv(key)
}

func workersFromEnv() (int, error) {
	val := os.Getenv(EnvVarWorkers)
	if val == "" {
		return runtime.NumCPU(), nil
	}

	workers, err := strconv.Atoi(val)
	if err != nil || workers < 1 {
		return 0, ErrBadWorkers
	}

	return workers, nil
}

// HasDB is true if a results database driver has been configured.
func (c *Config) HasDB() bool {
	return c.DBDriver != ""
}
