// Copyright (c) 2026 Monoxity Team
// Monoxity - key-value tables on embedded SQL
// This source code is licensed under the MIT license found in the LICENSE file.

package store

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/monoxity/monoxity/internal/db"
)

const (
	DefaultTable      = "monoxity"
	DefaultFileName   = "monoxity"
	FileExtension     = ".sqlite"
	DefaultFirstLimit = 5
	DefaultMaxRetries = 16
)

// Config binds a Store to one database and one table. For SQLite the database
// is the file Dir/FileName + ".sqlite" unless DSN is given; Postgres and MySQL
// always need a DSN.
type Config struct {
	Table      string `mapstructure:"table" yaml:"table"`
	FileName   string `mapstructure:"file_name" yaml:"file_name"`
	Dir        string `mapstructure:"dir" yaml:"dir"`
	Driver     string `mapstructure:"driver" yaml:"driver"`
	DSN        string `mapstructure:"dsn" yaml:"dsn"`
	MaxRetries int    `mapstructure:"max_retries" yaml:"max_retries"`
}

// DefaultConfig returns the configuration used when nothing is specified: a
// SQLite file named monoxity.sqlite in the current directory holding the
// table monoxity.
func DefaultConfig() Config {
	return Config{
		Table:      DefaultTable,
		FileName:   DefaultFileName,
		Driver:     string(db.SQLite),
		MaxRetries: DefaultMaxRetries,
	}
}

// withDefaults fills every zero field from DefaultConfig.
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.Table == "" {
		c.Table = def.Table
	}
	if c.FileName == "" {
		c.FileName = def.FileName
	}
	if c.Driver == "" {
		c.Driver = def.Driver
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = def.MaxRetries
	}
	return c
}

// Path returns the SQLite file the configuration points at. The extension is
// appended unless FileName already carries it.
func (c Config) Path() string {
	name := c.FileName
	if name == "" {
		name = DefaultFileName
	}
	if !strings.HasSuffix(name, FileExtension) {
		name += FileExtension
	}
	return filepath.Join(c.Dir, name)
}

// SameTable reports whether c and other address the same table of the same
// database once defaults are applied. SQLite files are compared by absolute
// path, server databases by DSN.
func (c Config) SameTable(other Config) bool {
	a, b := c.withDefaults(), other.withDefaults()
	if a.Table != b.Table {
		return false
	}
	da, errA := db.ParseDialect(a.Driver)
	dbb, errB := db.ParseDialect(b.Driver)
	if errA != nil || errB != nil || da != dbb {
		return false
	}
	return a.location() == b.location()
}

func (c Config) location() string {
	if c.DSN != "" {
		return c.DSN
	}
	p, err := filepath.Abs(c.Path())
	if err != nil {
		return filepath.Clean(c.Path())
	}
	return p
}

// resolve validates the configuration and returns the dialect and DSN to open.
func (c Config) resolve() (db.Dialect, string, error) {
	if err := db.ValidateIdent(c.Table); err != nil {
		return "", "", err
	}
	d, err := db.ParseDialect(c.Driver)
	if err != nil {
		return "", "", err
	}
	if c.DSN != "" {
		return d, c.DSN, nil
	}
	if d != db.SQLite {
		return "", "", fmt.Errorf("driver %s requires a dsn", d)
	}
	return d, db.SQLiteFileDSN(c.Path()), nil
}
