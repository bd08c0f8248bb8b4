// Copyright (c) 2026 Monoxity Team
// Monoxity - key-value tables on embedded SQL
// This source code is licensed under the MIT license found in the LICENSE file.

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/klauspost/compress/zstd"
)

// BackupVersion is the format version written by WriteBackup.
const BackupVersion = 1

// Backup is the portable dump of one table.
type Backup struct {
	Version    int       `json:"version"`
	Table      string    `json:"table"`
	ExportedAt time.Time `json:"exported_at"`
	Entries    []Entry   `json:"entries"`
}

// Snapshot reads every entry of the table into a Backup.
func (s *Store) Snapshot(ctx context.Context) (*Backup, error) {
	entries, err := s.GetAll(ctx, "")
	if err != nil {
		return nil, err
	}
	return &Backup{
		Version:    BackupVersion,
		Table:      s.cfg.Table,
		ExportedAt: time.Now().UTC(),
		Entries:    entries,
	}, nil
}

// Export writes a zstd-compressed JSON backup of the table to w and returns
// the number of entries written.
func (s *Store) Export(ctx context.Context, w io.Writer) (int, error) {
	b, err := s.Snapshot(ctx)
	if err != nil {
		return 0, err
	}
	if err := WriteBackup(w, b); err != nil {
		return 0, err
	}
	return len(b.Entries), nil
}

// Import reads a backup produced by Export and stores its entries. With
// replace set the table is emptied first. Entries are written one by one, so
// a failure part way leaves the entries written so far in place.
func (s *Store) Import(ctx context.Context, r io.Reader, replace bool) (int, error) {
	b, err := ReadBackup(r)
	if err != nil {
		return 0, err
	}
	return s.Restore(ctx, b, replace)
}

// Restore stores the entries of b, optionally emptying the table first.
func (s *Store) Restore(ctx context.Context, b *Backup, replace bool) (int, error) {
	if replace {
		if _, err := s.Destroy(ctx); err != nil {
			return 0, err
		}
	}
	n := 0
	for _, e := range b.Entries {
		if _, err := s.Set(ctx, e.Key, e.Value); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// CopyTo writes every entry of s into dst, overwriting keys dst already has.
func (s *Store) CopyTo(ctx context.Context, dst KeyValueStore) (int, error) {
	entries, err := s.GetAll(ctx, "")
	if err != nil {
		return 0, err
	}
	for i, e := range entries {
		if _, err := dst.Set(ctx, e.Key, e.Value); err != nil {
			return i, err
		}
	}
	return len(entries), nil
}

// WriteBackup encodes b as indented JSON into a zstd stream on w.
func WriteBackup(w io.Writer, b *Backup) error {
	zw, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("create zstd writer: %w", err)
	}
	enc := json.NewEncoder(zw)
	enc.SetIndent("", "  ")
	if err := enc.Encode(b); err != nil {
		_ = zw.Close()
		return fmt.Errorf("encode backup: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("flush backup: %w", err)
	}
	return nil
}

// ReadBackup decodes a backup written by WriteBackup.
func ReadBackup(r io.Reader) (*Backup, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("create zstd reader: %w", err)
	}
	defer zr.Close()
	var b Backup
	if err := json.NewDecoder(zr).Decode(&b); err != nil {
		return nil, fmt.Errorf("decode backup: %w", err)
	}
	if b.Version < 1 || b.Version > BackupVersion {
		return nil, fmt.Errorf("unsupported backup version %d", b.Version)
	}
	return &b, nil
}
