// SPDX-License-Identifier: MIT

// Package modconf persists flat key=value settings for a single mod or
// plugin component and exposes typed accessors over the loaded set.
//
// A Store stages defaults in memory, restores the on-disk file over them
// and writes the merged set back out. The file format is the flat
// properties grammar implemented by internal/props.
package modconf

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/renameio/v2"
	"github.com/rs/zerolog"

	"github.com/ManuGH/modconf/internal/props"
)

// Store holds the live set for one logical owner and persists it to a
// single flat properties file. A Store is not safe for concurrent use and
// two stores must not share a path; the intended deployment is one
// instance per owner per process.
type Store struct {
	id     string
	path   string
	logger zerolog.Logger
	values map[string]string
}

// New resolves the config file path against the host-supplied directory
// as <dir>/<id>.properties. No file I/O happens at construction time.
func New(id string, resolver DirResolver, logger zerolog.Logger) (*Store, error) {
	dir, err := resolver.ConfigDir()
	if err != nil {
		return nil, fmt.Errorf("resolve config dir: %w", err)
	}
	return NewAt(id, filepath.Join(dir, id+".properties"), logger), nil
}

// NewAt creates a store that persists to the given path verbatim.
func NewAt(id, path string, logger zerolog.Logger) *Store {
	return &Store{
		id:     id,
		path:   path,
		logger: logger.With().Str("component", "modconf").Str("id", id).Logger(),
		values: make(map[string]string),
	}
}

// Path returns the file the store persists to. It never changes after
// construction.
func (s *Store) Path() string { return s.path }

// SetDefault stages key=value only if key is absent from the live set.
// Declare baselines with it before Restore so keys missing from the file
// still resolve.
func (s *Store) SetDefault(key string, value any) {
	if _, ok := s.values[key]; !ok {
		s.values[key] = formatValue(value)
	}
}

// Set inserts or overwrites key with the stringified value. The textual
// form is the one the typed readers parse back: decimal integers,
// shortest round-trip floats, true/false booleans.
func (s *Store) Set(key string, value any) {
	s.values[key] = formatValue(value)
}

// Keys returns the live-set keys in sorted order.
func (s *Store) Keys() []string {
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Persist writes the whole live set to the config file, atomically
// replacing any previous contents. The file is created if absent; its
// key order is deterministic, so persisting an unchanged store twice
// produces identical bytes.
func (s *Store) Persist() error {
	s.logger.Info().
		Str("event", "config.persist_start").
		Str("path", s.path).
		Msg("persisting config")

	if _, err := os.Stat(s.path); errors.Is(err, fs.ErrNotExist) {
		s.logger.Warn().
			Str("event", "config.file_create").
			Str("path", s.path).
			Msg("config file does not exist, creating a new one")
	}

	pending, err := renameio.NewPendingFile(s.path)
	if err != nil {
		return fmt.Errorf("create pending config file: %w", err)
	}
	defer func() {
		if err := pending.Cleanup(); err != nil {
			s.logger.Debug().Err(err).Msg("cleanup pending config file")
		}
	}()

	if err := props.Write(pending, s.values); err != nil {
		return fmt.Errorf("write config data: %w", err)
	}
	if err := pending.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("replace config file: %w", err)
	}
	return nil
}

// Save is the safe form of Persist: an I/O failure is reported through
// the logger instead of being returned, so callers can treat persistence
// as fire-and-forget.
func (s *Store) Save() {
	if err := s.Persist(); err != nil {
		s.logger.Error().
			Err(err).
			Str("event", "config.persist_failed").
			Str("path", s.path).
			Msg("failed to persist config")
	}
}

// Restore parses the config file and merges it into the live set,
// overwriting staged defaults key by key. A missing file is a
// recoverable precondition: the current live set is written to path
// first and read back. Restore never writes in any other case.
func (s *Store) Restore() error {
	s.logger.Info().
		Str("event", "config.restore_start").
		Str("path", s.path).
		Msg("restoring config")

	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		if err := s.Persist(); err != nil {
			return err
		}
		f, err = os.Open(s.path)
	}
	if err != nil {
		return fmt.Errorf("open config file: %w", err)
	}
	defer f.Close()

	loaded, err := props.Parse(f)
	if err != nil {
		return fmt.Errorf("parse %s: %w", s.path, err)
	}
	for k, v := range loaded {
		s.values[k] = v
	}
	return nil
}

// Load is the safe form of Restore: an I/O failure is logged and
// swallowed, leaving the live set as it was.
func (s *Store) Load() {
	if err := s.Restore(); err != nil {
		s.logger.Error().
			Err(err).
			Str("event", "config.restore_failed").
			Str("path", s.path).
			Msg("failed to restore config")
	}
}

// Sync restores from the file and immediately persists the merged set,
// so defaults staged since the last write land on disk. Useful across
// version upgrades when a mod gains new settings.
func (s *Store) Sync() error {
	if err := s.Restore(); err != nil {
		return err
	}
	return s.Persist()
}
