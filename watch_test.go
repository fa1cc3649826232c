// SPDX-License-Identifier: MIT

package modconf

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherNotifiesOnHandEdit(t *testing.T) {
	s := newTestStore(t)
	s.Set("a", 1)
	require.NoError(t, s.Persist())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan struct{}, 1)
	w, err := Watch(ctx, s, func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	require.NoError(t, err)
	defer w.Stop()

	require.NoError(t, os.WriteFile(s.Path(), []byte("a=2\n"), 0o644))

	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("expected a change notification")
	}

	s.Load()
	v, err := s.GetInt("a")
	require.NoError(t, err)
	assert.Equal(t, 2, v)
}

func TestWatcherSurvivesAtomicReplace(t *testing.T) {
	s := newTestStore(t)
	s.Set("a", 1)
	require.NoError(t, s.Persist())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan struct{}, 1)
	w, err := Watch(ctx, s, func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	require.NoError(t, err)
	defer w.Stop()

	// Another writer replacing the file via rename is still observed,
	// because the watch is on the parent directory.
	other := NewAt("testmod", s.Path(), zerolog.Nop())
	other.Set("a", 3)
	require.NoError(t, other.Persist())

	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("expected a change notification after atomic replace")
	}
}

func TestWatcherIgnoresSiblingFiles(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Persist())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan struct{}, 1)
	w, err := Watch(ctx, s, func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	require.NoError(t, err)
	defer w.Stop()

	sibling := filepath.Join(filepath.Dir(s.Path()), "other.properties")
	require.NoError(t, os.WriteFile(sibling, []byte("x=1\n"), 0o644))

	select {
	case <-changed:
		t.Fatal("unexpected notification for a sibling file")
	case <-time.After(1 * time.Second):
	}
}

func TestWatchMissingDirFails(t *testing.T) {
	s := NewAt("testmod", filepath.Join(t.TempDir(), "nope", "testmod.properties"), zerolog.Nop())

	_, err := Watch(context.Background(), s, func() {})
	require.Error(t, err)
}
