package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/cv-forge/internal/editor"
	"github.com/jonathan/cv-forge/internal/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore(Config{TTL: time.Hour, CleanupInterval: time.Hour})
	t.Cleanup(s.Stop)
	return s
}

func TestStore_CreateDefaults(t *testing.T) {
	s := newTestStore(t)

	sess := s.Create(nil)
	cv := sess.Snapshot()

	assert.NotEmpty(t, sess.ID)
	assert.Equal(t, types.DefaultThemeColor, cv.ThemeColor)
	assert.NotNil(t, cv.Experience)
	assert.Equal(t, 1, s.Len())
}

func TestStore_CreateFromSeed(t *testing.T) {
	s := newTestStore(t)

	seed := types.CVData{FullName: "Jane", Awards: []types.Award{{ID: "a1"}}}
	sess := s.Create(&seed)
	seed.Awards[0].Title = "mutated after create"

	cv := sess.Snapshot()
	assert.Equal(t, "Jane", cv.FullName)
	assert.Equal(t, types.DefaultThemeColor, cv.ThemeColor)
	assert.Equal(t, "", cv.Awards[0].Title)
	assert.NotNil(t, cv.Memberships)
}

func TestStore_GetDelete(t *testing.T) {
	s := newTestStore(t)
	sess := s.Create(nil)

	got, err := s.Get(sess.ID)
	require.NoError(t, err)
	assert.Same(t, sess, got)

	require.NoError(t, s.Delete(sess.ID))
	_, err = s.Get(sess.ID)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.True(t, errors.Is(s.Delete(sess.ID), ErrNotFound))
}

func TestStore_Expiry(t *testing.T) {
	s := newTestStore(t)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	sess := s.Create(nil)

	now = now.Add(30 * time.Minute)
	_, _, err := sess.Apply(editor.Intent{Op: editor.OpSetField, Field: "fullName", Value: "Jane"})
	require.NoError(t, err)

	now = now.Add(45 * time.Minute)
	_, err = s.Get(sess.ID)
	require.NoError(t, err, "touch should extend the session")

	now = now.Add(time.Hour)
	_, err = s.Get(sess.ID)
	assert.True(t, errors.Is(err, ErrNotFound))

	assert.Equal(t, 1, s.sweep())
	assert.Equal(t, 0, s.Len())
}

func TestSession_ApplyReplacesValue(t *testing.T) {
	s := newTestStore(t)
	sess := s.Create(nil)

	before := sess.Snapshot()
	after, id, err := sess.Apply(editor.Intent{Op: editor.OpAddItem, Section: "experience"})
	require.NoError(t, err)

	assert.NotEmpty(t, id)
	assert.Len(t, after.Experience, 1)
	assert.Empty(t, before.Experience)
	assert.Equal(t, after, sess.Snapshot())
}

func TestSession_ApplyErrorKeepsValue(t *testing.T) {
	s := newTestStore(t)
	sess := s.Create(nil)

	_, _, err := sess.Apply(editor.Intent{Op: editor.OpRemoveItem, Section: "awards", ID: "missing"})
	assert.True(t, errors.Is(err, editor.ErrItemNotFound))
	assert.Equal(t, types.NewCVData(), sess.Snapshot())
}

func TestSession_PolishSingleInFlight(t *testing.T) {
	s := newTestStore(t)
	sess := s.Create(&types.CVData{FullName: "Jane"})

	started := make(chan struct{})
	release := make(chan struct{})
	slow := func(ctx context.Context, cv types.CVData) (types.CVData, error) {
		close(started)
		<-release
		cv.Summary = "polished"
		return cv, nil
	}

	var wg sync.WaitGroup
	wg.Add(1)
	var first types.CVData
	var firstErr error
	go func() {
		defer wg.Done()
		first, firstErr = sess.Polish(context.Background(), slow)
	}()

	<-started
	assert.True(t, sess.Polishing())

	_, err := sess.Polish(context.Background(), func(context.Context, types.CVData) (types.CVData, error) {
		t.Error("second polish must not run")
		return types.CVData{}, nil
	})
	assert.True(t, errors.Is(err, ErrPolishInProgress))

	close(release)
	wg.Wait()

	require.NoError(t, firstErr)
	assert.Equal(t, "polished", first.Summary)
	assert.Equal(t, "polished", sess.Snapshot().Summary)
	assert.False(t, sess.Polishing())
}

func TestSession_PolishFailureKeepsValue(t *testing.T) {
	s := newTestStore(t)
	sess := s.Create(&types.CVData{FullName: "Jane"})
	before := sess.Snapshot()

	boom := errors.New("provider down")
	out, err := sess.Polish(context.Background(), func(context.Context, types.CVData) (types.CVData, error) {
		return types.CVData{FullName: "should not be stored"}, boom
	})

	assert.Equal(t, boom, err)
	assert.Equal(t, before, out)
	assert.Equal(t, before, sess.Snapshot())
	assert.False(t, sess.Polishing())
}

func TestSession_ConcurrentEdits(t *testing.T) {
	s := newTestStore(t)
	sess := s.Create(nil)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := sess.Apply(editor.Intent{Op: editor.OpAddItem, Section: "awards"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	cv := sess.Snapshot()
	assert.Len(t, cv.Awards, 20)
	seen := map[string]bool{}
	for _, a := range cv.Awards {
		assert.False(t, seen[a.ID])
		seen[a.ID] = true
	}
}
