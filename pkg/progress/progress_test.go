package progress

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCancelIsIdempotent(t *testing.T) {
	st := New()
	assert.False(t, st.Cancelled())

	st.Cancel()
	st.Cancel()

	assert.True(t, st.Cancelled())
	assert.True(t, st.Snapshot().Cancelled)
}

func TestNilStateIsInert(t *testing.T) {
	var st *State

	assert.NotPanics(t, func() {
		st.Cancel()
		st.AddDirVisited()
		st.AddCandidate()
		st.AddProcessed()
		st.SetTotal(3)
	})
	assert.False(t, st.Cancelled())
	assert.Equal(t, Snapshot{}, st.Snapshot())
}

func TestConcurrentCounters(t *testing.T) {
	st := New()
	st.SetTotal(100)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			st.AddDirVisited()
			st.AddCandidate()
			st.AddProcessed()
		}()
	}
	wg.Wait()

	snap := st.Snapshot()
	assert.Equal(t, int64(100), snap.DirsVisited)
	assert.Equal(t, int64(100), snap.Candidates)
	assert.Equal(t, int64(100), snap.Processed)
	assert.Equal(t, int64(100), snap.Total)
}
