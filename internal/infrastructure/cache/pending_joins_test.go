package cache

import (
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

func TestPendingJoins_Due(t *testing.T) {
	store := NewPendingJoins(zerolog.Nop())

	store.Add(1, t0)
	store.Add(2, t0.Add(30*time.Second))
	store.Add(3, t0.Add(-time.Minute))

	due := store.Due(t0.Add(120*time.Second), 120*time.Second)
	require.Len(t, due, 2)
	assert.Equal(t, int64(3), due[0].MemberID)
	assert.Equal(t, int64(1), due[1].MemberID)

	assert.Empty(t, store.Due(t0.Add(119*time.Second), 180*time.Second))
	assert.Equal(t, 3, store.Len())
}

func TestPendingJoins_Claim(t *testing.T) {
	store := NewPendingJoins(zerolog.Nop())
	store.Add(7, t0)

	assert.False(t, store.Claim(7, t0.Add(time.Second)), "stale timestamp must not claim")
	assert.True(t, store.Claim(7, t0))
	assert.False(t, store.Claim(7, t0), "entry already claimed")
	assert.Equal(t, 0, store.Len())
}

func TestPendingJoins_RejoinAfterSnapshot(t *testing.T) {
	store := NewPendingJoins(zerolog.Nop())
	store.Add(9, t0)

	due := store.Due(t0.Add(3*time.Minute), 2*time.Minute)
	require.Len(t, due, 1)

	store.Add(9, t0.Add(3*time.Minute))

	assert.False(t, store.Claim(due[0].MemberID, due[0].JoinedAt))
	assert.Equal(t, 1, store.Len())
}

func TestPendingJoins_Remove(t *testing.T) {
	store := NewPendingJoins(zerolog.Nop())
	store.Add(5, t0)

	assert.True(t, store.Remove(5))
	assert.False(t, store.Remove(5))
}

func TestPendingJoins_ConcurrentClaimOnlyOnce(t *testing.T) {
	store := NewPendingJoins(zerolog.Nop())
	store.Add(42, t0)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		claimed int
	)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if store.Claim(42, t0) {
				mu.Lock()
				claimed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, claimed)
}
