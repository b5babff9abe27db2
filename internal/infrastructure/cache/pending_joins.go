package cache

import (
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Lucxx50/BotLucasAllan/internal/domain/membership/deps"
	"github.com/Lucxx50/BotLucasAllan/internal/domain/membership/entities"
)

// pendingJoins holds members who joined the channel and have not yet been
// confirmed against an active subscription. Entries live for the process lifetime only.
type pendingJoins struct {
	data   map[int64]time.Time
	mu     sync.Mutex
	logger zerolog.Logger
}

// NewPendingJoins creates an empty pending join table
func NewPendingJoins(logger zerolog.Logger) deps.PendingJoinStore {
	return &pendingJoins{
		data:   make(map[int64]time.Time),
		logger: logger.With().Str("component", "pending_joins").Logger(),
	}
}

// Add records a join, replacing any earlier timestamp for the member
func (p *pendingJoins) Add(memberID int64, joinedAt time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.data[memberID] = joinedAt
	p.logger.Debug().
		Int64("member_id", memberID).
		Time("joined_at", joinedAt).
		Msg("pending join recorded")
}

// Remove drops the member's entry and reports whether one existed
func (p *pendingJoins) Remove(memberID int64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.data[memberID]; !ok {
		return false
	}
	delete(p.data, memberID)
	p.logger.Debug().Int64("member_id", memberID).Msg("pending join cleared")
	return true
}

// Due returns a snapshot of entries whose age is at least timeout, oldest first
func (p *pendingJoins) Due(now time.Time, timeout time.Duration) []entities.PendingJoin {
	p.mu.Lock()
	defer p.mu.Unlock()

	var due []entities.PendingJoin
	for memberID, joinedAt := range p.data {
		if now.Sub(joinedAt) >= timeout {
			due = append(due, entities.PendingJoin{MemberID: memberID, JoinedAt: joinedAt})
		}
	}

	sort.Slice(due, func(i, j int) bool {
		return due[i].JoinedAt.Before(due[j].JoinedAt)
	})
	return due
}

// Claim removes the entry only if it still carries joinedAt.
// A false result means another caller cleared it or the member joined again.
func (p *pendingJoins) Claim(memberID int64, joinedAt time.Time) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	current, ok := p.data[memberID]
	if !ok || !current.Equal(joinedAt) {
		return false
	}
	delete(p.data, memberID)
	return true
}

// Len returns the number of pending joins
func (p *pendingJoins) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.data)
}
