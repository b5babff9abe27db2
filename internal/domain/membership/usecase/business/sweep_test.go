package business

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lucxx50/BotLucasAllan/internal/domain/membership/consts"
	"github.com/Lucxx50/BotLucasAllan/internal/domain/membership/entities"
)

// fixture clock reads 2025-02-26
func seedSubscriber(f *fixture, memberID int64, expiry string) {
	f.subs.rows[memberID] = entities.Subscriber{
		MemberID:     memberID,
		BillingEmail: "member@x.com",
		Plan:         entities.PlanMonthly,
		ExpiryDate:   mustDate(expiry),
		Status:       entities.StatusActive,
	}
}

func TestSweep_DaysLeftClassification(t *testing.T) {
	tests := []struct {
		name         string
		expiry       string
		wantStatus   entities.Status
		wantRemoved  int
		wantMessages int
	}{
		{"lapsed yesterday", "2025-02-25", entities.StatusExpired, 1, 1},
		{"expires today", "2025-02-26", entities.StatusExpired, 1, 1},
		{"one day left", "2025-02-27", entities.StatusActive, 0, 0},
		{"two days left", "2025-02-28", entities.StatusActive, 0, 0},
		{"three days left", "2025-03-01", entities.StatusActive, 0, 1},
		{"five days left", "2025-03-03", entities.StatusActive, 0, 1},
		{"six days left", "2025-03-04", entities.StatusActive, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture("")
			seedSubscriber(f, 222, tt.expiry)

			_, err := f.uc.Sweep(context.Background())
			require.NoError(t, err)

			assert.Equal(t, tt.wantStatus, f.subs.rows[222].Status)
			assert.Equal(t, tt.wantRemoved, f.gateway.count("remove", 222))
			assert.Len(t, f.gateway.messagesTo(222), tt.wantMessages)
		})
	}
}

func TestSweep_Report(t *testing.T) {
	f := newFixture("")
	seedSubscriber(f, 1, "2025-02-20")
	seedSubscriber(f, 2, "2025-02-26")
	seedSubscriber(f, 3, "2025-02-27")
	seedSubscriber(f, 4, "2025-03-01")
	seedSubscriber(f, 5, "2025-03-10")

	report, err := f.uc.Sweep(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, report.Scanned)
	assert.Equal(t, 2, report.Expired)
	assert.Equal(t, 1, report.Reminded)
	assert.Equal(t, 1, report.Skipped)
	assert.Zero(t, report.Failed)

	// expirations and the reminder each notify the admin
	assert.Len(t, f.gateway.messagesTo(testAdminID), 3)
}

func TestSweep_ReminderText(t *testing.T) {
	f := newFixture("")
	seedSubscriber(f, 222, "2025-03-01")

	_, err := f.uc.Sweep(context.Background())
	require.NoError(t, err)

	msgs := f.gateway.messagesTo(222)
	require.Len(t, msgs, 1)
	assert.Equal(t, "Sua assinatura mensal vence em 3 dias. Renove!", msgs[0])

	require.Len(t, f.publisher.events, 1)
	event := f.publisher.events[0]
	assert.Equal(t, consts.MembershipReminded, event.Type)
	require.NotNil(t, event.DaysLeft)
	assert.Equal(t, 3, *event.DaysLeft)
}

func TestSweep_RemindsOnEveryRun(t *testing.T) {
	f := newFixture("")
	seedSubscriber(f, 222, "2025-03-02")
	ctx := context.Background()

	_, err := f.uc.Sweep(ctx)
	require.NoError(t, err)
	_, err = f.uc.Sweep(ctx)
	require.NoError(t, err)

	assert.Len(t, f.gateway.messagesTo(222), 2)
}

func TestSweep_ExpiredRowsAreNotScannedAgain(t *testing.T) {
	f := newFixture("")
	seedSubscriber(f, 222, "2025-02-26")
	ctx := context.Background()

	_, err := f.uc.Sweep(ctx)
	require.NoError(t, err)

	f.clock.Advance(24 * time.Hour)
	report, err := f.uc.Sweep(ctx)
	require.NoError(t, err)

	assert.Zero(t, report.Scanned)
	assert.Equal(t, 1, f.gateway.count("remove", 222))
}

func TestSweep_RemovalFailureStillExpires(t *testing.T) {
	f := newFixture("")
	seedSubscriber(f, 222, "2025-02-26")
	f.gateway.failOn("remove", errStoreDown)

	report, err := f.uc.Sweep(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.Expired)
	assert.Equal(t, entities.StatusExpired, f.subs.rows[222].Status)
}

func TestSweep_ScanFailure(t *testing.T) {
	f := newFixture("")
	seedSubscriber(f, 222, "2025-02-26")
	f.subs.setFailure(errStoreDown)

	report, err := f.uc.Sweep(context.Background())
	require.ErrorIs(t, err, errStoreDown)
	assert.Zero(t, report.Scanned)
	assert.Zero(t, f.gateway.total())
}
