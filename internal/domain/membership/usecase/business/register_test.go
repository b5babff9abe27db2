package business

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lucxx50/BotLucasAllan/internal/domain/membership/entities"
	domainerrors "github.com/Lucxx50/BotLucasAllan/internal/domain/membership/errors"
)

func TestRegister_InactiveMember(t *testing.T) {
	f := newFixture("")
	ctx := context.Background()
	f.uc.RecordJoin(ctx, 444)

	result, err := f.uc.Register(ctx, 444, "c@x.com")
	require.NoError(t, err)

	assert.False(t, result.Active)
	assert.Empty(t, result.InviteLink)
	assert.Equal(t, int64(444), f.identities.mappings["c@x.com"])
	assert.Equal(t, 1, f.pending.Len())
}

func TestRegister_ActiveMemberOutsideChannel(t *testing.T) {
	f := newFixture("")
	ctx := context.Background()
	seedSubscriber(f, 444, "2025-03-20")
	f.gateway.statuses[444] = entities.MembershipKicked

	result, err := f.uc.Register(ctx, 444, "c@x.com")
	require.NoError(t, err)

	assert.True(t, result.Active)
	assert.Equal(t, "https://t.me/+invite", result.InviteLink)
	require.NotNil(t, result.Subscriber)
	assert.Equal(t, mustDate("2025-03-20"), result.Subscriber.ExpiryDate)
	assert.Equal(t, 1, f.gateway.count("add", 444))
}

func TestRegister_ActiveMemberInChannel(t *testing.T) {
	f := newFixture("")
	ctx := context.Background()
	seedSubscriber(f, 444, "2025-03-20")
	f.gateway.statuses[444] = entities.MembershipMember
	f.uc.RecordJoin(ctx, 444)

	result, err := f.uc.Register(ctx, 444, "c@x.com")
	require.NoError(t, err)

	assert.True(t, result.Active)
	assert.Empty(t, result.InviteLink)
	assert.Zero(t, f.gateway.count("add", 444))
	assert.Zero(t, f.pending.Len())
}

func TestRegister_RebindsEmail(t *testing.T) {
	f := newFixture("")
	ctx := context.Background()

	_, err := f.uc.Register(ctx, 444, "c@x.com")
	require.NoError(t, err)
	_, err = f.uc.Register(ctx, 555, "c@x.com")
	require.NoError(t, err)

	assert.Equal(t, int64(555), f.identities.mappings["c@x.com"])
}

func TestRegister_EmptyEmail(t *testing.T) {
	f := newFixture("")

	_, err := f.uc.Register(context.Background(), 444, "")
	require.ErrorIs(t, err, domainerrors.ErrEmptyEmail)
	assert.Empty(t, f.identities.mappings)
}

func TestRegister_StoreErrorReportsInactive(t *testing.T) {
	f := newFixture("")
	f.subs.setFailure(errStoreDown)

	result, err := f.uc.Register(context.Background(), 444, "c@x.com")
	require.NoError(t, err)
	assert.False(t, result.Active)
}

func TestStatus(t *testing.T) {
	f := newFixture("")
	seedSubscriber(f, 444, "2025-03-20")

	sub, err := f.uc.Status(context.Background(), 444)
	require.NoError(t, err)
	assert.Equal(t, 22, sub.DaysLeft(mustDate("2025-02-26")))

	_, err = f.uc.Status(context.Background(), 999)
	assert.ErrorIs(t, err, domainerrors.ErrSubscriberNotFound)
}
