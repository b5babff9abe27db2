package telegram

import (
	"context"

	"github.com/Lucxx50/BotLucasAllan/internal/domain/membership/dto"
	"github.com/Lucxx50/BotLucasAllan/internal/domain/membership/entities"
)

// mockMembershipService is a mock implementation of deps.MembershipService for testing
type mockMembershipService struct {
	sweepFunc    func(ctx context.Context) (*dto.SweepReport, error)
	registerFunc func(ctx context.Context, memberID int64, email string) (*dto.RegisterResult, error)
	statusFunc   func(ctx context.Context, memberID int64) (*entities.Subscriber, error)

	sweepCalls    int
	joins         []int64
	registerCalls []registerCall
}

type registerCall struct {
	memberID int64
	email    string
}

func (m *mockMembershipService) ProcessBillingEvent(context.Context, *dto.BillingEvent) (dto.WebhookOutcome, error) {
	return dto.OutcomeIgnored, nil
}

func (m *mockMembershipService) Sweep(ctx context.Context) (*dto.SweepReport, error) {
	m.sweepCalls++
	if m.sweepFunc != nil {
		return m.sweepFunc(ctx)
	}
	return &dto.SweepReport{}, nil
}

func (m *mockMembershipService) RecordJoin(_ context.Context, memberID int64) {
	m.joins = append(m.joins, memberID)
}

func (m *mockMembershipService) CheckPendingJoins(context.Context) (int, error) {
	return 0, nil
}

func (m *mockMembershipService) Register(ctx context.Context, memberID int64, email string) (*dto.RegisterResult, error) {
	m.registerCalls = append(m.registerCalls, registerCall{memberID: memberID, email: email})
	if m.registerFunc != nil {
		return m.registerFunc(ctx, memberID, email)
	}
	return &dto.RegisterResult{}, nil
}

func (m *mockMembershipService) Status(ctx context.Context, memberID int64) (*entities.Subscriber, error) {
	if m.statusFunc != nil {
		return m.statusFunc(ctx, memberID)
	}
	return nil, nil
}

type sentMessage struct {
	chatID int64
	text   string
}

// recordingSender captures replies
type recordingSender struct {
	sent []sentMessage
}

func (s *recordingSender) SendMessage(_ context.Context, chatID int64, text string) error {
	s.sent = append(s.sent, sentMessage{chatID: chatID, text: text})
	return nil
}

func (s *recordingSender) last() string {
	if len(s.sent) == 0 {
		return ""
	}
	return s.sent[len(s.sent)-1].text
}
