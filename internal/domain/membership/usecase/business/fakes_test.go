package business

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Lucxx50/BotLucasAllan/internal/domain/membership/deps"
	"github.com/Lucxx50/BotLucasAllan/internal/domain/membership/dto"
	"github.com/Lucxx50/BotLucasAllan/internal/domain/membership/entities"
	domainerrors "github.com/Lucxx50/BotLucasAllan/internal/domain/membership/errors"
	"github.com/Lucxx50/BotLucasAllan/internal/infrastructure/cache"
	"github.com/Lucxx50/BotLucasAllan/internal/infrastructure/metrics"
	"github.com/Lucxx50/BotLucasAllan/pkg/clock"
)

const testAdminID int64 = 6426059059

var errStoreDown = errors.New("database is locked")

type fakeSubscriptions struct {
	mu      sync.Mutex
	rows    map[int64]entities.Subscriber
	failAll error
}

func newFakeSubscriptions() *fakeSubscriptions {
	return &fakeSubscriptions{rows: make(map[int64]entities.Subscriber)}
}

func (f *fakeSubscriptions) UpsertActive(_ context.Context, memberID int64, email string, plan entities.Plan, expiry entities.Date) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll != nil {
		return f.failAll
	}
	f.rows[memberID] = entities.Subscriber{
		MemberID:     memberID,
		BillingEmail: email,
		Plan:         plan,
		ExpiryDate:   expiry,
		Status:       entities.StatusActive,
	}
	return nil
}

func (f *fakeSubscriptions) MarkExpired(_ context.Context, memberID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll != nil {
		return f.failAll
	}
	if row, ok := f.rows[memberID]; ok {
		row.Status = entities.StatusExpired
		f.rows[memberID] = row
	}
	return nil
}

func (f *fakeSubscriptions) IsActive(_ context.Context, memberID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll != nil {
		return false, f.failAll
	}
	row, ok := f.rows[memberID]
	return ok && row.Status == entities.StatusActive, nil
}

func (f *fakeSubscriptions) scan(match func(entities.Subscriber) bool) []entities.Subscriber {
	var out []entities.Subscriber
	for _, row := range f.rows {
		if row.Status == entities.StatusActive && match(row) {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MemberID < out[j].MemberID })
	return out
}

func (f *fakeSubscriptions) ScanExpiring(_ context.Context, today entities.Date, windowDays int) ([]entities.Subscriber, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll != nil {
		return nil, f.failAll
	}
	last := today.AddDays(windowDays)
	return f.scan(func(s entities.Subscriber) bool {
		return !s.ExpiryDate.Before(today) && !last.Before(s.ExpiryDate)
	}), nil
}

func (f *fakeSubscriptions) ScanLapsed(_ context.Context, today entities.Date) ([]entities.Subscriber, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll != nil {
		return nil, f.failAll
	}
	return f.scan(func(s entities.Subscriber) bool {
		return s.ExpiryDate.Before(today)
	}), nil
}

func (f *fakeSubscriptions) Get(_ context.Context, memberID int64) (*entities.Subscriber, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll != nil {
		return nil, f.failAll
	}
	row, ok := f.rows[memberID]
	if !ok {
		return nil, domainerrors.ErrSubscriberNotFound
	}
	return &row, nil
}

func (f *fakeSubscriptions) setFailure(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failAll = err
}

type fakeIdentities struct {
	mu       sync.Mutex
	mappings map[string]int64
}

func newFakeIdentities() *fakeIdentities {
	return &fakeIdentities{mappings: make(map[string]int64)}
}

func (f *fakeIdentities) Resolve(_ context.Context, email string) (int64, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id, ok := f.mappings[email]
	return id, ok, nil
}

func (f *fakeIdentities) Register(_ context.Context, email string, memberID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mappings[email] = memberID
	return nil
}

type gatewayCall struct {
	Op       string
	MemberID int64
	Text     string
}

type fakeGateway struct {
	mu       sync.Mutex
	calls    []gatewayCall
	statuses map[int64]entities.MembershipStatus
	failOps  map[string]error
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		statuses: make(map[int64]entities.MembershipStatus),
		failOps:  make(map[string]error),
	}
}

func (g *fakeGateway) record(op string, memberID int64, text string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, gatewayCall{Op: op, MemberID: memberID, Text: text})
	return g.failOps[op]
}

func (g *fakeGateway) AddMember(_ context.Context, memberID int64) (string, error) {
	if err := g.record("add", memberID, ""); err != nil {
		return "", err
	}
	return "https://t.me/+invite", nil
}

func (g *fakeGateway) RemoveMember(_ context.Context, memberID int64) error {
	return g.record("remove", memberID, "")
}

func (g *fakeGateway) SendDirectMessage(_ context.Context, memberID int64, text string) error {
	return g.record("dm", memberID, text)
}

func (g *fakeGateway) SendChannelMessage(_ context.Context, text string) error {
	return g.record("channel", 0, text)
}

func (g *fakeGateway) GetMembershipStatus(_ context.Context, memberID int64) (entities.MembershipStatus, error) {
	if err := g.record("status", memberID, ""); err != nil {
		return "", err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if status, ok := g.statuses[memberID]; ok {
		return status, nil
	}
	return entities.MembershipLeft, nil
}

func (g *fakeGateway) failOn(op string, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.failOps[op] = err
}

// count returns how many op calls targeted memberID
func (g *fakeGateway) count(op string, memberID int64) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := 0
	for _, c := range g.calls {
		if c.Op == op && c.MemberID == memberID {
			n++
		}
	}
	return n
}

func (g *fakeGateway) messagesTo(memberID int64) []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	var out []string
	for _, c := range g.calls {
		if c.Op == "dm" && c.MemberID == memberID {
			out = append(out, c.Text)
		}
	}
	return out
}

func (g *fakeGateway) total() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.calls)
}

type fakePublisher struct {
	mu     sync.Mutex
	events []dto.MembershipEvent
}

func (p *fakePublisher) Publish(_ context.Context, event *dto.MembershipEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, *event)
	return nil
}

func (p *fakePublisher) Close() error { return nil }

func (p *fakePublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []string
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type fixture struct {
	uc         *UseCase
	subs       *fakeSubscriptions
	identities *fakeIdentities
	gateway    *fakeGateway
	publisher  *fakePublisher
	pending    deps.PendingJoinStore
	clock      *clock.Fake
}

func newFixture(secret string) *fixture {
	f := &fixture{
		subs:       newFakeSubscriptions(),
		identities: newFakeIdentities(),
		gateway:    newFakeGateway(),
		publisher:  &fakePublisher{},
		pending:    cache.NewPendingJoins(zerolog.Nop()),
		clock:      clock.NewFake(time.Date(2025, 2, 26, 9, 0, 0, 0, time.UTC)),
	}

	f.uc = NewUseCase(
		f.subs,
		f.identities,
		f.pending,
		f.gateway,
		f.publisher,
		f.clock,
		metrics.GetDefaultMetrics(),
		Settings{AdminID: testAdminID, WebhookSecret: secret, Location: time.UTC},
		zerolog.Nop(),
	)
	return f
}

func mustDate(s string) entities.Date {
	d, err := entities.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}
