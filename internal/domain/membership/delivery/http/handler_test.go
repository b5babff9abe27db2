package http

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/fasthttp/router"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"github.com/Lucxx50/BotLucasAllan/internal/domain/membership/dto"
	"github.com/Lucxx50/BotLucasAllan/internal/domain/membership/entities"
	domainerrors "github.com/Lucxx50/BotLucasAllan/internal/domain/membership/errors"
	pkgerrors "github.com/Lucxx50/BotLucasAllan/pkg/errors"
)

// mockMembershipService is a mock implementation of deps.MembershipService for testing
type mockMembershipService struct {
	processFunc func(ctx context.Context, event *dto.BillingEvent) (dto.WebhookOutcome, error)
	checkFunc   func(ctx context.Context) (int, error)

	events []dto.BillingEvent
}

func (m *mockMembershipService) ProcessBillingEvent(ctx context.Context, event *dto.BillingEvent) (dto.WebhookOutcome, error) {
	m.events = append(m.events, *event)
	if m.processFunc != nil {
		return m.processFunc(ctx, event)
	}
	return dto.OutcomeActivated, nil
}

func (m *mockMembershipService) Sweep(context.Context) (*dto.SweepReport, error) {
	return &dto.SweepReport{}, nil
}

func (m *mockMembershipService) RecordJoin(context.Context, int64) {}

func (m *mockMembershipService) CheckPendingJoins(ctx context.Context) (int, error) {
	if m.checkFunc != nil {
		return m.checkFunc(ctx)
	}
	return 0, nil
}

func (m *mockMembershipService) Register(context.Context, int64, string) (*dto.RegisterResult, error) {
	return &dto.RegisterResult{}, nil
}

func (m *mockMembershipService) Status(context.Context, int64) (*entities.Subscriber, error) {
	return nil, domainerrors.ErrSubscriberNotFound
}

func newTestRouter(svc *mockMembershipService) *router.Router {
	logger := zerolog.Nop()
	rt := router.New()
	NewRouter(
		NewHandler(svc, pkgerrors.NewMapper(logger), logger),
		NewHealthHandler(HealthHandlerParams{Logger: logger}),
		logger,
	).RegisterRoutes(rt)
	return rt
}

// newRequestCtx builds a request context bound to a stand-in server, as a listener would
func newRequestCtx(method, path, body string) *fasthttp.RequestCtx {
	var req fasthttp.Request
	req.Header.SetMethod(method)
	req.SetRequestURI(path)
	if body != "" {
		req.SetBodyString(body)
	}

	ctx := &fasthttp.RequestCtx{}
	ctx.Init(&req, nil, nil)
	return ctx
}

func do(rt *router.Router, method, path, body string) *fasthttp.RequestCtx {
	ctx := newRequestCtx(method, path, body)
	rt.Handler(ctx)
	return ctx
}

func decode(t *testing.T, ctx *fasthttp.RequestCtx) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &body))
	return body
}

const purchaseBody = `{"event":"Compra aprovada","token":"s3cret","data":{"user_email":"a@x.com","plan_amount":100,"expiry_date":"2025-03-01"}}`

func TestHandleWebhook_Success(t *testing.T) {
	svc := &mockMembershipService{}
	rt := newTestRouter(svc)

	ctx := do(rt, fasthttp.MethodPost, "/webhook", purchaseBody)

	assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	assert.Equal(t, "application/json", string(ctx.Response.Header.ContentType()))
	assert.Equal(t, map[string]interface{}{"status": "success"}, decode(t, ctx))

	require.Len(t, svc.events, 1)
	event := svc.events[0]
	assert.Equal(t, "Compra aprovada", event.Event)
	assert.Equal(t, "s3cret", event.Token)
	assert.Equal(t, "a@x.com", event.Data.UserEmail)
	assert.Equal(t, 100.0, event.Data.PlanAmount)
	assert.Equal(t, "2025-03-01", event.Data.ExpiryDate)
}

func TestHandleWebhook_Outcomes(t *testing.T) {
	tests := []struct {
		name       string
		outcome    dto.WebhookOutcome
		err        error
		wantStatus int
		wantBody   map[string]interface{}
	}{
		{"ignored", dto.OutcomeIgnored, nil, fasthttp.StatusOK, map[string]interface{}{"status": "success"}},
		{"unmapped", dto.OutcomeUnmapped, nil, fasthttp.StatusOK, map[string]interface{}{"status": "email not mapped"}},
		{"unauthorized", "", domainerrors.ErrUnauthorized, fasthttp.StatusUnauthorized, map[string]interface{}{"error": "Unauthorized"}},
		{"missing field", "", domainerrors.ErrMissingEmail, fasthttp.StatusBadRequest, map[string]interface{}{"error": domainerrors.ErrMissingEmail.Error()}},
		{"store failure", "", pkgerrors.NewTransientError("store unavailable", errors.New("disk I/O")), fasthttp.StatusInternalServerError, map[string]interface{}{"error": "store unavailable: disk I/O"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockMembershipService{
				processFunc: func(context.Context, *dto.BillingEvent) (dto.WebhookOutcome, error) {
					return tt.outcome, tt.err
				},
			}

			ctx := do(newTestRouter(svc), fasthttp.MethodPost, "/webhook", purchaseBody)

			assert.Equal(t, tt.wantStatus, ctx.Response.StatusCode())
			assert.Equal(t, tt.wantBody, decode(t, ctx))
		})
	}
}

func TestHandleWebhook_MalformedJSON(t *testing.T) {
	svc := &mockMembershipService{}

	ctx := do(newTestRouter(svc), fasthttp.MethodPost, "/webhook", `{"event":`)

	assert.Equal(t, fasthttp.StatusBadRequest, ctx.Response.StatusCode())
	assert.Contains(t, decode(t, ctx), "error")
	assert.Empty(t, svc.events)
}

func TestHandleWebhook_MethodNotAllowed(t *testing.T) {
	ctx := do(newTestRouter(&mockMembershipService{}), fasthttp.MethodGet, "/webhook", "")

	assert.Equal(t, fasthttp.StatusMethodNotAllowed, ctx.Response.StatusCode())
}

func TestHandleCheckPending(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &mockMembershipService{
			checkFunc: func(context.Context) (int, error) { return 2, nil },
		}

		ctx := do(newTestRouter(svc), fasthttp.MethodGet, "/check_pending", "")

		assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
		assert.Equal(t, map[string]interface{}{"status": "success"}, decode(t, ctx))
	})

	t.Run("failure", func(t *testing.T) {
		svc := &mockMembershipService{
			checkFunc: func(context.Context) (int, error) { return 0, errors.New("database is locked") },
		}

		ctx := do(newTestRouter(svc), fasthttp.MethodGet, "/check_pending", "")

		assert.Equal(t, fasthttp.StatusInternalServerError, ctx.Response.StatusCode())
		assert.Equal(t, map[string]interface{}{"error": "database is locked"}, decode(t, ctx))
	})
}
