package telegram

import (
	"context"
	"fmt"
	"strings"
	"time"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"

	"github.com/Lucxx50/BotLucasAllan/internal/domain/membership/deps"
	"github.com/Lucxx50/BotLucasAllan/internal/domain/membership/entities"
	domainerrors "github.com/Lucxx50/BotLucasAllan/internal/domain/membership/errors"
	pkgerrors "github.com/Lucxx50/BotLucasAllan/pkg/errors"
)

// RequestTimeout bounds one command, including the sweep run by /check
const RequestTimeout = 2 * time.Minute

const (
	msgStart            = "Bot Lucas Allan ativo! Gerenciando assinaturas."
	msgAccessDenied     = "Acesso negado."
	msgCheckDone        = "Verificação concluída."
	msgCheckSummary     = "Verificação concluída. Verificados: %d, removidos: %d, avisados: %d."
	msgCheckFailed      = "Verificação concluída com erros: %s"
	msgRegisterUsage    = "Uso: /register seu-email-da-compra"
	msgRegisterInvalid  = "Email inválido. Uso: /register seu-email-da-compra"
	msgRegisterFailed   = "Não foi possível registrar agora. Tente novamente em instantes."
	msgRegisterActive   = "Email registrado! Assinatura ativa encontrada."
	msgRegisterExpiry   = "Plano %s, válido até %s."
	msgRegisterInvite   = "Entre no grupo pelo link: %s"
	msgRegisterInactive = "Email registrado. Nenhuma assinatura ativa encontrada ainda; assim que o pagamento for aprovado você receberá o acesso."
	msgStatusNone       = "Nenhuma assinatura encontrada. Envie /register seu-email-da-compra."
	msgStatusFailed     = "Não foi possível consultar sua assinatura agora."
	msgStatus           = "Plano: %s\nVencimento: %s\nStatus: %s"
)

// messageSender delivers command replies
type messageSender interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}

// Handlers contains Telegram command and update handlers
type Handlers struct {
	svc     deps.MembershipService
	sender  messageSender
	adminID int64
	groupID int64
	logger  zerolog.Logger
}

// NewHandlers creates new Telegram handlers
func NewHandlers(svc deps.MembershipService, sender messageSender, adminID, groupID int64, logger zerolog.Logger) *Handlers {
	return &Handlers{
		svc:     svc,
		sender:  sender,
		adminID: adminID,
		groupID: groupID,
		logger:  logger,
	}
}

// HandleStart handles /start command
func (h *Handlers) HandleStart(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	userID := update.Message.From.ID

	h.sendResponse(ctx, update.Message.Chat.ID, msgStart)
	h.logCommand(userID, "/start", "success")
}

// HandleCheck runs the expiry sweep on operator request
func (h *Handlers) HandleCheck(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	userID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	if err := h.authorizeAdmin(userID); err != nil {
		h.logger.Warn().Int64("user_id", userID).Str("command", "/check").Err(err).Msg("Telegram command denied")
		h.sendResponse(ctx, chatID, msgAccessDenied)
		return
	}

	h.logCommand(userID, "/check", "processing")

	cmdCtx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	report, err := h.svc.Sweep(cmdCtx)
	if err != nil {
		h.logError(userID, "/check", err)
		h.sendResponse(ctx, chatID, fmt.Sprintf(msgCheckFailed, err.Error()))
		return
	}

	if report.Scanned == 0 {
		h.sendResponse(ctx, chatID, msgCheckDone)
	} else {
		h.sendResponse(ctx, chatID, fmt.Sprintf(msgCheckSummary, report.Scanned, report.Expired, report.Reminded))
	}
	h.logCommand(userID, "/check", "success")
}

// HandleRegister binds the caller to a billing email
func (h *Handlers) HandleRegister(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	userID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	email, ok := commandArgument(update.Message.Text)
	if !ok {
		h.sendResponse(ctx, chatID, msgRegisterUsage)
		return
	}

	h.logCommand(userID, "/register", "processing")

	cmdCtx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	result, err := h.svc.Register(cmdCtx, userID, email)
	if err != nil {
		h.logError(userID, "/register", err)
		if pkgerrors.IsValidation(err) {
			h.sendResponse(ctx, chatID, msgRegisterInvalid)
		} else {
			h.sendResponse(ctx, chatID, msgRegisterFailed)
		}
		return
	}

	if !result.Active {
		h.sendResponse(ctx, chatID, msgRegisterInactive)
		h.logCommand(userID, "/register", "inactive")
		return
	}

	lines := []string{msgRegisterActive}
	if result.Subscriber != nil {
		lines = append(lines, fmt.Sprintf(msgRegisterExpiry, result.Subscriber.Plan.Label(), result.Subscriber.ExpiryDate))
	}
	if result.InviteLink != "" {
		lines = append(lines, fmt.Sprintf(msgRegisterInvite, result.InviteLink))
	}
	h.sendResponse(ctx, chatID, strings.Join(lines, "\n"))
	h.logCommand(userID, "/register", "active")
}

// HandleStatus shows the caller's subscription
func (h *Handlers) HandleStatus(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	userID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	sub, err := h.svc.Status(ctx, userID)
	if err != nil {
		if pkgerrors.IsNotFound(err) {
			h.sendResponse(ctx, chatID, msgStatusNone)
			return
		}
		h.logError(userID, "/status", err)
		h.sendResponse(ctx, chatID, msgStatusFailed)
		return
	}

	h.sendResponse(ctx, chatID, fmt.Sprintf(msgStatus, sub.Plan.Label(), sub.ExpiryDate, statusLabel(sub.Status)))
	h.logCommand(userID, "/status", "success")
}

// HandleChatMember starts the grace period for members joining the group
func (h *Handlers) HandleChatMember(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	joined := update.ChatMember
	if joined == nil || joined.Chat.ID != h.groupID {
		return
	}

	user := joinedUser(joined.NewChatMember)
	if user == nil || user.IsBot {
		return
	}

	if !isJoin(joined.OldChatMember, joined.NewChatMember) {
		return
	}

	h.logger.Info().Int64("member_id", user.ID).Msg("Member joined group")
	h.svc.RecordJoin(ctx, user.ID)
}

// authorizeAdmin returns ErrNotAdmin unless userID is the operator
func (h *Handlers) authorizeAdmin(userID int64) error {
	if userID != h.adminID {
		return domainerrors.ErrNotAdmin
	}
	return nil
}

// isMatchingChatMember reports whether the update is a membership change
func isMatchingChatMember(update *models.Update) bool {
	return update.ChatMember != nil
}

// isJoin reports a transition from outside the group to inside it
func isJoin(old, current models.ChatMember) bool {
	return !inGroup(old) && inGroup(current)
}

// inGroup reports whether the status means the user is in the group
func inGroup(m models.ChatMember) bool {
	switch m.Type {
	case models.ChatMemberTypeOwner, models.ChatMemberTypeAdministrator, models.ChatMemberTypeMember:
		return true
	case models.ChatMemberTypeRestricted:
		return m.Restricted != nil && m.Restricted.IsMember
	default:
		return false
	}
}

// joinedUser returns the user behind a regular or restricted member status
func joinedUser(m models.ChatMember) *models.User {
	switch m.Type {
	case models.ChatMemberTypeMember:
		if m.Member != nil {
			return m.Member.User
		}
	case models.ChatMemberTypeRestricted:
		if m.Restricted != nil && m.Restricted.IsMember {
			return m.Restricted.User
		}
	}
	return nil
}

// commandArgument returns the first word after the command
func commandArgument(text string) (string, bool) {
	fields := strings.Fields(text)
	if len(fields) < 2 {
		return "", false
	}
	return fields[1], true
}

func statusLabel(s entities.Status) string {
	if s == entities.StatusActive {
		return "ativa"
	}
	return "expirada"
}

func (h *Handlers) sendResponse(ctx context.Context, chatID int64, text string) {
	if err := h.sender.SendMessage(ctx, chatID, text); err != nil {
		h.logger.Error().Int64("chat_id", chatID).Err(err).Msg("Failed to send Telegram response")
	}
}

// logCommand logs command processing
func (h *Handlers) logCommand(userID int64, command, result string) {
	h.logger.Info().Int64("user_id", userID).Str("command", command).Str("result", result).Msg("Telegram command processed")
}

// logError logs command errors
func (h *Handlers) logError(userID int64, command string, err error) {
	h.logger.Error().Int64("user_id", userID).Str("command", command).Err(err).Msg("Telegram command failed")
}
