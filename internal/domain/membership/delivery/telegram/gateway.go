// Package telegram contains Telegram delivery for the membership domain
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
	pkgerrors "github.com/Lucxx50/BotLucasAllan/pkg/errors"
)

// botAPI is the subset of the Bot API the gateway calls
type botAPI interface {
	BanChatMember(ctx context.Context, params *tgbot.BanChatMemberParams) (bool, error)
	UnbanChatMember(ctx context.Context, params *tgbot.UnbanChatMemberParams) (bool, error)
	CreateChatInviteLink(ctx context.Context, params *tgbot.CreateChatInviteLinkParams) (*models.ChatInviteLink, error)
	SendMessage(ctx context.Context, params *tgbot.SendMessageParams) (*models.Message, error)
	GetChatMember(ctx context.Context, params *tgbot.GetChatMemberParams) (*models.ChatMember, error)
}

// Gateway implements deps.MembershipGateway for one Telegram group
type Gateway struct {
	bot     botAPI
	groupID int64
	timeout time.Duration
	logger  zerolog.Logger
}

// NewGateway creates a gateway bound to groupID
func NewGateway(bot botAPI, groupID int64, timeout time.Duration, logger zerolog.Logger) *Gateway {
	return &Gateway{
		bot:     bot,
		groupID: groupID,
		timeout: timeout,
		logger:  logger,
	}
}

var _ deps.MembershipGateway = (*Gateway)(nil)

// AddMember lifts a ban, if any, and creates a single-use invite link
func (g *Gateway) AddMember(ctx context.Context, memberID int64) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	_, err := g.bot.UnbanChatMember(callCtx, &tgbot.UnbanChatMemberParams{
		ChatID:       g.groupID,
		UserID:       memberID,
		OnlyIfBanned: true,
	})
	if err != nil {
		return "", g.classify("unban_chat_member", memberID, err)
	}

	link, err := g.bot.CreateChatInviteLink(callCtx, &tgbot.CreateChatInviteLinkParams{
		ChatID:      g.groupID,
		Name:        fmt.Sprintf("member %d", memberID),
		MemberLimit: 1,
	})
	if err != nil {
		return "", g.classify("create_chat_invite_link", memberID, err)
	}

	g.logger.Info().Int64("member_id", memberID).Msg("Member admitted to group")
	return link.InviteLink, nil
}

// RemoveMember bans the member from the group
func (g *Gateway) RemoveMember(ctx context.Context, memberID int64) error {
	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	if _, err := g.bot.BanChatMember(callCtx, &tgbot.BanChatMemberParams{
		ChatID: g.groupID,
		UserID: memberID,
	}); err != nil {
		return g.classify("ban_chat_member", memberID, err)
	}

	g.logger.Info().Int64("member_id", memberID).Msg("Member removed from group")
	return nil
}

// SendDirectMessage sends text to the member's private chat
func (g *Gateway) SendDirectMessage(ctx context.Context, memberID int64, text string) error {
	return g.SendMessage(ctx, memberID, text)
}

// SendChannelMessage posts text to the group
func (g *Gateway) SendChannelMessage(ctx context.Context, text string) error {
	return g.SendMessage(ctx, g.groupID, text)
}

// SendMessage sends plain text to any chat
func (g *Gateway) SendMessage(ctx context.Context, chatID int64, text string) error {
	if text == "" {
		return fmt.Errorf("message text cannot be empty")
	}

	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	if _, err := g.bot.SendMessage(callCtx, &tgbot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	}); err != nil {
		return g.classify("send_message", chatID, err)
	}

	g.logger.Debug().Int64("chat_id", chatID).Int("message_length", len(text)).Msg("Message sent")
	return nil
}

// GetMembershipStatus reports the member's standing in the group.
// A user the group has never seen is reported as left.
func (g *Gateway) GetMembershipStatus(ctx context.Context, memberID int64) (entities.MembershipStatus, error) {
	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	member, err := g.bot.GetChatMember(callCtx, &tgbot.GetChatMemberParams{
		ChatID: g.groupID,
		UserID: memberID,
	})
	if err != nil {
		if isUserNotFound(err) {
			return entities.MembershipLeft, nil
		}
		return "", g.classify("get_chat_member", memberID, err)
	}

	return statusOf(member.Type), nil
}

func statusOf(t models.ChatMemberType) entities.MembershipStatus {
	switch t {
	case models.ChatMemberTypeOwner:
		return entities.MembershipOwner
	case models.ChatMemberTypeAdministrator:
		return entities.MembershipAdministrator
	case models.ChatMemberTypeMember:
		return entities.MembershipMember
	case models.ChatMemberTypeRestricted:
		return entities.MembershipRestricted
	case models.ChatMemberTypeBanned:
		return entities.MembershipKicked
	default:
		return entities.MembershipLeft
	}
}

func isUserNotFound(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "user not found") || strings.Contains(msg, "member not found")
}

// classify logs a failed Bot API call and wraps it as a transient error
func (g *Gateway) classify(operation string, chatID int64, err error) error {
	errorMsg := err.Error()

	var reason string
	switch {
	case strings.Contains(errorMsg, "Forbidden"):
		reason = "user blocked the bot or bot lacks rights"
	case strings.Contains(errorMsg, "chat not found"):
		reason = "chat not found"
	case strings.Contains(errorMsg, "Too Many Requests"):
		reason = "rate limit exceeded"
	case strings.Contains(errorMsg, "network error"), strings.Contains(errorMsg, "timeout"),
		strings.Contains(errorMsg, "deadline exceeded"):
		reason = "network error"
	default:
		reason = "telegram call failed"
	}

	g.logger.Warn().
		Err(err).
		Str("operation", operation).
		Int64("chat_id", chatID).
		Str("reason", reason).
		Msg("Telegram API call failed")

	return pkgerrors.NewTransientError(fmt.Sprintf("%s: %s", operation, reason), err)
}
