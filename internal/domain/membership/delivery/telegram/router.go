package telegram

import (
	"context"
	"strings"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"

	"github.com/Lucxx50/BotLucasAllan/internal/domain/membership/consts"
)

// Router registers Telegram bot handlers
type Router struct {
	handlers *Handlers
	logger   zerolog.Logger
}

// NewRouter creates new Telegram router
func NewRouter(handlers *Handlers, logger zerolog.Logger) *Router {
	return &Router{
		handlers: handlers,
		logger:   logger,
	}
}

// RegisterRoutes registers all command and update handlers on the bot
func (r *Router) RegisterRoutes(bot *tgbot.Bot) {
	bot.RegisterHandlerMatchFunc(matchCommand(consts.CommandStart.Name), r.handlers.HandleStart)
	bot.RegisterHandlerMatchFunc(matchCommand(consts.CommandCheck.Name), r.handlers.HandleCheck)
	bot.RegisterHandlerMatchFunc(matchCommand(consts.CommandRegister.Name), r.handlers.HandleRegister)
	bot.RegisterHandlerMatchFunc(matchCommand(consts.CommandStatus.Name), r.handlers.HandleStatus)
	bot.RegisterHandlerMatchFunc(isMatchingChatMember, r.handlers.HandleChatMember)

	r.logger.Info().Msg("All Telegram command handlers registered successfully")
}

// SetCommands publishes the command menu
func (r *Router) SetCommands(ctx context.Context, bot *tgbot.Bot) error {
	commands := make([]models.BotCommand, 0, len(consts.AllCommands))
	for _, c := range consts.AllCommands {
		commands = append(commands, models.BotCommand{
			Command:     c.Name,
			Description: c.Description,
		})
	}

	_, err := bot.SetMyCommands(ctx, &tgbot.SetMyCommandsParams{Commands: commands})
	return err
}

// matchCommand matches text messages whose first word is /name or /name@bot
func matchCommand(name string) func(update *models.Update) bool {
	return func(update *models.Update) bool {
		if update.Message == nil {
			return false
		}
		return commandName(update.Message.Text) == name
	}
}

// commandName returns the command in the first word, without the slash and bot mention
func commandName(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return ""
	}
	name, _, _ := strings.Cut(fields[0][1:], "@")
	return name
}
