package bot

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/raine/telegram-wallapop-bot/internal/storage"
	"github.com/rs/zerolog/log"
)

// BotAPI defines the interface for Telegram bot API operations.
type BotAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// SubscriptionStore is the part of the store the conversational side uses.
type SubscriptionStore interface {
	CreateSubscription(ctx context.Context, sub *storage.Subscription) error
	DeleteSubscription(ctx context.Context, chatID int64, keywords string) error
	GetSubscription(ctx context.Context, id string) (*storage.Subscription, error)
	ListSubscriptionsByChat(ctx context.Context, chatID int64) ([]storage.Subscription, error)
	CountSubscriptionsByChat(ctx context.Context, chatID int64) (int, error)
}

// Options configures a Bot.
type Options struct {
	// MaxSubscriptions caps subscriptions per chat. Zero or less disables the limit.
	MaxSubscriptions int
}

// Bot is the main Telegram bot handler.
type Bot struct {
	tg               BotAPI
	state            *BotState
	store            SubscriptionStore
	maxSubscriptions int
}

// NewBot creates a new Bot instance.
func NewBot(tg BotAPI, store SubscriptionStore, opts Options) *Bot {
	bot := &Bot{
		tg:               tg,
		store:            store,
		maxSubscriptions: opts.MaxSubscriptions,
	}
	bot.state = bot.NewBotState()
	return bot
}

// Shutdown stops all session workers.
func (b *Bot) Shutdown() {
	b.state.Shutdown()
}

// HandleUpdate is the main message router.
// It dispatches messages to the appropriate session worker for sequential processing.
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	b.dispatchUpdate(ctx, update, false)
}

// handleUpdateSync is like HandleUpdate but waits for message processing to complete.
// Used in tests where we need synchronous behavior.
func (b *Bot) handleUpdateSync(ctx context.Context, update tgbotapi.Update) {
	b.dispatchUpdate(ctx, update, true)
}

// dispatchUpdate routes updates to the appropriate session worker.
// If sync is true, it waits for message processing to complete.
func (b *Bot) dispatchUpdate(ctx context.Context, update tgbotapi.Update, sync bool) {
	var userId int64

	// Determine user ID from the update
	if update.CallbackQuery != nil && update.CallbackQuery.From != nil {
		userId = update.CallbackQuery.From.ID
	} else if update.Message != nil && update.Message.From != nil {
		userId = update.Message.From.ID
	} else {
		return
	}

	session := b.state.getUserSession(userId)

	// Helper to send sync or async based on flag
	send := func(msg SessionMessage) {
		if sync {
			session.SendSync(msg)
		} else {
			session.Send(msg)
		}
	}

	if update.CallbackQuery != nil {
		send(SessionMessage{
			Type:          "callback",
			Ctx:           ctx,
			CallbackQuery: update.CallbackQuery,
		})
		return
	}

	log.Info().Int64("userId", userId).Str("text", update.Message.Text).Msg("got message")
	send(SessionMessage{
		Type:    "text",
		Ctx:     ctx,
		Message: update.Message,
	})
}

// HandleSessionMessage implements MessageHandler interface.
// This is called by the session worker goroutine for sequential processing.
// No mutex locking is needed here since only one goroutine accesses session state.
func (b *Bot) HandleSessionMessage(ctx context.Context, session *UserSession, msg SessionMessage) {
	switch msg.Type {
	case "callback":
		var chat *tgbotapi.Chat
		if msg.CallbackQuery.Message != nil {
			chat = msg.CallbackQuery.Message.Chat
		}
		session.touch(msg.CallbackQuery.From, chat)
		b.handleCallbackQuery(ctx, session, msg.CallbackQuery)
	case "text":
		session.touch(msg.Message.From, msg.Message.Chat)
		b.handleTextMessage(ctx, session, msg.Message)
	}
}

// handleTextMessage processes text messages. Commands always win over the
// wizard, other text goes to the wizard when one is open.
// Called from session worker - no locking needed.
func (b *Bot) handleTextMessage(ctx context.Context, session *UserSession, message *tgbotapi.Message) {
	if strings.HasPrefix(strings.TrimSpace(message.Text), "/") {
		b.handleCommand(ctx, session, message.Text)
		return
	}

	if session.wizard != nil {
		b.handleWizardEvent(ctx, session, textMessage{body: message.Text})
		return
	}

	session.replyWithKeyboard(makeMainMenuKeyboard(), MsgUnknownInput)
}

// handleCommand processes bot commands.
// Called from session worker - no locking needed.
func (b *Bot) handleCommand(ctx context.Context, session *UserSession, text string) {
	name, args := parseCommand(text)
	command, ok := lookupCommand(name)
	if !ok {
		session.replyWithKeyboard(makeMainMenuKeyboard(), MsgUnknownInput)
		return
	}

	switch command {
	case "start":
		b.cancelWizard(session)
		session.replyWithKeyboard(makeMainMenuKeyboard(), MsgWelcome)
	case "add":
		b.handleAddCommand(ctx, session, args)
	case "del":
		b.handleDelCommand(ctx, session, args)
	case "list":
		b.showSubscriptions(ctx, session, 0)
	case "cancelar":
		b.cancelWizard(session)
		session.replyWithKeyboard(makeMainMenuKeyboard(), MsgWizardCancelled)
	case "version":
		session.reply(MsgVersionInfo, Version, BuildTime)
	}
}

// handleCallbackQuery handles inline keyboard button presses.
// Called from session worker - no locking needed.
func (b *Bot) handleCallbackQuery(ctx context.Context, session *UserSession, query *tgbotapi.CallbackQuery) {
	// Answer the callback to remove the loading state
	callback := tgbotapi.NewCallback(query.ID, "")
	if _, err := b.tg.Request(callback); err != nil {
		log.Warn().Err(err).Str("data", query.Data).Msg("failed to answer callback")
	}

	messageID := messageIDOf(query)
	data := query.Data

	switch {
	case data == cbMainMenu:
		b.cancelWizard(session)
		session.showWithKeyboard(messageID, makeMainMenuKeyboard(), MsgMainMenu)
	case data == cbAddSearch:
		b.startAddSearch(session, messageID)
	case data == cbMySearches:
		b.showSubscriptions(ctx, session, messageID)
	case data == cbCategories:
		session.showWithKeyboard(messageID, makeCategoriesKeyboard(), MsgCategoriesMenu)
	case data == cbHelp:
		session.showWithKeyboard(messageID, makeBackKeyboard(BtnBackToMenu, cbMainMenu), MsgHelp)
	case strings.HasPrefix(data, cbCategory):
		b.selectCategory(session, strings.TrimPrefix(data, cbCategory), messageID)
	case strings.HasPrefix(data, cbPrice):
		b.handleWizardEvent(ctx, session, buttonPress{
			tag:       strings.TrimPrefix(data, cbPrice),
			messageID: messageID,
		})
	case strings.HasPrefix(data, cbDelete):
		b.handleDeleteButton(ctx, session, query)
	default:
		log.Warn().Str("data", data).Int64("userId", session.userId).Msg("unknown callback")
	}
}
