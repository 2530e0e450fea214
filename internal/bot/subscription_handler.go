package bot

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/raine/telegram-wallapop-bot/internal/storage"
	"github.com/rs/zerolog/log"
)

// DefaultMaxSubscriptions is the per-chat subscription limit when none is configured.
const DefaultMaxSubscriptions = 20

var categoryIDsRegex = regexp.MustCompile(`^\d+(,\d+)*$`)

// normalizeKeywords collapses runs of whitespace so that "iphone  15" and
// "iphone 15" name the same subscription.
func normalizeKeywords(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// handleAddCommand handles /add keywords[,min-max[,category,ids]].
func (b *Bot) handleAddCommand(ctx context.Context, session *UserSession, args string) {
	parts := strings.SplitN(args, ",", 3)
	keywords := normalizeKeywords(parts[0])
	if keywords == "" {
		session.reply(MsgAddUsage)
		return
	}

	var price PriceRange
	if len(parts) > 1 && strings.TrimSpace(parts[1]) != "" {
		var err error
		price, err = parsePriceRange(parts[1])
		if err != nil {
			session.reply(MsgAddInvalidPrice, err.Error())
			return
		}
	}

	var categories string
	if len(parts) > 2 {
		categories = strings.Join(strings.Fields(parts[2]), "")
		if categories != "" && !categoryIDsRegex.MatchString(categories) {
			session.reply(MsgAddInvalidCategory, escapeMarkdown(categories))
			return
		}
	}

	b.createSubscription(ctx, session, &storage.Subscription{
		Keywords:    keywords,
		MinPrice:    price.Min,
		MaxPrice:    price.Max,
		CategoryIDs: categories,
	})
}

// createSubscription is the single creation path for /add and the wizard.
// It fills in the owner, enforces the per-chat limit and confirms to the user.
func (b *Bot) createSubscription(ctx context.Context, session *UserSession, sub *storage.Subscription) {
	sub.Keywords = normalizeKeywords(sub.Keywords)
	sub.ChatID = session.replyChatID()
	sub.OwnerUsername = session.username
	sub.OwnerDisplayName = session.displayName
	sub.Active = true

	if b.maxSubscriptions > 0 {
		count, err := b.store.CountSubscriptionsByChat(ctx, sub.ChatID)
		if err != nil {
			log.Error().Err(err).Int64("chatId", sub.ChatID).Msg("failed to count subscriptions")
			session.reply(MsgSubscriptionCreateFailed)
			return
		}
		if count >= b.maxSubscriptions {
			session.reply(MsgSubscriptionLimit, b.maxSubscriptions)
			return
		}
	}

	if err := b.store.CreateSubscription(ctx, sub); err != nil {
		if errors.Is(err, storage.ErrSubscriptionExists) {
			session.reply(MsgSubscriptionExists, escapeMarkdown(sub.Keywords))
			return
		}
		log.Error().Err(err).Int64("chatId", sub.ChatID).Str("keywords", sub.Keywords).Msg("failed to create subscription")
		session.reply(MsgSubscriptionCreateFailed)
		return
	}

	log.Info().
		Str("subscriptionId", sub.ID).
		Int64("chatId", sub.ChatID).
		Str("keywords", sub.Keywords).
		Str("minPrice", sub.MinPrice).
		Str("maxPrice", sub.MaxPrice).
		Str("categories", sub.CategoryIDs).
		Msg("subscription created")

	var categories string
	if sub.CategoryIDs != "" {
		categories = fmt.Sprintf(MsgSubscriptionCategories, sub.CategoryIDs)
	}
	price := PriceRange{Min: sub.MinPrice, Max: sub.MaxPrice}
	session.replyWithKeyboard(makeMainMenuKeyboard(), MsgSubscriptionCreated, escapeMarkdown(sub.Keywords), price.String(), categories)
}

// handleDelCommand handles /del keywords, matching the keywords exactly.
func (b *Bot) handleDelCommand(ctx context.Context, session *UserSession, args string) {
	keywords := normalizeKeywords(args)
	if keywords == "" {
		session.reply(MsgDelUsage)
		return
	}

	chatID := session.replyChatID()
	err := b.store.DeleteSubscription(ctx, chatID, keywords)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		session.reply(MsgSubscriptionNotFound, escapeMarkdown(keywords))
	case err != nil:
		log.Error().Err(err).Int64("chatId", chatID).Str("keywords", keywords).Msg("failed to delete subscription")
		session.reply(MsgSubscriptionDeleteFailed)
	default:
		log.Info().Int64("chatId", chatID).Str("keywords", keywords).Msg("subscription deleted")
		session.reply(MsgSubscriptionDeleted, escapeMarkdown(keywords))
	}
}

// showSubscriptions lists the chat's subscriptions with a delete button for
// each. The list replaces messageID when it is set.
func (b *Bot) showSubscriptions(ctx context.Context, session *UserSession, messageID int) {
	subs, err := b.store.ListSubscriptionsByChat(ctx, session.replyChatID())
	if err != nil {
		log.Error().Err(err).Int64("chatId", session.replyChatID()).Msg("failed to list subscriptions")
		session.replyWithError(err)
		return
	}

	var text string
	var keyboard tgbotapi.InlineKeyboardMarkup
	if len(subs) == 0 {
		text = MsgNoSubscriptions
		keyboard = makeBackKeyboard(BtnBackToMenu, cbMainMenu)
	} else {
		var sb strings.Builder
		sb.WriteString(fmt.Sprintf(MsgSubscriptionsHeader, len(subs)))
		for i, sub := range subs {
			sb.WriteString(fmt.Sprintf(MsgSubscriptionItem, i+1, formatSubscription(sub)))
		}
		text = sb.String()
		keyboard = makeSubscriptionsKeyboard(subs)
	}

	session.showWithKeyboard(messageID, keyboard, "%s", text)
}

// handleDeleteButton deletes the subscription behind a "del:<id>" button and
// refreshes the list it was pressed on.
func (b *Bot) handleDeleteButton(ctx context.Context, session *UserSession, query *tgbotapi.CallbackQuery) {
	id := strings.TrimPrefix(query.Data, cbDelete)
	chatID := session.replyChatID()

	sub, err := b.store.GetSubscription(ctx, id)
	if err != nil {
		log.Error().Err(err).Str("subscriptionId", id).Msg("failed to get subscription")
		session.reply(MsgSubscriptionDeleteFailed)
		return
	}
	if sub == nil || sub.ChatID != chatID {
		session.reply(MsgWizardExpired)
		return
	}

	if err := b.store.DeleteSubscription(ctx, chatID, sub.Keywords); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			session.reply(MsgWizardExpired)
			return
		}
		log.Error().Err(err).Str("subscriptionId", id).Msg("failed to delete subscription")
		session.reply(MsgSubscriptionDeleteFailed)
		return
	}

	log.Info().Str("subscriptionId", id).Int64("chatId", chatID).Msg("subscription deleted")
	b.showSubscriptions(ctx, session, messageIDOf(query))
	session.reply(MsgSubscriptionDeleted, escapeMarkdown(sub.Keywords))
}

// messageIDOf returns the id of the message a button belongs to, or 0 for
// inline-mode messages the bot cannot edit.
func messageIDOf(query *tgbotapi.CallbackQuery) int {
	if query.Message == nil {
		return 0
	}
	return query.Message.MessageID
}
