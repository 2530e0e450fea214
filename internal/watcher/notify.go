package watcher

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/raine/telegram-wallapop-bot/internal/money"
	"github.com/raine/telegram-wallapop-bot/internal/wallapop"
	"github.com/rs/zerolog/log"
)

// BotSender abstracts the Telegram bot API for sending messages.
type BotSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Notifier renders events and delivers them to their chat.
type Notifier struct {
	bot        BotSender
	formatter  *money.Formatter
	webBaseURL string
}

func NewNotifier(bot BotSender, formatter *money.Formatter, webBaseURL string) *Notifier {
	if webBaseURL == "" {
		webBaseURL = wallapop.DefaultWebBaseURL
	}
	return &Notifier{bot: bot, formatter: formatter, webBaseURL: webBaseURL}
}

// Render builds the Markdown text of a notification. seller may be nil.
func (n *Notifier) Render(ev Event, seller *wallapop.SellerInfo) string {
	var sb strings.Builder

	price := n.formatter.Format(ev.Listing.Price.Amount)

	switch ev.Kind {
	case PriceDrop:
		sb.WriteString(fmt.Sprintf("⚠️ *%s*\n", escapeMarkdown(ev.Listing.Title)))
		sb.WriteString(fmt.Sprintf("💥 %s%s%s 💥\n", price, annotationSeparator, ev.Annotation))
	default:
		sb.WriteString(fmt.Sprintf("🎯 *%s*\n", escapeMarkdown(ev.Listing.Title)))
		sb.WriteString(price + "\n")
	}

	if seller != nil {
		sb.WriteString(sellerLine(seller) + "\n")
	}

	sb.WriteString(wallapop.ItemURL(n.webBaseURL, ev.Listing.WebSlug))
	return sb.String()
}

// sellerLine renders the seller's score, a badge for good scores and a
// star for top profiles.
func sellerLine(seller *wallapop.SellerInfo) string {
	line := "👤 *Vendedor:*"
	if seller.ReviewCount == 0 {
		line += " Sin valoraciones"
	} else {
		line += fmt.Sprintf(" %.0f%% (%d valoraciones)", seller.AverageRating, seller.ReviewCount)
		switch {
		case seller.AverageRating >= 90:
			line += " ⭐"
		case seller.AverageRating >= 80:
			line += " 👍"
		}
	}
	if seller.TopProfile {
		line += " 🌟"
	}
	return line
}

// Notify sends the notification. Failures are logged and not retried.
func (n *Notifier) Notify(ev Event, seller *wallapop.SellerInfo) error {
	msg := tgbotapi.NewMessage(ev.ChatID, n.Render(ev, seller))
	msg.ParseMode = tgbotapi.ModeMarkdown

	if _, err := n.bot.Send(msg); err != nil {
		log.Error().
			Err(err).
			Int64("chatId", ev.ChatID).
			Str("listingId", ev.Listing.ID).
			Str("kind", ev.Kind.String()).
			Msg("failed to send notification")
		return err
	}

	log.Debug().
		Int64("chatId", ev.ChatID).
		Str("listingId", ev.Listing.ID).
		Str("kind", ev.Kind.String()).
		Msg("notification sent")
	return nil
}

// escapeMarkdown escapes special characters for Telegram Markdown V1.
func escapeMarkdown(text string) string {
	text = strings.ReplaceAll(text, "*", "\\*")
	text = strings.ReplaceAll(text, "_", "\\_")
	text = strings.ReplaceAll(text, "`", "\\`")
	text = strings.ReplaceAll(text, "[", "\\[")
	return text
}
