package bot

import (
	"context"
	"strings"

	"github.com/raine/telegram-wallapop-bot/internal/storage"
	"github.com/rs/zerolog/log"
)

// WizardStep is the state of an open subscription wizard. A user with no
// wizard session is idle.
type WizardStep int

const (
	StepWaitingKeywords WizardStep = iota
	StepSelectPrice
	StepSelectCategoryPrice
	StepWaitingCustomPrice
)

func (s WizardStep) String() string {
	switch s {
	case StepWaitingKeywords:
		return "waiting_keywords"
	case StepSelectPrice:
		return "select_price"
	case StepSelectCategoryPrice:
		return "select_category_price"
	case StepWaitingCustomPrice:
		return "waiting_custom_price"
	default:
		return "unknown"
	}
}

// WizardSession accumulates the fields of a subscription being built with
// the button flow.
type WizardSession struct {
	Step     WizardStep
	Keywords string
	Category string // Set by the category branch
}

type eventKind int

const (
	eventButton eventKind = iota
	eventText
)

// wizardEvent is either a buttonPress or a textMessage.
type wizardEvent interface {
	kind() eventKind
}

type buttonPress struct {
	tag       string // Callback data without the "price:" prefix
	messageID int    // Message carrying the button, 0 if unknown
}

type textMessage struct {
	body string
}

func (buttonPress) kind() eventKind { return eventButton }
func (textMessage) kind() eventKind { return eventText }

type transition struct {
	step WizardStep
	kind eventKind
}

type wizardHandler func(b *Bot, ctx context.Context, session *UserSession, ev wizardEvent)

var wizardTransitions = map[transition]wizardHandler{
	{StepWaitingKeywords, eventText}:       (*Bot).onKeywords,
	{StepSelectPrice, eventButton}:         (*Bot).onPriceButton,
	{StepSelectCategoryPrice, eventButton}: (*Bot).onPriceButton,
	{StepWaitingCustomPrice, eventButton}:  (*Bot).onPriceButton,
	{StepWaitingCustomPrice, eventText}:    (*Bot).onCustomPrice,
}

// handleWizardEvent feeds an event to the user's wizard.
// Called from session worker - no locking needed.
func (b *Bot) handleWizardEvent(ctx context.Context, session *UserSession, ev wizardEvent) {
	w := session.wizard
	if w == nil {
		session.reply(MsgWizardExpired)
		return
	}

	handler, ok := wizardTransitions[transition{w.Step, ev.kind()}]
	if !ok {
		if ev.kind() == eventText {
			session.reply(MsgWizardUseButtons)
		} else {
			session.reply(MsgWizardExpired)
		}
		return
	}

	log.Debug().
		Int64("userId", session.userId).
		Str("step", w.Step.String()).
		Msg("wizard event")
	handler(b, ctx, session, ev)
}

// startAddSearch opens a fresh wizard waiting for keywords. Any previous
// wizard of the user is discarded.
func (b *Bot) startAddSearch(session *UserSession, messageID int) {
	session.wizard = &WizardSession{Step: StepWaitingKeywords}
	session.showWithKeyboard(messageID, makeBackKeyboard(BtnBackToMenu, cbMainMenu), MsgWizardKeywordsPrompt)
}

// selectCategory starts the category branch. Keywords typed into an open
// wizard are discarded: the subscription searches the category keywords.
func (b *Bot) selectCategory(session *UserSession, categoryID string, messageID int) {
	session.wizard = &WizardSession{Step: StepSelectCategoryPrice, Category: categoryID}

	session.showWithKeyboard(messageID, makePriceKeyboard(BtnBack, cbCategories),
		MsgCategoryPriceStep, escapeMarkdown(categoryLabel(categoryID)))
}

func (b *Bot) onKeywords(_ context.Context, session *UserSession, ev wizardEvent) {
	keywords := strings.TrimSpace(ev.(textMessage).body)
	if keywords == "" {
		session.reply(MsgWizardKeywordsEmpty)
		return
	}

	session.wizard.Keywords = keywords
	session.wizard.Step = StepSelectPrice
	session.replyWithKeyboard(makePriceKeyboard(BtnChangeSearch, cbAddSearch), MsgWizardPriceStep, escapeMarkdown(keywords))
}

func (b *Bot) onPriceButton(ctx context.Context, session *UserSession, ev wizardEvent) {
	press := ev.(buttonPress)
	switch press.tag {
	case priceNoLimit:
		b.commitWizard(ctx, session, PriceRange{})
	case priceCustom:
		session.wizard.Step = StepWaitingCustomPrice
		session.showWithKeyboard(press.messageID, makeBackKeyboard(BtnCancel, cbMainMenu), MsgCustomPricePrompt)
	default:
		price, err := parsePriceRange(press.tag)
		if err != nil {
			log.Warn().Err(err).Str("tag", press.tag).Msg("invalid price tier")
			session.reply(MsgWizardExpired)
			return
		}
		b.commitWizard(ctx, session, price)
	}
}

func (b *Bot) onCustomPrice(ctx context.Context, session *UserSession, ev wizardEvent) {
	price, err := parsePriceRange(ev.(textMessage).body)
	if err != nil {
		session.replyWithKeyboard(makeBackKeyboard(BtnCancel, cbMainMenu), MsgCustomPriceError, err.Error())
		return
	}
	b.commitWizard(ctx, session, price)
}

// commitWizard closes the wizard and creates the subscription it describes.
// The wizard is gone afterwards even if creation fails.
func (b *Bot) commitWizard(ctx context.Context, session *UserSession, price PriceRange) {
	w := session.wizard
	session.wizard = nil

	keywords := w.Keywords
	if w.Category != "" {
		keywords = keywordsForCategory(w.Category)
	}

	b.createSubscription(ctx, session, &storage.Subscription{
		Keywords:    keywords,
		MinPrice:    price.Min,
		MaxPrice:    price.Max,
		CategoryIDs: w.Category,
	})
}

// cancelWizard discards the wizard of the user, if any.
func (b *Bot) cancelWizard(session *UserSession) bool {
	if session.wizard == nil {
		return false
	}
	log.Info().Int64("userId", session.userId).Str("step", session.wizard.Step.String()).Msg("wizard cancelled")
	session.reset()
	return true
}
