package bot

import (
	"context"
	"fmt"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"
)

// SessionMessage represents a message to be processed by the session worker.
type SessionMessage struct {
	Type string
	Ctx  context.Context
	Done chan struct{} // Closed when processing is complete (for synchronous dispatch)

	// Message data (only one is set based on Type)
	Message       *tgbotapi.Message
	CallbackQuery *tgbotapi.CallbackQuery
}

// MessageSender abstracts the ability to send Telegram messages.
// This interface decouples UserSession from the full Bot struct,
// improving testability.
type MessageSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// MessageHandler is the interface for processing session messages.
// This allows the session to dispatch to external handlers without circular dependencies.
type MessageHandler interface {
	HandleSessionMessage(ctx context.Context, session *UserSession, msg SessionMessage)
}

// UserSession represents a user's session with the bot.
//
// Threading model:
//   - Each session has a dedicated worker goroutine that processes messages sequentially
//   - Message handlers are called only from the worker and can access session
//     state without locks, so two quick messages from the same user never race
//     on the wizard state
type UserSession struct {
	userId int64
	sender MessageSender

	// Identity of the latest event, used for replies and subscription ownership
	chatId      int64
	username    string
	displayName string

	// Worker channel for sequential message processing
	inbox   chan SessionMessage
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	handler MessageHandler // Set after construction to avoid circular deps

	// Subscription wizard state, nil when idle
	wizard *WizardSession
}

// touch records who sent the event being processed.
// Called from session worker - no locking needed.
func (s *UserSession) touch(from *tgbotapi.User, chat *tgbotapi.Chat) {
	if chat != nil {
		s.chatId = chat.ID
	}
	if from != nil {
		s.username = from.UserName
		s.displayName = from.FirstName
	}
}

// replyChatID is the chat replies go to. Private chats share the user's id.
func (s *UserSession) replyChatID() int64 {
	if s.chatId != 0 {
		return s.chatId
	}
	return s.userId
}

func (s *UserSession) reset() {
	log.Info().Int64("userId", s.userId).Msg("reset user session")
	s.wizard = nil
}

func (s *UserSession) replyWithError(err error) tgbotapi.Message {
	log.Error().Stack().Err(err).Send()
	return s._reply(formatReplyText(MsgUnexpectedErr, err), nil)
}

func (s *UserSession) replyWithMessage(msg tgbotapi.MessageConfig) tgbotapi.Message {
	msg.ChatID = s.replyChatID()
	sent, err := s.sender.Send(msg)
	if err != nil {
		log.Error().Stack().
			Interface("msg", msg).
			Err(fmt.Errorf("failed to send reply message: %w", err)).Send()
	} else {
		log.Debug().Int64("chatId", msg.ChatID).Msg("sent message")
	}

	return sent
}

func (s *UserSession) _reply(text string, markup any) tgbotapi.Message {
	msg := tgbotapi.MessageConfig{
		Text:      text,
		ParseMode: tgbotapi.ModeMarkdown,
	}
	if markup != nil {
		msg.ReplyMarkup = markup
	}

	return s.replyWithMessage(msg)
}

func (s *UserSession) reply(text string, a ...any) tgbotapi.Message {
	return s._reply(formatReplyText(text, a...), nil)
}

// replyWithKeyboard sends text with an inline keyboard attached.
func (s *UserSession) replyWithKeyboard(keyboard tgbotapi.InlineKeyboardMarkup, text string, a ...any) tgbotapi.Message {
	return s._reply(formatReplyText(text, a...), keyboard)
}

// editWithKeyboard replaces the text and keyboard of a message the bot sent
// earlier. Navigation menus are edited in place instead of piling up.
func (s *UserSession) editWithKeyboard(messageID int, keyboard tgbotapi.InlineKeyboardMarkup, text string, a ...any) {
	edit := tgbotapi.NewEditMessageTextAndMarkup(s.replyChatID(), messageID, formatReplyText(text, a...), keyboard)
	edit.ParseMode = tgbotapi.ModeMarkdown
	if _, err := s.sender.Send(edit); err != nil {
		log.Error().Err(err).Int64("chatId", s.replyChatID()).Int("messageId", messageID).Msg("failed to edit message")
	}
}

// showWithKeyboard edits messageID in place when it is set and sends a new
// message otherwise.
func (s *UserSession) showWithKeyboard(messageID int, keyboard tgbotapi.InlineKeyboardMarkup, text string, a ...any) {
	if messageID != 0 {
		s.editWithKeyboard(messageID, keyboard, text, a...)
		return
	}
	s.replyWithKeyboard(keyboard, text, a...)
}

// --- Worker methods ---

// StartWorker starts the session's message processing worker goroutine.
// Must be called after setting the handler.
func (s *UserSession) StartWorker() {
	s.wg.Add(1)
	go s.runWorker()
}

// SetHandler sets the message handler for this session.
func (s *UserSession) SetHandler(handler MessageHandler) {
	s.handler = handler
}

// runWorker is the main worker loop that processes messages sequentially.
func (s *UserSession) runWorker() {
	defer s.wg.Done()

	for {
		select {
		case <-s.ctx.Done():
			// Drain any remaining messages and signal completion
			for {
				select {
				case msg := <-s.inbox:
					if msg.Done != nil {
						close(msg.Done)
					}
				default:
					return
				}
			}
		case msg := <-s.inbox:
			s.processMessage(msg)
		}
	}
}

// processMessage handles a single message from the inbox.
func (s *UserSession) processMessage(msg SessionMessage) {
	defer func() {
		// Recover from any panics to keep the worker running
		if r := recover(); r != nil {
			log.Error().
				Int64("userId", s.userId).
				Interface("panic", r).
				Msg("recovered from panic in session worker")
		}
		if msg.Done != nil {
			close(msg.Done)
		}
	}()

	if s.handler == nil {
		log.Error().Int64("userId", s.userId).Msg("session handler not set")
		return
	}

	s.handler.HandleSessionMessage(msg.Ctx, s, msg)
}

// Send queues a message for processing by the worker.
// This is non-blocking - it returns immediately after queuing.
func (s *UserSession) Send(msg SessionMessage) {
	select {
	case s.inbox <- msg:
	case <-s.ctx.Done():
		if msg.Done != nil {
			close(msg.Done)
		}
	}
}

// SendSync queues a message and waits for it to be processed.
// Returns when the message has been fully processed by the worker.
func (s *UserSession) SendSync(msg SessionMessage) {
	msg.Done = make(chan struct{})
	s.Send(msg)
	<-msg.Done
}

// Stop stops the worker and waits for it to finish.
func (s *UserSession) Stop() {
	s.cancel()
	s.wg.Wait()
}
