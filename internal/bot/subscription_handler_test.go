package bot

import (
	"context"
	"fmt"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/raine/telegram-wallapop-bot/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleAddCommand(t *testing.T) {
	tests := []struct {
		name           string
		text           string
		wantKeywords   string
		wantMin        string
		wantMax        string
		wantCategories string
	}{
		{"keywords only", "/add iphone 12", "iphone 12", "", "", ""},
		{"with range", "/add iphone 12,100-300", "iphone 12", "100", "300", ""},
		{"with categories", "/add iphone 12,100-300,24103, 12800", "iphone 12", "100", "300", "24103,12800"},
		{"empty price with category", "/add bici,,12579", "bici", "", "", "12579"},
		{"max only", "/add ps5,-300", "ps5", "", "300", ""},
		{"single amount is max", "/add ps5,150", "ps5", "", "150", ""},
		{"whitespace collapsed", "/add   macbook    pro  ", "macbook pro", "", "", ""},
		{"alias", "/a kindle,20-", "kindle", "20", "", ""},
		{"spanish alias", "/añadir kindle", "kindle", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tg, bot, store := setup(t, Options{MaxSubscriptions: DefaultMaxSubscriptions})

			sendText(bot, tt.text)

			subs := listSubs(t, store)
			require.Len(t, subs, 1, "messages: %v", sentTexts(tg))
			assert.Equal(t, tt.wantKeywords, subs[0].Keywords)
			assert.Equal(t, tt.wantMin, subs[0].MinPrice)
			assert.Equal(t, tt.wantMax, subs[0].MaxPrice)
			assert.Equal(t, tt.wantCategories, subs[0].CategoryIDs)
			assert.Contains(t, lastText(t, tg), "¡Búsqueda creada correctamente!")
		})
	}
}

func TestHandleAddCommand_Rejected(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		wantText string
	}{
		{"no arguments", "/add", MsgAddUsage},
		{"only commas", "/add ,100-200", MsgAddUsage},
		{"bad price", "/add iphone,abc", "Rango de precio no válido: Precio 'abc' no es válido"},
		{"inverted range", "/add iphone,500-100", MsgPriceMinNotBelow},
		{"markdown in price", "/add iphone,10_x", "Precio '10\\_x' no es válido"},
		{"bad category", "/add iphone,,móviles", "Categorías no válidas"},
		{"dangling comma category", "/add iphone,,24103,", "Categorías no válidas"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tg, bot, store := setup(t, Options{})

			sendText(bot, tt.text)

			assert.Contains(t, lastText(t, tg), tt.wantText)
			assert.Empty(t, listSubs(t, store))
		})
	}
}

func TestHandleAddCommand_Duplicate(t *testing.T) {
	tg, bot, store := setup(t, Options{})

	sendText(bot, "/add iphone 12")
	sendText(bot, "/add iphone  12,100-200")

	assert.Equal(t, formatReplyText(MsgSubscriptionExists, "iphone 12"), lastText(t, tg))
	assert.Len(t, listSubs(t, store), 1)
}

func TestHandleAddCommand_LimitReached(t *testing.T) {
	tg, bot, store := setup(t, Options{MaxSubscriptions: 2})

	sendText(bot, "/add one")
	sendText(bot, "/add two")
	sendText(bot, "/add three")

	assert.Equal(t, formatReplyText(MsgSubscriptionLimit, 2), lastText(t, tg))
	assert.Len(t, listSubs(t, store), 2)
}

func TestHandleDelCommand(t *testing.T) {
	tg, bot, store := setup(t, Options{})

	sendText(bot, "/add iphone 12,100-300")
	sendText(bot, "/add macbook")

	sendText(bot, "/del iphone 12")
	assert.Equal(t, formatReplyText(MsgSubscriptionDeleted, "iphone 12"), lastText(t, tg))

	subs := listSubs(t, store)
	require.Len(t, subs, 1)
	assert.Equal(t, "macbook", subs[0].Keywords)

	sendText(bot, "/borrar iphone")
	assert.Equal(t, formatReplyText(MsgSubscriptionNotFound, "iphone"), lastText(t, tg))

	sendText(bot, "/d")
	assert.Equal(t, MsgDelUsage, lastText(t, tg))
}

func TestHandleDelCommand_OnlyOwnChat(t *testing.T) {
	tg, bot, store := setup(t, Options{})
	require.NoError(t, store.CreateSubscription(context.Background(), &storage.Subscription{
		ChatID:   99,
		Keywords: "iphone",
		Active:   true,
	}))

	sendText(bot, "/del iphone")

	assert.Equal(t, formatReplyText(MsgSubscriptionNotFound, "iphone"), lastText(t, tg))
	subs, err := store.ListSubscriptionsByChat(context.Background(), 99)
	require.NoError(t, err)
	assert.Len(t, subs, 1)
}

func TestHandleListCommand_Empty(t *testing.T) {
	tg, bot, _ := setup(t, Options{})

	sendText(bot, "/list")

	msg := tg.Calls[len(tg.Calls)-1].Arguments.Get(0).(tgbotapi.MessageConfig)
	assert.Equal(t, MsgNoSubscriptions, msg.Text)
	assert.Equal(t, makeBackKeyboard(BtnBackToMenu, cbMainMenu), msg.ReplyMarkup)
}

func TestHandleListCommand_ShowsSubscriptions(t *testing.T) {
	for _, cmd := range []string{"/list", "/lis", "/listar", "/l"} {
		t.Run(cmd, func(t *testing.T) {
			tg, bot, store := setup(t, Options{})

			sendText(bot, "/add iphone 12,100-300,24103")
			sendText(bot, "/add macbook_pro")
			sendText(bot, cmd)

			subs := listSubs(t, store)
			require.Len(t, subs, 2)

			msg := tg.Calls[len(tg.Calls)-1].Arguments.Get(0).(tgbotapi.MessageConfig)
			assert.Contains(t, msg.Text, "*Mis búsquedas* (2)")
			assert.Contains(t, msg.Text, "🔍 *1.* iphone 12 (100€ - 300€) 📂 24103")
			assert.Contains(t, msg.Text, "🔍 *2.* macbook\\_pro")
			assert.Equal(t, makeSubscriptionsKeyboard(subs), msg.ReplyMarkup)
		})
	}
}

func TestHandleDeleteButton(t *testing.T) {
	tg, bot, store := setup(t, Options{})

	sendText(bot, "/add iphone 12")
	subs := listSubs(t, store)
	require.Len(t, subs, 1)

	pressButton(bot, cbDelete+subs[0].ID)

	assert.Empty(t, listSubs(t, store))
	edit := tgbotapi.NewEditMessageTextAndMarkup(testUserID, 100, MsgNoSubscriptions, makeBackKeyboard(BtnBackToMenu, cbMainMenu))
	edit.ParseMode = tgbotapi.ModeMarkdown
	tg.AssertCalled(t, "Send", edit)
	assert.Equal(t, formatReplyText(MsgSubscriptionDeleted, "iphone 12"), lastText(t, tg))
}

func TestHandleDeleteButton_OtherChat(t *testing.T) {
	tg, bot, store := setup(t, Options{})
	other := &storage.Subscription{ChatID: 99, Keywords: "iphone", Active: true}
	require.NoError(t, store.CreateSubscription(context.Background(), other))

	pressButton(bot, cbDelete+other.ID)

	assert.Equal(t, MsgWizardExpired, lastText(t, tg))
	subs, err := store.ListSubscriptionsByChat(context.Background(), 99)
	require.NoError(t, err)
	assert.Len(t, subs, 1)
}

func TestHandleDeleteButton_Missing(t *testing.T) {
	tg, bot, _ := setup(t, Options{})

	pressButton(bot, cbDelete+"does-not-exist")

	assert.Equal(t, MsgWizardExpired, lastText(t, tg))
}

func TestMakeSubscriptionsKeyboard(t *testing.T) {
	var subs []storage.Subscription
	for i := 0; i < 5; i++ {
		subs = append(subs, storage.Subscription{ID: fmt.Sprintf("id-%d", i)})
	}

	kb := makeSubscriptionsKeyboard(subs)

	require.Len(t, kb.InlineKeyboard, 3)
	assert.Len(t, kb.InlineKeyboard[0], 4)
	assert.Len(t, kb.InlineKeyboard[1], 1)
	assert.Equal(t, "🗑️ Borrar 5", kb.InlineKeyboard[1][0].Text)
	assert.Equal(t, cbDelete+"id-4", *kb.InlineKeyboard[1][0].CallbackData)
	assert.Equal(t, cbMainMenu, *kb.InlineKeyboard[2][0].CallbackData)
}
