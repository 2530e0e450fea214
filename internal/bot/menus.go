package bot

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/raine/telegram-wallapop-bot/internal/storage"
)

// Callback data of inline buttons.
const (
	cbMainMenu    = "menu:main"
	cbAddSearch   = "menu:add"
	cbMySearches  = "menu:list"
	cbCategories  = "menu:categories"
	cbHelp        = "menu:help"
	cbCategory    = "cat:"
	cbPrice       = "price:"
	cbDelete      = "del:"
	priceCustom   = "custom"
	priceNoLimit  = "none"
	deleteBtnsRow = 4
)

// Category is a marketplace category offered in the categories menu.
type Category struct {
	ID    string
	Label string
}

var popularCategories = []Category{
	{ID: "24103", Label: "📱 Móviles"},
	{ID: "12800", Label: "💻 Informática"},
	{ID: "100", Label: "🚗 Motor"},
	{ID: "12467", Label: "🏠 Hogar"},
	{ID: "12465", Label: "👔 Moda"},
	{ID: "12543", Label: "🎮 Consolas"},
	{ID: "12463", Label: "📚 Libros"},
	{ID: "12579", Label: "⚽ Deporte"},
}

// categoryKeywords are the search terms used for subscriptions created from
// the categories menu.
var categoryKeywords = map[string]string{
	"24103": "móviles",
	"12800": "informática",
	"100":   "motor",
	"12467": "hogar",
}

// keywordsForCategory returns the search terms of a category, or a
// placeholder for categories without a name.
func keywordsForCategory(id string) string {
	if kw, ok := categoryKeywords[id]; ok {
		return kw
	}
	return "categoría_" + id
}

// categoryLabel is the menu label of a category, or its id when unknown.
func categoryLabel(id string) string {
	for _, c := range popularCategories {
		if c.ID == id {
			return c.Label
		}
	}
	return id
}

// PriceTier is a preset price range button.
type PriceTier struct {
	Label string
	Range string
}

var priceTiers = []PriceTier{
	{Label: "💸 Hasta 50€", Range: "0-50"},
	{Label: "💵 50€ - 100€", Range: "50-100"},
	{Label: "💴 100€ - 200€", Range: "100-200"},
	{Label: "💶 200€ - 500€", Range: "200-500"},
	{Label: "💷 500€ - 1000€", Range: "500-1000"},
	{Label: "💰 Más de 1000€", Range: "1000-"},
}

func makeMainMenuKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(BtnAddSearch, cbAddSearch),
			tgbotapi.NewInlineKeyboardButtonData(BtnMySearches, cbMySearches),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(BtnCategories, cbCategories),
			tgbotapi.NewInlineKeyboardButtonData(BtnHelp, cbHelp),
		),
	)
}

func makeBackKeyboard(label, data string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(label, data)),
	)
}

func makeCategoriesKeyboard() tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for i := 0; i < len(popularCategories); i += 2 {
		row := []tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData(popularCategories[i].Label, cbCategory+popularCategories[i].ID),
		}
		if i+1 < len(popularCategories) {
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(popularCategories[i+1].Label, cbCategory+popularCategories[i+1].ID))
		}
		rows = append(rows, row)
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(BtnBack, cbMainMenu)))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// makePriceKeyboard shows the price tiers plus custom and no limit. back is
// the callback of the return button.
func makePriceKeyboard(backLabel, back string) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for i := 0; i < len(priceTiers); i += 2 {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(priceTiers[i].Label, cbPrice+priceTiers[i].Range),
			tgbotapi.NewInlineKeyboardButtonData(priceTiers[i+1].Label, cbPrice+priceTiers[i+1].Range),
		))
	}
	rows = append(rows,
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(BtnCustomPrice, cbPrice+priceCustom),
			tgbotapi.NewInlineKeyboardButtonData(BtnNoLimit, cbPrice+priceNoLimit),
		),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(backLabel, back)),
	)
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// makeSubscriptionsKeyboard builds one delete button per subscription
// followed by the main menu button.
func makeSubscriptionsKeyboard(subs []storage.Subscription) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	var currentRow []tgbotapi.InlineKeyboardButton

	for i, sub := range subs {
		currentRow = append(currentRow, tgbotapi.NewInlineKeyboardButtonData(
			fmt.Sprintf(BtnDeleteSearch, i+1),
			cbDelete+sub.ID,
		))
		if len(currentRow) == deleteBtnsRow || i == len(subs)-1 {
			rows = append(rows, currentRow)
			currentRow = nil
		}
	}

	rows = append(rows, tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(BtnMainMenu, cbMainMenu)))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// formatSubscription renders one line of the subscriptions list.
func formatSubscription(sub storage.Subscription) string {
	var sb strings.Builder
	sb.WriteString(escapeMarkdown(sub.Keywords))
	r := PriceRange{Min: sub.MinPrice, Max: sub.MaxPrice}
	if !r.IsZero() {
		sb.WriteString(" (" + r.String() + ")")
	}
	if sub.CategoryIDs != "" {
		sb.WriteString(" 📂 " + sub.CategoryIDs)
	}
	return sb.String()
}
