package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"
)

// Command defines a bot command with its handler key and Telegram menu description.
type Command struct {
	Name        string   // Command name without slash (e.g., "start")
	Description string   // Description shown in Telegram command menu
	Aliases     []string // Other names accepted when typed
}

// botCommands defines all available bot commands.
// This is the single source of truth for command definitions.
var botCommands = []Command{
	{Name: "start", Description: "Menú principal", Aliases: []string{"help", "s", "h"}},
	{Name: "add", Description: "Añadir búsqueda: producto,min-max,categorías", Aliases: []string{"añadir", "append", "a"}},
	{Name: "list", Description: "Ver tus búsquedas", Aliases: []string{"lis", "listar", "l"}},
	{Name: "del", Description: "Borrar una búsqueda", Aliases: []string{"borrar", "d"}},
	{Name: "cancelar", Description: "Cancelar el asistente", Aliases: []string{"cancel"}},
	{Name: "version", Description: "Versión del bot"},
}

// lookupCommand resolves a command name or alias to its canonical name.
func lookupCommand(name string) (string, bool) {
	for _, cmd := range botCommands {
		if cmd.Name == name {
			return cmd.Name, true
		}
		for _, alias := range cmd.Aliases {
			if alias == name {
				return cmd.Name, true
			}
		}
	}
	return "", false
}

// RegisterCommands sets the bot's command menu in Telegram.
// This should be called once at startup.
func RegisterCommands(tg BotAPI) {
	commands := make([]tgbotapi.BotCommand, len(botCommands))
	for i, cmd := range botCommands {
		commands[i] = tgbotapi.BotCommand{
			Command:     cmd.Name,
			Description: cmd.Description,
		}
	}

	config := tgbotapi.NewSetMyCommands(commands...)
	if _, err := tg.Request(config); err != nil {
		log.Error().Err(err).Msg("failed to set bot commands")
	} else {
		log.Info().Int("count", len(commands)).Msg("registered bot commands")
	}
}
