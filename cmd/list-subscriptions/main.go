package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/raine/telegram-wallapop-bot/internal/config"
	"github.com/raine/telegram-wallapop-bot/internal/storage"
)

func main() {
	var chatID int64
	var dbPath string

	flag.Int64Var(&chatID, "chat", 0, "Telegram chat ID (if omitted, lists active subscriptions of all chats)")
	flag.StringVar(&dbPath, "db", "", "Database path (defaults to DB_PATH or wallbot.db)")
	flag.Parse()

	// Also accept chat ID as positional argument
	if chatID == 0 && flag.NArg() > 0 {
		if id, err := strconv.ParseInt(flag.Arg(0), 10, 64); err == nil {
			chatID = id
		}
	}

	// Load env file from user config directory (same as main bot)
	config.LoadEnvFile()

	if dbPath == "" {
		dbPath = os.Getenv("DB_PATH")
	}
	if dbPath == "" {
		dbPath = "wallbot.db"
	}

	store, err := storage.NewSQLiteStore(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database at %s: %v\n", dbPath, err)
		os.Exit(1)
	}
	defer store.Close()

	ctx := context.Background()
	var subs []storage.Subscription
	if chatID != 0 {
		subs, err = store.ListSubscriptionsByChat(ctx, chatID)
	} else {
		subs, err = store.ListActiveSubscriptions(ctx)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error listing subscriptions: %v\n", err)
		os.Exit(1)
	}

	if len(subs) == 0 {
		fmt.Println("No subscriptions")
		return
	}

	for _, s := range subs {
		fmt.Printf("%s  chat=%d  %q", s.ID, s.ChatID, s.Keywords)
		if s.MinPrice != "" || s.MaxPrice != "" {
			fmt.Printf("  price=%s-%s", s.MinPrice, s.MaxPrice)
		}
		if s.CategoryIDs != "" {
			fmt.Printf("  categories=%s", s.CategoryIDs)
		}
		if s.OwnerUsername != "" {
			fmt.Printf("  owner=@%s", s.OwnerUsername)
		}
		if !s.Active {
			fmt.Print("  (inactive)")
		}
		fmt.Printf("  created=%s\n", s.CreatedAt.Format("2006-01-02 15:04"))
	}
}
