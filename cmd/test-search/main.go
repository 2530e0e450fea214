package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/raine/telegram-wallapop-bot/internal/money"
	"github.com/raine/telegram-wallapop-bot/internal/wallapop"
	"github.com/raine/telegram-wallapop-bot/internal/watcher"
)

func main() {
	query := flag.String("q", "", "Search keywords")
	minPrice := flag.String("min", "", "Minimum price")
	maxPrice := flag.String("max", "", "Maximum price")
	categories := flag.String("categories", "", "Comma separated category IDs (e.g., 24103,12800)")
	orderBy := flag.String("order", "newest", "Sort order")
	filter := flag.Bool("filter", true, "Keep only titles containing every keyword")
	reviews := flag.Bool("reviews", false, "Look up seller reviews for each result")
	rawJSON := flag.Bool("json", false, "Output raw JSON only")
	flag.Parse()

	if *query == "" {
		fmt.Fprintln(os.Stderr, "Error: -q is required")
		os.Exit(2)
	}

	client := wallapop.NewClient(wallapop.Options{})
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	listings, err := client.Search(ctx, wallapop.SearchParams{
		Keywords:    *query,
		CategoryIDs: *categories,
		MinPrice:    *minPrice,
		MaxPrice:    *maxPrice,
		OrderBy:     *orderBy,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	total := len(listings)
	if *filter {
		listings = watcher.FilterByKeywords(listings, *query)
	}

	if *rawJSON {
		jsonBytes, _ := json.MarshalIndent(listings, "", "  ")
		fmt.Println(string(jsonBytes))
		return
	}

	formatter, err := money.NewFormatter("es-ES", "€")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Found %d results (%d matching)\n\n", total, len(listings))

	for i, l := range listings {
		fmt.Printf("%d. %s - %s\n", i+1, l.Title, formatter.Format(l.Price.Amount))
		fmt.Printf("   %s\n", wallapop.ItemURL(wallapop.DefaultWebBaseURL, l.WebSlug))
		if *reviews {
			seller, err := client.Seller(ctx, l)
			if err != nil {
				fmt.Printf("   seller: %v\n", err)
				continue
			}
			fmt.Printf("   seller: %.0f%% (%d reviews, top profile: %t)\n", seller.AverageRating, seller.ReviewCount, seller.TopProfile)
		}
	}
}
