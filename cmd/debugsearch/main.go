package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/hyperifyio/gowebsearch/internal/app"
	"github.com/hyperifyio/gowebsearch/internal/failover"
	"github.com/hyperifyio/gowebsearch/internal/search"
)

// debugsearch exercises a single provider directly, bypassing failover.
// Usage: debugsearch [provider] [query...]
func main() {
	name := "google"
	if len(os.Args) > 1 { name = os.Args[1] }
	q := "What is love?"
	if len(os.Args) > 2 { q = strings.Join(os.Args[2:], " ") }

	_ = app.LoadEnvFiles(".env")
	var cfg app.Config
	app.ApplyEnvOverrides(&cfg)

	providers, err := app.BuildProviders(cfg)
	if err != nil {
		fmt.Println("err:", err)
		os.Exit(1)
	}
	prov, ok := providers[failover.Identity(name)]
	if !ok {
		fmt.Println("provider not configured:", name)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 25*time.Second)
	defer cancel()
	res, err := prov.Search(ctx, search.Options{Query: q, Advanced: true})
	fmt.Println("err:", err)
	for i, r := range res {
		fmt.Printf("%d. %s - %s\n", i+1, r.Title, r.URL)
	}
}
