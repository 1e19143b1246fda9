package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"recipe-shopping/internal/app"
	"recipe-shopping/internal/auth"
	"recipe-shopping/internal/config"
	"recipe-shopping/internal/database"
	"recipe-shopping/internal/metrics"
	"recipe-shopping/internal/shopping"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: failed to load .env file: %v", err)
	}

	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	// Issuing a token needs neither database.
	if os.Args[1] == "token" {
		issueToken(cfg, os.Args[2:])
		return
	}

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer closeStore()

	metricsDB, err := database.NewDB(cfg.MetricsDBPath)
	if err != nil {
		log.Fatalf("Failed to initialize metrics database: %v", err)
	}
	metricsStore := metrics.NewStore(metricsDB.SQL)
	defer metricsStore.Close()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	session := auth.NewSession(cfg.AuthAccessToken, cfg.AuthJWTSecret)
	coordinator := shopping.NewCoordinator(store, session, app.CoordinatorOptions(cfg, metricsStore, logger)...)

	application := app.NewApp(coordinator, metricsStore, os.Stdout)

	args := os.Args[2:]
	switch os.Args[1] {
	case "lists":
		err = application.ShowLists(ctx)
	case "show":
		requireArgs("show <list-id>", args, 1)
		err = application.ShowList(ctx, args[0])
	case "create":
		requireArgs("create <name> [item...]", args, 1)
		err = application.CreateList(ctx, args[0], args[1:])
	case "add":
		requireArgs("add <list-id> <item...>", args, 2)
		err = application.AddItems(ctx, args[0], args[1:])
	case "toggle":
		requireArgs("toggle <list-id> <item-id>", args, 2)
		err = application.ToggleItem(ctx, args[0], args[1])
	case "amount":
		requireArgs("amount <list-id> <item-id> <amount>", args, 3)
		err = application.SetAmount(ctx, args[0], args[1], args[2])
	case "remove":
		requireArgs("remove <list-id> <item-id>", args, 2)
		err = application.RemoveItem(ctx, args[0], args[1])
	case "clear-checked":
		requireArgs("clear-checked <list-id>", args, 1)
		err = application.ClearChecked(ctx, args[0])
	case "delete":
		requireArgs("delete <list-id>", args, 1)
		err = application.DeleteList(ctx, args[0])
	case "edit":
		editCmd := flag.NewFlagSet("edit", flag.ExitOnError)
		name := editCmd.String("name", "", "New list name")
		requireArgs("edit <list-id> [-name X] [item...]", args, 1)
		editCmd.Parse(args[1:])
		err = application.EditList(ctx, args[0], *name, editCmd.Args())
	case "metrics":
		metricsCmd := flag.NewFlagSet("metrics", flag.ExitOnError)
		days := metricsCmd.Int("days", 7, "Show the last N days")
		metricsCmd.Parse(args)
		err = application.ShowMetrics(ctx, *days)
	case "metrics-cleanup":
		cleanupCmd := flag.NewFlagSet("metrics-cleanup", flag.ExitOnError)
		days := cleanupCmd.Int("days", 30, "Keep records for the last N days")
		cleanupCmd.Parse(args)
		err = application.CleanupMetrics(ctx, *days)
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, shopping.UserMessage(err))
		log.Fatalf("Command %s failed: %v", os.Args[1], err)
	}
}

// openStore connects to the configured database and returns the list store
// with a function releasing it.
func openStore(ctx context.Context, cfg *config.Config) (shopping.Store, func(), error) {
	switch cfg.DatabaseDriver {
	case config.DriverPostgres:
		pool, err := database.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return shopping.NewPGRepository(pool), pool.Close, nil
	default:
		db, err := database.NewDB(cfg.DatabasePath)
		if err != nil {
			return nil, nil, err
		}
		return shopping.NewRepository(db.SQL), func() { db.Close() }, nil
	}
}

func issueToken(cfg *config.Config, args []string) {
	tokenCmd := flag.NewFlagSet("token", flag.ExitOnError)
	ttl := tokenCmd.Duration("ttl", 30*24*time.Hour, "Token lifetime")
	requireArgs("token <user-id> [-ttl 720h]", args, 1)
	tokenCmd.Parse(args[1:])

	token, err := auth.IssueToken(args[0], cfg.AuthJWTSecret, *ttl)
	if err != nil {
		log.Fatalf("Failed to issue token: %v", err)
	}
	fmt.Println(token)
}

func requireArgs(usage string, args []string, n int) {
	if len(args) < n {
		fmt.Printf("Usage: shopping-lists %s\n", usage)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: shopping-lists <command> [arguments]")
	fmt.Println("\nCommands:")
	fmt.Println("  lists                               Show your shopping lists")
	fmt.Println("  show <list-id>                      Show the items of a list")
	fmt.Println("  create <name> [item...]             Create a list, merging duplicate items")
	fmt.Println("  add <list-id> <item...>             Add items, merging into matching rows")
	fmt.Println("  toggle <list-id> <item-id>          Check or uncheck an item")
	fmt.Println("  amount <list-id> <item-id> <amount> Change an item's amount")
	fmt.Println("  remove <list-id> <item-id>          Remove an item")
	fmt.Println("  clear-checked <list-id>             Remove checked items")
	fmt.Println("  delete <list-id>                    Delete a list")
	fmt.Println("  edit <list-id> [-name X] [item...]  Replace a list's items")
	fmt.Println("  token <user-id> [-ttl 720h]         Issue an access token")
	fmt.Println("  metrics [-days N]                   Show operation metrics")
	fmt.Println("  metrics-cleanup [-days N]           Remove old metric records")
	fmt.Println("\nItems are written as name:amount[:unit[:ingredient-id]].")
}
