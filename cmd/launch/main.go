// Package main provides the token-launch entry point.
// Executes: metadata publication → transaction build → signing → broadcast
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"solana-token-launcher/internal/broadcast"
	"solana-token-launcher/internal/builder"
	"solana-token-launcher/internal/config"
	"solana-token-launcher/internal/domain"
	"solana-token-launcher/internal/launch"
	"solana-token-launcher/internal/metadata"
	"solana-token-launcher/internal/observability"
	"solana-token-launcher/internal/signing"
	"solana-token-launcher/internal/solana"
	"solana-token-launcher/internal/storage/clickhouse"
	"solana-token-launcher/internal/storage/migrations"
	"solana-token-launcher/internal/storage/postgres"
	"solana-token-launcher/internal/wallet"
)

func main() {
	// Parse flags
	configPath := flag.String("config", "", "Path to YAML config file")
	name := flag.String("name", "", "Token name (required)")
	ticker := flag.String("ticker", "", "Token ticker (required)")
	description := flag.String("description", "", "Token description")
	imageURL := flag.String("image", "", "Image URL to attach to the metadata")
	twitter := flag.String("twitter", "", "Twitter URL")
	telegram := flag.String("telegram", "", "Telegram URL")
	website := flag.String("website", "", "Website URL")
	amount := flag.Float64("amount", 0, "Initial liquidity in SOL (default 0.0001)")
	slippage := flag.Int("slippage", 0, "Slippage tolerance in basis points (default 5)")
	priorityFee := flag.Float64("priority-fee", 0, "Priority fee in SOL (default 0.00005)")
	timeout := flag.Duration("timeout", 3*time.Minute, "Overall launch timeout")
	verbose := flag.Bool("verbose", false, "Verbose output")
	flag.Parse()

	if *name == "" || *ticker == "" {
		fmt.Fprintln(os.Stderr, "Error: -name and -ticker are required")
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	secretKey, err := cfg.WalletSecretKey()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading wallet: %v\n", err)
		os.Exit(1)
	}
	w, err := wallet.LocalWalletFromBase58(secretKey)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading wallet: %v\n", err)
		os.Exit(1)
	}
	if err := wallet.ValidateAddress(w.PublicAddress()); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading wallet: invalid address: %v\n", err)
		os.Exit(1)
	}

	// Create context with cancellation for graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Printf("\nReceived signal %v, cancelling launch...\n", sig)
		cancel()
	}()

	rpc := solana.NewHTTPClient(cfg.RPC.URL)

	broadcastOpts := []broadcast.Option{}
	if cfg.RPC.WSURL != "" {
		ws, err := solana.NewWSClient(ctx, cfg.RPC.WSURL, nil)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: websocket unavailable, using polling only: %v\n", err)
		} else {
			defer ws.Close()
			broadcastOpts = append(broadcastOpts, broadcast.WithWSClient(ws))
		}
	}

	opts := launch.Options{
		Publisher:   metadata.NewPublisher(cfg.Endpoints.Metadata),
		Builder:     builder.NewBuilder(cfg.Endpoints.Trade),
		Signer:      signing.NewSigner(rpc),
		Broadcaster: broadcast.NewBroadcaster(rpc, broadcastOpts...),
		Wallet:      w,
		Verbose:     *verbose,
	}

	if cfg.Storage.PostgresDSN != "" {
		pool, err := postgres.NewPool(ctx, cfg.Storage.PostgresDSN)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error connecting to postgres: %v\n", err)
			os.Exit(1)
		}
		defer pool.Close()
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			fmt.Fprintf(os.Stderr, "Error running postgres migrations: %v\n", err)
			os.Exit(1)
		}
		opts.RecordStore = postgres.NewLaunchRecordStore(pool)
	}

	if cfg.Storage.ClickhouseDSN != "" {
		conn, err := clickhouse.NewConn(ctx, cfg.Storage.ClickhouseDSN)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error connecting to clickhouse: %v\n", err)
			os.Exit(1)
		}
		defer conn.Close()
		if err := migrations.RunClickhouseMigrations(ctx, conn); err != nil {
			fmt.Fprintf(os.Stderr, "Error running clickhouse migrations: %v\n", err)
			os.Exit(1)
		}
		opts.EventStore = clickhouse.NewLaunchEventStore(conn)
	}

	if cfg.Metrics.Addr != "" {
		opts.Metrics = observability.NewMetrics("")
		mux := http.NewServeMux()
		mux.Handle("/metrics", observability.Handler())
		go func() {
			if err := http.ListenAndServe(cfg.Metrics.Addr, mux); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: metrics endpoint: %v\n", err)
			}
		}()
	}

	launcher := launch.New(opts)
	result, err := launcher.Launch(ctx, domain.LaunchRequest{
		Name:   *name,
		Ticker: *ticker,
		Options: domain.LaunchOptions{
			Description:    *description,
			ImageURL:       *imageURL,
			Twitter:        *twitter,
			Telegram:       *telegram,
			Website:        *website,
			LiquiditySOL:   *amount,
			SlippageBps:    *slippage,
			PriorityFeeSOL: *priorityFee,
		},
	})
	if err != nil {
		var timeout *domain.ConfirmationTimeoutError
		if errors.As(err, &timeout) {
			fmt.Fprintf(os.Stderr, "Launch outcome unknown: %v\n", err)
			fmt.Fprintf(os.Stderr, "Run: reconcile -signature %s\n", timeout.Signature)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Launch failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("=== Launch confirmed ===")
	fmt.Printf("  Mint:        %s\n", result.Mint)
	fmt.Printf("  Signature:   %s\n", result.Signature)
	fmt.Printf("  Metadata:    %s\n", result.MetadataURI)
	fmt.Printf("  Mint secret: %s (persist this if you need the mint authority later)\n", result.MintSecretKey)
}
