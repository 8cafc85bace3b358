// Package main resolves the outcome of a launch whose confirmation timed
// out: it queries the ledger by signature and reports whether the
// transaction landed.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"solana-token-launcher/internal/broadcast"
	"solana-token-launcher/internal/config"
	"solana-token-launcher/internal/domain"
	"solana-token-launcher/internal/solana"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file")
	signature := flag.String("signature", "", "Transaction signature to reconcile (required)")
	timeout := flag.Duration("timeout", 30*time.Second, "Lookup timeout")
	flag.Parse()

	if *signature == "" {
		fmt.Fprintln(os.Stderr, "Error: -signature is required")
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	rpc := solana.NewHTTPClient(cfg.RPC.URL)
	b := broadcast.NewBroadcaster(rpc)

	err = b.Reconcile(ctx, *signature)
	switch {
	case err == nil:
		fmt.Printf("Transaction %s confirmed cleanly.\n", *signature)
	case errors.Is(err, broadcast.ErrSignatureNotFound):
		fmt.Printf("Transaction %s is not on the ledger. It may have expired unexecuted,\n", *signature)
		fmt.Println("or may not be visible yet; retry before treating the launch as failed.")
		os.Exit(1)
	default:
		var exec *domain.ExecutionError
		if errors.As(err, &exec) {
			fmt.Printf("Transaction %s landed but failed on-chain: %s\n", exec.Signature, exec.Detail)
			for _, line := range exec.Logs {
				fmt.Printf("  %s\n", line)
			}
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Reconcile failed: %v\n", err)
		os.Exit(1)
	}
}
