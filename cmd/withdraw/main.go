// Command withdraw asks a running ledger server to pay its balance to the owner.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	server := flag.String("server", envOr("FUNDME_SERVER_URL", "http://localhost:8080"), "ledger server URL")
	owner := flag.String("owner", envOr("FUNDME_OWNER", "0xdeployer"), "identity to withdraw as")
	cheap := flag.Bool("cheap", false, "use the cheaper withdrawal")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := run(ctx, http.DefaultClient, *server, *owner, *cheap); err != nil {
		log.Println(err)
		os.Exit(1)
	}
}

func run(ctx context.Context, client *http.Client, server, owner string, cheap bool) error {
	fmt.Printf("Got ledger at %s\n", server)
	fmt.Println("Withdrawing...")

	path := "/withdraw"
	if cheap {
		path = "/cheap-withdraw"
	}
	body, err := json.Marshal(map[string]string{"caller": owner})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, server+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("withdraw: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read response (%d): %w", resp.StatusCode, err)
	}
	var out map[string]any
	decodeErr := json.Unmarshal(raw, &out)

	if resp.StatusCode != http.StatusOK {
		if decodeErr == nil && out["error"] != nil {
			return fmt.Errorf("withdraw failed (%d): %v", resp.StatusCode, out["error"])
		}
		return fmt.Errorf("withdraw failed (%d): %s", resp.StatusCode, bytes.TrimSpace(raw))
	}
	if decodeErr != nil {
		return fmt.Errorf("decode response (%d): %w", resp.StatusCode, decodeErr)
	}
	fmt.Printf("Got It Back! %v ETH (tx %v, fee %v ETH)\n", out["value"], out["tx_id"], out["fee"])
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
