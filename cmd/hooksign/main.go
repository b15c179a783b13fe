package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"time"

	"github.com/marcelsud/webhook-debugger/capture/signature"
	"github.com/marcelsud/webhook-debugger/internal/http/chi"
	flag "github.com/spf13/pflag"
)

/* hooksign - sign a payload the way a provider would, optionally sending it
 * Usage:
 *   hooksign --method github --secret s3cret --data '{"a":1}'
 *   hooksign --method stripe --secret whsec_x --file event.json --url http://localhost:8080/hook/stripe-test
 *   hooksign --token --jwt-secret dashboard-secret --subject alice
 */

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "hooksign: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("hooksign", flag.ContinueOnError)
	var (
		method      = fs.StringP("method", "m", "github", "stripe, github, slack, shopify or generic-hmac")
		secret      = fs.StringP("secret", "s", "", "signing secret")
		data        = fs.StringP("data", "d", "", "payload to sign")
		file        = fs.StringP("file", "f", "", "read the payload from a file")
		target      = fs.StringP("url", "u", "", "POST the signed payload to this URL")
		contentType = fs.String("content-type", "application/json", "Content-Type sent with --url")
		at          = fs.Int64("timestamp", 0, "unix timestamp to sign with (default now)")

		token     = fs.Bool("token", false, "issue a dashboard bearer token instead of signing")
		jwtSecret = fs.String("jwt-secret", os.Getenv("DASHBOARD_JWT_SECRET"), "dashboard token secret")
		subject   = fs.String("subject", "cli", "dashboard token subject")
		ttl       = fs.Duration("ttl", 24*time.Hour, "dashboard token lifetime")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *token {
		if *jwtSecret == "" {
			return fmt.Errorf("--jwt-secret or DASHBOARD_JWT_SECRET is required")
		}
		t, err := chi.IssueToken([]byte(*jwtSecret), *subject, *ttl, time.Now())
		if err != nil {
			return err
		}
		fmt.Fprintln(out, t)
		return nil
	}

	m, err := signature.ParseMethod(*method)
	if err != nil {
		return err
	}
	if m == signature.None {
		return fmt.Errorf("choose a signing method")
	}

	body := []byte(*data)
	if *file != "" {
		if body, err = os.ReadFile(*file); err != nil {
			return fmt.Errorf("reading payload: %w", err)
		}
	}

	now := time.Now()
	if *at != 0 {
		now = time.Unix(*at, 0)
	}

	headers, err := signature.Sign(m, body, *secret, now)
	if err != nil {
		return err
	}

	if *target == "" {
		printHeaders(out, headers)
		return nil
	}
	return send(out, *target, *contentType, body, headers)
}

func printHeaders(out io.Writer, h http.Header) {
	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(out, "%s: %s\n", k, h.Get(k))
	}
}

func send(out io.Writer, target, contentType string, body []byte, headers http.Header) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	for k := range headers {
		req.Header.Set(k, headers.Get(k))
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending webhook: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}
	fmt.Fprintf(out, "%s\n%s\n", resp.Status, respBody)
	return nil
}
