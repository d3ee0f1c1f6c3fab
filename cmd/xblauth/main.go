// Package main provides a small CLI around the Xbox Live authentication
// pipeline: it signs a Microsoft account in, optionally with a dummy device
// token, or refreshes a stored token, and prints the result as JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	xblauth "github.com/openxbl-go/xboxlive-auth"
	"github.com/openxbl-go/xboxlive-auth/config"
	"github.com/openxbl-go/xboxlive-auth/internal/logging"
	log "github.com/sirupsen/logrus"
)

func init() {
	logging.SetupBaseLogger()
}

func main() {
	var email string
	var password string
	var refreshToken string
	var relyingParty string
	var sandboxID string
	var configPath string
	var raw bool
	var withDeviceToken bool

	flag.StringVar(&email, "email", "", "Microsoft account email (fallback: XBL_EMAIL)")
	flag.StringVar(&password, "password", "", "Microsoft account password (fallback: XBL_PASSWORD)")
	flag.StringVar(&refreshToken, "refresh", "", "Refresh a stored refresh token instead of signing in")
	flag.StringVar(&relyingParty, "relying-party", "", "XSTS relying party override")
	flag.StringVar(&sandboxID, "sandbox", "", "Sandbox id override (default RETAIL)")
	flag.StringVar(&configPath, "config", "", "Path to a YAML configuration file")
	flag.BoolVar(&raw, "raw", false, "Print the three raw step responses instead of the shaped result")
	flag.BoolVar(&withDeviceToken, "device-token", false, "Create a dummy Win32 device token before the XSTS exchange (experimental)")
	flag.Parse()

	// A local .env is convenient for keeping test credentials out of shell
	// history; absence is not an error.
	_ = godotenv.Load()

	var cfg *config.Config
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			log.Fatalf("failed to load configuration: %v", err)
		}
		cfg = loaded
	}
	if err := logging.ConfigureLogOutput(cfg); err != nil {
		log.Fatalf("failed to configure logging: %v", err)
	}

	authenticator := xblauth.New(cfg)
	ctx := context.Background()

	if refreshToken != "" {
		store := xblauth.NewMemoryTokenStore(refreshToken)
		authResponse, err := authenticator.RefreshWithStore(ctx, store, "", "", "")
		if err != nil {
			log.Fatalf("token refresh failed: %v", err)
		}
		printJSON(authResponse)
		return
	}

	if email == "" {
		email = os.Getenv("XBL_EMAIL")
	}
	if password == "" {
		password = os.Getenv("XBL_PASSWORD")
	}
	if email == "" || password == "" {
		fmt.Fprintln(os.Stderr, "email and password are required; pass -email/-password or set XBL_EMAIL/XBL_PASSWORD")
		os.Exit(2)
	}

	options := &xblauth.Options{
		XSTSRelyingParty: relyingParty,
		SandboxID:        sandboxID,
	}
	if withDeviceToken {
		deviceToken, err := authenticator.XNet.CreateDummyWin32DeviceToken(ctx)
		if err != nil {
			log.Fatalf("device token creation failed: %v", err)
		}
		options.DeviceToken = deviceToken.Token
	}

	if raw {
		rawResponse, err := authenticator.AuthenticateRaw(ctx, email, password, options)
		if err != nil {
			log.Fatalf("authentication failed: %v", err)
		}
		printJSON(rawResponse)
		return
	}

	authResponse, err := authenticator.Authenticate(ctx, email, password, options)
	if err != nil {
		log.Fatalf("authentication failed: %v", err)
	}
	printJSON(authResponse)
}

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatalf("failed to encode response: %v", err)
	}
	fmt.Println(string(data))
}
