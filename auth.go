// Package xblauth converts Microsoft account credentials or refresh tokens
// into Xbox Live security tokens (XSTS) through the Live and Xbox Network
// token services. The pipeline is a fixed chain of HTTP exchanges where each
// step consumes the previous step's output; every failure aborts the chain
// and surfaces the originating error unmodified.
package xblauth

import (
	"context"

	"github.com/openxbl-go/xboxlive-auth/config"
	"github.com/openxbl-go/xboxlive-auth/live"
	"github.com/openxbl-go/xboxlive-auth/xnet"
	log "github.com/sirupsen/logrus"
)

// Options tunes the XSTS exchange performed at the end of the pipeline.
// TitleToken is only valid together with DeviceToken.
type Options struct {
	XSTSRelyingParty      string
	OptionalDisplayClaims []string
	SandboxID             string
	DeviceToken           string
	TitleToken            string
}

// Authenticator composes the Live and Xbox Network clients into the full
// credential-to-XSTS pipeline. Concurrent calls are independent: no state is
// shared between calls beyond the HTTP clients.
type Authenticator struct {
	Live *live.Client
	XNet *xnet.Client
}

// New creates an authenticator with proxy and timeout settings taken from
// the configuration. A nil configuration selects the defaults.
func New(cfg *config.Config) *Authenticator {
	return &Authenticator{
		Live: live.NewClient(cfg),
		XNet: xnet.NewClient(cfg),
	}
}

// Authenticate runs the full pipeline and shapes the result into the
// simplified response. XUID is nil when the XSTS display claims omit the
// xid claim, which happens for child and teen accounts authenticated
// without a device token.
func (a *Authenticator) Authenticate(ctx context.Context, email, password string, options *Options) (*AuthenticateResponse, error) {
	raw, err := a.AuthenticateRaw(ctx, email, password, options)
	if err != nil {
		return nil, err
	}

	var xuid *string
	if xid := raw.XSTSToken.XUID(); xid != "" {
		xuid = &xid
	}
	return &AuthenticateResponse{
		XUID:          xuid,
		UserHash:      raw.XSTSToken.UserHash(),
		XSTSToken:     raw.XSTSToken.Token,
		DisplayClaims: raw.XSTSToken.DisplayClaims,
		ExpiresOn:     raw.XSTSToken.NotAfter,
	}, nil
}

// AuthenticateRaw runs the full pipeline and returns the three raw step
// responses keyed by originating host.
func (a *Authenticator) AuthenticateRaw(ctx context.Context, email, password string, options *Options) (*AuthenticateRawResponse, error) {
	if options == nil {
		options = &Options{}
	}

	liveAuth, err := a.Live.AuthenticateWithCredentials(ctx, live.Credentials{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	log.Debug("live credential submission succeeded")

	userToken, err := a.XNet.ExchangeRpsTicketForUserToken(ctx, liveAuth.AccessToken, xnet.PreambleTicket, nil)
	if err != nil {
		return nil, err
	}
	log.Debug("rps ticket exchanged for user token")

	tokens := xnet.Tokens{UserTokens: []string{userToken.Token}}
	if options.DeviceToken != "" {
		tokens.DeviceToken = options.DeviceToken
		tokens.TitleToken = options.TitleToken
	}

	xstsToken, err := a.XNet.ExchangeTokensForXSTSToken(ctx, tokens, &xnet.ExchangeOptions{
		XSTSRelyingParty:      options.XSTSRelyingParty,
		OptionalDisplayClaims: options.OptionalDisplayClaims,
		SandboxID:             options.SandboxID,
	}, nil)
	if err != nil {
		return nil, err
	}
	log.Debug("user token exchanged for XSTS token")

	return &AuthenticateRawResponse{
		LiveAuth:  liveAuth,
		UserToken: userToken,
		XSTSToken: xstsToken,
	}, nil
}

// Authenticate runs the full pipeline with default settings. See
// Authenticator.Authenticate.
func Authenticate(ctx context.Context, email, password string, options *Options) (*AuthenticateResponse, error) {
	return New(nil).Authenticate(ctx, email, password, options)
}

// AuthenticateRaw runs the full pipeline with default settings. See
// Authenticator.AuthenticateRaw.
func AuthenticateRaw(ctx context.Context, email, password string, options *Options) (*AuthenticateRawResponse, error) {
	return New(nil).AuthenticateRaw(ctx, email, password, options)
}
