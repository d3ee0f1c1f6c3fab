package xnet

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/sjson"
)

// ExchangeRpsTicketForUserToken exchanges a Microsoft Live access token (RPS
// ticket) for an Xbox user token. A ticket that does not already carry a
// "t=" or "d=" preamble is prefixed with the given one; passing an already
// prefixed ticket is therefore idempotent. An empty preamble selects "t".
func (c *Client) ExchangeRpsTicketForUserToken(ctx context.Context, rpsTicket, preamble string, additionalHeaders map[string]string) (*UserTokenResponse, error) {
	if rpsTicket == "" {
		return nil, fmt.Errorf("xnet: rps ticket is required")
	}
	if preamble == "" {
		preamble = PreambleTicket
	}
	if preamble != PreambleTicket && preamble != PreambleDevice {
		return nil, fmt.Errorf("xnet: invalid preamble %q", preamble)
	}
	if !strings.HasPrefix(rpsTicket, PreambleTicket+"=") && !strings.HasPrefix(rpsTicket, PreambleDevice+"=") {
		rpsTicket = preamble + "=" + rpsTicket
	}

	body := `{"RelyingParty":"` + RelyingPartyAuth + `","TokenType":"JWT","Properties":{"AuthMethod":"RPS"}}`
	body, _ = sjson.Set(body, "Properties.SiteName", SiteName)
	body, _ = sjson.Set(body, "Properties.RpsTicket", rpsTicket)

	respBody, err := c.postJSON(ctx, c.UserAuthenticateURL, body, requestOptions{additionalHeaders: additionalHeaders})
	if err != nil {
		return nil, err
	}

	var userToken UserTokenResponse
	if err = json.Unmarshal(respBody, &userToken); err != nil {
		return nil, fmt.Errorf("xnet: failed to parse user token response: %w", err)
	}
	return &userToken, nil
}

// ExchangeTokensForXSTSToken exchanges a set of user tokens, optionally
// accompanied by device and title tokens, for an XSTS token. A title token
// without a device token is rejected before any network call. Exchanges for
// child and teen accounts are rejected by the service unless a device token
// is supplied.
func (c *Client) ExchangeTokensForXSTSToken(ctx context.Context, tokens Tokens, options *ExchangeOptions, additionalHeaders map[string]string) (*XSTSTokenResponse, error) {
	if len(tokens.UserTokens) == 0 {
		return nil, fmt.Errorf("xnet: at least one user token is required")
	}
	if tokens.TitleToken != "" && tokens.DeviceToken == "" {
		return nil, ErrTitleTokenRequiresDevice
	}
	if options == nil {
		options = &ExchangeOptions{}
	}

	relyingParty := options.XSTSRelyingParty
	if relyingParty == "" {
		relyingParty = RelyingPartyXboxLive
	}
	sandboxID := options.SandboxID
	if sandboxID == "" {
		sandboxID = SandboxRetail
	}

	body := `{"TokenType":"JWT","Properties":{}}`
	body, _ = sjson.Set(body, "RelyingParty", relyingParty)
	body, _ = sjson.Set(body, "Properties.UserTokens", tokens.UserTokens)
	if tokens.DeviceToken != "" {
		body, _ = sjson.Set(body, "Properties.DeviceToken", tokens.DeviceToken)
	}
	if tokens.TitleToken != "" {
		body, _ = sjson.Set(body, "Properties.TitleToken", tokens.TitleToken)
	}
	if len(options.OptionalDisplayClaims) > 0 {
		body, _ = sjson.Set(body, "Properties.OptionalDisplayClaims", options.OptionalDisplayClaims)
	}
	body, _ = sjson.Set(body, "Properties.SandboxId", sandboxID)

	respBody, err := c.postJSON(ctx, c.XSTSAuthorizeURL, body, requestOptions{additionalHeaders: additionalHeaders})
	if err != nil {
		return nil, err
	}

	var xstsToken XSTSTokenResponse
	if err = json.Unmarshal(respBody, &xstsToken); err != nil {
		return nil, fmt.Errorf("xnet: failed to parse XSTS token response: %w", err)
	}
	return &xstsToken, nil
}

// ExchangeTokenForXSTSToken exchanges a single user token for an XSTS token.
func (c *Client) ExchangeTokenForXSTSToken(ctx context.Context, userToken string, options *ExchangeOptions, additionalHeaders map[string]string) (*XSTSTokenResponse, error) {
	return c.ExchangeTokensForXSTSToken(ctx, Tokens{UserTokens: []string{userToken}}, options, additionalHeaders)
}
