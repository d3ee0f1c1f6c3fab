package xblauth

import (
	"github.com/openxbl-go/xboxlive-auth/live"
	"github.com/openxbl-go/xboxlive-auth/xnet"
)

// AuthenticateResponse is the shaped result of a successful authentication.
type AuthenticateResponse struct {
	// XUID is the Xbox user id, nil when the display claims omit it.
	XUID *string `json:"xuid"`
	// UserHash is the uhs claim used in XBL3.0 authorization headers.
	UserHash string `json:"user_hash"`
	// XSTSToken is the final credential for Xbox Live API calls.
	XSTSToken string `json:"xsts_token"`
	// DisplayClaims is the claim set of the XSTS token, verbatim.
	DisplayClaims xnet.DisplayClaims `json:"display_claims"`
	// ExpiresOn is the token's NotAfter instant.
	ExpiresOn string `json:"expires_on"`
}

// AuthenticateRawResponse carries the three raw step responses of the
// pipeline, keyed by the host that produced each.
type AuthenticateRawResponse struct {
	LiveAuth  *live.AuthResponse      `json:"login.live.com"`
	UserToken *xnet.UserTokenResponse `json:"user.auth.xboxlive.com"`
	XSTSToken *xnet.XSTSTokenResponse `json:"xsts.auth.xboxlive.com"`
}
