package xnet

import (
	"context"
	"encoding/json"
	"fmt"
)

// Pre-signed ProofOfPossession payload impersonating a generic Win32 device.
// This is an opaque, versioned fixture, not a cryptographic construction:
// the service currently accepts any syntactically valid signed request for
// this device class without verifying possession of the key. Keep the bytes
// exactly as the service last accepted them; regenerate only when the
// upstream starts rejecting the payload.
const (
	dummyWin32Signature = "AAAAAQHcFbBVEuAAHfvqYcbt4rhMgxAKtPiOJgct4UTCX2HqbQNLTHsnwjp9zcYNZMKHEknpyGWNqsIhyXaAd2v8ADmGrfh11oMS1g=="

	dummyWin32Body = `{"RelyingParty":"http://auth.xboxlive.com","TokenType":"JWT","Properties":{"AuthMethod":"ProofOfPossession","Id":"91dc36cd-080a-4493-8234-3b585c78b0d5","DeviceType":"Win32","Version":"10.0.19042","ProofKey":{"crv":"P-256","alg":"ES256","use":"sig","kty":"EC","x":"qMKczrK1b5opLCIX-tzyqOWztlbERh1i5sxDzdHrdxs","y":"23uwwgd2oSnWzyjHflRKaLxFsxX0-oE-mECf6c0gOaE"}}}`
)

// CreateDummyWin32DeviceToken obtains a device token by impersonating a
// generic Win32 device, unlocking the XSTS exchange for accounts that
// require one without owning real device credentials.
//
// Experimental: this is a fragile, service-behavior-dependent workaround.
// The associated device id may be banned by Xbox Network at any time.
func (c *Client) CreateDummyWin32DeviceToken(ctx context.Context) (*DeviceTokenResponse, error) {
	respBody, err := c.postJSON(ctx, c.DeviceAuthenticateURL, dummyWin32Body, requestOptions{signature: dummyWin32Signature})
	if err != nil {
		return nil, err
	}

	var deviceToken DeviceTokenResponse
	if err = json.Unmarshal(respBody, &deviceToken); err != nil {
		return nil, fmt.Errorf("xnet: failed to parse device token response: %w", err)
	}
	return &deviceToken, nil
}
