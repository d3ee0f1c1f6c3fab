package xnet

// DisplayClaims carries the xui claim set returned by the token services.
// Claims stay as raw key-value pairs so optional ones (xid, gtg, agg, ...)
// survive round-tripping untouched.
type DisplayClaims struct {
	XUI []map[string]string `json:"xui"`
}

// Claim returns the named claim from the first xui entry, or an empty string
// when absent.
func (d DisplayClaims) Claim(name string) string {
	if len(d.XUI) == 0 {
		return ""
	}
	return d.XUI[0][name]
}

// UserTokenResponse is the intermediate user token issued for an RPS ticket.
// The token is an opaque string consumed once by the XSTS exchange.
type UserTokenResponse struct {
	IssueInstant  string        `json:"IssueInstant"`
	NotAfter      string        `json:"NotAfter"`
	Token         string        `json:"Token"`
	DisplayClaims DisplayClaims `json:"DisplayClaims"`
}

// UserHash returns the uhs claim of the token.
func (r *UserTokenResponse) UserHash() string {
	return r.DisplayClaims.Claim("uhs")
}

// XSTSTokenResponse is the final XSTS token. The xid claim is only present
// for adult accounts, or when a device token accompanied the exchange.
type XSTSTokenResponse struct {
	IssueInstant  string        `json:"IssueInstant"`
	NotAfter      string        `json:"NotAfter"`
	Token         string        `json:"Token"`
	DisplayClaims DisplayClaims `json:"DisplayClaims"`
}

// UserHash returns the uhs claim of the token.
func (r *XSTSTokenResponse) UserHash() string {
	return r.DisplayClaims.Claim("uhs")
}

// XUID returns the xid claim, or an empty string for child and teen
// accounts authenticated without a device token.
func (r *XSTSTokenResponse) XUID() string {
	return r.DisplayClaims.Claim("xid")
}

// DeviceTokenResponse is the device token issued by the device authenticate
// endpoint.
type DeviceTokenResponse struct {
	IssueInstant  string `json:"IssueInstant"`
	NotAfter      string `json:"NotAfter"`
	Token         string `json:"Token"`
	DisplayClaims struct {
		XDI struct {
			DID string `json:"did"`
			DCS string `json:"dcs"`
		} `json:"xdi"`
	} `json:"DisplayClaims"`
}

// Tokens is the token set submitted to the XSTS exchange. UserTokens must be
// non-empty (in practice exactly one entry); TitleToken is only meaningful
// when DeviceToken is also present.
type Tokens struct {
	UserTokens  []string
	DeviceToken string
	TitleToken  string
}

// ExchangeOptions tunes the XSTS exchange. Zero values select the Xbox Live
// relying party and the RETAIL sandbox.
type ExchangeOptions struct {
	XSTSRelyingParty      string
	OptionalDisplayClaims []string
	SandboxID             string
}
