package xnet

// Endpoint URLs for the Xbox Network token services.
const (
	// UserAuthenticateURL exchanges an RPS ticket for a user token.
	UserAuthenticateURL = "https://user.auth.xboxlive.com/user/authenticate"
	// DeviceAuthenticateURL exchanges a proof-of-possession payload for a device token.
	DeviceAuthenticateURL = "https://device.auth.xboxlive.com/device/authenticate"
	// TitleAuthenticateURL exchanges device credentials for a title token.
	TitleAuthenticateURL = "https://title.auth.xboxlive.com/device/authenticate"
	// XSTSAuthorizeURL exchanges user/device/title tokens for an XSTS token.
	XSTSAuthorizeURL = "https://xsts.auth.xboxlive.com/xsts/authorize"
)

// SiteName is the site identifier sent with RPS ticket exchanges.
const SiteName = "user.auth.xboxlive.com"

// DefaultContractVersion is the X-Xbl-Contract-Version header value the
// token services currently expect. The value has changed across service
// revisions (0 in early ones); it must track whatever the live service
// accepts today.
const DefaultContractVersion = "2"

// Preamble values accepted on RPS tickets.
const (
	// PreambleTicket marks a standard user ticket.
	PreambleTicket = "t"
	// PreambleDevice marks a device or Azure application ticket.
	PreambleDevice = "d"
)

// Known relying parties. The relying party requested during the XSTS
// exchange determines which API surface the resulting token is valid for.
const (
	RelyingPartyAuth            = "http://auth.xboxlive.com"
	RelyingPartyAccounts        = "http://accounts.xboxlive.com"
	RelyingPartyAttestation     = "http://attestation.xboxlive.com"
	RelyingPartyBanning         = "http://banning.xboxlive.com"
	RelyingPartyDeviceMgt       = "http://device.mgt.xboxlive.com"
	RelyingPartyEvents          = "http://events.xboxlive.com"
	RelyingPartyExperimentation = "http://experimentation.xboxlive.com/"
	RelyingPartyGameServices    = "https://gameservices.xboxlive.com/"
	RelyingPartyInstanceMgt     = "http://instance.mgt.xboxlive.com"
	RelyingPartyLicensing       = "http://licensing.xboxlive.com"
	RelyingPartyMicrosoftStore  = "http://mp.microsoft.com/"
	RelyingPartyPlayFab         = "http://playfab.xboxlive.com/"
	RelyingPartySisu            = "http://sisu.xboxlive.com/"
	RelyingPartyStreaming       = "rp://streaming.xboxlive.com/"
	RelyingPartyUnlockDevice    = "http://unlock.device.mgt.xboxlive.com"
	RelyingPartyUpdate          = "http://update.xboxlive.com"
	RelyingPartyUXServices      = "http://uxservices.xboxlive.com"
	RelyingPartyXboxLive        = "http://xboxlive.com"
	RelyingPartyXDES            = "http://xdes.xboxlive.com/"
	RelyingPartyXFlight         = "http://xflight.xboxlive.com/"
	RelyingPartyXKMS            = "http://xkms.xboxlive.com"
	RelyingPartyXLink           = "http://xlink.xboxlive.com"
)

// Sandbox identifiers. RETAIL is the production environment; development
// sandboxes use their own identifiers.
const (
	SandboxRetail = "RETAIL"
	SandboxXDKS1  = "XDKS.1"
)

// KnownDisplayClaims lists the display claim names the services understand,
// for use with ExchangeOptions.OptionalDisplayClaims.
var KnownDisplayClaims = []string{"gtg", "xid", "uhs", "agg", "usr", "utr", "prv", "mgt", "umg", "mgs"}
