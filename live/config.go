package live

// Endpoint URLs for the Microsoft Live authentication service.
const (
	// AuthorizeURL is the login page used for pre-auth scraping and
	// credential submission.
	AuthorizeURL = "https://login.live.com/oauth20_authorize.srf"
	// TokenURL is the standard OAuth token endpoint used for refresh and
	// authorization-code grants.
	TokenURL = "https://login.live.com/oauth20_token.srf"
)

// Registered OAuth parameters of the Xbox App client. These defaults produce
// an RPS ticket accepted by user.auth.xboxlive.com without a client secret.
const (
	// DefaultClientID is the Xbox App client id.
	DefaultClientID = "000000004C12AE6F"
	// DefaultScope grants access to the Xbox Live user authentication service.
	DefaultScope = "service::user.auth.xboxlive.com::MBI_SSL"
	// DefaultRedirectURI is the desktop redirect target that carries tokens
	// in its URL fragment.
	DefaultRedirectURI = "https://login.live.com/oauth20_desktop.srf"
	// DefaultResponseType selects the implicit (token) grant.
	DefaultResponseType = "token"
)
