package live

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/openxbl-go/xboxlive-auth/config"
	"github.com/openxbl-go/xboxlive-auth/internal/util"
	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

// Credentials holds a Microsoft account email and password. They are only
// held for the duration of a single authentication attempt and are never
// persisted.
type Credentials struct {
	Email    string
	Password string
}

// AuthResponse is the token set issued by login.live.com, either parsed from
// a redirect fragment (credential flow) or from a JSON body (refresh and
// code grants). RefreshToken is empty when the service issued none; the
// caller owns persisting it for reuse.
type AuthResponse struct {
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	Scope        string `json:"scope"`
	UserID       string `json:"user_id"`
}

// PreAuthResponse carries the values scraped from the login page. They are
// single-use: the page issues fresh values on every request, so the response
// is valid for exactly one credential submission and must not be cached.
type PreAuthResponse struct {
	// Cookie is the folded Set-Cookie material to forward on the credential POST.
	Cookie string
	// PPFT is the anti-forgery token embedded in the page.
	PPFT string
	// URLPost is the scraped form submission target.
	URLPost string
}

// PreAuthOptions overrides the registered OAuth parameters used to build the
// authorize URL. Zero values select the Xbox App defaults.
type PreAuthOptions struct {
	ClientID     string
	Scope        string
	ResponseType string
	RedirectURI  string
}

// Client performs authentication flows against login.live.com. Fields are
// exported so callers can swap the HTTP clients, endpoints, or extraction
// rules; the zero value is not usable, construct with NewClient.
type Client struct {
	// HTTPClient issues requests that may follow redirects.
	HTTPClient *http.Client
	// NoRedirectHTTPClient issues the credential POST; redirects must not be
	// followed there because the tokens only travel in the Location header.
	NoRedirectHTTPClient *http.Client
	// Extractors are the scraping rules run against the login page.
	Extractors []ParameterExtractor
	// AuthorizeURL and TokenURL are the service endpoints.
	AuthorizeURL string
	TokenURL     string
}

// NewClient creates a Live authentication client with proxy and timeout
// settings taken from the configuration. A nil configuration selects the
// defaults.
func NewClient(cfg *config.Config) *Client {
	return &Client{
		HTTPClient:           util.NewHTTPClient(cfg),
		NoRedirectHTTPClient: util.NewNoRedirectHTTPClient(cfg),
		Extractors:           DefaultExtractors(),
		AuthorizeURL:         AuthorizeURL,
		TokenURL:             TokenURL,
	}
}

// GetAuthorizeURL returns the login.live.com authorize URL for the given
// options, defaulting to the registered Xbox App parameters.
func GetAuthorizeURL(options *PreAuthOptions) string {
	return buildAuthorizeURL(AuthorizeURL, options)
}

// GetAuthorizeURL returns the authorize URL built against the client's
// configured endpoint.
func (c *Client) GetAuthorizeURL(options *PreAuthOptions) string {
	return buildAuthorizeURL(c.AuthorizeURL, options)
}

func buildAuthorizeURL(endpoint string, options *PreAuthOptions) string {
	if options == nil {
		options = &PreAuthOptions{}
	}
	clientID := options.ClientID
	if clientID == "" {
		clientID = DefaultClientID
	}
	scope := options.Scope
	if scope == "" {
		scope = DefaultScope
	}
	responseType := options.ResponseType
	if responseType == "" {
		responseType = DefaultResponseType
	}
	redirectURI := options.RedirectURI
	if redirectURI == "" {
		redirectURI = DefaultRedirectURI
	}

	params := url.Values{
		"client_id":     {clientID},
		"redirect_uri":  {redirectURI},
		"response_type": {responseType},
		"scope":         {scope},
	}
	return fmt.Sprintf("%s?%s", endpoint, params.Encode())
}

// PreAuth retrieves the cookies and scraped parameters required before a
// credential submission. It fails with a PRE_AUTH_ERROR when any extraction
// rule finds no match, which means the third-party page changed and the
// rules need maintenance; retrying will not help.
func (c *Client) PreAuth(ctx context.Context, options *PreAuthOptions) (*PreAuthResponse, error) {
	authorizeURL := c.GetAuthorizeURL(options)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, authorizeURL, nil)
	if err != nil {
		return nil, fmt.Errorf("live: failed to create pre-auth request: %w", err)
	}
	util.SetBaseHeaders(req.Header)
	req.Header.Set("Accept", "text/html; charset=utf-8")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, &RequestError{URL: authorizeURL, Cause: err}
	}
	defer func() {
		if errClose := resp.Body.Close(); errClose != nil {
			log.Errorf("failed to close response body: %v", errClose)
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("live: failed to read pre-auth response: %w", err)
	}

	matches := make(map[string]string, len(c.Extractors))
	var missing []string
	for _, extractor := range c.Extractors {
		value, ok := extractor.Extract(string(body))
		if !ok {
			missing = append(missing, extractor.Name())
			continue
		}
		matches[extractor.Name()] = value
	}
	if len(missing) > 0 {
		log.Debugf("pre-auth scrape missed parameters: %s", strings.Join(missing, ", "))
		return nil, NewError(ErrPreAuth, fmt.Errorf("missing parameters: %s", strings.Join(missing, ", ")))
	}

	return &PreAuthResponse{
		Cookie:  foldSetCookies(resp.Header.Values("Set-Cookie")),
		PPFT:    matches[ParamPPFT],
		URLPost: matches[ParamURLPost],
	}, nil
}

// AuthenticateWithCredentials performs the full credential flow: pre-auth
// scraping followed by a form submission against the scraped target. On
// success the tokens are parsed from the URL fragment of the redirect
// Location header. Every failure is terminal for this attempt; the PPFT
// value is single-use, so a retry must start over from PreAuth.
func (c *Client) AuthenticateWithCredentials(ctx context.Context, credentials Credentials) (*AuthResponse, error) {
	preAuthResponse, err := c.PreAuth(ctx, nil)
	if err != nil {
		return nil, err
	}

	form := url.Values{
		"login":    {credentials.Email},
		"loginfmt": {credentials.Email},
		"passwd":   {credentials.Password},
		"PPFT":     {preAuthResponse.PPFT},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, preAuthResponse.URLPost, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("live: failed to create credential request: %w", err)
	}
	util.SetBaseHeaders(req.Header)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Cookie", preAuthResponse.Cookie)

	resp, err := c.NoRedirectHTTPClient.Do(req)
	if err != nil {
		return nil, &RequestError{URL: preAuthResponse.URLPost, Cause: err}
	}
	defer func() {
		if errClose := resp.Body.Close(); errClose != nil {
			log.Errorf("failed to close response body: %v", errClose)
		}
	}()

	if resp.StatusCode != http.StatusFound {
		// A direct 200 here means the login page was re-rendered instead of
		// redirecting: the submission was rejected.
		body, _ := io.ReadAll(resp.Body)
		log.Debugf("credential submission returned status %d", resp.StatusCode)
		return nil, classifyAuthFailure(string(body))
	}

	location := resp.Header.Get("Location")
	fragmentIndex := strings.Index(location, "#")
	if fragmentIndex < 0 || fragmentIndex == len(location)-1 {
		return nil, NewError(ErrMissingHashParameters, nil)
	}

	return parseAuthFragment(location[fragmentIndex+1:])
}

// RefreshAccessToken exchanges a refresh token for a fresh token pair.
// Empty clientID and scope select the Xbox App defaults; clientSecret is
// only required for confidential clients.
func (c *Client) RefreshAccessToken(ctx context.Context, refreshToken, clientID, scope, clientSecret string) (*AuthResponse, error) {
	if refreshToken == "" {
		return nil, fmt.Errorf("live: refresh token is required")
	}
	if clientID == "" {
		clientID = DefaultClientID
	}
	if scope == "" {
		scope = DefaultScope
	}

	form := url.Values{
		"client_id":     {clientID},
		"scope":         {scope},
		"grant_type":    {"refresh_token"},
		"refresh_token": {refreshToken},
	}
	if clientSecret != "" {
		form.Set("client_secret", clientSecret)
	}
	return c.requestToken(ctx, form)
}

// ExchangeCodeForAccessToken exchanges an authorization code for a token
// pair. Unlike the refresh grant, the code grant has no defaults: clientID,
// scope, and redirectURI must match the parameters of the authorize request
// that produced the code.
func (c *Client) ExchangeCodeForAccessToken(ctx context.Context, code, clientID, scope, redirectURI, clientSecret string) (*AuthResponse, error) {
	if code == "" {
		return nil, fmt.Errorf("live: authorization code is required")
	}

	form := url.Values{
		"code":         {code},
		"client_id":    {clientID},
		"grant_type":   {"authorization_code"},
		"redirect_uri": {redirectURI},
		"scope":        {scope},
	}
	if clientSecret != "" {
		form.Set("client_secret", clientSecret)
	}
	return c.requestToken(ctx, form)
}

// requestToken performs a form-encoded grant request against the token
// endpoint and parses the JSON response.
func (c *Client) requestToken(ctx context.Context, form url.Values) (*AuthResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("live: failed to create token request: %w", err)
	}
	util.SetBaseHeaders(req.Header)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, &RequestError{URL: c.TokenURL, Cause: err}
	}
	defer func() {
		if errClose := resp.Body.Close(); errClose != nil {
			log.Errorf("failed to close response body: %v", errClose)
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("live: failed to read token response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if desc := gjson.GetBytes(body, "error_description"); desc.Exists() {
			log.Debugf("token grant rejected: %s", desc.String())
		}
		return nil, &RequestError{URL: c.TokenURL, StatusCode: resp.StatusCode, Body: string(body)}
	}

	var authResponse AuthResponse
	if err = json.Unmarshal(body, &authResponse); err != nil {
		return nil, fmt.Errorf("live: failed to parse token response: %w", err)
	}
	return &authResponse, nil
}

// parseAuthFragment parses the key-value pairs of a redirect URL fragment
// into an AuthResponse, coercing expires_in to a number.
func parseAuthFragment(fragment string) (*AuthResponse, error) {
	values, err := url.ParseQuery(fragment)
	if err != nil {
		return nil, NewError(ErrMissingHashParameters, err)
	}
	if values.Get("access_token") == "" {
		return nil, NewError(ErrMissingHashParameters, nil)
	}

	expiresIn, err := strconv.Atoi(values.Get("expires_in"))
	if err != nil {
		log.Warnf("unparsable expires_in value %q in redirect fragment", values.Get("expires_in"))
	}

	return &AuthResponse{
		TokenType:    values.Get("token_type"),
		ExpiresIn:    expiresIn,
		AccessToken:  values.Get("access_token"),
		RefreshToken: values.Get("refresh_token"),
		Scope:        values.Get("scope"),
		UserID:       values.Get("user_id"),
	}, nil
}

// unauthorizedActivityMarkers hints at an account-security interstitial in a
// rejected submission's body. The upstream markup is undocumented and has
// drifted across service revisions, so matching is best-effort; anything
// unmatched falls back to the generic invalid-credentials classification.
var unauthorizedActivityMarkers = []string{
	"account.live.com/identity/confirm",
	"Help us protect your account",
}

func classifyAuthFailure(body string) *Error {
	for _, marker := range unauthorizedActivityMarkers {
		if strings.Contains(body, marker) {
			return NewError(ErrUnauthorizedActivity, nil)
		}
	}
	return NewError(ErrInvalidCredentials, nil)
}

// foldSetCookies reduces Set-Cookie header values to their name=value pairs
// and joins them into a single Cookie header value for forwarding.
func foldSetCookies(setCookies []string) string {
	pairs := make([]string, 0, len(setCookies))
	for _, cookie := range setCookies {
		pair := strings.TrimSpace(strings.SplitN(cookie, ";", 2)[0])
		if pair != "" {
			pairs = append(pairs, pair)
		}
	}
	return strings.Join(pairs, "; ")
}
