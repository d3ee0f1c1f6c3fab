package xnet

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/openxbl-go/xboxlive-auth/config"
	"github.com/openxbl-go/xboxlive-auth/internal/util"
	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

// Client performs token exchanges against the Xbox Network token services.
// Fields are exported so callers can swap the HTTP client, endpoints, or
// contract version; the zero value is not usable, construct with NewClient.
type Client struct {
	// HTTPClient issues the exchange requests.
	HTTPClient *http.Client
	// ContractVersion is sent as X-Xbl-Contract-Version on every request.
	ContractVersion string
	// Service endpoints.
	UserAuthenticateURL   string
	DeviceAuthenticateURL string
	TitleAuthenticateURL  string
	XSTSAuthorizeURL      string
}

// NewClient creates an Xbox Network client with proxy and timeout settings
// taken from the configuration. A nil configuration selects the defaults.
func NewClient(cfg *config.Config) *Client {
	return &Client{
		HTTPClient:            util.NewHTTPClient(cfg),
		ContractVersion:       DefaultContractVersion,
		UserAuthenticateURL:   UserAuthenticateURL,
		DeviceAuthenticateURL: DeviceAuthenticateURL,
		TitleAuthenticateURL:  TitleAuthenticateURL,
		XSTSAuthorizeURL:      XSTSAuthorizeURL,
	}
}

// requestOptions tunes a single exchange request.
type requestOptions struct {
	// signature is forwarded as the Signature header when set.
	signature string
	// additionalHeaders override defaults of the same name.
	additionalHeaders map[string]string
}

// postJSON issues a JSON POST with the Xbox-specific headers applied and
// returns the response body. Non-2xx responses are classified as exchange
// failures carrying the XErr code when the body exposes one.
func (c *Client) postJSON(ctx context.Context, endpoint, body string, opts requestOptions) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("xnet: failed to create exchange request: %w", err)
	}
	util.SetBaseHeaders(req.Header)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Xbl-Contract-Version", c.ContractVersion)
	req.Header.Set("MS-CV", newCorrelationVector())
	if opts.signature != "" {
		req.Header.Set("Signature", opts.signature)
	}
	util.ApplyAdditionalHeaders(req.Header, opts.additionalHeaders)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, &ExchangeError{Message: fmt.Sprintf("request to %s failed", endpoint), Cause: err}
	}
	defer func() {
		if errClose := resp.Body.Close(); errClose != nil {
			log.Errorf("failed to close response body: %v", errClose)
		}
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("xnet: failed to read exchange response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		xerr := gjson.GetBytes(respBody, "XErr").Int()
		log.Debugf("token exchange against %s rejected with status %d XErr %d", endpoint, resp.StatusCode, xerr)
		return nil, newExchangeError(resp.StatusCode, xerr, string(respBody))
	}
	return respBody, nil
}

// newCorrelationVector seeds an MS-CV correlation vector for request
// tracing across the Xbox services.
func newCorrelationVector() string {
	id := uuid.New()
	return base64.RawStdEncoding.EncodeToString(id[:]) + ".0"
}
