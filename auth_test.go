package xblauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/openxbl-go/xboxlive-auth/internal/util"
	"github.com/openxbl-go/xboxlive-auth/live"
	"github.com/openxbl-go/xboxlive-auth/xnet"
	"github.com/tidwall/gjson"
)

// pipelineServer mocks the three hosts of the authentication chain behind a
// single httptest server.
type pipelineServer struct {
	server        *httptest.Server
	xstsResponse  string
	rejectLogin   bool
	userExchanges int32
	xstsExchanges int32
}

const defaultXSTSResponse = `{
	"IssueInstant": "2024-12-15T00:00:00.0000000Z",
	"NotAfter": "2025-01-01T00:00:00Z",
	"Token": "T",
	"DisplayClaims": {"xui": [{"xid": "X", "uhs": "H"}]}
}`

func newPipelineServer(t *testing.T) *pipelineServer {
	t.Helper()
	p := &pipelineServer{xstsResponse: defaultXSTSResponse}

	mux := http.NewServeMux()
	p.server = httptest.NewServer(mux)
	t.Cleanup(p.server.Close)

	mux.HandleFunc("/oauth20_authorize.srf", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Set-Cookie", "MSPRequ=lt-value; path=/")
		fmt.Fprintf(w, `<html><script>var ServerData = {urlPost:'%s/ppsecure/post.srf',sFTTag:'<input name="PPFT" value="ppft-value"/>'};</script></html>`, p.server.URL)
	})
	mux.HandleFunc("/ppsecure/post.srf", func(w http.ResponseWriter, r *http.Request) {
		if p.rejectLogin {
			fmt.Fprint(w, `<html><body>Your account or password is incorrect.</body></html>`)
			return
		}
		w.Header().Set("Location", "https://login.live.com/oauth20_desktop.srf#access_token=AT&token_type=bearer&expires_in=3600&refresh_token=RT")
		w.WriteHeader(http.StatusFound)
	})
	mux.HandleFunc("/user/authenticate", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&p.userExchanges, 1)
		body, _ := gjsonBody(r)
		if got := body.Get("Properties.RpsTicket").String(); got != "t=AT" {
			t.Errorf("Properties.RpsTicket = %q, want %q", got, "t=AT")
		}
		fmt.Fprint(w, `{
			"IssueInstant": "2024-12-15T00:00:00.0000000Z",
			"NotAfter": "2024-12-16T00:00:00.0000000Z",
			"Token": "UT",
			"DisplayClaims": {"xui": [{"uhs": "H"}]}
		}`)
	})
	mux.HandleFunc("/xsts/authorize", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&p.xstsExchanges, 1)
		body, _ := gjsonBody(r)
		if got := body.Get("Properties.UserTokens.0").String(); got != "UT" {
			t.Errorf("Properties.UserTokens[0] = %q, want UT", got)
		}
		fmt.Fprint(w, p.xstsResponse)
	})
	return p
}

func gjsonBody(r *http.Request) (gjson.Result, error) {
	var raw json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		return gjson.Result{}, err
	}
	return gjson.ParseBytes(raw), nil
}

func (p *pipelineServer) authenticator() *Authenticator {
	authenticator := New(nil)
	authenticator.Live.HTTPClient = p.server.Client()
	authenticator.Live.NoRedirectHTTPClient = util.NewNoRedirectHTTPClient(nil)
	authenticator.Live.AuthorizeURL = p.server.URL + "/oauth20_authorize.srf"
	authenticator.Live.TokenURL = p.server.URL + "/oauth20_token.srf"
	authenticator.XNet.HTTPClient = p.server.Client()
	authenticator.XNet.UserAuthenticateURL = p.server.URL + "/user/authenticate"
	authenticator.XNet.XSTSAuthorizeURL = p.server.URL + "/xsts/authorize"
	return authenticator
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	p := newPipelineServer(t)
	authResponse, err := p.authenticator().Authenticate(context.Background(), "user@example.org", "hunter2", nil)
	if err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	}

	if authResponse.XUID == nil || *authResponse.XUID != "X" {
		t.Errorf("XUID = %v, want X", authResponse.XUID)
	}
	if authResponse.UserHash != "H" {
		t.Errorf("UserHash = %q, want H", authResponse.UserHash)
	}
	if authResponse.XSTSToken != "T" {
		t.Errorf("XSTSToken = %q, want T", authResponse.XSTSToken)
	}
	if authResponse.ExpiresOn != "2025-01-01T00:00:00Z" {
		t.Errorf("ExpiresOn = %q, want the NotAfter instant", authResponse.ExpiresOn)
	}
	if got := authResponse.DisplayClaims.Claim("xid"); got != "X" {
		t.Errorf("DisplayClaims xid = %q, want X", got)
	}
}

func TestAuthenticateWithoutXUID(t *testing.T) {
	t.Parallel()

	p := newPipelineServer(t)
	p.xstsResponse = `{
		"IssueInstant": "2024-12-15T00:00:00.0000000Z",
		"NotAfter": "2025-01-01T00:00:00Z",
		"Token": "T",
		"DisplayClaims": {"xui": [{"uhs": "H"}]}
	}`

	authResponse, err := p.authenticator().Authenticate(context.Background(), "teen@example.org", "hunter2", nil)
	if err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	}
	if authResponse.XUID != nil {
		t.Errorf("XUID = %q, want nil when the xid claim is absent", *authResponse.XUID)
	}

	encoded, err := json.Marshal(authResponse)
	if err != nil {
		t.Fatalf("failed to encode response: %v", err)
	}
	if !gjson.GetBytes(encoded, "xuid").Exists() || gjson.GetBytes(encoded, "xuid").Type != gjson.Null {
		t.Errorf("encoded response %s must carry a null xuid", encoded)
	}
}

func TestAuthenticateRaw(t *testing.T) {
	t.Parallel()

	p := newPipelineServer(t)
	rawResponse, err := p.authenticator().AuthenticateRaw(context.Background(), "user@example.org", "hunter2", nil)
	if err != nil {
		t.Fatalf("AuthenticateRaw() error = %v", err)
	}

	if rawResponse.LiveAuth.AccessToken != "AT" {
		t.Errorf("LiveAuth.AccessToken = %q, want AT", rawResponse.LiveAuth.AccessToken)
	}
	if rawResponse.LiveAuth.RefreshToken != "RT" {
		t.Errorf("LiveAuth.RefreshToken = %q, want RT", rawResponse.LiveAuth.RefreshToken)
	}
	if rawResponse.UserToken.Token != "UT" {
		t.Errorf("UserToken.Token = %q, want UT", rawResponse.UserToken.Token)
	}
	if rawResponse.XSTSToken.Token != "T" {
		t.Errorf("XSTSToken.Token = %q, want T", rawResponse.XSTSToken.Token)
	}

	encoded, err := json.Marshal(rawResponse)
	if err != nil {
		t.Fatalf("failed to encode raw response: %v", err)
	}
	var keyed map[string]json.RawMessage
	if err = json.Unmarshal(encoded, &keyed); err != nil {
		t.Fatalf("failed to decode raw response: %v", err)
	}
	for _, host := range []string{"login.live.com", "user.auth.xboxlive.com", "xsts.auth.xboxlive.com"} {
		if _, ok := keyed[host]; !ok {
			t.Errorf("raw response is missing the %q key", host)
		}
	}
	if len(keyed) != 3 {
		t.Errorf("raw response has %d keys, want exactly 3", len(keyed))
	}
}

func TestAuthenticateStopsChainOnRejection(t *testing.T) {
	t.Parallel()

	p := newPipelineServer(t)
	p.rejectLogin = true

	_, err := p.authenticator().Authenticate(context.Background(), "user@example.org", "wrong", nil)
	if !live.IsCode(err, "INVALID_CREDENTIALS_OR_2FA_ENABLED") {
		t.Fatalf("Authenticate() error = %v, want the Live rejection unmodified", err)
	}
	if atomic.LoadInt32(&p.userExchanges) != 0 || atomic.LoadInt32(&p.xstsExchanges) != 0 {
		t.Error("a failed credential step must abort the chain before any token exchange")
	}
}

func TestAuthenticateForwardsOptions(t *testing.T) {
	t.Parallel()

	p := newPipelineServer(t)
	authenticator := p.authenticator()

	var xstsBody []byte
	mux := http.NewServeMux()
	optionServer := httptest.NewServer(mux)
	t.Cleanup(optionServer.Close)
	mux.HandleFunc("/xsts/authorize", func(w http.ResponseWriter, r *http.Request) {
		body, _ := gjsonBody(r)
		xstsBody = []byte(body.Raw)
		fmt.Fprint(w, defaultXSTSResponse)
	})
	authenticator.XNet.XSTSAuthorizeURL = optionServer.URL + "/xsts/authorize"

	_, err := authenticator.AuthenticateRaw(context.Background(), "user@example.org", "hunter2", &Options{
		XSTSRelyingParty: xnet.RelyingPartyPlayFab,
		SandboxID:        xnet.SandboxXDKS1,
		// No device token, so the title token must not be forwarded.
		TitleToken: "TT",
	})
	if err != nil {
		t.Fatalf("AuthenticateRaw() error = %v", err)
	}

	if got := gjson.GetBytes(xstsBody, "RelyingParty").String(); got != xnet.RelyingPartyPlayFab {
		t.Errorf("RelyingParty = %q, want %q", got, xnet.RelyingPartyPlayFab)
	}
	if got := gjson.GetBytes(xstsBody, "Properties.SandboxId").String(); got != xnet.SandboxXDKS1 {
		t.Errorf("Properties.SandboxId = %q, want %q", got, xnet.SandboxXDKS1)
	}
	if gjson.GetBytes(xstsBody, "Properties.TitleToken").Exists() {
		t.Error("Properties.TitleToken must be dropped without a device token")
	}
}
