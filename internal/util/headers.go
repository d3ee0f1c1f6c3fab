package util

import "net/http"

// UserAgent identifies the library during requests, mirroring the format the
// upstream services already see from desktop clients.
const UserAgent = "XboxLive-Auth/1.0 (Go; +https://github.com/openxbl-go/xboxlive-auth) OpenXBL/AuthClient"

// SetBaseHeaders applies the default headers shared by every outbound request.
func SetBaseHeaders(header http.Header) {
	header.Set("Accept-Language", "en-US,en;q=0.9")
	header.Set("Cache-Control", "no-cache")
	header.Set("User-Agent", UserAgent)
}

// ApplyAdditionalHeaders copies caller-supplied headers onto the request,
// overriding any default of the same name.
func ApplyAdditionalHeaders(header http.Header, additional map[string]string) {
	for key, value := range additional {
		header.Set(key, value)
	}
}
