package nemo

import (
	"encoding/base64"
	"fmt"
	"net/http"
)

// ConnectionSpec identifies one form on one NEMO mission together with the
// credentials used to read it.
type ConnectionSpec struct {
	Host     string
	Mission  string
	Username string
	Password string
	FormID   string
}

// FetchOptions is the request target and headers derived from a ConnectionSpec.
type FetchOptions struct {
	URL    string
	Header http.Header
}

// ResponsesURL returns the OData endpoint listing every response to the form.
// Mission and form id are interpolated as-is and must already be URL-safe.
func (c ConnectionSpec) ResponsesURL() string {
	return fmt.Sprintf("https://%s/en/m/%s/odata/v1/Responses-%s", c.Host, c.Mission, c.FormID)
}

// FetchOptions builds the request options. Credentials travel only in the
// Authorization header as HTTP Basic auth, never in the URL.
func (c ConnectionSpec) FetchOptions() FetchOptions {
	h := make(http.Header)
	h.Set("Authorization", "Basic "+basicAuth(c.Username, c.Password))
	h.Set("Accept", "application/json")
	return FetchOptions{URL: c.ResponsesURL(), Header: h}
}

// String masks the password so the connection can be logged or printed.
func (c ConnectionSpec) String() string {
	return fmt.Sprintf("host=%s mission=%s username=%s password=***** form=%s",
		c.Host, c.Mission, c.Username, c.FormID)
}

func basicAuth(username, password string) string {
	return base64.StdEncoding.EncodeToString([]byte(username + ":" + password))
}
