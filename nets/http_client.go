package nets

import (
	"net/http"
	"time"
)

type HTTPClient = *http.Client

// no overall timeout; completions are streamed
func (Module) HTTPClient(
	dialer Dialer,
) HTTPClient {
	return &http.Client{
		Transport: &http.Transport{
			DialContext:           dialer.DialContext,
			ResponseHeaderTimeout: time.Minute * 5,
			IdleConnTimeout:       time.Minute,
			MaxIdleConnsPerHost:   4,
		},
	}
}
