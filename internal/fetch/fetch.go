package fetch

import (
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html/charset"
)

// NewHTTPClient returns a pooled client for search backend calls. When
// proxyURL is non-empty every request routes through it; otherwise the
// standard proxy environment variables apply. timeout of zero leaves
// deadlines to the caller's context.
func NewHTTPClient(proxyURL string, timeout time.Duration) (*http.Client, error) {
	proxy := http.ProxyFromEnvironment
	if strings.TrimSpace(proxyURL) != "" {
		u, err := url.Parse(proxyURL)
		if err != nil {
			return nil, fmt.Errorf("proxy url: %w", err)
		}
		if !isProxyScheme(u) {
			return nil, fmt.Errorf("unsupported proxy scheme %q", u.Scheme)
		}
		proxy = http.ProxyURL(u)
	}
	transport := &http.Transport{
		Proxy: proxy,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          32,
		MaxIdleConnsPerHost:   8,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	return &http.Client{Transport: transport, Timeout: timeout}, nil
}

// DecodeHTML wraps body so reads yield UTF-8 regardless of the declared
// page charset. Scraped result pages are not reliably UTF-8 once hl/gl
// point at non-Latin locales.
func DecodeHTML(body io.Reader, contentType string) (io.Reader, error) {
	return charset.NewReader(body, contentType)
}

func isProxyScheme(u *url.URL) bool {
	if u == nil || u.Host == "" {
		return false
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https", "socks5", "socks5h":
		return true
	}
	return false
}
