package wordlist

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"golang.org/x/net/proxy"
)

// NewHTTPClient creates the HTTP client used to fetch word lists.
//
// When proxyAddress is empty the client uses the environment's proxy settings
// like any other Go program. When it is set ("host:port"), every connection
// is dialled through that SOCKS5 proxy instead, which lets the fetch go out
// through Tor or an SSH dynamic forward in restricted CI environments.
func NewHTTPClient(timeout time.Duration, proxyAddress string) (*http.Client, error) {
	base, ok := http.DefaultTransport.(*http.Transport)
	if !ok {
		return nil, fmt.Errorf("unexpected default transport type %T", http.DefaultTransport)
	}
	transport := base.Clone()

	if proxyAddress != "" {
		dialer, err := proxy.SOCKS5("tcp", proxyAddress, nil, proxy.Direct)
		if err != nil {
			return nil, fmt.Errorf("failed to create SOCKS5 dialer: %w", err)
		}

		transport.Proxy = nil
		transport.DialContext = dialContext(dialer)
	}

	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}, nil
}

// dialContext adapts a proxy.Dialer to the DialContext signature.
// The SOCKS5 dialer returned by x/net implements proxy.ContextDialer; the
// fallback only exists for dialers that do not.
func dialContext(dialer proxy.Dialer) func(ctx context.Context, network, addr string) (net.Conn, error) {
	if cd, ok := dialer.(proxy.ContextDialer); ok {
		return cd.DialContext
	}
	return func(_ context.Context, network, addr string) (net.Conn, error) {
		return dialer.Dial(network, addr)
	}
}
