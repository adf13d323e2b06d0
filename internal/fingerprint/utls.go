// Package fingerprint builds HTTP transports whose TLS ClientHello mimics a
// real browser. Storefronts and search engines behind bot mitigation often
// reject the default Go TLS stack outright, so the scrape client dials with a
// uTLS handshake instead.
package fingerprint

import (
	"context"
	"fmt"
	"net"
	"net/http"

	utls "github.com/refraction-networking/utls"
)

// Profile identifies a TLS fingerprint profile.
type Profile string

const (
	ProfileChrome  Profile = "chrome"
	ProfileFirefox Profile = "firefox"
	ProfileSafari  Profile = "safari"
	ProfileGo      Profile = "go"     // standard library TLS
	ProfileRandom  Profile = "random" // randomized uTLS hello
)

// Transport returns an http.RoundTripper for the given profile. The "go"
// profile is a plain cloned http.DefaultTransport; the rest wrap it with a
// DialTLSContext that performs the uTLS handshake.
func Transport(p Profile) (http.RoundTripper, error) {
	if p == ProfileGo {
		return http.DefaultTransport.(*http.Transport).Clone(), nil
	}

	var hello utls.ClientHelloID
	switch p {
	case ProfileChrome:
		hello = utls.HelloChrome_Auto
	case ProfileFirefox:
		hello = utls.HelloFirefox_Auto
	case ProfileSafari:
		hello = utls.HelloIOS_Auto
	case ProfileRandom:
		hello = utls.HelloRandomizedALPN
	default:
		return nil, fmt.Errorf("fingerprint: unknown profile %q", p)
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()

	transport.DialTLSContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
		tcpConn, err := transport.DialContext(ctx, network, addr)
		if err != nil {
			return nil, err
		}

		host, _, err := net.SplitHostPort(addr)
		if err != nil {
			host = addr // no port present
		}

		uConn := utls.UClient(tcpConn, &utls.Config{ServerName: host}, hello)
		if err := uConn.HandshakeContext(ctx); err != nil {
			_ = tcpConn.Close()
			return nil, fmt.Errorf("fingerprint: utls handshake failed: %w", err)
		}

		return uConn, nil
	}

	return transport, nil
}
