// Package transport builds the HTTP client used to talk to the Concourse API.
package transport

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// DefaultTimeout bounds every Concourse API call.
const DefaultTimeout = 5 * time.Second

var ErrInvalidCACert = errors.New("no certificates found in CA bundle")

// ClientCert is a PEM encoded client certificate and its key.
type ClientCert struct {
	Cert string
	Key  string
}

// Options controls TLS trust for the Concourse API client.
type Options struct {
	// InsecureSkipVerify disables certificate and hostname validation.
	InsecureSkipVerify bool
	// CACert is a PEM bundle added to the system roots.
	CACert string
	// ClientCert is presented to servers that require mutual TLS.
	ClientCert *ClientCert
	// Timeout overrides DefaultTimeout when positive.
	Timeout time.Duration
}

// NewHTTPClient returns an *http.Client honouring opts.
func NewHTTPClient(opts Options) (*http.Client, error) {
	tlsConfig, err := TLSConfig(opts)
	if err != nil {
		return nil, err
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	base, ok := http.DefaultTransport.(*http.Transport)
	rt := &http.Transport{}
	if ok {
		rt = base.Clone()
	}
	rt.TLSClientConfig = tlsConfig

	return &http.Client{
		Timeout:   timeout,
		Transport: rt,
	}, nil
}

// TLSConfig translates opts into a *tls.Config.
func TLSConfig(opts Options) (*tls.Config, error) {
	cfg := &tls.Config{
		MinVersion:         tls.VersionTLS12,
		InsecureSkipVerify: opts.InsecureSkipVerify, //nolint:gosec // opt-in via ignore_ssl
	}

	if opts.CACert != "" {
		pool, err := x509.SystemCertPool()
		if err != nil || pool == nil {
			pool = x509.NewCertPool()
		}
		if !pool.AppendCertsFromPEM([]byte(opts.CACert)) {
			return nil, ErrInvalidCACert
		}
		cfg.RootCAs = pool
	}

	if opts.ClientCert != nil {
		pair, err := tls.X509KeyPair([]byte(opts.ClientCert.Cert), []byte(opts.ClientCert.Key))
		if err != nil {
			return nil, fmt.Errorf("failed to load client certificate: %w", err)
		}
		cfg.Certificates = []tls.Certificate{pair}
	}

	return cfg, nil
}
