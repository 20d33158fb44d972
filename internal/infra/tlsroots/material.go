package tlsroots

import (
	"crypto"
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
	"time"

	"github.com/yndnr/capsule/internal/core/domain"
)

const (
	pemCertificate   = "CERTIFICATE"
	pemPKCS8Key      = "PRIVATE KEY"
	pemPKCS1RSAKey   = "RSA PRIVATE KEY"
	minServerVersion = tls.VersionTLS12
)

// Material is one loaded certificate chain with its private key.
// It is never modified after Load returns.
type Material struct {
	Certificate tls.Certificate
	CertPath    string
	KeyPath     string
	LoadedAt    time.Time

	config *tls.Config
}

// Config returns the server TLS configuration built from m.
// Client certificates are not requested.
func (m *Material) Config() *tls.Config {
	return m.config
}

// NotAfter reports when the leaf certificate expires.
func (m *Material) NotAfter() time.Time {
	if m.Certificate.Leaf == nil {
		return time.Time{}
	}
	return m.Certificate.Leaf.NotAfter
}

// Load reads a PEM certificate chain and a PEM private key.
//
// The chain file may hold several CERTIFICATE blocks; the first is the
// leaf. The key file is scanned for a PKCS#8 "PRIVATE KEY" or a PKCS#1
// "RSA PRIVATE KEY" block and the first one that parses is used. Every
// failure is reported as domain.ErrTLSLoad.
func Load(certPath, keyPath string) (*Material, error) {
	certPEM, err := os.ReadFile(certPath)
	if err != nil {
		return nil, domain.ErrTLSLoad.WithDetails("read certificate " + certPath).WithCause(err)
	}
	keyPEM, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, domain.ErrTLSLoad.WithDetails("read private key " + keyPath).WithCause(err)
	}

	chain, leaf, err := parseChain(certPEM)
	if err != nil {
		return nil, domain.ErrTLSLoad.WithDetails(certPath).WithCause(err)
	}
	key, err := parsePrivateKey(keyPEM)
	if err != nil {
		return nil, domain.ErrTLSLoad.WithDetails(keyPath).WithCause(err)
	}
	if err := matchKey(leaf, key); err != nil {
		return nil, domain.ErrTLSLoad.WithDetails(keyPath).WithCause(err)
	}

	cert := tls.Certificate{
		Certificate: chain,
		PrivateKey:  key,
		Leaf:        leaf,
	}
	return &Material{
		Certificate: cert,
		CertPath:    certPath,
		KeyPath:     keyPath,
		LoadedAt:    time.Now(),
		config: &tls.Config{
			Certificates: []tls.Certificate{cert},
			MinVersion:   minServerVersion,
			ClientAuth:   tls.NoClientCert,
		},
	}, nil
}

func parseChain(data []byte) ([][]byte, *x509.Certificate, error) {
	var (
		chain [][]byte
		leaf  *x509.Certificate
	)
	for len(data) > 0 {
		var block *pem.Block
		block, data = pem.Decode(data)
		if block == nil {
			break
		}
		if block.Type != pemCertificate {
			continue
		}
		if leaf == nil {
			parsed, err := x509.ParseCertificate(block.Bytes)
			if err != nil {
				return nil, nil, fmt.Errorf("parse leaf certificate: %w", err)
			}
			leaf = parsed
		}
		chain = append(chain, block.Bytes)
	}
	if len(chain) == 0 {
		return nil, nil, fmt.Errorf("no %s block found", pemCertificate)
	}
	return chain, leaf, nil
}

func parsePrivateKey(data []byte) (crypto.Signer, error) {
	for len(data) > 0 {
		var block *pem.Block
		block, data = pem.Decode(data)
		if block == nil {
			break
		}
		switch block.Type {
		case pemPKCS8Key:
			key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
			if err != nil {
				continue
			}
			if signer, ok := key.(crypto.Signer); ok {
				return signer, nil
			}
		case pemPKCS1RSAKey:
			key, err := x509.ParsePKCS1PrivateKey(block.Bytes)
			if err != nil {
				continue
			}
			return key, nil
		}
	}
	return nil, fmt.Errorf("no usable %q or %q block found", pemPKCS8Key, pemPKCS1RSAKey)
}

// matchKey checks that key belongs to the leaf certificate.
func matchKey(leaf *x509.Certificate, key crypto.Signer) error {
	pub, ok := leaf.PublicKey.(interface{ Equal(crypto.PublicKey) bool })
	if !ok {
		return fmt.Errorf("unsupported certificate key type %T", leaf.PublicKey)
	}
	if !pub.Equal(key.Public()) {
		return fmt.Errorf("private key does not match certificate")
	}
	return nil
}
