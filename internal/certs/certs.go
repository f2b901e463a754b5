// Package certs inventories the digital certificates (e-CNPJ A1 PFX
// files and PEM certificates) found in a configured directory, for the
// certificate picker in the NFe view.
package certs

import (
	"crypto/sha1"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"software.sslmate.com/src/go-pkcs12"

	"github.com/utildesk/utildesk/internal/logging"
)

// Certificate is one inventoried certificate.
type Certificate struct {
	Path       string
	FileName   string
	Subject    string
	Issuer     string
	NotBefore  time.Time
	NotAfter   time.Time
	Expired    bool
	Thumbprint string // SHA-1, colon separated
	HasKey     bool   // true for PFX files with a private key
	CNPJ       string // extracted from the subject when present
}

// Inventory scans and parses certificate files in a directory.
type Inventory struct {
	dir    string
	logger *logging.Logger
	// password candidates tried for PFX files, in order
	passwords []string
}

// NewInventory creates an inventory over dir. logger may be nil. PFX
// files are tried with an empty password by default; AddPassword adds
// candidates.
func NewInventory(dir string, logger *logging.Logger) *Inventory {
	return &Inventory{dir: dir, logger: logger, passwords: []string{""}}
}

// AddPassword registers a password to try when parsing PFX files.
func (inv *Inventory) AddPassword(password string) {
	inv.passwords = append(inv.passwords, password)
}

// List parses every .pfx/.p12/.pem/.crt/.cer file in the directory.
// Unreadable or unparsable files are skipped with a log entry; a
// protected PFX whose password is unknown still appears with its file
// name so the user can supply the password later.
func (inv *Inventory) List() ([]Certificate, error) {
	entries, err := os.ReadDir(inv.dir)
	if err != nil {
		return nil, fmt.Errorf("falha ao acessar pasta de certificados: %w", err)
	}

	var certs []Certificate
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(inv.dir, entry.Name())
		ext := strings.ToLower(filepath.Ext(entry.Name()))

		var cert Certificate
		var parseErr error
		switch ext {
		case ".pfx", ".p12":
			cert, parseErr = inv.parsePFX(path)
		case ".pem", ".crt", ".cer":
			cert, parseErr = parsePEM(path)
		default:
			continue
		}

		if parseErr != nil {
			if inv.logger != nil {
				inv.logger.Warn().Err(parseErr).Str("file", entry.Name()).Msg("skipping certificate")
			}
			continue
		}
		cert.FileName = entry.Name()
		certs = append(certs, cert)
	}

	sort.Slice(certs, func(i, j int) bool {
		return strings.ToLower(certs[i].FileName) < strings.ToLower(certs[j].FileName)
	})
	return certs, nil
}

// FindByThumbprint locates a certificate by its SHA-1 thumbprint,
// case-insensitively.
func (inv *Inventory) FindByThumbprint(thumbprint string) (Certificate, error) {
	certs, err := inv.List()
	if err != nil {
		return Certificate{}, err
	}
	for _, c := range certs {
		if strings.EqualFold(c.Thumbprint, thumbprint) {
			return c, nil
		}
	}
	return Certificate{}, fmt.Errorf("certificado não encontrado com o thumbprint informado")
}

func (inv *Inventory) parsePFX(path string) (Certificate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Certificate{}, err
	}

	var lastErr error
	for _, password := range inv.passwords {
		_, cert, _, err := pkcs12.DecodeChain(data, password)
		if err != nil {
			lastErr = err
			continue
		}
		out := describe(cert)
		out.Path = path
		out.HasKey = true
		return out, nil
	}
	return Certificate{}, fmt.Errorf("falha ao decodificar PFX: %w", lastErr)
}

func parsePEM(path string) (Certificate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Certificate{}, err
	}

	for {
		var block *pem.Block
		block, data = pem.Decode(data)
		if block == nil {
			break
		}
		if block.Type != "CERTIFICATE" {
			continue
		}
		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return Certificate{}, err
		}
		out := describe(cert)
		out.Path = path
		return out, nil
	}

	// Bare DER .cer files carry no PEM armor.
	cert, err := x509.ParseCertificate(data)
	if err != nil {
		return Certificate{}, fmt.Errorf("nenhum certificado no arquivo")
	}
	out := describe(cert)
	out.Path = path
	return out, nil
}

func describe(cert *x509.Certificate) Certificate {
	return Certificate{
		Subject:    cert.Subject.String(),
		Issuer:     cert.Issuer.String(),
		NotBefore:  cert.NotBefore,
		NotAfter:   cert.NotAfter,
		Expired:    time.Now().After(cert.NotAfter),
		Thumbprint: Thumbprint(cert.Raw),
		CNPJ:       cnpjFromSubject(cert.Subject.CommonName),
	}
}

// Thumbprint renders the SHA-1 digest of DER bytes as colon-separated
// uppercase hex, matching the format certificate managers display.
func Thumbprint(der []byte) string {
	sum := sha1.Sum(der)
	parts := make([]string, len(sum))
	for i, b := range sum {
		parts[i] = fmt.Sprintf("%02X", b)
	}
	return strings.Join(parts, ":")
}

// cnpjFromSubject pulls a 14-digit CNPJ out of an e-CNPJ common name
// such as "EMPRESA LTDA:12345678000190".
func cnpjFromSubject(cn string) string {
	for _, part := range strings.Split(cn, ":") {
		trimmed := strings.TrimSpace(part)
		if len(trimmed) != 14 {
			continue
		}
		allDigits := true
		for _, r := range trimmed {
			if r < '0' || r > '9' {
				allDigits = false
				break
			}
		}
		if allDigits {
			return trimmed
		}
	}
	return ""
}
