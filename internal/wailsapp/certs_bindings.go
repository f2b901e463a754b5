// Package wailsapp provides certificate inventory Wails bindings.
package wailsapp

import (
	"time"

	"github.com/wailsapp/wails/v2/pkg/runtime"

	"github.com/utildesk/utildesk/internal/certs"
)

// CertificateDTO is the JSON-safe version of certs.Certificate.
type CertificateDTO struct {
	Path       string `json:"path"`
	FileName   string `json:"fileName"`
	Subject    string `json:"subject"`
	Issuer     string `json:"issuer"`
	NotBefore  string `json:"notBefore"`
	NotAfter   string `json:"notAfter"`
	Expired    bool   `json:"expired"`
	Thumbprint string `json:"thumbprint"`
	HasKey     bool   `json:"hasKey"`
	CNPJ       string `json:"cnpj,omitempty"`
}

func certificateToDTO(c certs.Certificate) CertificateDTO {
	return CertificateDTO{
		Path:       c.Path,
		FileName:   c.FileName,
		Subject:    c.Subject,
		Issuer:     c.Issuer,
		NotBefore:  c.NotBefore.Format(time.RFC3339),
		NotAfter:   c.NotAfter.Format(time.RFC3339),
		Expired:    c.Expired,
		Thumbprint: c.Thumbprint,
		HasKey:     c.HasKey,
		CNPJ:       c.CNPJ,
	}
}

// ListCertificates scans the configured certificate directory and
// returns every certificate it can parse, sorted by file name.
func (a *App) ListCertificates() ([]CertificateDTO, error) {
	list, err := a.certs.List()
	if err != nil {
		a.logError("certs", err.Error())
		return nil, err
	}
	dtos := make([]CertificateDTO, 0, len(list))
	for _, c := range list {
		dtos = append(dtos, certificateToDTO(c))
	}
	return dtos, nil
}

// AddCertificatePassword registers a password candidate for PFX
// parsing. Passwords are kept in memory only.
func (a *App) AddCertificatePassword(password string) {
	a.certs.AddPassword(password)
}

// SelectCertificateFile opens a native picker filtered to certificate
// files, for loading an e-CNPJ outside the inventory directory.
func (a *App) SelectCertificateFile() (string, error) {
	return runtime.OpenFileDialog(a.ctx, runtime.OpenDialogOptions{
		Title: "Selecione o certificado digital",
		Filters: []runtime.FileFilter{
			{DisplayName: "Certificados (*.pfx;*.p12)", Pattern: "*.pfx;*.p12"},
		},
	})
}
