// Package wailsapp provides CNPJ and NFe Wails bindings.
package wailsapp

import (
	"fmt"

	"github.com/utildesk/utildesk/internal/fiscal"
)

// CompanyDTO is the JSON-safe version of fiscal.Company.
type CompanyDTO struct {
	CNPJ         string `json:"cnpj"`
	LegalName    string `json:"legalName"`
	TradeName    string `json:"tradeName,omitempty"`
	Status       string `json:"status"`
	OpenedAt     string `json:"openedAt,omitempty"`
	MainActivity string `json:"mainActivity,omitempty"`
	Street       string `json:"street,omitempty"`
	Number       string `json:"number,omitempty"`
	District     string `json:"district,omitempty"`
	City         string `json:"city,omitempty"`
	State        string `json:"state,omitempty"`
	ZipCode      string `json:"zipCode,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Email        string `json:"email,omitempty"`
}

// LookupCNPJ validates the check digits locally and queries the public
// registry for company data.
func (a *App) LookupCNPJ(cnpj string) (CompanyDTO, error) {
	company, err := a.cnpj.Lookup(cnpj)
	if err != nil {
		a.logError("fiscal", err.Error())
		return CompanyDTO{}, err
	}
	return companyToDTO(company), nil
}

func companyToDTO(c fiscal.Company) CompanyDTO {
	return CompanyDTO{
		CNPJ:         fiscal.FormatCNPJ(fiscal.DigitsOnly(c.CNPJ)),
		LegalName:    c.LegalName,
		TradeName:    c.TradeName,
		Status:       c.Status,
		OpenedAt:     c.OpenedAt,
		MainActivity: c.MainActivity,
		Street:       c.Street,
		Number:       c.Number,
		District:     c.District,
		City:         c.City,
		State:        c.State,
		ZipCode:      c.ZIP,
		Phone:        c.Phone,
		Email:        c.Email,
	}
}

// ValidateCNPJDigits checks a CNPJ's check digits without any network
// access. Returns an empty string when valid, the problem otherwise.
func (a *App) ValidateCNPJDigits(cnpj string) string {
	if err := fiscal.ValidateCNPJ(cnpj); err != nil {
		return err.Error()
	}
	return ""
}

// FormatCNPJ renders a bare CNPJ with standard punctuation.
func (a *App) FormatCNPJ(cnpj string) string {
	return fiscal.FormatCNPJ(fiscal.DigitsOnly(cnpj))
}

// CertificateSessionDTO reports the loaded e-CNPJ certificate.
type CertificateSessionDTO struct {
	CNPJ          string `json:"cnpj"`
	CNPJFormatted string `json:"cnpjFormatted"`
}

// LoadNfeCertificate opens an A1 PFX certificate and keeps it for
// subsequent NFe queries. The holder CNPJ is read from the subject.
func (a *App) LoadNfeCertificate(pfxPath, password string) (CertificateSessionDTO, error) {
	client, cnpj, err := fiscal.NewNfeClient(pfxPath, password, wailsLogger)
	if err != nil {
		a.logError("fiscal", err.Error())
		return CertificateSessionDTO{}, err
	}

	a.nfeMu.Lock()
	a.nfe = client
	a.nfeCNPJ = cnpj
	a.nfeMu.Unlock()

	a.logInfo("fiscal", fmt.Sprintf("Certificado carregado para o CNPJ %s", fiscal.FormatCNPJ(cnpj)))
	return CertificateSessionDTO{
		CNPJ:          cnpj,
		CNPJFormatted: fiscal.FormatCNPJ(cnpj),
	}, nil
}

// NfeResultDTO summarizes a fetched NFe and the generated DANFE.
type NfeResultDTO struct {
	AccessKey     string `json:"accessKey"`
	KeyFormatted  string `json:"keyFormatted"`
	Number        string `json:"number"`
	Series        string `json:"series"`
	IssuedAt      string `json:"issuedAt"`
	EmitterName   string `json:"emitterName"`
	EmitterDoc    string `json:"emitterDoc"`
	ReceiverName  string `json:"receiverName"`
	ReceiverDoc   string `json:"receiverDoc"`
	TotalValue    string `json:"totalValue"`
	Products      int    `json:"products"`
	DanfeHTMLPath string `json:"danfeHtmlPath"`
}

// QueryNfe fetches an NFe by its 44-digit access key using the loaded
// certificate, renders the DANFE to a temporary HTML file and returns
// the summary.
func (a *App) QueryNfe(accessKey string) (NfeResultDTO, error) {
	a.nfeMu.Lock()
	client := a.nfe
	cnpj := a.nfeCNPJ
	a.nfeMu.Unlock()

	if client == nil {
		return NfeResultDTO{}, ErrNoCertificate
	}

	data, err := client.Query(accessKey, cnpj)
	if err != nil {
		a.logError("fiscal", err.Error())
		return NfeResultDTO{}, err
	}

	html, err := fiscal.GenerateDANFE(data)
	if err != nil {
		return NfeResultDTO{}, err
	}
	htmlPath, err := fiscal.SaveDANFEToTemp(html)
	if err != nil {
		return NfeResultDTO{}, err
	}

	return NfeResultDTO{
		AccessKey:     data.AccessKey,
		KeyFormatted:  fiscal.FormatAccessKey(data.AccessKey),
		Number:        data.Number,
		Series:        data.Series,
		IssuedAt:      data.IssuedAt,
		EmitterName:   data.Issuer.Name,
		EmitterDoc:    fiscal.FormatCnpjCpf(data.Issuer.CnpjCpf),
		ReceiverName:  data.Recipient.Name,
		ReceiverDoc:   fiscal.FormatCnpjCpf(data.Recipient.CnpjCpf),
		TotalValue:    data.Totals.TotalNfe,
		Products:      len(data.Products),
		DanfeHTMLPath: htmlPath,
	}, nil
}

// DownloadDanfe copies a generated DANFE into the user's Downloads
// folder and returns the final path.
func (a *App) DownloadDanfe(sourcePath, accessKey string) (string, error) {
	path, err := fiscal.DownloadDANFE(sourcePath, accessKey)
	if err != nil {
		a.logError("fiscal", err.Error())
		return "", err
	}
	a.logInfo("fiscal", fmt.Sprintf("DANFE salvo em %s", path))
	return path, nil
}
