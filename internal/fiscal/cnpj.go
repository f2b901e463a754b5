// Package fiscal implements the Brazilian fiscal lookups: CNPJ company
// registry queries and NFe access-key consultation against SEFAZ, with
// DANFE rendering for the result.
package fiscal

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/utildesk/utildesk/internal/constants"
	"github.com/utildesk/utildesk/internal/logging"
)

const cnpjAPIBase = "https://brasilapi.com.br/api/cnpj/v1"

// Company is the registry record returned by a CNPJ lookup.
type Company struct {
	CNPJ         string `json:"cnpj"`
	LegalName    string `json:"razao_social"`
	TradeName    string `json:"nome_fantasia"`
	Status       string `json:"descricao_situacao_cadastral"`
	OpenedAt     string `json:"data_inicio_atividade"`
	LegalNature  string `json:"natureza_juridica"`
	MainActivity string `json:"cnae_fiscal_descricao"`
	Street       string `json:"logradouro"`
	Number       string `json:"numero"`
	District     string `json:"bairro"`
	City         string `json:"municipio"`
	State        string `json:"uf"`
	ZIP          string `json:"cep"`
	Phone        string `json:"ddd_telefone_1"`
	Email        string `json:"email"`
}

// CNPJClient queries the public company registry.
type CNPJClient struct {
	http   *retryablehttp.Client
	base   string
	logger *logging.Logger
}

// NewCNPJClient builds a lookup client with retry and the standard
// request timeout. logger may be nil.
func NewCNPJClient(logger *logging.Logger) *CNPJClient {
	client := retryablehttp.NewClient()
	client.RetryMax = constants.LookupRetryMax
	client.RetryWaitMin = constants.LookupRetryWaitMin
	client.RetryWaitMax = constants.LookupRetryWaitMax
	client.HTTPClient.Timeout = constants.LookupTimeout
	client.Logger = nil

	return &CNPJClient{http: client, base: cnpjAPIBase, logger: logger}
}

// SetBaseURL overrides the registry endpoint, for tests.
func (c *CNPJClient) SetBaseURL(base string) { c.base = strings.TrimRight(base, "/") }

// Lookup fetches the company record for a CNPJ. The input may be
// formatted (12.345.678/0001-90) or bare digits.
func (c *CNPJClient) Lookup(cnpj string) (Company, error) {
	digits := DigitsOnly(cnpj)
	if err := ValidateCNPJ(digits); err != nil {
		return Company{}, err
	}

	url := fmt.Sprintf("%s/%s", c.base, digits)
	start := time.Now()
	resp, err := c.http.Get(url)
	if err != nil {
		return Company{}, fmt.Errorf("falha na consulta do CNPJ: %w", err)
	}
	defer resp.Body.Close()

	if c.logger != nil {
		c.logger.Debug().Str("cnpj", digits).Dur("elapsed", time.Since(start)).
			Int("status", resp.StatusCode).Msg("cnpj lookup")
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return Company{}, fmt.Errorf("CNPJ não encontrado: %s", FormatCNPJ(digits))
	default:
		return Company{}, fmt.Errorf("consulta retornou status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Company{}, fmt.Errorf("falha ao ler resposta: %w", err)
	}

	var company Company
	if err := json.Unmarshal(body, &company); err != nil {
		return Company{}, fmt.Errorf("resposta inválida do registro: %w", err)
	}
	return company, nil
}

// DigitsOnly strips every non-digit rune.
func DigitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidateCNPJ checks length and both mod-11 verification digits.
func ValidateCNPJ(cnpj string) error {
	digits := DigitsOnly(cnpj)
	if len(digits) != 14 {
		return fmt.Errorf("CNPJ deve conter 14 dígitos")
	}
	allEqual := true
	for i := 1; i < len(digits); i++ {
		if digits[i] != digits[0] {
			allEqual = false
			break
		}
	}
	if allEqual {
		return fmt.Errorf("CNPJ inválido")
	}

	if cnpjCheckDigit(digits[:12]) != int(digits[12]-'0') ||
		cnpjCheckDigit(digits[:13]) != int(digits[13]-'0') {
		return fmt.Errorf("CNPJ inválido: dígito verificador não confere")
	}
	return nil
}

// cnpjCheckDigit computes the mod-11 verifier over the given prefix
// using the standard descending weight cycle 2..9.
func cnpjCheckDigit(prefix string) int {
	weight := 2
	sum := 0
	for i := len(prefix) - 1; i >= 0; i-- {
		sum += int(prefix[i]-'0') * weight
		weight++
		if weight > 9 {
			weight = 2
		}
	}
	rest := sum % 11
	if rest < 2 {
		return 0
	}
	return 11 - rest
}

// FormatCNPJ renders bare digits as 12.345.678/0001-90. Other lengths
// pass through unchanged.
func FormatCNPJ(cnpj string) string {
	digits := DigitsOnly(cnpj)
	if len(digits) != 14 {
		return cnpj
	}
	return fmt.Sprintf("%s.%s.%s/%s-%s",
		digits[0:2], digits[2:5], digits[5:8], digits[8:12], digits[12:14])
}

// FormatCPF renders bare digits as 123.456.789-01.
func FormatCPF(cpf string) string {
	digits := DigitsOnly(cpf)
	if len(digits) != 11 {
		return cpf
	}
	return fmt.Sprintf("%s.%s.%s-%s", digits[0:3], digits[3:6], digits[6:9], digits[9:11])
}
