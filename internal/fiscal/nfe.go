package fiscal

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"compress/zlib"
	"crypto/tls"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"software.sslmate.com/src/go-pkcs12"

	"github.com/utildesk/utildesk/internal/logging"
)

const (
	sefazEndpoint = "https://www1.nfe.fazenda.gov.br/NFeDistribuicaoDFe/NFeDistribuicaoDFe.asmx"
	sefazTimeout  = 30 * time.Second

	// cStat code for "document located" in the distribution response.
	cStatFound = "138"
)

// NfeParty identifies the issuer or recipient of a fiscal note.
type NfeParty struct {
	Name    string
	CnpjCpf string
	IE      string
	Address string
}

// NfeProduct is one line item of the note.
type NfeProduct struct {
	Num         int
	Code        string
	Description string
	NCM         string
	CFOP        string
	Unit        string
	Qty         string
	UnitPrice   string
	Total       string
}

// NfeTotals carries the ICMSTot aggregate values as decimal strings.
type NfeTotals struct {
	BcICMS        string
	ICMS          string
	BcICMSST      string
	ICMSST        string
	Freight       string
	Insurance     string
	Discount      string
	Other         string
	IPI           string
	TotalProducts string
	TotalNfe      string
}

// NfeData is a parsed fiscal note.
type NfeData struct {
	AccessKey string
	Number    string
	Series    string
	IssuedAt  string
	Issuer    NfeParty
	Recipient NfeParty
	Products  []NfeProduct
	Totals    NfeTotals
	Protocol  string
}

// NfeClient consults SEFAZ with a client certificate (e-CNPJ A1).
type NfeClient struct {
	endpoint string
	logger   *logging.Logger
	client   *http.Client
}

// NewNfeClient loads the PFX certificate file and prepares a mutual-TLS
// client. The CNPJ embedded in the certificate subject identifies the
// interested party in the query.
func NewNfeClient(pfxPath, password string, logger *logging.Logger) (*NfeClient, string, error) {
	pfxData, err := os.ReadFile(pfxPath)
	if err != nil {
		return nil, "", fmt.Errorf("falha ao ler certificado: %w", err)
	}

	key, cert, caCerts, err := pkcs12.DecodeChain(pfxData, password)
	if err != nil {
		return nil, "", fmt.Errorf("falha ao decodificar certificado PFX: %w", err)
	}

	tlsCert := tls.Certificate{
		Certificate: [][]byte{cert.Raw},
		PrivateKey:  key,
	}
	for _, ca := range caCerts {
		tlsCert.Certificate = append(tlsCert.Certificate, ca.Raw)
	}

	cnpj := FindCNPJInSubject(cert.Subject.CommonName)
	if cnpj == "" {
		return nil, "", fmt.Errorf("não foi possível extrair o CNPJ do certificado selecionado; verifique se é um e-CNPJ (A1)")
	}

	client := &http.Client{
		Timeout: sefazTimeout,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{
				Certificates: []tls.Certificate{tlsCert},
				MinVersion:   tls.VersionTLS12,
			},
		},
	}

	return &NfeClient{endpoint: sefazEndpoint, logger: logger, client: client}, cnpj, nil
}

// SetEndpoint overrides the SEFAZ URL, for tests.
func (c *NfeClient) SetEndpoint(url string) { c.endpoint = url }

// Query fetches and parses the note identified by accessKey on behalf
// of the certificate's CNPJ. Production environment only.
func (c *NfeClient) Query(accessKey, cnpj string) (NfeData, error) {
	if err := ValidateAccessKey(accessKey); err != nil {
		return NfeData{}, err
	}
	ufCode, err := strconv.Atoi(accessKey[:2])
	if err != nil {
		return NfeData{}, fmt.Errorf("código UF inválido na chave de acesso")
	}

	envelope := BuildSOAPEnvelope(accessKey, cnpj, ufCode)
	req, err := http.NewRequest(http.MethodPost, c.endpoint, strings.NewReader(envelope))
	if err != nil {
		return NfeData{}, err
	}
	req.Header.Set("Content-Type", "application/soap+xml; charset=utf-8")

	resp, err := c.client.Do(req)
	if err != nil {
		return NfeData{}, fmt.Errorf("falha na comunicação com SEFAZ: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return NfeData{}, fmt.Errorf("falha ao ler resposta: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		preview := string(body)
		if len(preview) > 500 {
			preview = preview[:500]
		}
		return NfeData{}, fmt.Errorf("SEFAZ retornou status %d: %s", resp.StatusCode, preview)
	}

	if c.logger != nil {
		c.logger.Debug().Str("chave", accessKey).Int("bytes", len(body)).Msg("sefaz response")
	}
	return ParseSefazResponse(string(body), accessKey)
}

// ValidateAccessKey requires exactly 44 numeric digits.
func ValidateAccessKey(key string) error {
	if len(key) != 44 {
		return fmt.Errorf("chave de acesso deve conter exatamente 44 dígitos numéricos")
	}
	for _, r := range key {
		if r < '0' || r > '9' {
			return fmt.Errorf("chave de acesso deve conter exatamente 44 dígitos numéricos")
		}
	}
	return nil
}

// FindCNPJInSubject extracts a 14-digit CNPJ from a certificate subject
// string such as "EMPRESA LTDA:12345678000190".
func FindCNPJInSubject(s string) string {
	for _, part := range strings.Split(s, ":") {
		trimmed := strings.TrimSpace(part)
		if len(trimmed) == 14 && DigitsOnly(trimmed) == trimmed {
			return trimmed
		}
	}
	// Any contiguous 14-digit run.
	var run strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			run.WriteRune(r)
			continue
		}
		if run.Len() == 14 {
			return run.String()
		}
		run.Reset()
	}
	if run.Len() == 14 {
		return run.String()
	}
	return ""
}

// BuildSOAPEnvelope assembles the NFeDistribuicaoDFe consChNFe request.
func BuildSOAPEnvelope(accessKey, cnpj string, ufCode int) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<soap12:Envelope xmlns:soap12="http://www.w3.org/2003/05/soap-envelope"
                 xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance"
                 xmlns:xsd="http://www.w3.org/2001/XMLSchema">
  <soap12:Header>
    <nfeCabecMsg xmlns="http://www.portalfiscal.inf.br/nfe/wsdl/NFeDistribuicaoDFe">
      <cUF>%d</cUF>
      <versaoDados>1.01</versaoDados>
    </nfeCabecMsg>
  </soap12:Header>
  <soap12:Body>
    <nfeDistDFeInteresse xmlns="http://www.portalfiscal.inf.br/nfe/wsdl/NFeDistribuicaoDFe">
      <nfeDadosMsg>
        <distDFeInt xmlns="http://www.portalfiscal.inf.br/nfe" versao="1.01">
          <tpAmb>1</tpAmb>
          <cUFAutor>%d</cUFAutor>
          <CNPJ>%s</CNPJ>
          <consChNFe>
            <chNFe>%s</chNFe>
          </consChNFe>
        </distDFeInt>
      </nfeDadosMsg>
    </nfeDistDFeInteresse>
  </soap12:Body>
</soap12:Envelope>`, ufCode, ufCode, cnpj, accessKey)
}

// ParseSefazResponse checks the distribution status and unpacks the
// first procNFe docZip into a parsed note. The embedded XML carries
// varying namespaces and schema attributes, so tag extraction is
// tolerant by design of the service's observed payloads.
func ParseSefazResponse(soapXML, accessKey string) (NfeData, error) {
	cStat := strings.TrimSpace(extractTag(soapXML, "cStat"))
	xMotivo := strings.TrimSpace(extractTag(soapXML, "xMotivo"))
	if cStat != cStatFound {
		return NfeData{}, fmt.Errorf("SEFAZ: %s - %s", cStat, xMotivo)
	}

	docZips := extractDocZips(soapXML)
	if len(docZips) == 0 {
		return NfeData{}, fmt.Errorf("nenhum documento encontrado na resposta da SEFAZ")
	}

	// Prefer the procNFe document (the full note), else take the first.
	chosen := docZips[0]
	for _, dz := range docZips {
		if strings.Contains(dz.schema, "procNFe") {
			chosen = dz
			break
		}
	}

	compressed, err := base64.StdEncoding.DecodeString(chosen.content)
	if err != nil {
		return NfeData{}, fmt.Errorf("falha ao decodificar base64: %w", err)
	}
	nfeXML, err := decompressDocZip(compressed)
	if err != nil {
		return NfeData{}, err
	}

	return parseNfeXML(nfeXML, accessKey), nil
}

type docZip struct {
	schema  string
	content string
}

func extractTag(xml, tag string) string {
	open := "<" + tag
	closing := "</" + tag + ">"
	start := strings.Index(xml, open)
	if start < 0 {
		return ""
	}
	gt := strings.Index(xml[start:], ">")
	if gt < 0 {
		return ""
	}
	contentStart := start + gt + 1
	end := strings.Index(xml[contentStart:], closing)
	if end < 0 {
		return ""
	}
	return xml[contentStart : contentStart+end]
}

func extractBlock(xml, tag string) string {
	open := "<" + tag
	closing := "</" + tag + ">"
	start := strings.Index(xml, open)
	if start < 0 {
		return ""
	}
	end := strings.Index(xml[start:], closing)
	if end < 0 {
		return ""
	}
	return xml[start : start+end+len(closing)]
}

func extractDocZips(xml string) []docZip {
	var out []docZip
	rest := xml
	for {
		start := strings.Index(rest, "<docZip")
		if start < 0 {
			return out
		}
		rest = rest[start:]

		gt := strings.Index(rest, ">")
		if gt < 0 {
			return out
		}
		head := rest[:gt]

		var schema string
		if i := strings.Index(head, `schema="`); i >= 0 {
			tail := head[i+len(`schema="`):]
			if j := strings.Index(tail, `"`); j >= 0 {
				schema = tail[:j]
			}
		}

		body := rest[gt+1:]
		end := strings.Index(body, "</docZip>")
		if end < 0 {
			return out
		}
		out = append(out, docZip{schema: schema, content: strings.TrimSpace(body[:end])})
		rest = body[end+len("</docZip>"):]
	}
}

// decompressDocZip tries gzip, then raw deflate, then zlib. SEFAZ
// documents gzip, but regional deployments have been seen using the
// bare formats.
func decompressDocZip(data []byte) (string, error) {
	if r, err := gzip.NewReader(bytes.NewReader(data)); err == nil {
		if out, err := io.ReadAll(r); err == nil && len(out) > 0 {
			return string(out), nil
		}
	}

	fr := flate.NewReader(bytes.NewReader(data))
	if out, err := io.ReadAll(fr); err == nil && len(out) > 0 {
		fr.Close()
		return string(out), nil
	}
	fr.Close()

	if r, err := zlib.NewReader(bytes.NewReader(data)); err == nil {
		if out, err := io.ReadAll(r); err == nil && len(out) > 0 {
			return string(out), nil
		}
	}

	return "", fmt.Errorf("falha ao descomprimir documento (tentou gzip, deflate e zlib)")
}

func parseNfeXML(xml, accessKey string) NfeData {
	data := NfeData{AccessKey: accessKey}

	data.Number = extractTag(xml, "nNF")
	data.Series = extractTag(xml, "serie")
	data.IssuedAt = extractTag(xml, "dhEmi")

	if block := extractBlock(xml, "emit"); block != "" {
		data.Issuer = parseParty(block)
	}
	if block := extractBlock(xml, "dest"); block != "" {
		data.Recipient = parseParty(block)
	}

	data.Products = parseProducts(xml)

	if block := extractBlock(xml, "ICMSTot"); block != "" {
		data.Totals = NfeTotals{
			BcICMS:        extractTag(block, "vBC"),
			ICMS:          extractTag(block, "vICMS"),
			BcICMSST:      extractTag(block, "vBCST"),
			ICMSST:        extractTag(block, "vST"),
			Freight:       extractTag(block, "vFrete"),
			Insurance:     extractTag(block, "vSeg"),
			Discount:      extractTag(block, "vDesc"),
			Other:         extractTag(block, "vOutro"),
			IPI:           extractTag(block, "vIPI"),
			TotalProducts: extractTag(block, "vProd"),
			TotalNfe:      extractTag(block, "vNF"),
		}
	}

	if block := extractBlock(xml, "infProt"); block != "" {
		nProt := extractTag(block, "nProt")
		dh := extractTag(block, "dhRecbto")
		data.Protocol = fmt.Sprintf("%s - %s", nProt, dh)
	}

	return data
}

func parseParty(block string) NfeParty {
	cnpjCpf := extractTag(block, "CNPJ")
	if cnpjCpf == "" {
		cnpjCpf = extractTag(block, "CPF")
	}
	return NfeParty{
		Name:    extractTag(block, "xNome"),
		CnpjCpf: cnpjCpf,
		IE:      extractTag(block, "IE"),
		Address: fmt.Sprintf("%s, %s - %s - %s/%s - CEP: %s",
			extractTag(block, "xLgr"),
			extractTag(block, "nro"),
			extractTag(block, "xBairro"),
			extractTag(block, "xMun"),
			extractTag(block, "UF"),
			extractTag(block, "CEP")),
	}
}

func parseProducts(xml string) []NfeProduct {
	var products []NfeProduct
	rest := xml
	itemNum := 1
	for {
		start := strings.Index(rest, "<det ")
		if start < 0 {
			return products
		}
		rest = rest[start:]
		end := strings.Index(rest, "</det>")
		if end < 0 {
			return products
		}
		det := rest[:end+len("</det>")]

		num := itemNum
		if i := strings.Index(det, `nItem="`); i >= 0 {
			tail := det[i+len(`nItem="`):]
			if j := strings.Index(tail, `"`); j >= 0 {
				if parsed, err := strconv.Atoi(tail[:j]); err == nil {
					num = parsed
				}
			}
		}

		if prod := extractBlock(det, "prod"); prod != "" {
			products = append(products, NfeProduct{
				Num:         num,
				Code:        extractTag(prod, "cProd"),
				Description: extractTag(prod, "xProd"),
				NCM:         extractTag(prod, "NCM"),
				CFOP:        extractTag(prod, "CFOP"),
				Unit:        extractTag(prod, "uCom"),
				Qty:         extractTag(prod, "qCom"),
				UnitPrice:   extractTag(prod, "vUnCom"),
				Total:       extractTag(prod, "vProd"),
			})
		}

		rest = rest[end+len("</det>"):]
		itemNum++
	}
}
