package fiscal

import (
	"bytes"
	"compress/gzip"
	"encoding/base64"
	"fmt"
	"os"
	"strings"
	"testing"
)

const sampleNfeXML = `<nfeProc xmlns="http://www.portalfiscal.inf.br/nfe">
<NFe><infNFe>
<ide><nNF>12345</nNF><serie>1</serie><dhEmi>2026-03-15T10:30:00-03:00</dhEmi></ide>
<emit><CNPJ>11222333000181</CNPJ><xNome>ACME COMERCIO LTDA</xNome><IE>123456789</IE>
<enderEmit><xLgr>Rua das Flores</xLgr><nro>100</nro><xBairro>Centro</xBairro><xMun>Sao Paulo</xMun><UF>SP</UF><CEP>01000000</CEP></enderEmit></emit>
<dest><CPF>12345678901</CPF><xNome>Fulano de Tal</xNome><IE></IE>
<enderDest><xLgr>Av Brasil</xLgr><nro>200</nro><xBairro>Jardim</xBairro><xMun>Campinas</xMun><UF>SP</UF><CEP>13000000</CEP></enderDest></dest>
<det nItem="1"><prod><cProd>P001</cProd><xProd>Parafuso</xProd><NCM>73181500</NCM><CFOP>5102</CFOP><uCom>UN</uCom><qCom>10.0000</qCom><vUnCom>1.50</vUnCom><vProd>15.00</vProd></prod></det>
<det nItem="2"><prod><cProd>P002</cProd><xProd>Porca</xProd><NCM>73181600</NCM><CFOP>5102</CFOP><uCom>UN</uCom><qCom>20.0000</qCom><vUnCom>0.50</vUnCom><vProd>10.00</vProd></prod></det>
<total><ICMSTot><vBC>25.00</vBC><vICMS>4.50</vICMS><vBCST>0.00</vBCST><vST>0.00</vST><vFrete>0.00</vFrete><vSeg>0.00</vSeg><vDesc>0.00</vDesc><vOutro>0.00</vOutro><vIPI>0.00</vIPI><vProd>25.00</vProd><vNF>25.00</vNF></ICMSTot></total>
</infNFe></NFe>
<protNFe><infProt><nProt>135260000000001</nProt><dhRecbto>2026-03-15T10:31:00-03:00</dhRecbto></infProt></protNFe>
</nfeProc>`

const testAccessKey = "35260311222333000181550010000123451000123456"

func gzipB64(t *testing.T, s string) string {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write([]byte(s)); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func sefazEnvelope(cStat, motivo, docZips string) string {
	return fmt.Sprintf(`<soap:Envelope><soap:Body><retDistDFeInt>
<cStat>%s</cStat><xMotivo>%s</xMotivo>
<loteDistDFeInt>%s</loteDistDFeInt>
</retDistDFeInt></soap:Body></soap:Envelope>`, cStat, motivo, docZips)
}

func TestValidateAccessKey(t *testing.T) {
	if err := ValidateAccessKey(testAccessKey); err != nil {
		t.Errorf("Valid key rejected: %v", err)
	}
	for _, bad := range []string{
		"",
		"123",
		strings.Repeat("1", 43),
		strings.Repeat("1", 45),
		strings.Repeat("1", 43) + "x",
	} {
		if err := ValidateAccessKey(bad); err == nil {
			t.Errorf("ValidateAccessKey(%q) should fail", bad)
		}
	}
}

func TestFindCNPJInSubject(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"ACME COMERCIO LTDA:11222333000181", "11222333000181"},
		{"11222333000181", "11222333000181"},
		{"CN sem cnpj nenhum", ""},
		{"prefixo 11222333000181 sufixo", "11222333000181"},
	}
	for _, c := range cases {
		if got := FindCNPJInSubject(c.in); got != c.want {
			t.Errorf("FindCNPJInSubject(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestBuildSOAPEnvelope(t *testing.T) {
	env := BuildSOAPEnvelope(testAccessKey, "11222333000181", 35)
	for _, want := range []string{
		"<cUF>35</cUF>",
		"<cUFAutor>35</cUFAutor>",
		"<CNPJ>11222333000181</CNPJ>",
		"<chNFe>" + testAccessKey + "</chNFe>",
		"<tpAmb>1</tpAmb>",
	} {
		if !strings.Contains(env, want) {
			t.Errorf("Envelope missing %s", want)
		}
	}
}

func TestParseSefazResponse_Success(t *testing.T) {
	docZip := fmt.Sprintf(`<docZip NSU="1" schema="procNFe_v4.00.xsd">%s</docZip>`,
		gzipB64(t, sampleNfeXML))
	envelope := sefazEnvelope("138", "Documento localizado", docZip)

	data, err := ParseSefazResponse(envelope, testAccessKey)
	if err != nil {
		t.Fatalf("ParseSefazResponse failed: %v", err)
	}

	if data.Number != "12345" || data.Series != "1" {
		t.Errorf("Unexpected header: %+v", data)
	}
	if data.Issuer.Name != "ACME COMERCIO LTDA" || data.Issuer.CnpjCpf != "11222333000181" {
		t.Errorf("Unexpected issuer: %+v", data.Issuer)
	}
	if data.Recipient.CnpjCpf != "12345678901" {
		t.Errorf("Recipient CPF fallback failed: %+v", data.Recipient)
	}
	if len(data.Products) != 2 || data.Products[1].Description != "Porca" {
		t.Errorf("Unexpected products: %+v", data.Products)
	}
	if data.Totals.TotalNfe != "25.00" {
		t.Errorf("Unexpected totals: %+v", data.Totals)
	}
	if !strings.Contains(data.Protocol, "135260000000001") {
		t.Errorf("Unexpected protocol %q", data.Protocol)
	}
}

func TestParseSefazResponse_Rejection(t *testing.T) {
	envelope := sefazEnvelope("137", "Nenhum documento localizado", "")
	_, err := ParseSefazResponse(envelope, testAccessKey)
	if err == nil || !strings.Contains(err.Error(), "137") {
		t.Errorf("Expected rejection error with cStat, got %v", err)
	}
}

func TestParseSefazResponse_NoDocuments(t *testing.T) {
	envelope := sefazEnvelope("138", "Documento localizado", "")
	if _, err := ParseSefazResponse(envelope, testAccessKey); err == nil {
		t.Error("Expected error with no docZip elements")
	}
}

func TestParseSefazResponse_BadBase64(t *testing.T) {
	envelope := sefazEnvelope("138", "ok", `<docZip schema="procNFe">not base64!!</docZip>`)
	if _, err := ParseSefazResponse(envelope, testAccessKey); err == nil {
		t.Error("Expected base64 decode error")
	}
}

func TestDecompressDocZip_Formats(t *testing.T) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	zw.Write([]byte("<xml/>"))
	zw.Close()

	out, err := decompressDocZip(buf.Bytes())
	if err != nil || out != "<xml/>" {
		t.Errorf("gzip decompress = %q, %v", out, err)
	}

	if _, err := decompressDocZip([]byte("garbage")); err == nil {
		t.Error("Expected error for undecodable payload")
	}
}

func TestGenerateDANFE(t *testing.T) {
	data := parseNfeXML(sampleNfeXML, testAccessKey)
	html, err := GenerateDANFE(data)
	if err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{
		"ACME COMERCIO LTDA",
		"11.222.333/0001-81",
		"123.456.789-01",
		"15/03/2026",
		"Parafuso",
		"R$ 25.00",
		FormatAccessKey(testAccessKey),
	} {
		if !strings.Contains(html, want) {
			t.Errorf("DANFE missing %q", want)
		}
	}
}

func TestFormatAccessKey(t *testing.T) {
	got := FormatAccessKey("12345678")
	if got != "1234 5678" {
		t.Errorf("FormatAccessKey = %q", got)
	}
}

func TestSaveDANFEToTemp(t *testing.T) {
	path, err := SaveDANFEToTemp("<html></html>")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(path)
	if !strings.HasSuffix(path, ".html") {
		t.Errorf("Expected .html temp file, got %q", path)
	}
}
