package fiscal

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"

	"github.com/utildesk/utildesk/internal/constants"
)

// danfeTemplate renders the auxiliary document for a parsed note. It is
// a visualization aid only and carries no fiscal validity.
var danfeTemplate = template.Must(template.New("danfe").Funcs(template.FuncMap{
	"fmtDoc":  FormatCnpjCpf,
	"fmtDate": formatIssueDate,
	"fmtKey":  FormatAccessKey,
}).Parse(`<!DOCTYPE html>
<html lang="pt-BR">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>DANFE - NF-e {{.Number}}</title>
    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }
        body { font-family: Arial, Helvetica, sans-serif; max-width: 900px; margin: 0 auto; padding: 20px; color: #1a1a1a; background: #fff; }
        .header { text-align: center; border: 2px solid #000; padding: 15px; margin-bottom: 2px; }
        .header h1 { font-size: 22px; margin-bottom: 4px; }
        .header .subtitle { font-size: 12px; color: #555; }
        .key-box { border: 2px solid #000; padding: 10px; text-align: center; margin-bottom: 2px; }
        .key-box .label { font-size: 10px; color: #555; text-transform: uppercase; }
        .key-box .key { font-family: 'Courier New', monospace; font-size: 15px; letter-spacing: 1px; margin-top: 4px; }
        .section { border: 2px solid #000; padding: 10px; margin-bottom: 2px; }
        .section-title { font-size: 11px; text-transform: uppercase; color: #555; border-bottom: 1px solid #ccc; padding-bottom: 3px; margin-bottom: 8px; font-weight: bold; }
        .field-row { display: flex; gap: 15px; margin-bottom: 6px; flex-wrap: wrap; }
        .field { flex: 1; min-width: 120px; }
        .field .label { font-size: 9px; text-transform: uppercase; color: #777; }
        .field .value { font-size: 12px; font-weight: 500; }
        table { width: 100%; border-collapse: collapse; }
        th { background: #f0f0f0; font-size: 10px; text-transform: uppercase; padding: 5px 6px; border: 1px solid #999; text-align: left; }
        td { font-size: 11px; padding: 4px 6px; border: 1px solid #ccc; }
        .num { text-align: right; }
        .totals-grid { display: grid; grid-template-columns: repeat(4, 1fr); gap: 2px; }
        .total-item { padding: 6px; border: 1px solid #ccc; }
        .total-item .label { font-size: 9px; text-transform: uppercase; color: #777; }
        .total-item .value { font-size: 13px; font-weight: bold; }
        .total-highlight { background: #f5f5f5; }
        .total-highlight .value { font-size: 16px; color: #000; }
        .protocol { border: 2px solid #000; padding: 8px; margin-bottom: 2px; text-align: center; font-size: 11px; }
        .footer { text-align: center; margin-top: 15px; font-size: 10px; color: #999; border-top: 1px solid #ddd; padding-top: 10px; }
        @media print { body { padding: 10px; } }
    </style>
</head>
<body>
    <div class="header">
        <h1>DANFE</h1>
        <div class="subtitle">Documento Auxiliar da Nota Fiscal Eletr&ocirc;nica</div>
        <div style="margin-top: 8px; font-size: 14px;">
            <strong>NF-e N.&ordm; {{.Number}}</strong> &mdash; S&eacute;rie {{.Series}} &mdash; {{fmtDate .IssuedAt}}
        </div>
    </div>

    <div class="key-box">
        <div class="label">Chave de Acesso</div>
        <div class="key">{{fmtKey .AccessKey}}</div>
    </div>

    <div class="protocol">
        <strong>Protocolo de Autoriza&ccedil;&atilde;o:</strong> {{.Protocol}}
    </div>

    <div class="section">
        <div class="section-title">Emitente</div>
        <div class="field-row">
            <div class="field" style="flex:2">
                <div class="label">Raz&atilde;o Social</div>
                <div class="value">{{.Issuer.Name}}</div>
            </div>
            <div class="field">
                <div class="label">CNPJ/CPF</div>
                <div class="value">{{fmtDoc .Issuer.CnpjCpf}}</div>
            </div>
            <div class="field">
                <div class="label">IE</div>
                <div class="value">{{.Issuer.IE}}</div>
            </div>
        </div>
        <div class="field-row">
            <div class="field" style="flex:3">
                <div class="label">Endere&ccedil;o</div>
                <div class="value">{{.Issuer.Address}}</div>
            </div>
        </div>
    </div>

    <div class="section">
        <div class="section-title">Destinat&aacute;rio</div>
        <div class="field-row">
            <div class="field" style="flex:2">
                <div class="label">Raz&atilde;o Social</div>
                <div class="value">{{.Recipient.Name}}</div>
            </div>
            <div class="field">
                <div class="label">CNPJ/CPF</div>
                <div class="value">{{fmtDoc .Recipient.CnpjCpf}}</div>
            </div>
            <div class="field">
                <div class="label">IE</div>
                <div class="value">{{.Recipient.IE}}</div>
            </div>
        </div>
        <div class="field-row">
            <div class="field" style="flex:3">
                <div class="label">Endere&ccedil;o</div>
                <div class="value">{{.Recipient.Address}}</div>
            </div>
        </div>
    </div>

    <div class="section">
        <div class="section-title">Produtos / Servi&ccedil;os</div>
        <table>
            <thead>
                <tr>
                    <th style="width:30px">#</th>
                    <th style="width:70px">C&oacute;digo</th>
                    <th>Descri&ccedil;&atilde;o</th>
                    <th style="width:70px">NCM</th>
                    <th style="width:50px">CFOP</th>
                    <th style="width:40px">Un.</th>
                    <th style="width:60px" class="num">Qtd.</th>
                    <th style="width:70px" class="num">Vl. Unit.</th>
                    <th style="width:80px" class="num">Vl. Total</th>
                </tr>
            </thead>
            <tbody>
                {{range .Products}}<tr>
                    <td style="text-align:center">{{.Num}}</td>
                    <td>{{.Code}}</td>
                    <td>{{.Description}}</td>
                    <td>{{.NCM}}</td>
                    <td>{{.CFOP}}</td>
                    <td>{{.Unit}}</td>
                    <td class="num">{{.Qty}}</td>
                    <td class="num">{{.UnitPrice}}</td>
                    <td class="num">{{.Total}}</td>
                </tr>{{end}}
            </tbody>
        </table>
    </div>

    <div class="section">
        <div class="section-title">Totais</div>
        <div class="totals-grid">
            <div class="total-item"><div class="label">BC ICMS</div><div class="value">{{.Totals.BcICMS}}</div></div>
            <div class="total-item"><div class="label">ICMS</div><div class="value">{{.Totals.ICMS}}</div></div>
            <div class="total-item"><div class="label">BC ICMS ST</div><div class="value">{{.Totals.BcICMSST}}</div></div>
            <div class="total-item"><div class="label">ICMS ST</div><div class="value">{{.Totals.ICMSST}}</div></div>
            <div class="total-item"><div class="label">Frete</div><div class="value">{{.Totals.Freight}}</div></div>
            <div class="total-item"><div class="label">Seguro</div><div class="value">{{.Totals.Insurance}}</div></div>
            <div class="total-item"><div class="label">Desconto</div><div class="value">{{.Totals.Discount}}</div></div>
            <div class="total-item"><div class="label">Outras Desp.</div><div class="value">{{.Totals.Other}}</div></div>
            <div class="total-item"><div class="label">IPI</div><div class="value">{{.Totals.IPI}}</div></div>
            <div class="total-item"><div class="label">Total Produtos</div><div class="value">{{.Totals.TotalProducts}}</div></div>
            <div class="total-item total-highlight" style="grid-column: span 2;">
                <div class="label">Valor Total da NF-e</div>
                <div class="value">R$ {{.Totals.TotalNfe}}</div>
            </div>
        </div>
    </div>

    <div class="footer">
        Gerado por UtilDesk &mdash; Documento auxiliar para visualiza&ccedil;&atilde;o. N&atilde;o possui valor fiscal.
    </div>
</body>
</html>`))

// GenerateDANFE renders the note as a printable HTML page.
func GenerateDANFE(data NfeData) (string, error) {
	var b strings.Builder
	if err := danfeTemplate.Execute(&b, data); err != nil {
		return "", fmt.Errorf("falha ao gerar DANFE: %w", err)
	}
	return b.String(), nil
}

// SaveDANFEToTemp writes the rendered HTML to a temp file and returns
// its path, ready to open in the default browser.
func SaveDANFEToTemp(html string) (string, error) {
	f, err := os.CreateTemp("", "danfe_*.html")
	if err != nil {
		return "", fmt.Errorf("falha ao criar arquivo DANFE: %w", err)
	}
	defer f.Close()
	if _, err := f.WriteString(html); err != nil {
		return "", fmt.Errorf("falha ao escrever arquivo DANFE: %w", err)
	}
	return f.Name(), nil
}

// DownloadDANFE copies a rendered DANFE into the user's Downloads
// folder, named after the access key prefix.
func DownloadDANFE(sourcePath, accessKey string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("não foi possível localizar a pasta do usuário")
	}
	downloads := filepath.Join(home, "Downloads")
	if err := os.MkdirAll(downloads, constants.DirPermission); err != nil {
		return "", fmt.Errorf("falha ao criar pasta Downloads: %w", err)
	}

	prefix := accessKey
	if len(prefix) > 20 {
		prefix = prefix[:20]
	}
	dest := filepath.Join(downloads, fmt.Sprintf("DANFE_%s.html", prefix))

	data, err := os.ReadFile(sourcePath)
	if err != nil {
		return "", fmt.Errorf("falha ao salvar arquivo: %w", err)
	}
	if err := os.WriteFile(dest, data, constants.FilePermission); err != nil {
		return "", fmt.Errorf("falha ao salvar arquivo: %w", err)
	}
	return dest, nil
}

// FormatAccessKey groups the 44 digits in blocks of four for display.
func FormatAccessKey(key string) string {
	var b strings.Builder
	for i, r := range key {
		if i > 0 && i%4 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// FormatCnpjCpf formats a bare CNPJ or CPF for display; other lengths
// pass through.
func FormatCnpjCpf(value string) string {
	switch len(value) {
	case 14:
		return FormatCNPJ(value)
	case 11:
		return FormatCPF(value)
	}
	return value
}

// formatIssueDate converts an ISO dhEmi timestamp to dd/mm/yyyy.
func formatIssueDate(iso string) string {
	if len(iso) < 10 {
		return iso
	}
	parts := strings.Split(iso[:10], "-")
	if len(parts) != 3 {
		return iso
	}
	return parts[2] + "/" + parts[1] + "/" + parts[0]
}
