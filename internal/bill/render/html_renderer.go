package render

import (
	"bytes"
	"html/template"
)

const workOrderHTMLTemplate = `<!doctype html>
<html lang="ro">
<head>
  <meta charset="utf-8" />
  <title>Comanda de lucru {{.Number}}</title>
  <style>
    :root {
      --accent: {{.Theme.AccentColor}};
      --accent-text: {{.Theme.AccentText}};
      --table-head: {{.Theme.TableHeader}};
    }
    * { box-sizing: border-box; }
    body {
      margin: 0;
      padding: 0;
      font-family: Arial, sans-serif;
      color: #111;
    }
    .copy-section { padding-bottom: 30px; }
    .copy-header {
      text-align: center;
      font-weight: bold;
      font-size: 14px;
      letter-spacing: 2px;
      padding: 8px 0;
      border-bottom: 1px dashed #999;
      margin-bottom: 10px;
    }
    .banner {
      background: var(--accent);
      color: var(--accent-text);
      padding: 25px 0;
      text-align: center;
      font-size: 42px;
      font-weight: bold;
    }
    .row { display: flex; padding: 20px; gap: 20px; }
    .cell { flex: 1; }
    .tag {
      background: var(--accent);
      color: var(--accent-text);
      padding: 4px 10px;
      font-weight: bold;
    }
    .underline {
      margin-top: 5px;
      border-bottom: 2px solid black;
      width: 160px;
    }
    .box {
      flex: 1;
      background: #ededed;
      padding: 10px;
      border: 1px solid #ccc;
    }
    .box-title {
      background: var(--accent);
      color: var(--accent-text);
      padding: 6px;
      font-weight: bold;
      margin-bottom: 10px;
    }
    table { width: 100%; border-collapse: collapse; }
    th {
      background: var(--table-head);
      color: white;
      padding: 6px;
    }
    td { padding: 6px; background: #f7f7f7; }
    .details-table td { background: #eef5ff; }
    .totals {
      padding: 0 20px 20px;
      text-align: right;
      font-size: 16px;
    }
    .signatures { display: flex; padding: 20px; }
    .signature-line {
      width: 250px;
      border-bottom: 1px solid black;
      height: 40px;
      margin-top: 20px;
    }
    @media print {
      .page-break { page-break-before: always; }
    }
  </style>
</head>
<body>
<div class="print-wrapper">
{{range $i, $copy := .Copies}}
{{if $i}}<div class="page-break"></div>{{end}}
<div class="copy-section {{$copy.Class}}">
  <div class="copy-header">{{$copy.Header}}</div>

  <div class="banner">Comanda de lucru</div>

  <div class="row">
    <div class="cell">
      <b class="tag">Numar</b>
      <div class="underline">{{$.Number}}</div>
    </div>
    <div class="cell">
      <b class="tag">Data</b>
      <div class="underline">{{$.Date}}</div>
    </div>
  </div>

  <div class="row" style="gap: 30px;">
    <div class="box">
      <div class="box-title">{{$.CompanyName}}</div>
      <p><b>Sediu:</b> {{$.CompanyAddress}}</p>
      <p><b>Telefon:</b> {{$.CompanyPhone}}</p>
      <p><b>CIF:</b> {{$.CompanyCIF}}</p>
    </div>
    <div class="box">
      <div class="box-title">Client</div>
      {{range $.Client}}<p><b>{{.Key}}:</b> {{.Value}}</p>
      {{end}}
    </div>
  </div>

  <div style="padding: 0 20px;">
    <table>
      <thead>
        <tr><th>Lucrare</th><th>Pret</th><th>Nr. roți</th></tr>
      </thead>
      <tbody>
        {{range $.Services}}
        <tr><td>{{.Name}}</td><td>{{.Price}}</td><td>{{.Count}}</td></tr>
        {{end}}
      </tbody>
    </table>
  </div>

  <div class="row" style="gap: 40px;">
    <div>
      <div class="tag" style="padding: 8px 12px;">Tip Auto</div>
      <div style="padding-top: 10px;">{{$.VehicleLabel}}</div>
    </div>
    {{if $.Details}}
    <table class="details-table" style="width: 260px;">
      <thead>
        <tr><th>Detaliu</th><th>Valoare</th></tr>
      </thead>
      <tbody>
        {{range $.Details}}
        <tr><td>{{.Name}}</td><td>{{.Value}}</td></tr>
        {{end}}
      </tbody>
    </table>
    {{end}}
  </div>

  <div class="totals">
    <p><b>Pret fara TVA:</b> {{$.SubtotalExVAT}} lei</p>
    <p><b>Total manopera (cu TVA 19%):</b> {{$.TotalWithVAT}} lei</p>
  </div>

  <div class="signatures">
    <div style="flex: 1;">
      <b>Executant</b>
      <div class="signature-line"></div>
    </div>
    <div style="flex: 1; text-align: right;">
      <p>După parcurgerea a 50 km, este necesară verificarea strângerii roților.</p>
      <b>Semnatura client</b>
      <div class="signature-line" style="margin-left: auto;"></div>
    </div>
  </div>

  <div class="row" style="gap: 40px;">
    <div style="flex: 1;">
      <h3>Certificat de garantie</h3>
      <p>
        Se acordă garanție conform Legii nr. 449/2003 și Legii nr. 296/2004
        pentru serviciile prestate și manopera executată, în baza convenției
        stabilite între părți.
      </p>
    </div>
  </div>
</div>
{{end}}
</div>
{{if .AutoPrint}}
<script>window.addEventListener("load", function () { setTimeout(function () { window.print(); }, 400); });</script>
{{end}}
</body>
</html>
`

type HTMLRenderer struct {
	tpl *template.Template
}

func NewRenderer() *HTMLRenderer {
	return &HTMLRenderer{
		tpl: template.Must(template.New("workorder").Parse(workOrderHTMLTemplate)),
	}
}

func (r *HTMLRenderer) RenderHTML(doc *Document) (string, error) {
	var buf bytes.Buffer
	if err := r.tpl.Execute(&buf, doc); err != nil {
		return "", err
	}
	return buf.String(), nil
}
