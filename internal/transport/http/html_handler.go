package http

import (
	"html/template"
	"log/slog"
	"net/http"

	api "claimsheet/pkg/contracts/api/v1"
)

// PageData fills the upload form.
type PageData struct {
	AppName         string
	Version         string
	DefaultFilename string
	MaxUploadMB     int64
	Fields          map[string]string
}

var indexTemplate = template.Must(template.New("index").Parse(indexHTML))

// ServeIndex renders the upload form for both pipelines.
func ServeIndex(data PageData, logger *slog.Logger) http.HandlerFunc {
	data.Fields = map[string]string{
		"Claims":     api.FieldClaims,
		"ClaimRatio": api.FieldClaimRatio,
		"Benefits":   api.FieldBenefits,
		"Filename":   api.FieldFilename,
	}
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache")
		if err := indexTemplate.Execute(w, data); err != nil {
			logger.ErrorContext(r.Context(), "failed to render index page",
				slog.String("error", err.Error()))
		}
	}
}

const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.AppName}}</title>
<style>
  body { font-family: Arial, sans-serif; margin: 40px; max-width: 760px; }
  fieldset { margin-bottom: 24px; padding: 16px; }
  label { display: block; margin: 8px 0 4px; }
  .hint { color: #666; font-size: 0.9em; }
</style>
</head>
<body>
<h1>{{.AppName}}</h1>
<p class="hint">Version {{.Version}}. Uploads up to {{.MaxUploadMB}} MB.</p>

<form method="post" action="/api/template/export" enctype="multipart/form-data">
  <fieldset>
    <legend>Claim template</legend>
    <label for="t-claims">Claim data (CSV)</label>
    <input id="t-claims" type="file" name="{{.Fields.Claims}}" accept=".csv,.xlsx,.xls">
    <label for="t-name">File name</label>
    <input id="t-name" type="text" name="{{.Fields.Filename}}" placeholder="{{.DefaultFilename}}">
    <p>
      <button type="submit">Download workbook</button>
      <button type="submit" formaction="/api/template/preview">Preview</button>
    </p>
  </fieldset>
</form>

<form method="post" action="/api/report/export" enctype="multipart/form-data">
  <fieldset>
    <legend>Claim report</legend>
    <label for="r-claims">Claim data (CSV)</label>
    <input id="r-claims" type="file" name="{{.Fields.Claims}}" accept=".csv,.xlsx,.xls">
    <label for="r-ratio">Claim ratio (spreadsheet)</label>
    <input id="r-ratio" type="file" name="{{.Fields.ClaimRatio}}" accept=".xlsx,.xls,.csv">
    <label for="r-benefits">Benefit data (CSV)</label>
    <input id="r-benefits" type="file" name="{{.Fields.Benefits}}" accept=".csv,.xlsx,.xls">
    <label for="r-name">File name</label>
    <input id="r-name" type="text" name="{{.Fields.Filename}}" placeholder="{{.DefaultFilename}}">
    <p>
      <button type="submit">Download workbook</button>
      <button type="submit" formaction="/api/report/preview">Preview</button>
    </p>
  </fieldset>
</form>
</body>
</html>
`
