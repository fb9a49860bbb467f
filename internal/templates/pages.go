package templates

const layout = `
{{define "head"}}<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Quarterly Wages Generator</title>
<script src="https://unpkg.com/htmx.org@1.9.12"></script>
<link rel="preconnect" href="https://fonts.googleapis.com">
<link href="https://fonts.googleapis.com/css2?family=IBM+Plex+Mono:wght@400;500;600&family=IBM+Plex+Sans:wght@300;400;500;600&display=swap" rel="stylesheet">
<style>
  :root {
    --ink: #0d1117;
    --paper: #f5f0e8;
    --ledger: #e8e0cc;
    --accent: #c0392b;
    --accent2: #2c6e49;
    --muted: #6b5e4e;
    --rule: #b8a898;
  }
  * { box-sizing: border-box; }
  body { background: var(--paper); color: var(--ink); font-family: 'IBM Plex Sans', sans-serif; min-height: 100vh; margin: 0; }
  .mono { font-family: 'IBM Plex Mono', monospace; }
  .card { background: rgba(255,255,255,0.7); border: 1px solid var(--ledger); border-left: 4px solid var(--ink); padding: 24px; }
  .field-label { font-family: 'IBM Plex Mono', monospace; font-size: 0.6rem; font-weight: 600; letter-spacing: 0.1em; text-transform: uppercase; color: var(--muted); display: block; margin-bottom: 2px; }
  input, select { background: white; border: 1px solid var(--rule); border-bottom: 2px solid var(--ink); padding: 6px 8px; font-family: 'IBM Plex Mono', monospace; font-size: 0.85rem; width: 100%; outline: none; }
  input:focus, select:focus { border-bottom-color: var(--accent); }
  input[type=checkbox] { width: auto; }
  .btn { font-family: 'IBM Plex Mono', monospace; font-weight: 600; font-size: 0.8rem; letter-spacing: 0.08em; padding: 8px 18px; border: 2px solid var(--ink); cursor: pointer; text-transform: uppercase; text-decoration: none; display: inline-block; }
  .btn-primary { background: var(--ink); color: white; }
  .btn-primary:hover { background: var(--accent); border-color: var(--accent); }
  .btn-danger { background: white; color: var(--accent); border-color: var(--accent); }
  .btn-success { background: var(--accent2); color: white; border-color: var(--accent2); }
  .section-header { font-family: 'IBM Plex Mono', monospace; font-size: 0.7rem; font-weight: 600; letter-spacing: 0.18em; text-transform: uppercase; color: var(--muted); border-bottom: 1px solid var(--rule); padding-bottom: 4px; margin-bottom: 16px; }
  table { border-collapse: collapse; width: 100%; font-size: 0.8rem; }
  th { text-align: left; font-family: 'IBM Plex Mono', monospace; font-size: 0.65rem; letter-spacing: 0.1em; text-transform: uppercase; color: var(--muted); border-bottom: 2px solid var(--ink); padding: 4px 6px; }
  td { border-bottom: 1px solid var(--ledger); padding: 4px 6px; }
  .bad { background: #f3d0cc; }
  .error-box { border: 2px solid var(--accent); color: var(--accent); padding: 10px 14px; font-family: 'IBM Plex Mono', monospace; font-size: 0.8rem; margin-bottom: 16px; }
  .htmx-indicator { opacity: 0; transition: opacity 0.2s; }
  .htmx-request .htmx-indicator { opacity: 1; }
</style>
</head>
<body>
<div style="max-width:1100px;margin:0 auto;padding:32px 24px;">
<div style="display:flex;align-items:flex-start;justify-content:space-between;margin-bottom:32px;">
  <div>
    <div class="mono" style="font-size:0.65rem;letter-spacing:0.2em;color:var(--muted);margin-bottom:4px;">PAYROLL · QUARTERLY SUBMISSION</div>
    <h1 class="mono" style="font-size:1.6rem;font-weight:600;margin:0;">Quarterly Wages Generator</h1>
    <div style="font-size:0.85rem;color:var(--muted);margin-top:4px;">150-character fixed-width records · CRLF line endings</div>
  </div>
  {{if .Operator}}
  <form method="post" action="/logout" style="text-align:right;">
    <div class="mono" style="font-size:0.7rem;color:var(--muted);margin-bottom:6px;">{{.Operator}}</div>
    <button class="btn btn-danger" type="submit">Log out</button>
  </form>
  {{end}}
</div>
{{end}}

{{define "foot"}}
<div class="mono" style="margin-top:48px;padding-top:16px;border-top:1px solid var(--rule);font-size:0.6rem;color:var(--muted);text-align:center;">
  QUARTERLY WAGES GENERATOR · FOR INTERNAL USE
</div>
</div>
</body>
</html>
{{end}}
`

const loginTmpl = `
{{define "login"}}{{template "head" .}}
<div class="card" style="max-width:380px;margin:0 auto;">
  <div class="section-header">Operator Login</div>
  {{if .Error}}<div class="error-box">{{.Error}}</div>{{end}}
  <form method="post" action="/login">
    <label class="field-label" for="username">User</label>
    <input id="username" name="username" value="{{.Username}}" autocomplete="username" required>
    <label class="field-label" for="password" style="margin-top:12px;">Password</label>
    <input id="password" name="password" type="password" autocomplete="current-password" required>
    <div style="margin-top:18px;"><button class="btn btn-primary" type="submit">Log in</button></div>
  </form>
</div>
{{template "foot"}}{{end}}
`

const indexTmpl = `
{{define "index"}}{{template "head" .}}
{{if .Error}}<div class="error-box">{{.Error}}</div>{{end}}
<form id="wages-form" method="post" action="/generate" enctype="multipart/form-data">
<div style="display:grid;grid-template-columns:1fr 1fr;gap:32px;align-items:start;">

<div class="card">
  <div class="section-header">Template Upload</div>
  <label class="field-label" for="workbook">Employee workbook (.xlsx)</label>
  <input id="workbook" type="file" name="workbook" accept=".xlsx">
  <div style="margin-top:10px;"><a class="btn" href="/template">Download template</a></div>

  <div class="section-header" style="margin-top:24px;">Manual Employee Entry</div>
  <div style="font-size:0.75rem;color:var(--muted);margin-bottom:8px;">Used when no workbook is attached. Blank rows are ignored.</div>
  <table>
    <tr><th>Full name</th><th>SSN</th><th>Salary</th><th>Account</th><th>Qtr</th></tr>
    {{range gridRows .GridRows}}
    <tr>
      <td><input name="full_name"></td>
      <td><input name="ssn"></td>
      <td><input name="salary"></td>
      <td><input name="account_number"></td>
      <td><input name="quarter" maxlength="3"></td>
    </tr>
    {{end}}
  </table>
</div>

<div class="card">
  <div class="section-header">Actions &amp; Output</div>
  <div style="display:grid;grid-template-columns:1fr 1fr 1fr;gap:12px;">
    <div>
      <label class="field-label" for="year">Year</label>
      <input id="year" name="year" type="number" value="{{.Year}}" min="2000" max="2099">
    </div>
    <div>
      <label class="field-label" for="filing-quarter">Quarter</label>
      <select id="filing-quarter" name="filing_quarter">
        {{range quarters}}<option value="{{.}}"{{if eq . $.Quarter}} selected{{end}}>{{.}}</option>{{end}}
      </select>
    </div>
    <div>
      <label class="field-label" for="batch">Batch</label>
      <input id="batch" name="batch" value="{{.DefaultBatch}}">
    </div>
  </div>
  <label style="display:block;margin-top:12px;font-size:0.8rem;">
    <input type="checkbox" name="trailing_crlf" value="on"{{if .TrailingCRLF}} checked{{end}}>
    End the file with a line break
  </label>
  <div style="margin-top:18px;display:flex;gap:10px;">
    <button class="btn btn-primary" type="button" hx-post="/preview" hx-encoding="multipart/form-data" hx-include="#wages-form" hx-target="#preview">Preview first record</button>
    <button class="btn btn-success" type="submit">Generate TXT</button>
  </div>
  <div id="preview" style="margin-top:18px;"></div>
</div>

</div>
</form>

<div class="card" style="margin-top:32px;">
  <div class="section-header">Generated Files</div>
  <div id="runs">{{template "runs" .Runs}}</div>
</div>
{{template "foot"}}{{end}}
`

const fragmentsTmpl = `
{{define "runs"}}
{{if .}}
<table>
  <tr><th>Created</th><th>File</th><th>Batch</th><th>Records</th><th>Operator</th><th></th></tr>
  {{range .}}
  <tr>
    <td class="mono">{{stamp .CreatedAt}}</td>
    <td class="mono">{{.Filename}}</td>
    <td class="mono">{{.Batch}}</td>
    <td>{{.RowCount}}</td>
    <td>{{.Operator}}</td>
    <td style="white-space:nowrap;">
      <a class="btn" href="/runs/{{.ID}}/download">TXT</a>
      <a class="btn" href="/runs/{{.ID}}/pdf">PDF</a>
      <button class="btn btn-danger" hx-delete="/runs/{{.ID}}" hx-target="#runs" hx-confirm="Delete {{.Filename}}?">Delete</button>
    </td>
  </tr>
  {{end}}
</table>
{{else}}
<div style="font-size:0.8rem;color:var(--muted);">No files generated yet.</div>
{{end}}
{{end}}

{{define "preview"}}
<div class="section-header">Record Preview · Row {{.RowNumber}}</div>
<pre class="mono" style="font-size:0.7rem;overflow-x:auto;background:white;padding:8px;border:1px solid var(--rule);">{{visible .Line}}</pre>
<table>
  <tr><th>#</th><th>Field</th><th>Expected</th><th>Value</th><th>Actual</th></tr>
  {{range .Fields}}
  <tr{{if ne .ExpectedLength .ActualLength}} class="bad"{{end}}>
    <td>{{.Index}}</td>
    <td>{{.Name}}</td>
    <td>{{.ExpectedLength}}</td>
    <td class="mono">{{visible .Value}}</td>
    <td>{{.ActualLength}}</td>
  </tr>
  {{end}}
</table>
{{end}}

{{define "error"}}<div class="error-box">{{.}}</div>{{end}}
`
