package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func (s *Server) handleIndex(c echo.Context) error {
	return c.HTML(http.StatusOK, indexPage)
}

// indexPage is the single static page driving the form flow against the
// JSON endpoints. No build step, no framework.
const indexPage = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>HUD Generator</title>
<style>
  body { font-family: Arial, Helvetica, sans-serif; font-size: 14px; max-width: 760px; margin: 2em auto; }
  fieldset { margin-bottom: 1.2em; }
  label { display: block; margin: 6px 0 2px; font-weight: 700; }
  input[type=text] { width: 260px; }
  pre { background: #f4f4f4; padding: 10px; overflow: auto; }
  button { margin-top: 8px; }
  .err { color: #a00; }
</style>
</head>
<body>
<h1>HUD Settlement Statement</h1>

<fieldset>
  <legend>1. Reference files</legend>
  <label>Insurance extract (pipe-delimited CSV)</label>
  <input type="file" id="insurance">
  <label>Payment extract (.xlsx)</label>
  <input type="file" id="payments">
  <button onclick="uploadFiles()">Upload</button>
</fieldset>

<fieldset>
  <legend>2. Deal</legend>
  <label>Deal number</label>
  <input type="text" id="identifier" placeholder="58439">
  <button onclick="resolveDeal()">Resolve</button>
</fieldset>

<fieldset>
  <legend>3. Advance details</legend>
  <label>Advance amount</label><input type="text" id="advance_amount">
  <label>Advance date</label><input type="text" id="advance_date" placeholder="mm/dd/yyyy">
  <label>Holdback % current</label><input type="text" id="holdback_current">
  <label>Holdback % at closing</label><input type="text" id="holdback_closing">
  <label>3rd party inspection fee</label><input type="text" id="inspection_fee">
  <label>Wire fee</label><input type="text" id="wire_fee">
  <label>Construction management fee</label><input type="text" id="construction_mgmt_fee">
  <label>Title fee</label><input type="text" id="title_fee">
  <label><input type="checkbox" id="include_late_charges"> Include accrued late charges</label>
  <button onclick="generate()">Generate</button>
  <button onclick="download('html')">Download HTML</button>
  <button onclick="download('xlsx')">Download XLSX</button>
</fieldset>

<pre id="out">No session yet.</pre>

<script>
let sessionId = null;
const out = document.getElementById("out");
const show = (v) => { out.textContent = typeof v === "string" ? v : JSON.stringify(v, null, 2); };

async function ensureSession() {
  if (sessionId) return sessionId;
  const res = await fetch("/api/v1/sessions", { method: "POST" });
  sessionId = (await res.json()).session_id;
  return sessionId;
}

async function uploadOne(kind, inputId) {
  const file = document.getElementById(inputId).files[0];
  if (!file) return null;
  const form = new FormData();
  form.append("file", file);
  const res = await fetch("/api/v1/sessions/" + sessionId + "/files/" + kind, { method: "POST", body: form });
  return res.json();
}

async function uploadFiles() {
  await ensureSession();
  show({ insurance: await uploadOne("insurance", "insurance"),
         payments:  await uploadOne("payments", "payments") });
}

async function resolveDeal() {
  await ensureSession();
  const res = await fetch("/api/v1/sessions/" + sessionId + "/resolve", {
    method: "POST",
    headers: { "Content-Type": "application/json" },
    body: JSON.stringify({ identifier: document.getElementById("identifier").value }),
  });
  show(await res.json());
}

async function generate() {
  await ensureSession();
  const val = (id) => document.getElementById(id).value;
  const res = await fetch("/api/v1/sessions/" + sessionId + "/generate", {
    method: "POST",
    headers: { "Content-Type": "application/json" },
    body: JSON.stringify({
      advance_amount: val("advance_amount"),
      advance_date: val("advance_date"),
      holdback_current: val("holdback_current"),
      holdback_closing: val("holdback_closing"),
      inspection_fee: val("inspection_fee"),
      wire_fee: val("wire_fee"),
      construction_mgmt_fee: val("construction_mgmt_fee"),
      title_fee: val("title_fee"),
      include_late_charges: document.getElementById("include_late_charges").checked,
    }),
  });
  show(await res.json());
}

function download(format) {
  if (!sessionId) { show("Generate a statement first."); return; }
  window.location = "/api/v1/sessions/" + sessionId + "/download/" + format;
}
</script>
</body>
</html>
`
