// Package render produces the downloadable settlement statement: a
// self-contained HTML document or a spreadsheet with a fixed cell layout.
// Rendering is a 1:1 field-to-placeholder mapping; missing context fields
// render blank or $0.00, never as an error.
package render

import (
	"bytes"
	"fmt"
	"html/template"

	"hudgen/internal/common/config"
	"hudgen/internal/common/metrics"
	"hudgen/internal/hud"
	"hudgen/internal/money"
)

type Renderer struct {
	companyName    string
	companyAddress string
	templatePath   string
	tmpl           *template.Template
}

func New(cfg config.RenderConfig) (*Renderer, error) {
	tmpl, err := template.New("hud").Parse(hudTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse statement template: %w", err)
	}
	return &Renderer{
		companyName:    cfg.CompanyName,
		companyAddress: cfg.CompanyAddress,
		templatePath:   cfg.TemplatePath,
		tmpl:           tmpl,
	}, nil
}

// Filename derives the download name from the deal number.
func Filename(dealNumber, ext string) string {
	return fmt.Sprintf("HUD_%s.%s", dealNumber, ext)
}

// statementView is the template's flat field set, money pre-formatted.
type statementView struct {
	CompanyName    string
	CompanyAddress string

	DealNumber      string
	TotalLoanAmount string
	InitialAdvance  string
	TotalRenoDrawn  string
	AdvanceAmount   string
	InterestReserve string

	HoldbackCurrent     string
	HoldbackClosing     string
	AllocatedLoanAmount string
	NetAmountToBorrower string
	AvailableBalance    string
	WorkdaySUPCode      string
	AdvanceDate         string

	Borrower string
	Address  string

	ConstructionAdvanceAmount string
	InspectionFee             string
	WireFee                   string
	ConstructionMgmtFee       string
	TitleFee                  string

	ShowLateCharges     bool
	LateChargesLineItem string
	TotalFeesWithLates  string
}

func (r *Renderer) view(ctx *hud.Context) statementView {
	return statementView{
		CompanyName:    r.companyName,
		CompanyAddress: r.companyAddress,

		DealNumber:      ctx.DealNumber,
		TotalLoanAmount: money.Format(ctx.TotalLoanAmount),
		InitialAdvance:  money.Format(ctx.InitialAdvance),
		TotalRenoDrawn:  money.Format(ctx.TotalRenoDrawn),
		AdvanceAmount:   money.Format(ctx.AdvanceAmount),
		InterestReserve: money.Format(ctx.InterestReserve),

		HoldbackCurrent:     ctx.HoldbackCurrent,
		HoldbackClosing:     ctx.HoldbackClosing,
		AllocatedLoanAmount: money.Format(ctx.AllocatedLoanAmount),
		NetAmountToBorrower: money.Format(ctx.NetAmountToBorrower),
		AvailableBalance:    money.Format(ctx.AvailableBalance),
		WorkdaySUPCode:      ctx.WorkdaySUPCode,
		AdvanceDate:         ctx.AdvanceDate,

		Borrower: ctx.Borrower,
		Address:  ctx.Address,

		ConstructionAdvanceAmount: money.Format(ctx.ConstructionAdvanceAmount),
		InspectionFee:             money.Format(ctx.InspectionFee),
		WireFee:                   money.Format(ctx.WireFee),
		ConstructionMgmtFee:       money.Format(ctx.ConstructionMgmtFee),
		TitleFee:                  money.Format(ctx.TitleFee),

		ShowLateCharges:     ctx.IncludeLateCharges,
		LateChargesLineItem: money.Format(ctx.LateChargesLineItem),
		TotalFeesWithLates:  money.Format(ctx.TotalFees.Add(ctx.LateChargesLineItem)),
	}
}

// HTML renders the statement as a self-contained document with inline
// styles. User-controlled text is escaped by the template engine.
func (r *Renderer) HTML(ctx *hud.Context) (string, error) {
	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, r.view(ctx)); err != nil {
		return "", fmt.Errorf("render statement: %w", err)
	}
	metrics.DocumentsRendered.WithLabelValues("html").Inc()
	return buf.String(), nil
}

const hudTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Final Settlement Statement</title>
<style>
  .hud-page { width: 980px; font-family: Arial, Helvetica, sans-serif; font-size: 13px; color: #000; }
  .hud-top { text-align: center; margin-bottom: 10px; line-height: 1.25; }
  .hud-top .c1 { font-weight: 700; }
  .hud-top .c3 { font-weight: 800; font-size: 16px; }
  .hud-box { border: 2px solid #000; padding: 10px; }
  table.hud { width: 100%; border-collapse: collapse; table-layout: fixed; }
  table.hud td { border: 0; padding: 4px 6px; vertical-align: middle; }
  .grid { border: 1px solid #d0d0d0; }
  .lbl { font-weight: 700; text-align: left; width: 24%; }
  .val { text-align: right; width: 26%; white-space: nowrap; }
  .rlbl { font-weight: 700; text-align: left; width: 24%; }
  .rval { text-align: right; width: 26%; white-space: nowrap; }
  .borrower-line { border-top: 2px solid #000; margin-top: 10px; padding-top: 8px; }
  .addr-line { margin-top: 2px; }
  .section-title { margin-top: 14px; border: 2px solid #000; border-bottom: 0; padding: 6px 8px; font-weight: 700; background: #e6e6e6; }
  table.charges { width: 100%; border-collapse: collapse; table-layout: fixed; border: 2px solid #000; }
  table.charges th, table.charges td { border: 1px solid #000; padding: 6px 8px; }
  table.charges th { font-weight: 700; background: #e6e6e6; }
  table.charges th:last-child, table.charges td:last-child { text-align: right; white-space: nowrap; width: 26%; }
  table.charges td:first-child { width: 74%; }
  .bold { font-weight: 700; }
  .tot { font-weight: 800; }
</style>
</head>
<body>
<div class="hud-page">
  <div class="hud-top">
    <div class="c1">{{.CompanyName}}</div>
    <div>{{.CompanyAddress}}</div>
    <div class="c3">Final Settlement Statement</div>
  </div>

  <div class="hud-box">
    <table class="hud">
      <tr>
        <td class="lbl">Total Loan Amount:</td><td class="val grid">{{.TotalLoanAmount}}</td>
        <td class="rlbl">Loan ID:</td><td class="rval grid">{{.DealNumber}}</td>
      </tr>
      <tr>
        <td class="lbl">Initial Advance:</td><td class="val grid">{{.InitialAdvance}}</td>
        <td class="rlbl">Holdback % Current:</td><td class="rval grid">{{.HoldbackCurrent}}</td>
      </tr>
      <tr>
        <td class="lbl">Total Reno Drawn:</td><td class="val grid">{{.TotalRenoDrawn}}</td>
        <td class="rlbl">Holdback % at Closing:</td><td class="rval grid">{{.HoldbackClosing}}</td>
      </tr>
      <tr>
        <td class="lbl">Advance Amount:</td><td class="val grid">{{.AdvanceAmount}}</td>
        <td class="rlbl">Allocated Loan Amount:</td><td class="rval grid">{{.AllocatedLoanAmount}}</td>
      </tr>
      <tr>
        <td class="lbl">Interest Reserve:</td><td class="val grid">{{.InterestReserve}}</td>
        <td class="rlbl">Net Amount to Borrower:</td><td class="rval grid">{{.NetAmountToBorrower}}</td>
      </tr>
      <tr>
        <td class="lbl">Available Balance:</td><td class="val grid">{{.AvailableBalance}}</td>
        <td class="rlbl">Workday SUP Code:</td><td class="rval grid">{{.WorkdaySUPCode}}</td>
      </tr>
      <tr>
        <td class="lbl"></td><td class="val"></td>
        <td class="rlbl">Advance Date:</td><td class="rval grid"><span class="bold">{{.AdvanceDate}}</span></td>
      </tr>
    </table>

    <div class="borrower-line">
      <div><span class="bold">Borrower:</span> {{.Borrower}}</div>
      <div class="addr-line"><span class="bold">Address:</span> {{.Address}}</div>
    </div>
  </div>

  <div class="section-title">Charge Description</div>
  <table class="charges">
    <tr><th>Charge Description</th><th>Amount</th></tr>
    <tr><td class="bold">Construction Advance Amount</td><td class="bold">{{.ConstructionAdvanceAmount}}</td></tr>
    <tr><td>3rd party Inspection Fee</td><td>{{.InspectionFee}}</td></tr>
    <tr><td>Wire Fee</td><td>{{.WireFee}}</td></tr>
    <tr><td>Construction Management Fee</td><td>{{.ConstructionMgmtFee}}</td></tr>
    <tr><td>Title Fee</td><td>{{.TitleFee}}</td></tr>
    {{if .ShowLateCharges}}<tr><td>Accrued Late Charges</td><td>{{.LateChargesLineItem}}</td></tr>
    {{end}}<tr class="tot"><td>Total Fees</td><td>{{.TotalFeesWithLates}}</td></tr>
    <tr class="tot"><td>Reimbursement to Borrower</td><td>{{.NetAmountToBorrower}}</td></tr>
  </table>
</div>
</body>
</html>
`
