// Package hud assembles the per-request settlement-statement context: a
// flat record of every field the document renderer consumes. The context is
// never persisted; it is rebuilt from scratch on every generate action and
// mutated in place when the user edits previewed fields.
package hud

import (
	"strings"

	"github.com/shopspring/decimal"

	"hudgen/internal/money"
	"hudgen/internal/resolver"
)

// Context is the fully computed statement state.
type Context struct {
	DealNumber string `json:"deal_number"`
	ServicerID string `json:"servicer_id"`

	TotalLoanAmount decimal.Decimal `json:"total_loan_amount"`
	InitialAdvance  decimal.Decimal `json:"initial_advance"`
	TotalRenoDrawn  decimal.Decimal `json:"total_reno_drawn"`
	InterestReserve decimal.Decimal `json:"interest_reserve"`
	AdvanceAmount   decimal.Decimal `json:"advance_amount"`

	HoldbackCurrent string `json:"holdback_current"`
	HoldbackClosing string `json:"holdback_closing"`
	AdvanceDate     string `json:"advance_date"`
	WorkdaySUPCode  string `json:"workday_sup_code"`
	Borrower        string `json:"borrower"`
	Address         string `json:"address"`

	InspectionFee       decimal.Decimal `json:"inspection_fee"`
	WireFee             decimal.Decimal `json:"wire_fee"`
	ConstructionMgmtFee decimal.Decimal `json:"construction_mgmt_fee"`
	TitleFee            decimal.Decimal `json:"title_fee"`

	AccruedLateCharges decimal.Decimal `json:"accrued_late_charges"`
	IncludeLateCharges bool            `json:"include_late_charges"`

	// Derived by Recompute.
	AllocatedLoanAmount       decimal.Decimal `json:"allocated_loan_amount"`
	ConstructionAdvanceAmount decimal.Decimal `json:"construction_advance_amount"`
	TotalFees                 decimal.Decimal `json:"total_fees"`
	LateChargesLineItem       decimal.Decimal `json:"late_charges_line_item"`
	NetAmountToBorrower       decimal.Decimal `json:"net_amount_to_borrower"`
	AvailableBalance          decimal.Decimal `json:"available_balance"`
}

// Inputs are the manually entered form values, raw as typed. Normalization
// happens here, at the boundary, not inside the arithmetic.
type Inputs struct {
	AdvanceAmount       string `json:"advance_amount"`
	HoldbackCurrent     string `json:"holdback_current"`
	HoldbackClosing     string `json:"holdback_closing"`
	AdvanceDate         string `json:"advance_date"`
	InspectionFee       string `json:"inspection_fee"`
	WireFee             string `json:"wire_fee"`
	ConstructionMgmtFee string `json:"construction_mgmt_fee"`
	TitleFee            string `json:"title_fee"`
	IncludeLateCharges  bool   `json:"include_late_charges"`
}

// Build assembles the context from a resolved bundle and the manual inputs,
// then computes the derived amounts. A blank advance amount or date defers
// to the most recent advance record, which is authoritative when the form
// leaves them empty.
func Build(bundle *resolver.Bundle, in Inputs) *Context {
	advanceAmount := money.Parse(in.AdvanceAmount)
	if strings.TrimSpace(in.AdvanceAmount) == "" {
		advanceAmount = bundle.AdvanceCommitment()
	}
	advanceDate := money.ParseDate(in.AdvanceDate)
	if strings.TrimSpace(in.AdvanceDate) == "" {
		advanceDate = bundle.AdvanceDate()
	}

	ctx := &Context{
		DealNumber: bundle.DealNumber,
		ServicerID: bundle.ServicerKey(),

		TotalLoanAmount: bundle.TotalLoanAmount(),
		InitialAdvance:  bundle.InitialAdvance(),
		TotalRenoDrawn:  bundle.TotalRenoDrawn(),
		InterestReserve: bundle.InterestReserve(),
		AdvanceAmount:   advanceAmount,

		HoldbackCurrent: money.NormalizePercent(in.HoldbackCurrent),
		HoldbackClosing: money.NormalizePercent(in.HoldbackClosing),
		AdvanceDate:     advanceDate,
		WorkdaySUPCode:  bundle.WorkdaySUPCode(),
		Borrower:        strings.ToUpper(strings.TrimSpace(bundle.BorrowerName())),
		Address:         strings.ToUpper(strings.TrimSpace(bundle.Address())),

		InspectionFee:       money.Parse(in.InspectionFee),
		WireFee:             money.Parse(in.WireFee),
		ConstructionMgmtFee: money.Parse(in.ConstructionMgmtFee),
		TitleFee:            money.Parse(in.TitleFee),

		AccruedLateCharges: bundle.LateFees(),
		IncludeLateCharges: in.IncludeLateCharges,
	}
	ctx.Recompute()
	return ctx
}

// Recompute applies the fixed formulas over the already-normalized amounts.
func (c *Context) Recompute() {
	c.AllocatedLoanAmount = c.AdvanceAmount.Add(c.TotalRenoDrawn)

	// The construction advance is the manually entered advance amount.
	c.ConstructionAdvanceAmount = c.AdvanceAmount

	c.TotalFees = c.InspectionFee.
		Add(c.WireFee).
		Add(c.ConstructionMgmtFee).
		Add(c.TitleFee)

	if c.IncludeLateCharges {
		c.LateChargesLineItem = c.AccruedLateCharges
	} else {
		c.LateChargesLineItem = decimal.Zero
	}

	c.NetAmountToBorrower = c.ConstructionAdvanceAmount.
		Sub(c.TotalFees).
		Sub(c.LateChargesLineItem)

	// Fees are part of the advance distribution and are not subtracted
	// again here.
	c.AvailableBalance = c.TotalLoanAmount.
		Sub(c.InitialAdvance).
		Sub(c.TotalRenoDrawn).
		Sub(c.AdvanceAmount).
		Sub(c.InterestReserve)
}

// Edits are the previewed fields the user may change before export. Nil
// means unchanged; values go through the same boundary normalization as the
// original inputs.
type Edits struct {
	TotalLoanAmount     *string `json:"total_loan_amount,omitempty"`
	InitialAdvance      *string `json:"initial_advance,omitempty"`
	TotalRenoDrawn      *string `json:"total_reno_drawn,omitempty"`
	InterestReserve     *string `json:"interest_reserve,omitempty"`
	AdvanceAmount       *string `json:"advance_amount,omitempty"`
	HoldbackCurrent     *string `json:"holdback_current,omitempty"`
	HoldbackClosing     *string `json:"holdback_closing,omitempty"`
	AdvanceDate         *string `json:"advance_date,omitempty"`
	WorkdaySUPCode      *string `json:"workday_sup_code,omitempty"`
	Borrower            *string `json:"borrower,omitempty"`
	Address             *string `json:"address,omitempty"`
	InspectionFee       *string `json:"inspection_fee,omitempty"`
	WireFee             *string `json:"wire_fee,omitempty"`
	ConstructionMgmtFee *string `json:"construction_mgmt_fee,omitempty"`
	TitleFee            *string `json:"title_fee,omitempty"`
	IncludeLateCharges  *bool   `json:"include_late_charges,omitempty"`
}

// ApplyEdits folds edited values into the context and recomputes.
func (c *Context) ApplyEdits(e Edits) {
	setMoney := func(dst *decimal.Decimal, src *string) {
		if src != nil {
			*dst = money.Parse(*src)
		}
	}
	setMoney(&c.TotalLoanAmount, e.TotalLoanAmount)
	setMoney(&c.InitialAdvance, e.InitialAdvance)
	setMoney(&c.TotalRenoDrawn, e.TotalRenoDrawn)
	setMoney(&c.InterestReserve, e.InterestReserve)
	setMoney(&c.AdvanceAmount, e.AdvanceAmount)
	setMoney(&c.InspectionFee, e.InspectionFee)
	setMoney(&c.WireFee, e.WireFee)
	setMoney(&c.ConstructionMgmtFee, e.ConstructionMgmtFee)
	setMoney(&c.TitleFee, e.TitleFee)

	if e.HoldbackCurrent != nil {
		c.HoldbackCurrent = money.NormalizePercent(*e.HoldbackCurrent)
	}
	if e.HoldbackClosing != nil {
		c.HoldbackClosing = money.NormalizePercent(*e.HoldbackClosing)
	}
	if e.AdvanceDate != nil {
		c.AdvanceDate = money.ParseDate(*e.AdvanceDate)
	}
	if e.WorkdaySUPCode != nil {
		c.WorkdaySUPCode = strings.TrimSpace(*e.WorkdaySUPCode)
	}
	if e.Borrower != nil {
		c.Borrower = strings.ToUpper(strings.TrimSpace(*e.Borrower))
	}
	if e.Address != nil {
		c.Address = strings.ToUpper(strings.TrimSpace(*e.Address))
	}
	if e.IncludeLateCharges != nil {
		c.IncludeLateCharges = *e.IncludeLateCharges
	}

	c.Recompute()
}
