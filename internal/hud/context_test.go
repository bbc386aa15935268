package hud

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"hudgen/internal/recordstore"
	"hudgen/internal/resolver"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func testBundle() *resolver.Bundle {
	return &resolver.Bundle{
		DealNumber: "58439",
		Deal: recordstore.Record{
			"Id":                      "006xx0001",
			"Amount":                  "500000",
			"Accrued_Late_Charges__c": "75.25",
		},
		Property: recordstore.Record{
			"Property_Address__c":            "123 Main St Anytown CA 90210",
			"Borrower_Name__c":               "Jordan Smith",
			"Servicer_ID__c":                 "9001234",
			"Initial_Disbursement_Funded__c": "350000",
			"Renovation_HB_Funded__c":        "40000",
			"Interest_Allocation_Funded__c":  "15000",
			"Financing__c":                   "SUP-17",
		},
	}
}

func TestBuildNormalizesAtBoundary(t *testing.T) {
	ctx := Build(testBundle(), Inputs{
		AdvanceAmount:       "$25,000.00",
		HoldbackCurrent:     "1",
		HoldbackClosing:     "100",
		AdvanceDate:         "20260114",
		InspectionFee:       "450",
		WireFee:             "50",
		ConstructionMgmtFee: "500",
		TitleFee:            "200",
	})

	assert.Equal(t, "58439", ctx.DealNumber)
	assert.Equal(t, "9001234", ctx.ServicerID)
	assert.True(t, ctx.AdvanceAmount.Equal(dec("25000")))
	assert.Equal(t, "100%", ctx.HoldbackCurrent)
	assert.Equal(t, "100%", ctx.HoldbackClosing)
	assert.Equal(t, "01/14/2026", ctx.AdvanceDate)
	assert.Equal(t, "JORDAN SMITH", ctx.Borrower)
	assert.Equal(t, "123 MAIN ST ANYTOWN CA 90210", ctx.Address)
}

func TestRecomputeFormulas(t *testing.T) {
	ctx := Build(testBundle(), Inputs{
		AdvanceAmount:       "25000",
		InspectionFee:       "450",
		WireFee:             "50",
		ConstructionMgmtFee: "500",
		TitleFee:            "200",
	})

	assert.True(t, ctx.AllocatedLoanAmount.Equal(dec("65000")), "advance + reno drawn")
	assert.True(t, ctx.ConstructionAdvanceAmount.Equal(dec("25000")))
	assert.True(t, ctx.TotalFees.Equal(dec("1200")))
	assert.True(t, ctx.NetAmountToBorrower.Equal(dec("23800")))
	// 500000 - 350000 - 40000 - 25000 - 15000
	assert.True(t, ctx.AvailableBalance.Equal(dec("70000")))
	assert.True(t, ctx.LateChargesLineItem.IsZero())
}

func TestNetAmountMayGoNegative(t *testing.T) {
	ctx := Build(testBundle(), Inputs{
		AdvanceAmount: "1000",
		InspectionFee: "1500",
	})

	assert.True(t, ctx.NetAmountToBorrower.Equal(dec("-500")), "fees above the advance must not clamp")
}

func TestLateChargesLineItem(t *testing.T) {
	in := Inputs{AdvanceAmount: "25000", IncludeLateCharges: true}
	ctx := Build(testBundle(), in)

	assert.True(t, ctx.LateChargesLineItem.Equal(dec("75.25")))
	assert.True(t, ctx.NetAmountToBorrower.Equal(dec("24924.75")))

	in.IncludeLateCharges = false
	ctx = Build(testBundle(), in)
	assert.True(t, ctx.LateChargesLineItem.IsZero())
	assert.True(t, ctx.NetAmountToBorrower.Equal(dec("25000")))
}

func TestApplyEdits(t *testing.T) {
	ctx := Build(testBundle(), Inputs{AdvanceAmount: "25000"})

	newAdvance := "$30,000.00"
	newBorrower := "sam lee"
	include := true
	ctx.ApplyEdits(Edits{
		AdvanceAmount:      &newAdvance,
		Borrower:           &newBorrower,
		IncludeLateCharges: &include,
	})

	assert.True(t, ctx.AdvanceAmount.Equal(dec("30000")))
	assert.Equal(t, "SAM LEE", ctx.Borrower)
	assert.True(t, ctx.AllocatedLoanAmount.Equal(dec("70000")), "recompute ran after edits")
	assert.True(t, ctx.LateChargesLineItem.Equal(dec("75.25")))
}

func TestApplyEditsNilLeavesValues(t *testing.T) {
	ctx := Build(testBundle(), Inputs{AdvanceAmount: "25000"})
	before := ctx.AdvanceAmount

	ctx.ApplyEdits(Edits{})
	assert.True(t, ctx.AdvanceAmount.Equal(before))
	assert.Equal(t, "JORDAN SMITH", ctx.Borrower)
}

func TestBuildDefaultsFromAdvanceRecord(t *testing.T) {
	bundle := testBundle()
	bundle.Advance = recordstore.Record{
		"Commitment_Amount__c": "$18,500.00",
		"Advance_Date__c":      "20260114",
	}

	// Blank form values defer to the advance record.
	ctx := Build(bundle, Inputs{InspectionFee: "450"})
	assert.True(t, ctx.AdvanceAmount.Equal(dec("18500")))
	assert.Equal(t, "01/14/2026", ctx.AdvanceDate)
	assert.True(t, ctx.NetAmountToBorrower.Equal(dec("18050")))

	// Typed values win over the record.
	ctx = Build(bundle, Inputs{AdvanceAmount: "25000", AdvanceDate: "2/1/26"})
	assert.True(t, ctx.AdvanceAmount.Equal(dec("25000")))
	assert.Equal(t, "02/01/2026", ctx.AdvanceDate)
}

func TestBuildWithEmptyBundle(t *testing.T) {
	// A partial bundle (nothing resolved beyond the deal number) still
	// builds a usable context with zeros and blanks.
	ctx := Build(&resolver.Bundle{DealNumber: "11111"}, Inputs{})

	assert.Equal(t, "11111", ctx.DealNumber)
	assert.True(t, ctx.TotalLoanAmount.IsZero())
	assert.Equal(t, "", ctx.Borrower)
	assert.True(t, ctx.NetAmountToBorrower.IsZero())
}
