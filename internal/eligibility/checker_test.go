package eligibility

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func passingInput() Input {
	return Input{
		InsuranceRowFound: true,
		InsuranceStatus:   "Outside Policy In-Force",
		LateFees:          decimal.Zero,
		ServicerStatus:    "Performing",
		ServicerKey:       "9001234",
		NextPaymentDue:    "02/01/2026",
	}
}

func checkByName(t *testing.T, res Result, name string) Check {
	t.Helper()
	for _, ch := range res.Checks {
		if ch.Name == name {
			return ch
		}
	}
	t.Fatalf("check %q missing from result", name)
	return Check{}
}

func TestEvaluateAllPassing(t *testing.T) {
	res := NewChecker("review").Evaluate(passingInput())

	assert.True(t, res.Eligible)
	require.Len(t, res.Checks, 5)
	for _, ch := range res.Checks {
		assert.Equal(t, StatusPass, ch.Status, "check %s", ch.Name)
	}
}

func TestEvaluateTotalOnEmptyInput(t *testing.T) {
	// Every field absent: still a full checklist, never a panic or an
	// empty slice.
	res := NewChecker("review").Evaluate(Input{})

	require.Len(t, res.Checks, 5)
	assert.False(t, res.Eligible) // insurance row absence blocks

	ins := checkByName(t, res, "insurance_policy_status")
	assert.Equal(t, StatusFail, ins.Status)
	assert.Equal(t, SeverityBlock, ins.Severity)
	assert.NotEmpty(t, ins.Note)
}

func TestInsuranceStatusCaseInsensitive(t *testing.T) {
	in := passingInput()
	in.InsuranceStatus = "outside policy in-force"

	res := NewChecker("review").Evaluate(in)
	assert.Equal(t, StatusPass, checkByName(t, res, "insurance_policy_status").Status)
	assert.True(t, res.Eligible)
}

func TestInsuranceStatusMismatchBlocks(t *testing.T) {
	in := passingInput()
	in.InsuranceStatus = "Lapsed"

	res := NewChecker("review").Evaluate(in)
	ins := checkByName(t, res, "insurance_policy_status")
	assert.Equal(t, StatusFail, ins.Status)
	assert.Contains(t, ins.Note, "reach out to the borrower")
	assert.False(t, res.Eligible)
}

func TestLateFeeSeverityConfigurable(t *testing.T) {
	in := passingInput()
	in.LateFees = decimal.RequireFromString("125.50")

	review := NewChecker("review").Evaluate(in)
	lf := checkByName(t, review, "late_fees_zero")
	assert.Equal(t, StatusReview, lf.Status)
	assert.Equal(t, "$125.50", lf.Observed)
	assert.True(t, review.Eligible, "review severity must not block")

	blocking := NewChecker("block").Evaluate(in)
	lf = checkByName(t, blocking, "late_fees_zero")
	assert.Equal(t, StatusFail, lf.Status)
	assert.False(t, blocking.Eligible)
}

func TestServicerStatusDisqualifyingTerms(t *testing.T) {
	tests := []struct {
		status string
		want   Status
	}{
		{"Performing", StatusPass},
		{"Active - Foreclosure initiated", StatusReview},
		{"FCL referral", StatusReview},
		{"REO pending", StatusReview},
		{"BK chapter 7", StatusReview},
		{"Brookside servicing", StatusPass}, // "bk" must not fire inside a word
		{"", StatusReview},
	}

	for _, tt := range tests {
		in := passingInput()
		in.ServicerStatus = tt.status
		res := NewChecker("review").Evaluate(in)
		got := checkByName(t, res, "servicer_status_clear")
		assert.Equal(t, tt.want, got.Status, "status %q", tt.status)
		// Review never blocks on its own.
		assert.True(t, res.Eligible, "status %q", tt.status)
	}
}

func TestPresenceChecksInformationalOnly(t *testing.T) {
	in := passingInput()
	in.ServicerKey = ""
	in.NextPaymentDue = ""

	res := NewChecker("review").Evaluate(in)
	assert.Equal(t, StatusFail, checkByName(t, res, "servicer_id_found").Status)
	assert.Equal(t, StatusFail, checkByName(t, res, "next_payment_date_present").Status)
	assert.True(t, res.Eligible, "informational rules never block")
}
