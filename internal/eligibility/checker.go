// Package eligibility evaluates the fixed pre-generation checklist against
// a resolved deal. The output is always total: every rule produces a row,
// present inputs or not, so the user sees why a deal is blocked rather than
// a bare rejection.
package eligibility

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"hudgen/internal/money"
)

// InsuranceTargetStatus is the one policy status that clears the insurance
// rule.
const InsuranceTargetStatus = "Outside Policy In-Force"

// disqualifyingStatusTerms block-listed inside the servicer status text.
var disqualifyingStatusTerms = []string{
	"foreclosure",
	"fcl",
	"reo",
	"bankruptcy",
	"bk",
}

// Severity is how a failed rule affects the overall outcome.
type Severity string

const (
	SeverityBlock  Severity = "block"
	SeverityReview Severity = "review"
	SeverityInfo   Severity = "info"
)

// Status is a single rule's outcome.
type Status string

const (
	StatusPass   Status = "pass"
	StatusFail   Status = "fail"
	StatusReview Status = "review"
)

// Check is one checklist row.
type Check struct {
	Name     string   `json:"name"`
	Observed string   `json:"observed"`
	Status   Status   `json:"status"`
	Severity Severity `json:"severity"`
	Note     string   `json:"note"`
}

// Result is the full checklist plus the overall outcome.
type Result struct {
	Checks   []Check `json:"checks"`
	Eligible bool    `json:"eligible"`
}

// Input carries the resolved fields the rules inspect. Absent fields are
// zero values; the checker never fails on them.
type Input struct {
	InsuranceRowFound bool
	InsuranceStatus   string
	LateFees          decimal.Decimal
	ServicerStatus    string
	ServicerKey       string
	NextPaymentDue    string
}

// Checker applies the fixed rules. Only the late-fee rule's severity is
// configurable; revisions of the business rule disagree on whether a
// nonzero balance blocks or merely flags for review.
type Checker struct {
	lateFeeSeverity Severity
}

func NewChecker(lateFeeSeverity string) *Checker {
	sev := SeverityReview
	if lateFeeSeverity == string(SeverityBlock) {
		sev = SeverityBlock
	}
	return &Checker{lateFeeSeverity: sev}
}

// Evaluate runs every rule and reports the checklist. Eligible is false
// only when a blocking rule failed.
func (c *Checker) Evaluate(in Input) Result {
	checks := []Check{
		c.insuranceCheck(in),
		c.lateFeeCheck(in),
		c.servicerStatusCheck(in),
		presenceCheck("servicer_id_found", in.ServicerKey, "servicer identifier located for cross-reference"),
		presenceCheck("next_payment_date_present", in.NextPaymentDue, "next payment due date on file"),
	}

	eligible := true
	for _, ch := range checks {
		if ch.Severity == SeverityBlock && ch.Status == StatusFail {
			eligible = false
		}
	}
	return Result{Checks: checks, Eligible: eligible}
}

func (c *Checker) insuranceCheck(in Input) Check {
	ch := Check{
		Name:     "insurance_policy_status",
		Severity: SeverityBlock,
		Observed: in.InsuranceStatus,
	}

	switch {
	case !in.InsuranceRowFound:
		ch.Status = StatusFail
		ch.Observed = ""
		ch.Note = "no insurance record found for this servicer key"
	case strings.EqualFold(strings.TrimSpace(in.InsuranceStatus), InsuranceTargetStatus):
		ch.Status = StatusPass
		ch.Note = "policy status matches " + InsuranceTargetStatus
	default:
		ch.Status = StatusFail
		ch.Note = fmt.Sprintf("policy status is %q, not %q — reach out to the borrower", in.InsuranceStatus, InsuranceTargetStatus)
	}
	return ch
}

func (c *Checker) lateFeeCheck(in Input) Check {
	ch := Check{
		Name:     "late_fees_zero",
		Severity: c.lateFeeSeverity,
		Observed: money.Format(in.LateFees),
	}

	if in.LateFees.IsZero() {
		ch.Status = StatusPass
		ch.Note = "no accrued late charges"
		return ch
	}

	ch.Note = fmt.Sprintf("accrued late charges of %s on the servicing record", money.Format(in.LateFees))
	if c.lateFeeSeverity == SeverityBlock {
		ch.Status = StatusFail
	} else {
		ch.Status = StatusReview
	}
	return ch
}

func (c *Checker) servicerStatusCheck(in Input) Check {
	ch := Check{
		Name:     "servicer_status_clear",
		Severity: SeverityReview,
		Observed: in.ServicerStatus,
	}

	status := strings.ToLower(in.ServicerStatus)
	if strings.TrimSpace(status) == "" {
		ch.Status = StatusReview
		ch.Note = "no servicer status on file"
		return ch
	}

	for _, term := range disqualifyingStatusTerms {
		if containsTerm(status, term) {
			ch.Status = StatusReview
			ch.Note = fmt.Sprintf("servicer status contains %q", term)
			return ch
		}
	}

	ch.Status = StatusPass
	ch.Note = "no disqualifying terms in servicer status"
	return ch
}

// containsTerm matches short abbreviations only as whole words so that,
// e.g., "bk" does not fire inside "brook".
func containsTerm(status, term string) bool {
	if len(term) > 3 {
		return strings.Contains(status, term)
	}
	for _, word := range strings.FieldsFunc(status, func(r rune) bool {
		return !('a' <= r && r <= 'z' || '0' <= r && r <= '9')
	}) {
		if word == term {
			return true
		}
	}
	return false
}

func presenceCheck(name, value, note string) Check {
	ch := Check{
		Name:     name,
		Severity: SeverityInfo,
		Observed: value,
		Note:     note,
	}
	if strings.TrimSpace(value) == "" {
		ch.Status = StatusFail
	} else {
		ch.Status = StatusPass
	}
	return ch
}
