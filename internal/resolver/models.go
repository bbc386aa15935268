// Package resolver locates the canonical deal record for a user-typed
// identifier and assembles a best-effort bundle of the related property,
// advance and loan records. Store schemas differ between deployments, so
// every field and relationship here is a candidate list, not a constant.
package resolver

import (
	"github.com/shopspring/decimal"

	"hudgen/internal/money"
	"hudgen/internal/recordstore"
)

const (
	EntityDeal     = "Opportunity"
	EntityProperty = "Property__c"
	EntityAdvance  = "Advance__c"
	EntityLoan     = "Loan__c"
)

// dealIdentifierFields are tried in priority order against the canonical
// numeric key, first equality then contains.
var dealIdentifierFields = []string{
	"Deal_Number__c",
	"Loan_Number__c",
	"Opportunity_Number__c",
}

// relationshipFields are the candidate lookup fields linking a related
// entity back to its deal. Which one exists varies by deployment.
var relationshipFields = []string{
	"Opportunity__c",
	"Deal__c",
	"Related_Opportunity__c",
}

var dealFields = []string{
	"Name",
	"AccountId",
	"Amount",
	"Loan_Commitment__c",
	"Servicer_Status__c",
	"Next_Payment_Due__c",
	"Accrued_Late_Charges__c",
}

var propertyFields = []string{
	"Name",
	"Property_Address__c",
	"Address__c",
	"Borrower_Name__c",
	"Servicer_ID__c",
	"Initial_Disbursement_Funded__c",
	"Renovation_HB_Funded__c",
	"Interest_Allocation_Funded__c",
	"Insurance_Status__c",
	"Financing__c",
}

var advanceFields = []string{
	"Name",
	"Commitment_Amount__c",
	"Advance_Date__c",
}

var loanFields = []string{
	"Name",
	"Servicer_Status__c",
	"Servicer_ID__c",
}

// Bundle is the best-effort resolution result. Any related record may be
// nil; accessors degrade to blank/zero rather than fail.
type Bundle struct {
	DealNumber string // canonical digits-only key
	Deal       recordstore.Record
	Property   recordstore.Record
	Advance    recordstore.Record
	Loan       recordstore.Record
}

func (b *Bundle) dealString(field string) string {
	if b.Deal == nil {
		return ""
	}
	return b.Deal.String(field)
}

func (b *Bundle) propertyString(field string) string {
	if b.Property == nil {
		return ""
	}
	return b.Property.String(field)
}

// ServicerKey is the join key into the flat-file tables: property first,
// loan record as fallback.
func (b *Bundle) ServicerKey() string {
	if v := b.propertyString("Servicer_ID__c"); v != "" {
		return v
	}
	if b.Loan != nil {
		return b.Loan.String("Servicer_ID__c")
	}
	return ""
}

// ServicerStatus is the servicer-assigned status text: deal first, loan
// record as fallback.
func (b *Bundle) ServicerStatus() string {
	if v := b.dealString("Servicer_Status__c"); v != "" {
		return v
	}
	if b.Loan != nil {
		return b.Loan.String("Servicer_Status__c")
	}
	return ""
}

// Address returns the property address text.
func (b *Bundle) Address() string {
	if v := b.propertyString("Property_Address__c"); v != "" {
		return v
	}
	return b.propertyString("Address__c")
}

func (b *Bundle) BorrowerName() string {
	return b.propertyString("Borrower_Name__c")
}

func (b *Bundle) InsuranceStatus() string {
	return b.propertyString("Insurance_Status__c")
}

// WorkdaySUPCode is the financing code carried on the property record.
func (b *Bundle) WorkdaySUPCode() string {
	return b.propertyString("Financing__c")
}

func (b *Bundle) NextPaymentDue() string {
	return money.ParseDate(b.dealString("Next_Payment_Due__c"))
}

func (b *Bundle) LateFees() decimal.Decimal {
	return money.Parse(b.dealString("Accrued_Late_Charges__c"))
}

// TotalLoanAmount is the committed loan amount: the dedicated commitment
// field when present, the standard amount field otherwise.
func (b *Bundle) TotalLoanAmount() decimal.Decimal {
	if v := b.dealString("Loan_Commitment__c"); v != "" {
		return money.Parse(v)
	}
	return money.Parse(b.dealString("Amount"))
}

func (b *Bundle) InitialAdvance() decimal.Decimal {
	return money.Parse(b.propertyString("Initial_Disbursement_Funded__c"))
}

func (b *Bundle) TotalRenoDrawn() decimal.Decimal {
	return money.Parse(b.propertyString("Renovation_HB_Funded__c"))
}

func (b *Bundle) InterestReserve() decimal.Decimal {
	return money.Parse(b.propertyString("Interest_Allocation_Funded__c"))
}

// AdvanceCommitment is the most recent advance record's commitment amount,
// authoritative when no property-level value exists.
func (b *Bundle) AdvanceCommitment() decimal.Decimal {
	if b.Advance == nil {
		return decimal.Zero
	}
	return money.Parse(b.Advance.String("Commitment_Amount__c"))
}

// AdvanceDate is the most recent advance record's date, normalized to
// mm/dd/yyyy.
func (b *Bundle) AdvanceDate() string {
	if b.Advance == nil {
		return ""
	}
	return money.ParseDate(b.Advance.String("Advance_Date__c"))
}
