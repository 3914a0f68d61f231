package classify

import "github.com/rozsagyenelaw/accounting-app/internal/ledger"

// Pattern is one keyword a rule matches on, with the score it contributes.
type Pattern struct {
	Text   string
	Weight int
}

// Rule maps description keywords to one statutory category. Declaration
// order matters: when two rules score the same, the first-declared rule
// wins. That tie-break is deliberate and tested, not incidental.
type Rule struct {
	Code        string
	Name        string
	SubCategory string
	Direction   ledger.Direction
	Patterns    []Pattern
}

// Default codes for transactions no rule matches.
const (
	CodeOtherReceipts     = "other-receipts"
	CodeOtherDisbursement = "other-disbursements"
)

// statutoryRules is the fixed court-accounting taxonomy. Loaded once,
// read-only during a parse, safely shared across files.
var statutoryRules = []Rule{
	// Receipts.
	{
		Code: "social-security", Name: "Social Security Benefits", Direction: ledger.Receipt,
		Patterns: []Pattern{
			{Text: "SSA TREAS", Weight: 100},
			{Text: "SOC SEC", Weight: 90},
			{Text: "SOCIAL SECURITY", Weight: 100},
			{Text: "SUPP SEC", Weight: 80},
		},
	},
	{
		Code: "pension-retirement", Name: "Pension and Retirement Income", Direction: ledger.Receipt,
		Patterns: []Pattern{
			{Text: "PENSION", Weight: 100},
			{Text: "ANNUITY", Weight: 90},
			{Text: "RETIREMENT", Weight: 80},
			{Text: "OPM1 TREAS", Weight: 100},
			{Text: "CALPERS", Weight: 100},
			{Text: "CALSTRS", Weight: 100},
			{Text: "IRA DISTRIBUTION", Weight: 90},
		},
	},
	{
		Code: "va-benefits", Name: "Veterans Benefits", Direction: ledger.Receipt,
		Patterns: []Pattern{
			{Text: "VACP TREAS", Weight: 100},
			{Text: "VA BENEFIT", Weight: 100},
			{Text: "VETERANS AFFAIRS", Weight: 80},
		},
	},
	{
		Code: "interest-income", Name: "Interest Income", Direction: ledger.Receipt,
		Patterns: []Pattern{
			{Text: "INTEREST", Weight: 90},
			{Text: "INT PMT", Weight: 70},
		},
	},
	{
		Code: "dividend-income", Name: "Dividend Income", Direction: ledger.Receipt,
		Patterns: []Pattern{
			{Text: "DIVIDEND", Weight: 90},
			{Text: "DIV PAYMENT", Weight: 70},
		},
	},
	{
		Code: "rental-income", Name: "Rental Income", Direction: ledger.Receipt,
		Patterns: []Pattern{
			{Text: "RENT RECEIVED", Weight: 100},
			{Text: "RENTAL INCOME", Weight: 100},
			{Text: "TENANT", Weight: 70},
		},
	},
	{
		Code: "refunds", Name: "Refunds and Reimbursements", Direction: ledger.Receipt,
		Patterns: []Pattern{
			{Text: "REFUND", Weight: 90},
			{Text: "REIMBURSEMENT", Weight: 80},
			{Text: "REBATE", Weight: 70},
		},
	},
	{
		Code: "trust-income", Name: "Trust Distributions Received", Direction: ledger.Receipt,
		Patterns: []Pattern{
			{Text: "TRUST DISTRIBUTION", Weight: 100},
			{Text: "TRUST DISB", Weight: 80},
		},
	},

	// Disbursements.
	{
		Code: "medical", Name: "Medical Expenses", Direction: ledger.Disbursement,
		Patterns: []Pattern{
			{Text: "CVS", Weight: 100},
			{Text: "PHARMACY", Weight: 90},
			{Text: "WALGREENS", Weight: 100},
			{Text: "RITE AID", Weight: 100},
			{Text: "MEDICAL", Weight: 80},
			{Text: "HOSPITAL", Weight: 80},
			{Text: "CLINIC", Weight: 70},
			{Text: "KAISER", Weight: 90},
			{Text: "LABCORP", Weight: 90},
			{Text: "QUEST DIAGNOSTICS", Weight: 90},
			{Text: "DENTAL", Weight: 80},
		},
	},
	{
		Code: "caregiving", Name: "Caregiving and Residential Care", Direction: ledger.Disbursement,
		Patterns: []Pattern{
			{Text: "CAREGIVER", Weight: 100},
			{Text: "HOME CARE", Weight: 90},
			{Text: "ASSISTED LIVING", Weight: 100},
			{Text: "NURSING", Weight: 80},
			{Text: "IN-HOME", Weight: 70},
		},
	},
	{
		Code: "insurance", Name: "Insurance Premiums", Direction: ledger.Disbursement,
		Patterns: []Pattern{
			{Text: "INSURANCE", Weight: 90},
			{Text: "PREMIUM", Weight: 70},
			{Text: "AETNA", Weight: 90},
			{Text: "BLUE SHIELD", Weight: 90},
			{Text: "ANTHEM", Weight: 90},
			{Text: "METLIFE", Weight: 90},
		},
	},
	{
		Code: "utilities", Name: "Utilities", Direction: ledger.Disbursement,
		Patterns: []Pattern{
			{Text: "PG&E", Weight: 100},
			{Text: "PGANDE", Weight: 100},
			{Text: "SO CAL EDISON", Weight: 100},
			{Text: "SOCALGAS", Weight: 100},
			{Text: "UTILITY", Weight: 80},
			{Text: "WATER DISTRICT", Weight: 90},
			{Text: "COMCAST", Weight: 90},
			{Text: "SPECTRUM", Weight: 90},
			{Text: "AT&T", Weight: 90},
			{Text: "VERIZON", Weight: 90},
			{Text: "T-MOBILE", Weight: 90},
		},
	},
	{
		Code: "housing", Name: "Housing and Property", Direction: ledger.Disbursement,
		Patterns: []Pattern{
			{Text: "MORTGAGE", Weight: 100},
			{Text: "RENT PAYMENT", Weight: 90},
			{Text: "HOA", Weight: 80},
			{Text: "PROPERTY MANAGEMENT", Weight: 90},
			{Text: "GARDENER", Weight: 70},
			{Text: "PLUMBING", Weight: 70},
		},
	},
	{
		Code: "food-household", Name: "Food and Household", Direction: ledger.Disbursement,
		Patterns: []Pattern{
			{Text: "GROCERY", Weight: 80},
			{Text: "SAFEWAY", Weight: 90},
			{Text: "VONS", Weight: 90},
			{Text: "RALPHS", Weight: 90},
			{Text: "TRADER JOE", Weight: 90},
			{Text: "COSTCO", Weight: 80},
			{Text: "WALMART", Weight: 70},
			{Text: "TARGET", Weight: 70},
			{Text: "INSTACART", Weight: 80},
		},
	},
	{
		Code: "fiduciary-legal", Name: "Fiduciary and Legal Fees", Direction: ledger.Disbursement,
		Patterns: []Pattern{
			{Text: "ATTORNEY", Weight: 100},
			{Text: "LAW OFFICE", Weight: 100},
			{Text: "LEGAL", Weight: 70},
			{Text: "FIDUCIARY", Weight: 100},
			{Text: "CONSERVATOR", Weight: 90},
			{Text: "BOND PREMIUM", Weight: 90},
		},
	},
	{
		Code: "taxes", Name: "Taxes", Direction: ledger.Disbursement,
		Patterns: []Pattern{
			{Text: "IRS", Weight: 90},
			{Text: "FRANCHISE TAX", Weight: 100},
			{Text: "FTB", Weight: 90},
			{Text: "PROPERTY TAX", Weight: 100},
			{Text: "TAX PAYMENT", Weight: 90},
		},
	},
	{
		Code: "bank-charges", Name: "Bank Charges and Fees", Direction: ledger.Disbursement,
		Patterns: []Pattern{
			{Text: "SERVICE CHARGE", Weight: 90},
			{Text: "MONTHLY FEE", Weight: 90},
			{Text: "OVERDRAFT", Weight: 90},
			{Text: "NSF FEE", Weight: 90},
			{Text: "BANK FEE", Weight: 90},
		},
	},
	{
		Code: "transportation", Name: "Transportation", Direction: ledger.Disbursement,
		Patterns: []Pattern{
			{Text: "UBER", Weight: 80},
			{Text: "LYFT", Weight: 80},
			{Text: "SHELL OIL", Weight: 80},
			{Text: "CHEVRON", Weight: 80},
			{Text: "DMV", Weight: 90},
			{Text: "AUTO REPAIR", Weight: 80},
		},
	},
	{
		Code: "personal", Name: "Personal Needs", Direction: ledger.Disbursement,
		Patterns: []Pattern{
			{Text: "SALON", Weight: 70},
			{Text: "BARBER", Weight: 70},
			{Text: "CLOTHING", Weight: 60},
		},
	},
	{
		Code: "distributions", Name: "Distributions to Beneficiaries", Direction: ledger.Disbursement,
		Patterns: []Pattern{
			{Text: "DISTRIBUTION TO", Weight: 100},
			{Text: "BENEFICIARY", Weight: 90},
		},
	},
}

// Rules returns the statutory taxonomy in declaration order.
func Rules() []Rule {
	return statutoryRules
}
