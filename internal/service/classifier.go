package service

import "strings"

// InstitutionalKeywords are matched as case-insensitive substrings of the
// counterparty name. Substring matching misclassifies some names
// ("FUNDAMENTAL TRADERS" matches FUND); that is accepted.
var InstitutionalKeywords = []string{
	"INSURANCE",
	"MUTUAL FUND",
	"LIC",
	"TRUST",
	"BANK",
	"SECURITIES",
	"INVESTMENT",
	"CAPITAL",
	"FUND",
	"ASSET MANAGEMENT",
	"PENSION",
	"PMS",
	"AIF",
	"FII",
	"DII",
	"INSTITUTIONAL",
	"FINANCIAL SERVICES",
	"WEALTH",
	"HOLDINGS",
}

// IsInstitutional reports whether name looks like an institutional entity.
func IsInstitutional(name string) bool {
	upper := strings.ToUpper(name)
	for _, kw := range InstitutionalKeywords {
		if strings.Contains(upper, kw) {
			return true
		}
	}
	return false
}
