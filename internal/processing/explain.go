package processing

import (
	"regexp"
	"strings"

	"github.com/SushmaJettiboyina/Fake-job-detection/internal/models"
)

// Rule vocabularies. Slices keep scan order fixed because the suspicious
// phrase explanation reports only the first matches in that order; this
// order is part of the observable contract.
var suspiciousPhrases = []string{
	"no experience", "immediate hiring", "apply now", "quick money",
	"work from home", "refundable", "deposit", "pay to apply",
	"training materials", "western union", "send money", "earn", "earn upto",
	"must have a laptop", "visa sponsorship not required",
}

var depositPhrases = []string{
	"deposit", "refundable", "training fee", "training materials",
	"payment required", "pay to apply",
}

var salaryTerms = []string{
	"salary", "ctc", "package", "per month", "per annum", "pa", "per year",
	"$", "₹", "£",
}

var freeEmailDomains = map[string]struct{}{
	"gmail.com":   {},
	"yahoo.com":   {},
	"hotmail.com": {},
	"outlook.com": {},
	"live.com":    {},
	"aol.com":     {},
	"yandex.com":  {},
}

var placeholderCompanies = map[string]struct{}{
	"n/a": {}, "na": {}, "unknown": {}, "none": {},
}

var emailRegex = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)

// maxReportedPhrases caps how many matched suspicious phrases the first
// explanation lists.
const maxReportedPhrases = 6

// Explain runs the heuristic rule set over the canonical document and the
// raw fields and returns human-readable suspicion indicators in fixed rule
// order. It is intentionally rule-based so the output stays transparent;
// it is not model feature attribution. All matching on the document is a
// case-insensitive substring check, so injected field labels and larger
// words can satisfy a phrase ("Company" contains "pa") exactly as the
// rule set intends.
func Explain(document string, fields models.JobPostingFields) []string {
	var explanations []string
	lower := strings.ToLower(document)

	var matched []string
	for _, p := range suspiciousPhrases {
		if strings.Contains(lower, p) {
			matched = append(matched, p)
		}
	}
	if len(matched) > 0 {
		if len(matched) > maxReportedPhrases {
			matched = matched[:maxReportedPhrases]
		}
		explanations = append(explanations, "Suspicious phrases detected: "+strings.Join(matched, ", "))
	}

	company := strings.ToLower(strings.TrimSpace(fields.Company))
	if _, placeholder := placeholderCompanies[company]; company == "" || placeholder {
		explanations = append(explanations, "Missing company details")
	}

	// The free-domain message takes precedence whenever any address exists,
	// so at most one of the two email explanations ever fires.
	if emails := emailRegex.FindAllString(document, -1); len(emails) > 0 {
		for _, e := range emails {
			domain := strings.ToLower(e[strings.Index(e, "@")+1:])
			if _, free := freeEmailDomains[domain]; free {
				explanations = append(explanations, "Uses a generic email address for contact (e.g., Gmail/Yahoo)")
				break
			}
		}
	} else {
		explanations = append(explanations, "No direct contact email found")
	}

	for _, p := range depositPhrases {
		if strings.Contains(lower, p) {
			explanations = append(explanations, "Asks for payment/deposit or refundable fee — do not pay to apply")
			break
		}
	}

	salaryMentioned := false
	for _, s := range salaryTerms {
		if strings.Contains(lower, s) {
			salaryMentioned = true
			break
		}
	}
	if !salaryMentioned {
		explanations = append(explanations, "No salary or compensation details provided")
	}

	description := strings.TrimSpace(fields.Description)
	if description != "" && len(strings.Fields(description)) < 20 {
		explanations = append(explanations, "Very short description — lacks detail about the role")
	}

	return dedupe(explanations)
}

// dedupe removes repeated explanations while preserving first-occurrence
// order. The current rules emit distinct strings, but future rules may
// overlap.
func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, e := range in {
		if _, ok := seen[e]; ok {
			continue
		}
		seen[e] = struct{}{}
		out = append(out, e)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
