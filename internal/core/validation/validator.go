// Package validation holds the pure double-entry checks run against a
// candidate set of journal lines before they are allowed to post. Nothing in
// this package touches storage; the posting protocol re-runs these checks
// inside its unit of work as defense in depth.
package validation

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/openbooks/ledger-engine/internal/core/domain"
)

// Severity classifies a finding. Errors always block posting; warnings block
// only under the stricter policy mode (see the policy package).
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Tolerance absorbs rounding drift from upstream amount calculations.
// Amounts are carried at 2-decimal precision, so two totals closer than one
// cent are considered equal.
var Tolerance = decimal.RequireFromString("0.01")

// Finding is one validation result. LinePosition is set (0-based) for
// findings that identify a specific line, nil for entry-level findings.
type Finding struct {
	Severity         Severity `json:"severity"`
	Message          string   `json:"message"`
	RequiresOverride bool     `json:"requiresOverride"`
	LinePosition     *int     `json:"linePosition,omitempty"`
}

// IsError reports whether the finding always blocks.
func (f Finding) IsError() bool {
	return f.Severity == SeverityError
}

func errorFinding(message string) Finding {
	return Finding{Severity: SeverityError, Message: message}
}

func lineErrorFinding(position int, message string) Finding {
	p := position
	return Finding{Severity: SeverityError, Message: message, LinePosition: &p}
}

func warningFinding(message string) Finding {
	return Finding{Severity: SeverityWarning, Message: message, RequiresOverride: true}
}

// AmountsEqual reports whether two amounts agree within Tolerance.
func AmountsEqual(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(Tolerance)
}

// lineStructureFinding returns the single-sided rule violation of one line,
// or nil when the line is clean.
func lineStructureFinding(position int, line domain.JournalLine) *Finding {
	debitPositive := line.Debit.IsPositive()
	creditPositive := line.Credit.IsPositive()

	var f Finding
	switch {
	case line.Debit.IsNegative() || line.Credit.IsNegative():
		f = lineErrorFinding(position, fmt.Sprintf("line %d carries a negative amount; amounts must be positive on exactly one side", position))
	case debitPositive && creditPositive:
		f = lineErrorFinding(position, fmt.Sprintf("line %d has both a debit (%s) and a credit (%s); a line must be single-sided", position, line.Debit.StringFixed(2), line.Credit.StringFixed(2)))
	case !debitPositive && !creditPositive:
		f = lineErrorFinding(position, fmt.Sprintf("line %d has neither a debit nor a credit; a line must move an amount", position))
	default:
		return nil
	}
	return &f
}

// ValidateLineStructure runs only the per-line single-sided checks. Storage
// enforces the same rule with a CHECK constraint, so callers use this to
// refuse defective lines with a readable finding instead of attempting an
// insert that cannot succeed.
func ValidateLineStructure(lines []domain.JournalLine) []Finding {
	var findings []Finding
	for i, line := range lines {
		if f := lineStructureFinding(i, line); f != nil {
			findings = append(findings, *f)
		}
	}
	return findings
}

// ValidateLines checks the structural and balance invariants of a candidate
// line set. An empty result means the lines are clean.
func ValidateLines(lines []domain.JournalLine) []Finding {
	var findings []Finding

	if len(lines) < 2 {
		findings = append(findings, errorFinding("entry must have at least two lines; a single-line entry cannot balance"))
	}

	accountSet := make(map[string]struct{}, len(lines))
	debitTotal := decimal.Zero
	creditTotal := decimal.Zero

	for i, line := range lines {
		accountSet[line.AccountID] = struct{}{}

		if f := lineStructureFinding(i, line); f != nil {
			findings = append(findings, *f)
		}

		debitTotal = debitTotal.Add(line.Debit)
		creditTotal = creditTotal.Add(line.Credit)
	}

	if len(lines) > 0 && len(accountSet) < 2 {
		findings = append(findings, errorFinding("entry must affect at least two different accounts"))
	}

	if !AmountsEqual(debitTotal, creditTotal) {
		findings = append(findings, errorFinding(fmt.Sprintf("entry does not balance: debits=%s, credits=%s", debitTotal.StringFixed(2), creditTotal.StringFixed(2))))
	}

	return findings
}

// ValidateEntry runs ValidateLines plus the entry-level advisory checks.
// The warnings it adds are overridable in pro mode; whether they block is the
// policy gate's decision, not this package's.
func ValidateEntry(entryDate time.Time, description string, lines []domain.JournalLine, now time.Time) []Finding {
	findings := ValidateLines(lines)

	if description == "" {
		findings = append(findings, warningFinding("entry has no description"))
	}
	if entryDate.After(now) {
		findings = append(findings, warningFinding(fmt.Sprintf("entry is dated in the future (%s)", entryDate.Format("2006-01-02"))))
	}

	return findings
}

// HasErrors reports whether any finding is error-severity.
func HasErrors(findings []Finding) bool {
	for _, f := range findings {
		if f.IsError() {
			return true
		}
	}
	return false
}

// Messages flattens findings into their human-readable messages.
func Messages(findings []Finding) []string {
	msgs := make([]string, len(findings))
	for i, f := range findings {
		msgs[i] = f.Message
	}
	return msgs
}
