// Package policy decides whether validation findings block an operation and
// whether a structural action is available at all, given the caller's mode.
// The package holds no state: mode is read from persisted settings by the
// caller and passed explicitly on every call, which keeps the gate trivially
// unit-testable.
package policy

import (
	"fmt"

	"github.com/openbooks/ledger-engine/internal/core/validation"
)

// Mode is the user-level strictness setting.
type Mode string

const (
	// ModeBeginner enforces every overridable warning as a blocker.
	ModeBeginner Mode = "beginner"
	// ModePro lets overridable warnings through; errors still block.
	ModePro Mode = "pro"
)

// ParseMode validates a raw mode string from settings or a request.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeBeginner, ModePro:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown validation mode %q", s)
}

// Action is a structural operation that has no numeric finding attached but
// is still gated by mode.
type Action string

const (
	ActionEditPostedEntry   Action = "edit_posted_entry"
	ActionCreateManualEntry Action = "create_manual_entry"
	ActionBulkPosting       Action = "bulk_posting"
	ActionBackdatedReversal Action = "backdated_reversal"
)

var actionReasons = map[Action]string{
	ActionEditPostedEntry:   "posted entries cannot be edited in beginner mode; post a correcting entry instead",
	ActionCreateManualEntry: "manual journal entries are available in pro mode only; use a guided flow",
	ActionBulkPosting:       "bulk posting is available in pro mode only",
	ActionBackdatedReversal: "backdating a reversal is available in pro mode only",
}

// ShouldBlock reports whether the given findings forbid proceeding under the
// given mode. Error findings always block regardless of mode. Warnings with
// RequiresOverride block in beginner mode and pass in pro mode; advisory
// warnings without the override flag never block.
func ShouldBlock(findings []validation.Finding, mode Mode) bool {
	for _, f := range findings {
		if f.Severity == validation.SeverityError {
			return true
		}
		if f.Severity == validation.SeverityWarning && f.RequiresOverride && mode == ModeBeginner {
			return true
		}
	}
	return false
}

// CanPerformAction gates structural operations. Every known action is
// permitted in pro mode and rejected in beginner mode with a human-readable
// reason. Unknown actions are rejected in every mode.
func CanPerformAction(action Action, mode Mode) (bool, string) {
	reason, known := actionReasons[action]
	if !known {
		return false, fmt.Sprintf("unknown action %q", action)
	}
	if mode == ModePro {
		return true, ""
	}
	return false, reason
}
