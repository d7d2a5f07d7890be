package accounting

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/openbooks/ledger-engine/internal/core/domain"
)

// SignedAmount applies the correct sign to a line's amount based on the
// account type and the side the line sits on.
//
// DEBIT to ASSET/EXPENSE -> Positive (+)
// CREDIT to ASSET/EXPENSE -> Negative (-)
// DEBIT to LIABILITY/EQUITY/REVENUE -> Negative (-)
// CREDIT to LIABILITY/EQUITY/REVENUE -> Positive (+)
func SignedAmount(line domain.JournalLine, accountType domain.AccountType) (decimal.Decimal, error) {
	if !accountType.IsValid() {
		return decimal.Zero, fmt.Errorf("unknown account type %q for account %s", accountType, line.AccountID)
	}

	amount := line.Amount()
	if line.IsDebit() != accountType.IncreasesOnDebit() {
		amount = amount.Neg()
	}
	return amount, nil
}

// BalanceChanges aggregates the net signed effect of a line set per account.
// The accountTypes map must cover every account referenced by the lines.
func BalanceChanges(lines []domain.JournalLine, accountTypes map[string]domain.AccountType) (map[string]decimal.Decimal, error) {
	changes := make(map[string]decimal.Decimal, len(accountTypes))
	for _, line := range lines {
		accountType, ok := accountTypes[line.AccountID]
		if !ok {
			return nil, fmt.Errorf("account type not found for account %s", line.AccountID)
		}
		signed, err := SignedAmount(line, accountType)
		if err != nil {
			return nil, err
		}
		changes[line.AccountID] = changes[line.AccountID].Add(signed)
	}
	return changes, nil
}

// EntryAmount computes the economic value of a balanced entry: the sum of
// its debit side, which for balanced lines equals the credit side.
func EntryAmount(lines []domain.JournalLine) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Debit)
	}
	return total
}
