package pos

import (
	"context"
	"time"

	domain "github.com/bellenoire/salon-api/internal/domain/sale"
)

// nextReceipt computes the day's next receipt number inside the caller's
// transaction. The count-then-format window is racy; the unique index on
// receipt_number plus whole-transaction retry closes it.
func nextReceipt(
	ctx context.Context,
	repo domain.Repository,
	prefix string,
	now time.Time,
) (string, error) {

	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.Add(24 * time.Hour)

	count, err := repo.CountSalesCreatedBetween(ctx, dayStart, dayEnd)
	if err != nil {
		return "", err
	}

	return domain.ReceiptNumber(prefix, now, count+1), nil
}
