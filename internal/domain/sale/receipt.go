package sale

import (
	"fmt"
	"time"
)

// ReceiptNumber formats "<prefix>-YYYYMMDD-<seq>". Sequence is the count of
// sales created that calendar day plus one; the unique index on the column
// plus whole-transaction retry absorbs concurrent collisions.
func ReceiptNumber(prefix string, day time.Time, seq int64) string {
	return fmt.Sprintf("%s-%s-%d", prefix, day.Format("20060102"), seq)
}
