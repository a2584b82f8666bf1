package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const availabilityTTL = 2 * time.Minute

// Availability caches the free-slot list for a worker/day. A nil client turns
// every call into a no-op, which is how the tests and redis-less dev setups
// run. Entries are short-lived and invalidated on every booking or
// cancellation that touches the day.
type Availability struct {
	rdb *redis.Client
}

func NewAvailability(rdb *redis.Client) *Availability {
	return &Availability{rdb: rdb}
}

func key(workerID uint, date time.Time) string {
	return fmt.Sprintf("availability:%d:%s", workerID, date.Format("2006-01-02"))
}

func (a *Availability) Get(
	ctx context.Context,
	workerID uint,
	date time.Time,
) ([]string, bool) {

	if a.rdb == nil {
		return nil, false
	}

	raw, err := a.rdb.Get(ctx, key(workerID, date)).Result()
	if err != nil {
		return nil, false
	}

	var slots []string
	if err := json.Unmarshal([]byte(raw), &slots); err != nil {
		return nil, false
	}
	return slots, true
}

func (a *Availability) Set(
	ctx context.Context,
	workerID uint,
	date time.Time,
	slots []string,
) error {

	if a.rdb == nil {
		return nil
	}

	raw, err := json.Marshal(slots)
	if err != nil {
		return err
	}
	return a.rdb.Set(ctx, key(workerID, date), raw, availabilityTTL).Err()
}

func (a *Availability) Invalidate(
	ctx context.Context,
	workerID uint,
	date time.Time,
) error {

	if a.rdb == nil {
		return nil
	}
	return a.rdb.Del(ctx, key(workerID, date)).Err()
}
