package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisFieldLayout   = "2006-01-02T15:04"
	defaultRedisPrefix = "availability"
)

// RedisStore keeps one hash per provider mapping slot start to status.
// Reservations use WATCH/MULTI so a concurrent write to the provider's hash
// aborts the transaction and the check is retried against fresh state.
type RedisStore struct {
	client  *redis.Client
	prefix  string
	retries int

	// afterCheck runs between the status check and EXEC.
	afterCheck func(ctx context.Context)
}

// NewRedisStore creates a store. retries bounds optimistic retry attempts.
func NewRedisStore(client *redis.Client, retries int) *RedisStore {
	if client == nil {
		panic("availability: redis client required")
	}
	if retries <= 0 {
		retries = 5
	}
	return &RedisStore{client: client, prefix: defaultRedisPrefix, retries: retries}
}

func (s *RedisStore) Backend() string { return "redis" }

func (s *RedisStore) slotsKey(provider string) string {
	return s.prefix + ":slots:" + normalizeProvider(provider)
}

func (s *RedisStore) providersKey() string {
	return s.prefix + ":providers"
}

type hashGetter interface {
	HGet(ctx context.Context, key, field string) *redis.StringCmd
}

func (s *RedisStore) displayName(ctx context.Context, c hashGetter, provider string) (string, error) {
	name, err := c.HGet(ctx, s.providersKey(), normalizeProvider(provider)).Result()
	if errors.Is(err, redis.Nil) {
		return provider, nil
	}
	if err != nil {
		return "", err
	}
	return name, nil
}

// ListProvider returns every slot of the provider ordered by start.
func (s *RedisStore) ListProvider(ctx context.Context, provider string) ([]Slot, error) {
	fields, err := s.client.HGetAll(ctx, s.slotsKey(provider)).Result()
	if err != nil {
		return nil, fmt.Errorf("availability: list slots: %w", err)
	}
	if len(fields) == 0 {
		return nil, nil
	}
	name, err := s.displayName(ctx, s.client, provider)
	if err != nil {
		return nil, fmt.Errorf("availability: provider name: %w", err)
	}

	out := make([]Slot, 0, len(fields))
	for field, status := range fields {
		start, err := time.ParseInLocation(redisFieldLayout, field, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("availability: bad slot field %q: %w", field, err)
		}
		out = append(out, Slot{Provider: name, Start: start, Status: SlotStatus(status)})
	}
	sortSlots(out)
	return out, nil
}

// Commit runs the check-and-set under WATCH on the provider's hash.
func (s *RedisStore) Commit(ctx context.Context, keys []SlotKey) ([]Slot, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	hashKey := s.slotsKey(keys[0].Provider)
	fields := make([]string, len(keys))
	for i, k := range keys {
		if !sameProvider(k.Provider, keys[0].Provider) {
			return nil, fmt.Errorf("availability: block spans providers %q and %q", keys[0].Provider, k.Provider)
		}
		fields[i] = k.Start.UTC().Format(redisFieldLayout)
	}

	var out []Slot
	txf := func(tx *redis.Tx) error {
		values, err := tx.HMGet(ctx, hashKey, fields...).Result()
		if err != nil {
			return err
		}
		for _, v := range values {
			status, ok := v.(string)
			if !ok || SlotStatus(status) != StatusAvailable {
				return ErrSlotUnavailable
			}
		}
		// The providers hash sits outside the WATCH set. Display names are
		// written once with HSETNX and never change afterwards.
		name, err := s.displayName(ctx, tx, keys[0].Provider)
		if err != nil {
			return err
		}
		if s.afterCheck != nil {
			s.afterCheck(ctx)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			for i, f := range fields {
				pipe.HSet(ctx, hashKey, f, string(statusForUnit(i)))
			}
			return nil
		})
		if err != nil {
			return err
		}

		out = make([]Slot, len(keys))
		for i, k := range keys {
			out[i] = Slot{Provider: name, Start: k.Start.UTC(), Status: statusForUnit(i)}
		}
		return nil
	}

	for attempt := 0; attempt < s.retries; attempt++ {
		err := s.client.Watch(ctx, txf, hashKey)
		switch {
		case err == nil:
			return out, nil
		case errors.Is(err, redis.TxFailedErr):
			continue
		case errors.Is(err, ErrSlotUnavailable):
			return nil, err
		default:
			return nil, fmt.Errorf("availability: redis reserve: %w", err)
		}
	}
	return nil, ErrReserveContention
}

// Seed sets absent slots with HSETNX; existing statuses are preserved.
func (s *RedisStore) Seed(ctx context.Context, slots []Slot) (int, error) {
	if len(slots) == 0 {
		return 0, nil
	}
	cmds := make([]*redis.BoolCmd, 0, len(slots))
	_, err := s.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		seen := make(map[string]bool)
		for _, slot := range slots {
			norm := normalizeProvider(slot.Provider)
			if !seen[norm] {
				seen[norm] = true
				pipe.HSetNX(ctx, s.providersKey(), norm, slot.Provider)
			}
			field := slot.Start.UTC().Format(redisFieldLayout)
			cmds = append(cmds, pipe.HSetNX(ctx, s.slotsKey(slot.Provider), field, string(slot.Status)))
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("availability: seed slots: %w", err)
	}
	inserted := 0
	for _, cmd := range cmds {
		if cmd.Val() {
			inserted++
		}
	}
	return inserted, nil
}
