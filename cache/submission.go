package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"github.com/rs/zerolog/log"
)

const (
	SUBMISSION_TTL = time.Hour * 24
)

// Submission tracks the last transaction sent for a submission key.
type Submission struct {
	TxHash    string
	Height    uint64
	Confirmed bool
	UpdatedAt time.Time
}

// SubmissionCache remembers pending and confirmed submissions so retries of
// an operation can be answered without submitting it again.
type SubmissionCache struct {
	cache *ttlcache.Cache[string, Submission]
}

func NewSubmissionCache(ctx context.Context, ttl time.Duration) *SubmissionCache {
	if ttl == 0 {
		ttl = SUBMISSION_TTL
	}
	cache := ttlcache.New(
		ttlcache.WithTTL[string, Submission](ttl),
	)

	go cache.Start()
	go func() {
		<-ctx.Done()
		cache.Stop()
	}()

	return &SubmissionCache{
		cache: cache,
	}
}

func (c *SubmissionCache) Submission(key string) (Submission, error) {
	item := c.cache.Get(key)
	if item == nil {
		return Submission{}, fmt.Errorf("no submission found for %s", key)
	}

	return item.Value(), nil
}

// Pending records a transaction whose outcome is not yet known.
func (c *SubmissionCache) Pending(key string, txHash string) {
	log.Debug().Msgf("Tracking pending submission %s for %s", txHash, key)
	c.cache.Set(key, Submission{
		TxHash:    txHash,
		UpdatedAt: time.Now(),
	}, ttlcache.DefaultTTL)
}

// Confirm records a transaction that reached finality at height.
func (c *SubmissionCache) Confirm(key string, txHash string, height uint64) {
	c.cache.Set(key, Submission{
		TxHash:    txHash,
		Height:    height,
		Confirmed: true,
		UpdatedAt: time.Now(),
	}, ttlcache.DefaultTTL)
}

func (c *SubmissionCache) Forget(key string) {
	c.cache.Delete(key)
}
