package engine

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math"
	"time"

	cache "github.com/patrickmn/go-cache"

	"github.com/yourusername/risk-optima/internal/models"
)

// metricsCache memoizes performance metrics per ledger. Ledgers are
// identified by a content hash, so equal ledgers hit regardless of how
// the caller obtained them.
type metricsCache struct {
	cache *cache.Cache
}

func newMetricsCache(ttl time.Duration) *metricsCache {
	return &metricsCache{cache: cache.New(ttl, 2*ttl)}
}

func (c *metricsCache) get(key string) *models.PerformanceMetrics {
	if value, found := c.cache.Get(key); found {
		if metrics, ok := value.(*models.PerformanceMetrics); ok {
			return metrics
		}
	}
	return nil
}

func (c *metricsCache) set(key string, metrics *models.PerformanceMetrics) {
	c.cache.SetDefault(key, metrics)
}

// ledgerHash produces a stable content hash of a ledger plus the
// analysis mode, for cache keying.
func ledgerHash(trades []models.Trade, robust bool) string {
	hasher := sha256.New()
	var buf [8]byte
	for _, trade := range trades {
		hasher.Write([]byte(trade.Symbol))
		hasher.Write([]byte(trade.Direction))
		for _, value := range []float64{trade.Volume, trade.OpenPrice, trade.ClosePrice, trade.Profit, trade.Commission, trade.Swap} {
			binary.LittleEndian.PutUint64(buf[:], math.Float64bits(value))
			hasher.Write(buf[:])
		}
		binary.LittleEndian.PutUint64(buf[:], uint64(trade.CloseTime.UnixNano()))
		hasher.Write(buf[:])
	}
	if robust {
		hasher.Write([]byte{1})
	}
	return fmt.Sprintf("%x", hasher.Sum(nil))
}
