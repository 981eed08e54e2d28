package cache

import (
	"sync"
	"time"

	"github.com/safebite/backend/internal/domain"
)

// cacheItem represents a single cached report with expiration
type cacheItem struct {
	report     *domain.NutritionReport
	expiration time.Time
}

// ReportCache is a thread-safe in-memory cache for shaped nutrition
// documents, keyed by food item id. Admin writes must Delete the key.
type ReportCache struct {
	data  map[uint]cacheItem
	ttl   time.Duration
	mutex sync.RWMutex
}

// NewReportCache creates a report cache with the given TTL.
func NewReportCache(ttl time.Duration) *ReportCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	c := &ReportCache{
		data: make(map[uint]cacheItem),
		ttl:  ttl,
	}

	// Cleanup goroutine removes expired entries every 10 minutes.
	go c.cleanupExpired()

	return c
}

// Get retrieves a cached report.
func (c *ReportCache) Get(foodItemID uint) (*domain.NutritionReport, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	item, exists := c.data[foodItemID]
	if !exists || time.Now().After(item.expiration) {
		return nil, false
	}
	return item.report, true
}

// Set stores a report with the cache TTL.
func (c *ReportCache) Set(foodItemID uint, report *domain.NutritionReport) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.data[foodItemID] = cacheItem{
		report:     report,
		expiration: time.Now().Add(c.ttl),
	}
}

// Delete removes a cached report, e.g. after an admin update.
func (c *ReportCache) Delete(foodItemID uint) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.data, foodItemID)
}

func (c *ReportCache) cleanupExpired() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		c.mutex.Lock()
		for key, item := range c.data {
			if now.After(item.expiration) {
				delete(c.data, key)
			}
		}
		c.mutex.Unlock()
	}
}
