package cache

import (
	"time"

	"go.uber.org/zap"

	"github.com/FACorreiaa/go-wander/internal/app/models"
)

// CacheManager holds the generated-result caches.
type CacheManager struct {
	Itineraries  *UnifiedCache[models.TripItinerary]
	LanguageTips *UnifiedCache[[]models.LanguageTip]
	Packing      *UnifiedCache[[]models.PackingCategory]
	Playlists    *UnifiedCache[[]models.Song]
}

// NewCacheManager creates the caches. Itineraries use ttl; language tips
// rarely change, so they live four times as long.
func NewCacheManager(ttl time.Duration, logger *zap.Logger) *CacheManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheManager{
		Itineraries:  NewUnifiedCache[models.TripItinerary](ttl, "itineraries", logger),
		LanguageTips: NewUnifiedCache[[]models.LanguageTip](4*ttl, "language_tips", logger),
		Packing:      NewUnifiedCache[[]models.PackingCategory](ttl, "packing", logger),
		Playlists:    NewUnifiedCache[[]models.Song](ttl, "playlists", logger),
	}
}

func (cm *CacheManager) GetAllMetrics() map[string]CacheMetrics {
	return map[string]CacheMetrics{
		"itineraries":   cm.Itineraries.GetMetrics(),
		"language_tips": cm.LanguageTips.GetMetrics(),
		"packing":       cm.Packing.GetMetrics(),
		"playlists":     cm.Playlists.GetMetrics(),
	}
}

// ClearAll clears all caches
func (cm *CacheManager) ClearAll() {
	cm.Itineraries.Clear()
	cm.LanguageTips.Clear()
	cm.Packing.Clear()
	cm.Playlists.Clear()
}
