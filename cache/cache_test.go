package cache

import (
	"testing"
	"time"

	"github.com/dhchun1203/Trend-Analyzer-project/config"
	"github.com/dhchun1203/Trend-Analyzer-project/model"
)

func newTestCache(t *testing.T, ttlSeconds int) *Cache {
	t.Helper()
	cache, err := New(config.CacheConfig{
		Enabled:     true,
		MaxSizeMB:   10,
		TTLSeconds:  ttlSeconds,
		CounterSize: 1000,
	})
	if err != nil {
		t.Fatalf("Failed to create cache: %v", err)
	}
	t.Cleanup(cache.Close)
	return cache
}

func sampleList(category string) *model.ProductList {
	return &model.ProductList{
		Items: []model.Product{
			{Rank: 1, ProductName: "로봇청소기 A", Price: "399000", MallName: "몰", Category: category},
			{Rank: 2, ProductName: "무선청소기 B", Price: "259000", MallName: "몰", Category: category},
		},
		Count:    2,
		Category: category,
	}
}

func TestCacheProductLists(t *testing.T) {
	cache := newTestCache(t, 60)

	t.Run("Set_and_Get", func(t *testing.T) {
		key := CategoryKey("가전제품")
		if !cache.SetProductList(key, sampleList("가전제품")) {
			t.Fatal("Failed to set product list")
		}
		cache.Wait()

		list, found := cache.GetProductList(key)
		if !found {
			t.Fatal("Product list not found in cache")
		}
		if list.Count != 2 || list.Items[0].ProductName != "로봇청소기 A" {
			t.Errorf("Unexpected cached list: %+v", list)
		}
	})

	t.Run("Keys_are_distinct", func(t *testing.T) {
		if _, found := cache.GetProductList(CategoryKey("뷰티")); found {
			t.Error("Expected miss for an uncached category")
		}
		if _, found := cache.GetProductList(PopularKey()); found {
			t.Error("Expected miss for popular products")
		}
	})

	t.Run("Wrong_type_is_a_miss", func(t *testing.T) {
		cache.Set("products:category:패션", "not a list", 1)
		cache.Wait()

		if _, found := cache.GetProductList(CategoryKey("패션")); found {
			t.Error("Non-list value should not be returned as a list")
		}
	})

	t.Run("Nil_list_not_stored", func(t *testing.T) {
		if cache.SetProductList(PopularKey(), nil) {
			t.Error("Nil list should be rejected")
		}
	})

	t.Run("Delete", func(t *testing.T) {
		key := CategoryKey("주방용품")
		cache.SetProductList(key, sampleList("주방용품"))
		cache.Wait()

		cache.Delete(key)
		if _, found := cache.GetProductList(key); found {
			t.Error("List should not exist after deletion")
		}
	})
}

func TestCacheTTL(t *testing.T) {
	cache := newTestCache(t, 1)

	cache.SetProductList(PopularKey(), sampleList(""))
	cache.Wait()

	if _, found := cache.GetProductList(PopularKey()); !found {
		t.Error("List should exist immediately after setting")
	}

	// Wait for TTL to expire
	time.Sleep(1200 * time.Millisecond)

	if _, found := cache.GetProductList(PopularKey()); found {
		t.Error("List should have expired after TTL")
	}
}

func TestCacheMetrics(t *testing.T) {
	cache := newTestCache(t, 60)

	cache.SetProductList(CategoryKey("가전제품"), sampleList("가전제품"))
	cache.Wait()

	cache.GetProductList(CategoryKey("가전제품")) // Hit
	cache.GetProductList(CategoryKey("뷰티"))    // Miss

	metrics := cache.GetMetricsSnapshot()
	if !metrics.Enabled {
		t.Error("Expected enabled cache metrics")
	}
	if metrics.TTLSeconds != 60 {
		t.Errorf("Expected TTL 60 seconds, got %d", metrics.TTLSeconds)
	}

	// Ristretto metrics are updated asynchronously
	t.Logf("Cache metrics: Hits=%d, Misses=%d, KeysAdded=%d, HitRatio=%.2f",
		metrics.Hits, metrics.Misses, metrics.KeysAdded, metrics.HitRatio)
}

func TestCacheDisabled(t *testing.T) {
	cache, err := New(config.CacheConfig{Enabled: false, TTLSeconds: 30})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if cache.SetProductList(PopularKey(), sampleList("")) {
		t.Error("Disabled cache should not store")
	}
	if _, found := cache.GetProductList(PopularKey()); found {
		t.Error("Disabled cache should always miss")
	}
	if m := cache.GetMetricsSnapshot(); m.Enabled || m.TTLSeconds != 30 {
		t.Errorf("Unexpected metrics for disabled cache: %+v", m)
	}
}

func TestCacheNilHandling(t *testing.T) {
	var cache *Cache

	// All operations should be safe on a nil cache
	if _, found := cache.Get("key"); found {
		t.Error("Get should miss on nil cache")
	}
	if cache.Set("key", "value", 1) {
		t.Error("Set should return false on nil cache")
	}
	cache.Delete("key")
	cache.Wait()
	cache.Close()

	if metrics := cache.GetMetricsSnapshot(); metrics.Hits != 0 {
		t.Error("Nil cache should return zero metrics")
	}
}
