package cache

import (
	"fmt"
	"sync"
	"testing"

	"github.com/example/shop-fulfiller/internal/domain"
)

func TestMemorySessionCache(t *testing.T) {
	c := NewMemorySessionCache()
	if _, ok := c.AccessToken("demo.myshopify.com"); ok {
		t.Fatal("empty cache returned a token")
	}

	c.Set("demo.myshopify.com", domain.ShopSession{Shop: "demo.myshopify.com", AccessToken: "shpat_1"})
	if tok, ok := c.AccessToken("demo.myshopify.com"); !ok || tok != "shpat_1" {
		t.Errorf("AccessToken() = %q, %v", tok, ok)
	}

	c.Set("blank.myshopify.com", domain.ShopSession{Shop: "blank.myshopify.com"})
	if _, ok := c.AccessToken("blank.myshopify.com"); ok {
		t.Error("session without token should not yield one")
	}

	c.Delete("demo.myshopify.com")
	if _, ok := c.Get("demo.myshopify.com"); ok {
		t.Error("Delete() left the session")
	}
}

func TestMemorySessionCacheConcurrent(t *testing.T) {
	c := NewMemorySessionCache()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			shop := fmt.Sprintf("shop-%d.myshopify.com", i)
			for j := 0; j < 100; j++ {
				c.Set(shop, domain.ShopSession{Shop: shop, AccessToken: "t"})
				_, _ = c.AccessToken(shop)
			}
		}(i)
	}
	wg.Wait()
	for i := 0; i < 8; i++ {
		if _, ok := c.Get(fmt.Sprintf("shop-%d.myshopify.com", i)); !ok {
			t.Errorf("shop-%d missing", i)
		}
	}
}
