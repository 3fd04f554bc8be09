package memory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dejobratic/catalog/internal/orders/adapters/memory"
	"github.com/dejobratic/catalog/internal/orders/domain"
	"github.com/dejobratic/catalog/internal/orders/ports"
	"github.com/shopspring/decimal"
)

var (
	_ ports.OrderRepository = (*memory.Repository)(nil)
	_ ports.DailyCounter    = (*memory.DailyCounter)(nil)
	_ ports.ProfileCache    = (*memory.ProfileCache)(nil)
)

func newOrder(id, title, author, isbn string) domain.Order {
	return domain.Order{
		ID:            id,
		Title:         title,
		Author:        author,
		ISBN:          isbn,
		Category:      domain.CategoryFiction,
		Price:         decimal.RequireFromString("19.99"),
		PublishedDate: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		StockQuantity: 5,
		IsAvailable:   true,
		CreatedAt:     time.Now().UTC(),
	}
}

func TestRepository(t *testing.T) {
	t.Run("returns orders in insertion order", func(t *testing.T) {
		repo := memory.NewRepository()
		ctx := context.Background()

		for _, id := range []string{"order-1", "order-2", "order-3"} {
			if err := repo.Add(ctx, newOrder(id, "title "+id, "jane doe", "978000000000"+id[len(id)-1:])); err != nil {
				t.Fatalf("add %s: %v", id, err)
			}
		}

		orders, err := repo.GetAll(ctx)
		if err != nil {
			t.Fatalf("get all: %v", err)
		}
		if len(orders) != 3 {
			t.Fatalf("expected 3 orders, got %d", len(orders))
		}
		for i, want := range []string{"order-1", "order-2", "order-3"} {
			if orders[i].ID != want {
				t.Errorf("position %d: expected %s, got %s", i, want, orders[i].ID)
			}
		}
	})

	t.Run("snapshot is not affected by later writes", func(t *testing.T) {
		repo := memory.NewRepository()
		ctx := context.Background()
		_ = repo.Add(ctx, newOrder("order-1", "a", "jane doe", "9780000000001"))

		snapshot, _ := repo.GetAll(ctx)
		_ = repo.Add(ctx, newOrder("order-2", "b", "jane doe", "9780000000002"))
		snapshot[0].Title = "mutated"

		current, _ := repo.GetAll(ctx)
		if len(snapshot) != 1 {
			t.Errorf("expected snapshot to keep 1 order, got %d", len(snapshot))
		}
		if current[0].Title != "a" {
			t.Errorf("expected stored title to be unchanged, got %q", current[0].Title)
		}
	})

	t.Run("matches isbn ignoring separators and case", func(t *testing.T) {
		repo := memory.NewRepository()
		ctx := context.Background()
		_ = repo.Add(ctx, newOrder("order-1", "existing book", "jane doe", "978-0-111111-11-1"))

		tests := []struct {
			isbn string
			want bool
		}{
			{"978-0-111111-11-1", true},
			{"9780111111111", true},
			{"978 0111 1111 11", true},
			{"978-0-222222-22-2", false},
			{"", false},
		}
		for _, tt := range tests {
			got, err := repo.ExistsByISBN(ctx, tt.isbn)
			if err != nil {
				t.Fatalf("exists by isbn: %v", err)
			}
			if got != tt.want {
				t.Errorf("ExistsByISBN(%q) = %v, want %v", tt.isbn, got, tt.want)
			}
		}
	})

	t.Run("matches title and author ignoring case", func(t *testing.T) {
		repo := memory.NewRepository()
		ctx := context.Background()
		_ = repo.Add(ctx, newOrder("order-1", "Existing Book", "Jane Doe", "9780111111111"))

		if ok, _ := repo.ExistsByTitleAndAuthor(ctx, "existing book", "JANE DOE"); !ok {
			t.Error("expected case-insensitive match")
		}
		if ok, _ := repo.ExistsByTitleAndAuthor(ctx, "existing book", "john smith"); ok {
			t.Error("expected different author not to match")
		}
	})

	t.Run("rejects add on cancelled context", func(t *testing.T) {
		repo := memory.NewRepository()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if err := repo.Add(ctx, newOrder("order-1", "a", "jane doe", "9780000000001")); err == nil {
			t.Fatal("expected error on cancelled context")
		}
		orders, _ := repo.GetAll(context.Background())
		if len(orders) != 0 {
			t.Errorf("expected no orders, got %d", len(orders))
		}
	})

	t.Run("serializes concurrent adds", func(t *testing.T) {
		repo := memory.NewRepository()
		ctx := context.Background()

		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_ = repo.Add(ctx, newOrder("id", "t", "jane doe", "9780000000001"))
				_, _ = repo.GetAll(ctx)
			}()
		}
		wg.Wait()

		orders, _ := repo.GetAll(ctx)
		if len(orders) != 50 {
			t.Errorf("expected 50 orders, got %d", len(orders))
		}
	})
}

func TestDailyCounter(t *testing.T) {
	t.Run("counts per utc day", func(t *testing.T) {
		counter := memory.NewDailyCounter()
		morning := time.Date(2025, 3, 10, 1, 0, 0, 0, time.UTC)
		evening := time.Date(2025, 3, 10, 23, 0, 0, 0, time.UTC)
		nextDay := time.Date(2025, 3, 11, 0, 0, 1, 0, time.UTC)

		counter.Increment(morning)
		if got := counter.Increment(evening); got != 2 {
			t.Errorf("expected 2 after second increment, got %d", got)
		}
		if got := counter.Count(nextDay); got != 0 {
			t.Errorf("expected next day to start at 0, got %d", got)
		}
		if got := counter.Count(morning); got != 2 {
			t.Errorf("expected 2, got %d", got)
		}
	})

	t.Run("normalizes zones to utc", func(t *testing.T) {
		counter := memory.NewDailyCounter()
		zone := time.FixedZone("UTC-5", -5*60*60)
		local := time.Date(2025, 3, 10, 22, 0, 0, 0, zone)

		counter.Increment(local)
		if got := counter.Count(time.Date(2025, 3, 11, 12, 0, 0, 0, time.UTC)); got != 1 {
			t.Errorf("expected increment to land on utc date, got %d", got)
		}
	})

	t.Run("increments atomically under contention", func(t *testing.T) {
		counter := memory.NewDailyCounter()
		day := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

		var wg sync.WaitGroup
		for i := 0; i < 100; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				counter.Increment(day)
			}()
		}
		wg.Wait()

		if got := counter.Count(day); got != 100 {
			t.Errorf("expected 100, got %d", got)
		}
	})
}

func TestProfileCache(t *testing.T) {
	ctx := context.Background()

	t.Run("stores isolated copies and removes", func(t *testing.T) {
		cache := memory.NewProfileCache()

		if _, ok, _ := cache.Get(ctx, ports.AllOrdersCacheKey); ok {
			t.Fatal("expected empty cache miss")
		}

		gen, _ := cache.Generation(ctx, ports.AllOrdersCacheKey)
		profiles := []domain.OrderProfile{{ID: "order-1", Title: "a"}}
		if stored, err := cache.Set(ctx, ports.AllOrdersCacheKey, gen, profiles); err != nil || !stored {
			t.Fatalf("set: stored=%v err=%v", stored, err)
		}
		profiles[0].Title = "mutated"

		got, ok, err := cache.Get(ctx, ports.AllOrdersCacheKey)
		if err != nil || !ok {
			t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
		}
		if got[0].Title != "a" {
			t.Errorf("expected cached copy to be isolated, got %q", got[0].Title)
		}

		if err := cache.Remove(ctx, ports.AllOrdersCacheKey); err != nil {
			t.Fatalf("remove: %v", err)
		}
		if _, ok, _ := cache.Get(ctx, ports.AllOrdersCacheKey); ok {
			t.Error("expected miss after remove")
		}
	})

	t.Run("rejects lists computed before a remove", func(t *testing.T) {
		cache := memory.NewProfileCache()

		before, _ := cache.Generation(ctx, ports.AllOrdersCacheKey)
		if err := cache.Remove(ctx, ports.AllOrdersCacheKey); err != nil {
			t.Fatalf("remove: %v", err)
		}

		stored, err := cache.Set(ctx, ports.AllOrdersCacheKey, before, []domain.OrderProfile{{ID: "stale"}})
		if err != nil || stored {
			t.Fatalf("expected stale set to be skipped, got stored=%v err=%v", stored, err)
		}
		if _, ok, _ := cache.Get(ctx, ports.AllOrdersCacheKey); ok {
			t.Error("expected no entry after skipped set")
		}

		after, _ := cache.Generation(ctx, ports.AllOrdersCacheKey)
		if after == before {
			t.Fatal("expected remove to advance the generation")
		}
		if stored, _ := cache.Set(ctx, ports.AllOrdersCacheKey, after, []domain.OrderProfile{{ID: "fresh"}}); !stored {
			t.Error("expected set at current generation to store")
		}
	})

	t.Run("generations are per key", func(t *testing.T) {
		cache := memory.NewProfileCache()
		gen, _ := cache.Generation(ctx, ports.AllOrdersCacheKey)

		_ = cache.Remove(ctx, "other")

		if stored, _ := cache.Set(ctx, ports.AllOrdersCacheKey, gen, nil); !stored {
			t.Error("expected remove of another key to leave all_orders writable")
		}
	})
}
