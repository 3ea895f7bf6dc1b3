package index

import (
	"sync"
	"testing"

	"github.com/MrSnakeDoc/newsstand/internal/domain"
)

func TestNewMemoryIndex(t *testing.T) {
	index := NewMemoryIndex()
	if index == nil {
		t.Fatal("NewMemoryIndex() returned nil")
	}
	if got := index.Count(); got != 0 {
		t.Errorf("NewMemoryIndex() should start empty, got %v", got)
	}
}

func TestRemember(t *testing.T) {
	index := NewMemoryIndex()

	index.Remember([]domain.Article{
		{URL: "https://example.com/a", Title: "A"},
		{URL: "https://example.com/b", Title: "B"},
	})

	if got := index.Count(); got != 2 {
		t.Errorf("Remember() stored %v articles, want 2", got)
	}

	a, ok := index.Get("https://example.com/a")
	if !ok {
		t.Fatal("Get() should find a remembered article")
	}
	if a.Title != "A" {
		t.Errorf("Get() returned title %q, want %q", a.Title, "A")
	}
}

func TestRememberSkipsEmptyURL(t *testing.T) {
	index := NewMemoryIndex()

	index.Remember([]domain.Article{
		{URL: "", Title: "no key"},
		{URL: "https://example.com/a", Title: "A"},
	})

	if got := index.Count(); got != 1 {
		t.Errorf("Remember() stored %v articles, want 1", got)
	}
}

func TestRememberIsIdempotent(t *testing.T) {
	index := NewMemoryIndex()

	article := domain.Article{URL: "https://example.com/a", Title: "A"}
	index.Remember([]domain.Article{article})
	index.Remember([]domain.Article{article})

	if got := index.Count(); got != 1 {
		t.Errorf("re-remembering same URL stored %v articles, want 1", got)
	}
}

func TestResolve(t *testing.T) {
	index := NewMemoryIndex()

	index.Remember([]domain.Article{
		{URL: "https://example.com/a", Title: "A"},
		{URL: "https://example.com/b", Title: "B"},
	})

	got := index.Resolve([]string{
		"https://example.com/b",
		"https://example.com/missing",
		"https://example.com/a",
	})
	if len(got) != 2 {
		t.Fatalf("Resolve() returned %v articles, want 2", len(got))
	}
	if got[0].Title != "B" || got[1].Title != "A" {
		t.Errorf("Resolve() should preserve input order, got %q then %q", got[0].Title, got[1].Title)
	}
}

func TestGetMissing(t *testing.T) {
	index := NewMemoryIndex()

	if _, ok := index.Get("https://example.com/nope"); ok {
		t.Error("Get() on an unknown URL should report not found")
	}
}

func TestConcurrentAccess(t *testing.T) {
	index := NewMemoryIndex()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			index.Remember([]domain.Article{{URL: "https://example.com/a", Title: "A"}})
		}()
		go func() {
			defer wg.Done()
			index.GetAll()
		}()
	}
	wg.Wait()

	if got := index.Count(); got != 1 {
		t.Errorf("concurrent Remember() stored %v articles, want 1", got)
	}
}
