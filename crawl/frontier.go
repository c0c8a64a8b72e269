package crawl

import (
	"container/heap"
	"strings"
	"sync"

	"github.com/websift/websift/bloom"
)

// Item is a URL queued for deep crawling, with the depth at which
// it was discovered. Shallower items carry higher priority so the crawl
// proceeds breadth-first.
type Item struct {
	URL      string
	Depth    int
	Priority int
}

// Frontier is an in-memory crawl frontier with a priority queue and
// Bloom filter deduplication. It is safe for concurrent use by multiple
// goroutines.
type Frontier struct {
	mu    sync.Mutex
	seen  *bloom.Filter
	queue *itemHeap
}

// NewFrontier creates a Frontier sized for n expected URLs with the
// given false positive rate for deduplication.
func NewFrontier(n uint, fpRate float64) *Frontier {
	h := &itemHeap{}
	heap.Init(h)
	return &Frontier{
		seen:  bloom.NewFilter(n, fpRate),
		queue: h,
	}
}

// Push adds an item to the frontier.
// Returns false if the URL has already been seen. URL fragments are
// stripped before deduplication, so URLs differing only by fragment are
// considered duplicates.
func (f *Frontier) Push(item Item) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	url := stripFragment(item.URL)
	if f.seen.Test(url) {
		return false
	}
	f.seen.Add(url)

	item.URL = url
	heap.Push(f.queue, item)
	return true
}

// Pop returns the next item by priority.
// The bool result is false if the frontier is empty.
func (f *Frontier) Pop() (Item, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.queue.Len() == 0 {
		return Item{}, false
	}
	item, _ := heap.Pop(f.queue).(Item)
	return item, true
}

// Len returns the number of URLs in the queue.
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queue.Len()
}

// Seen returns true if the URL has been processed or queued.
// URL fragments are stripped before checking.
func (f *Frontier) Seen(rawURL string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seen.Test(stripFragment(rawURL))
}

func stripFragment(url string) string {
	if idx := strings.Index(url, "#"); idx != -1 {
		return url[:idx]
	}
	return url
}

// itemHeap implements heap.Interface for the crawl item priority queue.
// Higher priority items are popped first.
type itemHeap []Item

func (h itemHeap) Len() int { return len(h) }

// Less returns true if i has higher priority than j (max-heap).
func (h itemHeap) Less(i, j int) bool {
	return h[i].Priority > h[j].Priority
}

func (h itemHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *itemHeap) Push(x any) {
	item, _ := x.(Item)
	*h = append(*h, item)
}

func (h *itemHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[0 : n-1]
	return x
}
