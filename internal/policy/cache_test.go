package policy_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/agentic-insurtech/insurtech/internal/policy"
)

type countingStore struct {
	next  policy.Store
	gets  atomic.Int32
	lists atomic.Int32
	delay time.Duration
}

func (s *countingStore) Get(ctx context.Context, n string) (policy.Policy, error) {
	s.gets.Add(1)
	time.Sleep(s.delay)
	return s.next.Get(ctx, n)
}

func (s *countingStore) List(ctx context.Context) ([]policy.Policy, error) {
	s.lists.Add(1)
	return s.next.List(ctx)
}

func TestCachedStoreHitsBackingStoreOnce(t *testing.T) {
	backing := &countingStore{next: policy.NewSampleStore(), delay: 20 * time.Millisecond}
	c := policy.NewCachedStore(backing, time.Minute)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := c.Get(ctx, "POL-20250215-5678"); err != nil {
				t.Errorf("Get: %v", err)
			}
		}()
	}
	wg.Wait()

	if _, err := c.Get(ctx, "POL-20250215-5678"); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if n := backing.gets.Load(); n != 1 {
		t.Errorf("backing Get called %d times, want 1", n)
	}
}

func TestCachedStoreCachesMisses(t *testing.T) {
	backing := &countingStore{next: policy.NewSampleStore()}
	c := policy.NewCachedStore(backing, time.Minute)

	for i := 0; i < 3; i++ {
		if _, err := c.Get(context.Background(), "POL-MISSING"); !errors.Is(err, policy.ErrNotFound) {
			t.Fatalf("err = %v, want ErrNotFound", err)
		}
	}
	if n := backing.gets.Load(); n != 1 {
		t.Errorf("backing Get called %d times, want 1", n)
	}
}

func TestCachedStoreListAndInvalidate(t *testing.T) {
	backing := &countingStore{next: policy.NewSampleStore()}
	c := policy.NewCachedStore(backing, time.Minute)
	ctx := context.Background()

	first, _ := c.List(ctx)
	_, _ = c.List(ctx)
	if len(first) != 3 || backing.lists.Load() != 1 {
		t.Fatalf("list len=%d calls=%d", len(first), backing.lists.Load())
	}

	c.Invalidate()
	_, _ = c.List(ctx)
	if backing.lists.Load() != 2 {
		t.Errorf("list after invalidate calls = %d, want 2", backing.lists.Load())
	}
}

func TestServiceOverCachedStore(t *testing.T) {
	svc := policy.NewService(policy.NewCachedStore(policy.NewSampleStore(), time.Minute))
	res, err := svc.Lookup(context.Background(), policy.Query{PolicyholderName: "smith"})
	if err != nil || !res.Found || len(res.Policies) != 1 {
		t.Errorf("lookup through cache = %+v, %v", res, err)
	}
}

func TestCachedStoreIsBounded(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	backing := &countingStore{next: policy.NewSampleStore()}
	c := policy.NewCachedStore(backing, time.Minute).WithClock(func() time.Time { return now })
	ctx := context.Background()

	for i := 0; i < 5000; i++ {
		_, _ = c.Get(ctx, fmt.Sprintf("BOGUS-%d", i))
	}
	if n := c.Len(); n > 1024 {
		t.Fatalf("cache holds %d entries after 5000 misses", n)
	}

	if _, err := c.Get(ctx, "POL-20250101-1234"); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if _, err := c.Get(ctx, "POL-20250101-1234"); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if n := backing.gets.Load(); n != 5001 {
		t.Errorf("real policy should be cached once inserted, backing gets = %d", n)
	}
}

func TestCachedStoreDropsExpiredEntries(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	backing := &countingStore{next: policy.NewSampleStore()}
	c := policy.NewCachedStore(backing, time.Minute).WithClock(func() time.Time { return now })
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		_, _ = c.Get(ctx, fmt.Sprintf("BOGUS-%d", i))
	}
	if c.Len() != 10 {
		t.Fatalf("len = %d, want 10", c.Len())
	}

	now = now.Add(time.Hour)
	for i := 0; i < 10; i++ {
		if _, err := c.Get(ctx, fmt.Sprintf("BOGUS-%d", i)); !errors.Is(err, policy.ErrNotFound) {
			t.Fatalf("err = %v, want ErrNotFound", err)
		}
	}
	if n := backing.gets.Load(); n != 20 {
		t.Errorf("expired misses should be reloaded, backing gets = %d", n)
	}
	if c.Len() != 10 {
		t.Errorf("expired entries should be replaced, len = %d", c.Len())
	}
}

// gatedStore blocks every Get until release is closed and reports the
// context state it saw.
type gatedStore struct {
	next    policy.Store
	entered chan struct{}
	release chan struct{}
	ctxErr  chan error
}

func (s *gatedStore) Get(ctx context.Context, n string) (policy.Policy, error) {
	close(s.entered)
	<-s.release
	s.ctxErr <- ctx.Err()
	if err := ctx.Err(); err != nil {
		return policy.Policy{}, err
	}
	return s.next.Get(ctx, n)
}

func (s *gatedStore) List(ctx context.Context) ([]policy.Policy, error) {
	return s.next.List(ctx)
}

func TestCachedStoreSharedLoadSurvivesCallerCancel(t *testing.T) {
	backing := &gatedStore{
		next:    policy.NewSampleStore(),
		entered: make(chan struct{}),
		release: make(chan struct{}),
		ctxErr:  make(chan error, 1),
	}
	c := policy.NewCachedStore(backing, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := c.Get(ctx, "POL-20250320-9012")
		firstErr <- err
	}()
	<-backing.entered

	secondErr := make(chan error, 1)
	go func() {
		_, err := c.Get(context.Background(), "POL-20250320-9012")
		secondErr <- err
	}()

	cancel()
	close(backing.release)

	if err := <-backing.ctxErr; err != nil {
		t.Errorf("backing store saw a cancelled context: %v", err)
	}
	if err := <-secondErr; err != nil {
		t.Errorf("second caller: %v", err)
	}
	if err := <-firstErr; err != nil {
		t.Errorf("first caller: %v", err)
	}
}
