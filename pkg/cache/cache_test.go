package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	hgerrors "github.com/matzehuels/hexglobe/pkg/errors"
)

func TestNullCache(t *testing.T) {
	c := NewNullCache()
	ctx := context.Background()

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set() error = %v", err)
	}
	data, ok, err := c.Get(ctx, "key")
	if err != nil || ok || data != nil {
		t.Errorf("Get() = %v, %v, %v, want nil, false, nil", data, ok, err)
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete() error = %v", err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatalf("NewFileCache() error = %v", err)
	}

	if _, ok, _ := c.Get(ctx, "missing"); ok {
		t.Error("Get(missing) hit, want miss")
	}
	if err := c.Set(ctx, "neighbors:abc", []byte(`{"x":1}`), time.Hour); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	data, ok, err := c.Get(ctx, "neighbors:abc")
	if err != nil || !ok {
		t.Fatalf("Get() = %v, %v, want hit", ok, err)
	}
	if string(data) != `{"x":1}` {
		t.Errorf("Get() = %s, want {\"x\":1}", data)
	}
	if err := c.Delete(ctx, "neighbors:abc"); err != nil {
		t.Errorf("Delete() error = %v", err)
	}
	if _, ok, _ := c.Get(ctx, "neighbors:abc"); ok {
		t.Error("Get() after Delete hit, want miss")
	}
	if err := c.Delete(ctx, "neighbors:abc"); err != nil {
		t.Errorf("Delete(missing) error = %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	if err := c.Set(ctx, "k", []byte("v"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Error("Get() expired entry hit, want miss")
	}
	if _, err := os.Stat(c.path("k")); !os.IsNotExist(err) {
		t.Errorf("expired entry file still present: %v", err)
	}

	if err := c.Set(ctx, "forever", []byte("v"), 0); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := c.Get(ctx, "forever"); !ok {
		t.Error("Get() zero-ttl entry missed, want hit")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	path := c.path("k")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, ok, err := c.Get(ctx, "k"); ok || err != nil {
		t.Errorf("Get(corrupt) = %v, %v, want miss without error", ok, err)
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), 0); err != nil {
			t.Fatal(err)
		}
	}
	n, err := c.Clear()
	if err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if n != 3 {
		t.Errorf("Clear() = %d, want 3", n)
	}
	if _, ok, _ := c.Get(ctx, "a"); ok {
		t.Error("Get() after Clear hit, want miss")
	}
}

func TestRedisCacheUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := NewRedisCache(ctx, RedisOptions{Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond})
	if err == nil {
		t.Error("NewRedisCache() error = nil, want connection error")
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("test"))
	h2 := Hash([]byte("test"))
	h3 := Hash([]byte("other"))

	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length = %d, want 64", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"geometry", k.GeometryKey("boundary", "89283082803ffff", ""), "geom:boundary:89283082803ffff"},
		{"geometry arg", k.GeometryKey("ring", "89283082803ffff", "2"), "geom:ring:89283082803ffff:2"},
		{"neighbors", k.NeighborsKey("89283082803ffff"), "neighbors:89283082803ffff"},
		{"ladder", k.LadderKey("89283082803ffff"), "ladder:89283082803ffff"},
		{"locate", k.LocateKey(37.5, -122.25, 9), "locate:9:37.5000000,-122.2500000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("key = %q, want %q", tt.got, tt.want)
			}
		})
	}

	a := k.LayoutKey("c", LayoutKeyOpts{Width: 3, Height: 3, MaxRings: 16})
	b := k.LayoutKey("c", LayoutKeyOpts{Width: 5, Height: 3, MaxRings: 16})
	if !strings.HasPrefix(a, "layout:") {
		t.Errorf("LayoutKey() = %q, want layout: prefix", a)
	}
	if a == b {
		t.Error("LayoutKey() should differ for different widths")
	}
	if a != k.LayoutKey("c", LayoutKeyOpts{Width: 3, Height: 3, MaxRings: 16}) {
		t.Error("LayoutKey() should be deterministic")
	}
}

func TestScopedKeyer(t *testing.T) {
	k := NewScopedKeyer(NewDefaultKeyer(), "prod:")
	if got := k.NeighborsKey("x"); got != "prod:neighbors:x" {
		t.Errorf("NeighborsKey() = %q, want prod:neighbors:x", got)
	}
	if got := k.LadderKey("x"); got != "prod:ladder:x" {
		t.Errorf("LadderKey() = %q, want prod:ladder:x", got)
	}
	if got := k.GeometryKey("centroid", "x", ""); got != "prod:geom:centroid:x" {
		t.Errorf("GeometryKey() = %q, want prod:geom:centroid:x", got)
	}
	if got := k.LayoutKey("x", LayoutKeyOpts{}); !strings.HasPrefix(got, "prod:layout:") {
		t.Errorf("LayoutKey() = %q, want prod:layout: prefix", got)
	}
	if got := k.LocateKey(0, 0, 1); !strings.HasPrefix(got, "prod:locate:") {
		t.Errorf("LocateKey() = %q, want prod:locate: prefix", got)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	k := NewScopedKeyer(nil, "p:")
	if got := k.NeighborsKey("x"); got != "p:neighbors:x" {
		t.Errorf("NeighborsKey() = %q, want p:neighbors:x", got)
	}
}

func TestRetryableError(t *testing.T) {
	base := errors.New("boom")
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should be nil")
	}
	if !IsRetryable(Retryable(base)) {
		t.Error("IsRetryable(Retryable(err)) = false, want true")
	}
	if IsRetryable(base) {
		t.Error("IsRetryable(plain) = true, want false")
	}
	if !IsRetryable(hgerrors.New(hgerrors.ErrCodeGeometryUnavailable, "down")) {
		t.Error("IsRetryable(GEOMETRY_UNAVAILABLE) = false, want true")
	}
	if !errors.Is(Retryable(base), base) {
		t.Error("Retryable should unwrap to the cause")
	}
}

func withFastRetry(t *testing.T) {
	t.Helper()
	attempts, delay := RetryAttempts, RetryDelay
	RetryAttempts, RetryDelay = 3, time.Millisecond
	t.Cleanup(func() { RetryAttempts, RetryDelay = attempts, delay })
}

func TestRetryWithBackoff(t *testing.T) {
	withFastRetry(t)
	ctx := context.Background()

	t.Run("succeeds after retry", func(t *testing.T) {
		calls := 0
		err := RetryWithBackoff(ctx, func() error {
			calls++
			if calls < 2 {
				return Retryable(errors.New("flaky"))
			}
			return nil
		})
		if err != nil || calls != 2 {
			t.Errorf("RetryWithBackoff() = %v after %d calls, want nil after 2", err, calls)
		}
	})

	t.Run("stops on permanent error", func(t *testing.T) {
		calls := 0
		err := RetryWithBackoff(ctx, func() error {
			calls++
			return errors.New("permanent")
		})
		if err == nil || calls != 1 {
			t.Errorf("RetryWithBackoff() = %v after %d calls, want error after 1", err, calls)
		}
	})

	t.Run("exhausts attempts", func(t *testing.T) {
		calls := 0
		err := RetryWithBackoff(ctx, func() error {
			calls++
			return hgerrors.New(hgerrors.ErrCodeGeometryUnavailable, "down")
		})
		if !hgerrors.Is(err, hgerrors.ErrCodeGeometryUnavailable) || calls != 3 {
			t.Errorf("RetryWithBackoff() = %v after %d calls, want GEOMETRY_UNAVAILABLE after 3", err, calls)
		}
	})
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	attempts, delay := RetryAttempts, RetryDelay
	RetryDelay = time.Hour
	t.Cleanup(func() { RetryAttempts, RetryDelay = attempts, delay })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := RetryWithBackoff(ctx, func() error { return Retryable(errors.New("x")) })
	if !errors.Is(err, context.Canceled) {
		t.Errorf("RetryWithBackoff() = %v, want context.Canceled", err)
	}
}
