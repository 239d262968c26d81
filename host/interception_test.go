package host_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"gitlab.com/schemeguard/filter"
	"gitlab.com/schemeguard/guardk"
	"gitlab.com/schemeguard/host"
	"gitlab.com/schemeguard/mock"
)

func filterChain() *guardk.Chain {
	chain := &guardk.Chain{}
	chain.AddReqHandler(filter.Handler(filter.Classify))
	return chain
}

func TestHandlePaused(t *testing.T) {
	resolver := mock.MakeMockResolver()
	i := host.NewInterceptor(filterChain(), resolver, zerolog.Nop())

	var inputs = []struct {
		id     string
		url    string
		cancel bool
	}{
		{"1", "file:///game/www/index.html", false},
		{"2", "chrome-extension://abcdefghijklmnop/bg.js", false},
		{"3", "https://example.com/payload.exe", true},
		{"4", "wss://example.com/c2", true},
		{"5", "data:text/plain;base64,SGVsbG8=", true},
		{"6", "not a url", false},
	}
	for _, in := range inputs {
		i.HandlePaused(mock.MakeRequestPausedPayload(in.id, in.url, "Other"))
	}

	for _, in := range inputs {
		reason, failed := resolver.Failed[in.id]
		if failed != in.cancel {
			t.Fatalf("%s: expected cancel %v: %s", in.url, in.cancel, spew.Sdump(resolver))
		}
		if failed && reason != host.BlockedByClient {
			t.Fatalf("%s: expected reason %s got %s\n", in.url, host.BlockedByClient, reason)
		}
	}
	if len(resolver.Continued) != 3 {
		t.Fatalf("expected 3 continued requests got %d\n", len(resolver.Continued))
	}

	stats := i.Stats()
	if stats.Allowed != 3 || stats.Denied != 3 || stats.Errors != 0 {
		t.Fatalf("unexpected stats: %s", spew.Sdump(stats))
	}
}

func TestHandlePausedBadPayload(t *testing.T) {
	resolver := mock.MakeMockResolver()
	i := host.NewInterceptor(filterChain(), resolver, zerolog.Nop())
	i.HandlePaused([]byte("{"))

	if len(resolver.Continued) != 0 || len(resolver.Failed) != 0 {
		t.Fatalf("bad payload should not be resolved")
	}
	if i.Stats().Errors != 1 {
		t.Fatalf("expected 1 error got %d\n", i.Stats().Errors)
	}
}

func TestHandlePausedResolverError(t *testing.T) {
	resolver := mock.MakeMockResolver()
	resolver.FailFn = func(requestID, reason string) error {
		return errors.New("target closed")
	}
	i := host.NewInterceptor(filterChain(), resolver, zerolog.Nop())
	i.HandlePaused(mock.MakeRequestPausedPayload("1", "http://example.com", "Document"))

	stats := i.Stats()
	if stats.Denied != 1 || stats.Errors != 1 {
		t.Fatalf("unexpected stats: %s", spew.Sdump(stats))
	}
}

func TestHandlePausedConcurrent(t *testing.T) {
	resolver := mock.MakeMockResolver()
	i := host.NewInterceptor(filterChain(), resolver, zerolog.Nop())

	wg := &sync.WaitGroup{}
	for n := 0; n < 100; n++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			u := fmt.Sprintf("file:///game/www/img/%d.png", n)
			if n%2 == 0 {
				u = fmt.Sprintf("https://example.com/%d", n)
			}
			i.HandlePaused(mock.MakeRequestPausedPayload(fmt.Sprintf("%d", n), u, "Image"))
		}(n)
	}
	wg.Wait()

	stats := i.Stats()
	if stats.Allowed != 50 || stats.Denied != 50 {
		t.Fatalf("unexpected stats: %s", spew.Sdump(stats))
	}
	if len(resolver.Failed) != 50 {
		t.Fatalf("expected 50 failed requests got %d\n", len(resolver.Failed))
	}
}

func TestStatsAdd(t *testing.T) {
	a := host.Stats{Allowed: 2, Denied: 1}
	b := host.Stats{Allowed: 1, Denied: 4, Errors: 1}
	got := a.Add(b)
	if got != (host.Stats{Allowed: 3, Denied: 5, Errors: 1}) {
		t.Fatalf("unexpected sum %#v\n", got)
	}
	if a.Allowed != 2 {
		t.Fatalf("add must not modify the receiver")
	}
}
