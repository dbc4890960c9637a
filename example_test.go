package hitcount_test

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"

	"github.com/ryhazerus/hitcount"
	"github.com/ryhazerus/hitcount/store"
)

func ExampleNewService() {
	svc := hitcount.NewService(store.NewMemoryStore())

	if err := svc.WaitReady(context.Background(), hitcount.Gate{MaxAttempts: 1}); err != nil {
		fmt.Println(err)
		return
	}

	fmt.Println(svc.State())
	// Output: Ready
}

func ExampleService_Handler() {
	svc := hitcount.NewService(store.NewMemoryStore())

	srv := httptest.NewServer(svc.Handler())
	defer srv.Close()

	for i := 0; i < 3; i++ {
		resp, err := http.Get(srv.URL + "/count")
		if err != nil {
			fmt.Println(err)
			return
		}
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		fmt.Println(string(body))
	}
	// Output:
	// This page has been visited 1 times.
	// This page has been visited 2 times.
	// This page has been visited 3 times.
}

func ExampleCounterConfigFromEnv() {
	env := map[string]string{
		"REDIS_HOST": "cache.internal",
	}
	lookup := func(name string) (string, bool) {
		v, ok := env[name]
		return v, ok
	}

	cfg, err := hitcount.CounterConfigFromEnv(lookup)
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Println(cfg.Redis.Addr())
	// Output: cache.internal:6379
}
