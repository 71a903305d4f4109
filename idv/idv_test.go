package idv

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestVerdictMapping(t *testing.T) {
	cases := []struct {
		result string
		want   Verdict
	}{
		{"verified_eligible", Eligible},
		{"verified_but_over_18", EligibleOver18},
		{"needs_submission", NotEligible},
		{"", NotEligible},
	}

	for _, tc := range cases {
		t.Run(tc.result, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "U123", r.URL.Query().Get("slack_id"))
				fmt.Fprintf(w, `{"result":%q}`, tc.result)
			}))
			defer server.Close()

			client := NewClient(server.URL, NewMemoryCache(time.Minute))
			assert.Equal(t, tc.want, client.Verdict(context.Background(), "U123"))
		})
	}
}

func TestVerdictFailsClosed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, NewMemoryCache(time.Minute))
	assert.Equal(t, NotEligible, client.Verdict(context.Background(), "U123"))
}

func TestVerdictFailsClosedOnMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "not json")
	}))
	defer server.Close()

	client := NewClient(server.URL, NewMemoryCache(time.Minute))
	assert.Equal(t, NotEligible, client.Verdict(context.Background(), "U123"))
}

func TestVerdictCached(t *testing.T) {
	var hits atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		fmt.Fprint(w, `{"result":"verified_eligible"}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, NewMemoryCache(time.Minute))
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		assert.Equal(t, Eligible, client.Verdict(ctx, "U123"))
	}
	assert.Equal(t, int64(1), hits.Load())

	// A different user is a separate cache key.
	client.Verdict(ctx, "U456")
	assert.Equal(t, int64(2), hits.Load())
}

func TestMemoryCacheExpiry(t *testing.T) {
	cache := NewMemoryCache(10 * time.Millisecond)
	ctx := context.Background()

	cache.Put(ctx, "U1", Eligible)
	v, ok := cache.Get(ctx, "U1")
	assert.True(t, ok)
	assert.Equal(t, Eligible, v)

	time.Sleep(20 * time.Millisecond)
	_, ok = cache.Get(ctx, "U1")
	assert.False(t, ok)
}

func TestMeetsLevel(t *testing.T) {
	cases := []struct {
		verdict Verdict
		level   int
		want    bool
	}{
		{Eligible, LevelOff, true},
		{NotEligible, LevelOff, true},
		{Eligible, LevelRequired, true},
		{EligibleOver18, LevelRequired, true},
		{NotEligible, LevelRequired, false},
		{Eligible, LevelUnder18, true},
		{EligibleOver18, LevelUnder18, false},
		{NotEligible, LevelUnder18, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, MeetsLevel(tc.verdict, tc.level),
			"verdict %s level %d", tc.verdict, tc.level)
	}
}
