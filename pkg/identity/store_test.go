package identity

import (
	"fmt"
	"regexp"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_EnsureUserIdempotent(t *testing.T) {
	store := NewStore()

	first := store.EnsureUser(42)
	require.Equal(t, int64(42), first.ID)
	require.NotEmpty(t, first.Color)

	for i := 0; i < 20; i++ {
		again := store.EnsureUser(42)
		assert.Equal(t, first, again)
	}
	assert.Equal(t, 1, store.Len())
}

func TestStore_EnsureUserDistinctIDs(t *testing.T) {
	calls := 0
	store := NewStore(WithColorFunc(func() string {
		calls++
		return fmt.Sprintf("#%06x", calls)
	}))

	a := store.EnsureUser(1)
	b := store.EnsureUser(2)

	assert.Equal(t, "#000001", a.Color)
	assert.Equal(t, "#000002", b.Color)
	assert.Equal(t, 2, store.Len())
}

func TestStore_EnsureUserConcurrent(t *testing.T) {
	store := NewStore()

	const goroutines = 50
	results := make([]User, goroutines)

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = store.EnsureUser(7)
		}(i)
	}
	wg.Wait()

	require.Equal(t, 1, store.Len())
	for _, u := range results {
		assert.Equal(t, results[0], u)
	}
}

func TestStore_Lookup(t *testing.T) {
	store := NewStore()

	_, ok := store.Lookup(5)
	assert.False(t, ok)

	created := store.EnsureUser(5)
	got, ok := store.Lookup(5)
	require.True(t, ok)
	assert.Equal(t, created, got)
}

func TestRandomInternetColor_Format(t *testing.T) {
	hexColor := regexp.MustCompile(`^#[0-9a-f]{6}$`)
	for i := 0; i < 100; i++ {
		c := RandomInternetColor()
		assert.Regexp(t, hexColor, c)
	}
}

func TestHSLToRGB(t *testing.T) {
	tests := []struct {
		name    string
		h, s, l float64
		r, g, b uint8
	}{
		{"red", 0, 1, 0.5, 255, 0, 0},
		{"green", 120, 1, 0.5, 0, 255, 0},
		{"blue", 240, 1, 0.5, 0, 0, 255},
		{"white", 0, 0, 1, 255, 255, 255},
		{"black", 0, 0, 0, 0, 0, 0},
		{"gray", 0, 0, 0.5, 128, 128, 128},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, g, b := hslToRGB(tt.h, tt.s, tt.l)
			assert.Equal(t, tt.r, r)
			assert.Equal(t, tt.g, g)
			assert.Equal(t, tt.b, b)
		})
	}
}
