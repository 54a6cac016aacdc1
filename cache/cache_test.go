package cache_test

import (
	"testing"

	"github.com/sievedata/sieve"
	"github.com/sievedata/sieve/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheReusesCompiledFilters(t *testing.T) {
	scheme := sieve.MustNewScheme(sieve.Column{Name: "port", Type: sieve.TypeInt})
	c, err := cache.New(scheme, 8)
	require.NoError(t, err)

	f1, err := c.Get("port == 443")
	require.NoError(t, err)
	f2, err := c.Get("port == 443")
	require.NoError(t, err)
	assert.Same(t, f1, f2)

	hits, misses, entries := c.Stats()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(1), misses)
	assert.Equal(t, 1, entries)
}

func TestCacheDoesNotCacheErrors(t *testing.T) {
	scheme := sieve.MustNewScheme(sieve.Column{Name: "port", Type: sieve.TypeInt})
	c, err := cache.New(scheme, 8)
	require.NoError(t, err)

	_, err = c.Get("bogus == 1")
	assert.Error(t, err)
	_, _, entries := c.Stats()
	assert.Equal(t, 0, entries)
}

func TestCacheEvicts(t *testing.T) {
	scheme := sieve.MustNewScheme(sieve.Column{Name: "port", Type: sieve.TypeInt})
	c, err := cache.New(scheme, 2)
	require.NoError(t, err)

	for _, src := range []string{"port == 1", "port == 2", "port == 3"} {
		_, err := c.Get(src)
		require.NoError(t, err)
	}
	_, _, entries := c.Stats()
	assert.Equal(t, 2, entries)
}
