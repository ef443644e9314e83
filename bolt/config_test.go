package bolt

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/readnet/readnet"
)

func TestConfigRepository_LazyDefault(t *testing.T) {
	driver, f := createDriver(t)
	defer f()
	repo := &ConfigRepository{Driver: driver}

	cfg, err := repo.Get()
	require.NoError(t, err)
	assert.False(t, cfg.PreventDuplicateReads)
}

func TestConfigRepository_SetThenGet(t *testing.T) {
	driver, f := createDriver(t)
	defer f()
	repo := &ConfigRepository{Driver: driver}

	cfg, err := repo.Set(readnet.Config{PreventDuplicateReads: true})
	require.NoError(t, err)
	assert.True(t, cfg.PreventDuplicateReads)

	cfg, err = repo.Get()
	require.NoError(t, err)
	assert.True(t, cfg.PreventDuplicateReads)

	cfg, err = repo.Set(readnet.Config{PreventDuplicateReads: false})
	require.NoError(t, err)
	assert.False(t, cfg.PreventDuplicateReads)
}

func TestConfigRepository_ConcurrentFirstAccess(t *testing.T) {
	driver, f := createDriver(t)
	defer f()
	repo := &ConfigRepository{Driver: driver}

	var wg sync.WaitGroup
	cfgs := make([]readnet.Config, 8)
	errs := make([]error, 8)
	for i := range cfgs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			cfgs[i], errs[i] = repo.Get()
		}(i)
	}
	wg.Wait()

	for i := range cfgs {
		require.NoError(t, errs[i])
		assert.False(t, cfgs[i].PreventDuplicateReads)
	}
}
