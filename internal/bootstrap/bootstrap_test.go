package bootstrap

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mosdac-ai/orbit/internal/driver"
)

func TestEnsureIndices_SucceedsFirstTry(t *testing.T) {
	f := &fakeDriver{database: "default_db"}

	out, err := EnsureIndices(context.Background(), f, nil)

	require.NoError(t, err)
	assert.Same(t, driver.GraphDriver(f), out)
	assert.Equal(t, 1, f.buildCalls)
}

func TestEnsureIndices_PermanentFailureWithoutMismatch(t *testing.T) {
	f := &fakeDriver{
		database:  "default_db",
		buildErrs: []error{fmt.Errorf("connection refused")},
	}
	factoryCalled := false

	_, err := EnsureIndices(context.Background(), f, func(database string) (driver.GraphDriver, error) {
		factoryCalled = true
		return nil, nil
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
	assert.False(t, factoryCalled, "re-instantiation is reserved for database mismatches")
	assert.False(t, f.closed)
}

func TestEnsureIndices_ReinstantiatesOnDatabaseMismatch(t *testing.T) {
	stale := &fakeDriver{
		database:  "default_db",
		buildErrs: []error{fmt.Errorf("Database does not exist. Database name: 'default_db'")},
	}
	fresh := &fakeDriver{database: "default_db"}

	var factoryTarget string
	out, err := EnsureIndices(context.Background(), stale, func(database string) (driver.GraphDriver, error) {
		factoryTarget = database
		return fresh, nil
	})

	require.NoError(t, err)
	assert.Same(t, driver.GraphDriver(fresh), out)
	assert.Equal(t, "default_db", factoryTarget, "the fresh driver must target the same database")
	assert.True(t, stale.closed, "the stale driver must be torn down before the retry")
	assert.Equal(t, 1, fresh.buildCalls)
}

func TestEnsureIndices_RetryFailureIsPermanent(t *testing.T) {
	stale := &fakeDriver{
		database:  "default_db",
		buildErrs: []error{fmt.Errorf("unable to get a routing table for database 'default_db'")},
	}
	fresh := &fakeDriver{
		database:  "default_db",
		buildErrs: []error{fmt.Errorf("still unavailable")},
	}

	_, err := EnsureIndices(context.Background(), stale, func(database string) (driver.GraphDriver, error) {
		return fresh, nil
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "after retry")
	assert.Contains(t, err.Error(), "still unavailable")
}

func TestEnsureIndices_MismatchWithoutFactoryFailsFast(t *testing.T) {
	f := &fakeDriver{
		database:  "default_db",
		buildErrs: []error{fmt.Errorf("Database does not exist")},
	}

	_, err := EnsureIndices(context.Background(), f, nil)

	require.Error(t, err)
	assert.False(t, f.closed)
}

func TestIsDatabaseMismatch(t *testing.T) {
	assert.True(t, isDatabaseMismatch(fmt.Errorf("Database does not exist. Database name: 'x'")))
	assert.True(t, isDatabaseMismatch(fmt.Errorf("database is unavailable")))
	assert.True(t, isDatabaseMismatch(fmt.Errorf("Unable to get a routing table for database 'x'")))
	assert.True(t, isDatabaseMismatch(fmt.Errorf("database 'x' not found")))
	assert.False(t, isDatabaseMismatch(fmt.Errorf("connection refused")))
	assert.False(t, isDatabaseMismatch(nil))
}
