// internal/domain/cart/service_test.go
package cart

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	logrustest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/bookstore-backend/internal/config"
)

// unreachableRedis returns a client whose every command fails fast.
func unreachableRedis() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
}

func TestMergeSessionIntoUser_RedisFailureLoggedNotFatal(t *testing.T) {
	logger, hook := logrustest.NewNullLogger()
	svc := NewService(nil, unreachableRedis(), &config.Config{}, logger)

	err := svc.MergeSessionIntoUser(context.Background(), 1, "session-123")
	require.NoError(t, err, "a failed session cart read must not block login")

	entry := hook.LastEntry()
	require.NotNil(t, entry, "the failure must be logged")
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Equal(t, "session-123", entry.Data["session_id"])
	assert.Error(t, entry.Data["error"].(error))
}

func TestMergeSessionIntoUser_MissingSessionIDLoggedNotFatal(t *testing.T) {
	logger, hook := logrustest.NewNullLogger()
	svc := NewService(nil, unreachableRedis(), &config.Config{}, logger)

	err := svc.MergeSessionIntoUser(context.Background(), 1, "")
	require.NoError(t, err)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
}
