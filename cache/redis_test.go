package cache

import (
	"testing"
	"time"

	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withMockClient(t *testing.T) redismock.ClientMock {
	t.Helper()
	client, mock := redismock.NewClientMock()
	RedisClient = client
	t.Cleanup(func() { RedisClient = nil })
	return mock
}

func TestUnreadCountKey(t *testing.T) {
	assert.Equal(t, "notifications:unread:42", UnreadCountKey(42))
}

func TestGetUnreadCountHit(t *testing.T) {
	mock := withMockClient(t)
	mock.ExpectGet("notifications:unread:7").SetVal("3")

	count, ok := GetUnreadCount(7)
	assert.True(t, ok)
	assert.Equal(t, int64(3), count)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUnreadCountMiss(t *testing.T) {
	mock := withMockClient(t)
	mock.ExpectGet("notifications:unread:7").RedisNil()

	_, ok := GetUnreadCount(7)
	assert.False(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUnreadCountGarbageValue(t *testing.T) {
	mock := withMockClient(t)
	mock.ExpectGet("notifications:unread:7").SetVal("not-a-number")

	_, ok := GetUnreadCount(7)
	assert.False(t, ok)
}

func TestSetUnreadCount(t *testing.T) {
	mock := withMockClient(t)
	mock.ExpectSet("notifications:unread:7", "12", 5*time.Minute).SetVal("OK")

	SetUnreadCount(7, 12)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInvalidateUnreadCount(t *testing.T) {
	mock := withMockClient(t)
	mock.ExpectDel("notifications:unread:7").SetVal(1)

	InvalidateUnreadCount(7)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHelpersAreNoOpsWithoutClient(t *testing.T) {
	RedisClient = nil

	_, ok := GetUnreadCount(7)
	assert.False(t, ok)
	SetUnreadCount(7, 1)
	InvalidateUnreadCount(7)
}
