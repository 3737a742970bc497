package service

import "context"

// UserLocker serializes compound financial mutations on a single user
// (Redis-backed in production). Lock blocks until the lock is held or ctx is
// done; the returned function releases it.
type UserLocker interface {
	Lock(ctx context.Context, userID string) (func(), error)
}
