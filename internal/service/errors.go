package service

import "errors"

var (
	// ErrAcquireInProgress is returned by Acquire when another acquire or a
	// release of the same lock id is still running.
	ErrAcquireInProgress = errors.New("lock acquire already in progress")

	// ErrLockLost is passed to the lost handler when a hold is rejected.
	ErrLockLost = errors.New("sync lock lost")

	// ErrCoordinatorStopped is returned by Acquire after Stop.
	ErrCoordinatorStopped = errors.New("sync lock coordinator stopped")

	// ErrEmptyRemoteRing is returned by UpdateKeys when no local key could
	// decrypt the ring returned by the server.
	ErrEmptyRemoteRing = errors.New("remote master key ring is empty or undecryptable")

	// ErrKeyPairUndecryptable is returned by UpdateKeys when the stored
	// private key cannot be decrypted with any key of the ring.
	ErrKeyPairUndecryptable = errors.New("private key undecryptable with local ring")

	// ErrNotLoggedIn is returned by session reads when no valid credential
	// is stored.
	ErrNotLoggedIn = errors.New("not logged in")
)
