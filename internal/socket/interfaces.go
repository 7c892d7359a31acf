// Package socket keeps the notification socket connected and authenticated,
// and forwards server-pushed events to a [Sink].
package socket

import (
	"context"

	"github.com/MKhiriev/go-sync-client/models"
)

// Sink receives pushed events in arrival order.
type Sink interface {
	HandleSocketEvent(ev models.SocketEvent)
}

// SinkFunc adapts a function to [Sink].
type SinkFunc func(ev models.SocketEvent)

func (f SinkFunc) HandleSocketEvent(ev models.SocketEvent) { f(ev) }

// CredentialSource blocks until the user is logged in.
type CredentialSource interface {
	WaitForCredential(ctx context.Context) (string, error)
}

// RingSource supplies the master key ring used for encrypted events.
type RingSource interface {
	Keys() models.MasterKeyRing
}

// NotificationChannel is a reconnecting socket session.
type NotificationChannel interface {
	// Run connects and reconnects until ctx is done or Stop is called.
	Run(ctx context.Context) error

	// State reports the state of the current connection.
	State() models.SocketState

	// Stop ends Run and waits for it to return.
	Stop()
}
