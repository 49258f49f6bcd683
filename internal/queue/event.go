// Package queue defines message payloads exchanged over the message broker
// and the consumer that delivers them.
package queue

// PasswordResetQueue is the durable queue carrying password reset mail.
const PasswordResetQueue = "password.reset_requested"

// PasswordResetRequestedEvent is published when a user asks for a password
// reset link.  It carries everything the mail consumer needs so it never
// queries the primary database.
type PasswordResetRequestedEvent struct {
	User        string `json:"user"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Link        string `json:"link"`
	ExpiresAt   string `json:"expires_at"`
	RequestedAt string `json:"requested_at"`
}
