package ports

// Notifier delivers transactional email. Implementations are fire-and-forget:
// Enqueue must never block the request path, and delivery failures are logged
// by the implementation, never surfaced to the caller.
type Notifier interface {
	SendVerification(email, handle, token string)
	SendPasswordReset(email, handle, token string)
	SendPasswordChanged(email, handle string)
}
