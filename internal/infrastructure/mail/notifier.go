package mail

import (
	"github.com/rs/zerolog"

	"github.com/inkwell/blog-api/internal/infrastructure/queue"
)

// Notifier implements ports.Notifier by rendering templates and enqueueing
// onto the mail dispatcher. All three sends are fire-and-forget: a render or
// delivery failure is logged and never reaches the caller.
type Notifier struct {
	dispatcher *queue.Dispatcher
	baseURL    string
	log        zerolog.Logger
}

func NewNotifier(dispatcher *queue.Dispatcher, baseURL string, log zerolog.Logger) *Notifier {
	return &Notifier{dispatcher: dispatcher, baseURL: baseURL, log: log}
}

func (n *Notifier) SendVerification(email, handle, token string) {
	body, err := renderVerify(n.baseURL, handle, token)
	if err != nil {
		n.log.Error().Err(err).Msg("verification mail render failed")
		return
	}
	n.dispatcher.Enqueue(queue.OutboundMail{
		To:       email,
		Subject:  "Verify your email address",
		HTMLBody: body,
		Kind:     "verification",
	})
}

func (n *Notifier) SendPasswordReset(email, handle, token string) {
	body, err := renderReset(n.baseURL, handle, token)
	if err != nil {
		n.log.Error().Err(err).Msg("reset mail render failed")
		return
	}
	n.dispatcher.Enqueue(queue.OutboundMail{
		To:       email,
		Subject:  "Reset your password",
		HTMLBody: body,
		Kind:     "password_reset",
	})
}

func (n *Notifier) SendPasswordChanged(email, handle string) {
	body, err := renderChanged(handle)
	if err != nil {
		n.log.Error().Err(err).Msg("changed mail render failed")
		return
	}
	n.dispatcher.Enqueue(queue.OutboundMail{
		To:       email,
		Subject:  "Your password was changed",
		HTMLBody: body,
		Kind:     "password_changed",
	})
}
