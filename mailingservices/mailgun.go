package mailingservices

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mailgun/mailgun-go/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/clockwisehq/clockwise/config"
)

// ErrNotConfigured is returned for every send once the transport failed (or
// declined) verification. Callers record the failure; nothing crashes.
var ErrNotConfigured = errors.New("mailgun: transport not configured")

const (
	verifyTimeout = 10 * time.Second
	sendTimeout   = 15 * time.Second
)

// Mailgun wraps the mailgun client behind lazy initialization: the first send
// builds the client and verifies the domain, later sends reuse it. A failed
// verification pins the transport in the unconfigured state.
type Mailgun struct {
	Config *config.Config

	log *zap.Logger

	mu          sync.Mutex
	client      *mailgun.MailgunImpl
	initialized bool
	configured  bool
}

// NewMailgun creates the shared mail transport. No network traffic happens
// until the first send.
func NewMailgun(conf *config.Config, log *zap.Logger) *Mailgun {
	return &Mailgun{
		Config: conf,
		log:    log,
	}
}

// Configured reports whether the transport has been initialized and passed
// verification. It does not trigger initialization.
func (m *Mailgun) Configured() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.configured
}

func (m *Mailgun) ensureClient(ctx context.Context) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return m.configured
	}
	m.initialized = true

	if !m.Config.MailEnabled {
		m.log.Info("mail sending disabled by configuration")
		return false
	}
	if m.Config.MgDomain == "" || m.Config.MailgunApiKey == "" || m.Config.MailFrom == "" {
		m.log.Warn("mailgun credentials incomplete, email channel disabled")
		return false
	}

	client := mailgun.NewMailgun(m.Config.MgDomain, m.Config.MailgunApiKey)

	vctx, cancel := context.WithTimeout(ctx, verifyTimeout)
	defer cancel()
	if _, err := client.GetDomain(vctx, m.Config.MgDomain); err != nil {
		m.log.Warn("mailgun verification failed, email channel disabled",
			zap.String("domain", m.Config.MgDomain),
			zap.Error(err))
		return false
	}

	m.client = client
	m.configured = true
	m.log.Info("mailgun transport verified", zap.String("domain", m.Config.MgDomain))
	return true
}

// SendEmail delivers one message. Returns ErrNotConfigured when the transport
// is disabled or failed verification.
func (m *Mailgun) SendEmail(ctx context.Context, recipient, subject, html, text string) error {
	if !m.ensureClient(ctx) {
		return ErrNotConfigured
	}

	from := m.Config.MailFrom
	if m.Config.MailFromName != "" {
		from = fmt.Sprintf("%s <%s>", m.Config.MailFromName, m.Config.MailFrom)
	}

	message := m.client.NewMessage(from, subject, text, recipient)
	message.SetHtml(html)
	if m.Config.MailReplyTo != "" {
		message.SetReplyTo(m.Config.MailReplyTo)
	}

	sctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()
	_, _, err := m.client.Send(sctx, message)
	if err != nil {
		return errors.Wrapf(err, "sending email to %s", recipient)
	}
	return nil
}
