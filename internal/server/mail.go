package server

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// sendMail delivers a notification on a goroutine. Failures are logged and
// otherwise ignored; no handler blocks on the SMTP relay.
func (s *Service) sendMail(kind, recipient string, send func(ctx context.Context) error) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := send(ctx); err != nil {
			s.logger.WithError(err).WithFields(logrus.Fields{
				"kind":      kind,
				"recipient": recipient,
			}).Error("failed to send notification email")
		}
	}()
}
