package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/invest-marketplace/pkg/helpers"
	"github.com/oksasatya/invest-marketplace/pkg/mailer"
	mailtpl "github.com/oksasatya/invest-marketplace/pkg/mailer/templates"
)

const sendTimeout = 15 * time.Second

// outcome tells the consumer loop what to do with a delivery.
type outcome int

const (
	ack outcome = iota
	drop
	requeue
)

type worker struct {
	sender mailer.Sender
	logger *logrus.Logger
}

// handle decodes, renders and sends one queued email job. Malformed jobs and
// unknown templates are dropped; send failures are requeued.
func (w *worker) handle(ctx context.Context, body []byte) outcome {
	var job mailer.EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		helpers.LogError(w.logger, "bad message", err, nil)
		return drop
	}
	if job.To == "" {
		w.logger.Warn("email job without recipient")
		return drop
	}

	helpers.NormalizeTemplate(&job)
	helpers.EnsureRecipientAndEmail(&job)

	subject, text, html := job.Subject, job.Text, job.HTML
	if job.Template != "" {
		if !mailtpl.Known(job.Template) {
			w.logger.WithField("template", job.Template).Warn("unknown email template")
			return drop
		}
		s, t, h, err := mailtpl.Render(job.Template, job.Data)
		if err != nil {
			helpers.LogError(w.logger, "render failed", err, logrus.Fields{"template": job.Template})
			return drop
		}
		subject, text, html = s, t, h
	}
	if subject == "" {
		subject = helpers.SubjectFallback(&job)
	}

	c, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()
	if err := w.sender.Send(c, job.To, subject, text, html); err != nil {
		helpers.LogError(w.logger, "send failed", err, logrus.Fields{"to": job.To, "template": job.Template})
		return requeue
	}
	helpers.LogInfo(w.logger, "email sent", logrus.Fields{"to": job.To, "template": job.Template, "subject": fmt.Sprintf("%.60s", subject)})
	return ack
}
