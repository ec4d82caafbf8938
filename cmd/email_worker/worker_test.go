package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/invest-marketplace/config"
	"github.com/oksasatya/invest-marketplace/pkg/mailer"
	mailtpl "github.com/oksasatya/invest-marketplace/pkg/mailer/templates"
)

type fakeSender struct {
	err  error
	sent []string
}

func (f *fakeSender) Send(_ context.Context, to, subject, _, _ string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, to+"|"+subject)
	return nil
}

func newWorker(s mailer.Sender) *worker {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return &worker{sender: s, logger: l}
}

func jobBody(t *testing.T, job mailer.EmailJob) []byte {
	t.Helper()
	b, err := json.Marshal(job)
	require.NoError(t, err)
	return b
}

func TestHandle_RendersTemplate(t *testing.T) {
	s := &fakeSender{}
	cfg := &config.Config{MarketplaceName: "Invest Marketplace", FrontendURL: "http://localhost:3000"}
	body := jobBody(t, mailer.EmailJob{
		To:       "owner@example.com",
		Template: "Deal_Status",
		Data:     mailtpl.NewDealStatusData(cfg, "Olga", "owner@example.com", "Acme", "Accepted", "1000"),
	})

	require.Equal(t, ack, newWorker(s).handle(context.Background(), body))
	require.Len(t, s.sent, 1)
	require.Contains(t, s.sent[0], "owner@example.com|")
}

func TestHandle_DropsBadJobs(t *testing.T) {
	w := newWorker(&fakeSender{})
	require.Equal(t, drop, w.handle(context.Background(), []byte("{not json")))
	require.Equal(t, drop, w.handle(context.Background(), jobBody(t, mailer.EmailJob{Template: "deal_status"})))
	require.Equal(t, drop, w.handle(context.Background(), jobBody(t, mailer.EmailJob{To: "a@example.com", Template: "password_reset"})))
}

func TestHandle_RequeuesOnSendFailure(t *testing.T) {
	w := newWorker(&fakeSender{err: errors.New("mailgun down")})
	body := jobBody(t, mailer.EmailJob{To: "a@example.com", Subject: "hi", Text: "hello"})
	require.Equal(t, requeue, w.handle(context.Background(), body))
}

func TestHandle_SubjectFallback(t *testing.T) {
	s := &fakeSender{}
	body := jobBody(t, mailer.EmailJob{To: "a@example.com", Text: "plain"})
	require.Equal(t, ack, newWorker(s).handle(context.Background(), body))
	require.Equal(t, []string{"a@example.com|Notification"}, s.sent)
}
