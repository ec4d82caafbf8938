package helpers

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/invest-marketplace/pkg/mailer"
)

func TestPaginate(t *testing.T) {
	page, limit, offset := Paginate(0, 0)
	require.Equal(t, 1, page)
	require.Equal(t, DefaultPageLimit, limit)
	require.Equal(t, 0, offset)

	page, limit, offset = Paginate(3, 500)
	require.Equal(t, 3, page)
	require.Equal(t, MaxPageLimit, limit)
	require.Equal(t, 200, offset)
}

func TestTotalPages(t *testing.T) {
	require.Equal(t, 0, TotalPages(0, 10))
	require.Equal(t, 1, TotalPages(10, 10))
	require.Equal(t, 2, TotalPages(11, 10))
}

func TestJWTRoundTrip(t *testing.T) {
	m := NewJWTManager("access", "refresh", time.Minute, time.Hour)
	tok, exp, err := m.GenerateAccessToken("u1", "Investor", "s1")
	require.NoError(t, err)
	require.True(t, exp.After(time.Now()))

	claims, err := m.ParseAccessToken(tok)
	require.NoError(t, err)
	require.Equal(t, "u1", claims.UserID)
	require.Equal(t, "s1", claims.SessionID)

	_, err = m.ParseRefreshToken(tok)
	require.Error(t, err, "access token must not verify with the refresh secret")
}

func TestPasswordHash(t *testing.T) {
	h, err := HashPassword("correct horse")
	require.NoError(t, err)
	require.True(t, CompareHashAndPassword(h, "correct horse"))
	require.False(t, CompareHashAndPassword(h, "wrong"))

	_, err = HashPassword(string(make([]byte, 73)))
	require.ErrorIs(t, err, ErrPasswordTooLong)
}

func TestNormalizeTemplateAndRecipient(t *testing.T) {
	job := &mailer.EmailJob{To: "a@b.co", Template: " Deal_Status "}
	NormalizeTemplate(job)
	EnsureRecipientAndEmail(job)
	require.Equal(t, "deal_status", job.Template)
	require.Equal(t, "deal_status", job.Data["Type"])
	require.Equal(t, "a@b.co", job.Data["RecipientEmail"])
	require.Equal(t, "Your investment deal was updated", SubjectFallback(job))
}

func TestObjectPathKeepsExtension(t *testing.T) {
	p := ObjectPath("avatars", "u1", "Me.PNG")
	require.Regexp(t, `^avatars/u1/[0-9a-f-]{36}\.png$`, p)
}

func TestNewLoggerLevel(t *testing.T) {
	require.Equal(t, logrus.DebugLevel, NewLogger("app", "development", "").GetLevel())
	require.Equal(t, logrus.InfoLevel, NewLogger("app", "production", "").GetLevel())
	require.Equal(t, logrus.WarnLevel, NewLogger("app", "production", "warn").GetLevel())
	require.Equal(t, logrus.InfoLevel, NewLogger("app", "production", "loud").GetLevel())
}
