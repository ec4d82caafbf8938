package application

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/invest-marketplace/config"
	"github.com/oksasatya/invest-marketplace/internal/domain/repository"
	"github.com/oksasatya/invest-marketplace/pkg/apperror"
	"github.com/oksasatya/invest-marketplace/pkg/helpers"
	"github.com/oksasatya/invest-marketplace/pkg/mailer"
)

// EmailPublisher queues outbound email jobs. *helpers.RabbitPublisher
// satisfies it.
type EmailPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// Core carries the collaborators shared by every service.
type Core struct {
	Store     repository.Store
	Publisher EmailPublisher
	Config    *config.Config
	Logger    *logrus.Logger
	Clock     func() time.Time

	// Optional. Company profile reads are cached when Cache is set, and
	// uploads fail with a server error when Uploader is nil.
	Cache    *redis.Client
	Uploader helpers.Uploader
}

// NewCore builds the shared service state. A nil cfg falls back to an empty
// config with email disabled.
func NewCore(store repository.Store, pub EmailPublisher, cfg *config.Config, logger *logrus.Logger) *Core {
	if cfg == nil {
		cfg = &config.Config{}
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Core{Store: store, Publisher: pub, Config: cfg, Logger: logger}
}

func (c *Core) now() time.Time {
	if c.Clock != nil {
		return c.Clock()
	}
	return time.Now().UTC()
}

// publish queues jobs after the transaction that produced them has committed.
// Failures are logged and never surface to the caller.
func (c *Core) publish(ctx context.Context, jobs ...mailer.EmailJob) {
	if c.Publisher == nil || !c.Config.MailSendEnabled {
		return
	}
	for _, job := range jobs {
		if job.To == "" {
			continue
		}
		if err := c.Publisher.PublishJSON(ctx, job); err != nil {
			c.log().WithError(err).WithFields(logrus.Fields{"template": job.Template, "to": job.To}).Warn("publish email job failed")
		}
	}
}

func (c *Core) invalidateCompany(ctx context.Context, companyID string) {
	if c.Cache == nil {
		return
	}
	if err := helpers.RedisDel(ctx, c.Cache, helpers.CompanyCacheKey(companyID)); err != nil {
		c.log().WithError(err).WithField("company_id", companyID).Warn("invalidate company cache failed")
	}
}

var errStorageDisabled = apperror.New(apperror.KindServer, "file storage is not configured")

// upload stores r under prefix/ownerID and returns its public URL.
func (c *Core) upload(ctx context.Context, prefix, ownerID, filename, contentType string, r io.Reader) (string, error) {
	if c.Uploader == nil {
		return "", errStorageDisabled
	}
	url, err := c.Uploader.Upload(ctx, helpers.ObjectPath(prefix, ownerID, filename), contentType, r)
	if err != nil {
		return "", apperror.Wrap(apperror.KindServer, "failed to upload file", err)
	}
	return url, nil
}

func (c *Core) log() *logrus.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return logrus.StandardLogger()
}

// notFound converts a repository miss into a NotFound application error.
func notFound(err error, msg string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperror.NotFound(msg)
	}
	return err
}

// requireActiveOwner returns Forbidden unless userID actively owns companyID.
func requireActiveOwner(ctx context.Context, r repository.Repos, userID, companyID, msg string) error {
	ok, err := r.Owners().IsActiveOwner(ctx, userID, companyID)
	if err != nil {
		return err
	}
	if !ok {
		return apperror.Forbidden(msg)
	}
	return nil
}

func fullName(first, last string) string {
	switch {
	case first == "":
		return last
	case last == "":
		return first
	default:
		return first + " " + last
	}
}
