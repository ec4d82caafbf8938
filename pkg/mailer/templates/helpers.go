package templates

import (
	"strings"
	"time"

	"github.com/oksasatya/invest-marketplace/config"
)

// Option pattern
type Option func(*EmailData)

func WithTime(t time.Time) Option {
	return func(d *EmailData) { d.Time = t.UTC().Format("02 January 2006, 15:04") }
}
func WithActionURL(url string) Option { return func(d *EmailData) { d.ActionURL = url } }
func WithCompany(name string) Option  { return func(d *EmailData) { d.CompanyName = name } }

func WithPeriodEnd(t time.Time) Option {
	return func(d *EmailData) {
		utc := t.UTC()
		d.PeriodEnd = utc
		d.PeriodEndText = utc.Format("02 January 2006")
	}
}

// frontendLink joins a path onto the configured frontend base URL.
func frontendLink(cfg *config.Config, path string) string {
	return strings.TrimRight(cfg.FrontendURL, "/") + "/" + strings.TrimLeft(path, "/")
}

// NewBaseEmailData fills the branding fields from config, then applies opts.
func NewBaseEmailData(cfg *config.Config, typ string, name, email string, opts ...Option) EmailData {
	d := EmailData{
		Name:           name,
		Email:          email,
		RecipientEmail: email,
		Type:           typ,

		AppName:         cfg.AppName,
		MarketplaceName: cfg.MarketplaceName,
		SupportURL:      cfg.SupportURL,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

func NewOwnerInvitationData(cfg *config.Config, name, email, inviterName, companyName, role string, opts ...Option) map[string]any {
	opts = append([]Option{WithCompany(companyName), WithActionURL(frontendLink(cfg, "/notifications"))}, opts...)
	d := NewBaseEmailData(cfg, OwnerInvitation, name, email, opts...)
	d.InviterName = inviterName
	d.Role = role
	return ToMap(d)
}

func NewDealStatusData(cfg *config.Config, name, email, companyName, status, amount string, opts ...Option) map[string]any {
	opts = append([]Option{WithCompany(companyName), WithActionURL(frontendLink(cfg, "/investments"))}, opts...)
	d := NewBaseEmailData(cfg, DealStatus, name, email, opts...)
	d.DealStatus = status
	d.DealAmount = amount
	return ToMap(d)
}

func NewSubscriptionActivatedData(cfg *config.Config, name, email string, periodEnd time.Time, opts ...Option) map[string]any {
	opts = append([]Option{WithPeriodEnd(periodEnd), WithActionURL(frontendLink(cfg, "/"))}, opts...)
	d := NewBaseEmailData(cfg, SubscriptionActivated, name, email, opts...)
	return ToMap(d)
}
