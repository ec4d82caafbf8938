package helpers

import (
	"fmt"
	"strings"

	"github.com/oksasatya/invest-marketplace/pkg/mailer"
	mailtpl "github.com/oksasatya/invest-marketplace/pkg/mailer/templates"
)

// SubjectFallback is used when a job has neither a subject nor a template.
func SubjectFallback(job *mailer.EmailJob) string {
	typeStr := fmt.Sprintf("%v", job.Data["Type"])
	switch strings.ToLower(typeStr) {
	case mailtpl.OwnerInvitation:
		return "You have been invited to a company"
	case mailtpl.DealStatus:
		return "Your investment deal was updated"
	case mailtpl.SubscriptionActivated:
		return "Your subscription is active"
	default:
		return "Notification"
	}
}

func EnsureRecipientAndEmail(job *mailer.EmailJob) {
	if job.Data == nil {
		job.Data = map[string]any{}
	}
	if v, ok := job.Data["Email"]; !ok || fmt.Sprintf("%v", v) == "" {
		job.Data["Email"] = job.To
	}
	if v, ok := job.Data["RecipientEmail"]; !ok || fmt.Sprintf("%v", v) == "" {
		job.Data["RecipientEmail"] = job.To
	}
}

// NormalizeTemplate lowercases the template name and copies it into Data.Type.
func NormalizeTemplate(job *mailer.EmailJob) {
	job.Template = strings.ToLower(strings.TrimSpace(job.Template))
	if job.Template == "" {
		return
	}
	if job.Data == nil {
		job.Data = map[string]any{}
	}
	if _, ok := job.Data["Type"]; !ok || fmt.Sprintf("%v", job.Data["Type"]) == "" {
		job.Data["Type"] = job.Template
	}
}
