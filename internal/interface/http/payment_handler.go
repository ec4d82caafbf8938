package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/invest-marketplace/internal/application"
	"github.com/oksasatya/invest-marketplace/internal/domain/entity"
	"github.com/oksasatya/invest-marketplace/pkg/response"
)

const (
	checkoutCompleted     = "checkout.session.completed"
	defaultDurationMonths = 12
)

type PaymentHandler struct {
	Svc    *application.SubscriptionService
	Logger *logrus.Logger
}

func NewPaymentHandler(svc *application.SubscriptionService, logger *logrus.Logger) *PaymentHandler {
	return &PaymentHandler{Svc: svc, Logger: logger}
}

type webhookEvent struct {
	ID   string `json:"id" binding:"required"`
	Type string `json:"type" binding:"required"`
	Data struct {
		Object struct {
			Metadata map[string]string `json:"metadata"`
		} `json:"object"`
	} `json:"data"`
}

// Webhook POST /api/payments/webhook. Only completed checkouts are applied;
// other event types are acknowledged and ignored.
func (h *PaymentHandler) Webhook(c *gin.Context) {
	var ev webhookEvent
	if err := c.ShouldBindJSON(&ev); err != nil {
		invalidPayload(c, err)
		return
	}
	log := h.Logger.WithFields(logrus.Fields{"event_id": ev.ID, "event_type": ev.Type})
	if ev.Type != checkoutCompleted {
		log.Debug("ignoring payment event")
		response.Success(c, http.StatusOK, "event ignored", gin.H{"received": true})
		return
	}

	in, ok := completionFromMetadata(ev.ID, ev.Data.Object.Metadata)
	if !ok {
		response.Fail(c, http.StatusBadRequest, "invalid payment metadata", nil)
		return
	}
	res, err := h.Svc.ApplyPaymentCompletion(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	log.WithFields(logrus.Fields{"subject": in.SubjectType, "subject_id": in.SubjectID, "replayed": res.Replayed}).Info("payment applied")
	response.Success(c, http.StatusOK, "payment processed", gin.H{
		"received":           true,
		"replayed":           res.Replayed,
		"subscription_start": res.Event.PeriodStart,
		"subscription_end":   res.Event.PeriodEnd,
	})
}

// completionFromMetadata reads the checkout metadata: company_id (with
// owner_id) for a company subscription, otherwise user_id.
func completionFromMetadata(eventID string, md map[string]string) (application.PaymentCompletion, bool) {
	in := application.PaymentCompletion{
		EventID:        eventID,
		OwnerID:        strings.TrimSpace(md["owner_id"]),
		AmountPaid:     strings.TrimSpace(md["amount"]),
		DurationMonths: defaultDurationMonths,
	}
	if id := strings.TrimSpace(md["company_id"]); id != "" {
		in.SubjectType, in.SubjectID = entity.SubjectCompany, id
	} else {
		in.SubjectType, in.SubjectID = entity.SubjectUser, strings.TrimSpace(md["user_id"])
	}
	if v := strings.TrimSpace(md["duration"]); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return in, false
		}
		in.DurationMonths = n
	}
	return in, true
}
