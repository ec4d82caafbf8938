package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/oksasatya/invest-marketplace/internal/domain/entity"
	"github.com/oksasatya/invest-marketplace/internal/domain/repository"
	"github.com/oksasatya/invest-marketplace/pkg/apperror"
	"github.com/oksasatya/invest-marketplace/pkg/mailer"
	mailtpl "github.com/oksasatya/invest-marketplace/pkg/mailer/templates"
)

// OwnershipService manages the company ownership relation and its invitations.
type OwnershipService struct {
	*Core
}

func NewOwnershipService(core *Core) *OwnershipService {
	return &OwnershipService{Core: core}
}

type InviteInput struct {
	CompanyID string
	InviteeID string
	Role      string
}

// Invite creates a pending ownership row for the invitee and notifies them.
func (s *OwnershipService) Invite(ctx context.Context, inviterID string, in InviteInput) (*entity.CompanyOwner, error) {
	if strings.TrimSpace(in.InviteeID) == "" || strings.TrimSpace(in.CompanyID) == "" {
		return nil, apperror.Validation("owner_id and company_id are required")
	}
	role := strings.TrimSpace(in.Role)
	if role == "" {
		role = entity.DefaultOwnerRole
	}

	var (
		rel     *entity.CompanyOwner
		inviter *entity.User
		invitee *entity.User
		company *entity.Company
	)
	err := s.Store.WithinTx(ctx, func(ctx context.Context, r repository.Repos) error {
		var err error
		if inviter, err = r.Users().GetByID(ctx, inviterID); err != nil {
			return notFound(err, "user not found")
		}
		if company, err = r.Companies().GetByID(ctx, in.CompanyID); err != nil {
			return notFound(err, "company not found")
		}
		if invitee, err = r.Users().GetByID(ctx, in.InviteeID); err != nil {
			return notFound(err, "invited user not found")
		}
		if err := requireActiveOwner(ctx, r, inviterID, company.ID, "only active owners can invite to this company"); err != nil {
			return err
		}

		_, err = r.Owners().GetByUserAndCompany(ctx, invitee.ID, company.ID)
		switch {
		case err == nil:
			return apperror.Conflict("user is already invited or an owner")
		case !errors.Is(err, repository.ErrNotFound):
			return err
		}

		rel = &entity.CompanyOwner{UserID: invitee.ID, CompanyID: company.ID, Role: role}
		if err := r.Owners().Create(ctx, rel); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return apperror.Conflict("user is already invited or an owner")
			}
			return err
		}

		return r.Notifications().Create(ctx, &entity.Notification{
			FromUserID: inviter.ID,
			ToUserID:   invitee.ID,
			Content:    fmt.Sprintf("%s invited you to join %s as %s", fullName(inviter.FirstName, inviter.LastName), company.Name, role),
			Type:       entity.NotificationGeneral,
		})
	})
	if err != nil {
		return nil, err
	}

	metricInvitationsSent.Add(1)
	metricNotificationsSent.Add(string(entity.NotificationGeneral), 1)
	s.publish(ctx, mailer.EmailJob{
		To:       invitee.Email,
		Template: mailtpl.OwnerInvitation,
		Data: mailtpl.NewOwnerInvitationData(s.Config, invitee.FirstName, invitee.Email,
			fullName(inviter.FirstName, inviter.LastName), company.Name, role, mailtpl.WithTime(s.now())),
	})
	return rel, nil
}

// Accept activates a pending invitation. Only the invited user may accept, and
// an invitation can be accepted once.
func (s *OwnershipService) Accept(ctx context.Context, relID, callerID string) error {
	err := s.Store.WithinTx(ctx, func(ctx context.Context, r repository.Repos) error {
		rel, err := r.Owners().GetByRelID(ctx, relID)
		if err != nil {
			return notFound(err, "invitation not found")
		}
		if rel.UserID != callerID {
			return apperror.Forbidden("only the invited user can accept this invitation")
		}
		return notFound(r.Owners().Activate(ctx, relID), "invitation not found")
	})
	if err != nil {
		return err
	}
	metricInvitationsAccepted.Add(1)
	return nil
}

// Reject deletes an ownership row, pending or active. The relation's user and
// active owners of the company may reject.
func (s *OwnershipService) Reject(ctx context.Context, relID, callerID string) error {
	return s.Store.WithinTx(ctx, func(ctx context.Context, r repository.Repos) error {
		rel, err := r.Owners().GetByRelID(ctx, relID)
		if err != nil {
			return notFound(err, "invitation not found")
		}
		if rel.UserID != callerID {
			if err := requireActiveOwner(ctx, r, callerID, rel.CompanyID, "not allowed to remove this owner"); err != nil {
				return err
			}
		}
		return notFound(r.Owners().Delete(ctx, relID), "invitation not found")
	})
}

func (s *OwnershipService) IsActiveOwner(ctx context.Context, userID, companyID string) (bool, error) {
	return s.Store.Repos().Owners().IsActiveOwner(ctx, userID, companyID)
}

// ListOwners returns the active owners of a company in the order they joined.
func (s *OwnershipService) ListOwners(ctx context.Context, companyID string) ([]entity.OwnerView, error) {
	r := s.Store.Repos()
	if _, err := r.Companies().GetByID(ctx, companyID); err != nil {
		return nil, notFound(err, "company not found")
	}
	owners, err := r.Owners().ListActiveOwners(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if owners == nil {
		owners = []entity.OwnerView{}
	}
	return owners, nil
}
