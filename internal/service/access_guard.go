package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-attendance-monitor/internal/models"
	appErrors "github.com/noah-isme/sma-attendance-monitor/pkg/errors"
)

type principalDirectory interface {
	FindInstitution(ctx context.Context, userID string) (*models.ProfileInstitution, error)
	FindRole(ctx context.Context, userID, institutionID string) (models.UserRole, error)
}

// AccessReason tags the outcome of an access check.
type AccessReason string

const (
	AccessAuthorized    AccessReason = "authorized"
	AccessUnauthorized  AccessReason = "unauthorized"
	AccessNoInstitution AccessReason = "no_institution"
	AccessForbidden     AccessReason = "forbidden"
	AccessUpstream      AccessReason = "upstream"
)

// AccessDecision is the result of resolving a caller into a principal.
type AccessDecision struct {
	Principal models.Principal
	Reason    AccessReason
	Err       error
}

// Allowed reports whether the caller may proceed.
func (d AccessDecision) Allowed() bool {
	return d.Reason == AccessAuthorized
}

// AsError maps a refused decision onto the API error taxonomy.
func (d AccessDecision) AsError() error {
	switch d.Reason {
	case AccessAuthorized:
		return nil
	case AccessNoInstitution:
		return appErrors.ErrNoInstitution
	case AccessForbidden:
		return appErrors.ErrForbidden
	case AccessUpstream:
		return appErrors.Upstream(d.Err)
	default:
		return appErrors.ErrUnauthorized
	}
}

// AccessGuard resolves a user's institution and role and checks it against allowed roles.
type AccessGuard struct {
	directory principalDirectory
	allowed   map[models.UserRole]struct{}
	logger    *zap.Logger
}

// NewAccessGuard builds a guard admitting the given roles.
func NewAccessGuard(directory principalDirectory, logger *zap.Logger, roles ...models.UserRole) *AccessGuard {
	if logger == nil {
		logger = zap.NewNop()
	}
	allowed := make(map[models.UserRole]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return &AccessGuard{directory: directory, allowed: allowed, logger: logger}
}

// Authorize resolves userID into a principal. A role lookup failure is logged and treated as
// having no role.
func (g *AccessGuard) Authorize(ctx context.Context, userID string) AccessDecision {
	if userID == "" {
		return AccessDecision{Reason: AccessUnauthorized}
	}

	profile, err := g.directory.FindInstitution(ctx, userID)
	if err != nil {
		g.logger.Error("resolve caller profile", zap.String("user_id", userID), zap.Error(err))
		return AccessDecision{Reason: AccessUpstream, Err: err}
	}
	if profile == nil || trimmed(profile.InstitutionID) == "" {
		return AccessDecision{Principal: models.Principal{UserID: userID}, Reason: AccessNoInstitution}
	}

	principal := models.Principal{UserID: userID, InstitutionID: trimmed(profile.InstitutionID)}
	role, err := g.directory.FindRole(ctx, userID, principal.InstitutionID)
	if err != nil {
		g.logger.Warn("resolve caller role", zap.String("user_id", userID), zap.Error(err))
		role = ""
	}
	principal.Role = role

	if _, ok := g.allowed[role]; !ok {
		return AccessDecision{Principal: principal, Reason: AccessForbidden}
	}
	return AccessDecision{Principal: principal, Reason: AccessAuthorized}
}
