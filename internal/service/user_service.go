package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"

	"github.com/spec-kit/ghostname-service/internal/domain"
	"github.com/spec-kit/ghostname-service/internal/events"
	"github.com/spec-kit/ghostname-service/internal/repository"
)

var profileNamePattern = regexp.MustCompile(`^[A-Za-z\s'\-]+$`)

// ProfileError reports which profile fields were rejected.
type ProfileError struct {
	Fields map[string]string
}

func (e *ProfileError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		names = append(names, k)
	}
	return fmt.Sprintf("invalid profile fields: %s", strings.Join(names, ", "))
}

func (e *ProfileError) Unwrap() error { return domain.ErrInvalidProfile }

// UserService manages identity records and their display names.
type UserService struct {
	store   ReservationStore
	now     Clock
	effects sideEffects
}

// UserDependencies bundles collaborators.
type UserDependencies struct {
	Store      ReservationStore
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
	Clock      Clock
}

// NewUserService creates the service.
func NewUserService(deps UserDependencies) *UserService {
	s := &UserService{
		store: deps.Store,
		now:   deps.Clock,
		effects: sideEffects{
			dispatcher: deps.Dispatcher,
			logger:     orNop(deps.Logger),
		},
	}
	if s.now == nil {
		s.now = SystemClock
	}
	return s
}

// UpsertUser finds the user for a verified email, creating an empty profile on
// first sight.
func (s *UserService) UpsertUser(ctx context.Context, email string) (*domain.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, domain.ErrIdentityRequired
	}
	user, err := s.store.Users().CreateIfAbsent(ctx, email, s.now())
	if err != nil {
		s.effects.logger.Error("upsert user failed", zap.String("identity", email), zap.Error(err))
		return nil, err
	}
	return user, nil
}

// GetUser returns the stored user for email.
func (s *UserService) GetUser(ctx context.Context, email string) (*domain.User, error) {
	if email == "" {
		return nil, domain.ErrIdentityRequired
	}
	return s.store.Users().GetByEmail(ctx, email)
}

// UpdateProfile changes the display name of email and, when the user owns a
// name, the owner name copied onto it. Both records are written in one batch.
func (s *UserService) UpdateProfile(ctx context.Context, email, firstName, lastName string) (*domain.User, error) {
	if email == "" {
		return nil, domain.ErrIdentityRequired
	}
	firstName, lastName, err := NormalizeProfile(firstName, lastName)
	if err != nil {
		return nil, err
	}

	user, err := s.store.Users().GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user.FirstName == firstName && user.LastName == lastName {
		return user, nil
	}

	var owned *domain.GhostName
	if user.OwnsGhost() {
		owned, err = s.store.Ghosts().GetByOwner(ctx, email)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
	}

	now := s.now()
	user.FirstName = firstName
	user.LastName = lastName

	cs := repository.NewChangeset(now)
	payload := events.ProfileUpdatedPayload{FirstName: firstName, LastName: lastName}
	if owned != nil {
		bindOwner(owned, user, owned.Claim.Since())
		cs.PutGhost(owned)
		payload.OwnedUniqueID = owned.UniqueID
	}
	cs.PutUser(user)

	if err := s.store.Apply(ctx, cs); err != nil {
		s.effects.logger.Warn("profile update failed", zap.String("identity", email), zap.Error(err))
		return nil, err
	}

	s.effects.publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventProfileUpdated,
		Identity:  email,
		Timestamp: now,
		Payload:   payload,
	})
	return user, nil
}

// NormalizeProfile trims and NFC-normalizes both names and checks them against
// the allowed alphabet of letters, spaces, apostrophes and hyphens.
func NormalizeProfile(firstName, lastName string) (string, string, error) {
	firstName = norm.NFC.String(strings.TrimSpace(firstName))
	lastName = norm.NFC.String(strings.TrimSpace(lastName))

	fields := map[string]string{}
	for field, value := range map[string]string{"first_name": firstName, "last_name": lastName} {
		switch {
		case value == "":
			fields[field] = "required"
		case !profileNamePattern.MatchString(value):
			fields[field] = "only letters, spaces, apostrophes and hyphens are allowed"
		}
	}
	if len(fields) > 0 {
		return "", "", &ProfileError{Fields: fields}
	}
	return firstName, lastName, nil
}
