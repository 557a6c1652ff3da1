package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strconv"

	"github.com/apex/log"
	"github.com/google/uuid"

	"pawrescue/apperr"
	"pawrescue/database"
	"pawrescue/models"
)

const (
	// displayIDAttempts bounds the collision retry loop. The UNIQUE
	// index is the real guard; the loop just picks fresh candidates.
	displayIDAttempts = 10

	defaultNickname = "Rescue User"
)

// randomDisplayID picks a 6-digit candidate in [100000, 999999].
func randomDisplayID() string {
	return strconv.Itoa(100000 + rand.Intn(900000))
}

// Login exchanges a provider login code for a persistent profile,
// creating it on first contact. When the provider is unreachable or
// answers garbage the caller still gets a usable session: a locally
// generated anonymous profile that is never persisted.
func (s *Service) Login(ctx context.Context, code string) (*models.UserProfile, bool, error) {
	if code == "" {
		return nil, false, apperr.MissingField("code")
	}

	ictx, cancel := context.WithTimeout(ctx, s.cfg.IdentityTimeout)
	id, err := s.idp.Exchange(ictx, code)
	cancel()
	if err != nil {
		if errors.Is(err, apperr.ErrIdentityProviderUnavailable) ||
			errors.Is(err, apperr.ErrIdentityProviderProtocol) {
			log.WithError(err).Warn("Identity provider failed, issuing anonymous profile")
			return &models.UserProfile{
				Identity: "anon-" + uuid.NewString(),
				Nickname: defaultNickname,
			}, true, nil
		}
		return nil, false, err
	}

	profile, err := s.ensureUser(ctx, id, defaultNickname, "")
	if err != nil {
		return nil, false, err
	}
	return profile, false, nil
}

// RegisterOrUpdate upserts the mutable profile fields for an identity,
// creating the profile (with a display id) on first sight.
func (s *Service) RegisterOrUpdate(ctx context.Context, identityRef, nickname, avatarURL string) (*models.UserProfile, error) {
	if identityRef == "" {
		return nil, apperr.MissingField("identity")
	}
	if nickname == "" {
		nickname = defaultNickname
	}

	existing, err := s.db.GetUserByIdentity(ctx, identityRef)
	if errors.Is(err, apperr.ErrNotFound) {
		return s.createUser(ctx, identityRef, nickname, avatarURL)
	}
	if err != nil {
		return nil, err
	}

	if err := s.db.UpdateUserProfile(ctx, identityRef, nickname, avatarURL); err != nil {
		return nil, err
	}
	existing.Nickname = nickname
	existing.AvatarURL = avatarURL
	return existing, nil
}

// Profile returns the stored profile for an identity.
func (s *Service) Profile(ctx context.Context, identityRef string) (*models.UserProfile, error) {
	if identityRef == "" {
		return nil, apperr.MissingField("identity")
	}
	return s.ensureUser(ctx, identityRef, defaultNickname, "")
}

// ensureUser fetches the profile for an identity, creating it when
// missing and backfilling a display id on legacy rows that lack one.
func (s *Service) ensureUser(ctx context.Context, identityRef, nickname, avatarURL string) (*models.UserProfile, error) {
	u, err := s.db.GetUserByIdentity(ctx, identityRef)
	if errors.Is(err, apperr.ErrNotFound) {
		return s.createUser(ctx, identityRef, nickname, avatarURL)
	}
	if err != nil {
		return nil, err
	}
	if u.DisplayID == "" {
		if err := s.backfillDisplayID(ctx, u); err != nil {
			return nil, err
		}
	}
	return u, nil
}

func (s *Service) createUser(ctx context.Context, identityRef, nickname, avatarURL string) (*models.UserProfile, error) {
	u := &models.UserProfile{
		Identity:  identityRef,
		Nickname:  nickname,
		AvatarURL: avatarURL,
	}
	for attempt := 0; attempt < displayIDAttempts; attempt++ {
		u.DisplayID = randomDisplayID()
		taken, err := s.db.DisplayIDExists(ctx, u.DisplayID)
		if err != nil {
			return nil, err
		}
		if taken {
			continue
		}
		id, err := s.db.CreateUser(ctx, u)
		if errors.Is(err, database.ErrDuplicateDisplayID) {
			// Lost the race to a concurrent assignment; pick again.
			continue
		}
		if err != nil {
			return nil, err
		}
		u.ID = id
		log.WithFields(log.Fields{
			"identity":   identityRef,
			"display_id": u.DisplayID,
		}).Info("User created")
		return u, nil
	}
	return nil, fmt.Errorf("no free display id after %d attempts: %w",
		displayIDAttempts, apperr.ErrDisplayIDExhausted)
}

func (s *Service) backfillDisplayID(ctx context.Context, u *models.UserProfile) error {
	for attempt := 0; attempt < displayIDAttempts; attempt++ {
		candidate := randomDisplayID()
		taken, err := s.db.DisplayIDExists(ctx, candidate)
		if err != nil {
			return err
		}
		if taken {
			continue
		}
		applied, err := s.db.SetDisplayID(ctx, u.ID, candidate)
		if errors.Is(err, database.ErrDuplicateDisplayID) {
			continue
		}
		if err != nil {
			return err
		}
		if !applied {
			// A concurrent call backfilled first; report the id it
			// stored, not our unstored candidate.
			stored, err := s.db.GetUserByIdentity(ctx, u.Identity)
			if err != nil {
				return err
			}
			u.DisplayID = stored.DisplayID
			return nil
		}
		u.DisplayID = candidate
		return nil
	}
	return fmt.Errorf("no free display id after %d attempts: %w",
		displayIDAttempts, apperr.ErrDisplayIDExhausted)
}
