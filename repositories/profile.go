//go:generate go run go.uber.org/mock/mockgen -source=profile.go -destination=../mocks/mock_profile_repository.go -package=mocks
package repositories

import (
	stderrors "errors"
	"log/slog"

	"workchat/domain"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

type IProfileRepository interface {
	// Get returns the profile or a zero Profile with the requested ID when
	// none is stored. Rendering falls back on DisplayName's defaults.
	Get(userID uuid.UUID) (domain.Profile, error)
	GetMany(userIDs []uuid.UUID) (map[uuid.UUID]domain.Profile, error)
	Put(profile domain.Profile) error
}

type ProfileRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewProfileRepository(db *badger.DB, log *slog.Logger) ProfileRepository {
	return ProfileRepository{db: db, log: log}
}

func (r ProfileRepository) Get(userID uuid.UUID) (domain.Profile, error) {
	profile := domain.Profile{ID: userID}
	err := r.db.View(func(txn *badger.Txn) error {
		err := getValue(txn, profileKey(userID), &profile)
		if stderrors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		return err
	})
	if err != nil {
		return domain.Profile{}, storeErr(err)
	}
	return profile, nil
}

func (r ProfileRepository) GetMany(userIDs []uuid.UUID) (map[uuid.UUID]domain.Profile, error) {
	profiles := make(map[uuid.UUID]domain.Profile, len(userIDs))
	err := r.db.View(func(txn *badger.Txn) error {
		for _, userID := range userIDs {
			profile := domain.Profile{ID: userID}
			err := getValue(txn, profileKey(userID), &profile)
			if err != nil && !stderrors.Is(err, badger.ErrKeyNotFound) {
				return err
			}
			profiles[userID] = profile
		}
		return nil
	})
	if err != nil {
		return nil, storeErr(err)
	}
	return profiles, nil
}

func (r ProfileRepository) Put(profile domain.Profile) error {
	err := r.db.Update(func(txn *badger.Txn) error {
		return setValue(txn, profileKey(profile.ID), profile)
	})
	return storeErr(err)
}
