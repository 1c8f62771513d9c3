package user

import (
	"context"

	"github.com/wichananm65/userdemo/internal/logger"
)

type Service struct {
	repo Repository
	tx   Transactor
	log  *logger.Logger
}

func NewService(repo Repository, tx Transactor, log *logger.Logger) *Service {
	return &Service{repo: repo, tx: tx, log: log}
}

// Create stores user as a new record. Any client supplied id is ignored.
func (s *Service) Create(ctx context.Context, user User) (User, error) {
	user.ID = 0

	created, err := s.repo.Save(ctx, user)
	if err != nil {
		return User{}, err
	}

	s.log.Infow("user created", "id", created.ID)
	return created, nil
}

// Replace overwrites every field of the stored user with id.
func (s *Service) Replace(ctx context.Context, id int64, user User) (User, error) {
	var saved User
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.repo.FindByID(ctx, id); err != nil {
			return err
		}

		user.ID = id
		var err error
		saved, err = s.repo.Save(ctx, user)
		return err
	})
	if err != nil {
		return User{}, err
	}

	s.log.Infow("user replaced", "id", id)
	return saved, nil
}

// Patch applies the present, non-blank fields of upd to the stored user.
func (s *Service) Patch(ctx context.Context, id int64, upd Update) (User, error) {
	var saved User
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		current, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return err
		}

		mergeUpdate(&current, upd)
		saved, err = s.repo.Save(ctx, current)
		return err
	})
	if err != nil {
		return User{}, err
	}

	s.log.Infow("user patched", "id", id)
	return saved, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		current, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		return s.repo.Delete(ctx, current)
	})
	if err != nil {
		return err
	}

	s.log.Infow("user deleted", "id", id)
	return nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *Service) GetAll(ctx context.Context) ([]User, error) {
	return s.repo.FindAll(ctx)
}

// GetByDateOfBirth lists users born between from and to, both inclusive.
func (s *Service) GetByDateOfBirth(ctx context.Context, from, to Date) ([]User, error) {
	if from.After(to) {
		return nil, ErrInvalidTimePeriod
	}
	return s.repo.FindByDateOfBirthBetween(ctx, from, to)
}
