package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bengeek06/pm-users-api/internal/database/models"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already in use")
)

// Store wraps the users table. Every mutating call commits immediately;
// there are no transaction boundaries spanning multiple records.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) GetAll(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).Order("created_at").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	return users, nil
}

func (s *Store) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// Create inserts a new user. The id is generated when the input carries
// none. Fails with ErrEmailTaken when the email is already used.
func (s *Store) Create(ctx context.Context, in Input) (*models.User, error) {
	if in.Email == nil {
		return nil, errors.New("email is required")
	}

	if _, err := s.GetByEmail(ctx, *in.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	user := models.User{
		Email:          *in.Email,
		HashedPassword: in.HashedPassword,
		IsActive:       true,
		IsVerified:     false,
	}
	if in.ID != nil {
		user.ID = *in.ID
	}
	applyInput(&user, in)

	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}
	return &user, nil
}

// Update applies the provided fields to an existing record and commits.
// Changing the email to one owned by another record fails with
// ErrEmailTaken. The id is immutable.
func (s *Store) Update(ctx context.Context, user *models.User, in Input) error {
	if in.Email != nil && *in.Email != user.Email {
		if other, err := s.GetByEmail(ctx, *in.Email); err == nil && other.ID != user.ID {
			return ErrEmailTaken
		} else if err != nil && !errors.Is(err, ErrUserNotFound) {
			return err
		}
		user.Email = *in.Email
	}
	if in.HashedPassword != "" {
		user.HashedPassword = in.HashedPassword
	}
	applyInput(user, in)

	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		return fmt.Errorf("updating user: %w", err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, user *models.User) error {
	if err := s.db.WithContext(ctx).Delete(user).Error; err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}
	return nil
}

// applyInput copies the optional fields shared by create and update.
// Email, password and id are handled by the callers.
func applyInput(user *models.User, in Input) {
	if in.Firstname != nil {
		user.Firstname = *in.Firstname
	}
	if in.Lastname != nil {
		user.Lastname = *in.Lastname
	}
	if in.PhoneNumber != nil {
		user.PhoneNumber = *in.PhoneNumber
	}
	if in.AvatarURL != nil {
		user.AvatarURL = *in.AvatarURL
	}
	if in.IsActive != nil {
		user.IsActive = *in.IsActive
	}
	if in.IsVerified != nil {
		user.IsVerified = *in.IsVerified
	}
	if in.Language != nil {
		user.Language = *in.Language
	}
	if in.CompanyID != nil {
		user.CompanyID = *in.CompanyID
	}
	if in.RoleID != nil {
		user.RoleID = *in.RoleID
	}
	if in.LastLoginAt != nil {
		if t, err := time.Parse(time.RFC3339, *in.LastLoginAt); err == nil {
			user.LastLoginAt = &t
		}
	}
}
