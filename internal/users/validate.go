package users

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode"

	"github.com/bengeek06/pm-users-api/internal/refclient"
	"github.com/google/uuid"
)

// Mode selects which fields Validate treats as required.
type Mode int

const (
	// ModeCreate requires email and a plaintext password.
	ModeCreate Mode = iota
	// ModeReplace requires email; the password is optional.
	ModeReplace
	// ModePartial validates only the fields present in the input.
	ModePartial
)

const (
	maxEmailLen     = 120
	maxNameLen      = 80
	maxPhoneLen     = 20
	maxAvatarURLLen = 256
	maxLanguageLen  = 10
	maxHashLen      = 256
)

// Validator checks an Input against the field rules and the live
// uniqueness/referential constraints. Field violations come back as a
// map keyed by field name; configuration or transport failures of the
// external lookups come back as a hard error.
type Validator struct {
	store *Store
	refs  refclient.Checker
}

func NewValidator(store *Store, refs refclient.Checker) *Validator {
	return &Validator{store: store, refs: refs}
}

// Validate checks the input. currentID identifies the record being
// updated so its own email is exempt from the uniqueness check; it is
// empty on create.
func (v *Validator) Validate(ctx context.Context, in Input, currentID string, mode Mode) (map[string]string, error) {
	fieldErrs := make(map[string]string)

	if err := v.validateEmail(ctx, in, currentID, mode, fieldErrs); err != nil {
		return nil, err
	}

	if mode == ModeCreate && (in.Password == nil || *in.Password == "") {
		fieldErrs["password"] = "password is required"
	}
	if len(in.HashedPassword) > maxHashLen {
		fieldErrs["password"] = "hashed password cannot exceed 256 characters"
	}

	if in.Firstname != nil && len(*in.Firstname) > maxNameLen {
		fieldErrs["firstname"] = "firstname cannot exceed 80 characters"
	}
	if in.Lastname != nil && len(*in.Lastname) > maxNameLen {
		fieldErrs["lastname"] = "lastname cannot exceed 80 characters"
	}
	if in.PhoneNumber != nil && len(*in.PhoneNumber) > maxPhoneLen {
		fieldErrs["phone_number"] = "phone_number cannot exceed 20 characters"
	}
	if in.AvatarURL != nil && len(*in.AvatarURL) > maxAvatarURLLen {
		fieldErrs["avatar_url"] = "avatar_url cannot exceed 256 characters"
	}
	if in.Language != nil && len(*in.Language) > maxLanguageLen {
		fieldErrs["language"] = "language cannot exceed 10 characters"
	}

	if in.CompanyID != nil {
		if _, err := uuid.Parse(*in.CompanyID); err != nil {
			fieldErrs["company_id"] = "company_id must be a valid UUID"
		} else {
			found, err := v.refs.CompanyExists(ctx, *in.CompanyID)
			if err != nil {
				return nil, err
			}
			if !found {
				fieldErrs["company_id"] = "unknown company_id"
			}
		}
	}

	if in.RoleID != nil {
		if *in.RoleID < 0 {
			fieldErrs["role_id"] = "role_id must be a non-negative integer"
		} else {
			found, err := v.refs.RoleExists(ctx, *in.RoleID)
			if err != nil {
				return nil, err
			}
			if !found {
				fieldErrs["role_id"] = "unknown role_id"
			}
		}
	}

	if in.LastLoginAt != nil && *in.LastLoginAt != "" {
		if _, err := time.Parse(time.RFC3339, *in.LastLoginAt); err != nil {
			fieldErrs["last_login_at"] = "last_login_at must be a valid RFC3339 datetime"
		}
	}

	return fieldErrs, nil
}

func (v *Validator) validateEmail(ctx context.Context, in Input, currentID string, mode Mode, fieldErrs map[string]string) error {
	if in.Email == nil {
		if mode != ModePartial {
			fieldErrs["email"] = "email is required"
		}
		return nil
	}

	email := *in.Email
	switch {
	case strings.TrimSpace(email) == "":
		fieldErrs["email"] = "email cannot be empty"
	case !strings.Contains(email, "@"):
		fieldErrs["email"] = "email must contain '@'"
	case len(email) > maxEmailLen:
		fieldErrs["email"] = "email cannot exceed 120 characters"
	case !isASCII(email):
		fieldErrs["email"] = "email must be ASCII characters only"
	default:
		owner, err := v.store.GetByEmail(ctx, email)
		if err != nil && !errors.Is(err, ErrUserNotFound) {
			return err
		}
		if owner != nil && (currentID == "" || owner.ID != currentID) {
			fieldErrs["email"] = "email must be unique"
		}
	}
	return nil
}

func isASCII(s string) bool {
	for _, r := range s {
		if r > unicode.MaxASCII {
			return false
		}
	}
	return true
}
