package users

// Input carries the user fields of a create or update request. Pointer
// fields distinguish "absent" from "zero value" so updates only touch
// the fields a caller actually sent.
type Input struct {
	ID          *string `json:"id,omitempty"`
	Email       *string `json:"email,omitempty"`
	Password    *string `json:"password,omitempty"`
	Firstname   *string `json:"firstname,omitempty"`
	Lastname    *string `json:"lastname,omitempty"`
	PhoneNumber *string `json:"phone_number,omitempty"`
	AvatarURL   *string `json:"avatar_url,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
	IsVerified  *bool   `json:"is_verified,omitempty"`
	Language    *string `json:"language,omitempty"`
	CompanyID   *string `json:"company_id,omitempty"`
	RoleID      *int    `json:"role_id,omitempty"`
	LastLoginAt *string `json:"last_login_at,omitempty"`

	// HashedPassword is set by the handler after hashing Input.Password.
	// It never comes from the wire.
	HashedPassword string `json:"-"`
}
