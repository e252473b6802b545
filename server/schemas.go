package server

import (
	stderrors "errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
)

// RegisterRequest is the registration payload.
type RegisterRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	FullName        string `json:"full_name"`
	Bio             string `json:"bio"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// Validate will run validation rules
func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required, validation.Length(3, 50)),
		validation.Field(&r.Email, validation.Required, is.EmailFormat),
		validation.Field(&r.FullName, validation.Length(0, 100)),
		validation.Field(&r.Bio, validation.Length(0, 300)),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 100)),
		validation.Field(
			&r.ConfirmPassword,
			validation.Required,
			validation.By(ValidateStringEquals(r.Password)),
		),
	)
}

// LoginRequest carries the credentials. Username or email selects the
// account; username wins when both are present.
type LoginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate will run validation rules
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required.When(r.Email == "").Error("username or email is required")),
		validation.Field(&r.Email, is.EmailFormat),
		validation.Field(&r.Password, validation.Required),
	)
}

// RefreshRequest carries the refresh token.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Validate will run validation rules
func (r RefreshRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.RefreshToken, validation.Required),
	)
}

// PasswordResetRequest changes the password for the account under email.
type PasswordResetRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// Validate will run validation rules
func (r PasswordResetRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.EmailFormat),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 100)),
		validation.Field(
			&r.ConfirmPassword,
			validation.Required,
			validation.By(ValidateStringEquals(r.Password)),
		),
	)
}

// UpdateUserRequest is the whitelisted profile patch. Absent fields stay
// untouched; there is no way to reach flags or the password hash from here.
type UpdateUserRequest struct {
	FullName       *string `json:"full_name"`
	Bio            *string `json:"bio"`
	ProfilePicture *string `json:"profile_picture"`
}

// Validate will run validation rules
func (r UpdateUserRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FullName, validation.Length(0, 100)),
		validation.Field(&r.Bio, validation.Length(0, 300)),
		validation.Field(&r.ProfilePicture, validation.Length(0, 500)),
	)
}

// CreatePostRequest is the post creation payload.
type CreatePostRequest struct {
	Title       string `json:"title"`
	IsText      bool   `json:"is_text"`
	TextContent string `json:"text_content"`
	MediaURL    string `json:"media_url"`
	IsReel      bool   `json:"is_reel"`
	Caption     string `json:"caption"`
}

// Validate will run validation rules
func (r CreatePostRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.TextContent, validation.Length(0, 2000)),
		validation.Field(&r.MediaURL, validation.Length(0, 500)),
		validation.Field(&r.Caption, validation.Length(0, 1000)),
		validation.Field(&r.IsReel, validation.By(func(any) error {
			if r.IsText && r.IsReel {
				return stderrors.New("post cannot be text and reel at the same time")
			}
			if r.IsText && r.MediaURL != "" {
				return stderrors.New("text post cannot carry media")
			}
			return nil
		})),
	)
}

// CreateCommentRequest is the comment creation payload.
type CreateCommentRequest struct {
	PostID    uuid.UUID  `json:"post_id"`
	Content   string     `json:"content"`
	IsReply   bool       `json:"is_reply"`
	ReplyToID *uuid.UUID `json:"reply_to_id"`
}

// Validate will run validation rules
func (r CreateCommentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.PostID, validation.By(func(any) error {
			if r.PostID == uuid.Nil {
				return stderrors.New("post_id is required")
			}
			return nil
		})),
		validation.Field(&r.Content, validation.Required, validation.Length(1, 1000)),
		validation.Field(&r.IsReply, validation.By(func(any) error {
			if r.IsReply && r.ReplyToID == nil {
				return stderrors.New("reply requires reply_to_id")
			}
			return nil
		})),
	)
}

// ValidateStringEquals will check that both values match
func ValidateStringEquals(str string) validation.RuleFunc {
	return func(value any) error {
		s, _ := value.(string)
		if s != str {
			return stderrors.New("values must match")
		}
		return nil
	}
}

// FormatValidationErrorToMap flattens an ozzo validation error into a field
// to message map for the response envelope.
func FormatValidationErrorToMap(err error) map[string]string {
	out := map[string]string{}

	var fieldErrs validation.Errors
	if stderrors.As(err, &fieldErrs) {
		for field, ferr := range fieldErrs {
			out[field] = ferr.Error()
		}
		return out
	}

	if err != nil {
		out["payload"] = err.Error()
	}
	return out
}
