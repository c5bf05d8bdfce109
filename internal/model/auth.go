package model

// User is the profile payload returned by the auth endpoints.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Credentials is the sign-in form.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (c Credentials) Validate() error { return validate.Struct(c) }

// Registration is the sign-up form. ConfirmPassword and AgreeToTerms are
// checked locally and never sent over the wire.
type Registration struct {
	Name            string `json:"name" validate:"required,max=100"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	ConfirmPassword string `json:"-"`
	AgreeToTerms    bool   `json:"-"`
}

func (r Registration) Validate() error {
	if err := validate.Struct(r); err != nil {
		return err
	}
	if r.Password != r.ConfirmPassword {
		return ErrPasswordMismatch
	}
	if !r.AgreeToTerms {
		return ErrTermsNotAgreed
	}
	return nil
}
