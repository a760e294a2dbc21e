package forms

import "strings"

type LoginForm struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

func (f *LoginForm) Clean() error {
	f.Username = strings.TrimSpace(f.Username)
	if errs := Validate(f); errs != nil {
		return errs
	}
	return nil
}

// RegisterForm limits passwords to 72 bytes, the most bcrypt hashes.
type RegisterForm struct {
	Username        string `form:"username" validate:"required,min=3,max=150,username"`
	Password        string `form:"password" validate:"required,min=8,bcryptlen"`
	PasswordConfirm string `form:"password_confirm" validate:"required,eqfield=Password"`
}

func (f *RegisterForm) Clean() error {
	f.Username = strings.TrimSpace(f.Username)
	if errs := Validate(f); errs != nil {
		return errs
	}
	return nil
}
