package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

type PostInput struct {
	Text   string `json:"text" validate:"required,min=2,max=300"`
	Name   string `json:"name"`
	Avatar string `json:"avatar" validate:"omitempty,url"`
}

type AuthReq struct {
	Username string `json:"username" validate:"required,max=32,username"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

var usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// keyed by "<json field>.<failed tag>"
var validationMessages = map[string]string{
	"text.required":     "Text field is required",
	"text.min":          "Post must be between 2 and 300 characters",
	"text.max":          "Post must be between 2 and 300 characters",
	"avatar.url":        "Avatar must be a valid URL",
	"username.required": "Username field is required",
	"username.max":      "Username must be at most 32 characters",
	"username.username": "Username may only contain letters, digits, _ and -",
	"password.required": "Password field is required",
	"password.min":      "Password must be between 8 and 72 characters",
	"password.max":      "Password must be between 8 and 72 characters",
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	err := v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernameRe.MatchString(fl.Field().String())
	})
	if err != nil {
		panic(err)
	}

	return v
}

// ValidatePostInput checks a post or comment submission.
func ValidatePostInput(in *PostInput) (map[string]string, bool) {
	return validateInput(in)
}

func ValidateAuthInput(in *AuthReq) (map[string]string, bool) {
	return validateInput(in)
}

func validateInput(in interface{}) (map[string]string, bool) {
	errs := make(map[string]string)

	err := validate.Struct(in)
	var fieldErrs validator.ValidationErrors
	switch {
	case errors.As(err, &fieldErrs):
		for _, fe := range fieldErrs {
			if _, seen := errs[fe.Field()]; seen {
				continue
			}

			msg, ok := validationMessages[fe.Field()+"."+fe.Tag()]
			if !ok {
				msg = fmt.Sprintf("%s is invalid", fe.Field())
			}
			errs[fe.Field()] = msg
		}
	case err != nil:
		errs["input"] = err.Error()
	}

	return errs, len(errs) == 0
}
