package userservice

import (
	"regexp"

	"github.com/sushihentaime/inkwell/internal/common"
)

var (
	LetterRX = regexp.MustCompile(`[A-Za-z]`)
	NumberRX = regexp.MustCompile(`[0-9]`)
)

func validateName(v *common.Validator, name string) {
	v.Check(common.NotBlank(name), "name", "must be provided")
	v.Check(v.CheckStringLength(name, 1, 100), "name", "must not be more than 100 characters long")
}

func validateEmail(v *common.Validator, email string) {
	v.Check(email != "", "email", "must be provided")
	v.Check(common.Matches(email, common.EmailRX), "email", "must be a valid email address")
}

func validatePassword(v *common.Validator, password string) {
	v.Check(password != "", "password", "must be provided")
	v.Check(len(password) >= 8, "password", "must be at least 8 characters long")
	v.Check(len(password) <= 72, "password", "must not be more than 72 bytes long")
	v.Check(LetterRX.MatchString(password) && NumberRX.MatchString(password), "password", "must contain at least one letter and one number")
}

func validatePasswordPlaintext(v *common.Validator, password string) {
	v.Check(password != "", "password", "must be provided")
}

func ValidateToken(v *common.Validator, token string) {
	v.Check(token != "", "token", "must be provided")
	v.Check(len(token) == 26, "token", "must be 26 characters long")
}
