package auth

import "regexp"

// ValidationError is a local form error. It is surfaced with a specific
// corrective message and never reaches the network.
type ValidationError struct {
	Title   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

var (
	emailRe   = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	upperRe   = regexp.MustCompile(`[A-Z]`)
	digitRe   = regexp.MustCompile(`[0-9]`)
	specialRe = regexp.MustCompile(`[!@#$%^&*(),.?":{}|<>]`)
)

// SignupForm carries the raw signup fields.
type SignupForm struct {
	Name            string
	Email           string
	UserType        string
	Password        string
	ConfirmPassword string
}

// ValidateSignup checks the form the same way the signup screen does:
// required fields, then email shape, then password policy. The first
// violation wins.
func ValidateSignup(f SignupForm) error {
	if f.Name == "" || f.UserType == "" || f.Email == "" || f.Password == "" || f.ConfirmPassword == "" {
		return &ValidationError{Title: "Missing Fields", Message: "Please fill in all required fields."}
	}
	if !emailRe.MatchString(f.Email) {
		return &ValidationError{Title: "Invalid Email", Message: "Please enter a valid email address."}
	}
	if f.Password != f.ConfirmPassword {
		return &ValidationError{Title: "Password Mismatch", Message: "Passwords do not match."}
	}
	if len(f.Password) < 8 {
		return &ValidationError{Title: "Weak Password", Message: "Password must be at least 8 characters long."}
	}
	if !digitRe.MatchString(f.Password) {
		return &ValidationError{Title: "Weak Password", Message: "Password must contain a number."}
	}
	if !upperRe.MatchString(f.Password) {
		return &ValidationError{Title: "Weak Password", Message: "Password must contain an uppercase."}
	}
	if !specialRe.MatchString(f.Password) {
		return &ValidationError{Title: "Weak Password", Message: "Password must contain a special character."}
	}
	return nil
}

// PasswordMeetsPolicy reports whether password satisfies the full policy.
// Used for the live strength indicator during signup.
func PasswordMeetsPolicy(password string) bool {
	return len(password) >= 8 &&
		upperRe.MatchString(password) &&
		digitRe.MatchString(password) &&
		specialRe.MatchString(password)
}
