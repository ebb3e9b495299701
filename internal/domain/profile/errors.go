package profile

import "errors"

var (
	ErrProfileNotFound     = errors.New("profile not found")
	ErrUnsupportedLanguage = errors.New("unsupported interface language")
	ErrUserRequired        = errors.New("profile requires a persisted user")
	ErrUserAlreadyAssigned = errors.New("profile user cannot be changed")
	ErrInvalidLanguageCode = errors.New("invalid language code")
	ErrInvalidProjectID    = errors.New("invalid project id")
)
