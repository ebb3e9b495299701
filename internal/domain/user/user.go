package user

import (
	"fmt"
	"net/mail"
	"strings"
	"sync"
)

// User is the account a profile belongs to. Identity and credentials are
// owned by the authentication layer; this model carries what notifications
// need: address and display name.
type User struct {
	id        uint
	username  string
	email     string
	firstName string
	lastName  string
	isActive  bool
	mu        sync.RWMutex
}

// NewUser creates an active user that has not been persisted yet.
func NewUser(username, email string) (*User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("username is required")
	}
	if len(username) > 150 {
		return nil, fmt.Errorf("username exceeds maximum length of 150 characters")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("invalid email address: %w", err)
	}

	return &User{
		username: username,
		email:    email,
		isActive: true,
	}, nil
}

// ReconstructUser rebuilds a user from persistence.
func ReconstructUser(id uint, username, email, firstName, lastName string, isActive bool) (*User, error) {
	if id == 0 {
		return nil, fmt.Errorf("user ID cannot be zero")
	}
	return &User{
		id:        id,
		username:  username,
		email:     email,
		firstName: firstName,
		lastName:  lastName,
		isActive:  isActive,
	}, nil
}

// Anonymous returns the identity used for actions performed without login.
func Anonymous() *User {
	return &User{username: "anonymous"}
}

func (u *User) ID() uint {
	if u == nil {
		return 0
	}
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.id
}

func (u *User) SetID(id uint) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.id != 0 {
		return fmt.Errorf("user ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("user ID cannot be zero")
	}
	u.id = id
	return nil
}

// IsAuthenticated reports whether u is a real, persisted account.
// A nil user is anonymous.
func (u *User) IsAuthenticated() bool {
	return u.ID() != 0
}

func (u *User) Username() string {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.username
}

func (u *User) Email() string {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.email
}

func (u *User) FirstName() string {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.firstName
}

func (u *User) LastName() string {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.lastName
}

func (u *User) IsActive() bool {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.isActive
}

// FullName joins first and last name, skipping empty parts.
func (u *User) FullName() string {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return strings.TrimSpace(u.firstName + " " + u.lastName)
}

// DisplayName is the full name when known, the username otherwise.
func (u *User) DisplayName() string {
	if name := u.FullName(); name != "" {
		return name
	}
	return u.Username()
}

// SetName stores the real name collected at registration.
func (u *User) SetName(firstName, lastName string) error {
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	if len(firstName) > 30 {
		return fmt.Errorf("first name exceeds maximum length of 30 characters")
	}
	if len(lastName) > 30 {
		return fmt.Errorf("last name exceeds maximum length of 30 characters")
	}

	u.mu.Lock()
	defer u.mu.Unlock()
	u.firstName = firstName
	u.lastName = lastName
	return nil
}

func (u *User) String() string {
	return u.Username()
}
