package testutil

import (
	"time"

	"calisthenics-ai/internal/auth/domain/model"

	"golang.org/x/crypto/bcrypt"
)

// DefaultPassword is the password of every fixture account.
const DefaultPassword = "secret1"

// UserFixture provides test data for User model
type UserFixture struct{}

// NewUserFixture creates a new UserFixture instance
func NewUserFixture() *UserFixture {
	return &UserFixture{}
}

// ValidUser returns a valid user for testing
func (f *UserFixture) ValidUser() *model.User {
	return f.UserWithPassword("test@example.com", DefaultPassword)
}

// UserWithPassword returns a user with specific password
func (f *UserFixture) UserWithPassword(email, password string) *model.User {
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	now := time.Now().UTC()
	return &model.User{
		ID:           "user-" + email,
		Email:        email,
		PasswordHash: string(hashedPassword),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// DisabledUser returns an account that may not sign in.
func (f *UserFixture) DisabledUser(email string) *model.User {
	user := f.UserWithPassword(email, DefaultPassword)
	user.Disabled = true
	return user
}

// TestData provides all fixtures
type TestData struct {
	Users *UserFixture
}

// NewTestData creates a new TestData instance with all fixtures
func NewTestData() *TestData {
	return &TestData{
		Users: NewUserFixture(),
	}
}

// Inputs the signup form must reject
var (
	InvalidEmails = []string{
		"",
		"invalid-email",
		"@example.com",
		"test@",
		"test.example.com",
		"test@.com",
		"test@com.",
		"test space@example.com",
	}

	InvalidPasswords = []string{
		"",
		"123",   // Too short
		"12345", // Still too short
	}
)
