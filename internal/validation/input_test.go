package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateLength(t *testing.T) {
	assert.NoError(t, ValidateLength("имя", "Иван", 2, 100))
	assert.Error(t, ValidateLength("имя", "И", 2, 100))
	assert.Error(t, ValidateLength("имя", strings.Repeat("а", 101), 2, 100))

	// Длина считается в рунах, не в байтах.
	assert.NoError(t, ValidateLength("имя", "Ян", 2, 2))
}

func TestValidateEmail(t *testing.T) {
	valid := []string{
		"user@example.com",
		"first.last@mail.ru",
		"user+tag@sub.domain.org",
	}
	for _, email := range valid {
		assert.NoError(t, ValidateEmail(email), email)
	}

	invalid := []string{
		"",
		"plain",
		"@example.com",
		"user@",
		"user@localhost",
		"user name@example.com",
	}
	for _, email := range invalid {
		assert.Error(t, ValidateEmail(email), email)
	}
}

func TestValidateSlug(t *testing.T) {
	assert.NoError(t, ValidateSlug("my-first-post"))
	assert.NoError(t, ValidateSlug("post-2024"))

	assert.Error(t, ValidateSlug("ab"))
	assert.Error(t, ValidateSlug("My-Post"))
	assert.Error(t, ValidateSlug("-leading"))
	assert.Error(t, ValidateSlug("trailing-"))
	assert.Error(t, ValidateSlug("under_score"))
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "hello-world", Slugify("Hello, World!"))
	assert.Equal(t, "go-1-25-released", Slugify("  Go 1.25 Released  "))
	assert.Equal(t, "a-b", Slugify("a---b"))
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("longenough"))
	assert.Error(t, ValidatePassword("short"))
}
