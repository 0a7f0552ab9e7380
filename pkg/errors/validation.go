package errors

import (
	"net"
	"regexp"
	"strings"
	"unicode"
)

// tableNameRegex matches computed table names: lowercase identifiers.
var tableNameRegex = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// ValidateTableName validates a computed table name taken from user input
// (URL path segments, CLI arguments).
//
// Validation rules:
//   - Name cannot be empty
//   - Maximum length of 128 characters
//   - Lowercase letters, digits and underscores, starting with a letter
func ValidateTableName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "table name cannot be empty")
	}

	const maxNameLength = 128
	if len(name) > maxNameLength {
		return New(ErrCodeInvalidInput, "table name too long (max %d characters)", maxNameLength)
	}

	if !tableNameRegex.MatchString(name) {
		return New(ErrCodeInvalidInput, "invalid table name: %q", name)
	}

	return nil
}

// ValidateMongoURI validates a MongoDB connection string for safety.
// It ensures the URI has a mongodb scheme and contains no control characters.
func ValidateMongoURI(uri string) error {
	if uri == "" {
		return New(ErrCodeInvalidInput, "mongodb URI cannot be empty")
	}

	for _, r := range uri {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "mongodb URI contains invalid control characters")
		}
	}

	if !strings.HasPrefix(uri, "mongodb://") && !strings.HasPrefix(uri, "mongodb+srv://") {
		return New(ErrCodeInvalidInput, "URI must use mongodb or mongodb+srv scheme")
	}

	return nil
}

// ValidateAddr validates a host:port network address such as a Redis
// endpoint or an HTTP listen address. The host part may be empty.
func ValidateAddr(addr string) error {
	if addr == "" {
		return New(ErrCodeInvalidInput, "address cannot be empty")
	}

	_, port, err := net.SplitHostPort(addr)
	if err != nil {
		return Wrap(ErrCodeInvalidInput, err, "invalid address %q", addr)
	}
	if port == "" {
		return New(ErrCodeInvalidInput, "address %q has no port", addr)
	}

	return nil
}
