// Package utils provides utility functions and helpers for common operations
// used throughout the application: string and slice helpers, personal data
// masking for logs, and the shared error, response and validation plumbing.
package utils

import (
	"fmt"
	"strings"
)

// Plural returns a string with the number and the plural form of the word if necessary.
//
// Parameters:
//   - count: the count to determine if singular or plural form is needed
//   - word: the base word in singular form
//
// Returns:
//   - a formatted string with the count and appropriate word form
func Plural(count int, word string) string {
	if count == 1 {
		return fmt.Sprintf("%d %s", count, word)
	}
	return fmt.Sprintf("%d %ss", count, word)
}

// MaskEmail masks the user part of an email address, showing only the first and last character.
// Profile emails pass through this before they reach a log line.
//
// For example: "user@example.com" becomes "u**r@example.com"
func MaskEmail(email string) string {
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return email
	}

	user := parts[0]
	domain := parts[1]

	if len(user) <= 2 {
		return email
	}

	return string(user[0]) + strings.Repeat("*", len(user)-2) + string(user[len(user)-1]) + "@" + domain
}

// ContainsString checks if a slice of strings contains a specific string.
func ContainsString(slice []string, str string) bool {
	for _, item := range slice {
		if item == str {
			return true
		}
	}
	return false
}

// RemoveString removes all occurrences of a string from a slice.
// It returns a new, never-nil slice and leaves the original untouched.
func RemoveString(slice []string, str string) []string {
	result := make([]string, 0, len(slice))
	for _, item := range slice {
		if item != str {
			result = append(result, item)
		}
	}
	return result
}
