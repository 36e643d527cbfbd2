// Package domain contains entity without logic, just meta-data
package domain

type UserID string

// DefaultBalance is granted to every user on first reference.
const DefaultBalance int64 = 1000
