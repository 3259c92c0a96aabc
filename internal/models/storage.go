package models

import "time"

// UserKeyValue represents a per-user configuration key-value pair.
type UserKeyValue struct {
	UserID   string    `json:"user_id"`
	Key      string    `json:"key"`
	Value    string    `json:"value"`
	Version  int       `json:"version"`
	DateTime time.Time `json:"datetime"`
}

// UserRecord is a generic document record for user domain data.
// Value holds the JSON-encoded document.
type UserRecord struct {
	UserID   string    `json:"user_id"`
	Subject  string    `json:"subject"`
	Key      string    `json:"key"`
	Value    string    `json:"value"`
	Version  int       `json:"version"`
	DateTime time.Time `json:"datetime"`
}

// Subjects and keys used in the user data store.
const (
	SubjectPortfolio = "portfolio"
	DefaultRecordKey = "default"
)
