package models

import "strings"

// SecretRef identifies a secret in a vault listing (without value)
type SecretRef struct {
	ID string `json:"id"`
}

// Name returns the human-readable secret name, the last path segment of the ID
func (r SecretRef) Name() string {
	return NameFromID(r.ID)
}

// SecretValue includes the resolved secret value
// Value is empty when the secret could not be resolved
type SecretValue struct {
	ID    string `json:"id"`
	Value string `json:"value"`
}

// Name returns the human-readable secret name, the last path segment of the ID
func (v SecretValue) Name() string {
	return NameFromID(v.ID)
}

// NameFromID returns the substring after the final "/" of id,
// or id itself when it contains no "/"
func NameFromID(id string) string {
	if i := strings.LastIndex(id, "/"); i >= 0 {
		return id[i+1:]
	}
	return id
}
