// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data — similar to classes in other
// languages, but without inheritance. Go favours composition over inheritance.
package model

import "time"

// User represents a registered account.
//
// The API surface of this service is Portuguese (it reproduces an existing
// wire contract), so the JSON tags follow that contract: "nome" for the
// display name, "data_criacao" for the creation timestamp. Field names in
// Go stay English, like the rest of the code.
//
// WHY IS THERE NO PASSWORD FIELD IN JSON?
// PasswordHash has `json:"-"`, which tells encoding/json to NEVER serialize
// it. Even if a handler accidentally writes a full User to a response, the
// hash cannot leak. The plaintext password is never stored at all — only
// the bcrypt hash derived from it.
//
// GitHubID is optional: accounts created through normal registration leave
// it at zero; accounts created via "login with GitHub" carry GitHub's
// numeric user ID (stable and unique per GitHub account). OAuth accounts
// have an empty PasswordHash, which can never verify against any plaintext,
// so password login is naturally impossible for them.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"nome"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	GitHubID     int64     `json:"-"`
	CreatedAt    time.Time `json:"data_criacao"`
	UpdatedAt    time.Time `json:"-"`
}
