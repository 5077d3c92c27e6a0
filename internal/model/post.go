package model

import "time"

// Post is a blog entry owned by a user.
//
// UserID is a foreign key to users.id, enforced by the database (the posts
// table declares REFERENCES users(id) and the connection enables
// PRAGMA foreign_keys). A post can never reference a user that does not
// exist.
//
// Posts are created and listed only — update and delete are out of scope
// for this API.
type Post struct {
	ID        string    `json:"id"`
	UserID    string    `json:"-"`
	Title     string    `json:"titulo"`
	Text      string    `json:"texto"`
	CreatedAt time.Time `json:"data_criacao"`
}

// PostWithAuthor is the listing shape: a post joined with its author's
// display name. The "autor" field carries the name, not the user ID —
// that is what the wire contract exposes.
type PostWithAuthor struct {
	ID        string    `json:"id"`
	Author    string    `json:"autor"`
	Title     string    `json:"titulo"`
	Text      string    `json:"texto"`
	CreatedAt time.Time `json:"data_criacao"`
}
