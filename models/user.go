package models

// User is the auth collaborator's record, stored as a users/{uid} document.
// The per-user data collections hang off the same document.
type User struct {
	ID           string `json:"id" firestore:"-"`
	Email        string `json:"email" firestore:"email"`
	PasswordHash []byte `json:"-" firestore:"password_hash"`
	CreatedAt    string `json:"created_at" firestore:"created_at"`
}
