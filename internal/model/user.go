package model

import "time"

// User represents an application user record as stored in the
// `users` table. Each field corresponds to a column in the
// database. The json tags are omitted here because these structs
// are primarily used internally by the repository layer; handlers
// may define separate response types with appropriate JSON tags.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Name         – display name shown by the web client.
//  Email        – unique email address.
//  PasswordHash – bcrypt hashed password.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    // users.id
	Name         string    // users.name
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}
