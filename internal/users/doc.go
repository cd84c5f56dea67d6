// Package users registers accounts and verifies their credentials.
//
// Passwords are stored as bcrypt hashes. Lookup by email is exact; callers
// normalise addresses before they reach the repository.
package users
