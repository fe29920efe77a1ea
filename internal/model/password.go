package model

// PasswordField tracks whether a user's password was set since the record was loaded.
// The zero value means unchanged; only a pending plaintext is ever hashed.
type PasswordField struct {
	pending *string
}

// NewPassword marks plaintext as pending to be hashed before the next save.
func NewPassword(plaintext string) PasswordField {
	return PasswordField{pending: &plaintext}
}

// Pending returns the plaintext waiting to be hashed, if any.
func (p PasswordField) Pending() (string, bool) {
	if p.pending == nil {
		return "", false
	}
	return *p.pending, true
}

// IsChanged reports whether a new password is waiting to be hashed.
func (p PasswordField) IsChanged() bool {
	return p.pending != nil
}

// String never reveals the plaintext.
func (p PasswordField) String() string {
	if p.pending == nil {
		return "unchanged"
	}
	return "pending"
}
