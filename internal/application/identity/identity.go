// Package identity registers users, exchanges credentials for bearer tokens
// and checks those tokens on the way in.
package identity

const (
	identityService     = "identity-service"
	useCaseRegister     = "identity.register"
	useCaseLogin        = "identity.login"
	useCaseAuthenticate = "identity.authenticate"

	MinPasswordLength = 8
	// MaxPasswordLength is bcrypt's input limit, in bytes.
	MaxPasswordLength = 72
	// Column widths of the users table, in characters.
	MaxUsernameLength = 80
	MaxEmailLength    = 255
)
