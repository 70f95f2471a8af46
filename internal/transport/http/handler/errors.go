package handler

const (
	errInternalServer = "Internal server error"
	errEmailTaken     = "User with this email already exists"
	errUnknownEmail   = "User with this email does not exist"
	errBadPassword    = "Invalid password"
	errCodeTaken      = "Short code already in use"
	errInvalidURL     = "Invalid url"
)
