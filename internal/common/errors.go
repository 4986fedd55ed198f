package common

import "errors"

var (

	// repository specific errors
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// service specific errors
	ErrorInternal           = errors.New("internal error")
	ErrorInvalidInput       = errors.New("username and password are required")
	ErrorUsernameTaken      = errors.New("username already exists")
	ErrorInvalidCredentials = errors.New("invalid credentials")

	// token specific errors
	ErrorMissingToken = errors.New("no token provided")
	ErrorInvalidToken = errors.New("invalid token")
)
