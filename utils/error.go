package utils

import "errors"

var ErrorInvalidCredentials = errors.New("incorrect username or password")
