package errors

import (
	"errors"
)

var (
	ErrInvalidCredentials = errors.New("invalid login or password")
	ErrLoginTaken         = errors.New("login already registered")

	ErrMissingToken   = errors.New("authorization token missing")
	ErrMalformedToken = errors.New("malformed authorization token")
	ErrExpiredToken   = errors.New("token expired")
	ErrRevokedToken   = errors.New("token revoked")
	ErrWrongTokenType = errors.New("wrong token type")

	ErrPermissionDenied = errors.New("permissions denied")

	ErrUserNotFound        = errors.New("user not found")
	ErrRoleNotFound        = errors.New("role not found")
	ErrAssignmentNotFound  = errors.New("role assignment not found")
	ErrRoleExists          = errors.New("role already exists")
	ErrRoleAlreadyAssigned = errors.New("role already assigned to user")

	ErrRateLimited         = errors.New("too many requests")
	ErrNoRoute             = errors.New("invalid target path")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	ErrSigning             = errors.New("token signing failed")
)
