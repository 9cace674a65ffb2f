package usecase

import "errors"

var (
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrEmailTaken          = errors.New("email already in use")
	ErrInvalidInput        = errors.New("invalid input")
	ErrInternal            = errors.New("internal error")

	ErrInvalidFile      = errors.New("file must be a pdf")
	ErrFileTooLarge     = errors.New("file too large")
	ErrUploadInProgress = errors.New("an upload is already being analysed")

	ErrAnalysisNotFound    = errors.New("analysis not found")
	ErrEmptyGraph          = errors.New("analysis has no skills to map")
	ErrUpstreamUnavailable = errors.New("analysis backend unavailable")
	ErrUpstreamContract    = errors.New("analysis backend returned an unexpected response")
	ErrReportDisabled      = errors.New("pdf report disabled")
)
