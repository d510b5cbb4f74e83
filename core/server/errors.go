package server

import "errors"

var (
	ErrMissingAddress       = errors.New("server address is required")
	ErrEmptyCertPath        = errors.New("certificate and key file paths must both be set")
	ErrFailedLoadCert       = errors.New("failed to load certificate")
	ErrServerAlreadyRunning = errors.New("server is already running")
	ErrListen               = errors.New("failed to listen")
	ErrHTTPServer           = errors.New("HTTP server error")
	ErrHTTPShutdown         = errors.New("HTTP shutdown error")
)
