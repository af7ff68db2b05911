package api

// Service is a long running http endpoint of the bridge daemon
type Service interface {
	// Start starts the http service
	Start() error

	// Stop stops the http service
	Stop() error
}
