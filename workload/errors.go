package workload

import "errors"

const component = "workload"

// Workload errors
var (
	ErrInvalidConfig = errors.New("invalid workload config")
	ErrVerification  = errors.New("workload verification failed")
	ErrCancelled     = errors.New("workload cancelled")
)
