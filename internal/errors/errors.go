package errors

import "errors"

var (
	ErrRegionRequired         = errors.New("deployment region is required")
	ErrRepositoryRequired     = errors.New("repository name is required")
	ErrTagRequired            = errors.New("image tag is required")
	ErrNoAuthorizationData    = errors.New("registry returned no authorization data")
	ErrMalformedAuthToken     = errors.New("malformed registry authorization token")
	ErrContainerNotHealthy    = errors.New("container did not become healthy before the deadline")
	ErrRepositoryNotDescribed = errors.New("repository exists but was not returned by describe")
)
