// Package api implements the backend API ports on top of a driven.Requester.
//
// Every call is paced by a token bucket. Responses use the backend envelope
// {meta, data, error}; an error member is returned as a *domain.Failure even
// when the status is 2xx.
package api
