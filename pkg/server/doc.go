// Package server provides the governance HTTP API.
//
// Every /api endpoint accepts a JSON body, authenticates a bearer token,
// runs the matching pipeline workflow, and replies with a uniform
// envelope carrying either the workflow result or an error message.
package server
