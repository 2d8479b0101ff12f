// Package api handles incoming HTTP requests and response formatting. It
// adapts HTTP to the account and task services: request payloads arrive
// already checked by the validation gate, and every handler error goes
// through HandleAPIError.
package api
