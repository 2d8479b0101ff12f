// Package domain defines the core business entities of the task tracker
// (accounts and tasks), the account lifecycle rules, and the errors shared by
// the layers above it. It has no dependencies on storage or transport.
package domain
