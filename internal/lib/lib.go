// Package lib holds the integrations that do not belong to a single layer:
// the identity provider client (identity), background jobs on Redis through
// Asynq (job) and transactional email through Resend (email).
package lib
