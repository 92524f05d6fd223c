// Package constants holds identifiers shared across layers.
package constants

// Environments
const (
	EnvDevelop    = "develop"
	EnvStaging    = "staging"
	EnvProduction = "production"
)

// Fan-out bus providers
const (
	FanoutProviderLocal  = "local"
	FanoutProviderRedis  = "redis"
	FanoutProviderGoogle = "google"
)

// Token verifier modes
const (
	AuthModeJWT    = "jwt"
	AuthModeRemote = "remote"
)

// Roles
const (
	RoleAdmin = "admin"
)

// Realtime events
const (
	EventUserConnected        = "user_connected"
	EventNotificationReceived = "notification_received"
	EventMarkNotificationRead = "mark_notification_read"
	EventNotificationRead     = "notification_read"
	EventError                = "error"
)

// Queue processing outcomes
const (
	OutcomeDelivered  = "delivered"
	OutcomeStored     = "stored"
	OutcomeDuplicate  = "duplicate"
	OutcomeRetried    = "retried"
	OutcomeDeadLetter = "dead_lettered"
)
