// Package status defines the shared lifecycle status values used by stored
// documents (accounts, templates). Subscriptions carry their own state enum
// in the models package because their lifecycle may grow extra states.
package status

const (
	Active  = "active"
	Deleted = "deleted"
)
