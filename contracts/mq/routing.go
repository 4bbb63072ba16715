package mq

// Routing keys published on the "events" topic exchange.
const (
	RoutingKeyTaskAssigned  = "task.assigned"
	RoutingKeyTaskAccepted  = "task.accepted"
	RoutingKeyTaskDeclined  = "task.declined"
	RoutingKeyTaskCompleted = "task.completed"
	RoutingKeyTaskReopened  = "task.reopened"
	RoutingKeyMessagePosted = "message.posted"

	RoutingKeyNotificationCreated = "notification.created"
)
