// Package events provides types and interfaces for an event-driven architecture.
//
// This package defines event types and observer interfaces that allow for loose
// coupling between components in the system. Services can emit events after a
// write commits without knowing which observers will process them, enabling
// better separation of concerns and reducing circular dependencies.
//
// The primary components are:
// - TaskChangeEvent: Represents a committed task write with its prior state
// - CommentCreatedEvent / AttachmentCreatedEvent: New rows on a task
// - TaskObserver / CommentObserver / AttachmentObserver: Observer interfaces
// - Emitter: Interface for components that can emit events
package events
