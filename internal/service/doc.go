// Package service provides application-level services for managing projects,
// tasks, comments, attachments, memberships, and notifications.
//
// Services orchestrate stores, the change event emitter, the comment cache,
// and the background job queue. They own the permission checks and the
// transaction boundaries; stores stay free of business rules.
package service
