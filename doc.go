// Package tutorsync is the client-resident synchronization engine for the
// TutorLink platform. It keeps the local copies of slots, lessons, chats,
// posts, notifications, and profiles consistent with a coordinating server
// and with other connected clients, and stays usable when the server is
// unreachable.
//
// Mutations are optimistic: they apply to the local store synchronously and
// are forwarded over the pub/sub transport only while connected. Inbound
// replica events are reconciled idempotently by entity ID, so at-least-once
// delivery and server echoes of local mutations are safe. On every
// (re)connection the engine replaces its collections wholesale with a fresh
// authoritative snapshot.
//
// The engine provides last-writer-wins semantics, not conflict-free merging:
// concurrent whole-document writes from two devices overwrite one another.
package tutorsync
