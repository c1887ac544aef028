package models

import "github.com/oklog/ulid/v2"

// NewID generates a client-side entity ID of the form "<prefix>_<ULID>".
//
// ULIDs encode the creation timestamp followed by random bits, so IDs
// generated by one process are unique and sortable by creation time. The ID
// is assigned before any network interaction, which lets an optimistic
// creation be echoed back by the server under the same identity.
func NewID(prefix string) string {
	return prefix + "_" + ulid.Make().String()
}
