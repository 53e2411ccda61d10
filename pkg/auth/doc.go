// Package auth is the access-control core of the graphmesh kernel: for
// every operation a connected principal attempts it decides whether the
// operation is permitted.
//
// The building blocks are Permission, a parsed capability descriptor with a
// hierarchical/wildcard implication test, and Subject, the per-session
// authorization object that derives read/write/schema/admin/procedure
// decisions from its authentication state and a fresh role-resolution
// lookup. Denials are translated into typed errors by OnViolation, so a
// caller can tell "change your password" apart from "you lack permission".
//
// Role resolution and credential storage are collaborators: the core reads
// them through the RoleResolver and credentials.Store contracts on every
// check and never caches the result, so an administrative role change is
// observed by all active sessions on their next check.
package auth
