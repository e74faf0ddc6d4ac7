// Package contract renders the finished quote into downstream documents:
// a verifiable-credential style contract JSON and a single-page policy
// PDF.
//
// Both renderers consume only the priced Quote, the validated answers, and
// catalog label lookups; they perform no business logic of their own.
package contract
