// Package sentinel provides a string-backed error type for sentinel errors
// that must be declared as const.
//
// Sentinels built with errors.New live in package variables and can be
// reassigned by any importer. An Error can be a const instead, so the
// netfixture sentinels (ErrResource, ErrConnection, ErrNoFreePort, ...) are
// fixed at compile time and still match through wrapped chains with errors.Is.
package sentinel
