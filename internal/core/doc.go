// Package core holds the state shared by every netfixture package: the
// package-level logger and the error vocabulary (sentinels plus the
// ResourceError and ConnectionError types) re-exported by the root package.
package core
