// Package retry dials TCP endpoints that may not be listening yet.
//
// Dial retries only on "connection refused", sleeping a fixed interval between
// attempts, and gives up after a fixed number of attempts. Every other dial
// error ends the loop at once. The loop runs on apimachinery's wait.Backoff
// with a factor of 1, which turns its exponential backoff into a constant one.
package retry
