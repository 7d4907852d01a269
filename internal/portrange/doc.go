// Package portrange implements a set of TCP ports stored as sorted, merged,
// inclusive ranges, plus a parser for the netcat-style port specifications
// ("80", "2000-2999", "-1024", "49152-").
package portrange
