//go:build !windows && !linux && !darwin

package keys

var rawcodeKeys = map[uint16]Key{}
