//go:build !windows

package runtimeinit

import "github.com/rs/zerolog"

func enableDPIAwareness(zerolog.Logger) {}
