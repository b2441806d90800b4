//go:build windows

package runtimeinit

import (
	"github.com/rs/zerolog"
	"golang.org/x/sys/windows"
)

const processPerMonitorDPIAware = 2

// enableDPIAwareness makes capture coordinates physical pixels on scaled
// displays. It must run before any window is created.
func enableDPIAwareness(log zerolog.Logger) {
	setProcessDpiAwareness := windows.NewLazySystemDLL("Shcore.dll").NewProc("SetProcessDpiAwareness")
	if err := setProcessDpiAwareness.Find(); err == nil {
		ret, _, _ := setProcessDpiAwareness.Call(uintptr(processPerMonitorDPIAware))
		if ret == 0 {
			log.Debug().Msg("DPI: per-monitor awareness enabled")
		} else {
			log.Warn().Uint64("code", uint64(ret)).Msg("DPI: SetProcessDpiAwareness failed")
		}
		return
	}

	setProcessDPIAware := windows.NewLazySystemDLL("user32.dll").NewProc("SetProcessDPIAware")
	if err := setProcessDPIAware.Find(); err != nil {
		log.Warn().Msg("DPI: no DPI awareness API available")
		return
	}
	if ret, _, _ := setProcessDPIAware.Call(); ret != 0 {
		log.Debug().Msg("DPI: system awareness enabled (fallback)")
	} else {
		log.Warn().Msg("DPI: SetProcessDPIAware failed")
	}
}
