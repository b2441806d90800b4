package notification

import (
	"github.com/gen2brain/beeep"
	"github.com/rs/zerolog"
)

const appName = "Screen Answer Overlay"

// maxMessage caps the alert body length.
const maxMessage = 200

var alert = func(title, message string) error { return beeep.Alert(title, message, "") }

// ShowBlockingError raises a desktop alert for a fatal error. Failure to
// show the alert is logged and otherwise ignored; the caller still exits.
func ShowBlockingError(log zerolog.Logger, title, message string) {
	if len(message) > maxMessage {
		message = message[:maxMessage] + "..."
	}
	if title != "" {
		title = appName + ": " + title
	} else {
		title = appName
	}
	if err := alert(title, message); err != nil {
		log.Warn().Err(err).Str("title", title).Msg("desktop alert failed")
	}
}
