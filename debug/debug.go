// ─────────────────────────────────────────────────────────────────────────────
// [Filename]: debug.go: cold-path diagnostic logging
//
// Purpose:
//   - Reports failures and phase changes of tooling built on the containers.
//   - The containers themselves never log; their failures are return values.
//
// Notes:
//   - Plain prefix + message concatenation, no format verbs.
//   - Output defaults to stderr with timestamps; SetOutput redirects it.
//
// ⚠️ Never invoke in hot loops: failure diagnostics only.
// ─────────────────────────────────────────────────────────────────────────────

package debug

import (
	"io"
	"log"
	"os"
)

var logger = log.New(os.Stderr, "", log.LstdFlags)

// SetOutput redirects all diagnostics to w.
func SetOutput(w io.Writer) {
	logger.SetOutput(w)
}

// DropError logs "<prefix>: <err>", or just "<prefix>" when err is nil (used
// as a cheap trace tag).
func DropError(prefix string, err error) {
	if err != nil {
		logger.Print(prefix + ": " + err.Error())
		return
	}
	logger.Print(prefix)
}

// DropMessage logs "<prefix>: <message>".
func DropMessage(prefix, message string) {
	logger.Print(prefix + ": " + message)
}
