package cli

import (
	"fmt"

	"github.com/vburojevic/jittail/internal/output"
)

// emitWarning respects format/quiet.
func emitWarning(globals *Globals, emitter *output.Emitter, msg string) {
	if globals.Quiet {
		return
	}
	if globals.Format == "ndjson" && emitter != nil {
		_ = emitter.WriteWarning(msg)
		return
	}
	fmt.Fprintf(globals.Stderr, "Warning: %s\n", msg)
}

// emitInfo respects format/quiet.
func emitInfo(globals *Globals, emitter *output.Emitter, info *output.InfoOutput) {
	if globals.Quiet {
		return
	}
	if globals.Format == "ndjson" && emitter != nil {
		_ = emitter.Info(info)
		return
	}
	fmt.Fprintf(globals.Stderr, "%s\n", info.Message)
}
