package graceful

import (
	"os"
	"os/signal"
	"syscall"
)

// MakeSigintChan returns a channel receiving SIGINT and SIGTERM.
func MakeSigintChan() chan os.Signal {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	return sigCh
}
