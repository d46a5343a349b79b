// Command handshakesim runs a handshake adapter between a buffer and a sink.
package main

import (
	"github.com/sarchlab/fifoadapter/cmd/handshakesim/cmd"
	"github.com/tebeka/atexit"
)

func main() {
	cmd.Execute()
	atexit.Exit(0)
}
