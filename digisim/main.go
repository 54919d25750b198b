// Command digisim builds and runs digital-logic circuits.
package main

import (
	"github.com/tebeka/atexit"

	"github.com/sarchlab/digisim/digisim/cmd"
)

func main() {
	cmd.Execute()
	atexit.Exit(0)
}
