// Command gridlayout lays out HTML fixtures with the CSS grid layout
// and prints the geometry of their boxes.
package main

import (
	"os"

	"github.com/benoitkugler/gridlayout/logger"
)

func main() {
	err := newRootCmd().Execute()
	logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}
