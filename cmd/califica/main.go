// califica rates professors course by course.
// Reviews, rankings and course requests live in one local bbolt file.
package main

import (
	"os"

	"github.com/corey/califica/cmd/califica/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
