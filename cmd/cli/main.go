// locdist sums the distances between two sorted integer columns.
package main

import (
	"os"

	"github.com/ccollicutt/locdist/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
