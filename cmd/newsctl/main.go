// Command newsctl administers the school news site database
package main

import (
	"os"

	"github.com/school-news-site/internal/cli"
)

// version is set at build time via ldflags
var version = "dev"

func main() {
	if err := cli.NewRootCmd(cli.OpenDatabase, version).Execute(); err != nil {
		os.Stderr.WriteString("Error: " + err.Error() + "\n")
		os.Exit(1)
	}
}
