// Command recordctl manages records and columns without the API server.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/danielhkuo/adaptable-records/cli"
)

func main() {
	// Same .env as the server; a missing file is fine
	_ = godotenv.Load()

	cmd := cli.NewRootCommand()
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
