package main

import (
	"fmt"
	"os"

	"github.com/openafs-contrib/afsmon/cmd"
	"github.com/openafs-contrib/afsmon/internal/probe"
)

func main() {
	if err := cmd.Execute(); err != nil {
		result := &probe.Result{Status: probe.StatusUnknown, Message: err.Error()}
		fmt.Println(result.Render("AFSMON", false))
		os.Exit(result.Status.ExitCode())
	}
}
