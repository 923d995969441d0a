package main

import (
	"github.com/openafs-contrib/afsmon/cmd"
	"github.com/openafs-contrib/afsmon/internal/probes/rxdebug"
)

func main() {
	cmd.RunStandalone(cmd.NewRxdebugCommand(), "check_afs_rxdebug", rxdebug.Domain)
}
