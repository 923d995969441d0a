package main

import (
	"github.com/openafs-contrib/afsmon/cmd"
	"github.com/openafs-contrib/afsmon/internal/probes/udebug"
)

func main() {
	cmd.RunStandalone(cmd.NewUdebugCommand(), "check_afs_udebug", udebug.Domain)
}
