package main

import (
	"github.com/openafs-contrib/afsmon/cmd"
	"github.com/openafs-contrib/afsmon/internal/probes/space"
)

func main() {
	cmd.RunStandalone(cmd.NewSpaceCommand(), "check_afs_space", space.Domain)
}
