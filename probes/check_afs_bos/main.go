package main

import (
	"github.com/openafs-contrib/afsmon/cmd"
	"github.com/openafs-contrib/afsmon/internal/probes/bos"
)

func main() {
	cmd.RunStandalone(cmd.NewBosCommand(), "check_afs_bos", bos.Domain)
}
