package main

import (
	"github.com/openafs-contrib/afsmon/cmd"
	"github.com/openafs-contrib/afsmon/internal/probes/vldb"
)

func main() {
	cmd.RunStandalone(cmd.NewVldbCommand(), "check_afs_vldb", vldb.Domain)
}
