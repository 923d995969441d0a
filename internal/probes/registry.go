// Package probes provides the built-in probe registry.
package probes

import (
	"github.com/openafs-contrib/afsmon/internal/probe"
	"github.com/openafs-contrib/afsmon/internal/probes/bos"
	"github.com/openafs-contrib/afsmon/internal/probes/rxdebug"
	"github.com/openafs-contrib/afsmon/internal/probes/space"
	"github.com/openafs-contrib/afsmon/internal/probes/udebug"
	"github.com/openafs-contrib/afsmon/internal/probes/vldb"
)

// GetAllDescriptions returns descriptions of all built-in probes.
func GetAllDescriptions() []probe.Description {
	return []probe.Description{
		bos.GetDescription(),
		rxdebug.GetDescription(),
		space.GetDescription(),
		udebug.GetDescription(),
		vldb.GetDescription(),
	}
}
