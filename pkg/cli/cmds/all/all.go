// Package all registers every shell command.
package all

import (
	// register commands
	_ "github.com/robotalks/optolink/pkg/cli/cmds/codec"
	_ "github.com/robotalks/optolink/pkg/cli/cmds/wire"
)
