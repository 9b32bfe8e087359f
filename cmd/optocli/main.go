package main

import (
	"github.com/robotalks/optolink/pkg/cli/sh"
	"github.com/robotalks/optolink/pkg/link"

	_ "github.com/robotalks/optolink/pkg/cli/cmds/all"
)

func init() {
	link.SetupFlags()
}

func main() {
	sh.Main()
}
