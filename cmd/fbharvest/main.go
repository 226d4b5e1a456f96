package main

import (
	"fbharvest/cmd/fbharvest/commands"
	"fbharvest/lib/serviceutil"
)

func main() {
	commands.ExecuteContext(serviceutil.SignalContext())
}
