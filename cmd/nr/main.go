// Copyright © 2018 One Concern

package main

import (
	"github.com/oneconcern/nr/cmd/nr/cmd"
)

func main() {
	cmd.Execute()
}
