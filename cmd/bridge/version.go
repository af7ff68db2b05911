package main

import (
	"fmt"

	unicity "github.com/meshplus/unicity-bridge"
	"github.com/urfave/cli"
)

var versionCMD = cli.Command{
	Name:  "version",
	Usage: "Show version about bridge",
	Action: func(ctx *cli.Context) error {
		fmt.Print(getVersion(true))

		return nil
	},
}

func getVersion(all bool) string {
	version := fmt.Sprintf("Bridge version: %s-%s\n", unicity.CurrentVersion, unicity.CurrentCommit)
	if all {
		version += fmt.Sprintf("App build date: %s\n", unicity.BuildDate)
		version += fmt.Sprintf("System version: %s\n", unicity.Platform)
		version += fmt.Sprintf("Golang version: %s\n", unicity.GoVersion)
	}

	return version
}
