package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/meshplus/bitxhub-kit/log"
	unicity "github.com/meshplus/unicity-bridge"
	"github.com/urfave/cli"
)

var logger = log.NewWithModule("cmd")

func main() {
	app := cli.NewApp()
	app.Name = "Bridge"
	app.Usage = "Lock value on the ledger for release on Unicity"
	app.Compiled = time.Now()
	app.Version = fmt.Sprintf("Bridge version: %s-%s-%s\n", unicity.CurrentVersion, unicity.CurrentBranch, unicity.CurrentCommit)

	// global flags
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "repo",
			Usage: "Bridge repository path",
		},
	}

	app.Commands = []cli.Command{
		clientCMD,
		initCMD,
		keyCMD,
		startCMD,
		versionCMD,
	}

	err := app.Run(os.Args)
	if err != nil {
		color.Red(err.Error())
		os.Exit(-1)
	}
}
