package main

import "github.com/urfave/cli"

var (
	keyPathFlag = cli.StringFlag{
		Name:     "key",
		Usage:    "Specific key file path, default repoRoot/key.json",
		Required: false,
	}
	urlFlag = cli.StringFlag{
		Name:     "url",
		Usage:    "Specific bridge http endpoint, default localhost with the configured port",
		Required: false,
	}
	amountFlag = cli.Uint64Flag{
		Name:     "amount",
		Usage:    "Specific amount in the smallest unit",
		Required: true,
	}
	accountFlag = cli.StringFlag{
		Name:     "account",
		Usage:    "Specific account identity in base58",
		Required: true,
	}
)
