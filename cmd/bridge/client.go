package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/meshplus/unicity-bridge/api"
	"github.com/meshplus/unicity-bridge/internal/repo"
	"github.com/tidwall/gjson"
	"github.com/urfave/cli"
)

var clientCMD = cli.Command{
	Name:  "client",
	Usage: "Command about the bridge daemon",
	Subcommands: []cli.Command{
		{
			Name:  "initialize",
			Usage: "Create the bridge ledger, signed by the key",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "admin",
					Usage: "Specific admin identity, default the signing key",
				},
				keyPathFlag,
				urlFlag,
			},
			Action: initializeBridge,
		},
		{
			Name:  "lock",
			Usage: "Lock value of the key owner into escrow",
			Flags: []cli.Flag{
				amountFlag,
				cli.StringFlag{
					Name:     "destination",
					Usage:    "Specific Unicity recipient address",
					Required: true,
				},
				keyPathFlag,
				urlFlag,
			},
			Action: lockValue,
		},
		{
			Name:  "withdraw",
			Usage: "Drain the escrow to the admin key",
			Flags: []cli.Flag{
				keyPathFlag,
				urlFlag,
			},
			Action: emergencyWithdraw,
		},
		{
			Name:  "airdrop",
			Usage: "Fund an account on a devnet daemon",
			Flags: []cli.Flag{
				accountFlag,
				amountFlag,
				urlFlag,
			},
			Action: airdrop,
		},
		{
			Name:   "state",
			Usage:  "Show the bridge ledger",
			Flags:  []cli.Flag{urlFlag},
			Action: getAction(api.StateUrl),
		},
		{
			Name:   "vault",
			Usage:  "Show the escrow balance",
			Flags:  []cli.Flag{urlFlag},
			Action: getAction(api.VaultUrl),
		},
		{
			Name:  "balance",
			Usage: "Show the balance of an account",
			Flags: []cli.Flag{accountFlag, urlFlag},
			Action: func(ctx *cli.Context) error {
				return getAction(api.BalanceUrl + "/" + ctx.String("account"))(ctx)
			},
		},
		{
			Name:  "events",
			Usage: "List recorded events",
			Flags: []cli.Flag{
				cli.Uint64Flag{
					Name:  "from",
					Usage: "Specific first sequence number",
					Value: 1,
				},
				cli.IntFlag{
					Name:  "limit",
					Usage: "Specific max number of events",
					Value: 100,
				},
				urlFlag,
			},
			Action: func(ctx *cli.Context) error {
				path := fmt.Sprintf("%s?from=%d&limit=%d", api.EventsUrl, ctx.Uint64("from"), ctx.Int("limit"))
				return getAction(path)(ctx)
			},
		},
		{
			Name:   "root",
			Usage:  "Show the merkle root of the event log",
			Flags:  []cli.Flag{urlFlag},
			Action: getAction(api.EventsRootUrl),
		},
		{
			Name:   "monitor",
			Usage:  "Show the lock monitor cursor",
			Flags:  []cli.Flag{urlFlag},
			Action: getAction(api.MonitorUrl),
		},
	},
}

func initializeBridge(ctx *cli.Context) error {
	key, err := loadKey(ctx)
	if err != nil {
		return err
	}

	admin := ctx.String("admin")
	if admin == "" {
		admin = key.PublicKey().String()
	}

	return signedPost(ctx, api.InitializeUrl, &api.InitializeRequest{Admin: admin})
}

func lockValue(ctx *cli.Context) error {
	return signedPost(ctx, api.LockUrl, &api.LockRequest{
		Amount:      ctx.Uint64("amount"),
		Destination: ctx.String("destination"),
	})
}

func emergencyWithdraw(ctx *cli.Context) error {
	return signedPost(ctx, api.WithdrawUrl, nil)
}

func airdrop(ctx *cli.Context) error {
	url, err := getURL(ctx, api.AirdropUrl)
	if err != nil {
		return err
	}

	data, err := json.Marshal(&api.AirdropRequest{
		Account: ctx.String("account"),
		Amount:  ctx.Uint64("amount"),
	})
	if err != nil {
		return err
	}

	res, err := httpPost(url, data, nil)
	if err != nil {
		return err
	}
	printResponse(res)
	return nil
}

// signedPost sends req signed by the key of --key. A nil req is sent as an
// empty body.
func signedPost(ctx *cli.Context, path string, req interface{}) error {
	key, err := loadKey(ctx)
	if err != nil {
		return err
	}

	url, err := getURL(ctx, path)
	if err != nil {
		return err
	}

	var data []byte
	if req != nil {
		data, err = json.Marshal(req)
		if err != nil {
			return err
		}
	}

	res, err := httpPost(url, data, key)
	if err != nil {
		return err
	}
	printResponse(res)
	return nil
}

func getAction(path string) cli.ActionFunc {
	return func(ctx *cli.Context) error {
		url, err := getURL(ctx, path)
		if err != nil {
			return err
		}

		res, err := httpGet(url)
		if err != nil {
			return err
		}
		printResponse(res)
		return nil
	}
}

// getURL resolves path against --url or the daemon of the local repo
func getURL(ctx *cli.Context, path string) (string, error) {
	base := ctx.String(urlFlag.Name)
	if base == "" {
		repoRoot, err := repo.PathRootWithDefault(ctx.GlobalString("repo"))
		if err != nil {
			return "", err
		}
		config, err := repo.UnmarshalConfig(repoRoot)
		if err != nil {
			return "", fmt.Errorf("init config error: %s", err)
		}
		base = fmt.Sprintf("http://localhost:%d", config.Port.Http)
	}

	return fmt.Sprintf("%s/v1/%s", strings.TrimSuffix(base, "/"), path), nil
}

func printResponse(data []byte) {
	fmt.Println(gjson.GetBytes(data, "@pretty").Raw)
}
