package main

import (
	"fmt"
	"path/filepath"

	"github.com/gagliardetto/solana-go"
	"github.com/meshplus/bitxhub-kit/fileutil"
	"github.com/meshplus/unicity-bridge/internal/repo"
	"github.com/urfave/cli"
)

var keyCMD = cli.Command{
	Name:  "key",
	Usage: "Command about private key",
	Subcommands: []cli.Command{
		{
			Name:  "gen",
			Usage: "Generate a keygen compatible key file",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:     "target",
					Usage:    "Specify target key file, default repoRoot/key.json",
					Required: false,
				},
				cli.BoolFlag{
					Name:  "force",
					Usage: "Overwrite an existing key file",
				},
			},
			Action: genPrivateKey,
		},
		{
			Name:  "address",
			Usage: "Show the identity of a key file",
			Flags: []cli.Flag{
				keyPathFlag,
			},
			Action: showAddress,
		},
	},
}

func genPrivateKey(ctx *cli.Context) error {
	target := ctx.String("target")
	if len(target) == 0 {
		repoRoot, err := repo.PathRootWithDefault(ctx.GlobalString("repo"))
		if err != nil {
			return err
		}
		target = repo.KeyPath(repoRoot)
	}

	if fileutil.Exist(target) && !ctx.Bool("force") {
		return fmt.Errorf("key file %s already exists", target)
	}

	key, err := solana.NewRandomPrivateKey()
	if err != nil {
		return fmt.Errorf("create private key: %w", err)
	}

	if err := repo.StorePrivateKey(key, filepath.Clean(target)); err != nil {
		return fmt.Errorf("store key file: %w", err)
	}

	fmt.Println(key.PublicKey().String())
	return nil
}

func showAddress(ctx *cli.Context) error {
	key, err := loadKey(ctx)
	if err != nil {
		return err
	}

	fmt.Println(key.PublicKey().String())
	return nil
}

// loadKey reads the key given by --key, falling back to the repo key
func loadKey(ctx *cli.Context) (solana.PrivateKey, error) {
	path := ctx.String(keyPathFlag.Name)
	if len(path) == 0 {
		repoRoot, err := repo.PathRootWithDefault(ctx.GlobalString("repo"))
		if err != nil {
			return nil, err
		}
		path = repo.KeyPath(repoRoot)
	}

	key, err := repo.LoadPrivateKey(path)
	if err != nil {
		return nil, fmt.Errorf("repo load key: %w", err)
	}
	return key, nil
}
