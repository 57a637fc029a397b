package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "simplefs",
		Usage: "format, mount, and inspect SimpleFS disk images",
		Commands: []*cli.Command{
			{
				Name:      "format",
				Usage:     "lay out a fresh file system on an image",
				ArgsUsage: "IMAGE",
				Flags: []cli.Flag{
					&cli.UintFlag{Name: "blocks", Usage: "total blocks in a new image"},
					&cli.StringFlag{Name: "profile", Usage: "named geometry from the profiles table"},
				},
				Action: formatCommand,
			},
			{
				Name:      "debug",
				Usage:     "print superblock and inode table contents without mounting",
				ArgsUsage: "IMAGE",
				Action:    debugCommand,
			},
			{
				Name:      "mount",
				Usage:     "mount an image and enter the interactive shell",
				ArgsUsage: "IMAGE",
				Action:    mountCommand,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("simplefs: %s", err)
	}
}
