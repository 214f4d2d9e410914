// Command ramdisktool is a small inspection CLI over ramdisk images: format
// a fresh one, list a directory, dump a file's contents, or run fsck against
// one on disk. It is a debugging aid, not the in-scope operation dispatcher -
// the real API is the ramfs package.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/go-ramdisk/ramdisk/fsck"
	"github.com/go-ramdisk/ramdisk/image"
	"github.com/go-ramdisk/ramdisk/presets"
	"github.com/go-ramdisk/ramdisk/ramfs"
)

func main() {
	app := cli.App{
		Usage: "Inspect and manipulate ramdisk image files",
		Commands: []*cli.Command{
			{
				Name:      "format",
				Usage:     "Create a freshly formatted image file",
				Action:    formatImage,
				ArgsUsage: "IMAGE_FILE",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "preset",
						Value: "standard",
						Usage: "named reference configuration to format against (see the presets command)",
					},
				},
			},
			{
				Name:   "presets",
				Usage:  "List named reference image-size presets",
				Action: listPresets,
			},
			{
				Name:      "fsck",
				Usage:     "Check an image file's invariants",
				Action:    fsckImage,
				ArgsUsage: "IMAGE_FILE",
			},
			{
				Name:      "ls",
				Usage:     "List a directory's entries",
				Action:    listDir,
				ArgsUsage: "IMAGE_FILE PATH",
			},
			{
				Name:      "cat",
				Usage:     "Print a file's contents",
				Action:    catFile,
				ArgsUsage: "IMAGE_FILE PATH",
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("fatal error: %s", err.Error())
	}
}

func formatImage(context *cli.Context) error {
	path := context.Args().First()
	if path == "" {
		return fmt.Errorf("format requires an output image path")
	}

	slug := context.String("preset")
	preset, err := presets.Get(slug)
	if err != nil {
		return err
	}
	if preset.TotalBlocks != image.TotalBlocks || preset.InodeCount != image.InodeCount || preset.BlockSize != image.BlockSize {
		return fmt.Errorf(
			"preset %q describes %d blocks/%d inodes/%d-byte blocks, but this build is compiled for %d/%d/%d - only \"standard\" is currently buildable",
			slug, preset.TotalBlocks, preset.InodeCount, preset.BlockSize,
			image.TotalBlocks, image.InodeCount, image.BlockSize)
	}

	img := image.New()
	return os.WriteFile(path, img.Bytes, 0o644)
}

func listPresets(context *cli.Context) error {
	for _, p := range presets.All() {
		fmt.Printf("%s\t%d blocks\t%d inodes\t%d-byte blocks\t%s\n",
			p.Slug, p.TotalBlocks, p.InodeCount, p.BlockSize, p.Description)
	}
	return nil
}

func loadImage(path string) (*image.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(data) != image.Size {
		return nil, fmt.Errorf("%s is %d bytes, expected exactly %d", path, len(data), image.Size)
	}
	return &image.Image{Bytes: data}, nil
}

func fsckImage(context *cli.Context) error {
	path := context.Args().First()
	img, err := loadImage(path)
	if err != nil {
		return err
	}
	if err := fsck.Check(img); err != nil {
		return err
	}
	fmt.Println("clean")
	return nil
}

func listDir(context *cli.Context) error {
	path := context.Args().Get(0)
	dirPath := context.Args().Get(1)
	img, err := loadImage(path)
	if err != nil {
		return err
	}

	fs := ramfs.FromImage(img)
	fd, err := fs.Open(dirPath)
	if err != nil {
		return err
	}
	defer fs.Close(fd)

	for {
		name, inodeNo, end, err := fs.Readdir(fd)
		if err != nil {
			return err
		}
		if end {
			return nil
		}
		fmt.Printf("%d\t%s\n", inodeNo, name)
	}
}

func catFile(context *cli.Context) error {
	path := context.Args().Get(0)
	filePath := context.Args().Get(1)
	img, err := loadImage(path)
	if err != nil {
		return err
	}

	fs := ramfs.FromImage(img)
	fd, err := fs.Open(filePath)
	if err != nil {
		return err
	}
	defer fs.Close(fd)

	buf := make([]byte, image.BlockSize)
	for {
		n, err := fs.Read(fd, buf)
		if err != nil {
			return err
		}
		if n == 0 {
			return nil
		}
		os.Stdout.Write(buf[:n])
	}
}
