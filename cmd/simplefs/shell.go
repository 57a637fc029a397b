package main

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/jpaulsen/simplefs/disk"
	"github.com/jpaulsen/simplefs/fs"
	"github.com/jpaulsen/simplefs/profiles"
	"github.com/urfave/cli/v2"
)

// formatCommand implements `simplefs format IMAGE [--blocks N | --profile NAME]`.
// Exactly one of --blocks or --profile must be given; the image is created
// (truncated to the right size) if it doesn't already exist.
func formatCommand(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		return fmt.Errorf("format: missing IMAGE argument")
	}

	blocks, err := resolveBlockCount(c)
	if err != nil {
		return err
	}

	d, err := disk.Open(path, blocks)
	if err != nil {
		return fmt.Errorf("format: %w", err)
	}
	defer d.Close()

	if !fs.Format(d) {
		return fmt.Errorf("format: failed, image may already be mounted")
	}

	fmt.Printf("formatted %s: %d blocks\n", path, blocks)
	return nil
}

func resolveBlockCount(c *cli.Context) (uint32, error) {
	hasBlocks := c.IsSet("blocks")
	hasProfile := c.IsSet("profile")

	switch {
	case hasBlocks && hasProfile:
		return 0, fmt.Errorf("format: --blocks and --profile are mutually exclusive")
	case hasProfile:
		p, err := profiles.Lookup(c.String("profile"))
		if err != nil {
			return 0, err
		}
		return p.Blocks, nil
	case hasBlocks:
		return uint32(c.Uint("blocks")), nil
	default:
		return 0, fmt.Errorf("format: one of --blocks or --profile is required")
	}
}

// debugCommand implements `simplefs debug IMAGE`, dumping superblock and
// inode table contents without requiring the image to mount cleanly.
func debugCommand(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		return fmt.Errorf("debug: missing IMAGE argument")
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("debug: %w", err)
	}

	d, err := disk.Open(path, uint32(info.Size()/disk.BlockSize))
	if err != nil {
		return fmt.Errorf("debug: %w", err)
	}
	defer d.Close()

	return fs.Debug(d, os.Stdout)
}

// mountCommand implements `simplefs mount IMAGE`, mounting the image and
// handing control to the interactive shell.
func mountCommand(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		return fmt.Errorf("mount: missing IMAGE argument")
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("mount: %w", err)
	}

	d, err := disk.Open(path, uint32(info.Size()/disk.BlockSize))
	if err != nil {
		return fmt.Errorf("mount: %w", err)
	}
	defer d.Close()

	fsys := fs.New()
	fsys.SetLogger(log.New(os.Stderr, "simplefs: ", log.LstdFlags))
	if err := fs.Mount(fsys, d); err != nil {
		return fmt.Errorf("mount: %w", err)
	}
	defer fs.Unmount(fsys)

	return runShell(fsys, d, os.Stdin, os.Stdout)
}

// runShell reads one command per line from in and dispatches it against
// fsys until "exit"/"quit" or EOF. It's a thin translation layer: argument
// parsing and output formatting only, no file-system logic of its own.
func runShell(fsys *fs.FileSystem, d *disk.Disk, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "simplefs> ")
		if !scanner.Scan() {
			return scanner.Err()
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "exit", "quit":
			return nil
		case "help":
			printHelp(out)
		case "debug":
			if err := fs.Debug(d, out); err != nil {
				fmt.Fprintln(out, "error:", err)
			}
		case "create":
			inumber, err := fsys.Create()
			report(out, "create", inumber, err)
		case "remove":
			withInode(out, fields, func(inumber int) {
				ok, err := fsys.Remove(inumber)
				if err != nil {
					fmt.Fprintln(out, "error:", err)
				} else {
					fmt.Fprintln(out, ok)
				}
			})
		case "stat":
			withInode(out, fields, func(inumber int) {
				size, err := fsys.Stat(inumber)
				report(out, "stat", size, err)
			})
		case "cat":
			withInode(out, fields, func(inumber int) { catInode(fsys, inumber, out) })
		case "copyin":
			copyIn(fsys, fields, out)
		case "copyout":
			copyOut(fsys, fields, out)
		default:
			fmt.Fprintf(out, "unrecognized command %q; try \"help\"\n", fields[0])
		}
	}
}

func printHelp(out io.Writer) {
	fmt.Fprintln(out, "commands:")
	fmt.Fprintln(out, "  debug                       dump superblock and inode table")
	fmt.Fprintln(out, "  create                      allocate a new inode")
	fmt.Fprintln(out, "  remove <inode>              free an inode and its blocks")
	fmt.Fprintln(out, "  stat <inode>                print an inode's size")
	fmt.Fprintln(out, "  cat <inode>                 print an inode's contents")
	fmt.Fprintln(out, "  copyin <host-path> <inode>  copy a host file into an inode")
	fmt.Fprintln(out, "  copyout <inode> <host-path> copy an inode's contents to a host file")
	fmt.Fprintln(out, "  help                        show this message")
	fmt.Fprintln(out, "  exit, quit                  leave the shell")
}

func report(out io.Writer, verb string, n int, err error) {
	if err != nil {
		fmt.Fprintf(out, "%s: error: %s\n", verb, err)
		return
	}
	fmt.Fprintln(out, n)
}

func withInode(out io.Writer, fields []string, fn func(inumber int)) {
	if len(fields) < 2 {
		fmt.Fprintf(out, "%s: missing inode argument\n", fields[0])
		return
	}
	inumber, err := strconv.Atoi(fields[1])
	if err != nil {
		fmt.Fprintf(out, "%s: %q is not a valid inode number\n", fields[0], fields[1])
		return
	}
	fn(inumber)
}

const copyChunkSize = 4096

func catInode(fsys *fs.FileSystem, inumber int, out io.Writer) {
	size, err := fsys.Stat(inumber)
	if err != nil {
		fmt.Fprintln(out, "error:", err)
		return
	}
	if size < 0 {
		fmt.Fprintf(out, "cat: inode %d is not allocated\n", inumber)
		return
	}

	buf := make([]byte, size)
	n, err := fsys.Read(inumber, buf, size, 0)
	if err != nil {
		fmt.Fprintln(out, "error:", err)
		return
	}
	out.Write(buf[:n])
	fmt.Fprintln(out)
}

func copyIn(fsys *fs.FileSystem, fields []string, out io.Writer) {
	if len(fields) < 3 {
		fmt.Fprintln(out, "copyin: usage: copyin <host-path> <inode>")
		return
	}
	inumber, err := strconv.Atoi(fields[2])
	if err != nil {
		fmt.Fprintf(out, "copyin: %q is not a valid inode number\n", fields[2])
		return
	}

	data, err := os.ReadFile(fields[1])
	if err != nil {
		fmt.Fprintln(out, "error:", err)
		return
	}

	offset := 0
	for offset < len(data) {
		chunk := data[offset:]
		if len(chunk) > copyChunkSize {
			chunk = chunk[:copyChunkSize]
		}
		n, err := fsys.Write(inumber, chunk, len(chunk), offset)
		if err != nil {
			fmt.Fprintln(out, "error:", err)
			return
		}
		if n <= 0 {
			fmt.Fprintln(out, "copyin: file system ran out of space")
			return
		}
		offset += n
	}
	fmt.Fprintf(out, "copied %d bytes into inode %d\n", len(data), inumber)
}

func copyOut(fsys *fs.FileSystem, fields []string, out io.Writer) {
	if len(fields) < 3 {
		fmt.Fprintln(out, "copyout: usage: copyout <inode> <host-path>")
		return
	}
	inumber, err := strconv.Atoi(fields[1])
	if err != nil {
		fmt.Fprintf(out, "copyout: %q is not a valid inode number\n", fields[1])
		return
	}

	size, err := fsys.Stat(inumber)
	if err != nil {
		fmt.Fprintln(out, "error:", err)
		return
	}
	if size < 0 {
		fmt.Fprintf(out, "copyout: inode %d is not allocated\n", inumber)
		return
	}

	buf := make([]byte, size)
	n, err := fsys.Read(inumber, buf, size, 0)
	if err != nil {
		fmt.Fprintln(out, "error:", err)
		return
	}

	if err := os.WriteFile(fields[2], buf[:n], 0o644); err != nil {
		fmt.Fprintln(out, "error:", err)
		return
	}
	fmt.Fprintf(out, "copied %d bytes to %s\n", n, fields[2])
}
