// Command tfsctl sends one command to a running tfsd and prints its
// result, exercising internal/client the way example/loopback exercises
// nodefs: a minimal main wiring a reusable package into a runnable binary.
package main

import (
	"flag"
	"fmt"
	"os"
	"path"

	"github.com/tecnicofs/tecnicofs/internal/client"
	"github.com/tecnicofs/tecnicofs/internal/fsnode"
)

func main() {
	sock := flag.String("sock", "", "path to the server's datagram socket.")
	flag.Parse()

	args := flag.Args()
	if *sock == "" || len(args) < 2 {
		fmt.Printf("usage: %s -sock PATH create|delete|lookup|move|print ARGS...\n", path.Base(os.Args[0]))
		flag.PrintDefaults()
		os.Exit(2)
	}

	c, err := client.Mount(*sock)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tfsctl: %v\n", err)
		os.Exit(1)
	}
	defer c.Unmount()

	if err := run(c, args); err != nil {
		fmt.Fprintf(os.Stderr, "tfsctl: %v\n", err)
		os.Exit(1)
	}
}

func run(c *client.Client, args []string) error {
	op, args := args[0], args[1:]
	switch op {
	case "create":
		if len(args) != 2 {
			return fmt.Errorf("create wants PATH TYPE(f|d)")
		}
		kind := fsnode.TypeFile
		if args[1] == "d" {
			kind = fsnode.TypeDirectory
		}
		inumber, err := c.Create(args[0], kind)
		if err != nil {
			return err
		}
		fmt.Println(inumber)
		return nil

	case "delete":
		if len(args) != 1 {
			return fmt.Errorf("delete wants PATH")
		}
		return c.Delete(args[0])

	case "lookup":
		if len(args) != 1 {
			return fmt.Errorf("lookup wants PATH")
		}
		inumber, err := c.Lookup(args[0])
		if err != nil {
			return err
		}
		fmt.Println(inumber)
		return nil

	case "move":
		if len(args) != 2 {
			return fmt.Errorf("move wants OLD-PATH NEW-PATH")
		}
		return c.Move(args[0], args[1])

	case "print":
		if len(args) != 1 {
			return fmt.Errorf("print wants OUTPUT-PATH")
		}
		return c.Print(args[0])
	}
	return fmt.Errorf("unknown command %q", op)
}
