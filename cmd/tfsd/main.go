// Command tfsd runs the TecnicoFS server: a worker pool applying commands
// from either a Unix datagram socket or, with -file, an offline text file.
// Grounded in example/loopback/main.go's flag/log setup.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path"
	"strconv"
	"syscall"
	"time"

	"github.com/tecnicofs/tecnicofs/internal/fsnode"
	"github.com/tecnicofs/tecnicofs/internal/offline"
	"github.com/tecnicofs/tecnicofs/internal/server"
)

func main() {
	log.SetFlags(log.Lmicroseconds)

	debug := flag.Bool("debug", false, "log every request and its response.")
	file := flag.String("file", "", "run in offline mode, applying commands read from this file instead of listening on a socket.")
	flag.Parse()

	if flag.NArg() != 2 {
		fmt.Printf("usage: %s [flags] NUM-THREADS SOCKET-PATH\n", path.Base(os.Args[0]))
		fmt.Printf("\noptions:\n")
		flag.PrintDefaults()
		os.Exit(2)
	}

	workers, err := parseWorkers(flag.Arg(0))
	if err != nil {
		log.Fatalf("tfsd: %v", err)
	}
	sockPath := flag.Arg(1)

	fs := fsnode.New()
	logger := log.New(os.Stderr, "", log.Lmicroseconds)

	if *file != "" {
		runOffline(fs, *file, sockPath, workers, logger)
		return
	}
	runServer(fs, sockPath, workers, *debug, logger)
}

func parseWorkers(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("number of threads must be a positive integer, got %q", s)
	}
	return n, nil
}

func runOffline(fs *fsnode.FS, inputPath, outputPath string, workers int, logger *log.Logger) {
	in, err := os.Open(inputPath)
	if err != nil {
		log.Fatalf("tfsd: %v", err)
	}
	defer in.Close()

	start := time.Now()
	if err := offline.Run(context.Background(), fs, in, workers, logger); err != nil {
		log.Fatalf("tfsd: offline run failed: %v", err)
	}

	out, err := os.Create(outputPath)
	if err != nil {
		log.Fatalf("tfsd: %v", err)
	}
	defer out.Close()
	if status := fs.Print(out); !status.Ok() {
		log.Fatalf("tfsd: final snapshot failed: %s", status)
	}

	fmt.Println(offline.Elapsed(start))
}

func runServer(fs *fsnode.FS, sockPath string, workers int, debug bool, logger *log.Logger) {
	srv, err := server.New(fs, sockPath, workers, debug, logger)
	if err != nil {
		log.Fatalf("tfsd: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigs
		logger.Printf("tfsd: shutting down")
		cancel()
	}()

	if err := srv.Serve(ctx); err != nil {
		log.Fatalf("tfsd: %v", err)
	}
}
