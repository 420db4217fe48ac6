// Package offline implements the file-driven front end from spec.md §6: a
// text file of commands, one per line, fed through a bounded
// producer/consumer buffer into the same wire.Apply dispatch the socket
// server uses. Grounded in ex2/main.c's insertCommand/removeCommand bounded
// buffer and reachedEOF broadcast, translated from a hand-rolled
// mutex+two-condvars ring buffer into a Go buffered channel, which is
// already exactly that primitive.
package offline

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tecnicofs/tecnicofs/internal/fsnode"
	"github.com/tecnicofs/tecnicofs/internal/wire"
)

// QueueDepth is the bounded buffer's capacity, matching ex2/main.c's
// MAX_COMMANDS.
const QueueDepth = 10

// Run scans commands from src, line by line, skipping blank and `#` lines
// (spec.md §6), and drains them through workers concurrent goroutines
// applying each to fs. It returns once every line has been read and every
// enqueued command has been applied, or the first decode error is hit.
// Grounded in ex2/main.c's processInput (producer) running concurrently
// with threadPool_init's applyCommands (consumers).
func Run(ctx context.Context, fs *fsnode.FS, src io.Reader, workers int, logger *log.Logger) error {
	commands := make(chan string, QueueDepth)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(commands)
		scanner := bufio.NewScanner(src)
		for scanner.Scan() {
			line := scanner.Text()
			if wire.IsComment(line) {
				continue
			}
			select {
			case commands <- line:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return scanner.Err()
	})

	for i := 0; i < workers; i++ {
		g.Go(func() error {
			for line := range commands {
				req, err := wire.Decode(line)
				if err != nil {
					return fmt.Errorf("offline: %w", err)
				}
				status := wire.Apply(fs, req)
				logger.Printf("offline: %s -> %s", line, status)
			}
			return nil
		})
	}

	return g.Wait()
}

// Elapsed formats a duration the way ex2/main.c's sub_timespec/printf pair
// reports completion time, reproduced with time.Since instead of manual
// timespec subtraction.
func Elapsed(since time.Time) string {
	return fmt.Sprintf("TecnicoFS completed in %.4f seconds.", time.Since(since).Seconds())
}
