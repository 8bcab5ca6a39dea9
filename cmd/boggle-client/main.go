// Command boggle-client plays one game from a terminal.
//
// It announces the player, prints every server line and turns each word typed
// on stdin into a WORD request.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"strings"

	"github.com/Zereker/boggle"
	"github.com/Zereker/boggle/board"
)

func main() {
	addr := flag.String("addr", "localhost:2000", "game server address")
	name := flag.String("name", "", "player name")
	flag.Parse()

	if strings.TrimSpace(*name) == "" {
		log.Fatal("a -name is required")
	}

	if err := play(*addr, *name, os.Stdin, os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func play(addr, name string, in io.Reader, out io.Writer) error {
	raw, err := net.Dial("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to connect to server: %w", err)
	}

	conn, err := boggle.NewConn(raw, boggle.LoggerOption(boggle.DiscardLogger()))
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Connected to server at %s\n", addr)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- conn.Run(ctx)
	}()

	finished := make(chan struct{})
	var onLine boggle.ReceiveCallback
	onLine = func(line string, err error, _ any) {
		if err != nil {
			close(finished)
			return
		}
		show(out, line)
		conn.Receive(onLine, nil)
	}
	conn.Receive(onLine, nil)
	conn.Send("PLAY "+name+"\n", nil, nil)

	go func() {
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			for _, word := range strings.Fields(scanner.Text()) {
				conn.Send("WORD "+word+"\n", nil, nil)
			}
		}
	}()

	<-finished
	_ = conn.Close()
	if err := <-done; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// show prints a server line, laying START boards out as a grid.
func show(out io.Writer, line string) {
	fields := strings.Fields(line)
	if len(fields) >= 3 && fields[0] == "START" && len(fields[1]) == board.Cells {
		fmt.Fprintf(out, "START %s seconds against %s\n", fields[2], strings.Join(fields[3:], " "))
		for r := 0; r < board.Size; r++ {
			row := fields[1][r*board.Size : (r+1)*board.Size]
			fmt.Fprintln(out, "  "+strings.Join(strings.Split(row, ""), " "))
		}
		return
	}
	fmt.Fprintln(out, line)
}
