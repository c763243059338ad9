// Command telnetdial connects to a Telnet host, logs negotiated options,
// and prints any data the remote sends. It accepts TRANSMIT-BINARY and
// SUPPRESS-GO-AHEAD whenever the remote offers them and otherwise does
// nothing interactive: it is a wiring demonstration, not a terminal client.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/wyrmtide/telnet"
)

func main() {
	addr := flag.String("addr", "", "host:port to dial")
	timeout := flag.Duration("timeout", 10*time.Second, "dial timeout")
	flag.Parse()

	if *addr == "" {
		log.Fatal("telnetdial: -addr is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	conn, err := telnet.Connect(ctx, "tcp", *addr, telnet.Config{
		Policies: map[telnet.Option]telnet.Policy{
			telnet.TransmitBinary:  {LocalAllowed: true, RemoteAllowed: true},
			telnet.SuppressGoAhead: {LocalAllowed: true, RemoteAllowed: true},
		},
	})
	if err != nil {
		log.Fatalf("telnetdial: dial %s: %v", *addr, err)
	}

	logger := log.New(os.Stderr, "", log.LstdFlags)
	conn.OnEvent(func(c *telnet.Connection, ev telnet.Event) {
		if ev.Kind == telnet.EventData {
			return
		}
		logger.Printf("[%s] %s", c.ID(), ev)
	})

	for {
		ev, err := conn.Read()
		if err != nil {
			logger.Printf("connection closed: %v", err)
			return
		}

		if ev.Kind == telnet.EventData {
			os.Stdout.Write(ev.Data)
		}
	}
}
