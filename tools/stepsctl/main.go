// stepsctl is a host-side console for exercising a STEPS master by hand. It
// reads operator lines from stdin and writes the two-byte <tile><command>
// pairs the master relays onto the bus.
//
//	> perfect 3
//	> miss 9
//	> reset 1
//	> raw 5G
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/google/shlex"

	"steps/tile-mesh/protocol"
)

var port = flag.String("port", "/dev/ttyACM0", "master serial port")

var commands = map[string]protocol.Command{
	"perfect": protocol.CmdPerfect,
	"great":   protocol.CmdGreat,
	"miss":    protocol.CmdMiss,
	"reset":   protocol.CmdReset,
}

func main() {
	flag.Parse()

	f, err := os.OpenFile(*port, os.O_RDWR, 0)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	sc := bufio.NewScanner(os.Stdin)
	for fmt.Print("> "); sc.Scan(); fmt.Print("> ") {
		tokens, err := shlex.Split(sc.Text())
		if err != nil || len(tokens) == 0 {
			continue
		}
		pair, err := encode(tokens)
		if err != nil {
			fmt.Println(err)
			continue
		}
		if _, err := f.Write(pair); err != nil {
			log.Fatal(err)
		}
	}
}

func encode(tokens []string) ([]byte, error) {
	if cmd, ok := commands[tokens[0]]; ok {
		if len(tokens) != 2 || len(tokens[1]) != 1 {
			return nil, fmt.Errorf("usage: %s <tile 1-9>", tokens[0])
		}
		d := tokens[1][0]
		if d < '1' || d > '9' {
			return nil, fmt.Errorf("tile %q out of range 1-9", tokens[1])
		}
		return []byte{d, byte(cmd)}, nil
	}

	if tokens[0] == "raw" {
		if len(tokens) != 2 || len(tokens[1]) != 2 {
			return nil, fmt.Errorf("usage: raw <pair>, e.g. raw 5P")
		}
		return []byte(tokens[1]), nil
	}

	return nil, fmt.Errorf("unknown command %q", tokens[0])
}
