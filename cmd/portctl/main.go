// Command portctl drives a port monitor interactively or from a script.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"net"
	"os"

	"github.com/antongulenko/golib"
	log "github.com/sirupsen/logrus"

	"ioports/host/link"
	"ioports/host/serial"
	"ioports/monitor"
	"ioports/sim"
)

var (
	device     = "/dev/ttyUSB0"
	baud       = serial.DefaultBaud
	simulate   = false
	seed       = int64(1)
	scriptFile = ""
)

func main() {
	flag.StringVar(&device, "device", device, "Serial device the monitor is attached to")
	flag.IntVar(&baud, "baud", baud, "Baud rate of the serial device")
	flag.BoolVar(&simulate, "sim", simulate, "Talk to a simulated board instead of a serial device")
	flag.Int64Var(&seed, "seed", seed, "Seed for the simulated register contents (-sim)")
	flag.StringVar(&scriptFile, "script", scriptFile, "Read commands from this file instead of stdin")
	golib.RegisterLogFlags()
	flag.Parse()
	golib.ConfigureLogging()
	golib.Checkerr(doMain())
}

func doMain() error {
	l, err := connect()
	if err != nil {
		return err
	}
	defer l.Close()

	input := io.Reader(os.Stdin)
	prompt := "> "
	if scriptFile != "" {
		f, err := os.Open(scriptFile)
		if err != nil {
			return err
		}
		defer f.Close()
		input = f
		prompt = ""
	}
	return run(newShell(l, os.Stdout), input, prompt)
}

func connect() (*link.Link, error) {
	if !simulate {
		log.Debugf("Opening %v at %v baud", device, baud)
		return link.Dial(device, baud)
	}
	log.Infof("Using a simulated board, seed %v", seed)
	return dialSimulator(seed)
}

// dialSimulator serves a simulated board through an in-memory pipe.
func dialSimulator(seed int64) (*link.Link, error) {
	board := sim.NewBoard(seed)
	ports := make([]monitor.Port, len(board.Ports))
	for i, p := range board.Ports {
		ports[i] = p
	}
	mon := monitor.New(ports...)
	hostEnd, devEnd := net.Pipe()
	go func() {
		if err := mon.Serve(devEnd); err != nil {
			log.Errorln("Simulated monitor stopped:", err)
		}
	}()
	l := link.New(hostEnd)
	if _, err := l.Identify(); err != nil {
		l.Close()
		return nil, err
	}
	return l, nil
}

// run executes input line by line. A failing command is reported and the
// next line runs; only I/O errors on the input end the loop.
func run(sh *shell, input io.Reader, prompt string) error {
	scanner := bufio.NewScanner(input)
	for {
		fmt.Fprint(sh.out, prompt)
		if !scanner.Scan() {
			if prompt != "" {
				fmt.Fprintln(sh.out)
			}
			return scanner.Err()
		}
		quit, err := sh.exec(scanner.Text())
		if err != nil {
			log.Errorln(err)
		}
		if quit {
			return nil
		}
	}
}
