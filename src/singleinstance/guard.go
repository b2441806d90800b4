// Package singleinstance keeps one resident overlay per user session. The
// resident holds a loopback TCP port and answers a line protocol; later
// launches either exit or forward a command to it.
package singleinstance

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	residentHost = "127.0.0.1"
	ioTimeout    = 2 * time.Second
)

// Command is one protocol line.
type Command string

const (
	Ping   Command = "PING"
	Toggle Command = "TOGGLE"
)

const (
	pong = "PONG"
	ok   = "OK"
)

// AlreadyRunningError is returned by Acquire when a resident answered.
type AlreadyRunningError struct {
	Port int
}

func (e *AlreadyRunningError) Error() string {
	return fmt.Sprintf("another instance is already running (port %d)", e.Port)
}

var ErrNoFreePort = errors.New("no free port in the single-instance range")

// Guard is the resident's claim. Close releases it.
type Guard struct {
	ln       net.Listener
	port     int
	onToggle func()
	log      zerolog.Logger
	wg       sync.WaitGroup
}

// Acquire claims the first free port in the range unless a resident already
// answers on one of them. onToggle is called for every TOGGLE request.
func Acquire(log zerolog.Logger, onToggle func()) (*Guard, error) {
	log = log.With().Str("component", "singleinstance").Logger()
	start, end := portRange()

	for port := start; port <= end; port++ {
		if reply, err := send(addrFor(port), Ping); err == nil && reply == pong {
			return nil, &AlreadyRunningError{Port: port}
		}
	}

	for port := start; port <= end; port++ {
		ln, err := net.Listen("tcp", addrFor(port))
		if err != nil {
			log.Debug().Err(err).Int("port", port).Msg("port busy")
			continue
		}
		g := &Guard{ln: ln, port: port, onToggle: onToggle, log: log}
		g.wg.Add(1)
		go g.acceptLoop()
		log.Info().Int("port", port).Msg("resident listening")
		return g, nil
	}
	return nil, ErrNoFreePort
}

func (g *Guard) Port() int { return g.port }

func (g *Guard) Close() error {
	err := g.ln.Close()
	g.wg.Wait()
	return err
}

func (g *Guard) acceptLoop() {
	defer g.wg.Done()
	for {
		c, err := g.ln.Accept()
		if err != nil {
			return
		}
		g.serve(c)
	}
}

func (g *Guard) serve(c net.Conn) {
	defer c.Close()
	_ = c.SetDeadline(time.Now().Add(ioTimeout))

	line, err := bufio.NewReader(c).ReadString('\n')
	if err != nil {
		return
	}
	reply := "ERR unknown command"
	switch Command(trimLine(line)) {
	case Ping:
		reply = pong
	case Toggle:
		g.log.Debug().Str("remote", c.RemoteAddr().String()).Msg("toggle requested")
		if g.onToggle != nil {
			g.onToggle()
		}
		reply = ok
	}
	_, _ = c.Write([]byte(reply + "\n"))
}

// ErrNoResident is returned by Send when nothing answers in the range.
var ErrNoResident = errors.New("no resident instance found")

// Send delivers cmd to the resident and returns its port.
func Send(ctx context.Context, cmd Command) (int, error) {
	start, end := portRange()
	for port := start; port <= end; port++ {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		if reply, err := send(addrFor(port), Ping); err != nil || reply != pong {
			continue
		}
		reply, err := send(addrFor(port), cmd)
		if err != nil {
			return port, fmt.Errorf("send %s to port %d: %w", cmd, port, err)
		}
		if reply != ok && reply != pong {
			return port, fmt.Errorf("resident rejected %s: %s", cmd, reply)
		}
		return port, nil
	}
	return 0, ErrNoResident
}

func send(addr string, cmd Command) (string, error) {
	c, err := net.DialTimeout("tcp", addr, ioTimeout)
	if err != nil {
		return "", err
	}
	defer c.Close()
	_ = c.SetDeadline(time.Now().Add(ioTimeout))

	if _, err := c.Write([]byte(string(cmd) + "\n")); err != nil {
		return "", err
	}
	line, err := bufio.NewReader(c).ReadString('\n')
	if err != nil {
		return "", err
	}
	return trimLine(line), nil
}

func addrFor(port int) string { return net.JoinHostPort(residentHost, strconv.Itoa(port)) }

func trimLine(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	return s
}
