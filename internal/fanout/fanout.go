// Package fanout implements the hackbench scheduler/IPC stress topology:
// groups of sender/receiver pairs exchanging fixed-size messages over
// pipes or unix socketpairs, released simultaneously by a descriptor
// rendezvous and timed until the last worker exits.
package fanout

import (
	"fmt"
	"io"
	"os"
	"time"
)

// DefaultDataSize is the historical hackbench message size in bytes.
const DefaultDataSize = 100

// Mode selects how workers are scheduled.
type Mode int

const (
	// ModeProcess runs every worker as a separate OS process.
	ModeProcess Mode = iota
	// ModeThread runs every worker as a goroutine in this process.
	ModeThread
)

func (m Mode) String() string {
	if m == ModeThread {
		return "thread"
	}
	return "process"
}

// Config describes one benchmark run. It is threaded explicitly through
// the run; nothing in this package keeps process-wide state.
type Config struct {
	Groups      int
	FDsPerGroup int
	Loops       int
	DataSize    int
	UsePipes    bool
	Mode        Mode
}

// Tasks returns the total number of workers the run will spawn.
func (c Config) Tasks() int {
	return c.Groups * c.FDsPerGroup * 2
}

func (c Config) validate() error {
	if c.Groups <= 0 {
		return fmt.Errorf("fanout: groups must be positive, got %d", c.Groups)
	}
	if c.FDsPerGroup <= 0 {
		return fmt.Errorf("fanout: fds per group must be positive, got %d", c.FDsPerGroup)
	}
	if c.Loops < 0 {
		return fmt.Errorf("fanout: loops must be non-negative, got %d", c.Loops)
	}
	if c.DataSize <= 0 {
		return fmt.Errorf("fanout: data size must be positive, got %d", c.DataSize)
	}
	return nil
}

// Run builds the topology, waits for every worker's ready byte, releases
// them all with a single go byte and returns the wall time from release
// to the last worker exit. Any spawn or I/O failure aborts the whole run;
// this is a measurement tool, there is no partial-failure recovery.
func Run(cfg Config, sp Spawner) (time.Duration, error) {
	if err := cfg.validate(); err != nil {
		return 0, err
	}

	readyR, readyW, err := fdPair(cfg.UsePipes)
	if err != nil {
		return 0, fmt.Errorf("fanout: creating ready pair: %w", err)
	}
	defer readyR.Close()
	defer readyW.Close()

	wakeR, wakeW, err := fdPair(cfg.UsePipes)
	if err != nil {
		return 0, fmt.Errorf("fanout: creating wake pair: %w", err)
	}
	defer wakeR.Close()
	defer wakeW.Close()

	var handles []Handle
	var held []io.Closer
	defer func() {
		for _, c := range held {
			c.Close()
		}
	}()

	for g := 0; g < cfg.Groups; g++ {
		hs, keep, err := spawnGroup(cfg, sp, readyW, wakeR)
		held = append(held, keep...)
		if err != nil {
			return 0, err
		}
		handles = append(handles, hs...)
	}

	// One ready byte per worker must arrive before anyone is released.
	stub := make([]byte, len(handles))
	if _, err := io.ReadFull(readyR, stub); err != nil {
		return 0, fmt.Errorf("fanout: reading ready signals: %w", err)
	}

	start := time.Now()
	if _, err := wakeW.Write(stub[:1]); err != nil {
		return 0, fmt.Errorf("fanout: writing go signal: %w", err)
	}

	for _, h := range handles {
		if err := h.Wait(); err != nil {
			return 0, fmt.Errorf("fanout: worker failed: %w", err)
		}
	}
	return time.Since(start), nil
}

// spawnGroup wires one group: FDsPerGroup private channels, one receiver
// per channel, then FDsPerGroup senders each holding every write end.
// Receivers are all in place before the first sender starts, so no
// message can race its receiver's setup.
func spawnGroup(cfg Config, sp Spawner, readyW, wakeR *os.File) ([]Handle, []io.Closer, error) {
	var handles []Handle
	var held []io.Closer

	outs := make([]*os.File, cfg.FDsPerGroup)
	for i := range outs {
		r, w, err := fdPair(cfg.UsePipes)
		if err != nil {
			return handles, held, fmt.Errorf("fanout: creating channel: %w", err)
		}
		outs[i] = w

		h, err := sp.StartReceiver(r, readyW, wakeR, cfg.FDsPerGroup*cfg.Loops, cfg.DataSize)
		if err != nil {
			return handles, held, err
		}
		handles = append(handles, h)

		if sp.OwnsChildFiles() {
			r.Close()
		} else {
			held = append(held, r)
		}
	}

	for i := 0; i < cfg.FDsPerGroup; i++ {
		h, err := sp.StartSender(outs, readyW, wakeR, cfg.Loops, cfg.DataSize)
		if err != nil {
			return handles, held, err
		}
		handles = append(handles, h)
	}

	for _, w := range outs {
		if sp.OwnsChildFiles() {
			w.Close()
		} else {
			held = append(held, w)
		}
	}
	return handles, held, nil
}
