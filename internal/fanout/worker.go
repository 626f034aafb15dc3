package fanout

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/sys/unix"
)

// awaitStart writes this worker's ready byte and blocks until the shared
// go-signal descriptor becomes readable. The byte is observed with poll
// and never consumed, so a single write from the orchestrator releases
// every worker at once.
func awaitStart(readyOut, wake *os.File) error {
	if _, err := readyOut.Write([]byte{0}); err != nil {
		return fmt.Errorf("ready write: %w", err)
	}

	fds := []unix.PollFd{{Fd: int32(wake.Fd()), Events: unix.POLLIN}}
	for {
		n, err := unix.Poll(fds, -1)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return fmt.Errorf("waiting for go signal: %w", err)
		}
		if n > 0 {
			return nil
		}
	}
}

// RunSender sprays loops fixed-size messages down every outbound channel,
// flushing short writes completely before moving on.
func RunSender(outs []*os.File, readyOut, wake *os.File, loops, dataSize int) error {
	if err := awaitStart(readyOut, wake); err != nil {
		return fmt.Errorf("sender: %w", err)
	}

	data := make([]byte, dataSize)
	for i := 0; i < loops; i++ {
		for _, out := range outs {
			if err := writeFull(out, data); err != nil {
				return fmt.Errorf("sender: write: %w", err)
			}
		}
	}
	return nil
}

// RunReceiver drains exactly packets fixed-size messages from its single
// inbound channel and exits.
func RunReceiver(in, readyOut, wake *os.File, packets, dataSize int) error {
	if err := awaitStart(readyOut, wake); err != nil {
		return fmt.Errorf("receiver: %w", err)
	}

	buf := make([]byte, dataSize)
	for i := 0; i < packets; i++ {
		if _, err := io.ReadFull(in, buf); err != nil {
			return fmt.Errorf("receiver: read: %w", err)
		}
	}
	return nil
}

func writeFull(w io.Writer, p []byte) error {
	for len(p) > 0 {
		n, err := w.Write(p)
		if err != nil {
			return err
		}
		p = p[n:]
	}
	return nil
}
