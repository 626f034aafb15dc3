package fanout

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/pflag"
)

// Handle is a reapable worker: a joined goroutine or a waited process.
type Handle interface {
	Wait() error
}

// Spawner launches one worker at a time. Implementations differ only in
// the scheduling substrate; the worker bodies are RunSender/RunReceiver
// either way.
type Spawner interface {
	StartReceiver(in, readyOut, wake *os.File, packets, dataSize int) (Handle, error)
	StartSender(outs []*os.File, readyOut, wake *os.File, loops, dataSize int) (Handle, error)
	// OwnsChildFiles reports whether workers hold their own descriptor
	// copies, in which case the parent must close its endpoints after
	// spawning (the fork discipline of the original tool).
	OwnsChildFiles() bool
}

// GoroutineSpawner runs workers as goroutines in this process
// (hackbench "thread" mode).
type GoroutineSpawner struct{}

type goroutineHandle chan error

func (h goroutineHandle) Wait() error { return <-h }

func (GoroutineSpawner) OwnsChildFiles() bool { return false }

func (GoroutineSpawner) StartReceiver(in, readyOut, wake *os.File, packets, dataSize int) (Handle, error) {
	done := make(goroutineHandle, 1)
	go func() {
		done <- RunReceiver(in, readyOut, wake, packets, dataSize)
	}()
	return done, nil
}

func (GoroutineSpawner) StartSender(outs []*os.File, readyOut, wake *os.File, loops, dataSize int) (Handle, error) {
	done := make(goroutineHandle, 1)
	go func() {
		done <- RunSender(outs, readyOut, wake, loops, dataSize)
	}()
	return done, nil
}

// ProcessSpawner re-executes Path with Args plus per-worker flags, passing
// the rendezvous and channel descriptors as inherited files: fd 3 is the
// ready pipe, fd 4 the go signal, fd 5+ the data endpoints (hackbench
// "process" mode; Go cannot bare-fork).
type ProcessSpawner struct {
	Path string
	Args []string
	// Env entries appended to the parent environment, if any.
	Env []string
}

type processHandle struct {
	cmd *exec.Cmd
}

func (h processHandle) Wait() error {
	if err := h.cmd.Wait(); err != nil {
		return fmt.Errorf("worker process: %w", err)
	}
	return nil
}

func (s *ProcessSpawner) OwnsChildFiles() bool { return true }

func (s *ProcessSpawner) start(args []string, extra []*os.File) (Handle, error) {
	cmd := exec.Command(s.Path, append(append([]string{}, s.Args...), args...)...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.ExtraFiles = extra
	if len(s.Env) > 0 {
		cmd.Env = append(os.Environ(), s.Env...)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("spawning worker: %w", err)
	}
	return processHandle{cmd: cmd}, nil
}

func (s *ProcessSpawner) StartReceiver(in, readyOut, wake *os.File, packets, dataSize int) (Handle, error) {
	args := []string{
		"--role=receiver",
		fmt.Sprintf("--packets=%d", packets),
		fmt.Sprintf("--datasize=%d", dataSize),
	}
	return s.start(args, []*os.File{readyOut, wake, in})
}

func (s *ProcessSpawner) StartSender(outs []*os.File, readyOut, wake *os.File, loops, dataSize int) (Handle, error) {
	args := []string{
		"--role=sender",
		fmt.Sprintf("--loops=%d", loops),
		fmt.Sprintf("--datasize=%d", dataSize),
		fmt.Sprintf("--fds=%d", len(outs)),
	}
	return s.start(args, append([]*os.File{readyOut, wake}, outs...))
}

// workerFiles rebuilds the descriptor set a process-mode worker inherits.
func workerFiles(nData int) (readyOut, wake *os.File, data []*os.File) {
	readyOut = os.NewFile(3, "ready")
	wake = os.NewFile(4, "wake")
	data = make([]*os.File, nData)
	for i := range data {
		data[i] = os.NewFile(uintptr(5+i), fmt.Sprintf("chan%d", i))
	}
	return readyOut, wake, data
}

// WorkerMain is the entry point of a process-mode worker. args is the
// flag tail produced by ProcessSpawner.
func WorkerMain(args []string) error {
	fs := pflag.NewFlagSet("hackbench-worker", pflag.ContinueOnError)
	role := fs.String("role", "", "worker role: sender or receiver")
	packets := fs.Int("packets", 0, "messages to receive")
	loops := fs.Int("loops", 0, "messages to send per channel")
	dataSize := fs.Int("datasize", DefaultDataSize, "message size in bytes")
	nfds := fs.Int("fds", 1, "number of outbound channels")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("worker: parsing arguments: %w", err)
	}

	switch *role {
	case "receiver":
		readyOut, wake, data := workerFiles(1)
		return RunReceiver(data[0], readyOut, wake, *packets, *dataSize)
	case "sender":
		readyOut, wake, data := workerFiles(*nfds)
		return RunSender(data, readyOut, wake, *loops, *dataSize)
	default:
		return fmt.Errorf("worker: unknown role %q", *role)
	}
}

// NewSpawner returns the spawner for cfg.Mode. workerPath/workerArgs name
// the process-mode entry point, typically the current executable and its
// hidden worker subcommand.
func NewSpawner(cfg Config, workerPath string, workerArgs ...string) Spawner {
	if cfg.Mode == ModeThread {
		return GoroutineSpawner{}
	}
	return &ProcessSpawner{Path: workerPath, Args: workerArgs}
}
