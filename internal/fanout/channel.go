package fanout

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// fdPair allocates one communication channel. Pipes are unidirectional
// (r reads what w writes); socketpairs are symmetric but used the same
// way, matching the original tool.
func fdPair(usePipes bool) (r, w *os.File, err error) {
	if usePipes {
		return os.Pipe()
	}
	fds, err := unix.Socketpair(unix.AF_UNIX, unix.SOCK_STREAM, 0)
	if err != nil {
		return nil, nil, fmt.Errorf("socketpair: %w", err)
	}
	return os.NewFile(uintptr(fds[0]), "sockpair-r"), os.NewFile(uintptr(fds[1]), "sockpair-w"), nil
}
