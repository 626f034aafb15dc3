package drm

import (
	"fmt"
	"io"

	"golang.org/x/sys/unix"
)

// Checker accumulates check failures across subtests. Failures are
// reported as they happen but never stop later checks, matching the
// historical conformance tool.
type Checker struct {
	w      io.Writer
	name   string
	failed bool
}

// NewChecker writes failure diagnostics to w.
func NewChecker(w io.Writer) *Checker {
	return &Checker{w: w}
}

// Check records cond; on failure it prints the failing condition with
// the current subtest name.
func (c *Checker) Check(cond bool, format string, args ...any) bool {
	if !cond {
		c.failed = true
		fmt.Fprintf(c.w, "CHECK failed in %s: %s\n", c.name, fmt.Sprintf(format, args...))
	}
	return cond
}

// Failed reports whether any check has failed so far.
func (c *Checker) Failed() bool { return c.failed }

type subtest struct {
	name string
	fn   func(c *Checker, d *Device)
}

// Conformance runs the full dumb-buffer conformance suite against dev,
// printing one line per subtest and a final [ PASSED ] / [ FAILED ]
// verdict. It returns true when everything passed.
func Conformance(w io.Writer, dev *Device) bool {
	c := NewChecker(w)
	tests := []subtest{
		{"init", testInit},
		{"alloc_free", testAllocFree},
		{"alloc_free_sizes", testAllocFreeSizes},
		{"map_write_read", testMapWriteRead},
		{"map_persists", testMapPersists},
		{"export", testExport},
		{"import", testImport},
		{"destroy", testDestroy},
	}

	for _, t := range tests {
		c.name = t.name
		before := c.failed
		t.fn(c, dev)
		status := "OK"
		if c.failed && !before {
			status = "FAIL"
		}
		fmt.Fprintf(w, "[ %s ] drm_%s\n", status, t.name)
	}

	if c.Failed() {
		fmt.Fprintln(w, "[ FAILED ]")
		return false
	}
	fmt.Fprintln(w, "[ PASSED ]")
	return true
}

func checkBuffer(c *Checker, b *DumbBuffer) {
	if !c.Check(b != nil, "buffer allocation returned nil") {
		return
	}
	c.Check(b.Handle != 0, "handle is zero")
	c.Check(b.Pitch >= b.Width*b.Bpp/8, "pitch %d below row size", b.Pitch)
	c.Check(b.Size >= uint64(b.Pitch)*uint64(b.Height), "size %d below pitch*height", b.Size)
}

func testInit(c *Checker, d *Device) {
	val, err := d.Capability(CapDumbBuffer)
	c.Check(err == nil, "capability query: %v", err)
	c.Check(val != 0, "device does not support dumb buffers")
}

func testAllocFree(c *Checker, d *Device) {
	b, err := d.CreateDumb(1024, 1024, 32)
	if !c.Check(err == nil, "create: %v", err) {
		return
	}
	checkBuffer(c, b)
	c.Check(d.DestroyDumb(b) == nil, "destroy failed")
}

func testAllocFreeSizes(c *Checker, d *Device) {
	for _, dim := range []uint32{1, 2, 16, 63, 256, 1920} {
		b, err := d.CreateDumb(dim, dim, 32)
		if !c.Check(err == nil, "create %dx%d: %v", dim, dim, err) {
			continue
		}
		checkBuffer(c, b)
		c.Check(d.DestroyDumb(b) == nil, "destroy %dx%d failed", dim, dim)
	}
}

func testMapWriteRead(c *Checker, d *Device) {
	b, err := d.CreateDumb(256, 256, 32)
	if !c.Check(err == nil, "create: %v", err) {
		return
	}
	defer d.DestroyDumb(b)

	mem, err := d.Map(b)
	if !c.Check(err == nil, "map: %v", err) {
		return
	}
	defer d.Unmap(mem)

	c.Check(uint64(len(mem)) == b.Size, "mapping length %d != size %d", len(mem), b.Size)
	for i := range mem {
		mem[i] = byte(i)
	}
	for i := range mem {
		if mem[i] != byte(i) {
			c.Check(false, "readback mismatch at offset %d", i)
			break
		}
	}
}

func testMapPersists(c *Checker, d *Device) {
	// Data written through one mapping must be visible through a second.
	b, err := d.CreateDumb(64, 64, 32)
	if !c.Check(err == nil, "create: %v", err) {
		return
	}
	defer d.DestroyDumb(b)

	m1, err := d.Map(b)
	if !c.Check(err == nil, "first map: %v", err) {
		return
	}
	m1[0] = 0x5A
	m1[len(m1)-1] = 0xA5
	c.Check(d.Unmap(m1) == nil, "unmap failed")

	m2, err := d.Map(b)
	if !c.Check(err == nil, "second map: %v", err) {
		return
	}
	defer d.Unmap(m2)
	c.Check(m2[0] == 0x5A && m2[len(m2)-1] == 0xA5, "contents lost across mappings")
}

func testExport(c *Checker, d *Device) {
	b, err := d.CreateDumb(128, 128, 32)
	if !c.Check(err == nil, "create: %v", err) {
		return
	}
	defer d.DestroyDumb(b)

	fd, err := d.ExportPrime(b.Handle)
	if !c.Check(err == nil, "export: %v", err) {
		return
	}
	c.Check(fd > 0, "exported fd %d not positive", fd)
	unix.Close(fd)
}

func testImport(c *Checker, d *Device) {
	b, err := d.CreateDumb(128, 128, 32)
	if !c.Check(err == nil, "create: %v", err) {
		return
	}
	defer d.DestroyDumb(b)

	fd, err := d.ExportPrime(b.Handle)
	if !c.Check(err == nil, "export: %v", err) {
		return
	}
	defer unix.Close(fd)

	handle, err := d.ImportPrime(fd)
	if !c.Check(err == nil, "import: %v", err) {
		return
	}
	// Importing our own dma-buf must resolve to the same GEM object.
	c.Check(handle == b.Handle, "re-import gave handle %d, want %d", handle, b.Handle)
}

func testDestroy(c *Checker, d *Device) {
	b, err := d.CreateDumb(64, 64, 32)
	if !c.Check(err == nil, "create: %v", err) {
		return
	}
	c.Check(d.DestroyDumb(b) == nil, "destroy failed")
	// The handle must be dead now.
	err = d.DestroyDumb(b)
	c.Check(err != nil, "double destroy unexpectedly succeeded")
}
