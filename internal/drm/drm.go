// Package drm is a minimal DRM uapi layer used by the gbmtest command:
// dumb-buffer allocation, mapping and PRIME export/import against a
// render or card node. Dumb buffers are the kernel's stable,
// driver-independent allocation path, which is what a buffer-manager
// conformance check needs.
package drm

import (
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

// ioctl request codes for the drm_mode uapi structs below.
const (
	ioctlGetCap           = 0xC010640C // DRM_IOCTL_GET_CAP
	ioctlModeCreateDumb   = 0xC02064B2 // DRM_IOCTL_MODE_CREATE_DUMB
	ioctlModeMapDumb      = 0xC01064B3 // DRM_IOCTL_MODE_MAP_DUMB
	ioctlModeDestroyDumb  = 0xC00464B4 // DRM_IOCTL_MODE_DESTROY_DUMB
	ioctlPrimeHandleToFD  = 0xC00C642D // DRM_IOCTL_PRIME_HANDLE_TO_FD
	ioctlPrimeFDToHandle  = 0xC00C642E // DRM_IOCTL_PRIME_FD_TO_HANDLE
	ioctlGemClose         = 0x40086409 // DRM_IOCTL_GEM_CLOSE
)

// CapDumbBuffer is the DRM_CAP_DUMB_BUFFER capability id.
const CapDumbBuffer = 0x1

// primeFlagCloexec is DRM_CLOEXEC.
const primeFlagCloexec = unix.O_CLOEXEC

type getCap struct {
	capability uint64
	value      uint64
}

type createDumb struct {
	height uint32
	width  uint32
	bpp    uint32
	flags  uint32
	handle uint32
	pitch  uint32
	size   uint64
}

type mapDumb struct {
	handle uint32
	pad    uint32
	offset uint64
}

type destroyDumb struct {
	handle uint32
}

type primeHandle struct {
	handle uint32
	flags  uint32
	fd     int32
}

type gemClose struct {
	handle uint32
	pad    uint32
}

// Device is an open DRM node.
type Device struct {
	f *os.File
}

// nodePaths lists the device nodes tried by Open, render nodes first
// (no DRM master required).
var nodePaths = []string{
	"/dev/dri/renderD128",
	"/dev/dri/renderD129",
	"/dev/dri/card0",
	"/dev/dri/card1",
}

// Open returns the first DRM node that can be opened read-write.
func Open() (*Device, error) {
	var firstErr error
	for _, path := range nodePaths {
		f, err := os.OpenFile(path, os.O_RDWR, 0)
		if err == nil {
			return &Device{f: f}, nil
		}
		if firstErr == nil && !os.IsNotExist(err) {
			firstErr = err
		}
	}
	if firstErr != nil {
		return nil, fmt.Errorf("drm: opening device node: %w", firstErr)
	}
	return nil, fmt.Errorf("drm: no device node found")
}

// OpenPath opens a specific DRM node.
func OpenPath(path string) (*Device, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("drm: opening %s: %w", path, err)
	}
	return &Device{f: f}, nil
}

func (d *Device) Close() error { return d.f.Close() }

// Name returns the device node path.
func (d *Device) Name() string { return d.f.Name() }

func (d *Device) ioctl(req uintptr, arg unsafe.Pointer) error {
	for {
		_, _, errno := unix.Syscall(unix.SYS_IOCTL, d.f.Fd(), req, uintptr(arg))
		if errno == unix.EINTR || errno == unix.EAGAIN {
			continue
		}
		if errno != 0 {
			return errno
		}
		return nil
	}
}

// Capability queries one DRM_CAP_* value.
func (d *Device) Capability(cap uint64) (uint64, error) {
	arg := getCap{capability: cap}
	if err := d.ioctl(ioctlGetCap, unsafe.Pointer(&arg)); err != nil {
		return 0, fmt.Errorf("drm: get cap %#x: %w", cap, err)
	}
	return arg.value, nil
}

// DumbBuffer is one kernel-allocated scanout-capable buffer.
type DumbBuffer struct {
	Handle uint32
	Width  uint32
	Height uint32
	Bpp    uint32
	Pitch  uint32
	Size   uint64
}

// CreateDumb allocates a dumb buffer of width x height at bpp bits per
// pixel.
func (d *Device) CreateDumb(width, height, bpp uint32) (*DumbBuffer, error) {
	arg := createDumb{width: width, height: height, bpp: bpp}
	if err := d.ioctl(ioctlModeCreateDumb, unsafe.Pointer(&arg)); err != nil {
		return nil, fmt.Errorf("drm: create dumb %dx%d@%d: %w", width, height, bpp, err)
	}
	return &DumbBuffer{
		Handle: arg.handle,
		Width:  width,
		Height: height,
		Bpp:    bpp,
		Pitch:  arg.pitch,
		Size:   arg.size,
	}, nil
}

// Map maps the buffer read-write into this process. The caller unmaps
// with Unmap.
func (d *Device) Map(b *DumbBuffer) ([]byte, error) {
	arg := mapDumb{handle: b.Handle}
	if err := d.ioctl(ioctlModeMapDumb, unsafe.Pointer(&arg)); err != nil {
		return nil, fmt.Errorf("drm: map dumb handle %d: %w", b.Handle, err)
	}
	mem, err := unix.Mmap(int(d.f.Fd()), int64(arg.offset), int(b.Size),
		unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("drm: mmap handle %d: %w", b.Handle, err)
	}
	return mem, nil
}

// Unmap releases a mapping returned by Map.
func (d *Device) Unmap(mem []byte) error {
	if err := unix.Munmap(mem); err != nil {
		return fmt.Errorf("drm: munmap: %w", err)
	}
	return nil
}

// DestroyDumb frees a dumb buffer.
func (d *Device) DestroyDumb(b *DumbBuffer) error {
	arg := destroyDumb{handle: b.Handle}
	if err := d.ioctl(ioctlModeDestroyDumb, unsafe.Pointer(&arg)); err != nil {
		return fmt.Errorf("drm: destroy dumb handle %d: %w", b.Handle, err)
	}
	return nil
}

// ExportPrime turns a GEM handle into a dma-buf file descriptor.
func (d *Device) ExportPrime(handle uint32) (int, error) {
	arg := primeHandle{handle: handle, flags: primeFlagCloexec}
	if err := d.ioctl(ioctlPrimeHandleToFD, unsafe.Pointer(&arg)); err != nil {
		return -1, fmt.Errorf("drm: prime export handle %d: %w", handle, err)
	}
	return int(arg.fd), nil
}

// ImportPrime turns a dma-buf file descriptor back into a GEM handle.
func (d *Device) ImportPrime(fd int) (uint32, error) {
	arg := primeHandle{fd: int32(fd)}
	if err := d.ioctl(ioctlPrimeFDToHandle, unsafe.Pointer(&arg)); err != nil {
		return 0, fmt.Errorf("drm: prime import fd %d: %w", fd, err)
	}
	return arg.handle, nil
}

// CloseHandle drops a GEM handle reference (used for imported handles;
// dumb buffers go through DestroyDumb).
func (d *Device) CloseHandle(handle uint32) error {
	arg := gemClose{handle: handle}
	if err := d.ioctl(ioctlGemClose, unsafe.Pointer(&arg)); err != nil {
		return fmt.Errorf("drm: gem close handle %d: %w", handle, err)
	}
	return nil
}
