//go:build linux

package golfswing

import (
	"fmt"
	"runtime"
	"syscall"
	"unsafe"
)

// setThreadAffinity sets the CPU affinity mask of the calling OS thread
func setThreadAffinity(mask uintptr) error {

	// pid 0 applies the mask to the calling thread only
	_, _, err := syscall.RawSyscall(syscall.SYS_SCHED_SETAFFINITY, 0,
		unsafe.Sizeof(mask), uintptr(unsafe.Pointer(&mask)))

	if err != 0 {
		return fmt.Errorf("failed to set CPU affinity: %w", err)
	}

	return nil
}

// ThreadAffinity gets the CPU affinity mask of the calling OS thread
func ThreadAffinity() (uintptr, error) {

	var mask uintptr

	_, _, err := syscall.RawSyscall(syscall.SYS_SCHED_GETAFFINITY, 0,
		unsafe.Sizeof(mask), uintptr(unsafe.Pointer(&mask)))

	if err != 0 {
		return 0, fmt.Errorf("failed to get CPU affinity: %w", err)
	}

	return mask, nil
}

// pinToCores locks the calling goroutine to its OS thread and restricts that
// thread to the given cores.  The goroutine must not unlock the thread, the
// runtime discards it when the goroutine exits.
func pinToCores(cores []int) error {

	if len(cores) == 0 {
		return nil
	}

	runtime.LockOSThread()

	return setThreadAffinity(CPUCoreMask(cores))
}
