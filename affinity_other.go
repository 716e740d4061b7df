//go:build !linux

package golfswing

import "errors"

// ThreadAffinity is only supported on linux
func ThreadAffinity() (uintptr, error) {
	return 0, errors.New("CPU affinity is only supported on linux")
}

// pinToCores is only supported on linux, it fails when cores are requested
func pinToCores(cores []int) error {

	if len(cores) == 0 {
		return nil
	}

	return errors.New("CPU affinity is only supported on linux")
}
