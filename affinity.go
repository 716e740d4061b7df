package golfswing

// maxCPUCores is the number of cores a single word affinity mask can
// address
const maxCPUCores = 64

// CPUCoreMask calculates the core mask by passing in the CPU core numbers as
// a slice, eg: []int{4,5,6,7}
func CPUCoreMask(cores []int) uintptr {

	var mask uintptr

	for _, core := range cores {
		if core < 0 || core >= maxCPUCores {
			continue
		}

		mask |= 1 << uint(core)
	}

	return mask
}

// engineCores picks the cores the i'th engine of a pool is pinned to,
// spreading engines round robin over the configured cores
func engineCores(cores []int, i int) []int {

	if len(cores) == 0 {
		return nil
	}

	return []int{cores[i%len(cores)]}
}
