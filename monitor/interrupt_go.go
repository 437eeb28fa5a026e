//go:build !tinygo

package monitor

type interruptState uintptr

// Host builds have nothing to mask.
func disableInterrupts() interruptState { return 0 }

func restoreInterrupts(interruptState) {}
