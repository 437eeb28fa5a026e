package monitor

// DebugWriter receives diagnostic lines from the monitor.
type DebugWriter func(string)

var debugPrintln DebugWriter

// SetDebugWriter routes monitor diagnostics to w, e.g. a spare UART.
// A nil writer silences them, which is the default.
func SetDebugWriter(w DebugWriter) {
	debugPrintln = w
}

func DebugPrintln(msg string) {
	if debugPrintln != nil {
		debugPrintln(msg)
	}
}

// itoa formats n without pulling in fmt.
func itoa(n uint32) string {
	if n == 0 {
		return "0"
	}
	var buf [10]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}
