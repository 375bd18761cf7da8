//go:build windows

package debugger

import "golang.org/x/sys/windows"

var procIsDebuggerPresent = windows.NewLazySystemDLL("kernel32.dll").NewProc("IsDebuggerPresent")

func attached() bool {
	if err := procIsDebuggerPresent.Find(); err != nil {
		return false
	}
	ret, _, _ := procIsDebuggerPresent.Call()
	return ret != 0
}
