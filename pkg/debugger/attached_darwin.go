//go:build darwin

package debugger

import (
	"os"

	"golang.org/x/sys/unix"
)

// pTraced is P_TRACED from <sys/proc.h>.
const pTraced = 0x00000800

func attached() bool {
	info, err := unix.SysctlKinfoProc("kern.proc.pid", os.Getpid())
	if err != nil {
		return false
	}
	return info.Proc.P_flag&pTraced != 0
}
