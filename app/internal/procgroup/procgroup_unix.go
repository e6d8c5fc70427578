//go:build unix

package procgroup

import (
	"os/exec"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

// Setup starts cmd in its own process group and makes context cancellation
// terminate the whole group. yt-dlp spawns ffmpeg children of its own, a
// SIGTERM sent only to the parent would leave them running.
func Setup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		pgid, err := unix.Getpgid(cmd.Process.Pid)
		if err != nil {
			return err
		}
		return unix.Kill(-pgid, unix.SIGTERM)
	}
	cmd.WaitDelay = 5 * time.Second
}
