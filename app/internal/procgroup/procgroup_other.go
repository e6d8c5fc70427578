//go:build !unix

package procgroup

import (
	"os/exec"
	"time"
)

// Setup only bounds the wait after cancellation; the default Cancel kills the
// direct child.
func Setup(cmd *exec.Cmd) {
	cmd.WaitDelay = 5 * time.Second
}
