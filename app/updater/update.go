package updater

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/marcopiovanello/yt-media-dl/app/internal/procgroup"
)

// UpdateExecutable updates yt-dlp in place using its builtin updater.
func UpdateExecutable(ctx context.Context, downloaderPath string) error {
	cmd := exec.CommandContext(ctx, downloaderPath, "-U")
	procgroup.Setup(cmd)

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	slog.Info("updating yt-dlp", slog.String("path", downloaderPath))

	err := cmd.Run()
	for _, line := range strings.Split(strings.TrimSpace(out.String()), "\n") {
		if line != "" {
			slog.Info("yt-dlp updater", slog.String("output", line))
		}
	}
	if err != nil {
		return fmt.Errorf("updating %s: %w", downloaderPath, err)
	}
	return nil
}
