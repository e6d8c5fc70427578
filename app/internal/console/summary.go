package console

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/marcopiovanello/yt-media-dl/app/internal/media"
	"github.com/marcopiovanello/yt-media-dl/app/internal/stats"
	"github.com/olekukonko/tablewriter"
)

var summaryOrder = []media.Category{media.Single, media.Playlist, media.Channel, media.Unsupported}

// PrintSummary renders the end of run table. Nothing is printed for a run
// that recorded no outcome.
func PrintSummary(w io.Writer, s stats.Summary) {
	if s.Total() == 0 {
		return
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Category", "Items"})
	table.SetRowLine(false)
	table.SetAutoWrapText(false)

	for _, c := range summaryOrder {
		n, found := s.Counts[c]
		if !found {
			continue
		}
		table.Append([]string{c.String(), strconv.Itoa(n)})
	}
	table.SetFooter([]string{"total", strconv.Itoa(s.Total())})
	table.Render()

	fmt.Fprintf(w, "Succeeded: %d\n", len(s.Succeeded))
	if len(s.Failed) > 0 {
		fail.Fprintf(w, "Failed: %s\n", strings.Join(s.Failed, ", "))
	} else {
		good.Fprintln(w, "All downloads completed.")
	}
	fmt.Fprintln(w)
}
