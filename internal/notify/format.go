package notify

import (
	"fmt"

	"github.com/nguyentantai21042004/dirwatch/internal/diff"
)

const timeLayout = "03:04:05 PM"

// Format renders ev as "[HH:MM:SS AM/PM] <verb>: <name>".
func Format(ev diff.Event) string {
	stamp := "[" + ev.Time.Format(timeLayout) + "] "
	switch ev.Kind {
	case diff.Added:
		return stamp + "File added: " + ev.Name
	case diff.Deleted:
		return stamp + "File deleted: " + ev.Name
	case diff.Modified:
		return stamp + "File modified: " + ev.Name
	case diff.SizeChanged:
		return stamp + "File size changed: " + ev.Name
	case diff.Renamed:
		return stamp + "File renamed: " + ev.Name + " -> " + ev.NewName
	default:
		return stamp + fmt.Sprintf("File changed (%s): %s", ev.Kind, ev.Name)
	}
}
