package converter

import (
	"fmt"
	"strings"

	"github.com/james-see/smfkit/pkg/smf"
)

// HexDump renders every event as hex, one line per event, grouped by track.
// With runningStatus set, a voice status byte equal to the one before it in
// the same track is left out, the way a writer using running status would.
func HexDump(f *smf.File, runningStatus bool) string {
	var sb strings.Builder
	for i, t := range f.Tracks() {
		if i > 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "Track[%d]:\n", i)

		var last byte
		for _, ev := range t.Events() {
			msg := ev.Message()
			include := true
			if msg.Kind() == smf.KindVoice {
				include = !runningStatus || msg.Status() != last
				last = msg.Status()
			}
			sb.WriteString(smf.HexString(ev.Bytes(include)))
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
