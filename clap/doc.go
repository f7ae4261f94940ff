// Package clap detects hand claps in a stream of audio buffers.
//
// A [Detector] is one session: it band-limits each buffer to the clap band,
// measures its energy against an adaptive threshold, turns threshold
// crossings into onsets, and groups onsets into patterns such as a double
// clap. All state lives in the Detector, so independent sessions (one per
// channel, say) can run side by side.
//
//	d, err := clap.New(clap.DefaultConfig())
//	...
//	for buf := range buffers {
//		res, err := d.Process(buf)
//		...
//		for _, p := range res.Patterns {
//			fmt.Println(p.Kind(), p.Start())
//		}
//	}
//	leftover := d.Flush()
package clap
