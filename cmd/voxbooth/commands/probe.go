// SPDX-License-Identifier: EPL-2.0

package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ik5/voxbooth/capture"
	"github.com/ik5/voxbooth/encode"
	"github.com/ik5/voxbooth/formats"
	"github.com/ik5/voxbooth/probe"
)

var probeCmd = &cobra.Command{
	Use:   "probe <file>",
	Short: "Print the duration of a recording",
	Long: `Print the container, MIME type and duration of a recording.

The duration comes from decoding when possible, then from container
metadata, and is reported as unknown otherwise.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}

		format, ok := formats.Detect(raw)
		if !ok {
			format = "unknown"
		}

		duration, source := 0.0, encode.DurationUnknown
		if pcm, err := formats.Decode(raw); err == nil {
			duration, source = pcm.Duration(), encode.DurationDecoded
		} else {
			logger.Debug("decode failed, probing", "error", err)

			p := probe.Prober{Timeout: globalConfig.Probe.Timeout}
			if d, err := p.Duration(cmd.Context(), raw); err == nil {
				duration, source = d, encode.DurationProbed
			}
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "format:    %s\n", format)
		fmt.Fprintf(out, "mime type: %s\n", capture.MimeTypeOf(raw))
		if source == encode.DurationUnknown {
			fmt.Fprintln(out, "duration:  unknown")
			return nil
		}
		fmt.Fprintf(out, "duration:  %.3fs (%s)\n", duration, source)

		return nil
	},
}
