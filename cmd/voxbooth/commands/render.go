// SPDX-License-Identifier: EPL-2.0

package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/ik5/voxbooth/booth"
	"github.com/ik5/voxbooth/capture"
	"github.com/ik5/voxbooth/encode"
	"github.com/ik5/voxbooth/metrics"
	"github.com/ik5/voxbooth/upload"
	"github.com/ik5/voxbooth/voice"
)

var (
	renderOut    string
	renderVoices []string
	renderUpload bool
	renderTitle  string
	renderPhone  string
)

var renderCmd = &cobra.Command{
	Use:   "render <file>",
	Short: "Render every active voice of a recording",
	Long: `Run a full recording session over a recorded file and write the
original plus one artifact per voice to the output directory.

Voices that fail are reported as "not generated"; the others are still
written.

Examples:
  voxbooth render message.wav --out out
  voxbooth render message.mp3 --voices deep,radio
  voxbooth render message.wav --upload --title "Happy birthday" --phone +15550100`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := globalConfig
		ctx := cmd.Context()

		mic, err := capture.ReplayFile(args[0])
		if err != nil {
			return err
		}

		table, err := cfg.Voices.Table()
		if err != nil {
			return err
		}
		for id, err := range table.Invalid() {
			logger.Warn("voice will not be generated", slog.String("voice", string(id)), slog.Any("error", err))
		}

		var m *metrics.Metrics
		if cfg.Metrics.Enabled {
			reg := prometheus.NewRegistry()
			m = metrics.New(reg)
			stop := serveMetrics(cfg.Metrics.Address, reg)
			defer stop()
		}

		opts := cfg.BoothOptions()
		opts.Logger = logger
		opts.Metrics = m
		for _, id := range renderVoices {
			opts.Voices = append(opts.Voices, voice.ID(id))
		}
		opts.Observer = booth.ObserverFuncs{
			OnVoice: func(id voice.ID, err error) {
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "%-10s %s\n", id, booth.NotGenerated)
				}
			},
		}

		enc := encode.NewDefault(cfg.EncodeOptions(), logger, m)
		ctrl := booth.New(mic, table, enc, opts)

		if err := ctrl.Start(ctx); err != nil {
			return errors.New(booth.UserMessage(err))
		}
		if err := ctrl.Stop(ctx); err != nil {
			return errors.New(booth.UserMessage(err))
		}
		if err := ctrl.Wait(ctx); err != nil {
			return err
		}

		snap := ctrl.Snapshot()
		if snap.Original == nil {
			return errors.New(snap.Message())
		}

		if err := os.MkdirAll(renderOut, 0o755); err != nil {
			return err
		}

		artifacts := []encode.Artifact{*snap.Original}
		ids := opts.Voices
		if len(ids) == 0 {
			ids = table.Active()
		}
		for _, id := range ids {
			if a, ok := snap.Artifacts[id]; ok {
				artifacts = append(artifacts, a)
			}
		}

		out := cmd.OutOrStdout()
		for _, a := range artifacts {
			path := filepath.Join(renderOut, a.Voice+upload.Extension(a.MimeType))
			if err := os.WriteFile(path, a.Bytes, 0o644); err != nil {
				return err
			}

			duration := "unknown"
			if a.Known() {
				duration = fmt.Sprintf("%.2fs", a.Duration)
			}
			fmt.Fprintf(out, "%-10s %-24s %8s  %s\n", a.Voice, a.MimeType, duration, path)
		}

		if renderUpload {
			if err := submitAll(ctx, artifacts); err != nil {
				return err
			}
		}

		if snap.State == booth.Error {
			return errors.New(snap.Message())
		}

		return nil
	},
}

func submitAll(ctx context.Context, artifacts []encode.Artifact) error {
	cfg := globalConfig.Upload
	if cfg.Endpoint == "" {
		return fmt.Errorf("--upload needs upload.endpoint in the configuration")
	}

	client := &upload.Client{
		Endpoint: cfg.Endpoint,
		HTTP:     &http.Client{Timeout: cfg.Timeout},
		Logger:   logger,
	}

	var errs []error
	for _, a := range artifacts {
		err := client.Submit(ctx, upload.Submission{Artifact: a, Title: renderTitle, PhoneNumber: renderPhone})
		if err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// serveMetrics exposes reg on addr until the returned function is called.
func serveMetrics(addr string, reg *prometheus.Registry) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(reg))

	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server stopped", slog.Any("error", err))
		}
	}()
	logger.Info("serving metrics", slog.String("address", addr))

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}

func init() {
	renderCmd.Flags().StringVarP(&renderOut, "out", "o", ".", "output directory")
	renderCmd.Flags().StringSliceVar(&renderVoices, "voices", nil, "voices to render instead of the active set")
	renderCmd.Flags().BoolVar(&renderUpload, "upload", false, "submit the artifacts to upload.endpoint")
	renderCmd.Flags().StringVar(&renderTitle, "title", "", "title sent with --upload")
	renderCmd.Flags().StringVar(&renderPhone, "phone", "", "phone number sent with --upload")
}
