package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/tubedigest/internal/models"
	"github.com/nguyentantai21042004/tubedigest/internal/processor"
	"github.com/nguyentantai21042004/tubedigest/internal/watcher"
)

func transcriptCmd() *cobra.Command {
	var diarize bool
	var client string

	cmd := &cobra.Command{
		Use:   "transcript <url>",
		Short: "Fetch or generate the transcript of a YouTube video",
		Long: `Fetch the transcript of a YouTube video.

Captions are used when the video has them; otherwise the audio is downloaded
and transcribed locally. --diarize skips captions and asks Gemini for a
speaker-labelled transcript.

Examples:
  tubedigest transcript https://youtu.be/dQw4w9WgXcQ
  tubedigest transcript "https://www.youtube.com/watch?v=dQw4w9WgXcQ" --diarize`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close(context.WithoutCancel(cmd.Context()))

			report, err := a.proc.ProcessURL(cmd.Context(), processor.Request{
				URL:            args[0],
				Diarize:        diarize,
				Client:         client,
				TranscriptOnly: true,
			})
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), report.Transcript.Text)
			for _, out := range report.Outputs {
				fmt.Fprintf(cmd.ErrOrStderr(), "Saved: %s\n", out)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&diarize, "diarize", false, "produce a speaker-labelled transcript with Gemini")
	cmd.Flags().StringVar(&client, "client", "", "client identifier for rate limiting")
	return cmd
}

func summarizeCmd() *cobra.Command {
	var diarize bool
	var kind string
	var client string

	cmd := &cobra.Command{
		Use:   "summarize <url|file.txt>",
		Short: "Summarize a YouTube video or a transcript file",
		Long: `Summarize a YouTube video, or a transcript file previously exported by
this tool. Writes markdown and docx documents to the output folder.

Examples:
  tubedigest summarize https://youtu.be/dQw4w9WgXcQ --kind detailed
  tubedigest summarize ./data/output/dQw4w9WgXcQ_transcript.txt --kind concise`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close(context.WithoutCancel(cmd.Context()))

			resolved, known := normalizeKind(kind)
			if !known {
				a.log.Warn(cmd.Context(), "Unknown summary kind %q, using %s", kind, resolved)
			}
			kind = resolved

			var report *processor.Report
			if isLocalFile(args[0]) {
				if !a.proc.Allow(client) {
					return processor.ErrRateLimited
				}
				report, err = a.proc.SummarizeFile(cmd.Context(), args[0], kind)
			} else {
				report, err = a.proc.ProcessURL(cmd.Context(), processor.Request{
					URL:     args[0],
					Diarize: diarize,
					Kind:    kind,
					Client:  client,
				})
			}
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), report.Summary.Text)
			for _, out := range report.Outputs {
				fmt.Fprintf(cmd.ErrOrStderr(), "Saved: %s\n", out)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&kind, "kind", "k", "normal", "summary length: concise, normal or detailed (anything else means normal)")
	cmd.Flags().BoolVar(&diarize, "diarize", false, "summarize a speaker-labelled transcript")
	cmd.Flags().StringVar(&client, "client", "", "client identifier for rate limiting")
	return cmd
}

func watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Summarize transcript files dropped into the input folder",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.close(context.WithoutCancel(ctx))

			w, err := watcher.New(a.cfg.Paths.Input, a.proc.ProcessTranscriptFile, a.log, watcher.Options{
				Extensions:    a.cfg.Upload.Extensions,
				MaxConcurrent: a.cfg.Performance.MaxConcurrent,
				SettleDelay:   a.cfg.Upload.SettleDelay,
			})
			if err != nil {
				return fmt.Errorf("failed to create watcher: %w", err)
			}
			defer w.Stop()

			go a.limiter.Run(ctx, a.cfg.RateLimit.SweepInterval)

			a.log.Info(ctx, "========================================")
			a.log.Info(ctx, "tubedigest is ready!")
			a.log.Info(ctx, "Monitoring: %s", a.cfg.Paths.Input)
			a.log.Info(ctx, "Output: %s", a.cfg.Paths.Output)
			a.log.Info(ctx, "Archived: %s", a.cfg.Paths.Archived)
			a.log.Info(ctx, "Concurrent: %d files at once", a.cfg.Performance.MaxConcurrent)
			a.log.Info(ctx, "Press Ctrl+C to stop")
			a.log.Info(ctx, "========================================")

			err = w.Start(ctx)
			a.log.Info(context.WithoutCancel(ctx), "Shutting down gracefully...")
			if err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}
}

// normalizeKind maps the --kind flag onto a summary kind. Unknown values fall
// back to normal; known reports whether the input named a kind exactly.
func normalizeKind(kind string) (resolved string, known bool) {
	k := models.ParseSummaryKind(kind)
	return string(k), strings.EqualFold(strings.TrimSpace(kind), string(k))
}

func isLocalFile(arg string) bool {
	if strings.HasPrefix(arg, "http://") || strings.HasPrefix(arg, "https://") {
		return false
	}
	info, err := os.Stat(arg)
	return err == nil && info.Mode().IsRegular()
}
