package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/gnsskit/sbfkit/block"
	"github.com/gnsskit/sbfkit/errs"
	"github.com/gnsskit/sbfkit/stream"
)

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <file>",
		Short: "Print interval, block counts and epoch statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, h, err := session.Load(args[0], stream.ReadOnly)
			if err != nil {
				return err
			}
			defer func() { _ = session.Close(h) }()

			first, last, err := s.Interval()
			if err == nil {
				fmt.Printf("interval:    %.3f .. %.3f (%.1fs)\n", first, last, last-first)
			}
			if mf, ml, err := s.MeasurementsInterval(); err == nil {
				fmt.Printf("measurement: %.3f .. %.3f\n", mf, ml)
			}
			fmt.Printf("size:        %d bytes, %d blocks\n", s.Size(), s.BlockCount())
			fmt.Printf("meas epochs: %d\n", s.CountBlocks(block.ID(block.NumMeasEpoch), true))
			if iv, err := s.CommonEpochInterval(block.ID(block.NumMeasEpoch)); err == nil {
				fmt.Printf("epoch rate:  %.3fs\n", iv)
			}

			return nil
		},
	}
}

func newCropCmd() *cobra.Command {
	var start, end float64
	var out string

	cmd := &cobra.Command{
		Use:   "crop <file>",
		Short: "Keep only the first interval matching the time bounds",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return editFile(args[0], out, func(s *stream.Stream) error {
				return s.CropGnss(start, end, 0)
			}, stream.OpCrop)
		},
	}
	cmd.Flags().Float64Var(&start, "start", 0, "start of the range, GNSS seconds")
	cmd.Flags().Float64Var(&end, "end", 0, "end of the range, GNSS seconds")
	cmd.Flags().StringVarP(&out, "output", "o", "", "output file (default: overwrite input)")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")

	return cmd
}

func newFilterCmd() *cobra.Command {
	var start, end float64
	var out string

	cmd := &cobra.Command{
		Use:   "filter <file>",
		Short: "Keep every block inside the time bounds",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return editFile(args[0], out, func(s *stream.Stream) error {
				return s.FilterGnss(start, end, 0)
			}, stream.OpFilter)
		},
	}
	cmd.Flags().Float64Var(&start, "start", 0, "start of the range, GNSS seconds")
	cmd.Flags().Float64Var(&end, "end", 0, "end of the range, GNSS seconds")
	cmd.Flags().StringVarP(&out, "output", "o", "", "output file (default: overwrite input)")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")

	return cmd
}

func newSampleCmd() *cobra.Command {
	var interval float64
	var relative bool
	var out string

	cmd := &cobra.Command{
		Use:   "sample <file>",
		Short: "Decimate the stream to one epoch per interval",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return editFile(args[0], out, func(s *stream.Stream) error {
				return s.Sample(interval, relative)
			}, stream.OpSample)
		},
	}
	cmd.Flags().Float64VarP(&interval, "interval", "i", 1, "sampling interval in seconds")
	cmd.Flags().BoolVar(&relative, "relative", false, "anchor the sampling grid on the first epochs")
	cmd.Flags().StringVarP(&out, "output", "o", "", "output file (default: overwrite input)")

	return cmd
}

func newMergeCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "merge <fileA> <fileB>",
		Short: "Interleave two files by ascending time",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			// The two inputs are independent, so they load in parallel.
			var a, b *stream.Stream
			var g errgroup.Group
			g.Go(func() error {
				var err error
				a, err = stream.Load(args[0], stream.ReadOnly)

				return err
			})
			g.Go(func() error {
				var err error
				b, err = stream.Load(args[1], stream.ReadOnly)

				return err
			})
			if err := g.Wait(); err != nil {
				return err
			}

			dst, h, err := session.NewStream()
			if err != nil {
				return err
			}
			defer func() { _ = session.Close(h) }()

			attachProgress(dst, stream.OpMerge)
			if err := dst.Merge(a, b, block.CategoryAny, block.CategoryAny); err != nil {
				return err
			}
			logger.Info("merged",
				zap.String("output", out),
				zap.Int("blocks", dst.BlockCount()),
			)

			return dst.WriteFile(out)
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "merged.sbf", "output file")

	return cmd
}

// editFile loads path, applies edit, and writes the result to out or
// back over path.
func editFile(path, out string, edit func(*stream.Stream) error, op stream.Operation) error {
	s, h, err := session.Load(path, stream.ReadWrite)
	if err != nil {
		return err
	}
	defer func() { _ = session.Close(h) }()

	attachProgress(s, op)
	if err := edit(s); err != nil && !errs.IsWarning(err) {
		return err
	}
	if out == "" {
		out = path
	}

	return s.WriteFile(out)
}

func attachProgress(s *stream.Stream, op stream.Operation) {
	if !cfg.Progress {
		return
	}

	last := -1
	s.SetProgressFunc(func(_ stream.Operation, percent int) {
		if percent != last {
			fmt.Fprintf(os.Stderr, "\r%3d%%", percent)
			last = percent
		}
	})
	s.Subscribe(op)
}
