package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-denoise/dsp/window"
)

// overlapFloor matches the normalisation floor of the synthesizer.
const overlapFloor = 1e-24

func newWindowsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "windows [window-name ...]",
		Short: "List analysis windows and their overlap-add envelope at the configured framing",
		RunE: func(_ *cobra.Command, args []string) error {
			return a.windows(args)
		},
	}
}

func (a *app) windows(names []string) error {
	types := window.Types()
	if len(names) > 0 {
		types = types[:0:0]
		for _, name := range names {
			t, err := window.ParseType(name)
			if err != nil {
				return err
			}
			types = append(types, t)
		}
	}

	size, hop := a.cfg.FrameSize, a.cfg.HopSize

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintf(tw, "Window\tSize\tHop\tEnvelope min\tSteady min\tSteady max\tRipple\tUsable\n"); err != nil {
		return fmt.Errorf("failed to write output header: %w", err)
	}
	if _, err := fmt.Fprintf(tw, "------\t----\t---\t------------\t----------\t----------\t------\t------\n"); err != nil {
		return fmt.Errorf("failed to write output header: %w", err)
	}

	for _, t := range types {
		coeffs, err := window.STFT(t, size)
		if err != nil {
			return err
		}

		ov, err := window.CheckOverlap(coeffs, hop, overlapFloor)
		usable := "yes"
		if err != nil {
			usable = "no"
		}

		if _, err := fmt.Fprintf(tw, "%s\t%d\t%d\t%.3e\t%.6f\t%.6f\t%.6f\t%s\n",
			t, size, hop, ov.Min, ov.SteadyMin, ov.SteadyMax, ov.Ripple(), usable); err != nil {
			return fmt.Errorf("failed to write output row: %w", err)
		}
	}

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to flush output: %w", err)
	}
	return nil
}
