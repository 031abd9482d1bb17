package main

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-denoise/dsp/core"
	"github.com/cwbudde/algo-denoise/internal/audiofile"
	"github.com/cwbudde/algo-denoise/measure/diagnostics"
	"github.com/cwbudde/algo-denoise/separation"
)

type processFlags struct {
	reference string
	report    string
	json      string
}

func newProcessCmd(a *app) *cobra.Command {
	var pf processFlags

	cmd := &cobra.Command{
		Use:   "process <input> <output>",
		Short: "Suppress noise or echo in a recording and write a WAV file",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			return a.process(args[0], args[1], pf)
		},
	}

	cmd.Flags().StringVar(&pf.reference, "reference", "", "reference recording for the adaptive method")
	cmd.Flags().StringVar(&pf.report, "report", "", "write a Markdown diagnostics report to this file")
	cmd.Flags().StringVar(&pf.json, "json", "", "write a JSON diagnostics report to this file")

	return cmd
}

func (a *app) process(input, output string, pf processFlags) error {
	sc, err := a.cfg.Separation()
	if err != nil {
		return err
	}

	loader := audiofile.NewLoader(
		audiofile.WithSampleRate(a.cfg.SampleRate),
		audiofile.WithLogger(a.log),
	)

	primary, err := loader.Load(input)
	if err != nil {
		return err
	}

	var reference core.AudioBuffer
	if pf.reference != "" {
		reference, err = loader.Load(pf.reference)
		if err != nil {
			return err
		}
		n := core.CommonLen(primary.Samples, reference.Samples)
		if n < primary.Len() || n < reference.Len() {
			a.log.WithFields(logrus.Fields{
				"function":          "process",
				"primary_samples":   primary.Len(),
				"reference_samples": reference.Len(),
				"samples":           n,
			}).Info("Truncating inputs to common length")
		}
		primary = primary.Truncate(n)
		reference = reference.Truncate(n)
	}

	engine, err := separation.New(sc, separation.WithLogger(a.log))
	if err != nil {
		return err
	}

	res, err := engine.Separate(primary, reference, sc.Method)
	if err != nil {
		return err
	}

	if err := audiofile.Save(output, res.Processed, a.cfg.BitDepth); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s: %d samples at %d Hz -> %s (%s)\n",
		input, res.Processed.Len(), res.SampleRate, output, res.Method)

	if pf.report == "" && pf.json == "" {
		return nil
	}

	report, err := diagnostics.Analyze(res)
	if err != nil {
		return err
	}

	if pf.report != "" {
		if err := writeFile(pf.report, report.Markdown); err != nil {
			return err
		}
	}
	if pf.json != "" {
		if err := writeFile(pf.json, report.JSON); err != nil {
			return err
		}
	}

	return nil
}

func writeFile(path string, render func(w io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
	}()

	return render(f)
}
