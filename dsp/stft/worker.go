package stft

import (
	"golang.org/x/sync/errgroup"

	"github.com/cwbudde/algo-denoise/dsp/transform"
)

// worker owns one transform and its scratch buffers.
type worker struct {
	tr   transform.Transform
	spec []complex128
	seg  []float64
}

func (f *framer) newWorker() (*worker, error) {
	tr, err := f.factory(f.frameSize)
	if err != nil {
		return nil, err
	}

	return &worker{
		tr:   tr,
		spec: make([]complex128, f.frameSize),
		seg:  make([]float64, f.frameSize),
	}, nil
}

// forEachFrame calls fn for every frame index in [0, count). With more than
// one worker the range is split into contiguous chunks, each driven by its own
// goroutine and transform. fn must only write state owned by index i.
func (f *framer) forEachFrame(count int, fn func(w *worker, i int) error) error {
	if count == 0 {
		return nil
	}

	workers := min(f.workers, count)
	if workers <= 1 {
		w, err := f.newWorker()
		if err != nil {
			return err
		}

		for i := range count {
			if err := fn(w, i); err != nil {
				return err
			}
		}

		return nil
	}

	var g errgroup.Group

	chunk := (count + workers - 1) / workers
	for start := 0; start < count; start += chunk {
		end := min(start+chunk, count)

		g.Go(func() error {
			w, err := f.newWorker()
			if err != nil {
				return err
			}

			for i := start; i < end; i++ {
				if err := fn(w, i); err != nil {
					return err
				}
			}

			return nil
		})
	}

	return g.Wait()
}
