package dataset

import "github.com/rs/zerolog/log"

// Split partitions a frame into signal and background collections. Rows
// passing exclusion are dropped first; of the remainder, rows passing
// signalSel become signal and the rest background. keep limits the output
// columns; an empty keep carries every column through.
func Split(f *Frame, signalSel, exclusionSel Selection, keep []string) (sig, bkg *Frame, err error) {
	excluded := make([]bool, f.Len())
	if exclusionSel.Pass != nil {
		if excluded, err = f.mask(exclusionSel); err != nil {
			return nil, nil, err
		}
	}
	isSignal, err := f.mask(signalSel)
	if err != nil {
		return nil, nil, err
	}

	names := keep
	if len(names) == 0 {
		names = f.names
	}

	sigRows := make([]int, 0, f.Len())
	bkgRows := make([]int, 0, f.Len())
	for r := 0; r < f.Len(); r++ {
		switch {
		case excluded[r]:
		case isSignal[r]:
			sigRows = append(sigRows, r)
		default:
			bkgRows = append(bkgRows, r)
		}
	}

	if sig, err = f.subset(sigRows, names); err != nil {
		return nil, nil, err
	}
	if bkg, err = f.subset(bkgRows, names); err != nil {
		return nil, nil, err
	}

	log.Info().
		Int("total", f.Len()).
		Int("excluded", f.Len()-len(sigRows)-len(bkgRows)).
		Int("signal", sig.Len()).
		Int("background", bkg.Len()).
		Msg("dataset split")
	return sig, bkg, nil
}
