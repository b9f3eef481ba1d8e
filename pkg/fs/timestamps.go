package fs

import (
	"os"
	"time"
)

// CompareTimestamp returns true when dst is out of date with respect to src, or does not exist.
//
// A missing src is an error.
func (p *Paths) CompareTimestamp(src, dst string) (bool, error) {
	dstInfo, err := p.fs.Stat(dst)
	if err != nil {
		if os.IsNotExist(err) {
			return true, nil
		}
		return false, err
	}
	srcInfo, err := p.fs.Stat(src)
	if err != nil {
		return false, err
	}
	return srcInfo.ModTime().After(dstInfo.ModTime()), nil
}

// CompareAllTimestamps returns true when any of the files in dsts does not exist, or when any
// of the files in srcs is newer than the oldest of dsts.
//
// No dsts at all means there is no output: this is always out of date.
// Existing dsts without srcs are up to date.
func (p *Paths) CompareAllTimestamps(srcs, dsts []string) (bool, error) {
	if len(dsts) == 0 {
		return true, nil
	}

	var minDst time.Time
	for i, dst := range dsts {
		info, err := p.fs.Stat(dst)
		if err != nil {
			if os.IsNotExist(err) {
				return true, nil
			}
			return false, err
		}
		if i == 0 || info.ModTime().Before(minDst) {
			minDst = info.ModTime()
		}
	}

	if len(srcs) == 0 {
		return false, nil
	}

	var maxSrc time.Time
	for i, src := range srcs {
		info, err := p.fs.Stat(src)
		if err != nil {
			return false, err
		}
		if i == 0 || info.ModTime().After(maxSrc) {
			maxSrc = info.ModTime()
		}
	}
	return maxSrc.After(minDst), nil
}
