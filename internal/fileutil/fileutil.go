// Package fileutil provides small filesystem helpers shared by the
// serialization layers.
package fileutil

import "os"

// WriteAtomic writes data to path via a sibling temp file and a rename, so
// a failed write never clobbers an existing file. The temp file is removed
// on failure.
func WriteAtomic(path string, data []byte, mode os.FileMode) error {
	temp := path + ".tmp"
	if err := os.WriteFile(temp, data, mode); err != nil {
		os.Remove(temp)
		return err
	}
	if err := os.Rename(temp, path); err != nil {
		os.Remove(temp)
		return err
	}
	return nil
}
