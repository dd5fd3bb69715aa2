//go:build unix

// bank_mmap_unix.go - memory-mapped loading of baked sample-bank files

package main

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// MappedBank holds a bank parsed from a memory-mapped file. Close unmaps the
// backing pages; ParseBankData copies the samples into Bank.PCM, so Bank
// does not alias the mapping.
type MappedBank struct {
	*Bank
	data []byte
}

// LoadBankFile memory-maps path read-only and parses it as a sample bank.
// A parse failure still returns a non-nil MappedBank (Bank.Cleared set, per
// ParseBankData's no-throw policy); only an I/O failure to open or map the
// file itself returns an error.
func LoadBankFile(path string) (*MappedBank, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open bank %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat bank %s: %w", path, err)
	}
	size := info.Size()
	if size == 0 {
		return &MappedBank{Bank: &Bank{Cleared: true}}, nil
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("mmap bank %s: %w", path, err)
	}

	return &MappedBank{Bank: ParseBankData(data), data: data}, nil
}

// Close unmaps the file's pages. Bank.PCM stays valid afterwards.
func (m *MappedBank) Close() error {
	if m.data == nil {
		return nil
	}
	err := unix.Munmap(m.data)
	m.data = nil
	return err
}
