//go:build !unix

// bank_mmap_other.go - plain-read loading of baked sample-bank files on non-unix targets

package main

import (
	"fmt"
	"os"
)

// MappedBank holds a bank loaded from a file. On non-unix targets there is
// no mapping to release; Close is a no-op kept for API parity with
// bank_mmap_unix.go.
type MappedBank struct {
	*Bank
}

// LoadBankFile reads path fully into memory and parses it as a sample bank.
func LoadBankFile(path string) (*MappedBank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read bank %s: %w", path, err)
	}
	return &MappedBank{Bank: ParseBankData(data)}, nil
}

// Close is a no-op on this platform.
func (m *MappedBank) Close() error {
	return nil
}
