package bank

import (
	_ "embed"
	"fmt"
	"sync"
)

//go:embed data/biology.yaml
var biologyYAML []byte

var (
	defaultOnce sync.Once
	defaultBank *Bank
	defaultErr  error
)

// Default returns the built-in biology bank.
func Default() (*Bank, error) {
	defaultOnce.Do(func() {
		defaultBank, defaultErr = Parse("biology.yaml", biologyYAML)
		if defaultErr != nil {
			defaultErr = fmt.Errorf("built-in bank: %w", defaultErr)
		}
	})
	return defaultBank, defaultErr
}

// Open returns the bank at path, or the built-in bank when path is empty.
func Open(path string) (*Bank, error) {
	if path == "" {
		return Default()
	}
	return LoadFile(path)
}
