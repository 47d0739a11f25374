// Package services implements the pipeline stages: trade booking,
// position keeping, risk, pricing, streaming, market data, execution
// and inquiry handling. Stages are thin layers over engine.Store with
// the stage's transformation applied before publishing.
package services

import "errors"

var (
	// ErrUnknownInstrument reports a ticker outside the bond catalog.
	ErrUnknownInstrument = errors.New("services: unknown instrument")

	// ErrUnknownBook reports a trade against a book outside the fixed
	// book set, under strict book policy.
	ErrUnknownBook = errors.New("services: unknown book")

	// ErrUnsupported reports an operation that is declared but has no
	// defined behavior yet.
	ErrUnsupported = errors.New("services: unsupported operation")
)
