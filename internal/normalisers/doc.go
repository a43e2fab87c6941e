// Package normalisers provides implementations of the Normaliser
// interface for the supported document formats. Each normaliser knows
// how to extract plain text from one family of file extensions.
//
// Normalisers are registered with the Registry at startup; the
// plaintext normaliser doubles as the fallback for unknown formats.
package normalisers
