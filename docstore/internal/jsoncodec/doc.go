// Package jsoncodec streams Documents to JSON and parses JSON back into Documents with json-iterator.
//
// Both directions keep object key order. Integral floats are written with a ".0" suffix and
// numbers are read back as int64 unless their text has a fraction or exponent, so the int/float
// distinction survives a round trip. Store specific types are mapped through a Converter.
package jsoncodec
