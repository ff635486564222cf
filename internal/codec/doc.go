// Package codec is the binary format of an order store.
//
// Everything is little-endian and fixed width. Money, years and length
// prefixes are 8 bytes, months and days 1 byte. Text is a length prefix
// followed by the raw bytes. Optional values carry a one-byte tag, 0 for
// absent and 1 for present, followed by the value when present. Products are
// written depth first: scalar fields, then sub-items, then add-ons.
//
// A store is a length-prefixed sequence of orders and nothing else; bytes
// after the last order are an error.
package codec
