// Package jsonvalue provides an immutable JSON tree and a parser that builds
// it from raw bytes.
//
// Unlike encoding/json decoding into any, the tree keeps integers exact
// (int64, uint64 or *big.Int), keeps object keys in document order and lets
// the caller decide what happens to duplicate keys:
//
//	v, err := jsonvalue.Parse(data, jsonvalue.WithDuplicateKeys(jsonvalue.Reject))
//	if errors.Is(err, jsonvalue.ErrDuplicateKey) {
//	    // ...
//	}
//
// Parsing is backed by github.com/go-faster/jx.
package jsonvalue
