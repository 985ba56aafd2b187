// Package utils provides conversion helpers for loosely typed values returned
// by the graph service. BigInt scalars arrive as JSON strings, numbers or
// json.Number depending on the decoder, and these helpers normalise them.
package utils
