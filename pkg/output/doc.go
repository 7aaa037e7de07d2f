// Package output materialises a rendered bundle on disk.
//
// The output directory is wholly owned by proxyforge: every run removes it,
// recreates it and writes the bundle from scratch. Nothing in it is read
// back. Absolute log directories referenced by file log targets are created
// in place and never removed.
//
// Every failure matches ErrResourceUnavailable via errors.Is and names the
// offending path. There is no rollback: a failed run may leave a partially
// written tree behind.
package output
