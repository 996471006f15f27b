// Package textutil provides text processing utilities for filename
// sanitization and label similarity.
//
// The primary use cases are:
//   - Sanitizing sample filenames for safe use on sampler storage media
//   - Matching free-form genre/mood labels against the fixed device
//     category vocabulary via token overlap
//
// Sanitized names are restricted to printable ASCII because the target
// hardware exposes its storage over FAT filesystems with limited
// character support.
package textutil
