// Package mmap is a thin read-only memory-mapping layer for the leaf file.
//
// On unix hosts the file is mapped shared and read-only; elsewhere it is
// read into a page-aligned buffer, trading memory for portability. Either
// way the caller sees a byte slice whose start is aligned to the leaf page
// size, so fixed-size leaf records can be addressed in place.
package mmap
