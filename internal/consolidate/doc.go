// Package consolidate concatenates the files found by a scan into one text
// report.
//
// Every file is announced by a header line carrying its path and followed by
// its contents. Files that cannot be read are not fatal: a placeholder is
// written in place of the contents and the run moves on.
package consolidate
