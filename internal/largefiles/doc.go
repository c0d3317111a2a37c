// Package largefiles finds the files at or above a size threshold and
// reports them largest first.
package largefiles
