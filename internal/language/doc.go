// Package language normalizes narration language names and codes to the
// identifiers synthesis engines accept.
package language
