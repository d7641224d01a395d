// Package main provides the entry point for the idscan CLI.
//
// idscan reads OCR text of Indian identity documents (Aadhaar and PAN
// cards), extracts the holder's fields and merges repeated scans of the
// same card into one session.
//
// Usage:
//
//	idscan extract front.txt back.txt
//	tesseract card.png - | idscan extract
//
// See --help for all available options.
package main

func main() {
	Execute()
}
