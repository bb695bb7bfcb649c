// Package histogram stores intensity histograms and moves them between files.
//
// A Hist maps integer keys (normally intensities 0-255) to float64 values.
// Read and Write select a codec from the file extension:
//
//   - .bin: 256 little-endian float32 values, missing keys written as 0
//   - .txt: one "key value" pair per line
//   - .json: {"keys": [...], "values": [...]}
//   - .csv: one "key,value" row per line
//   - .png, .jpg, .jpeg, .bmp, .gif: read only; the normalized luminance
//     histogram of the decoded image
//
// Keys are written in ascending order by every codec.
package histogram
