// Package ocr reads the text in a confirmed screen region using Tesseract.
//
// Local OCR is an offline stand-in for the remote text extraction step: a
// client can read back what the region says before sending it on for speech
// synthesis, or check that the selection actually covers the text it meant
// to pick.
//
// # Prerequisites
//
// Tesseract and its language data must be installed on the system:
//   - Ubuntu/Debian: apt-get install tesseract-ocr tesseract-ocr-eng
//   - macOS: brew install tesseract
//   - Windows: Download from https://github.com/UB-Mannheim/tesseract/wiki
//
// Set TESSDATA_PREFIX if the language files live outside Tesseract's
// default search path.
//
// # Coordinates
//
// Recognize reports word bounds relative to the image it was given.
// RecognizeCrop shifts them into source image coordinates using the crop's
// bounds, so they line up with the screenshot the region was cut from.
//
// # Error Handling
//
// Functions return errors for:
//   - Empty or undecodable image data
//   - Unsupported language codes
//   - Tesseract initialization failures
//
// If word bounding boxes cannot be read, the recognized text is still
// returned with an empty Regions slice.
package ocr
