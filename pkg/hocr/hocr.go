// Package hocr implements parsing and generation of hOCR, the HTML-based format for OCR
// results, and converts between hOCR and the glyph model used by the aligner.
//
// The package implements the hierarchical structure defined in the hOCR format:
// Document → Pages → Areas → Paragraphs → Lines → Words → Characters, with metadata at each
// level. Character geometry is read from ocrx_cinfo elements or from Tesseract's x_bboxes
// word property.
//
// Key Types:
//
// - HOCR: Top-level structure representing an entire hOCR document
// - Page: Represents a single page with class 'ocr_page'
// - Area: Represents a content area with class 'ocr_carea'
// - Paragraph: Represents a paragraph with class 'ocr_par'
// - Line: Represents a line of text with class 'ocr_line'
// - Word: Represents a single word with class 'ocrx_word'
// - Char: Represents a single character with class 'ocrx_cinfo'
// - BoundingBox: Represents a rectangle with coordinates for positioning elements
//
// Main Functions:
//
// - ParseHOCR: Parses hOCR data from HTML into the object model
// - Glyphs: Flattens a parsed page into reading-order glyphs for alignment
// - FromSyllableBoxes: Builds a document holding one word per syllable box
// - GenerateHOCRDocument: Generates valid hOCR HTML from the object model
package hocr
