// Package extract turns assembled column blocks into register records and
// repairs the numbering defects typical of OCR'd registers.
//
// # Rows
//
// Records are formed per page from the blocks of the page's anchor column
// (the lfd. Nr. column, or the reference column of annotation tables). When
// another column has as many blocks as the anchor, block i belongs to row i.
// Otherwise each block joins the last anchor row that starts at most
// [Config.RowLookback] above it; a block with no such row opens a row of its
// own with an empty number.
//
// # Repair
//
// [Repair] runs two passes over the records of a section:
//
//  1. Zero-row absorption: a record numbered 0 is a missed read. Fields it
//     supplies that its predecessor lacks move onto the predecessor; an
//     emptied zero-row is dropped, a non-empty one inherits the predecessor's
//     number.
//  2. Monotonicity: a number smaller than the last valid one is replaced by
//     last+1 when the next number is last+2, or by the next number when that
//     is last+1 and the record names last as its predecessor. Anything else
//     is reported as a consistency error.
//
// Both passes are idempotent. Problems are attached to the affected records;
// no pass ever discards a record with content or aborts a section.
package extract
