// Package models defines domain entities for the schematic material viewer client.
//
// The package contains the types shared by every layer of the client:
//
//  1. Document content: [Row] is one material record (five descriptive cells
//     plus a [Status] cell) and marshals to the positional JSON array the
//     tracking service uses on the wire. [Counts] holds the aggregate totals
//     derived from a row set.
//  2. File metadata: [FileInfo] mirrors the entries returned by the
//     /file_list and /all_files endpoints.
//
// Rows have no stable identifier; they are addressed by position within the
// open document, so only in-place status edits can be synchronized.
package models
