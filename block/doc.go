// Package block implements the codec for a single SBF block.
//
// An SBF block is a variable-length, CRC-protected binary record:
//
//	+------+------+-----+-----+--------+----------------------+
//	| '$'  | '@'  | CRC | ID  | Length | body ...             |
//	+------+------+-----+-----+--------+----------------------+
//	  1      1      2     2     2        Length-8 bytes
//
// Length counts the whole block including the 8-byte header and is
// always a multiple of four. ID packs a block number in bits 0-12 and
// a revision in bits 13-15. The CRC is CRC16-CCITT over everything
// after the CRC field itself. Time-stamped blocks open their body
// with a time-of-week in milliseconds (uint32) and a week number
// (uint16); either field may carry its do-not-use value.
//
// A Block keeps the raw encoded bytes and answers questions about
// them: identity, timestamp, category and CRC validity. Blocks are
// immutable once built; Decode copies its input and New assembles a
// fresh block with a correct CRC.
package block
