package frame

/*
Package frame wraps count trie, code table and symbol streams in a small self
describing container, so a reader needs nothing but the bytes to decode them.

# Layout

A V1 frame is a fixed 32 byte header, a CBOR metadata block and the bit stream
payload:

	[0:4]   magic "CTF1"
	[4]     version (1)
	[5]     kind: 1 counts, 2 table, 3 symbols
	[6]     flags: bit0 binomial window coding, bit1 inline checks
	[7]     reserved, zero
	[8:12]  metadata length in bytes, big-endian
	[12:16] payload length in bytes, big-endian
	[16:24] xxhash64 of metadata followed by payload, big-endian
	[24:32] reserved, zero

The metadata is encoded with the CBOR core deterministic options, so a frame
for the same content and ID is byte identical wherever it is produced. It
carries the trie depth, the number of keys and their total weight, and for
symbol frames the ID of the table frame the symbols were coded with.

The flags are the stream settings the payload was written with. Decoders take
them from the header rather than from their own options, so a frame is never
read with the wrong settings.

# Uninitialized regions

A region whose magic is all zero is reported as not initialized (ok=false
from DecodeHeaderV1) rather than as an error, so frames can be persisted into
preallocated, zero filled storage.

# Versioning

The layout is versioned by the `V1` suffix on every function and constant. A
future layout is added side by side as `V2`, leaving persisted V1 frames
readable.

*/
