package badger

import "encoding/binary"

// Key prefixes for different data types. No prefix is a prefix of another,
// so prefix iteration never picks up a sibling's keys.
const (
	productPrefix   = "catprod"
	vectorPrefix    = "catvec"
	snapshotMetaKey = "catmeta"
)

// makeProductKey generates a key for the catalog product at the given
// position. Positions are written in BigEndian order so prefix iteration
// returns products in catalog order.
func makeProductKey(position int) []byte {
	return makePositionKey(productPrefix, position)
}

// makeVectorKey generates a key for the product vector at the given position.
func makeVectorKey(position int) []byte {
	return makePositionKey(vectorPrefix, position)
}

// makeSnapshotMetaKey generates the key for snapshot metadata. There is only
// ever one persisted snapshot.
func makeSnapshotMetaKey() []byte {
	return []byte(snapshotMetaKey)
}

func makePositionKey(prefix string, position int) []byte {
	prefixBytes := []byte(prefix + ":")
	buf := make([]byte, len(prefixBytes)+8)
	offset := copy(buf, prefixBytes)
	binary.BigEndian.PutUint64(buf[offset:], uint64(position))
	return buf
}
