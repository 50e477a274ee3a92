package snapshot

import (
	"bytes"
	"encoding"
	"encoding/binary"
	"encoding/json"
	"math"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
)

var (
	// Assert that Node implements the binary encoding interfaces.
	_ encoding.BinaryMarshaler   = (*Node)(nil)
	_ encoding.BinaryUnmarshaler = (*Node)(nil)

	CodecVersion    = uint16(1)
	CodecMagicBytes = crypto.Keccak256([]byte("0g-namespace-snapshot-codec"))
)

// headerSize is MagicBytes + CodecVersion (2 bytes) + document length (4 bytes).
var headerSize = len(CodecMagicBytes) + 2 + 4

// Encode serializes a snapshot record tree into the binary format.
func Encode(node *Node) ([]byte, error) {
	return node.MarshalBinary()
}

// Decode parses the binary format into a snapshot record tree.
func Decode(data []byte) (*Node, error) {
	var node Node
	if err := node.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	return &node, nil
}

// MarshalBinary implements the encoding.BinaryMarshaler interface.
func (node *Node) MarshalBinary() ([]byte, error) {
	doc, err := json.Marshal(node)
	if err != nil {
		return nil, errors.WithMessage(err, "failed to marshal snapshot to JSON")
	}

	if len(doc) > math.MaxUint32 {
		return nil, errors.New("snapshot too large")
	}

	data := make([]byte, headerSize+len(doc))
	offset := 0

	copy(data[offset:], CodecMagicBytes)
	offset += len(CodecMagicBytes)

	binary.BigEndian.PutUint16(data[offset:], CodecVersion)
	offset += 2

	binary.BigEndian.PutUint32(data[offset:], uint32(len(doc)))
	offset += 4

	copy(data[offset:], doc)

	return data, nil
}

// UnmarshalBinary implements the encoding.BinaryUnmarshaler interface.
func (node *Node) UnmarshalBinary(data []byte) error {
	offset := 0
	datalen := len(data)

	if datalen < offset+len(CodecMagicBytes) {
		return errors.New("not enough data to read magic bytes")
	}
	if !bytes.Equal(data[offset:offset+len(CodecMagicBytes)], CodecMagicBytes) {
		return errors.New("invalid magic bytes")
	}
	offset += len(CodecMagicBytes)

	if datalen < offset+2 {
		return errors.New("not enough data to read codec version")
	}
	version := binary.BigEndian.Uint16(data[offset : offset+2])
	if version != CodecVersion {
		return errors.Errorf("unsupported codec version: got %d, expected %d", version, CodecVersion)
	}
	offset += 2

	if datalen < offset+4 {
		return errors.New("not enough data to read document length")
	}
	docLength := int(binary.BigEndian.Uint32(data[offset : offset+4]))
	offset += 4

	if datalen < offset+docLength {
		return errors.New("not enough data to read JSON document")
	}

	if err := json.Unmarshal(data[offset:offset+docLength], node); err != nil {
		return errors.WithMessage(err, "failed to unmarshal snapshot from JSON")
	}

	return nil
}
