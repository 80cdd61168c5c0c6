package modelio

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"io"

	"github.com/vecforge/vecforge/pkg/vecforgeerr"
	"github.com/vmihailenco/msgpack/v5"
)

// MagicBytes identifies a vecforge-encoded model stream.
const MagicBytes = "VFM1"

// FormatVersion is incremented whenever the wire layout changes incompatibly.
const FormatVersion = 1

// header precedes the gzip-compressed msgpack payload on the wire.
type header struct {
	Magic    [4]byte
	Version  uint16
	DataLen  uint64
	Checksum uint32
}

// Codec encodes and decodes Model values to a compressed, checksummed byte
// stream.
type Codec struct {
	compLevel int
}

// NewCodec returns a codec using gzip.BestSpeed, favoring encode/decode
// throughput over size for what is typically a local-disk model artifact.
func NewCodec() *Codec {
	return &Codec{compLevel: gzip.BestSpeed}
}

// EncodeModel serializes m to a self-describing byte stream.
func EncodeModel(m *Model) ([]byte, error) {
	return NewCodec().Encode(m)
}

// DecodeModel reverses EncodeModel.
func DecodeModel(raw []byte) (*Model, error) {
	return NewCodec().Decode(raw)
}

func (c *Codec) Encode(m *Model) ([]byte, error) {
	data, err := msgpack.Marshal(m)
	if err != nil {
		return nil, vecforgeerr.Wrap(vecforgeerr.IO, "marshal model", err)
	}

	compressed, err := compress(data, c.compLevel)
	if err != nil {
		return nil, vecforgeerr.Wrap(vecforgeerr.IO, "compress model", err)
	}

	var h header
	copy(h.Magic[:], MagicBytes)
	h.Version = FormatVersion
	h.DataLen = uint64(len(compressed))
	h.Checksum = checksum(compressed)

	buf := new(bytes.Buffer)
	if err := binary.Write(buf, binary.LittleEndian, h); err != nil {
		return nil, vecforgeerr.Wrap(vecforgeerr.IO, "write model header", err)
	}
	buf.Write(compressed)
	return buf.Bytes(), nil
}

func (c *Codec) Decode(raw []byte) (*Model, error) {
	buf := bytes.NewReader(raw)

	var h header
	if err := binary.Read(buf, binary.LittleEndian, &h); err != nil {
		return nil, vecforgeerr.Wrap(vecforgeerr.IO, "read model header", err)
	}
	if string(h.Magic[:]) != MagicBytes {
		return nil, vecforgeerr.New(vecforgeerr.IO, "invalid model magic bytes")
	}
	if h.Version > FormatVersion {
		return nil, vecforgeerr.New(vecforgeerr.IO, "unsupported model format version")
	}

	compressed := make([]byte, h.DataLen)
	if _, err := io.ReadFull(buf, compressed); err != nil {
		return nil, vecforgeerr.Wrap(vecforgeerr.IO, "read model payload", err)
	}
	if checksum(compressed) != h.Checksum {
		return nil, vecforgeerr.New(vecforgeerr.IO, "model checksum mismatch")
	}

	data, err := decompress(compressed)
	if err != nil {
		return nil, vecforgeerr.Wrap(vecforgeerr.IO, "decompress model", err)
	}

	var m Model
	if err := msgpack.Unmarshal(data, &m); err != nil {
		return nil, vecforgeerr.Wrap(vecforgeerr.IO, "unmarshal model", err)
	}
	return &m, nil
}

func compress(data []byte, level int) ([]byte, error) {
	var buf bytes.Buffer
	w, err := gzip.NewWriterLevel(&buf, level)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		w.Close()
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decompress(data []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

// checksum is a simple polynomial rolling sum, matching the style (not the
// bytes) of the teacher's own binary codec.
func checksum(data []byte) uint32 {
	var sum uint32
	for _, b := range data {
		sum = sum*31 + uint32(b)
	}
	return sum
}
