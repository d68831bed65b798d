package check

import (
	"encoding/binary"
	"errors"
	"sync"

	"github.com/hupe1980/anongo/config"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Snapshot blocks are compressed independently with an 8 byte header:
// [UncompressedSize uint32][CompressedSize uint32][Data...]. A compressed
// size of zero marks an uncompressed block, used when compression does not
// pay off.
const blockHeaderSize = 8

var errCorruptBlock = errors.New("check: corrupt snapshot block")

var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil)
	return dec
}

// compressBlock compresses data with the configured algorithm. For
// CompressionNone the input is returned as is, without a header.
func compressBlock(data []byte, c config.Compression) ([]byte, error) {
	if c == config.CompressionNone || len(data) == 0 {
		return data, nil
	}

	var compressed []byte
	switch c {
	case config.CompressionLZ4:
		bound := lz4.CompressBlockBound(len(data))
		buf := make([]byte, bound)
		n, err := lz4.CompressBlock(data, buf, nil)
		if err != nil {
			return nil, err
		}
		compressed = buf[:n] // n == 0 means incompressible
	case config.CompressionZSTD:
		enc := getZstdEncoder()
		compressed = enc.EncodeAll(data, nil)
		zstdEncoderPool.Put(enc)
	default:
		return data, nil
	}

	// Store uncompressed if compression does not gain at least 10%.
	if len(compressed) == 0 || float64(len(compressed)) > float64(len(data))*0.9 {
		result := make([]byte, blockHeaderSize+len(data))
		binary.LittleEndian.PutUint32(result[0:], uint32(len(data)))
		binary.LittleEndian.PutUint32(result[4:], 0)
		copy(result[blockHeaderSize:], data)
		return result, nil
	}

	result := make([]byte, blockHeaderSize+len(compressed))
	binary.LittleEndian.PutUint32(result[0:], uint32(len(data)))
	binary.LittleEndian.PutUint32(result[4:], uint32(len(compressed)))
	copy(result[blockHeaderSize:], compressed)
	return result, nil
}

// decompressBlock reverses compressBlock.
func decompressBlock(data []byte, c config.Compression) ([]byte, error) {
	if c == config.CompressionNone || len(data) == 0 {
		return data, nil
	}
	if len(data) < blockHeaderSize {
		return nil, errCorruptBlock
	}

	uncompressedSize := binary.LittleEndian.Uint32(data[0:])
	compressedSize := binary.LittleEndian.Uint32(data[4:])

	if compressedSize == 0 {
		if uint32(len(data)) < blockHeaderSize+uncompressedSize {
			return nil, errCorruptBlock
		}
		return data[blockHeaderSize : blockHeaderSize+uncompressedSize], nil
	}

	if uint32(len(data)) < blockHeaderSize+compressedSize {
		return nil, errCorruptBlock
	}
	compressed := data[blockHeaderSize : blockHeaderSize+compressedSize]
	result := make([]byte, uncompressedSize)

	switch c {
	case config.CompressionLZ4:
		n, err := lz4.UncompressBlock(compressed, result)
		if err != nil {
			return nil, err
		}
		if uint32(n) != uncompressedSize {
			return nil, errCorruptBlock
		}
		return result, nil
	case config.CompressionZSTD:
		dec := getZstdDecoder()
		decoded, err := dec.DecodeAll(compressed, result[:0])
		zstdDecoderPool.Put(dec)
		if err != nil {
			return nil, err
		}
		if uint32(len(decoded)) != uncompressedSize {
			return nil, errCorruptBlock
		}
		return decoded, nil
	default:
		return nil, errCorruptBlock
	}
}
